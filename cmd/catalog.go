package cmd

import (
	"fmt"
	"io"
	"os"

	"foodgram/internal/database"
	"foodgram/internal/repositories"
	"foodgram/internal/services"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var catalogKinds = []string{"ingredients", "tags"}

// ImportCmd loads catalog rows from a CSV file. Existing rows are skipped.
var ImportCmd = &cobra.Command{
	Use:       "import ingredients|tags <file.csv>",
	Short:     "Import ingredients or tags from CSV",
	Long:      "Ingredients CSV rows are name,measurement_unit; tag rows are name,slug. A header row is optional.",
	Args:      cobra.ExactArgs(2),
	ValidArgs: catalogKinds,
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, path := args[0], args[1]
		file, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer file.Close()

		return withCatalog(func(catalog *services.CatalogService) error {
			var (
				inserted int64
				err      error
			)
			switch kind {
			case "ingredients":
				inserted, err = catalog.ImportIngredients(cmd.Context(), file)
			case "tags":
				inserted, err = catalog.ImportTags(cmd.Context(), file)
			default:
				return fmt.Errorf("unknown catalog %q, expected ingredients or tags", kind)
			}
			if err != nil {
				return err
			}
			log.Info().Str("catalog", kind).Int64("inserted", inserted).Str("file", path).Msg("catalog imported")
			return nil
		})
	},
}

var backupOut string

// BackupCmd dumps a catalog as a JSON array.
var BackupCmd = &cobra.Command{
	Use:       "backup ingredients|tags",
	Short:     "Write ingredients or tags to a JSON file",
	Args:      cobra.ExactArgs(1),
	ValidArgs: catalogKinds,
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := args[0]
		if kind != "ingredients" && kind != "tags" {
			return fmt.Errorf("unknown catalog %q, expected ingredients or tags", kind)
		}
		out := backupOut
		if out == "" {
			out = kind + ".json"
		}

		return withCatalog(func(catalog *services.CatalogService) error {
			file, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", out, err)
			}
			defer file.Close()

			written, err := exportCatalog(cmd, catalog, kind, file)
			if err != nil {
				return err
			}
			log.Info().Str("catalog", kind).Int("rows", written).Str("file", out).Msg("catalog backed up")
			return nil
		})
	},
}

func exportCatalog(cmd *cobra.Command, catalog *services.CatalogService, kind string, w io.Writer) (int, error) {
	if kind == "tags" {
		return catalog.ExportTags(cmd.Context(), w)
	}
	return catalog.ExportIngredients(cmd.Context(), w)
}

func withCatalog(fn func(catalog *services.CatalogService) error) error {
	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer database.Close(db)

	return fn(services.NewCatalogService(
		repositories.NewGORMIngredientRepository(db),
		repositories.NewGORMTagRepository(db),
	))
}

func init() {
	BackupCmd.Flags().StringVar(&backupOut, "out", "", "output file (default <catalog>.json)")
	RootCmd.AddCommand(ImportCmd, BackupCmd)
}
