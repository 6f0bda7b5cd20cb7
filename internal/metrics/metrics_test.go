package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordRelation(t *testing.T) {
	counter := RelationOperations.WithLabelValues("favorite", "remove", "relation_not_found")
	before := testutil.ToFloat64(counter)

	RecordRelation("favorite", "remove", "relation_not_found")
	RecordRelation("favorite", "remove", "relation_not_found")

	assert.Equal(t, before+2, testutil.ToFloat64(counter))
}

func TestRecordRecipeWriteOutcome(t *testing.T) {
	ok := RecipeWrites.WithLabelValues("create", "ok")
	failed := RecipeWrites.WithLabelValues("create", "error")
	okBefore, failedBefore := testutil.ToFloat64(ok), testutil.ToFloat64(failed)

	RecordRecipeWrite("create", nil)
	RecordRecipeWrite("create", errors.New("boom"))

	assert.Equal(t, okBefore+1, testutil.ToFloat64(ok))
	assert.Equal(t, failedBefore+1, testutil.ToFloat64(failed))
}

func TestRecordHTTPRequest(t *testing.T) {
	RecordHTTPRequest("GET", "/api/recipes/:id", 200, 15*time.Millisecond)
	assert.GreaterOrEqual(t, testutil.CollectAndCount(HTTPRequestDuration), 1)
}
