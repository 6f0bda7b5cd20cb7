package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "foodgram_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// RelationOperations counts favorite and shopping cart toggles.
	RelationOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_relation_operations_total",
			Help: "Total number of relation add/remove operations",
		},
		[]string{"kind", "op", "outcome"}, // outcome: ok, recipe_not_found, relation_exists, relation_not_found, error
	)

	RecipeWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_recipe_writes_total",
			Help: "Total number of recipe create/update/delete operations",
		},
		[]string{"op", "outcome"},
	)

	ShortLinkResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_short_link_resolutions_total",
			Help: "Total number of short link lookups",
		},
		[]string{"outcome"}, // hit, miss
	)

	ShortLinkCollisions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "foodgram_short_link_collisions_total",
			Help: "Total number of generated short link tokens rejected as duplicates",
		},
	)

	ShoppingListDownloads = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "foodgram_shopping_list_downloads_total",
			Help: "Total number of rendered shopping lists",
		},
	)

	EventPublishFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_event_publish_failures_total",
			Help: "Total number of domain events that could not be published",
		},
		[]string{"type"},
	)
)

// RecordHTTPRequest observes one served request.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(duration.Seconds())
}

// RecordRelation counts one relation toggle.
func RecordRelation(kind, op, outcome string) {
	RelationOperations.WithLabelValues(kind, op, outcome).Inc()
}

// RecordRecipeWrite counts one recipe write.
func RecordRecipeWrite(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	RecipeWrites.WithLabelValues(op, outcome).Inc()
}
