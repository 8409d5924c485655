package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	// RegistrationsTotal counts successful account registrations.
	RegistrationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inkwell_registrations_total",
		Help: "Total number of successful account registrations",
	})

	// LoginsTotal counts login attempts by outcome.
	LoginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_logins_total",
		Help: "Total number of login attempts by outcome",
	}, []string{"outcome"})

	// PostsTotal counts created posts by visibility.
	PostsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_posts_total",
		Help: "Total number of posts created, labeled draft or published",
	}, []string{"visibility"})

	// CommentsTotal counts created comments by depth.
	CommentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_comments_total",
		Help: "Total number of comments created, labeled top_level or reply",
	}, []string{"depth"})

	// UploadsTotal counts profile picture uploads by outcome.
	UploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_uploads_total",
		Help: "Total number of profile picture uploads by outcome",
	}, []string{"outcome"})

	// PasswordResetsTotal counts reset-flow events by stage.
	PasswordResetsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_password_resets_total",
		Help: "Total number of password reset events by stage",
	}, []string{"stage"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "inkwell_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})
)

const queryStartKey = "observability:query_start"

// RegisterQueryMetrics installs GORM callbacks that time every
// statement and feed DatabaseQueryLatency.
func RegisterQueryMetrics(db *gorm.DB) error {
	before := func(d *gorm.DB) {
		d.InstanceSet(queryStartKey, time.Now())
	}
	after := func(operation string) func(*gorm.DB) {
		return func(d *gorm.DB) {
			v, ok := d.InstanceGet(queryStartKey)
			if !ok {
				return
			}
			start, ok := v.(time.Time)
			if !ok {
				return
			}
			DatabaseQueryLatency.
				WithLabelValues(operation, d.Statement.Table).
				Observe(time.Since(start).Seconds())
		}
	}

	cb := db.Callback()
	if err := cb.Create().Before("gorm:create").Register("observability:before_create", before); err != nil {
		return err
	}
	if err := cb.Create().After("gorm:create").Register("observability:after_create", after("create")); err != nil {
		return err
	}
	if err := cb.Query().Before("gorm:query").Register("observability:before_query", before); err != nil {
		return err
	}
	if err := cb.Query().After("gorm:query").Register("observability:after_query", after("select")); err != nil {
		return err
	}
	if err := cb.Update().Before("gorm:update").Register("observability:before_update", before); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("observability:after_update", after("update")); err != nil {
		return err
	}
	if err := cb.Delete().Before("gorm:delete").Register("observability:before_delete", before); err != nil {
		return err
	}
	if err := cb.Delete().After("gorm:delete").Register("observability:after_delete", after("delete")); err != nil {
		return err
	}
	return nil
}
