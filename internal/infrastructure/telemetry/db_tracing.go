package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type contextKey string

const queryStartKey contextKey = "telemetry.query_start"

// DBTracing registers otelgorm and annotates SQL spans that run longer than
// the slow threshold
type DBTracing struct {
	slowThreshold time.Duration
	withVariables bool
	logger        *zap.Logger
}

// NewDBTracing creates the SQL tracing plugin. Query variables are only
// recorded when withVariables is set.
func NewDBTracing(slowThreshold time.Duration, withVariables bool, logger *zap.Logger) *DBTracing {
	if slowThreshold <= 0 {
		slowThreshold = 200 * time.Millisecond
	}
	return &DBTracing{slowThreshold: slowThreshold, withVariables: withVariables, logger: logger}
}

// Register installs the plugin on db
func (p *DBTracing) Register(db *gorm.DB) error {
	opts := []otelgorm.Option{otelgorm.WithDBName("postgresql")}
	if !p.withVariables {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	cb := db.Callback()
	steps := []struct {
		before, after func(name string, fn func(*gorm.DB)) error
		op            string
	}{
		{cb.Create().Before("gorm:create").Register, cb.Create().After("gorm:create").Register, "create"},
		{cb.Query().Before("gorm:query").Register, cb.Query().After("gorm:query").Register, "query"},
		{cb.Update().Before("gorm:update").Register, cb.Update().After("gorm:update").Register, "update"},
		{cb.Delete().Before("gorm:delete").Register, cb.Delete().After("gorm:delete").Register, "delete"},
		{cb.Row().Before("gorm:row").Register, cb.Row().After("gorm:row").Register, "row"},
		{cb.Raw().Before("gorm:raw").Register, cb.Raw().After("gorm:raw").Register, "raw"},
	}
	for _, s := range steps {
		if err := s.before("telemetry:start_"+s.op, markStart); err != nil {
			return err
		}
		if err := s.after("telemetry:annotate_"+s.op, p.annotate); err != nil {
			return err
		}
	}

	// Registered after our hooks so the SQL span is still open when annotate runs.
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	p.logger.Info("database tracing enabled", zap.Duration("slow_threshold", p.slowThreshold))
	return nil
}

func markStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartKey, time.Now())
	}
}

func (p *DBTracing) annotate(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		RecordError(span, db.Error)
	}
	if start, ok := ctx.Value(queryStartKey).(time.Time); ok {
		if elapsed := time.Since(start); elapsed > p.slowThreshold {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.duration_ms", elapsed.Milliseconds()),
			)
		}
	}
}
