package telemetry

import (
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// InstrumentGorm adds a span per query. Query parameters are left out unless
// withVariables is set, statements may carry customer data.
func InstrumentGorm(db *gorm.DB, dbName string, withVariables bool, logger *zap.Logger) error {
	opts := []otelgorm.Option{otelgorm.WithDBName(dbName)}
	if !withVariables {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}
	logger.Debug("database tracing enabled", zap.String("db_name", dbName))
	return nil
}
