package database

import (
	"time"

	"gorm.io/gorm"
)

const (
	callbackStartKey = "project_sync:stmt_start"
	statsInterval    = 15 * time.Second
)

// MetricsRecorder receives per-statement timings and pool counters
type MetricsRecorder interface {
	RecordDBQuery(operation, table string, duration time.Duration, err error)
	UpdateDBStats(stats interface{})
}

// RegisterMetricsCallbacks wraps every GORM operation with timing callbacks
// feeding the recorder. The table label falls back to "unknown" for raw
// statements GORM cannot attribute.
func RegisterMetricsCallbacks(db *gorm.DB, recorder MetricsRecorder) {
	start := func(db *gorm.DB) {
		db.InstanceSet(callbackStartKey, time.Now())
	}
	finish := func(operation string) func(*gorm.DB) {
		return func(db *gorm.DB) {
			begun, ok := db.InstanceGet(callbackStartKey)
			if !ok {
				return
			}
			table := db.Statement.Table
			if table == "" {
				table = "unknown"
			}
			recorder.RecordDBQuery(operation, table, time.Since(begun.(time.Time)), db.Error)
		}
	}

	db.Callback().Query().Before("gorm:query").Register("project_sync:query_start", start)
	db.Callback().Query().After("gorm:query").Register("project_sync:query_done", finish("select"))
	db.Callback().Create().Before("gorm:create").Register("project_sync:create_start", start)
	db.Callback().Create().After("gorm:create").Register("project_sync:create_done", finish("insert"))
	db.Callback().Update().Before("gorm:update").Register("project_sync:update_start", start)
	db.Callback().Update().After("gorm:update").Register("project_sync:update_done", finish("update"))
	db.Callback().Delete().Before("gorm:delete").Register("project_sync:delete_start", start)
	db.Callback().Delete().After("gorm:delete").Register("project_sync:delete_done", finish("delete"))
}

// StartDBStatsCollector mirrors the connection pool counters into the
// recorder on a fixed interval. Close the returned channel to stop it.
func StartDBStatsCollector(db *gorm.DB, recorder MetricsRecorder) chan struct{} {
	done := make(chan struct{})

	go func() {
		ticker := time.NewTicker(statsInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				sqlDB, err := db.DB()
				if err != nil {
					continue
				}
				recorder.UpdateDBStats(sqlDB.Stats())
			case <-done:
				return
			}
		}
	}()

	return done
}
