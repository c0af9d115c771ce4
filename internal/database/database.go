package database

import (
	"database/sql"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	_ "modernc.org/sqlite"
)

var DB *sql.DB

// InitDB opens the sqlite file and creates the metrics table. Alerts are
// deliberately not persisted; the registry is ephemeral by design.
func InitDB(dbPath string) error {
	var err error
	DB, err = sql.Open("sqlite", dbPath)
	if err != nil {
		return errors.Wrap(err, "failed to connect to database")
	}

	createMetricsTable := `
	CREATE TABLE IF NOT EXISTS metrics (
		metric_name TEXT NOT NULL,
		label_key TEXT DEFAULT NULL,
		label_value TEXT DEFAULT NULL,
		metric_value REAL NOT NULL,
		PRIMARY KEY (metric_name, label_key, label_value)
	);`
	if _, err = DB.Exec(createMetricsTable); err != nil {
		return errors.Wrap(err, "failed to create metrics table")
	}

	log.Info("Database initialized successfully.")
	return nil
}

func CloseDB() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}
