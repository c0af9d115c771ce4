package database

import (
	"database/sql"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// SaveMetric stores an unlabeled metric value.
func SaveMetric(metricName string, value float64) error {
	query := `
	INSERT OR REPLACE INTO metrics (metric_name, label_key, label_value, metric_value)
	VALUES (?, NULL, NULL, ?);`
	if _, err := DB.Exec(query, metricName, value); err != nil {
		return errors.Wrapf(err, "failed to save metric %s", metricName)
	}
	log.Debugf("Metric saved: %s = %f", metricName, value)
	return nil
}

// GetMetric reads an unlabeled metric value, defaulting to 0 when absent.
func GetMetric(metricName string) (float64, error) {
	var value float64
	query := `
	SELECT metric_value
	FROM metrics
	WHERE metric_name = ? AND label_key IS NULL AND label_value IS NULL;`
	err := DB.QueryRow(query, metricName).Scan(&value)
	if err == sql.ErrNoRows {
		log.Debugf("Metric %s not found in the database, defaulting to 0", metricName)
		return 0, nil
	} else if err != nil {
		return 0, errors.Wrapf(err, "failed to get metric %s", metricName)
	}
	return value, nil
}

// SaveMetricWithLabels stores a labeled metric value.
func SaveMetricWithLabels(metricName, labelKey, labelValue string, value float64) error {
	query := `
	INSERT OR REPLACE INTO metrics (metric_name, label_key, label_value, metric_value)
	VALUES (?, ?, ?, ?);`
	if _, err := DB.Exec(query, metricName, labelKey, labelValue, value); err != nil {
		return errors.Wrapf(err, "failed to save metric %s with labels", metricName)
	}
	log.Debugf("Metric with labels saved: %s[%s=%s] = %f", metricName, labelKey, labelValue, value)
	return nil
}

// GetMetricsWithLabels fetches all labeled values for a given metric name.
func GetMetricsWithLabels(metricName string) (map[string]map[string]float64, error) {
	query := `
	SELECT label_key, label_value, metric_value
	FROM metrics
	WHERE metric_name = ? AND label_key IS NOT NULL AND label_value IS NOT NULL;`

	rows, err := DB.Query(query, metricName)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to query labeled metric %s", metricName)
	}
	defer rows.Close()

	metrics := make(map[string]map[string]float64)
	for rows.Next() {
		var labelKey, labelValue string
		var value float64
		if err := rows.Scan(&labelKey, &labelValue, &value); err != nil {
			return nil, errors.Wrap(err, "failed to scan row")
		}

		if _, exists := metrics[labelKey]; !exists {
			metrics[labelKey] = make(map[string]float64)
		}
		metrics[labelKey][labelValue] = value
	}
	return metrics, nil
}
