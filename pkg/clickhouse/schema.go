package clickhouse

import "fmt"

// ObservationsSchema returns the DDL for the observation archive table.
// ReplacingMergeTree keeps the latest fetch of a (series, ts) pair.
func ObservationsSchema(database, table string) []string {
	stmts := make([]string, 0, 2)
	if database != "" {
		stmts = append(stmts, fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", database))
		table = database + "." + table
	}
	stmts = append(stmts, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	series_id  LowCardinality(String),
	source     LowCardinality(String),
	ts         DateTime64(3, 'UTC'),
	value      Float64,
	fetched_at DateTime64(3, 'UTC')
) ENGINE = ReplacingMergeTree(fetched_at)
PARTITION BY toYear(ts)
ORDER BY (series_id, ts)`, table))
	return stmts
}
