// Package server exposes the collector's read surface: health, stats,
// tracked markets and recent prices, plus Prometheus metrics. Query
// responses can be fronted by a Redis read-through cache so dashboards
// polling frequently do not hammer PostgreSQL.
package server
