// Package store persists collected market data to PostgreSQL and serves
// the read queries used by the HTTP surface. Time-series writes go
// through pgx batches; match-end writes rely on unique constraints for
// idempotency.
package store
