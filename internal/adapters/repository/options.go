package repository

import "time"

// PostgresOption applies a configuration option to the Postgres store.
type PostgresOption func(*Postgres)

// WithQueryTimeout bounds every store query. Non-positive values are ignored.
func WithQueryTimeout(timeout time.Duration) PostgresOption {
	return func(p *Postgres) {
		if timeout > 0 {
			p.queryTimeout = timeout
		}
	}
}
