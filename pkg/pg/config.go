package pg

import "time"

type Config struct {
	ConnectionString string        `env:"PG_CONN_URL,required"`                  // Postgres connection URL
	MaxOpenConns     int32         `env:"PG_MAX_OPEN_CONNS" envDefault:"10"`     // Upper bound on pool size
	MaxIdleConns     int32         `env:"PG_MAX_IDLE_CONNS" envDefault:"5"`      // Connections kept warm
	MaxConnIdleTime  time.Duration `env:"PG_MAX_CONN_IDLE_TIME" envDefault:"10m"`
	MaxConnLifetime  time.Duration `env:"PG_MAX_CONN_LIFETIME" envDefault:"30m"`

	RetryAttempts int           `env:"PG_RETRY_ATTEMPTS" envDefault:"3"` // Startup connection attempts
	RetryInterval time.Duration `env:"PG_RETRY_INTERVAL" envDefault:"5s"`

	MigrationsPath  string `env:"PG_MIGRATIONS_PATH" envDefault:"migrations"`
	MigrationsTable string `env:"PG_MIGRATIONS_TABLE" envDefault:"schema_migrations"`
}
