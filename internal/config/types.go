package config

// Config holds all configuration for the application.
type Config struct {
	DBName        string
	MigrationsDir string
	Turso         TursoConfig
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}
