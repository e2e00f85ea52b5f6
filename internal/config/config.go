package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/MrJamesThe3rd/tally/internal/database"
	"github.com/MrJamesThe3rd/tally/internal/reconcile"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Tally"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"tally"`
		Migrate  bool   `envconfig:"DB_MIGRATE" default:"true"`

		MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
		MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
		ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"5m"`
	}

	Server struct {
		Timeout        time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		AllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:5173"`
		// JWTSecret turns on bearer token checks for the API. Empty leaves it open.
		JWTSecret string `envconfig:"AUTH_JWT_SECRET"`
	}

	API struct {
		URL string `envconfig:"TALLY_API_URL" default:"http://localhost:8080"`
	}

	Reconcile struct {
		AutoLinkThreshold float64 `envconfig:"RECONCILE_AUTO_LINK_THRESHOLD" default:"80"`
		ConfirmThreshold  float64 `envconfig:"RECONCILE_CONFIRM_THRESHOLD" default:"500"`
		// WeightsFile is an optional YAML table overriding the thresholds and
		// the scoring weights.
		WeightsFile string `envconfig:"RECONCILE_WEIGHTS_FILE"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func (c *Config) Pool() database.Pool {
	return database.Pool{
		MaxOpenConns:    c.DB.MaxOpenConns,
		MaxIdleConns:    c.DB.MaxIdleConns,
		ConnMaxLifetime: c.DB.ConnMaxLifetime,
	}
}

// ReconcileTable returns the matcher weights and gate thresholds. Thresholds
// from the environment are overridden by the weights file when it sets them.
func (c *Config) ReconcileTable() (reconcile.Table, error) {
	base := reconcile.Table{
		Weights: reconcile.DefaultWeights(),
		Thresholds: reconcile.Thresholds{
			AutoLink: c.Reconcile.AutoLinkThreshold,
			Confirm:  c.Reconcile.ConfirmThreshold,
		},
	}

	if c.Reconcile.WeightsFile == "" {
		return base, nil
	}

	f, err := os.Open(c.Reconcile.WeightsFile)
	if err != nil {
		return reconcile.Table{}, fmt.Errorf("opening weights file: %w", err)
	}
	defer f.Close()

	return reconcile.LoadTable(f, base)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if cfg.Reconcile.AutoLinkThreshold > cfg.Reconcile.ConfirmThreshold {
		return nil, fmt.Errorf("auto-link threshold %v exceeds confirm threshold %v",
			cfg.Reconcile.AutoLinkThreshold, cfg.Reconcile.ConfirmThreshold)
	}

	return &cfg, nil
}
