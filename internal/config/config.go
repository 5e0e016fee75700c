package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"festops/internal/docstore"
)

type Config struct {
	DBSource   string
	Port       string
	Env        string
	SessionTTL time.Duration
	DocStore   docstore.Config
}

// DemoMode reports whether the server should run on the in-memory store
// instead of Postgres.
func (c *Config) DemoMode() bool {
	return c.DBSource == ""
}

func Load() (*Config, error) {
	dbSource := os.Getenv("DB_SOURCE")
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "development"
	}
	if dbSource == "" && env != "development" {
		return nil, fmt.Errorf("DB_SOURCE environment variable is required outside development")
	}

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	sessionTTL := 24 * time.Hour
	if v := os.Getenv("SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("SESSION_TTL: %w", err)
		}
		sessionTTL = d
	}

	return &Config{
		DBSource:   dbSource,
		Port:       port,
		Env:        env,
		SessionTTL: sessionTTL,
		DocStore: docstore.Config{
			Driver:          docstore.Driver(os.Getenv("DOC_STORE_DRIVER")),
			Root:            os.Getenv("DOC_STORE_PATH"),
			Bucket:          os.Getenv("DOC_STORE_BUCKET"),
			Region:          os.Getenv("DOC_STORE_REGION"),
			Endpoint:        os.Getenv("DOC_STORE_ENDPOINT"),
			AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
			PathStyle:       strings.EqualFold(os.Getenv("DOC_STORE_PATH_STYLE"), "true"),
		},
	}, nil
}
