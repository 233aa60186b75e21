package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// SessionSecret signs the session cookie; must be set outside development.
	SessionSecret string        `env:"SESSION_SECRET, default=dev-session-secret"`
	SessionTTL    time.Duration `env:"SESSION_TTL,    default=24h"`

	UploadDir   string `env:"UPLOAD_DIR,   default=web/static/uploads"`
	TemplateDir string `env:"TEMPLATE_DIR, default=web/templates"`
	StaticDir   string `env:"STATIC_DIR,   default=web/static"`

	Mongo     MongoConfig
	Redis     RedisConfig
	Bootstrap BootstrapConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=social_feed"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// BootstrapConfig holds the superuser credentials created when the store is
// empty at startup.
type BootstrapConfig struct {
	Username string `env:"BOOTSTRAP_ADMIN_USER,     default=admin"`
	Password string `env:"BOOTSTRAP_ADMIN_PASSWORD, default=admin"`
	Email    string `env:"BOOTSTRAP_ADMIN_EMAIL,    default=admin@example.com"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
