// Package config loads server configuration from the environment.
package config

import (
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// Config holds every tunable the server reads at startup. Values come from
// the environment, with a .env file loaded first when present.
type Config struct {
	ListenAddr string `env:"LISTEN_ADDR,default=:8080"`

	// JWTSecret signs bearer credentials. The default exists only so local
	// development works out of the box.
	JWTSecret string        `env:"JWT_SECRET,default=your-secret-key-change-in-production"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,default=168h"`

	// StorePath is the JSON document file. When DATABASE_URL is set the
	// Postgres document store is used instead.
	StorePath    string `env:"STORE_PATH,default=data/db.json"`
	DatabaseURL  string `env:"DATABASE_URL,default="`
	SeedDemoData bool   `env:"SEED_DEMO_DATA,default=true"`

	// PaymentRail selects the rail implementation: "card" or "stellar".
	PaymentRail  string        `env:"PAYMENT_RAIL,default=card"`
	RailTimeout  time.Duration `env:"RAIL_TIMEOUT,default=30s"`
	ConfirmOnPay bool          `env:"PAYMENTS_CONFIRM_ON_PAY,default=false"`

	HorizonURL        string `env:"HORIZON_URL,default=https://horizon-testnet.stellar.org"`
	StellarSeed       string `env:"STELLAR_SEED,default="`
	StellarPassphrase string `env:"STELLAR_NETWORK_PASSPHRASE,default="`

	CORSOrigins string `env:"CORS_ALLOWED_ORIGINS,default=http://localhost:5173"`

	AuthRateLimitRPS   int `env:"AUTH_RATE_LIMIT_RPS,default=5"`
	AuthRateLimitBurst int `env:"AUTH_RATE_LIMIT_BURST,default=10"`
}

// Load reads configuration from the environment. A missing .env file is not
// an error.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// AllowedOrigins returns the CORS origin list.
func (c Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
