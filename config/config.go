package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

type Config struct {
	Port    string `envconfig:"PORT" default:"8080"`
	LogJSON bool   `envconfig:"LOG_JSON" default:"false"`

	MongoURI string `envconfig:"MONGO_URI" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`

	JWTSecret string        `envconfig:"JWT_SECRET" required:"true"`
	TokenTTL  time.Duration `envconfig:"TOKEN_TTL" default:"24h"`
	OtpTTL    time.Duration `envconfig:"OTP_TTL" default:"5m"`

	// Unpaid non-COD orders expire after this and get swept.
	OrderTTL  time.Duration `envconfig:"ORDER_TTL" default:"30m"`
	SweepSpec string        `envconfig:"SWEEP_SPEC" default:"*/5 * * * *"`
	SweepOff  bool          `envconfig:"SWEEP_DISABLED" default:"false"`

	ShippingFee      float64 `envconfig:"SHIPPING_FEE" default:"5"`
	FreeShippingOver float64 `envconfig:"FREE_SHIPPING_OVER" default:"0"`

	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"http://localhost:5173"`

	PayPalBaseURL  string `envconfig:"PAYPAL_BASE_URL" default:"https://api-m.sandbox.paypal.com"`
	PayPalClientID string `envconfig:"PAYPAL_CLIENT_ID"`
	PayPalSecret   string `envconfig:"PAYPAL_SECRET"`
	Currency       string `envconfig:"CURRENCY" default:"USD"`
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}
	return &c, nil
}
