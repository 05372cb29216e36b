package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	Checkout     CheckoutConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"LECHON_APP_ENV" required:"true"`
	Port         string `envconfig:"LECHON_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"LECHON_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"LECHON_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"LECHON_DB_DSN"`
	Driver string `envconfig:"LECHON_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"LECHON_DB_HOST"`
	Port     int    `envconfig:"LECHON_DB_PORT" default:"5432"`
	User     string `envconfig:"LECHON_DB_USER"`
	Password string `envconfig:"LECHON_DB_PASSWORD"`
	Name     string `envconfig:"LECHON_DB_NAME"`
	SSLMode  string `envconfig:"LECHON_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"LECHON_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"LECHON_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"LECHON_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"LECHON_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"LECHON_REDIS_URL" required:"true"`
	Address      string        `envconfig:"LECHON_REDIS_ADDR"`
	Password     string        `envconfig:"LECHON_REDIS_PASSWORD"`
	DB           int           `envconfig:"LECHON_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"LECHON_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"LECHON_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"LECHON_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LECHON_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"LECHON_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"LECHON_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"LECHON_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"LECHON_JWT_EXPIRATION_MINUTES" required:"true"`
	SessionTTLMinutes int    `envconfig:"LECHON_SESSION_TTL_MINUTES" default:"43200"`
}

// SessionTTL returns the server-side session TTL configured in minutes.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.SessionTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"LECHON_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"LECHON_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"LECHON_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"LECHON_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"LECHON_ARGON_KEY_LEN" default:"32"`
}

// CheckoutConfig carries the checkout flow knobs: the flat delivery fee and
// the front-end paths the API hands back for redirects.
type CheckoutConfig struct {
	DeliveryFee  decimal.Decimal `envconfig:"LECHON_CHECKOUT_DELIVERY_FEE" default:"50"`
	ReceiptPath  string          `envconfig:"LECHON_CHECKOUT_RECEIPT_PATH" default:"/order-record"`
	LoginPath    string          `envconfig:"LECHON_CHECKOUT_LOGIN_PATH" default:"/login"`
	CheckoutPath string          `envconfig:"LECHON_CHECKOUT_PATH" default:"/payment"`
	CartTTL      time.Duration   `envconfig:"LECHON_CART_TTL" default:"720h"`
}

// LoginRedirect builds the login URL carrying the return-destination marker.
func (c CheckoutConfig) LoginRedirect() string {
	return fmt.Sprintf("%s?redirect=%s", c.LoginPath, c.CheckoutPath)
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"LECHON_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"LECHON_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range requiredDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
