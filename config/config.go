package config

import (
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Server      ServerConfig
	DB          DBConfig
	JWT         JWTConfig
	Redis       RedisConfig
	RabbitMQ    RabbitMQConfig
	CORS        CORSConfig
	Log         LogConfig
	Reservation ReservationConfig
	SeedFile    string `envconfig:"SEED_FILE"`
}

type ServerConfig struct {
	Port    string `envconfig:"PORT" default:"8080"`
	GinMode string `envconfig:"GIN_MODE" default:"debug"`
}

// DBConfig selects MySQL (production) or SQLite (local runs). SQLiteDSN is
// only read when Driver is "sqlite".
type DBConfig struct {
	Driver    string        `envconfig:"DB_DRIVER" default:"mysql"`
	Host      string        `envconfig:"DB_HOST" default:"localhost"`
	Port      string        `envconfig:"DB_PORT" default:"3306"`
	User      string        `envconfig:"DB_USER" default:"root"`
	Password  string        `envconfig:"DB_PASSWORD"`
	Name      string        `envconfig:"DB_NAME" default:"restaurant_db"`
	SQLiteDSN string        `envconfig:"DB_SQLITE_DSN" default:"restaurant.db"`
	MaxOpen   int           `envconfig:"DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdle   int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	MaxLife   time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"30m"`
}

type JWTConfig struct {
	Secret string        `envconfig:"JWT_SECRET" required:"true"`
	TTL    time.Duration `envconfig:"JWT_TTL" default:"24h"`
}

// RedisConfig is optional; an empty Addr keeps revoked tokens in memory.
type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// RabbitMQConfig is optional; an empty URL disables event publishing.
type RabbitMQConfig struct {
	URL      string `envconfig:"RABBITMQ_URL"`
	Exchange string `envconfig:"RABBITMQ_EXCHANGE" default:"restaurant.events"`
}

type CORSConfig struct {
	AllowOrigins []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://127.0.0.1:5500"`
	MaxAge       time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
}

type ReservationConfig struct {
	Window time.Duration `envconfig:"RESERVATION_WINDOW" default:"2h"`
}

// MySQLDSN builds the go-sql-driver DSN. parseTime is required for gorm to
// scan DATETIME columns into time.Time.
func (c DBConfig) MySQLDSN() string {
	cfg := mysql.NewConfig()
	cfg.User = c.User
	cfg.Passwd = c.Password
	cfg.Net = "tcp"
	cfg.Addr = c.Host + ":" + c.Port
	cfg.DBName = c.Name
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	return cfg.FormatDSN()
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	if cfg.JWT.Secret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET must not be empty")
	}
	if cfg.DB.Driver != "mysql" && cfg.DB.Driver != "sqlite" {
		return Config{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DB.Driver)
	}
	return cfg, nil
}
