package config

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// Config holds application-wide settings loaded from the environment.
type Config struct {
	ListenAddr  string
	DatabaseURL string
	JWTSecret   string
	BcryptCost  int
	SessionTTL  time.Duration
}

var (
	appConfig *Config
	db        *sql.DB
)

// Load reads .env (if present) and builds the application config.
// Missing required values are fatal; this runs before the server starts.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file found, using process environment")
	}

	cfg := &Config{
		ListenAddr:  getEnv("LISTEN_ADDR", ":8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		BcryptCost:  getEnvInt("BCRYPT_COST", 12),
		SessionTTL:  time.Duration(getEnvInt("SESSION_TTL_HOURS", 24)) * time.Hour,
	}

	if cfg.DatabaseURL == "" {
		host := getEnv("DB_HOST", "localhost")
		port := getEnvInt("DB_PORT", 5432)
		user := getEnv("DB_USER", "postgres")
		password := os.Getenv("DB_PASSWORD")
		name := getEnv("DB_NAME", "zawadi")
		sslmode := getEnv("DB_SSLMODE", "disable")
		cfg.DatabaseURL = fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			host, port, user, password, name, sslmode)
	}

	if cfg.JWTSecret == "" {
		logrus.Fatal("JWT_SECRET must be set")
	}

	appConfig = cfg
	return cfg
}

// Get returns the loaded config. Load must have been called first.
func Get() *Config {
	if appConfig == nil {
		logrus.Fatal("config.Load has not been called")
	}
	return appConfig
}

// InitDB opens the PostgreSQL pool and verifies connectivity.
func InitDB(cfg *Config) *sql.DB {
	conn, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logrus.WithError(err).Fatal("failed to open database connection")
	}

	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(30 * time.Minute)

	if err := conn.Ping(); err != nil {
		logrus.WithError(err).Fatal("database is unreachable")
	}

	logrus.Info("database connection established")
	db = conn
	return conn
}

// GetDB returns the shared pool opened by InitDB.
func GetDB() *sql.DB {
	return db
}

// InitLogger configures logrus from the environment.
func InitLogger() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if lvl, err := logrus.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		logrus.SetLevel(lvl)
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
