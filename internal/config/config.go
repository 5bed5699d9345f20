package config // package config loads application configuration from environment variables

import (
    "fmt"
    "os"
    "strconv"
    "strings"
    "time"

    "github.com/joho/godotenv"
    "github.com/rs/zerolog/log"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.
type Config struct {
    Env          string         // application environment (e.g. "local", "prod")
    Port         string         // HTTP port to listen on
    DBUser       string         // database username
    DBPass       string         // database password (optional)
    DBHost       string         // database host address
    DBPort       string         // database port number
    DBName       string         // database name
    DBMigrate    bool           // create missing tables on startup
    JWTSecret    string         // secret used to verify visitor JWTs
    AccessTTLMin int            // access token time-to-live in minutes
    ParkTZ       *time.Location // park timezone; booking dates and times are wall clock here
    AMQPURL      string         // RabbitMQ URL; empty disables activity events
    LogDir       string         // directory of the activity log written by the consumer
}

// Load reads the configuration and exits the process when a required
// variable is missing or malformed.  With APP_ENV=local a .env file in the
// working directory is read first; variables already set win.
func Load() Config {
    if os.Getenv("APP_ENV") == "local" {
        if err := godotenv.Load(); err != nil {
            log.Warn().Err(err).Msg("no .env file loaded")
        }
    }
    cfg, err := Parse()
    if err != nil {
        log.Fatal().Err(err).Msg("invalid configuration")
    }
    return cfg
}

// Parse builds a Config from the current environment.
func Parse() (Config, error) {
    var p parser
    cfg := Config{
        Env:          p.must("APP_ENV"),
        Port:         p.must("APP_PORT"),
        DBUser:       p.must("DB_USER"),
        DBPass:       os.Getenv("DB_PASS"),
        DBHost:       p.must("DB_HOST"),
        DBPort:       p.must("DB_PORT"),
        DBName:       p.must("DB_NAME"),
        DBMigrate:    envBool("DB_AUTO_MIGRATE", false),
        JWTSecret:    p.must("JWT_SECRET"),
        AccessTTLMin: p.mustInt("ACCESS_TOKEN_TTL_MIN"),
        AMQPURL:      firstEnv("RABBITMQ_URL", "AMQP_URL"),
        LogDir:       envStr("BOOKING_LOG_DIR", "logs"),
    }
    if p.err != nil {
        return Config{}, p.err
    }
    tz := envStr("PARK_TIMEZONE", "UTC")
    loc, err := time.LoadLocation(tz)
    if err != nil {
        return Config{}, fmt.Errorf("invalid PARK_TIMEZONE %q: %w", tz, err)
    }
    cfg.ParkTZ = loc
    return cfg, nil
}

// parser keeps the first error so Parse can report one problem at a time.
type parser struct{ err error }

// must retrieves the value of a required environment variable.
func (p *parser) must(key string) string {
    v, ok := os.LookupEnv(key)
    if (!ok || v == "") && p.err == nil {
        p.err = fmt.Errorf("missing required env var: %s", key)
    }
    return v
}

// mustInt is like must() but converts the retrieved string into an integer.
func (p *parser) mustInt(key string) int {
    s := p.must(key)
    if s == "" {
        return 0
    }
    n, err := strconv.Atoi(s)
    if err != nil && p.err == nil {
        p.err = fmt.Errorf("invalid int for %s: %q", key, s)
    }
    return n
}

func firstEnv(keys ...string) string {
    for _, k := range keys {
        if v := strings.TrimSpace(os.Getenv(k)); v != "" {
            return v
        }
    }
    return ""
}
