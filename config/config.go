package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/yeremiapane/canteen-pos/utils"
)

type Config struct {
	Port     string
	GinMode  string
	LogLevel string

	DBDriver string
	DBSource string

	JWTSecret string
	JWTTTL    time.Duration

	// EmailDomain, when set, restricts login and registration to that domain.
	EmailDomain   string
	StaffEmail    string
	StaffPassword string

	AllowedOrigins []string
	AuthRateLimit  int // requests per minute per IP on login/register

	ChannelLayer string // "memory" or "redis"
	RedisAddr    string
	RedisPass    string
	RedisDB      int
	RedisPrefix  string

	WSRequireStaff bool
	WSPingInterval time.Duration
	WSPongWait     time.Duration
	WSWriteWait    time.Duration
	WSSendBuffer   int
}

// Load reads .env (if present) and the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		utils.InfoLogger.Debugf("no .env file loaded: %v", err)
	}

	return &Config{
		Port:     getEnv("PORT", "8000"),
		GinMode:  getEnv("GIN_MODE", "debug"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DBDriver: strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DBSource: getEnv("DB_SOURCE", "canteen.db"),

		JWTSecret: getEnv("JWT_SECRET", "changeme"),
		JWTTTL:    getDuration("JWT_TTL", 24*time.Hour),

		EmailDomain:   strings.ToLower(strings.TrimPrefix(getEnv("EMAIL_DOMAIN", ""), "@")),
		StaffEmail:    strings.ToLower(getEnv("STAFF_EMAIL", "")),
		StaffPassword: getEnv("STAFF_PASSWORD", ""),

		AllowedOrigins: getList("CORS_ORIGINS", []string{"http://127.0.0.1:5500", "http://localhost:5500"}),
		AuthRateLimit:  getInt("AUTH_RATE_LIMIT", 10),

		ChannelLayer: strings.ToLower(getEnv("CHANNEL_LAYER", "memory")),
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:    getEnv("REDIS_PASSWORD", ""),
		RedisDB:      getInt("REDIS_DB", 0),
		RedisPrefix:  getEnv("REDIS_PREFIX", "canteen:"),

		WSRequireStaff: getBool("WS_REQUIRE_STAFF", false),
		WSPingInterval: getDuration("WS_PING_INTERVAL", 30*time.Second),
		WSPongWait:     getDuration("WS_PONG_WAIT", 60*time.Second),
		WSWriteWait:    getDuration("WS_WRITE_WAIT", 10*time.Second),
		WSSendBuffer:   getInt("WS_SEND_BUFFER", 64),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		utils.ErrorLogger.Errorf("invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getBool(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		utils.ErrorLogger.Errorf("invalid %s=%q, using %t", key, v, fallback)
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		utils.ErrorLogger.Errorf("invalid %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}

func getList(key string, fallback []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
