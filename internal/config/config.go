package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// Config holds application configuration
type Config struct {
	Port               string
	LogLevel           string
	AllowedOrigins     []string
	AllowedOriginRegex string
	TrustedHosts       []string
	ForceHTTPS         bool
	TrustProxy         bool
	RatePerMinute      int
	RateBurstPerSecond int
	CBRURL             string
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		LogLevel:           getEnv("LOG_LEVEL", "INFO"),
		AllowedOrigins:     splitList(getEnv("ALLOWED_ORIGINS", "https://lifebeyondthe9to5.com,http://localhost:3000")),
		AllowedOriginRegex: getEnv("ALLOWED_ORIGIN_REGEX", `^https://.*\.replit\.(dev|app|co)$`),
		TrustedHosts:       splitList(getEnv("TRUSTED_HOSTS", "*")),
		ForceHTTPS:         getEnvBool("FORCE_HTTPS", false),
		TrustProxy:         getEnvBool("TRUST_PROXY", false),
		RatePerMinute:      getEnvInt("RATE_PER_MINUTE", 15),
		RateBurstPerSecond: getEnvInt("RATE_BURST_PER_SECOND", 3),
		CBRURL:             getEnv("CBR_URL", "https://www.cbr.ru/DailyInfoWebServ/DailyInfo.asmx"),
	}

	if cfg.RatePerMinute <= 0 || cfg.RateBurstPerSecond <= 0 {
		return nil, fmt.Errorf("rate limits must be positive")
	}
	if cfg.AllowedOriginRegex != "" {
		if _, err := regexp.Compile(cfg.AllowedOriginRegex); err != nil {
			return nil, fmt.Errorf("invalid ALLOWED_ORIGIN_REGEX: %w", err)
		}
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultVal
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
