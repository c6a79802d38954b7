package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Env        string
	Server     ServerConfig
	SimplyBook SimplyBookConfig
	Schedule   ScheduleConfig
	Booking    BookingConfig
	Facebook   FacebookConfig
	Redis      RedisConfig
	OTEL       OTELConfig
	CORS       CORSConfig
	RateLimit  RateLimitConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string
	Port int
	// TrustedProxies lists CIDRs or IPs allowed to set X-Forwarded-For
	TrustedProxies []string
}

// SimplyBookConfig holds the credentials and endpoint of the SimplyBook.me API
type SimplyBookConfig struct {
	APIURL       string
	CompanyLogin string
	APIKey       string
	UserLogin    string
	UserPassword string
	Timeout      time.Duration
	TokenTTL     time.Duration
}

// UnitConfig is one allow-listed bookable performer
type UnitConfig struct {
	ID   string
	Name string
}

// ScheduleConfig holds the working-hours policy and the bookable units
type ScheduleConfig struct {
	ServiceID       string
	ServiceDuration int
	WorkingDays     []time.Weekday
	WorkStart       string
	WorkEnd         string
	Units           []UnitConfig
}

// BookingConfig holds the booking retry policy
type BookingConfig struct {
	MaxAttempts int
	RetryDelay  time.Duration
}

// FacebookConfig holds Conversions API configuration
type FacebookConfig struct {
	PixelID       string
	AccessToken   string
	APIVersion    string
	BaseURL       string
	TestEventCode string
	Timeout       time.Duration
	HistorySize   int
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	Enabled  bool
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// CORSConfig holds allowed browser origins
type CORSConfig struct {
	AllowedOrigins []string
}

// RateLimitConfig holds per-client request limits for write endpoints
type RateLimitConfig struct {
	RequestsPerMinute int
	Burst             int
}

// Load loads configuration from environment variables, reading an optional .env file first.
func Load() (*Config, error) {
	_ = godotenv.Load()

	workingDays, err := parseWeekdays(getEnv("WORKING_DAYS", "mon,tue,wed,thu,fri"))
	if err != nil {
		return nil, err
	}
	units, err := parseUnits(getEnv("SIMPLYBOOK_UNITS", ""))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Env: getEnv("APP_ENV", "development"),
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			TrustedProxies: getEnvAsList("TRUSTED_PROXIES", nil),
		},
		SimplyBook: SimplyBookConfig{
			APIURL:       strings.TrimRight(getEnv("SIMPLYBOOK_API_URL", "https://user-api.simplybook.me"), "/"),
			CompanyLogin: getEnv("SIMPLYBOOK_COMPANY", ""),
			APIKey:       getEnv("SIMPLYBOOK_API_KEY", ""),
			UserLogin:    getEnv("SIMPLYBOOK_USER_LOGIN", ""),
			UserPassword: getEnv("SIMPLYBOOK_USER_PASSWORD", ""),
			Timeout:      getEnvAsDuration("SIMPLYBOOK_TIMEOUT", 30*time.Second),
			TokenTTL:     getEnvAsDuration("SIMPLYBOOK_TOKEN_TTL", 55*time.Minute),
		},
		Schedule: ScheduleConfig{
			ServiceID:       getEnv("SIMPLYBOOK_SERVICE_ID", "1"),
			ServiceDuration: getEnvAsInt("SERVICE_DURATION_MINUTES", 55),
			WorkingDays:     workingDays,
			WorkStart:       getEnv("WORKING_HOURS_START", "16:00"),
			WorkEnd:         getEnv("WORKING_HOURS_END", "21:00"),
			Units:           units,
		},
		Booking: BookingConfig{
			MaxAttempts: getEnvAsInt("BOOKING_MAX_ATTEMPTS", 3),
			RetryDelay:  getEnvAsDuration("BOOKING_RETRY_DELAY", time.Second),
		},
		Facebook: FacebookConfig{
			PixelID:       getEnv("FACEBOOK_PIXEL_ID", ""),
			AccessToken:   getEnv("FACEBOOK_ACCESS_TOKEN", ""),
			APIVersion:    getEnv("FACEBOOK_API_VERSION", "v18.0"),
			BaseURL:       strings.TrimRight(getEnv("FACEBOOK_GRAPH_URL", "https://graph.facebook.com"), "/"),
			TestEventCode: getEnv("FACEBOOK_TEST_EVENT_CODE", ""),
			Timeout:       getEnvAsDuration("FACEBOOK_TIMEOUT", 10*time.Second),
			HistorySize:   getEnvAsInt("CONVERSION_HISTORY_SIZE", 100),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "coach-landing"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS", []string{"*"}),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 30),
			Burst:             getEnvAsInt("RATE_LIMIT_BURST", 10),
		},
	}

	if cfg.Schedule.ServiceDuration <= 0 {
		return nil, fmt.Errorf("SERVICE_DURATION_MINUTES must be positive, got %d", cfg.Schedule.ServiceDuration)
	}
	if cfg.Booking.MaxAttempts < 1 {
		return nil, fmt.Errorf("BOOKING_MAX_ATTEMPTS must be at least 1, got %d", cfg.Booking.MaxAttempts)
	}

	return cfg, nil
}

// Addr returns the listen address
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// HasCredentials reports whether the SimplyBook API can be reached with real tokens.
func (c *SimplyBookConfig) HasCredentials() bool {
	return c.CompanyLogin != "" && c.APIKey != "" && c.UserLogin != "" && c.UserPassword != ""
}

// Enabled reports whether conversion events can be sent.
func (c *FacebookConfig) Enabled() bool {
	return c.PixelID != "" && c.AccessToken != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday,
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
}

// parseWeekdays accepts "mon,tue" style names or 0-6 numbers (0 = Sunday).
func parseWeekdays(value string) ([]time.Weekday, error) {
	var days []time.Weekday
	for _, raw := range strings.Split(value, ",") {
		item := strings.ToLower(strings.TrimSpace(raw))
		if item == "" {
			continue
		}
		if n, err := strconv.Atoi(item); err == nil && n >= 0 && n <= 6 {
			days = append(days, time.Weekday(n))
			continue
		}
		if len(item) > 3 {
			item = item[:3]
		}
		day, ok := weekdayNames[item]
		if !ok {
			return nil, fmt.Errorf("invalid weekday %q in WORKING_DAYS", raw)
		}
		days = append(days, day)
	}
	return days, nil
}

// parseUnits reads "id:Name,id:Name" pairs.
func parseUnits(value string) ([]UnitConfig, error) {
	var units []UnitConfig
	for _, raw := range strings.Split(value, ",") {
		item := strings.TrimSpace(raw)
		if item == "" {
			continue
		}
		id, name, ok := strings.Cut(item, ":")
		id, name = strings.TrimSpace(id), strings.TrimSpace(name)
		if !ok || id == "" || name == "" {
			return nil, fmt.Errorf("invalid unit %q in SIMPLYBOOK_UNITS, expected id:Name", raw)
		}
		units = append(units, UnitConfig{ID: id, Name: name})
	}
	return units, nil
}
