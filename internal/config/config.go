package config

import (
	"fmt"     // DSN formatting
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"time"    // Durations

	"github.com/joho/godotenv" // For loading .env files
)

// Supported values for DB_DRIVER and SMS_PROVIDER
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"

	SMSOnfon  = "onfon"
	SMSTwilio = "twilio"
	SMSLog    = "log"
)

// Config holds the application configuration
type Config struct {
	AppPort    string        // Application port
	DBDriver   string        // mysql or postgres
	DBUser     string        // Database user
	DBPassword string        // Database password
	DBHost     string        // Database host
	DBPort     string        // Database port
	DBName     string        // Database name
	JWTSecret  string        // JWT secret key
	JWTTTL     time.Duration // Token lifetime
	BcryptCost int           // PIN hashing cost
	RedisAddr  string        // Redis server address, empty disables caching
	RedisPass  string        // Redis password
	RedisDB    int           // Redis database number
	CacheTTL   time.Duration // Listing cache lifetime
	IsProd     bool          // Is production environment
	LogLevel   string        // logrus level name

	SMS SMSConfig // Outbound SMS gateway
}

// SMSConfig selects and configures the SMS gateway
type SMSConfig struct {
	Provider    string // onfon, twilio or log
	CountryCode string // Dialling prefix applied to local numbers

	OnfonBaseURL  string // Onfon API root
	OnfonAPIKey   string // Onfon API key
	OnfonClientID string // Onfon client id
	OnfonSenderID string // Onfon sender name

	TwilioAccountSID string // Twilio account
	TwilioAuthToken  string // Twilio token
	TwilioFrom       string // Twilio sending number
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	return &Config{
		AppPort:    getEnv("APP_PORT", "8080"),
		DBDriver:   getEnv("DB_DRIVER", DriverMySQL),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     os.Getenv("DB_PORT"),
		DBName:     os.Getenv("DB_NAME"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		JWTTTL:     getDuration("JWT_TTL", 7*24*time.Hour),
		BcryptCost: getInt("BCRYPT_COST", 10),
		RedisAddr:  os.Getenv("REDIS_ADDR"),
		RedisPass:  os.Getenv("REDIS_PASS"),
		RedisDB:    getInt("REDIS_DB", 0),
		CacheTTL:   getDuration("CACHE_TTL", time.Minute),
		IsProd:     os.Getenv("IS_PROD") == "true",
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		SMS: SMSConfig{
			Provider:         getEnv("SMS_PROVIDER", SMSLog),
			CountryCode:      getEnv("SMS_COUNTRY_CODE", "254"),
			OnfonBaseURL:     getEnv("ONFON_BASE_URL", "https://api.onfonmedia.co.ke"),
			OnfonAPIKey:      os.Getenv("ONFON_API_KEY"),
			OnfonClientID:    os.Getenv("ONFON_CLIENT_ID"),
			OnfonSenderID:    os.Getenv("ONFON_SENDER_ID"),
			TwilioAccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
			TwilioAuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
			TwilioFrom:       os.Getenv("TWILIO_FROM_NUMBER"),
		},
	}
}

// Validate reports settings the server cannot start without
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	switch c.DBDriver {
	case DriverMySQL, DriverPostgres:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	switch c.SMS.Provider {
	case SMSOnfon, SMSTwilio, SMSLog:
	default:
		return fmt.Errorf("unsupported SMS_PROVIDER %q", c.SMS.Provider)
	}
	return nil
}

// DSN builds the data source name for the configured driver
func (c *Config) DSN() string {
	if c.DBDriver == DriverPostgres {
		port := c.DBPort
		if port == "" {
			port = "5432"
		}
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			c.DBHost, c.DBUser, c.DBPassword, c.DBName, port)
	}
	port := c.DBPort
	if port == "" {
		port = "3306"
	}
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + port + ")/" + c.DBName + "?charset=utf8mb4&parseTime=true&loc=UTC"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
