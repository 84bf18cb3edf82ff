package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App    AppConfig
	HTTP   ServerConfig
	MySQL  MySQLConfig
	Log    LogConfig
	Tripay TripayConfig
	Orders OrdersConfig
	Jobs   JobsConfig
}

type AppConfig struct {
	ServiceName string
}

type ServerConfig struct {
	Host string
	Port string
}

type MySQLConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type LogConfig struct {
	Level string
}

type TripayConfig struct {
	MerchantCode      string
	APIKey            string
	PrivateKey        string
	SandboxMode       bool
	ExpiresAfterDays  int
	PaymentChannels   []string
	CheckoutLabel     string
	CallbackURL       string
	ReturnURL         string
	MerchantRefPrefix string
	HTTPTimeout       time.Duration
}

type OrdersConfig struct {
	JobBatchSize int32
}

type JobsConfig struct {
	ExpirePendingInterval time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	mysqlDSN := os.Getenv("MYSQL_DSN")
	if mysqlDSN == "" {
		return nil, errors.New("MYSQL_DSN environment variable is required")
	}

	merchantCode := strings.TrimSpace(os.Getenv("TRIPAY_MERCHANT_CODE"))
	apiKey := strings.TrimSpace(os.Getenv("TRIPAY_API_KEY"))
	privateKey := strings.TrimSpace(os.Getenv("TRIPAY_PRIVATE_KEY"))
	if merchantCode == "" || apiKey == "" || privateKey == "" {
		return nil, errors.New("TRIPAY_MERCHANT_CODE, TRIPAY_API_KEY and TRIPAY_PRIVATE_KEY environment variables are required")
	}

	expiresAfterDays := getIntEnv("TRIPAY_EXPIRES_AFTER_DAYS", 1)
	if expiresAfterDays < 1 || expiresAfterDays > 7 {
		return nil, fmt.Errorf("TRIPAY_EXPIRES_AFTER_DAYS must be between 1 and 7, got %d", expiresAfterDays)
	}

	paymentChannels := getListEnv("TRIPAY_PAYMENT_CHANNELS")
	if len(paymentChannels) == 0 {
		return nil, errors.New("TRIPAY_PAYMENT_CHANNELS environment variable requires at least one channel")
	}

	callbackURL := strings.TrimSpace(os.Getenv("TRIPAY_CALLBACK_URL"))
	if callbackURL == "" {
		return nil, errors.New("TRIPAY_CALLBACK_URL environment variable is required")
	}

	return &Config{
		App: AppConfig{
			ServiceName: getEnv("APP_SERVICE_NAME", "tripay-service"),
		},
		HTTP: ServerConfig{
			Host: getEnv("HTTP_HOST", "0.0.0.0"),
			Port: getEnv("HTTP_PORT", "8080"),
		},
		MySQL: MySQLConfig{
			DSN:             mysqlDSN,
			MaxOpenConns:    getIntEnv("MYSQL_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getIntEnv("MYSQL_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getMinutesEnv("MYSQL_CONN_MAX_LIFETIME_MINUTES", 30*time.Minute),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Tripay: TripayConfig{
			MerchantCode:      merchantCode,
			APIKey:            apiKey,
			PrivateKey:        privateKey,
			SandboxMode:       getBoolEnv("TRIPAY_SANDBOX_MODE", false),
			ExpiresAfterDays:  expiresAfterDays,
			PaymentChannels:   paymentChannels,
			CheckoutLabel:     getEnv("TRIPAY_CHECKOUT_LABEL", "TriPay Payment"),
			CallbackURL:       callbackURL,
			ReturnURL:         strings.TrimSpace(os.Getenv("TRIPAY_RETURN_URL")),
			MerchantRefPrefix: getEnv("TRIPAY_MERCHANT_REF_PREFIX", "EDD"),
			HTTPTimeout:       getSecondsEnv("TRIPAY_HTTP_TIMEOUT_SECONDS", 120*time.Second),
		},
		Orders: OrdersConfig{
			JobBatchSize: int32(getIntEnv("ORDERS_JOB_BATCH_SIZE", 100)),
		},
		Jobs: JobsConfig{
			ExpirePendingInterval: getMinutesEnv("ORDERS_EXPIRE_PENDING_INTERVAL_MINUTES", 5*time.Minute),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getListEnv(key string) []string {
	items := make([]string, 0)
	for _, part := range strings.Split(os.Getenv(key), ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			items = append(items, part)
		}
	}
	return items
}

func getMinutesEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if minutes, err := strconv.Atoi(value); err == nil {
			return time.Duration(minutes) * time.Minute
		}
	}
	return defaultValue
}

func getSecondsEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}
