package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string
	NodeID      int64

	OTLPEndpoint string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int

	Billing     BillingConfig
	Entitlement EntitlementConfig
}

// BillingConfig carries the external payment processor settings.
type BillingConfig struct {
	WebhookSecret      string
	ProviderBaseURL    string
	ProviderAPIKey     string
	ProviderTimeoutSec int
	CheckoutSuccessURL string
	CheckoutCancelURL  string
	PortalReturnURL    string
}

// EntitlementConfig carries tunables for the entitlement core.
type EntitlementConfig struct {
	// DefaultCreditGrant is the reply-credit balance set when a claim
	// transitions to verified.
	DefaultCreditGrant int
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:     getenv("APP_SERVICE", "reclamo"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),
		NodeID:      getenvInt64("SNOWFLAKE_NODE_ID", 1),

		OTLPEndpoint: getenv("OTLP_ENDPOINT", "localhost:4317"),

		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "reclamo"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 25),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 3600),

		Billing: BillingConfig{
			WebhookSecret:      strings.TrimSpace(getenv("BILLING_WEBHOOK_SECRET", "")),
			ProviderBaseURL:    strings.TrimSpace(getenv("BILLING_PROVIDER_BASE_URL", "https://api.pay.example.com")),
			ProviderAPIKey:     strings.TrimSpace(getenv("BILLING_PROVIDER_API_KEY", "")),
			ProviderTimeoutSec: getenvInt("BILLING_PROVIDER_TIMEOUT_SEC", 10),
			CheckoutSuccessURL: getenv("BILLING_CHECKOUT_SUCCESS_URL", "https://app.reclamo.example.com/billing/success"),
			CheckoutCancelURL:  getenv("BILLING_CHECKOUT_CANCEL_URL", "https://app.reclamo.example.com/billing/cancel"),
			PortalReturnURL:    getenv("BILLING_PORTAL_RETURN_URL", "https://app.reclamo.example.com/settings/billing"),
		},
		Entitlement: EntitlementConfig{
			DefaultCreditGrant: getenvInt("ENTITLEMENT_DEFAULT_CREDIT_GRANT", 5),
		},
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvInt64(key string, def int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return def
	}
	return parsed
}
