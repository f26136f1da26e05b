package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	PublicBaseURL string
	LogLevel      string
	LogFormat     string

	// Lead intake (Formspree-style forms backend)
	FormsEndpoint string

	// Conversational model
	GeminiAPIKey      string
	GeminiModelID     string
	GeminiTemperature float64

	// Sales handoff
	WhatsAppNumber string
	BookingLink    string

	// Analytics event queue
	UseMemoryQueue      bool
	AnalyticsQueueURL   string
	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string

	// A/B variant store
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// Shell behaviour
	GreetingDelay       time.Duration
	PurchaseHandoffWait time.Duration
	ChatIdleTTL         time.Duration

	// CORS
	CORSAllowedOrigins []string

	// SendGrid new-lead notifications
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	SalesInbox        string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "json"),

		FormsEndpoint: getEnv("FORMS_ENDPOINT", "https://formspree.io/f/xrezgbrp"),

		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		GeminiModelID:     getEnv("GEMINI_MODEL_ID", "gemini-3-flash-preview"),
		GeminiTemperature: getEnvAsFloat("GEMINI_TEMPERATURE", 0.7),

		WhatsAppNumber: getEnv("WHATSAPP_NUMBER", "+254 722 371 250"),
		BookingLink:    getEnv("BOOKING_LINK", "https://calendly.com/solargearlrd/30min"),

		UseMemoryQueue:      getEnvAsBool("USE_MEMORY_QUEUE", true),
		AnalyticsQueueURL:   getEnv("ANALYTICS_QUEUE_URL", ""),
		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		GreetingDelay:       getEnvAsDuration("GREETING_DELAY", 5*time.Second),
		PurchaseHandoffWait: getEnvAsDuration("PURCHASE_HANDOFF_WAIT", 1500*time.Millisecond),
		ChatIdleTTL:         getEnvAsDuration("CHAT_IDLE_TTL", 30*time.Minute),

		CORSAllowedOrigins: splitAndTrim(getEnv("CORS_ALLOWED_ORIGINS", "*")),

		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "Solar Gear"),
		SalesInbox:        getEnv("SALES_INBOX", ""),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func splitAndTrim(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
