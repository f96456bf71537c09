package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	WhatsApp WhatsAppConfig
	Ai       AIConfig
	Matching MatchingConfig
	Visit    VisitConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	InboundTopic       string
	// CartBackend picks where clarification drafts live: "memory" for one
	// instance, "redis" when several instances share the webhook.
	CartBackend    string
	CartTTLMinutes int
	OpsAlertEmail  string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type WhatsAppConfig struct {
	GraphBaseURL  string
	PhoneNumberId string
	AccessToken   string
	VerifyToken   string
	AppSecret     string
}

type AIConfig struct {
	BaseURL             string
	ServiceToken        string
	TextTimeoutSeconds  int
	MediaTimeoutSeconds int
}

type MatchingConfig struct {
	MinScore           float64
	ClarifyThreshold   float64
	TokenExactWeight   float64
	TokenPartialWeight float64
}

type VisitConfig struct {
	RadiusMeters float64
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			InboundTopic:       getEnv("INBOUND_MESSAGE_TOPIC_NAME", "INBOUND_MESSAGE"),
			CartBackend:        getEnv("CART_BACKEND", "memory"),
			CartTTLMinutes:     getEnvAsInt("CART_TTL_MINUTES", 60),
			OpsAlertEmail:      getEnv("OPS_ALERT_EMAIL", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "OrderDesk"),
		},
		WhatsApp: WhatsAppConfig{
			GraphBaseURL:  getEnv("WHATSAPP_GRAPH_BASE_URL", "https://graph.facebook.com/v20.0"),
			PhoneNumberId: getEnv("WHATSAPP_PHONE_NUMBER_ID", ""),
			AccessToken:   getEnv("WHATSAPP_ACCESS_TOKEN", ""),
			VerifyToken:   getEnv("WHATSAPP_VERIFY_TOKEN", ""),
			AppSecret:     getEnv("WHATSAPP_APP_SECRET", ""),
		},
		Ai: AIConfig{
			BaseURL:             getEnv("AI_SERVICE_URL", "http://localhost:8000"),
			ServiceToken:        getEnv("AI_SERVICE_TOKEN", ""),
			TextTimeoutSeconds:  getEnvAsInt("AI_TEXT_TIMEOUT_SECONDS", 30),
			MediaTimeoutSeconds: getEnvAsInt("AI_MEDIA_TIMEOUT_SECONDS", 60),
		},
		Matching: MatchingConfig{
			MinScore:           getEnvAsFloat("MATCH_MIN_SCORE", 0.3),
			ClarifyThreshold:   getEnvAsFloat("MATCH_CLARIFY_THRESHOLD", 0.8),
			TokenExactWeight:   getEnvAsFloat("MATCH_TOKEN_EXACT_WEIGHT", 0.7),
			TokenPartialWeight: getEnvAsFloat("MATCH_TOKEN_PARTIAL_WEIGHT", 0.3),
		},
		Visit: VisitConfig{
			RadiusMeters: getEnvAsFloat("VISIT_RADIUS_METERS", 100),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
