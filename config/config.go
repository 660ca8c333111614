package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Config carries every externally tunable setting. It is loaded once in
// main and injected; packages never read the environment on their own.
type Config struct {
	HTTPAddr    string
	ServiceName string

	MongoURI string
	MongoDB  string

	RedisHost     string
	RedisPort     string
	RedisPassword string

	KafkaBroker string
	KafkaTopic  string

	JWTSecret string

	Gateway   GatewayConfig
	Telegram  TelegramConfig
	ImageHost ImageHostConfig
	FraudURL  string

	JaegerEndpoint string
}

// GatewayConfig describes the external wallet gateway. Checkout builds a
// redirect URL from these values. CallbackURL must be a frontend route:
// the gateway redirects the buyer's browser there with status and trxid
// query parameters, and the frontend relays them to the authenticated
// callback endpoint with the stored token.
type GatewayConfig struct {
	BaseURL       string
	Recipient     string
	CallbackURL   string
	AdvanceAmount int
}

type TelegramConfig struct {
	APIBase  string
	BotToken string
	ChatID   string
}

type ImageHostConfig struct {
	UploadURL string
	APIKey    string
}

func Load(logger *zap.Logger) Config {
	if err := godotenv.Load(); err != nil {
		logger.Info("No .env file found, using environment")
	}

	return Config{
		HTTPAddr:    getEnv("HTTP_ADDR", ":8080"),
		ServiceName: getEnv("SERVICE_NAME", "deep-shop"),

		MongoURI: getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:  getEnv("MONGO_DB", "deepshop"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		KafkaBroker: getEnv("KAFKA_BROKER", "localhost:9092"),
		KafkaTopic:  getEnv("KAFKA_TOPIC", "order_events"),

		JWTSecret: getEnv("JWT_SECRET", "your-secret-key-change-in-production"),

		Gateway: GatewayConfig{
			BaseURL:       getEnv("GATEWAY_URL", "https://shop.bkash.com/checkout"),
			Recipient:     getEnv("GATEWAY_RECIPIENT", "01778953114"),
			CallbackURL:   getEnv("GATEWAY_CALLBACK_URL", "http://localhost:3000/checkout/callback"),
			AdvanceAmount: getEnvInt("GATEWAY_ADVANCE_AMOUNT", 300),
		},
		Telegram: TelegramConfig{
			APIBase:  getEnv("TELEGRAM_API_BASE", "https://api.telegram.org"),
			BotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
			ChatID:   getEnv("TELEGRAM_CHAT_ID", ""),
		},
		ImageHost: ImageHostConfig{
			UploadURL: getEnv("IMAGE_HOST_URL", "https://api.imgbb.com/1/upload"),
			APIKey:    getEnv("IMAGE_HOST_KEY", ""),
		},
		FraudURL: getEnv("FRAUD_CHECK_URL", ""),

		JaegerEndpoint: getEnv("JAEGER_ENDPOINT", "http://localhost:14268/api/traces"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
