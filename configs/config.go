package config

import "os"

type TextProvider struct {
	URL    string
	APIKey string
	Model  string
}

type Workflows struct {
	ImageTriggerURL string
	VideoTriggerURL string
	WebhookSecret   string
}

type R2 struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
	PublicURL  string
}

type Config struct {
	PostgresURI   string
	RedisURI      string
	PublicBaseURL string
	FrontendURL   string
	TextProvider  TextProvider
	Workflows     Workflows
	R2            R2
	SecretKey     string
	CookieName    string
}

func LoadConfig() *Config {
	return &Config{
		PostgresURI:   getEnv("POSTGRES_URI", ""),
		RedisURI:      getEnv("REDIS_URI", ""),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:3000"),
		FrontendURL:   getEnv("FRONTEND_URL", "http://localhost:5173"),
		TextProvider: TextProvider{
			URL:    getEnv("TEXT_PROVIDER_URL", "https://api.openai.com/v1/chat/completions"),
			APIKey: getEnv("TEXT_PROVIDER_API_KEY", ""),
			Model:  getEnv("TEXT_PROVIDER_MODEL", "gpt-4o-mini"),
		},
		Workflows: Workflows{
			ImageTriggerURL: getEnv("IMAGE_WORKFLOW_TRIGGER_URL", ""),
			VideoTriggerURL: getEnv("VIDEO_WORKFLOW_TRIGGER_URL", ""),
			WebhookSecret:   getEnv("WEBHOOK_SECRET", ""),
		},
		R2: R2{
			AccountID:  getEnv("R2_ACCOUNT_ID", ""),
			AccessKey:  getEnv("R2_ACCESS_KEY", ""),
			SecretKey:  getEnv("R2_SECRET_KEY", ""),
			BucketName: getEnv("R2_BUCKET_NAME", ""),
			PublicURL:  getEnv("R2_PUBLIC_URL", ""),
		},
		SecretKey:  getEnv("SECRET_KEY", ""),
		CookieName: getEnv("COOKIE_NAME", "campflow_session"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
