package config

import (
	"os"
	"time"
)

type Config struct {
	ServerAddress   string
	MongoURI        string
	MongoDBName     string
	DataDir         string
	UploadDir       string
	JWTSecret       string
	JWTExpiration   time.Duration
	AdminToken      string
	FirebaseProject string
	FirebaseCreds   string
	StorageBucket   string
	SendGridAPIKey  string
	RecaptchaSecret string
	NotifyFromEmail string
	NotifyToEmail   string
	MaxUploadSizeMB int64
}

func Load() *Config {
	return &Config{
		ServerAddress:   getEnv("SERVER_ADDRESS", ":8080"),
		MongoURI:        getEnv("MONGODB_URI", ""),
		MongoDBName:     getEnv("MONGODB_DATABASE", "officialyou"),
		DataDir:         getEnv("DATA_DIR", "./data"),
		UploadDir:       getEnv("UPLOAD_DIR", "./uploads"),
		JWTSecret:       getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		JWTExpiration:   24 * time.Hour,
		AdminToken:      getEnv("ADMIN_TOKEN", ""),
		FirebaseProject: getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseCreds:   getEnv("FIREBASE_CREDENTIALS_JSON", ""),
		StorageBucket:   getEnv("STORAGE_BUCKET", ""),
		SendGridAPIKey:  getEnv("SENDGRID_API_KEY", ""),
		RecaptchaSecret: getEnv("RECAPTCHA_SECRET", ""),
		NotifyFromEmail: getEnv("NOTIFY_FROM_EMAIL", "no-reply@offu.io"),
		NotifyToEmail:   getEnv("NOTIFY_TO_EMAIL", ""),
		MaxUploadSizeMB: 5,
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
