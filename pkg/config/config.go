package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config is the process configuration, read once at startup. Optional
// subsystems (Firebase, push, object storage) soft-disable when their
// settings are absent.
type Config struct {
	Port                    string
	Env                     string
	PostgresConnStr         string
	MongoURI                string
	MongoDatabase           string
	FirebaseCredentialsPath string
	JWTSecret               string
	VAPIDPublicKey          string
	VAPIDPrivateKey         string
	VAPIDSubject            string
	S3Endpoint              string
	S3AccessKey             string
	S3SecretKey             string
	S3Bucket                string
	S3UseSSL                bool
}

// Load reads configuration from the environment, after loading .env when
// one is present.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}

	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		PostgresConnStr:         getEnv("POSTGRES_CONN_STR", ""),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDatabase:           getEnv("MONGO_DB", "carebridge"),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		JWTSecret:               getEnv("JWT_SECRET", ""),
		VAPIDPublicKey:          getEnv("VAPID_PUBLIC_KEY", ""),
		VAPIDPrivateKey:         getEnv("VAPID_PRIVATE_KEY", ""),
		VAPIDSubject:            getEnv("VAPID_SUBJECT", "mailto:support@carebridge.example"),
		S3Endpoint:              getEnv("S3_ENDPOINT", ""),
		S3AccessKey:             getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:             getEnv("S3_SECRET_KEY", ""),
		S3Bucket:                getEnv("S3_BUCKET", "carebridge-attachments"),
		S3UseSSL:                getEnv("S3_USE_SSL", "true") == "true",
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
