package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort       string
	FirebaseProject  string
	DatabaseURL      string
	StorageBucket    string
	UsersAPIURL      string
	OrganizationsAPI string
	Environment      string
	MaxUploadBytes   int64
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		FirebaseProject:  getEnv("FIREBASE_PROJECT_ID", ""),
		DatabaseURL:      getEnv("RTDB_URL", ""),
		StorageBucket:    getEnv("STORAGE_BUCKET", ""),
		UsersAPIURL:      getEnv("USERS_API_URL", ""),
		OrganizationsAPI: getEnv("ORGANIZATIONS_API_URL", ""),
		Environment:      getEnv("ENVIRONMENT", "development"),
		MaxUploadBytes:   getEnvAsInt64("MAX_UPLOAD_BYTES", 5*1024*1024),
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}
