package configs

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type ENV struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	Port       string

	CLOUDINARY_CLOUD_NAME string
	CLOUDINARY_API_KEY    string
	CLOUDINARY_API_SECRET string
	CLOUDINARY_FOLDER     string

	MaxProductImages  int
	MaxImageSizeBytes int64

	APP_ENV       string
	CSRF_AUTH_KEY string
}

func LoadEnv() ENV {

	if err := godotenv.Load(".env"); err != nil {
		log.Println("Warning: No .env file found ")
	}

	return ENV{
		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     os.Getenv("DB_PORT"),
		Port:       os.Getenv("APP_PORT"),

		CLOUDINARY_CLOUD_NAME: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CLOUDINARY_API_KEY:    os.Getenv("CLOUDINARY_API_KEY"),
		CLOUDINARY_API_SECRET: os.Getenv("CLOUDINARY_API_SECRET"),
		CLOUDINARY_FOLDER:     envOrDefault("CLOUDINARY_FOLDER", "products"),

		MaxProductImages:  envInt("MAX_PRODUCT_IMAGES", 10),
		MaxImageSizeBytes: int64(envInt("MAX_IMAGE_SIZE_KB", 2048)) * 1024,

		APP_ENV:       os.Getenv("APP_ENV"),
		CSRF_AUTH_KEY: os.Getenv("CSRF_AUTH_KEY"),
	}

}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Warning: %s bukan angka yang valid (%q), memakai default %d", key, v, fallback)
		return fallback
	}
	return n
}

var LoadENV = LoadEnv()
