package utils

import (
	"log"
	"os"
	"strconv"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	// Application
	AppPort      string `yaml:"APP_PORT" env:"APP_PORT"`
	AppURL       string `yaml:"APP_URL" env:"APP_URL"`
	LogFile      string `yaml:"LOG_FILE" env:"LOG_FILE"`
	RateLimitMax int    `yaml:"RATE_LIMIT_MAX" env:"RATE_LIMIT_MAX"`

	// Database configuration
	DBDriver   string `yaml:"DB_DRIVER" env:"DB_DRIVER"`
	DBUser     string `yaml:"DB_USER" env:"DB_USER"`
	DBName     string `yaml:"DB_NAME" env:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD" env:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT" env:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST" env:"DB_HOST"`

	// JWT
	JWTSecret              string `yaml:"JWT_SECRET" env:"JWT_SECRET"`
	AccessTokenTTLMinutes  int    `yaml:"ACCESS_TOKEN_TTL_MINUTES" env:"ACCESS_TOKEN_TTL_MINUTES"`
	RefreshTokenTTLMinutes int    `yaml:"REFRESH_TOKEN_TTL_MINUTES" env:"REFRESH_TOKEN_TTL_MINUTES"`

	// Social login
	GoogleKey    string `yaml:"GOOGLE_KEY" env:"GOOGLE_KEY"`
	GoogleSecret string `yaml:"GOOGLE_SECRET" env:"GOOGLE_SECRET"`
	GithubKey    string `yaml:"GITHUB_KEY" env:"GITHUB_KEY"`
	GithubSecret string `yaml:"GITHUB_SECRET" env:"GITHUB_SECRET"`

	// Mailing configuration
	SMTPHost         string `yaml:"SMTP_HOST" env:"SMTP_HOST"`
	SMTPPort         string `yaml:"SMTP_PORT" env:"SMTP_PORT"`
	SMTPSenderName   string `yaml:"SMTP_SENDER_NAME" env:"SMTP_SENDER_NAME"`
	SMTPAuthEmail    string `yaml:"SMTP_AUTH_EMAIL" env:"SMTP_AUTH_EMAIL"`
	SMTPAuthPassword string `yaml:"SMTP_AUTH_PASSWORD" env:"SMTP_AUTH_PASSWORD"`

	// AWS S3 configuration
	AWSS3Bucket    string `yaml:"AWS_S3_BUCKET" env:"AWS_S3_BUCKET"`
	AWSS3Region    string `yaml:"AWS_S3_REGION" env:"AWS_S3_REGION"`
	AWSS3Endpoint  string `yaml:"AWS_S3_ENDPOINT" env:"AWS_S3_ENDPOINT"`
	AWSS3PublicURL string `yaml:"AWS_S3_PUBLIC_URL" env:"AWS_S3_PUBLIC_URL"`
	AWSAccessKey   string `yaml:"AWS_ACCESS_KEY" env:"AWS_ACCESS_KEY"`
	AWSSecretKey   string `yaml:"AWS_SECRET_KEY" env:"AWS_SECRET_KEY"`
}

var config = defaultConfig()

func defaultConfig() Config {
	return Config{
		AppPort:                "8080",
		LogFile:                "./logs/app.log",
		RateLimitMax:           10,
		DBDriver:               "postgres",
		AccessTokenTTLMinutes:  60,
		RefreshTokenTTLMinutes: 60 * 24 * 7,
	}
}

// LoadConfig reads the YAML file at path, then lets the process
// environment (and a local .env file, if present) override it.
func LoadConfig(path string) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Error reading .env file: %s\n", err)
	}

	file, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Error reading YAML file: %s\n", err)
	} else if err := yaml.Unmarshal(file, &config); err != nil {
		log.Printf("Error parsing YAML file: %s\n", err)
	}

	if err := env.Parse(&config); err != nil {
		log.Printf("Error parsing environment: %s\n", err)
	}
}

func AppConfig() Config {
	return config
}

func GetConfig(key string) string {
	switch key {
	case "APP_PORT":
		return config.AppPort
	case "APP_URL":
		return config.AppURL
	case "LOG_FILE":
		return config.LogFile
	case "RATE_LIMIT_MAX":
		return strconv.Itoa(config.RateLimitMax)
	case "DB_DRIVER":
		return config.DBDriver
	case "DB_USER":
		return config.DBUser
	case "DB_NAME":
		return config.DBName
	case "DB_PASSWORD":
		return config.DBPassword
	case "DB_PORT":
		return config.DBPort
	case "DB_HOST":
		return config.DBHost
	case "JWT_SECRET":
		return config.JWTSecret
	case "GOOGLE_KEY":
		return config.GoogleKey
	case "GOOGLE_SECRET":
		return config.GoogleSecret
	case "GITHUB_KEY":
		return config.GithubKey
	case "GITHUB_SECRET":
		return config.GithubSecret
	case "SMTP_HOST":
		return config.SMTPHost
	case "SMTP_PORT":
		return config.SMTPPort
	case "SMTP_SENDER_NAME":
		return config.SMTPSenderName
	case "SMTP_AUTH_EMAIL":
		return config.SMTPAuthEmail
	case "SMTP_AUTH_PASSWORD":
		return config.SMTPAuthPassword
	case "AWS_S3_BUCKET":
		return config.AWSS3Bucket
	case "AWS_S3_REGION":
		return config.AWSS3Region
	case "AWS_S3_ENDPOINT":
		return config.AWSS3Endpoint
	case "AWS_S3_PUBLIC_URL":
		return config.AWSS3PublicURL
	case "AWS_ACCESS_KEY":
		return config.AWSAccessKey
	case "AWS_SECRET_KEY":
		return config.AWSSecretKey
	default:
		return ""
	}
}
