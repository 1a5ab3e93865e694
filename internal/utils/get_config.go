package utils

import (
	"log"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"
)

type Config struct {
	// Server configuration
	AppPort    string `yaml:"APP_PORT"`
	AppURL     string `yaml:"APP_URL"`
	StaticDir  string `yaml:"STATIC_DIR"`
	CORSOrigin string `yaml:"CORS_ALLOW_ORIGINS"`

	// Database configuration
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`

	// JWT and session
	JWTSecret       string `yaml:"JWT_SECRET"`
	TokenTTLMinutes string `yaml:"TOKEN_TTL_MINUTES"`

	// Seeded admin account
	AdminEmail    string `yaml:"ADMIN_EMAIL"`
	AdminPassword string `yaml:"ADMIN_PASSWORD"`

	// Credit economics
	ImageCost      string `yaml:"IMAGE_COST"`
	InitialCredits string `yaml:"INITIAL_CREDITS"`

	// Image provider (A4F)
	A4FAPIKey       string `yaml:"A4F_API_KEY"`
	A4FModel        string `yaml:"A4F_MODEL"`
	A4FBaseURL      string `yaml:"A4F_BASE_URL"`
	A4FImageSize    string `yaml:"A4F_IMAGE_SIZE"`
	PadShortBatch   string `yaml:"PAD_SHORT_BATCH"`
	ProxyImageHosts string `yaml:"PROXY_IMAGE_HOSTS"`

	// Cashfree configuration
	CashfreeAppID      string `yaml:"CASHFREE_APP_ID"`
	CashfreeSecretKey  string `yaml:"CASHFREE_SECRET_KEY"`
	CashfreeAPIVersion string `yaml:"CASHFREE_API_VERSION"`
	CashfreeBaseURL    string `yaml:"CASHFREE_BASE_URL"`

	// OXAPAY configuration
	OxapayMerchantID string `yaml:"OXAPAY_MERCHANT_ID"`
	OxapayBaseURL    string `yaml:"OXAPAY_BASE_URL"`
	OxapayLifetime   string `yaml:"OXAPAY_LIFETIME"`

	// Mailing configuration
	SMTPHost         string `yaml:"SMTP_HOST"`
	SMTPPort         string `yaml:"SMTP_PORT"`
	SMTPSenderName   string `yaml:"SMTP_SENDER_NAME"`
	SMTPAuthEmail    string `yaml:"SMTP_AUTH_EMAIL"`
	SMTPAuthPassword string `yaml:"SMTP_AUTH_PASSWORD"`

	// AWS S3 configuration
	AWSS3Bucket  string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region  string `yaml:"AWS_S3_REGION"`
	AWSAccessKey string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey string `yaml:"AWS_SECRET_KEY"`

	// Redis configuration
	RedisAddress  string `yaml:"REDIS_ADDRESS"`
	RedisPassword string `yaml:"REDIS_PASSWORD"`
	RedisDB       string `yaml:"REDIS_DB"`

	// RabbitMQ configuration
	RabbitMQURL string `yaml:"RABBITMQ_URL"`
}

var config Config

var defaults = map[string]string{
	"APP_PORT":             "3000",
	"CORS_ALLOW_ORIGINS":   "*",
	"TOKEN_TTL_MINUTES":    "1440",
	"IMAGE_COST":           "5",
	"INITIAL_CREDITS":      "25",
	"A4F_MODEL":            "provider-4/imagen-3.5",
	"A4F_BASE_URL":         "https://api.a4f.co/v1/images/generations",
	"A4F_IMAGE_SIZE":       "1024x1024",
	"PAD_SHORT_BATCH":      "true",
	"PROXY_IMAGE_HOSTS":    "api.a4f.co,a4f.co",
	"CASHFREE_API_VERSION": "2022-09-01",
	"CASHFREE_BASE_URL":    "https://api.cashfree.com",
	"OXAPAY_BASE_URL":      "https://api.oxapay.com",
	"OXAPAY_LIFETIME":      "30",
}

func LoadConfig() {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}

	file, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Error reading YAML file: %s\n", err)
	} else if err := yaml.Unmarshal(file, &config); err != nil {
		log.Printf("Error parsing YAML file: %s\n", err)
	}

	// Environment variables win over the yaml file
	for key, field := range config.fields() {
		if value, ok := os.LookupEnv(key); ok && value != "" {
			*field = value
		}
	}
}

// SetConfig overrides a single key. Used by tests and the seeding command.
func SetConfig(key, value string) {
	if field, ok := config.fields()[key]; ok {
		*field = value
	}
}

func (c *Config) fields() map[string]*string {
	return map[string]*string{
		"APP_PORT":             &c.AppPort,
		"APP_URL":              &c.AppURL,
		"STATIC_DIR":           &c.StaticDir,
		"CORS_ALLOW_ORIGINS":   &c.CORSOrigin,
		"DB_USER":              &c.DBUser,
		"DB_NAME":              &c.DBName,
		"DB_PASSWORD":          &c.DBPassword,
		"DB_PORT":              &c.DBPort,
		"DB_HOST":              &c.DBHost,
		"JWT_SECRET":           &c.JWTSecret,
		"TOKEN_TTL_MINUTES":    &c.TokenTTLMinutes,
		"ADMIN_EMAIL":          &c.AdminEmail,
		"ADMIN_PASSWORD":       &c.AdminPassword,
		"IMAGE_COST":           &c.ImageCost,
		"INITIAL_CREDITS":      &c.InitialCredits,
		"A4F_API_KEY":          &c.A4FAPIKey,
		"A4F_MODEL":            &c.A4FModel,
		"A4F_BASE_URL":         &c.A4FBaseURL,
		"A4F_IMAGE_SIZE":       &c.A4FImageSize,
		"PAD_SHORT_BATCH":      &c.PadShortBatch,
		"PROXY_IMAGE_HOSTS":    &c.ProxyImageHosts,
		"CASHFREE_APP_ID":      &c.CashfreeAppID,
		"CASHFREE_SECRET_KEY":  &c.CashfreeSecretKey,
		"CASHFREE_API_VERSION": &c.CashfreeAPIVersion,
		"CASHFREE_BASE_URL":    &c.CashfreeBaseURL,
		"OXAPAY_MERCHANT_ID":   &c.OxapayMerchantID,
		"OXAPAY_BASE_URL":      &c.OxapayBaseURL,
		"OXAPAY_LIFETIME":      &c.OxapayLifetime,
		"SMTP_HOST":            &c.SMTPHost,
		"SMTP_PORT":            &c.SMTPPort,
		"SMTP_SENDER_NAME":     &c.SMTPSenderName,
		"SMTP_AUTH_EMAIL":      &c.SMTPAuthEmail,
		"SMTP_AUTH_PASSWORD":   &c.SMTPAuthPassword,
		"AWS_S3_BUCKET":        &c.AWSS3Bucket,
		"AWS_S3_REGION":        &c.AWSS3Region,
		"AWS_ACCESS_KEY":       &c.AWSAccessKey,
		"AWS_SECRET_KEY":       &c.AWSSecretKey,
		"REDIS_ADDRESS":        &c.RedisAddress,
		"REDIS_PASSWORD":       &c.RedisPassword,
		"REDIS_DB":             &c.RedisDB,
		"RABBITMQ_URL":         &c.RabbitMQURL,
	}
}

func GetConfig(key string) string {
	field, ok := config.fields()[key]
	if !ok {
		return ""
	}
	if *field == "" {
		return defaults[key]
	}
	return *field
}

func GetConfigInt(key string) int {
	value, err := strconv.Atoi(GetConfig(key))
	if err != nil {
		fallback, _ := strconv.Atoi(defaults[key])
		return fallback
	}
	return value
}

func GetConfigBool(key string) bool {
	value, err := strconv.ParseBool(GetConfig(key))
	if err != nil {
		return false
	}
	return value
}

// GetConfigList splits a comma separated value, dropping blanks.
func GetConfigList(key string) []string {
	var out []string
	for _, part := range strings.Split(GetConfig(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
