package configs

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// =======================
// APP CONFIG
// =======================

type DatabaseConfig struct {
	Connection string // pgsql | mysql | sqlite
	Host       string
	Port       string
	User       string
	Password   string
	Name       string
	SSLMode    string
	Path       string // sqlite file
}

type BackupConfig struct {
	Dir       string
	Cron      string
	Retention int

	OSSEndpoint  string
	OSSAccessKey string
	OSSSecretKey string
	OSSBucket    string
}

func (b BackupConfig) OSSEnabled() bool {
	return b.OSSEndpoint != "" && b.OSSAccessKey != "" && b.OSSSecretKey != "" && b.OSSBucket != ""
}

type AppConfig struct {
	AppName string
	Port    string

	DB DatabaseConfig

	JWTSecret string
	JWTTTL    time.Duration

	AdminSetupKey string

	DefaultDormAddress string
	DefaultDormContact string

	MonthlyRate decimal.Decimal

	SendgridAPIKey string
	MailFrom       string

	MidtransServerKey string
	MidtransUseProd   bool

	Backup BackupConfig

	TokenBlacklistTTLDays int
	CorsAllowOrigins      string
}

// =======================
// ENV LOADER
// =======================

func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("[WARN] .env not found, using system environment")
		} else {
			log.Println("[INFO] .env loaded")
		}
	} else {
		log.Println("[INFO] Running on Railway, using system environment")
	}
}

// Load reads the environment into an AppConfig. Call LoadEnv first when a .env file should be honoured.
func Load() *AppConfig {
	cfg := &AppConfig{
		AppName: GetEnv("APP_NAME", "Dormku"),
		Port:    GetEnv("PORT", "3000"),
		DB: DatabaseConfig{
			Connection: strings.ToLower(GetEnv("DB_CONNECTION", "pgsql")),
			Host:       GetEnv("DB_HOST", "127.0.0.1"),
			Port:       GetEnv("DB_PORT"),
			User:       GetEnv("DB_USER"),
			Password:   GetEnv("DB_PASSWORD"),
			Name:       GetEnv("DB_NAME"),
			SSLMode:    GetEnv("DB_SSLMODE", "disable"),
			Path:       GetEnv("DB_PATH", "storage/dormku.sqlite"),
		},
		JWTSecret:          GetEnv("JWT_SECRET"),
		JWTTTL:             time.Duration(GetEnvInt("JWT_TTL_HOURS", 24)) * time.Hour,
		AdminSetupKey:      GetEnv("ADMIN_SETUP_KEY"),
		DefaultDormAddress: GetEnv("DORM_DEFAULT_ADDRESS", "Address not set"),
		DefaultDormContact: GetEnv("DORM_DEFAULT_CONTACT", "-"),
		MonthlyRate:        getEnvDecimal("BILLING_MONTHLY_RATE", decimal.NewFromInt(400)),
		SendgridAPIKey:     GetEnv("SENDGRID_API_KEY"),
		MailFrom:           GetEnv("MAIL_FROM", "no-reply@dormku.local"),
		MidtransServerKey:  GetEnv("MIDTRANS_SERVER_KEY"),
		MidtransUseProd:    GetEnvBool("MIDTRANS_USE_PROD", false),
		Backup: BackupConfig{
			Dir:          GetEnv("BACKUP_DIR", "storage/backups"),
			Cron:         GetEnv("BACKUP_CRON"),
			Retention:    GetEnvInt("BACKUP_RETENTION", 14),
			OSSEndpoint:  GetEnv("ALI_OSS_ENDPOINT"),
			OSSAccessKey: GetEnv("ALI_OSS_ACCESS_KEY"),
			OSSSecretKey: GetEnv("ALI_OSS_SECRET_KEY"),
			OSSBucket:    GetEnv("ALI_OSS_BUCKET"),
		},
		TokenBlacklistTTLDays: GetEnvInt("TOKEN_BLACKLIST_TTL_DAYS", 7),
		CorsAllowOrigins:      GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173"),
	}

	if cfg.DB.Port == "" {
		switch cfg.DB.Connection {
		case "mysql":
			cfg.DB.Port = "3306"
		default:
			cfg.DB.Port = "5432"
		}
	}

	if cfg.JWTSecret == "" {
		log.Println("[ERROR] JWT_SECRET is not set")
	}
	if cfg.AdminSetupKey == "" {
		log.Println("[WARN] ADMIN_SETUP_KEY is not set, admin setup endpoint is disabled")
	}
	return cfg
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if (!exists || value == "") && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func GetEnvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[WARN] %s=%q is not an integer, using %d", key, v, def)
		return def
	}
	return i
}

func GetEnvBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func getEnvDecimal(key string, def decimal.Decimal) decimal.Decimal {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := decimal.NewFromString(v)
	if err != nil || d.IsNegative() {
		log.Printf("[WARN] %s=%q is not a valid amount, using %s", key, v, def)
		return def
	}
	return d
}
