package utils

import (
	"errors"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	RabbitMQ    RabbitMQConfig
	Email       EmailConfig
	Session     SessionConfig
	Lockout     LockoutConfig
	Reservation ReservationConfig
	QR          QRConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
	// rotasi file log
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RabbitMQConfig - URL kosong berarti event tiket diproses in-process
type RabbitMQConfig struct {
	URL   string
	Queue string
}

type EmailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type SessionConfig struct {
	ExpiryHours int
}

type LockoutConfig struct {
	MaxAttempts int
	Duration    time.Duration
}

type ReservationConfig struct {
	SweepInterval time.Duration
}

type QRConfig struct {
	Dir  string
	Size int
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("APP_NAME", "cinema-ticketing")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("LOG_MAX_SIZE_MB", 10)
	viper.SetDefault("LOG_MAX_BACKUPS", 7)
	viper.SetDefault("LOG_MAX_AGE_DAYS", 28)
	viper.SetDefault("LOG_COMPRESS", true)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("RABBITMQ_QUEUE", "ticket.issued")
	viper.SetDefault("SESSION_EXPIRY_HOURS", 24)
	viper.SetDefault("LOCKOUT_MAX_ATTEMPTS", 3)
	viper.SetDefault("LOCKOUT_MINUTES", 15)
	viper.SetDefault("EXPIRY_SWEEP_SECONDS", 60)
	viper.SetDefault("QR_DIR", "qrcodes/")
	viper.SetDefault("QR_SIZE", 256)

	// .env opsional, environment variable tetap dipakai
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),

			LogMaxSizeMB:  viper.GetInt("LOG_MAX_SIZE_MB"),
			LogMaxBackups: viper.GetInt("LOG_MAX_BACKUPS"),
			LogMaxAgeDays: viper.GetInt("LOG_MAX_AGE_DAYS"),
			LogCompress:   viper.GetBool("LOG_COMPRESS"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		RabbitMQ: RabbitMQConfig{
			URL:   viper.GetString("RABBITMQ_URL"),
			Queue: viper.GetString("RABBITMQ_QUEUE"),
		},
		Email: EmailConfig{
			Host:     viper.GetString("SMTP_HOST"),
			Port:     viper.GetInt("SMTP_PORT"),
			User:     viper.GetString("SMTP_USER"),
			Password: viper.GetString("SMTP_PASS"),
			From:     viper.GetString("EMAIL_FROM"),
		},
		Session: SessionConfig{
			ExpiryHours: viper.GetInt("SESSION_EXPIRY_HOURS"),
		},
		Lockout: LockoutConfig{
			MaxAttempts: viper.GetInt("LOCKOUT_MAX_ATTEMPTS"),
			Duration:    time.Duration(viper.GetInt("LOCKOUT_MINUTES")) * time.Minute,
		},
		Reservation: ReservationConfig{
			SweepInterval: time.Duration(viper.GetInt("EXPIRY_SWEEP_SECONDS")) * time.Second,
		},
		QR: QRConfig{
			Dir:  viper.GetString("QR_DIR"),
			Size: viper.GetInt("QR_SIZE"),
		},
	}

	return config, nil
}

func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
