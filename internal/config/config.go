package config

import (
	"github.com/spf13/viper"
)

type Config struct {
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	JWTSecret string

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	MailFrom string

	// BaseURL is the externally reachable address of this API, used to build
	// verification links embedded in outbound email.
	BaseURL       string
	Port          string
	AllowedOrigin string
	GinMode       string
}

func Load() *Config {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("DB_DRIVER", "mysql")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "3306")
	v.SetDefault("DB_USER", "todouser")
	v.SetDefault("DB_PASSWORD", "todopassword")
	v.SetDefault("DB_NAME", "todo")
	v.SetDefault("JWT_SECRET", "default-secret-key-change-me")
	v.SetDefault("SMTP_HOST", "smtp.gmail.com")
	v.SetDefault("SMTP_PORT", 465)
	v.SetDefault("BASE_URL", "http://localhost:5000")
	v.SetDefault("PORT", "5000")
	v.SetDefault("ALLOWED_ORIGIN", "http://localhost:3000")
	v.SetDefault("GIN_MODE", "debug")

	return &Config{
		DBDriver:      v.GetString("DB_DRIVER"),
		DBHost:        v.GetString("DB_HOST"),
		DBPort:        v.GetString("DB_PORT"),
		DBUser:        v.GetString("DB_USER"),
		DBPassword:    v.GetString("DB_PASSWORD"),
		DBName:        v.GetString("DB_NAME"),
		JWTSecret:     v.GetString("JWT_SECRET"),
		SMTPHost:      v.GetString("SMTP_HOST"),
		SMTPPort:      v.GetInt("SMTP_PORT"),
		SMTPUser:      v.GetString("SMTP_USER"),
		SMTPPass:      v.GetString("SMTP_PASS"),
		MailFrom:      v.GetString("MAIL_FROM"),
		BaseURL:       v.GetString("BASE_URL"),
		Port:          v.GetString("PORT"),
		AllowedOrigin: v.GetString("ALLOWED_ORIGIN"),
		GinMode:       v.GetString("GIN_MODE"),
	}
}
