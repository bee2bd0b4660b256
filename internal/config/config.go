package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	Port string `validate:"required"`
	Env  string `validate:"oneof=development test production"`

	SupabaseURL     string `validate:"required,url"`
	SupabaseAnonKey string `validate:"required"`
	DatabaseURL     string `validate:"required"`

	RunMigrations  bool
	MigrationsPath string

	RedisAddr     string
	RedisPassword string
	RabbitMQURL   string `validate:"omitempty,url"`

	MailHost string
	MailPort int `validate:"omitempty,min=1,max=65535"`
	MailUser string
	MailPass string
	MailFrom string `validate:"omitempty,email"`

	KommoToken   string
	KommoBaseURL string `validate:"omitempty,url"`

	WhatsAppToken    string
	WhatsAppPhoneID  string
	WhatsAppTemplate string

	ViaCEPURL      string `validate:"omitempty,url"`
	SentryDSN      string
	CompanyLogoURL string `validate:"omitempty,url"`

	CacheTTL    time.Duration
	CORSOrigins []string
}

// Load lê o ambiente com defaults. Backend (Supabase) e banco são obrigatórios.
func Load() (Config, error) {
	cfg := Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("APP_ENV", "development"),

		SupabaseURL:     strings.TrimRight(os.Getenv("SUPABASE_URL"), "/"),
		SupabaseAnonKey: os.Getenv("SUPABASE_ANON_KEY"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),

		RunMigrations:  parseBool("RUN_MIGRATIONS", true),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "file://migrations"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RabbitMQURL:   os.Getenv("RABBITMQ_URL"),

		MailHost: os.Getenv("MAIL_HOST"),
		MailPort: parseInt("MAIL_PORT", 587),
		MailUser: os.Getenv("MAIL_USER"),
		MailPass: os.Getenv("MAIL_PASS"),
		MailFrom: getEnv("MAIL_FROM", "nao-responda@liguesolar.com.br"),

		KommoToken:   os.Getenv("KOMMO_API_TOKEN"),
		KommoBaseURL: getEnv("KOMMO_BASE_URL", "https://liguesolar.kommo.com/api/v4"),

		WhatsAppToken:    os.Getenv("WHATSAPP_ACCESS_TOKEN"),
		WhatsAppPhoneID:  os.Getenv("WHATSAPP_PHONE_ID"),
		WhatsAppTemplate: getEnv("WHATSAPP_TEMPLATE_ID", "proposta_enviada"),

		ViaCEPURL:      getEnv("VIACEP_URL", "https://viacep.com.br"),
		SentryDSN:      os.Getenv("SENTRY_DSN"),
		CompanyLogoURL: os.Getenv("COMPANY_LOGO_URL"),

		CacheTTL:    parseDuration("CACHE_TTL", 5*time.Minute),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return cfg, describe(err)
	}
	return cfg, nil
}

func (c Config) Production() bool { return c.Env == "production" }

var envNames = map[string]string{
	"Port":            "PORT",
	"Env":             "APP_ENV",
	"SupabaseURL":     "SUPABASE_URL",
	"SupabaseAnonKey": "SUPABASE_ANON_KEY",
	"DatabaseURL":     "DATABASE_URL",
	"RabbitMQURL":     "RABBITMQ_URL",
	"MailPort":        "MAIL_PORT",
	"MailFrom":        "MAIL_FROM",
	"KommoBaseURL":    "KOMMO_BASE_URL",
	"ViaCEPURL":       "VIACEP_URL",
	"CompanyLogoURL":  "COMPANY_LOGO_URL",
}

// describe troca os nomes de campo pelas variáveis de ambiente.
func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		name := envNames[fe.Field()]
		if name == "" {
			name = fe.Field()
		}
		if fe.Tag() == "required" {
			msgs = append(msgs, name+" não definida")
		} else {
			msgs = append(msgs, fmt.Sprintf("%s inválida (%s)", name, fe.Tag()))
		}
	}
	return fmt.Errorf("configuração inválida: %s", strings.Join(msgs, "; "))
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("⚠️ valor inválido para %s: %s", key, v)
			return def
		}
		return b
	}
	return def
}

func parseInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("⚠️ valor inválido para %s: %s", key, v)
			return def
		}
		return n
	}
	return def
}

func parseDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("⚠️ valor inválido para %s: %s", key, v)
			return def
		}
		return d
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
