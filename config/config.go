package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config представляет конфигурацию приложения
type Config struct {
	Server struct {
		Port           int
		RequestTimeout time.Duration
		CORSOrigins    []string
		RateLimit      int // запросов в минуту на IP
	}
	Admin struct {
		Port  int
		Token string
	}
	DB struct {
		Driver     string // postgres | sqlite
		Host       string
		Port       int
		User       string
		Password   string
		DBName     string
		SQLitePath string
	}
	JWT struct {
		SecretKey string
		ExpiresIn int // в часах
	}
	SMTP struct {
		Host     string
		Port     int
		Username string
		Password string
		From     string
	}
	AMQP struct {
		URL      string
		Exchange string
	}
	AuditInterval time.Duration
	LogDir        string
	LogDebug      bool
}

var defaults = map[string]interface{}{
	"server_port":           8080,
	"request_timeout":       "10s",
	"cors_origins":          "*",
	"rate_limit_per_minute": 100,
	"admin_port":            8081,
	"admin_token":           "",
	"db_driver":             "postgres",
	"db_host":               "localhost",
	"db_port":               5432,
	"db_user":               "postgres",
	"db_password":           "postgres",
	"db_name":               "financial_db",
	"db_sqlite_path":        "./data/credix.db",
	"jwt_secret_key":        "your-super-secret-key-change-in-production",
	"jwt_expires_in":        24,
	"smtp_host":             "",
	"smtp_port":             587,
	"smtp_username":         "",
	"smtp_password":         "",
	"smtp_from":             "",
	"amqp_url":              "",
	"amqp_exchange":         "credix.ledger",
	"audit_interval":        "0s",
	"log_dir":               "",
	"log_debug":             false,
}

// NewConfig создает новый экземпляр конфигурации из окружения и файла .env
func NewConfig() (*Config, error) {
	return NewConfigFromFile("")
}

// NewConfigFromFile как NewConfig, но дополнительно читает yaml/json файл конфигурации.
// Переменные окружения имеют приоритет над файлом.
func NewConfigFromFile(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("ошибка чтения .env: %w", err)
	}
	return Load(viper.New(), configFile)
}

// Load читает конфигурацию через переданный экземпляр viper.
// configFile может быть пустым, тогда используются только окружение и значения по умолчанию.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("ошибка чтения файла конфигурации: %w", err)
		}
	}

	cfg := &Config{}

	// Настройки сервера
	cfg.Server.Port = v.GetInt("server_port")
	cfg.Server.RequestTimeout = v.GetDuration("request_timeout")
	cfg.Server.CORSOrigins = splitList(v.GetString("cors_origins"))
	cfg.Server.RateLimit = v.GetInt("rate_limit_per_minute")

	cfg.Admin.Port = v.GetInt("admin_port")
	cfg.Admin.Token = v.GetString("admin_token")

	// Настройки базы данных
	cfg.DB.Driver = strings.ToLower(v.GetString("db_driver"))
	cfg.DB.Host = v.GetString("db_host")
	cfg.DB.Port = v.GetInt("db_port")
	cfg.DB.User = v.GetString("db_user")
	cfg.DB.Password = v.GetString("db_password")
	cfg.DB.DBName = v.GetString("db_name")
	cfg.DB.SQLitePath = v.GetString("db_sqlite_path")

	// Настройки JWT
	cfg.JWT.SecretKey = v.GetString("jwt_secret_key")
	cfg.JWT.ExpiresIn = v.GetInt("jwt_expires_in")

	// Настройки SMTP
	cfg.SMTP.Host = v.GetString("smtp_host")
	cfg.SMTP.Port = v.GetInt("smtp_port")
	cfg.SMTP.Username = v.GetString("smtp_username")
	cfg.SMTP.Password = v.GetString("smtp_password")
	cfg.SMTP.From = v.GetString("smtp_from")

	cfg.AMQP.URL = v.GetString("amqp_url")
	cfg.AMQP.Exchange = v.GetString("amqp_exchange")

	cfg.AuditInterval = v.GetDuration("audit_interval")
	cfg.LogDir = v.GetString("log_dir")
	cfg.LogDebug = v.GetBool("log_debug")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет корректность конфигурации
func (c *Config) Validate() error {
	var problems []string

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("неверный порт сервера: %d", c.Server.Port))
	}
	if c.Admin.Port < 0 || c.Admin.Port > 65535 {
		problems = append(problems, fmt.Sprintf("неверный порт админ-сервера: %d", c.Admin.Port))
	}
	switch c.DB.Driver {
	case "postgres", "sqlite":
	default:
		problems = append(problems, fmt.Sprintf("неизвестный драйвер базы данных: %q", c.DB.Driver))
	}
	if c.JWT.SecretKey == "" {
		problems = append(problems, "JWT_SECRET_KEY не задан")
	}
	if c.JWT.ExpiresIn <= 0 {
		problems = append(problems, fmt.Sprintf("неверное время жизни JWT: %d", c.JWT.ExpiresIn))
	}
	if c.Server.RateLimit <= 0 {
		problems = append(problems, fmt.Sprintf("неверный лимит запросов: %d", c.Server.RateLimit))
	}
	if c.AuditInterval < 0 {
		problems = append(problems, "AUDIT_INTERVAL не может быть отрицательным")
	}

	if len(problems) > 0 {
		return fmt.Errorf("ошибка конфигурации: %s", strings.Join(problems, "; "))
	}
	return nil
}

// DSN возвращает строку подключения к PostgreSQL
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.DB.Host,
		c.DB.Port,
		c.DB.User,
		c.DB.Password,
		c.DB.DBName,
	)
}

// MigrationURL возвращает URL для golang-migrate
func (c *Config) MigrationURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User,
		c.DB.Password,
		c.DB.Host,
		c.DB.Port,
		c.DB.DBName,
	)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
