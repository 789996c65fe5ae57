// Package config предоставляет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек шлюза пожертвований
type Config struct {
	Env                     string `yaml:"env" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string"`
	MigrationsPath          string `yaml:"migrations_path" env-default:"./migrations"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	RateLimit               `yaml:"rate_limit"`
	Paystack                `yaml:"paystack"`
	Gemini                  `yaml:"gemini"`

	RabbitMQURL        string        `yaml:"rabbitmq_url"`
	RabbitMQMaxRetries int           `yaml:"rabbitmq_max_retries" env-default:"5"`
	RabbitMQRetryDelay time.Duration `yaml:"rabbitmq_retry_delay" env-default:"2s"`

	SMTPHost string `yaml:"smtp_host"`
	SMTPPort string `yaml:"smtp_port"`
	SMTPUser string `yaml:"smtp_user"`
	SMTPPass string `yaml:"smtp_pass" env:"SMTP_PASS"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"30s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"5s"`
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"24h"`
}

// RateLimit настройки лимитера AI-запросов. Requests и Window задают
// фиксированное окно на пользователя. FailOpen определяет политику при
// отказе хранилища: true - пропускать запрос, false - отклонять.
// GlobalRPS и GlobalBurst настраивают грубый лимитер на весь процесс.
type RateLimit struct {
	Requests    int           `yaml:"requests" env-default:"10"`
	Window      time.Duration `yaml:"window" env-default:"1m"`
	FailOpen    bool          `yaml:"fail_open" env-default:"true"`
	GlobalRPS   float64       `yaml:"global_rps" env-default:"50"`
	GlobalBurst int           `yaml:"global_burst" env-default:"100"`
}

// Paystack настройки платёжного провайдера. SecretKey используется и для
// авторизации исходящих запросов, и для проверки подписи webhook.
type Paystack struct {
	SecretKey   string `yaml:"secret_key" env:"PAYSTACK_SECRET_KEY"`
	APIURL      string `yaml:"api_url" env-default:"https://api.paystack.co"`
	CallbackURL string `yaml:"callback_url"`
}

// Gemini настройки генеративного провайдера.
type Gemini struct {
	APIKey  string        `yaml:"api_key" env:"GEMINI_API_KEY"`
	Model   string        `yaml:"model" env-default:"gemini-2.0-flash"`
	APIURL  string        `yaml:"api_url" env-default:"https://generativelanguage.googleapis.com/v1beta"`
	Timeout time.Duration `yaml:"timeout" env-default:"30s"`
}

// MustLoad функция для загрузки конфига, путь к файлу берётся из CONFIG_PATH
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}
