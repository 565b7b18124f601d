package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"
)

const (
	productionMoneyURL = "https://money.yandex.ru"
	demoMoneyURL       = "https://demomoney.yandex.ru"
)

// KassaConfig описывает магазин в платёжном шлюзе.
type KassaConfig struct {
	Debug        bool     `yaml:"debug"`
	ShopID       int64    `yaml:"shop_id"`
	SCID         int64    `yaml:"scid"`
	ShopPassword string   `yaml:"shop_password"`
	LocalURL     string   `yaml:"local_url"`   // префикс маршрутов, например /kassa
	ShopDomain   string   `yaml:"shop_domain"` // https://shop.example.com
	PaymentTypes []string `yaml:"payment_types"`

	// Шаблоны ссылок на заказ; {order_id} и {result} подставляются при редиректе.
	OrderURLTemplate    string `yaml:"order_url_template"`
	CompleteURLTemplate string `yaml:"complete_url_template"`
}

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		Driver string `yaml:"driver"` // postgres, mysql, memory
		DSN    string `yaml:"url"`
	} `yaml:"database"`

	Email struct {
		Enabled      bool   `yaml:"enabled"`
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
	} `yaml:"email"`

	// Секрет подписи токенов JSON API хост-приложения. Пустой - API выключен.
	Auth struct {
		APISecret string `yaml:"api_secret"`
	} `yaml:"auth"`

	Kassa KassaConfig `yaml:"kassa"`
}

var AppConfig *Config

// DefaultPaymentTypes - способы оплаты, принимаемые магазином, если в конфиге не указано иное.
var DefaultPaymentTypes = []string{"AB", "AC", "GP", "PB", "PC", "WM"}

func LoadConfig() {
	dbURL := os.Getenv("DATABASE_URL")

	if dbURL == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}
		log.Println("Загрузка конфигурации из", configPath)

		cfg, err := LoadFile(configPath)
		if err != nil {
			log.Fatalf("Failed to load config file at %s: %v", configPath, err)
		}
		AppConfig = cfg
		return
	}

	log.Println("Загрузка конфигурации из переменных окружения")
	AppConfig = FromEnv()
}

// LoadFile читает YAML-конфиг и проставляет значения по умолчанию.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// FromEnv собирает конфигурацию из переменных окружения (тесты, контейнеры).
func FromEnv() *Config {
	var cfg Config

	cfg.Database.DSN = os.Getenv("DATABASE_URL")
	cfg.Database.Driver = os.Getenv("DATABASE_DRIVER")
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))

	cfg.Kassa.Debug, _ = strconv.ParseBool(os.Getenv("KASSA_DEBUG"))
	cfg.Kassa.ShopID, _ = strconv.ParseInt(os.Getenv("KASSA_SHOP_ID"), 10, 64)
	cfg.Kassa.SCID, _ = strconv.ParseInt(os.Getenv("KASSA_SCID"), 10, 64)
	cfg.Kassa.ShopPassword = os.Getenv("KASSA_SHOP_PASSWORD")
	cfg.Kassa.LocalURL = os.Getenv("KASSA_LOCAL_URL")
	cfg.Kassa.ShopDomain = os.Getenv("KASSA_SHOP_DOMAIN")
	cfg.Kassa.OrderURLTemplate = os.Getenv("KASSA_ORDER_URL_TEMPLATE")
	cfg.Kassa.CompleteURLTemplate = os.Getenv("KASSA_COMPLETE_URL_TEMPLATE")
	if types := os.Getenv("KASSA_PAYMENT_TYPES"); types != "" {
		cfg.Kassa.PaymentTypes = strings.Split(types, ",")
	}

	cfg.Auth.APISecret = os.Getenv("API_SECRET")

	cfg.Email.Enabled, _ = strconv.ParseBool(os.Getenv("EMAIL_ENABLED"))
	cfg.Email.SMTPHost = os.Getenv("SMTP_HOST")
	cfg.Email.SMTPPort, _ = strconv.Atoi(os.Getenv("SMTP_PORT"))
	cfg.Email.SMTPUsername = os.Getenv("SMTP_USER")
	cfg.Email.SMTPPassword = os.Getenv("SMTP_PASSWORD")
	cfg.Email.FromEmail = os.Getenv("SMTP_FROM")

	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 4000
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "postgres"
	}
	if c.Kassa.LocalURL == "" {
		c.Kassa.LocalURL = "/kassa"
	}
	c.Kassa.LocalURL = "/" + strings.Trim(c.Kassa.LocalURL, "/")
	if len(c.Kassa.PaymentTypes) == 0 {
		c.Kassa.PaymentTypes = DefaultPaymentTypes
	}
	for i, t := range c.Kassa.PaymentTypes {
		c.Kassa.PaymentTypes[i] = strings.ToUpper(strings.TrimSpace(t))
	}
	if c.Email.SMTPPort == 0 {
		c.Email.SMTPPort = 587
	}
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}

// MoneyURL - адрес шлюза: демо-стенд в debug-режиме, боевой иначе.
func (k KassaConfig) MoneyURL() string {
	if k.Debug {
		return demoMoneyURL
	}
	return productionMoneyURL
}

// TargetURL - куда отправляется платёжная форма покупателя.
func (k KassaConfig) TargetURL() string {
	return k.MoneyURL() + "/eshop.xml"
}

// AcceptsPaymentType проверяет, что код способа оплаты разрешён магазином.
func (k KassaConfig) AcceptsPaymentType(code string) bool {
	for _, t := range k.PaymentTypes {
		if t == code {
			return true
		}
	}
	return false
}

// FinishURL строит ссылку возврата покупателя (shopSuccessURL / shopFailURL).
func (k KassaConfig) FinishURL(action, orderID string) string {
	q := url.Values{}
	q.Set("cr_action", action)
	q.Set("cr_order_number", orderID)
	return fmt.Sprintf("%s%s/finish/?%s", strings.TrimRight(k.ShopDomain, "/"), k.LocalURL, q.Encode())
}
