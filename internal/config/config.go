package config

import (
	"fmt"
	"github.com/ilyakaznacheev/cleanenv"
	"log"
	"sync"
)

type Config struct {
	Env      string `yaml:"env" env-default:"local"`
	Telegram struct {
		ApiKey  string `yaml:"api_key" env:"TELEGRAM_BOT_TOKEN" env-default:""`
		AdminId int64  `yaml:"admin_id" env-default:"0"`
		BotName string `yaml:"bot_name" env-default:"LinkletBot"`
		Enabled bool   `yaml:"enabled" env-default:"false"`
	} `yaml:"telegram"`
	Mongo struct {
		Enabled      bool   `yaml:"enabled" env-default:"false"`
		Host         string `yaml:"host" env-default:"127.0.0.1"`
		Port         string `yaml:"port" env-default:"27017"`
		User         string `yaml:"user" env-default:"admin"`
		Password     string `yaml:"password" env-default:"pass"`
		Database     string `yaml:"database" env-default:""`
		StateTTLDays int    `yaml:"state_ttl_days" env-default:"7"`
	} `yaml:"mongo"`
	N8N struct {
		BaseURL        string `yaml:"base_url" env:"N8N_BASE_URL" env-default:"http://127.0.0.1:5678"`
		ApiKey         string `yaml:"api_key" env:"N8N_API_KEY" env-default:""`
		WebhookBaseURL string `yaml:"webhook_base_url" env:"N8N_WEBHOOK_BASE_URL" env-default:""`
	} `yaml:"n8n"`
	AI struct {
		Provider string `yaml:"provider" env-default:"openai"`
		ApiKey   string `yaml:"api_key" env:"AI_API_KEY" env-default:""`
		Model    string `yaml:"model" env-default:""`
	} `yaml:"ai"`
	RateLimit struct {
		Requests      int `yaml:"requests" env-default:"30"`
		WindowSeconds int `yaml:"window_seconds" env-default:"60"`
	} `yaml:"rate-limit"`
	Listen struct {
		BindIP string `yaml:"bind_ip" env-default:"127.0.0.1"`
		Port   string `yaml:"port" env-default:"9100"`
		ApiKey string `yaml:"key" env-default:""`
	} `yaml:"listen"`
}

var instance *Config
var once sync.Once

func MustLoad(path string) *Config {
	var err error
	once.Do(func() {
		instance = &Config{}
		if err = cleanenv.ReadConfig(path, instance); err != nil {
			desc, _ := cleanenv.GetDescription(instance, nil)
			err = fmt.Errorf("%s; %s", err, desc)
			instance = nil
			log.Fatal(err)
		}
	})
	return instance
}
