package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Log    Log    `yaml:"log"`
	Server Server `yaml:"server"`
	OpenAI OpenAI `yaml:"openai"`
	Data   Data   `yaml:"data"`
	Chat   Chat   `yaml:"chat"`
	MCP    MCP    `yaml:"mcp"`
}

type OpenAI struct {
	Decision ModelConfig `yaml:"decision" validate:"required"`
	Reply    ModelConfig `yaml:"reply" validate:"required"`
}

type ModelConfig struct {
	// OpenAI base url
	BaseURL string `yaml:"base_url" example:"https://api.openai.com/v1" validate:"required"`
	// OpenAI token
	Token string `yaml:"token" example:"sk-proj-abc123456789DEF789ghi012JKL345mno678PQR901stu234VWX" validate:"required"`
	// OpenAI model
	Model string `yaml:"model" example:"gpt-4o-mini" validate:"required"`
}

type Server struct {
	// Listen host
	Host string `yaml:"host" example:"0.0.0.0"`
	// Listen port
	Port int `yaml:"port" example:"8080"`
	// Comma-separated list of allowed CORS origins
	CORSOrigins string `yaml:"cors_origins" example:"*"`
}

type Data struct {
	// Path to product catalog JSON
	Products string `yaml:"products" example:"data/products.json"`
	// Path to orders JSON
	Orders string `yaml:"orders" example:"data/orders.json"`
	// Path to refund policy JSON
	ReturnPolicy string `yaml:"return_policy" example:"data/return_policy.json"`
	// Directory for memory and transcript files
	Dir string `yaml:"dir" example:"data"`
}

type Chat struct {
	// Skip the LLM decision call for unmatched messages
	DisableLLMFallback bool `yaml:"disable_llm_fallback" example:"false"`
}

type MCP struct {
	// External MCP tool servers to bridge into the tool registry
	Servers []MCPServer `yaml:"servers"`
}

type MCPServer struct {
	// Name prefix for the bridged tools
	Name string `yaml:"name" example:"inventory" validate:"required"`
	// Command to start the stdio server
	Command string `yaml:"command" example:"docker" validate:"required"`
	// Command arguments
	Args []string `yaml:"args"`
}

type Log struct {
	// Console log level: debug, info, warn or error
	Level string `yaml:"level" example:"debug"`
	// Telegram logging config
	Telegram TelegramLog `yaml:"telegram"`
}

type TelegramLog struct {
	// Chat bot token, obtain it via BotFather
	Token string `yaml:"token" example:"1234567890:ABCdefGHIjklMNopQRstUVwxyZ-123456789"`
	// Chat ID to send messages to
	ChatID string `yaml:"chat_id" example:"1001234567890"`
}

func Load() (*Config, error) {
	var result Config

	data, err := os.ReadFile("config.yaml")
	if err != nil {
		return nil, oops.Errorf("failed to read config file: %w", err)
	}

	if err = yaml.Unmarshal(data, &result); err != nil {
		return nil, oops.Errorf("failed to parse YAML config: %w", err)
	}

	result.ApplyDefaults()

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(result); err != nil {
		return nil, oops.Errorf("failed to validate config: %w", err)
	}

	return &result, nil
}

func (c *Config) ApplyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.CORSOrigins == "" {
		c.Server.CORSOrigins = "*"
	}
	if c.Data.Products == "" {
		c.Data.Products = "data/products.json"
	}
	if c.Data.Orders == "" {
		c.Data.Orders = "data/orders.json"
	}
	if c.Data.ReturnPolicy == "" {
		c.Data.ReturnPolicy = "data/return_policy.json"
	}
	if c.Data.Dir == "" {
		c.Data.Dir = "data"
	}
}
