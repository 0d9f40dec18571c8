package config

import (
	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	TableName            string   `env:"DYNAMODB_TABLE_NAME,required,notEmpty"`
	TopicARN             string   `env:"SNS_TOPIC_ARN,required,notEmpty"`
	BucketName           string   `env:"S3_BUCKET_NAME,required,notEmpty"`
	Region               string   `env:"AWS_REGION" envDefault:"eu-west-1"`
	EndpointURL          string   `env:"AWS_ENDPOINT_URL"` // localstack
	ConnectionsTableName string   `env:"CONNECTIONS_TABLE_NAME"`
	WebSocketEndpoint    string   `env:"API_GATEWAY_URL"`
	PushGatewayURL       string   `env:"PUSHGATEWAY_URL"`
	LogLevel             string   `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat            string   `env:"LOG_FORMAT" envDefault:"json"`
	GeneratorSites       []string `env:"GENERATOR_SITES" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// Attempt to load .env file for local development.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LiveFeedEnabled reports whether both WebSocket settings are present.
func (c *Config) LiveFeedEnabled() bool {
	return c.ConnectionsTableName != "" && c.WebSocketEndpoint != ""
}
