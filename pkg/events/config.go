package events

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	EnvKafkaBrokers              = "KAFKA_BROKERS"
	EnvKafkaTopic                = "KAFKA_BOOKING_EVENTS_TOPIC"
	EnvKafkaDLQTopic             = "KAFKA_BOOKING_EVENTS_DLQ_TOPIC"
	EnvKafkaGroupID              = "KAFKA_GROUP_ID"
	EnvKafkaProducerMaxAttempts  = "KAFKA_PRODUCER_MAX_ATTEMPTS"
	EnvKafkaProducerBatchTimeout = "KAFKA_PRODUCER_BATCH_TIMEOUT"
	EnvKafkaConsumerMinBytes     = "KAFKA_CONSUMER_MIN_BYTES"
	EnvKafkaConsumerMaxBytes     = "KAFKA_CONSUMER_MAX_BYTES"
	EnvKafkaConsumerMaxWait      = "KAFKA_CONSUMER_MAX_WAIT"
	EnvKafkaConsumerMaxRetries   = "KAFKA_CONSUMER_MAX_RETRIES"
)

const (
	DefaultBrokers              = "localhost:9092"
	DefaultTopic                = "booking-events"
	DefaultDLQTopic             = "booking-events-dlq"
	DefaultGroupID              = "staybook-notifier"
	DefaultProducerMaxAttempts  = 3
	DefaultProducerBatchTimeout = 10 * time.Millisecond
	DefaultConsumerMinBytes     = 1
	DefaultConsumerMaxBytes     = 10 * 1024 * 1024 // 10MB
	DefaultConsumerMaxWait      = 500 * time.Millisecond
	DefaultConsumerMaxRetries   = 3
)

type Config struct {
	Brokers  []string
	Topic    string
	DLQTopic string
	GroupID  string

	ProducerMaxAttempts  int
	ProducerBatchTimeout time.Duration

	ConsumerMinBytes   int
	ConsumerMaxBytes   int
	ConsumerMaxWait    time.Duration
	ConsumerMaxRetries int
}

func LoadConfig() (*Config, error) {
	brokers := strings.Split(getEnvStr(EnvKafkaBrokers, DefaultBrokers), ",")
	for i, broker := range brokers {
		brokers[i] = strings.TrimSpace(broker)
	}

	cfg := &Config{
		Brokers:  brokers,
		Topic:    getEnvStr(EnvKafkaTopic, DefaultTopic),
		DLQTopic: getEnvStr(EnvKafkaDLQTopic, DefaultDLQTopic),
		GroupID:  getEnvStr(EnvKafkaGroupID, DefaultGroupID),

		ProducerMaxAttempts:  getEnvInt(EnvKafkaProducerMaxAttempts, DefaultProducerMaxAttempts),
		ProducerBatchTimeout: getEnvDuration(EnvKafkaProducerBatchTimeout, DefaultProducerBatchTimeout),

		ConsumerMinBytes:   getEnvInt(EnvKafkaConsumerMinBytes, DefaultConsumerMinBytes),
		ConsumerMaxBytes:   getEnvInt(EnvKafkaConsumerMaxBytes, DefaultConsumerMaxBytes),
		ConsumerMaxWait:    getEnvDuration(EnvKafkaConsumerMaxWait, DefaultConsumerMaxWait),
		ConsumerMaxRetries: getEnvInt(EnvKafkaConsumerMaxRetries, DefaultConsumerMaxRetries),
	}

	return cfg, cfg.Validate()
}

func (cfg *Config) Validate() error {
	if len(cfg.Brokers) == 0 {
		return fmt.Errorf("at least one Kafka broker is required")
	}
	for i, broker := range cfg.Brokers {
		if broker == "" {
			return fmt.Errorf("broker %d cannot be empty", i)
		}
	}
	if cfg.Topic == "" {
		return fmt.Errorf("topic cannot be empty")
	}
	if cfg.ProducerMaxAttempts <= 0 {
		return fmt.Errorf("ProducerMaxAttempts must be positive, got: %d", cfg.ProducerMaxAttempts)
	}
	if cfg.ProducerBatchTimeout <= 0 {
		return fmt.Errorf("ProducerBatchTimeout must be positive, got: %s", cfg.ProducerBatchTimeout)
	}
	if cfg.ConsumerMinBytes <= 0 || cfg.ConsumerMaxBytes < cfg.ConsumerMinBytes {
		return fmt.Errorf("invalid consumer byte range: %d-%d", cfg.ConsumerMinBytes, cfg.ConsumerMaxBytes)
	}
	if cfg.ConsumerMaxWait <= 0 {
		return fmt.Errorf("ConsumerMaxWait must be positive, got: %s", cfg.ConsumerMaxWait)
	}
	if cfg.ConsumerMaxRetries < 0 {
		return fmt.Errorf("ConsumerMaxRetries cannot be negative, got: %d", cfg.ConsumerMaxRetries)
	}
	return nil
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
