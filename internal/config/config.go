// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type AWSConfig struct {
	Region string `yaml:"region"`
}

type QueueConfig struct {
	URL         string `yaml:"url"`
	TopicARN    string `yaml:"topic_arn"`
	MaxMessages int    `yaml:"max_messages"`
	WaitSeconds int    `yaml:"wait_seconds"`
}

type QueuesConfig struct {
	Submission QueueConfig `yaml:"submission"`
	Archive    QueueConfig `yaml:"archive"`
	Thaw       QueueConfig `yaml:"thaw"`
}

type StorageConfig struct {
	InputsBucket  string `yaml:"inputs_bucket"`
	ResultsBucket string `yaml:"results_bucket"`
	KeyPrefix     string `yaml:"key_prefix"`
	ScratchDir    string `yaml:"scratch_dir"`
}

type GlacierConfig struct {
	Vault string `yaml:"vault"`
}

type DynamoConfig struct {
	Table     string `yaml:"table"`
	UserIndex string `yaml:"user_index"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type RestoreConfig struct {
	Mode         string `yaml:"mode"` // lambda | local
	FunctionName string `yaml:"function_name"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type OpsConfig struct {
	Port int `yaml:"port"`
}

type AnnotatorConfig struct {
	RunnerPath string `yaml:"runner_path"` // path to the AnnTools driver
}

type Config struct {
	AWS       AWSConfig       `yaml:"aws"`
	Queues    QueuesConfig    `yaml:"queues"`
	Storage   StorageConfig   `yaml:"storage"`
	Glacier   GlacierConfig   `yaml:"glacier"`
	DynamoDB  DynamoConfig    `yaml:"dynamodb"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Restore   RestoreConfig   `yaml:"restore"`
	Log       LogConfig       `yaml:"log"`
	Ops       OpsConfig       `yaml:"ops"`
	Annotator AnnotatorConfig `yaml:"annotator"`
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// defaults
	applyQueueDefaults(&cfg.Queues.Submission)
	applyQueueDefaults(&cfg.Queues.Archive)
	applyQueueDefaults(&cfg.Queues.Thaw)
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Storage.ScratchDir == "" {
		cfg.Storage.ScratchDir = "data"
	}
	if cfg.DynamoDB.UserIndex == "" {
		cfg.DynamoDB.UserIndex = "user_id-index"
	}
	if cfg.Redis.TTL <= 0 {
		cfg.Redis.TTL = 5 * time.Minute
	}
	if cfg.Restore.Mode == "" {
		cfg.Restore.Mode = "lambda"
	}
	if cfg.Ops.Port == 0 {
		cfg.Ops.Port = 9100
	}

	// Minimal validation
	if cfg.AWS.Region == "" {
		return nil, errors.New("aws.region is required")
	}
	if cfg.DynamoDB.Table == "" {
		return nil, errors.New("dynamodb.table is required")
	}

	return &cfg, nil
}

func applyQueueDefaults(q *QueueConfig) {
	if q.MaxMessages <= 0 {
		q.MaxMessages = 10
	}
	if q.WaitSeconds <= 0 {
		q.WaitSeconds = 10
	}
}
