package worker

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig is the YAML shape of a worker configuration file. Durations
// are strings in time.ParseDuration format.
type fileConfig struct {
	CronSchedule string `yaml:"cron_schedule"`
	Timezone     string `yaml:"timezone"`
	JobTimeout   string `yaml:"job_timeout"`
	HealthPort   int    `yaml:"health_port"`
}

// LoadConfigFromFile reads worker configuration from a YAML file.
// Missing fields keep their defaults. Unlike the env loader, an
// unreadable or invalid file is an error: a file was explicitly
// requested, so silently ignoring it would hide a deployment mistake.
func LoadConfigFromFile(path string) (*WorkerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	cfg := DefaultConfig()
	if fc.CronSchedule != "" {
		cfg.CronSchedule = fc.CronSchedule
	}
	if fc.Timezone != "" {
		cfg.Timezone = fc.Timezone
	}
	if fc.JobTimeout != "" {
		d, err := time.ParseDuration(fc.JobTimeout)
		if err != nil {
			return nil, fmt.Errorf("parse job_timeout: %w", err)
		}
		cfg.JobTimeout = d
	}
	if fc.HealthPort != 0 {
		cfg.HealthPort = fc.HealthPort
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return &cfg, nil
}
