// Package config layers the three configuration sources: environment
// variables for client settings, an optional YAML file for runner
// settings, with CLI flags applied last by each command.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Env holds the remote-client settings read from the environment.
type Env struct {
	BaseURL     string        `env:"MUGLOAR_BASE_URL"`
	HTTPTimeout time.Duration `env:"MUGLOAR_HTTP_TIMEOUT" envDefault:"30s"`
	UserAgent   string        `env:"MUGLOAR_USER_AGENT"`
	MaxRetries  int           `env:"MUGLOAR_MAX_RETRIES" envDefault:"3"`
}

// FromEnv parses the environment into an Env.
func FromEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("parse environment: %w", err)
	}
	return e, nil
}

// File holds the runner settings a YAML config file may carry. Zero
// values mean "not set"; flags override anything set here.
type File struct {
	Workers        int      `yaml:"workers"`
	EventLog       string   `yaml:"event_log"`
	ScoreLog       string   `yaml:"score_log"`
	DumpPath       string   `yaml:"dump_path"`
	StatusAddr     string   `yaml:"status_addr"`
	AutoReputation bool     `yaml:"auto_reputation"`
	Resume         []string `yaml:"resume"`
}

// LoadFile reads and parses a YAML config file.
func LoadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, err
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}
