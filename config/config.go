package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/CIDgravity/snakelet"
)

// config structure
type Config struct {
	API      APIConfig      `mapstructure:"API"`
	Github   GithubConfig   `mapstructure:"GITHUB"`
	Tasks    TasksConfig    `mapstructure:"TASKS"`
	Logs     LogsConfig     `mapstructure:"LOGS"`
	Analysis AnalysisConfig `mapstructure:"ANALYSIS"`
}

type APIConfig struct {
	ListenPort string `mapstructure:"ListenPort"`
}

type GithubConfig struct {
	Token string `mapstructure:"Token"` // optional, raises the hourly rate limit from 60 to 5000
}

type TasksConfig struct {
	MaxParallelTasksAllowed int `mapstructure:"MaxParallelTasksAllowed"`
}

type LogsConfig struct {
	Level            string `mapstructure:"Level"` // error | warn | info | debug - case insensitive
	OutputLogsAsJSON bool   `mapstructure:"OutputLogsAsJson"`
}

type AnalysisConfig struct {
	// MaxDepth is the number of directory levels below the root that may be listed
	MaxDepth int `mapstructure:"MaxDepth"`

	// TimeoutSeconds bounds a whole analysis, including the fallback path
	TimeoutSeconds int `mapstructure:"TimeoutSeconds"`

	// ParseAllManifests enables dependency parsers for go, cargo, pip and composer
	// when false, only the first package.json contributes a dependency count
	ParseAllManifests bool `mapstructure:"ParseAllManifests"`
}

// Load
func Load() (*Config, error) {
	dir, err := filepath.Abs(filepath.Dir(os.Args[0]))

	if err != nil {
		return nil, err
	}

	// check config file exists
	configFilePath := dir + "/config/config.toml"

	if _, err := os.Stat(dir + "/config/config.toml"); errors.Is(err, os.ErrNotExist) {
		if _, err := os.Stat("config/config.toml"); errors.Is(err, os.ErrNotExist) {
			return nil, err
		} else {
			configFilePath = "config/config.toml"
		}
	}

	// load default and config file content
	cfg := GetDefault()
	_, err = snakelet.InitAndLoad(cfg, configFilePath)

	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// GetDefault
func GetDefault() *Config {
	return &Config{
		API: APIConfig{
			ListenPort: "5000",
		},
		Github: GithubConfig{
			Token: "",
		},
		Tasks: TasksConfig{
			MaxParallelTasksAllowed: 8,
		},
		Logs: LogsConfig{
			Level:            "debug",
			OutputLogsAsJSON: false,
		},
		Analysis: AnalysisConfig{
			MaxDepth:          3,
			TimeoutSeconds:    30,
			ParseAllManifests: false,
		},
	}
}
