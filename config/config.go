package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Version of imresize, overridden by ldflags
var Version = "dev"

// Config holds process-wide defaults, read from IMRESIZE_* variables
type Config struct {
	Develop bool   `envconfig:"DEVELOP"`
	Size    uint   `envconfig:"SIZE" default:"1920"`
	Quality int    `envconfig:"QUALITY" default:"80"`
	Workers int    `envconfig:"WORKERS" default:"1"`
	Codec   string `envconfig:"CODEC" default:"nfnt"`
}

// Current is the loaded configuration
var Current = new(Config)

func init() {
	if err := Load(); err != nil {
		fmt.Fprintf(os.Stderr, "config: %s\n", err)
	}
}

// Load reads the environment into Current
func Load() error {
	var c Config
	if err := envconfig.Process("imresize", &c); err != nil {
		return err
	}
	*Current = c
	return nil
}

// InDevelop ...
func InDevelop() bool {
	return Current.Develop
}

// JobFile is a resize job stored as YAML. Zero fields fall back to Current.
type JobFile struct {
	Source      string `yaml:"source"`
	Destination string `yaml:"destination,omitempty"`
	Size        uint   `yaml:"size,omitempty"`
	Quality     int    `yaml:"quality,omitempty"`
	Overwrite   bool   `yaml:"overwrite,omitempty"`
	Workers     int    `yaml:"workers,omitempty"`
	Codec       string `yaml:"codec,omitempty"`
}

// LoadJobFile parses a YAML job file
func LoadJobFile(filename string) (*JobFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	jf := new(JobFile)
	if err = yaml.Unmarshal(data, jf); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	jf.fill(Current)
	return jf, nil
}

func (jf *JobFile) fill(c *Config) {
	if jf.Size == 0 {
		jf.Size = c.Size
	}
	if jf.Quality == 0 {
		jf.Quality = c.Quality
	}
	if jf.Workers == 0 {
		jf.Workers = c.Workers
	}
	if jf.Codec == "" {
		jf.Codec = c.Codec
	}
}
