package capgains

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds a run's configuration: which fills file to process, the
// cutoff year, and the accounting policy of each year.
//
//	input: fills.csv
//	max_year: 2021
//	policies:
//	  2018: hifo
//	  2021: fifo
type Config struct {
	Input    string    `yaml:"input"`
	MaxYear  int       `yaml:"max_year"`
	Policies PolicyMap `yaml:"policies"`
}

// LoadConfig reads and validates a YAML run configuration.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config %q: %w", path, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig parses and validates a YAML run configuration.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for completeness.
func (c *Config) Validate() error {
	if c.MaxYear == 0 {
		return fmt.Errorf("max_year is not set")
	}
	if len(c.Policies) == 0 {
		return fmt.Errorf("no policies configured")
	}
	for year := range c.Policies {
		if year > c.MaxYear {
			return fmt.Errorf("policy configured for year %d beyond max_year %d", year, c.MaxYear)
		}
	}
	return nil
}
