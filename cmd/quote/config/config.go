package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// QuoteConfig is the yaml configuration shared by the quote binaries.
type QuoteConfig struct {
	RPCURL  string `yaml:"rpcUrl"`
	ChainID uint64 `yaml:"chainId"`
	Variant string `yaml:"variant"`
}

func (c *QuoteConfig) validate() error {
	if c.RPCURL == "" {
		return errors.New("config: rpcUrl is required")
	}
	if c.ChainID == 0 {
		return errors.New("config: chainId is required")
	}
	return nil
}

// LoadConfig reads and validates a yaml config file.
func LoadConfig(path string) (*QuoteConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := QuoteConfig{
		Variant: "uniswap-v3",
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
