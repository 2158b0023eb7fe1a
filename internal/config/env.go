package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// LoadEnv overlays HEVCSHRINK_* environment variables onto cfg. Fields whose
// variable is unset keep their current value.
func LoadEnv(cfg *Config) error {
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return fmt.Errorf("read environment: %w", err)
	}
	return nil
}

// envHelp returns the environment section of the help text.
func envHelp() string {
	header := "Environment"
	cfg := DefaultConfig()
	text, err := cleanenv.GetDescription(&cfg, &header)
	if err != nil {
		return ""
	}
	return text
}
