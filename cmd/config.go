package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the settings of the application, read from the environment.
// Global flags override them.
type Config struct {
	DB       string `env:"TALLY_DB" envDefault:"data.sqlite"`
	Currency string `env:"TALLY_CURRENCY" envDefault:"EUR"`
	Verbose  bool   `env:"TALLY_VERBOSE"`
}

// LoadConfig loads the .env file of the working directory, if any, then parses the environment.
// Variables already set in the environment take precedence over the .env file.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("warning, ignoring .env file: %v", err)
	}
	c, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return c, nil
}
