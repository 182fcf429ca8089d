package commons

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"

	"snackapp/internal/config"
)

// LoadConfig loads a .env file when one exists and then the application
// config from path plus the environment.
func LoadConfig(path string) (*config.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env file: %w", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	return cfg, nil
}
