package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// Core
	BotToken      string `env:"BOT_TOKEN,required"`
	DatabaseURL   string `env:"DATABASE_URL,required"`
	OpenRouterKey string `env:"OPENROUTER_API_KEY,required"`

	// Attachment storage (Cloudinary unsigned upload)
	CloudinaryCloudName    string `env:"CLOUDINARY_CLOUD_NAME,required"`
	CloudinaryUploadPreset string `env:"CLOUDINARY_UPLOAD_PRESET,required"`

	// Default tenant used to scope purchases and queries
	GroupID string `env:"GROUP_ID" envDefault:"grupo1"`

	// Local staging directory for attachments pending upload
	TempDir string `env:"TEMP_UPLOADS_DIR" envDefault:"./temp_uploads"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
