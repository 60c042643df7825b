package main

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type config struct {
	MenuPath       string `env:"OTTO_MENU_PATH" envDefault:"menu.json"`
	IdentityDBPath string `env:"OTTO_IDENTITY_DB_PATH" envDefault:"identities.db"`
	GroqModel      string `env:"OTTO_GROQ_MODEL"`
	// AudioBackend selects the device layer: "miniaudio" or "portaudio".
	AudioBackend string `env:"OTTO_AUDIO_BACKEND" envDefault:"miniaudio"`
	// PortaudioBufferSize is the device frame size for the portaudio backend.
	PortaudioBufferSize int `env:"OTTO_PORTAUDIO_BUFFER_SIZE" envDefault:"1024"`
}

func loadConfig() (config, error) {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		return config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
