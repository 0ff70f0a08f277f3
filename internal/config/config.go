package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds all environment-driven settings for the server process.
type Config struct {
	Addr         string `env:"ADDR" envDefault:":3001"`
	AllowOrigins string `env:"CORS_ORIGINS" envDefault:"*"`

	OpenAIAPIKey string `env:"OPENAI_API_KEY"`
	OpenAIModel  string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`

	PromptPhaseSeconds int `env:"PROMPT_PHASE_SECONDS" envDefault:"25"`
	AnswerPhaseSeconds int `env:"ANSWER_PHASE_SECONDS" envDefault:"35"`

	Debug bool `env:"DEBUG" envDefault:"false"`
}

// Load parses configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
