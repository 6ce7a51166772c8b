package generator

import (
	"fmt"
	"os"
	"time"

	"github.com/getlawrence/autodocs/internal/agents"
	"github.com/getlawrence/autodocs/internal/config"
	"github.com/getlawrence/autodocs/internal/templates"
)

// Dependencies lets callers swap the collaborators New would otherwise build.
type Dependencies struct {
	Agents    AgentExecutor
	Anthropic MessageClient
	Getenv    func(string) string
}

// New builds the generator selected by cfg.Mode.
func New(cfg config.GeneratorConfig, deps Dependencies) (Generator, error) {
	switch cfg.Mode {
	case "", "static":
		return NewStatic(cfg.Template)
	}

	engine, err := templates.NewTemplateEngine()
	if err != nil {
		return nil, err
	}

	switch cfg.Mode {
	case "agent":
		executor := deps.Agents
		if executor == nil {
			executor = agents.NewDetector()
		}
		return NewAgent(executor, engine, agents.AgentType(cfg.Agent)), nil
	case "anthropic":
		getenv := deps.Getenv
		if getenv == nil {
			getenv = os.Getenv
		}
		key := ""
		if cfg.APIKeyEnv != "" {
			key = getenv(cfg.APIKeyEnv)
		}
		if key == "" && deps.Anthropic == nil {
			return nil, fmt.Errorf("environment variable %s is not set", cfg.APIKeyEnv)
		}
		return NewAnthropic(engine, AnthropicOptions{
			APIKey:    key,
			Model:     cfg.Model,
			MaxTokens: cfg.MaxTokens,
			Timeout:   time.Duration(cfg.TimeoutSeconds) * time.Second,
			Retries:   cfg.Retries,
			Client:    deps.Anthropic,
		})
	}
	return nil, fmt.Errorf("unknown generator mode %q", cfg.Mode)
}
