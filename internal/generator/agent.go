package generator

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/getlawrence/autodocs/internal/agents"
	"github.com/getlawrence/autodocs/internal/templates"
)

// AgentExecutor runs a prompt through a local coding agent.
type AgentExecutor interface {
	Execute(ctx context.Context, agentType agents.AgentType, prompt, dir string) (string, error)
}

// Agent asks a coding agent CLI to write each docstring.
type Agent struct {
	executor  AgentExecutor
	engine    *templates.TemplateEngine
	agentType agents.AgentType
}

func NewAgent(executor AgentExecutor, engine *templates.TemplateEngine, agentType agents.AgentType) *Agent {
	return &Agent{executor: executor, engine: engine, agentType: agentType}
}

func (a *Agent) Generate(ctx context.Context, req Request) (string, error) {
	prompt, err := a.engine.GenerateDocstringPrompt(promptData(req))
	if err != nil {
		return "", fmt.Errorf("failed to generate prompt: %w", err)
	}

	dir := ""
	if req.File != "" {
		dir = filepath.Dir(req.File)
	}
	out, err := a.executor.Execute(ctx, a.agentType, prompt, dir)
	if err != nil {
		return "", err
	}

	text := Sanitize(out)
	if text == "" {
		return "", fmt.Errorf("agent returned no text for %s", req.QualifiedName())
	}
	return text, nil
}

func promptData(req Request) templates.DocstringPromptData {
	return templates.DocstringPromptData{
		Language:      req.Language,
		Kind:          string(req.Kind),
		Name:          req.Name,
		QualifiedName: req.QualifiedName(),
		File:          req.File,
		Source:        req.Source,
		Existing:      req.Existing,
	}
}
