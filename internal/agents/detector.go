package agents

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// AgentType represents different coding agent types
type AgentType string

const (
	GeminiCLI   AgentType = "gemini"
	ClaudeCode  AgentType = "claude"
	OpenAICodex AgentType = "openai"
	GitHubCLI   AgentType = "github"
)

// Agent represents a coding agent with its metadata
type Agent struct {
	Type      AgentType `json:"type"`
	Name      string    `json:"name"`
	Command   string    `json:"command"`
	Available bool      `json:"available"`
	Version   string    `json:"version"`
}

// Runner executes a command and returns its standard output.
type Runner func(ctx context.Context, dir, name string, args ...string) ([]byte, error)

// Detector handles detection and execution of locally installed coding agents
type Detector struct {
	agents   []Agent
	lookPath func(string) (string, error)
	run      Runner
}

// NewDetector creates a new agent detector
func NewDetector() *Detector {
	return NewDetectorWith(exec.LookPath, runCommand)
}

// NewDetectorWith creates a detector with custom lookup and execution.
func NewDetectorWith(lookPath func(string) (string, error), run Runner) *Detector {
	return &Detector{
		agents: []Agent{
			{Type: GeminiCLI, Name: "Gemini CLI", Command: "gemini"},
			{Type: ClaudeCode, Name: "Claude Code", Command: "claude"},
			{Type: OpenAICodex, Name: "OpenAI Codex", Command: "openai"},
			{Type: GitHubCLI, Name: "GitHub Copilot CLI", Command: "gh"},
		},
		lookPath: lookPath,
		run:      run,
	}
}

// DetectAvailableAgents scans the system for available coding agents
func (d *Detector) DetectAvailableAgents(ctx context.Context) []Agent {
	var available []Agent

	for _, agent := range d.agents {
		if d.isAgentAvailable(agent) {
			agent.Available = true
			agent.Version = d.getAgentVersion(ctx, agent)
			available = append(available, agent)
		}
	}

	return available
}

// Resolve returns the requested agent, or the first available one when
// agentType is empty.
func (d *Detector) Resolve(agentType AgentType) (Agent, error) {
	for _, agent := range d.agents {
		if agentType != "" && agent.Type != agentType {
			continue
		}
		if d.isAgentAvailable(agent) {
			agent.Available = true
			return agent, nil
		}
	}
	if agentType == "" {
		return Agent{}, fmt.Errorf("no coding agent found on PATH")
	}
	return Agent{}, fmt.Errorf("agent %s not available", agentType)
}

func (d *Detector) isAgentAvailable(agent Agent) bool {
	command := strings.Split(agent.Command, " ")[0]
	_, err := d.lookPath(command)
	return err == nil
}

func (d *Detector) getAgentVersion(ctx context.Context, agent Agent) string {
	command := strings.Split(agent.Command, " ")[0]
	output, err := d.run(ctx, "", command, "--version")
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(string(output))
}

// Execute sends prompt to the agent and returns what it printed.
func (d *Detector) Execute(ctx context.Context, agentType AgentType, prompt, dir string) (string, error) {
	agent, err := d.Resolve(agentType)
	if err != nil {
		return "", err
	}

	out, err := d.run(ctx, dir, agent.Command, commandArgs(agent.Type, prompt)...)
	if err != nil {
		return "", fmt.Errorf("%s failed: %w", agent.Name, err)
	}
	return string(out), nil
}

// commandArgs returns non-interactive invocations that print a single answer.
func commandArgs(agentType AgentType, prompt string) []string {
	switch agentType {
	case GitHubCLI:
		return []string{"copilot", "explain", prompt}
	case GeminiCLI:
		return []string{"--prompt", prompt}
	case ClaudeCode:
		return []string{"--print", prompt}
	case OpenAICodex:
		return []string{"api", "chat.completions.create", "-m", "gpt-4o-mini", "-g", "user", prompt}
	default:
		return []string{prompt}
	}
}

func runCommand(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return stdout.Bytes(), nil
}
