package cmd

import (
	"github.com/spf13/cobra"

	"github.com/getlawrence/autodocs/internal/agents"
	"github.com/getlawrence/autodocs/internal/logger"
)

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "List coding agents usable in agent mode",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		log := &logger.StdoutLogger{Out: cmd.OutOrStdout()}
		return listAvailableAgents(cmd, agents.NewDetector(), log)
	},
}

func init() {
	rootCmd.AddCommand(agentsCmd)
}

func listAvailableAgents(cmd *cobra.Command, detector *agents.Detector, log logger.Logger) error {
	available := detector.DetectAvailableAgents(cmd.Context())

	if len(available) == 0 {
		log.Log("No coding agents detected on your system")
		log.Log("\nTo use agent mode, install one of the following:")
		log.Log("  - GitHub CLI: gh extension install github/gh-copilot")
		log.Log("  - Gemini CLI: Follow instructions at https://ai.google.dev/gemini-api/docs/cli")
		log.Log("  - Claude Code: Follow instructions at https://docs.anthropic.com/claude/docs")
		return nil
	}

	log.Log("Available coding agents:")
	for _, agent := range available {
		log.Logf("  %s - %s (version: %s)\n", agent.Type, agent.Name, agent.Version)
	}
	return nil
}
