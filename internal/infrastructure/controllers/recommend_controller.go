package controllers

import (
	"github.com/spf13/cobra"

	"github.com/rios0rios0/reqscan/internal/domain/commands"
	"github.com/rios0rios0/reqscan/internal/domain/entities"
)

// RecommendController handles the "recommend" subcommand, which asks for AI
// recommendations on the reports of an earlier scan.
type RecommendController struct {
	command commands.Recommend
}

// NewRecommendController creates a new RecommendController.
func NewRecommendController(command commands.Recommend) *RecommendController {
	return &RecommendController{command: command}
}

// GetBind returns the Cobra command metadata for the recommend controller.
func (it *RecommendController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "recommend",
		Short: "Ask an AI provider to propose shared virtual environments",
		Long: `Send the frequency report of a previous scan (and the unique packages
report, if present) to an AI provider and save its recommendations.

Providers: anthropic (ANTHROPIC_API_KEY), openai (OPENAI_API_KEY)
and ollama (OLLAMA_HOST, no key required).`,
	}
}

// Execute runs the recommendation step on its own. Unlike the scan command,
// a failure here is the command's failure.
func (it *RecommendController) Execute(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings(cmd, nil)
	if err != nil {
		return err
	}
	if err = settings.Validate(); err != nil {
		return err
	}

	reply, err := it.command.Execute(commandContext(cmd), settings)
	if err != nil {
		return err
	}

	printRecommendation(cmd.OutOrStdout(), reply)
	return nil
}

// AddFlags adds the recommend-specific flags to the given Cobra command.
func (it *RecommendController) AddFlags(cmd *cobra.Command) {
	addOutputFlags(cmd)
	addRecommendationFlags(cmd)
}
