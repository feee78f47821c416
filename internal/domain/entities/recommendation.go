package entities

import (
	"strings"
)

const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderOllama    = "ollama"

	// RecommendationSystemPrompt is sent as the system message by providers that support one.
	RecommendationSystemPrompt = "You are a Python environment design expert who helps developers " +
		"create efficient, reusable virtual environments."

	separatorWidth = 80
)

const recommendationTemplate = `I have analyzed Python package usage across multiple repositories. Based on the frequency analysis below, please suggest a small number of discrete, reusable Python virtual environments (typically 2-5 environments) that would cover most use cases.

For each suggested environment, provide:
1. A descriptive name (e.g., "python-base", "data-science", "web-dev")
2. The core packages to include (focus on the most frequently used packages)
3. A brief description of what types of projects would use this environment
4. Suggested Python version

Guidelines:
- Focus on packages that appear in 30%+ of projects
- Group related packages together (e.g., web frameworks, data analysis, testing)
- Start with a "base" environment containing the most universal packages
- Keep specialized environments lean - only add what's truly needed
- Consider version compatibility when grouping packages

FREQUENCY ANALYSIS:
{{frequency}}

UNIQUE PACKAGES (for reference):
{{unique}}

Please provide your recommendations in a clear, structured format.`

// TokenEnvVar returns the environment variable holding the API key of a
// provider, or "" for providers that need none.
func TokenEnvVar(provider string) string {
	switch provider {
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	default:
		return ""
	}
}

// BuildRecommendationPrompt embeds the frequency report (and the unique
// package list, when available) verbatim into the instruction template.
func BuildRecommendationPrompt(frequencyReport, uniqueReport string) string {
	if uniqueReport == "" {
		uniqueReport = "Not available"
	}
	replacer := strings.NewReplacer(
		"{{frequency}}", frequencyReport,
		"{{unique}}", uniqueReport,
	)
	return replacer.Replace(recommendationTemplate)
}

// FormatRecommendationReport renders the persisted recommendation file: a
// title, the provider label, a separator and the reply exactly as received.
func FormatRecommendationReport(provider, reply string) string {
	var sb strings.Builder
	sb.WriteString("# AI-Generated Environment Recommendations\n\n")
	sb.WriteString("Generated using: " + strings.ToUpper(provider) + "\n\n")
	sb.WriteString(strings.Repeat("=", separatorWidth) + "\n\n")
	sb.WriteString(reply)
	return sb.String()
}
