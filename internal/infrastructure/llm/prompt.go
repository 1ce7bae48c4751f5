package llm

import (
	"strings"

	"CryptoNewsPublisher/internal/domain"
)

const instruction = "Provide a compelling, concise, and informative summary of these market movements. " +
	"Avoid repetition and do not give financial advice."

// BuildPrompt embeds every market fact into a single instruction prompt.
func BuildPrompt(facts []domain.MarketFact) string {
	var sb strings.Builder
	sb.WriteString("The latest cryptocurrency market update:\n")
	for _, fact := range facts {
		sb.WriteString("- ")
		sb.WriteString(fact.Headline)
		sb.WriteString(": ")
		sb.WriteString(fact.Detail)
		sb.WriteString("\n")
	}
	sb.WriteString(instruction)
	return sb.String()
}
