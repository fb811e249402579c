package conversation

import (
	"fmt"
	"strings"

	"helpdesk/app/service/memory"

	"github.com/tmc/langchaingo/tools"
)

// renderTemplate substitutes {key} placeholders in an embedded prompt.
func renderTemplate(template string, values map[string]any) string {
	for key, value := range values {
		template = strings.ReplaceAll(template, "{"+key+"}", fmt.Sprint(value))
	}

	return template
}

func formatExtraTools(extraTools []tools.Tool) string {
	if len(extraTools) == 0 {
		return "None"
	}

	var builder strings.Builder

	for _, tool := range extraTools {
		builder.WriteString(fmt.Sprintf("- %s: %s\n", tool.Name(), tool.Description()))
	}

	return builder.String()
}

func formatTurns(turns []memory.Turn) string {
	if len(turns) == 0 {
		return "No recent messages"
	}

	var builder strings.Builder

	for _, turn := range turns {
		builder.WriteString(fmt.Sprintf("%s - %s: %s\n",
			turn.Timestamp.Format("15:04:05"), turn.Role, turn.Text))
	}

	return builder.String()
}
