package report

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/tokenscan/internal/cli"
	"github.com/theirongolddev/tokenscan/internal/model"
)

// AgentComment renders the markdown usage block for a single transcript,
// suitable for posting as an issue comment. The field order is stable.
func AgentComment(agentID string, u model.UsageRecord, branch string) string {
	if branch == "" {
		branch = "unknown"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## Token Usage (Agent %s)\n\n", agentID)
	fmt.Fprintf(&b, "- **Input tokens:** %s\n", cli.FormatNumber(u.TotalInput()))
	fmt.Fprintf(&b, "  - Direct: %s\n", cli.FormatNumber(u.Input))
	fmt.Fprintf(&b, "  - Cache creation: %s\n", cli.FormatNumber(u.CacheCreation))
	fmt.Fprintf(&b, "  - Cache read: %s\n", cli.FormatNumber(u.CacheRead))
	fmt.Fprintf(&b, "- **Output tokens:** %s\n", cli.FormatNumber(u.Output))
	fmt.Fprintf(&b, "- **Total:** %s\n\n", cli.FormatNumber(u.Total()))
	fmt.Fprintf(&b, "Branch: `%s`", branch)
	return b.String()
}
