package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/tokenscan/internal/cli"
)

// ScanBar renders a labeled progress bar for the transcript parsing phase.
func ScanBar(pct float64, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 1 {
		pct = 1
	}

	bar := progress.New(
		progress.WithSolidFill(string(cli.ColorAccent)),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(cli.ColorTextDim)

	pctStyle := lipgloss.NewStyle().Foreground(cli.ColorAccent).Bold(true)

	return bar.ViewAs(pct) + " " + pctStyle.Render(fmt.Sprintf("%3.0f%%", pct*100))
}
