package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/tokenscan/internal/cli"
	"github.com/theirongolddev/tokenscan/internal/model"
	"github.com/theirongolddev/tokenscan/internal/report"
	"github.com/theirongolddev/tokenscan/internal/tui/components"
)

var (
	accentStyle   = lipgloss.NewStyle().Bold(true).Foreground(cli.ColorAccent)
	dimStyle      = lipgloss.NewStyle().Foreground(cli.ColorTextDim)
	mutedStyle    = lipgloss.NewStyle().Foreground(cli.ColorTextMuted)
	textStyle     = lipgloss.NewStyle().Foreground(cli.ColorText)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(cli.ColorText).Background(cli.ColorSurface)
	errorStyle    = lipgloss.NewStyle().Foreground(cli.ColorRed)
	savingsStyle  = lipgloss.NewStyle().Foreground(cli.ColorGreen)

	loadingCardStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(cli.ColorBorder).
				Padding(1, 3)
)

func (a App) viewLoading() string {
	title := accentStyle.Render("tokenscan")
	sub := dimStyle.Render(truncStr(a.root, 50))

	var status string
	if a.progressMax > 0 {
		pct := float64(a.progress) / float64(a.progressMax)
		status = components.ScanBar(pct, 40) + "\n" +
			dimStyle.Render(fmt.Sprintf("%d / %d transcripts", a.progress, a.progressMax))
	} else {
		status = a.spinner.View() + " Scanning sessions..."
	}

	card := loadingCardStyle.Render(lipgloss.JoinVertical(lipgloss.Center, title, sub, "", status))
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card)
}

func (a App) viewError() string {
	msg := errorStyle.Render("Scan failed: " + a.loadErr.Error())
	hint := dimStyle.Render("press q to quit")

	card := loadingCardStyle.Render(msg + "\n\n" + hint)
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card)
}

func (a App) viewNoSessions() string {
	msg := textStyle.Render("No sessions with subagents found.")
	root := dimStyle.Render(truncStr(a.root, 50))
	hint := dimStyle.Render("press q to quit")

	card := loadingCardStyle.Render(lipgloss.JoinVertical(lipgloss.Center, msg, root, "", hint))
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card)
}

// viewSummary renders the same summary table the CLI prints, scrollable
// with J/K when it overflows the terminal.
func (a App) viewSummary() string {
	var b strings.Builder
	report.Render(&b, a.res, report.Options{SummaryOnly: true})

	lines := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
	if a.detailScroll >= len(lines) {
		lines = lines[len(lines)-1:]
	} else if a.detailScroll > 0 {
		lines = lines[a.detailScroll:]
	}

	content := strings.Join(lines, "\n")
	content = truncateHeight(content, a.height-3)

	hint := dimStyle.Render("s browse · J/K scroll · q quit")
	return lipgloss.NewStyle().Padding(1, 2).Render(content + "\n\n" + hint)
}

func (a App) viewBrowser() string {
	header := a.renderHeader()
	footer := a.renderFooter()

	bodyH := a.height - lipgloss.Height(header) - lipgloss.Height(footer) - 2
	if bodyH < minContentHeight {
		bodyH = minContentHeight
	}

	leftW := a.width / 3
	if leftW < minListWidth {
		leftW = minListWidth
	}
	rightW := a.width - leftW
	if rightW < minListWidth {
		rightW = minListWidth
	}

	left := a.renderSessionList(leftW, bodyH)
	right := a.renderDetail(rightW, bodyH)

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	b.WriteString("\n")
	b.WriteString(footer)
	return b.String()
}

func (a App) renderHeader() string {
	left := " " + accentStyle.Render("tokenscan") + "  " + dimStyle.Render(truncStr(a.res.Root, 40))

	stats := fmt.Sprintf("%d sessions · %d subagents", len(a.res.Sessions), len(a.rows))
	if a.res.CacheHits > 0 {
		stats += fmt.Sprintf(" · %d cached", a.res.CacheHits)
	}
	stats += " · " + a.loadTime.Round(time.Millisecond).String()
	right := mutedStyle.Render(stats)

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 1
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func (a App) renderSessionList(width, height int) string {
	innerW := components.CardInnerWidth(width)

	visible := height - 3 // border + title line
	if visible < 1 {
		visible = 1
	}

	// Keep the cursor in view; pin it to the bottom row once scrolled.
	offset := 0
	if a.cursor >= visible {
		offset = a.cursor - visible + 1
	}

	var lines []string
	for i := offset; i < len(a.res.Sessions) && i-offset < visible; i++ {
		s := a.res.Sessions[i]
		label := truncStr(fmt.Sprintf("%s (%d)", s.Session.ID, len(s.Subagents)), innerW-2)

		if i == a.cursor {
			lines = append(lines, selectedStyle.Render("▸ "+label))
		} else {
			lines = append(lines, mutedStyle.Render("  "+label))
		}
	}

	body := padHeight(strings.Join(lines, "\n"), visible)
	title := fmt.Sprintf("Sessions (%d)", len(a.res.Sessions))
	return components.ContentCard(title, body, width)
}

func (a App) renderDetail(width, height int) string {
	innerW := components.CardInnerWidth(width)
	s := a.res.Sessions[a.cursor]

	var total model.UsageRecord
	var cheap, premium float64
	outputs := make([]float64, 0, len(s.Subagents))

	var b strings.Builder
	for i, sub := range s.Subagents {
		if i > 0 {
			b.WriteString("\n")
		}

		head := "Subagent " + sub.AgentID
		if sub.Issue != "" {
			head += " · #" + sub.Issue
		}
		if sub.Info.Branch != "" {
			head += " · " + sub.Info.Branch
		}
		b.WriteString(accentStyle.Render(truncStr(head, innerW)) + "\n")

		if sub.Info.Task != "" {
			b.WriteString(mutedStyle.Render(truncStr(sub.Info.Task, innerW)) + "\n")
		}

		tok := fmt.Sprintf("in %s · out %s · total %s",
			cli.FormatNumber(sub.Usage.TotalInput()),
			cli.FormatNumber(sub.Usage.Output),
			cli.FormatNumber(sub.Usage.Total()))
		b.WriteString(textStyle.Render(truncStr(tok, innerW)) + "\n")

		costs := fmt.Sprintf("cheap %s · premium %s",
			cli.FormatCost(sub.CheapCost), cli.FormatCost(sub.PremiumCost))
		b.WriteString(savingsStyle.Render(truncStr(costs, innerW)) + "\n")

		total.Add(sub.Usage)
		cheap += sub.CheapCost
		premium += sub.PremiumCost
		outputs = append(outputs, float64(sub.Usage.Output))
	}

	if len(s.Subagents) > 1 {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("output per subagent ") + textStyle.Render(cli.RenderSparkline(outputs)) + "\n")
	}

	b.WriteString("\n")
	totalLine := fmt.Sprintf("session total %s tokens · cheap %s · premium %s",
		cli.FormatNumber(total.Total()), cli.FormatCost(cheap), cli.FormatCost(premium))
	b.WriteString(textStyle.Render(truncStr(totalLine, innerW)))

	lines := strings.Split(b.String(), "\n")
	if a.detailScroll >= len(lines) {
		lines = lines[len(lines)-1:]
	} else if a.detailScroll > 0 {
		lines = lines[a.detailScroll:]
	}

	visible := height - 3
	if visible < 1 {
		visible = 1
	}
	content := truncateHeight(strings.Join(lines, "\n"), visible)
	content = padHeight(content, visible)

	title := truncStr(fmt.Sprintf("Session %s · %d subagents", s.Session.ID, len(s.Subagents)), innerW)
	return components.ContentCard(title, content, width)
}

func (a App) renderFooter() string {
	cards := []struct{ Label, Value string }{
		{"Cheap cost", cli.FormatCost(a.totals.Cheap)},
		{"Premium cost", cli.FormatCost(a.totals.Premium)},
		{"Saved", fmt.Sprintf("%s (%.0f%%)", cli.FormatCost(a.totals.Savings()), a.totals.SavingsPercent())},
	}
	row := components.MetricCardRow(cards, a.width)

	hint := dimStyle.Render(" j/k select · J/K scroll · g/G first/last · s summary · q quit")
	return row + "\n" + hint
}
