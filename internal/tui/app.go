// Package tui provides the interactive Bubble Tea browser for scan results.
package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/tokenscan/internal/cli"
	"github.com/theirongolddev/tokenscan/internal/config"
	"github.com/theirongolddev/tokenscan/internal/pipeline"
	"github.com/theirongolddev/tokenscan/internal/report"
	"github.com/theirongolddev/tokenscan/internal/store"
)

// ScanDoneMsg is sent when the scan pipeline finishes.
type ScanDoneMsg struct {
	Result   *pipeline.Result
	Err      error
	LoadTime time.Duration
}

// ProgressMsg reports transcript parsing progress.
type ProgressMsg struct {
	Current int
	Total   int
}

// App is the root Bubble Tea model.
type App struct {
	root string
	cfg  config.Config

	// Scan result
	res      *pipeline.Result
	rows     []report.Row // issue-sorted rows for the summary table
	totals   report.Totals
	loaded   bool
	loadErr  error
	loadTime time.Duration

	// UI state
	width        int
	height       int
	cursor       int
	detailScroll int
	summaryMode  bool

	// Loading — channel-based progress subscription
	spinner     spinner.Model
	progress    int
	progressMax int
	loadSub     chan tea.Msg // progress + completion messages from scanner goroutine
}

const (
	minContentHeight = 5
	minListWidth     = 30
)

// New creates the browser model for the given scan root.
func New(root string, cfg config.Config) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(cli.ColorAccent)

	return App{
		root:    root,
		cfg:     cfg,
		spinner: sp,
		loadSub: make(chan tea.Msg, 1),
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		scanCmd(a.root, a.cfg, a.loadSub),
		a.spinner.Tick,
	)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		return a.updateKeys(msg)

	case ProgressMsg:
		a.progress = msg.Current
		a.progressMax = msg.Total
		return a, waitForScanMsg(a.loadSub)

	case ScanDoneMsg:
		a.loaded = true
		a.loadErr = msg.Err
		a.loadTime = msg.LoadTime
		if msg.Err == nil {
			a.res = msg.Result
			a.rows = report.Rows(msg.Result)
			report.SortByIssue(a.rows)
			a.totals = report.TotalCosts(a.rows)
		}
		return a, nil

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	return a, nil
}

func (a App) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" || key == "q" {
		return a, tea.Quit
	}

	if !a.loaded || a.loadErr != nil || a.res == nil {
		return a, nil
	}

	switch key {
	case "s", "tab":
		a.summaryMode = !a.summaryMode
	case "j", "down":
		if a.cursor < len(a.res.Sessions)-1 {
			a.cursor++
			a.detailScroll = 0
		}
	case "k", "up":
		if a.cursor > 0 {
			a.cursor--
			a.detailScroll = 0
		}
	case "g":
		a.cursor = 0
		a.detailScroll = 0
	case "G":
		a.cursor = len(a.res.Sessions) - 1
		if a.cursor < 0 {
			a.cursor = 0
		}
		a.detailScroll = 0
	case "J":
		a.detailScroll++
	case "K":
		if a.detailScroll > 0 {
			a.detailScroll--
		}
	}

	return a, nil
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if !a.loaded {
		return a.viewLoading()
	}

	if a.loadErr != nil {
		return a.viewError()
	}

	if len(a.res.Sessions) == 0 {
		return a.viewNoSessions()
	}

	if a.summaryMode {
		return a.viewSummary()
	}

	return a.viewBrowser()
}

// scanCmd runs the scan pipeline in a background goroutine. It streams
// ProgressMsg updates and a final ScanDoneMsg through sub.
func scanCmd(root string, cfg config.Config, sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		go func() {
			start := time.Now()

			// Non-blocking send so the scanner isn't stalled. If the channel
			// is full, this update is skipped — the next one catches up.
			progressFn := func(current, total int) {
				select {
				case sub <- ProgressMsg{Current: current, Total: total}:
				default:
				}
			}

			var cache *store.Cache
			if cfg.Cache.Enabled {
				if c, err := store.Open(cfg.CachePath()); err == nil {
					cache = c
				}
			}

			res, err := pipeline.Scan(root, cfg.Tiers(), pipeline.Options{
				Cache:    cache,
				Progress: progressFn,
			})
			if cache != nil {
				_ = cache.Close()
			}

			sub <- ScanDoneMsg{Result: res, Err: err, LoadTime: time.Since(start)}
		}()

		// Block until the first message (either ProgressMsg or ScanDoneMsg)
		return <-sub
	}
}

// waitForScanMsg blocks until the next message arrives from the scanner goroutine.
func waitForScanMsg(sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-sub
	}
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}
