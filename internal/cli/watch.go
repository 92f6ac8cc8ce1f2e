package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pixelgraph/pkg/cache"
	perrors "github.com/matzehuels/pixelgraph/pkg/errors"
	"github.com/matzehuels/pixelgraph/pkg/graph"
	pgio "github.com/matzehuels/pixelgraph/pkg/io"
	"github.com/matzehuels/pixelgraph/pkg/session"
)

const defaultWatchInterval = 500 * time.Millisecond

// watchCommand creates the watch command: a live status view that
// re-evaluates the graph whenever its file changes.
func (c *CLI) watchCommand() *cobra.Command {
	interval := defaultWatchInterval

	cmd := &cobra.Command{
		Use:   "watch <graph>",
		Short: "Re-evaluate a graph every time its file changes",
		Long: `Show a live table of node statuses for a graph file.

The file is polled for changes. Every change that decodes cleanly becomes a
new session revision and is evaluated in full. Decode errors are shown
without discarding the last good revision.

Keys: r reloads immediately, q quits.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeGraphFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			if interval <= 0 {
				return perrors.New(perrors.ErrCodeInvalidInput, "interval must be positive")
			}
			m := newWatchModel(args[0], interval)
			_, err := tea.NewProgram(m, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", interval, "poll interval")

	return cmd
}

// =============================================================================
// watchModel - live evaluation view
// =============================================================================

type (
	tickMsg   time.Time
	loadedMsg struct {
		graph *graph.Graph
		hash  string
	}
	loadErrMsg struct{ err error }

	// unchangedMsg reports that the file still holds the last loaded bytes.
	unchangedMsg struct{}
)

// watchModel is the bubbletea model behind pixelgraph watch.
type watchModel struct {
	path     string
	interval time.Duration
	sess     *session.Session

	hash     string // content hash of the last loaded file
	rows     [][]string
	summary  string
	err      error
	reloaded time.Time
	quitting bool
}

func newWatchModel(path string, interval time.Duration) watchModel {
	return watchModel{
		path:     path,
		interval: interval,
		sess:     session.New(nil),
	}
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(m.load(), m.tick())
}

func (m watchModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// load reads and decodes the file.
func (m watchModel) load() tea.Cmd {
	path, last := m.path, m.hash
	return func() tea.Msg {
		src, err := os.ReadFile(path)
		if err != nil {
			return loadErrMsg{err: perrors.Wrap(perrors.ErrCodeFileNotFound, err, "read %s", path)}
		}
		h := cache.Hash(src)
		if h == last {
			return unchangedMsg{}
		}
		format, err := pgio.FormatFromPath(path)
		if err != nil {
			return loadErrMsg{err: err}
		}
		g, err := pgio.Read(bytes.NewReader(src), format, path)
		if err != nil {
			return loadErrMsg{err: err}
		}
		return loadedMsg{graph: g, hash: h}
	}
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "r":
			m.hash = ""
			return m, m.load()
		}
	case tickMsg:
		return m, tea.Batch(m.load(), m.tick())
	case loadedMsg:
		m.hash = msg.hash
		m.err = nil
		m.sess.Replace(msg.graph)
		m.refresh()
	case unchangedMsg:
		// The file is back to the graph on screen.
		m.err = nil
	case loadErrMsg:
		m.err = msg.err
	}
	return m, nil
}

// refresh evaluates the current revision and rebuilds the table.
func (m *watchModel) refresh() {
	g, _ := m.sess.Graph()
	res, _ := m.sess.Evaluate()
	m.rows = statusRows(g, res)
	m.summary = summaryLine(res)
	m.reloaded = time.Now()
}

func (m watchModel) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder

	b.WriteString(StyleTitle.Render("pixelgraph watch"))
	b.WriteString(" " + StyleValue.Render(filepath.Base(m.path)))
	b.WriteString("\n")
	rev := fmt.Sprintf("revision %d", m.sess.Revision())
	if !m.reloaded.IsZero() {
		rev += " · updated " + m.reloaded.Format("15:04:05")
	}
	b.WriteString(StyleDim.Render(rev))
	b.WriteString("\n\n")

	if m.rows != nil {
		b.WriteString(statusTable(m.rows))
		b.WriteString("\n")
		b.WriteString(StyleDim.Render("  " + m.summary))
		b.WriteString("\n")
	} else if m.err == nil {
		b.WriteString(StyleDim.Render("  loading..."))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(styleIconError.Render(iconError) + " " + perrors.UserMessage(m.err))
		if m.rows != nil {
			b.WriteString(StyleDim.Render(" (showing last good revision)"))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(StyleDim.Render("r reload  q quit"))
	return b.String()
}
