package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	perrors "github.com/matzehuels/pixelgraph/pkg/errors"
	"github.com/matzehuels/pixelgraph/pkg/eval"
	"github.com/matzehuels/pixelgraph/pkg/graph"
)

var (
	styleHeader = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleCell   = lipgloss.NewStyle().Padding(0, 1)
)

// statusColumn is the index of the status column in statusRows.
const statusColumn = 2

// statusRows returns one row per node: ID, kind, status, size and detail.
func statusRows(g *graph.Graph, res *eval.Result) [][]string {
	nodes := g.Nodes()
	rows := make([][]string, 0, len(nodes))
	for _, n := range nodes {
		status := res.Status(n.ID)
		size := "—"
		if buf := res.Outputs[n.ID]; buf != nil {
			size = fmt.Sprintf("%dx%d", buf.Width, buf.Height)
		}
		detail := ""
		switch status {
		case eval.StatusFailed:
			detail = perrors.UserMessage(res.Err(n.ID))
		case eval.StatusStalled:
			detail = "waiting on a cycle or missing input"
		case eval.StatusEmpty:
			detail = "no inputs"
		}
		rows = append(rows, []string{n.ID, string(n.Kind()), string(status), size, detail})
	}
	return rows
}

// statusTable renders statusRows with the status column coloured.
func statusTable(rows [][]string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Node", "Kind", "Status", "Size", "Detail").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader.Padding(0, 1)
			}
			if col != statusColumn || row < 0 || row >= len(rows) {
				return styleCell
			}
			return styleCell.Foreground(statusColor(eval.Status(rows[row][statusColumn])))
		})
	return t.Render()
}

func statusColor(s eval.Status) lipgloss.Color {
	switch s {
	case eval.StatusOK:
		return colorGreen
	case eval.StatusFailed:
		return colorRed
	case eval.StatusStalled:
		return colorYellow
	default:
		return colorGray
	}
}

// summaryLine counts produced, failed and stalled nodes.
func summaryLine(res *eval.Result) string {
	return fmt.Sprintf("%d produced · %d failed · %d stalled · %d passes · %s",
		res.Produced(), len(res.Failures), len(res.Stalled), res.Passes, res.Duration.Round(time.Microsecond))
}
