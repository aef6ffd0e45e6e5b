package main

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/term"

	"github.com/wippyai/blobspace/workspace"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	totalStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#98FB98")).Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))
)

// renderSizes writes the size report as a styled table on terminals and as
// the plain semicolon format otherwise.
func renderSizes(w io.Writer, r workspace.SizeReport) error {
	if !isTerminal(w) {
		_, err := r.WriteTo(w)
		return err
	}

	rows := sizeRows(r)
	last := len(rows) - 1
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers("blob", "shape", "bytes", "share").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch row {
			case table.HeaderRow:
				return headerStyle
			case last:
				return totalStyle
			default:
				return cellStyle
			}
		})
	_, err := io.WriteString(w, t.Render()+"\n")
	return err
}

func sizeRows(r workspace.SizeReport) [][]string {
	rows := make([][]string, 0, len(r.Rows)+1)
	for _, row := range r.Rows {
		rows = append(rows, []string{
			row.Name,
			formatDims(row.Dims),
			strconv.FormatUint(row.Capacity, 10),
			strconv.FormatFloat(row.Percent, 'g', 3, 64) + "%",
		})
	}
	return append(rows, []string{"Total", "", strconv.FormatUint(r.Total, 10), "100%"})
}

func formatDims(dims []int64) string {
	parts := make([]string, len(dims))
	for i, d := range dims {
		parts[i] = strconv.FormatInt(d, 10)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
