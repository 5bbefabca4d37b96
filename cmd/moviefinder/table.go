package main

import (
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

const (
	ansiReset  = "\x1b[0m"
	ansiYellow = "\x1b[33m"
)

// tableView describes one rendered table. Columns beyond len(Aligns) are
// left aligned; cells in a column with a MaxWidth entry wrap at that width.
type tableView struct {
	Headers  []string
	Rows     [][]string
	Aligns   []columnAlignment
	MaxWidth map[int]int
	Colorize bool
}

func renderTable(view tableView) string {
	columns := len(view.Headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	if view.Colorize {
		tw.Style().Color.Header = text.Colors{text.Bold, text.FgCyan}
	}

	tw.AppendHeader(toRow(view.Headers, columns))
	for _, row := range view.Rows {
		tw.AppendRow(toRow(row, columns))
	}

	configs := make([]table.ColumnConfig, columns)
	for i := range configs {
		align := text.AlignLeft
		if i < len(view.Aligns) && view.Aligns[i] == alignRight {
			align = text.AlignRight
		}
		configs[i] = table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
			WidthMax:    view.MaxWidth[i],
		}
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

func toRow(values []string, columns int) table.Row {
	row := make(table.Row, columns)
	for i := range row {
		if i < len(values) {
			row[i] = values[i]
		} else {
			row[i] = ""
		}
	}
	return row
}

// notice formats a one-line message, highlighted when colorize is set.
func notice(message string, colorize bool) string {
	if colorize {
		return ansiYellow + message + ansiReset
	}
	return message
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
