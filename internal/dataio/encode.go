package dataio

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// Output formats understood by Encode.
const (
	FormatJSON    = "json"
	FormatYAML    = "yaml"
	FormatMsgpack = "msgpack"
	FormatText    = "text"
)

// ErrFormat indicates an unknown output format or a value that cannot be
// rendered as text.
var ErrFormat = errors.New("dataio: unsupported output format")

// Summarizer is implemented by results that have a human-readable rendering.
type Summarizer interface {
	Summary() string
}

// Encode writes v to w in the given format. Text output requires v to
// implement Summarizer.
func Encode(w io.Writer, format string, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}

		return enc.Close()
	case FormatMsgpack:
		data, err := msgpack.Marshal(v)
		if err != nil {
			return fmt.Errorf("msgpack: %w", err)
		}
		_, err = w.Write(data)

		return err
	case FormatText:
		s, ok := v.(Summarizer)
		if !ok {
			return fmt.Errorf("%w: %T has no text form", ErrFormat, v)
		}
		_, err := io.WriteString(w, s.Summary()+"\n")

		return err
	default:
		return fmt.Errorf("%w: %q", ErrFormat, format)
	}
}

// Styles used by the text renderers.
var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff9f"))
	keyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#bd93f9"))
	headStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff79c6"))
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// Field is one key/value line of a summary.
type Field struct {
	Key   string
	Value string
}

// RenderFields renders a titled block of aligned key/value lines.
func RenderFields(title string, fields []Field) string {
	width := 0
	for _, f := range fields {
		width = max(width, lipgloss.Width(f.Key))
	}
	lines := make([]string, 0, len(fields)+1)
	lines = append(lines, titleStyle.Render(title))
	for _, f := range fields {
		key := keyStyle.Render(f.Key + ":" + strings.Repeat(" ", width-lipgloss.Width(f.Key)))
		lines = append(lines, key+" "+f.Value)
	}

	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// RenderTable renders rows under a bold header with left-aligned columns.
func RenderTable(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for j, h := range headers {
		widths[j] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for j, cell := range row {
			if j < len(widths) {
				widths[j] = max(widths[j], lipgloss.Width(cell))
			}
		}
	}

	var b strings.Builder
	line := func(cells []string, style lipgloss.Style) {
		for j := range widths {
			cell := ""
			if j < len(cells) {
				cell = cells[j]
			}
			if j > 0 {
				b.WriteString("  ")
			}
			b.WriteString(style.Width(widths[j]).Render(cell))
		}
		b.WriteString("\n")
	}
	line(headers, headStyle)
	for _, row := range rows {
		line(row, lipgloss.NewStyle())
	}

	return strings.TrimRight(b.String(), "\n")
}
