package ui

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/tada/internal/model"
)

// MaxTextWidth is where todo text gets cut in listings.
const MaxTextWidth = 80

// Frame wraps inner in the theme's border.
func Frame(inner string) string {
	t := Current()
	return lipgloss.NewStyle().
		Border(t.Border).
		BorderForeground(t.BorderColor).
		Padding(0, 1).
		Render(inner)
}

// Panel prints lines inside a framed box.
func Panel(w io.Writer, lines []string) {
	fmt.Fprintln(w, Frame(strings.Join(lines, "\n")))
}

// Header is the title line with the collection size.
func Header(items []model.Todo) string {
	t := Current()
	bad := 0
	for _, it := range items {
		if it.Malformed() {
			bad++
		}
	}
	h := fmt.Sprintf("%s  %s %d", t.Title.Render("Todos"), t.Accent.Render("Total"), len(items))
	if bad > 0 {
		h += fmt.Sprintf("  %s %d", t.Error.Render(t.SymBad), bad)
	}
	return h
}

// TodoLines renders one line per entry: the id, then the text. Entries that
// are not well-formed todos are shown as their stored JSON.
func TodoLines(items []model.Todo) []string {
	t := Current()
	if len(items) == 0 {
		return []string{t.Muted.Render("no todos")}
	}
	width := 0
	for _, it := range items {
		if n := len(IDLabel(it)); n > width {
			width = n
		}
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		label := fmt.Sprintf("%*s", width, IDLabel(it))
		out = append(out, LineFor(it, label))
	}
	return out
}

// LineFor renders a single entry after an already padded id label.
func LineFor(it model.Todo, label string) string {
	t := Current()
	if it.Malformed() {
		return fmt.Sprintf("%s %s", t.Error.Render(label), t.Muted.Render(Truncate(string(it.Raw()), MaxTextWidth)))
	}
	if it.Todo == "" && it.Raw() != nil {
		return fmt.Sprintf("%s %s", t.Accent.Render(label), t.Muted.Render(Truncate(string(it.Raw()), MaxTextWidth)))
	}
	return fmt.Sprintf("%s %s", t.Accent.Render(label), Truncate(it.Todo, MaxTextWidth))
}

// Truncate cuts s to n runes, marking the cut with "...".
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n || n < 4 {
		return s
	}
	return string(r[:n-3]) + "..."
}

// IDLabel is "#<id>", or "?" for an entry that is not a todo.
func IDLabel(it model.Todo) string {
	if it.Malformed() {
		return "?"
	}
	return "#" + strconv.FormatInt(it.ID, 10)
}
