// Package components holds the reusable rendering pieces of the TUI:
// metric cards and the ASCII chart.
package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	cardBorderColor = lipgloss.Color("238")

	cardLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	cardValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252"))

	cardNoteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true)
)

// Card displays a single metric: a label, a value, and an optional note.
type Card struct {
	Label string
	Value string
	Note  string
	Width int
}

// NewCard creates a card with the default width.
func NewCard(label, value string) *Card {
	return &Card{Label: label, Value: value, Width: 26}
}

// WithNote adds a subtitle line under the value.
func (c *Card) WithNote(note string) *Card {
	c.Note = note
	return c
}

// WithWidth sets the card width.
func (c *Card) WithWidth(width int) *Card {
	c.Width = width
	return c
}

// Render returns the bordered card.
func (c *Card) Render() string {
	content := cardLabelStyle.Render(c.Label) + "\n" + cardValueStyle.Render(c.Value)
	if c.Note != "" {
		content += "\n" + cardNoteStyle.Render(c.Note)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(cardBorderColor).
		Padding(0, 1).
		Width(c.Width).
		Render(content)
}

// Grid lays cards out in rows of the given column count.
func Grid(cards []*Card, columns int) string {
	if len(cards) == 0 {
		return ""
	}
	if columns < 1 {
		columns = 1
	}

	var rows []string
	var current []string
	for i, card := range cards {
		current = append(current, card.Render())
		if (i+1)%columns == 0 || i == len(cards)-1 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, current...))
			current = nil
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// FormatShort abbreviates a dollar amount for dense layouts.
func FormatShort(value float64) string {
	neg := ""
	if value < 0 {
		neg = "-"
		value = -value
	}
	switch {
	case value >= 1000000:
		return fmt.Sprintf("%s$%.2fM", neg, value/1000000)
	case value >= 1000:
		return fmt.Sprintf("%s$%.1fK", neg, value/1000)
	default:
		return fmt.Sprintf("%s$%.0f", neg, value)
	}
}
