package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const yAxisWidth = 10

var (
	chartTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	chartAxisStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	chartEmptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true)
)

// Chart plots a single series as an ASCII line chart with a labeled
// Y axis and up to three X-axis labels (left, center, right).
type Chart struct {
	Title  string
	Points []float64
	Labels []string
	Width  int
	Height int
}

// NewChart creates a chart with default dimensions.
func NewChart(title string) *Chart {
	return &Chart{Title: title, Width: 60, Height: 15}
}

// WithPoints sets the series to plot.
func (c *Chart) WithPoints(points []float64) *Chart {
	c.Points = points
	return c
}

// WithLabels sets the X-axis labels.
func (c *Chart) WithLabels(labels ...string) *Chart {
	c.Labels = labels
	return c
}

// WithSize sets the chart dimensions, including the Y-axis gutter.
func (c *Chart) WithSize(width, height int) *Chart {
	c.Width = width
	c.Height = height
	return c
}

// Render returns the styled chart.
func (c *Chart) Render() string {
	if len(c.Points) == 0 {
		return chartEmptyStyle.Render("No data to display")
	}

	height := c.Height
	if height < 4 {
		height = 4
	}
	plotWidth := c.Width - yAxisWidth - 3
	if plotWidth < 10 {
		plotWidth = 10
	}

	minVal, maxVal := c.bounds()

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = make([]rune, plotWidth)
		for j := range grid[i] {
			grid[i][j] = ' '
		}
	}
	c.plot(grid, plotWidth, height, minVal, maxVal)

	var b strings.Builder
	if c.Title != "" {
		b.WriteString(chartTitleStyle.Render(c.Title))
		b.WriteString("\n\n")
	}

	valueRange := maxVal - minVal
	for i, row := range grid {
		yValue := maxVal
		if height > 1 {
			yValue = maxVal - float64(i)/float64(height-1)*valueRange
		}
		label := chartAxisStyle.Width(yAxisWidth).Align(lipgloss.Right).Render(FormatShort(yValue))
		b.WriteString(label)
		b.WriteString(" │ ")
		b.WriteString(string(row))
		b.WriteString("\n")
	}

	b.WriteString(strings.Repeat(" ", yAxisWidth))
	b.WriteString(" └─")
	b.WriteString(strings.Repeat("─", plotWidth))

	if labels := c.renderLabels(plotWidth); labels != "" {
		b.WriteString("\n")
		b.WriteString(strings.Repeat(" ", yAxisWidth+3))
		b.WriteString(chartAxisStyle.Render(labels))
	}
	return b.String()
}

// bounds returns the series min and max with 10% padding. A flat series
// still gets a non-zero range so the Y mapping stays defined.
func (c *Chart) bounds() (float64, float64) {
	minVal, maxVal := c.Points[0], c.Points[0]
	for _, p := range c.Points[1:] {
		if p < minVal {
			minVal = p
		}
		if p > maxVal {
			maxVal = p
		}
	}

	pad := (maxVal - minVal) * 0.1
	if pad == 0 {
		pad = maxVal * 0.1
		if pad == 0 {
			pad = 1
		}
	}
	return minVal - pad, maxVal + pad
}

func (c *Chart) plot(grid [][]rune, plotWidth, height int, minVal, maxVal float64) {
	toX := func(i int) int {
		if len(c.Points) == 1 {
			return 0
		}
		return i * (plotWidth - 1) / (len(c.Points) - 1)
	}
	toY := func(p float64) int {
		y := height - 1 - int((p-minVal)/(maxVal-minVal)*float64(height-1))
		if y < 0 {
			y = 0
		}
		if y >= height {
			y = height - 1
		}
		return y
	}

	prevX, prevY := toX(0), toY(c.Points[0])
	grid[prevY][prevX] = '●'
	for i := 1; i < len(c.Points); i++ {
		x, y := toX(i), toY(c.Points[i])
		drawLine(grid, prevX, prevY, x, y)
		prevX, prevY = x, y
	}
}

// drawLine connects two grid cells using Bresenham's algorithm.
func drawLine(grid [][]rune, x0, y0, x1, y1 int) {
	dx, dy := abs(x1-x0), abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}

	err := dx - dy
	x, y := x0, y0
	for {
		if y >= 0 && y < len(grid) && x >= 0 && x < len(grid[0]) {
			grid[y][x] = '●'
		}
		if x == x1 && y == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
}

// renderLabels spaces up to three labels across the plot width.
func (c *Chart) renderLabels(plotWidth int) string {
	if len(c.Labels) == 0 {
		return ""
	}

	row := make([]rune, plotWidth)
	for i := range row {
		row[i] = ' '
	}
	place := func(label string, at int) {
		for i, r := range label {
			if pos := at + i; pos >= 0 && pos < plotWidth {
				row[pos] = r
			}
		}
	}

	place(c.Labels[0], 0)
	if len(c.Labels) > 2 {
		place(c.Labels[1], (plotWidth-len(c.Labels[1]))/2)
	}
	if len(c.Labels) > 1 {
		last := c.Labels[len(c.Labels)-1]
		place(last, plotWidth-len(last))
	}
	return string(row)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
