package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/boshu2/daysince/internal/aggregate"
	"github.com/boshu2/daysince/internal/incident"
	"github.com/boshu2/daysince/internal/streak"
)

const (
	minChartWidth  = 10
	minChartHeight = 2
	axisWidth      = 5 // e.g. " 120│"
)

// StreakChart renders the per-day streak series as an area chart. Columns
// that fall inside best are drawn highlighted.
//
//	Days without incident                 best: 42 days
//	  42│                    ▁▄█
//	  21│         ▂▅█        ████     ▃▆
//	   0│▁▄█   ▃▆██████  ▂▅█████████▃▆███
//	    └──────────────────────────────────
//	    2025-01-01                2025-03-26
func StreakChart(points []aggregate.DayPoint, best streak.Segment, width, height int) string {
	if len(points) == 0 {
		return dimStyle.Render("no incident history")
	}
	if height < minChartHeight {
		height = minChartHeight
	}
	chartW := width - axisWidth
	if chartW < minChartWidth {
		chartW = minChartWidth
	}

	values := make([]float64, len(points))
	marks := make([]bool, len(points))
	from, to, hasBest := aggregate.SegmentDays(best)
	maxVal := 0.0
	for i, p := range points {
		values[i] = float64(p.Streak)
		if values[i] > maxVal {
			maxVal = values[i]
		}
		marks[i] = hasBest && !p.Date.Before(from) && !p.Date.After(to)
	}
	if maxVal == 0 {
		maxVal = 1
	}
	cols, hot := resampleData(values, marks, chartW)

	subBlocks := []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Days without incident"))
	if hasBest {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("  best: %d days (%s to %s)", best.LengthDays, from, to)))
	}
	sb.WriteString("\n")

	for row := height - 1; row >= 0; row-- {
		yVal := (float64(row+1) / float64(height)) * maxVal
		sb.WriteString(dimStyle.Render(fmt.Sprintf("%4.0f│", yVal)))

		for col, val := range cols {
			normalized := val / maxVal * float64(height)
			cellBottom := float64(row)
			cellTop := float64(row + 1)

			var ch rune
			switch {
			case normalized >= cellTop:
				ch = '█'
			case normalized <= cellBottom:
				ch = ' '
			default:
				idx := int((normalized - cellBottom) * 8)
				if idx >= len(subBlocks) {
					idx = len(subBlocks) - 1
				}
				ch = subBlocks[idx]
			}

			if ch == ' ' {
				sb.WriteRune(' ')
				continue
			}
			style := okStyle
			if hot[col] {
				style = warnStyle
			}
			sb.WriteString(style.Render(string(ch)))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(dimStyle.Render("    └" + strings.Repeat("─", len(cols))))
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(dateAxis(points[0].Date, points[len(points)-1].Date, len(cols))))
	return sb.String()
}

func dateAxis(first, last incident.Date, cols int) string {
	left, right := first.String(), last.String()
	gap := cols - len(left) - len(right)
	if gap < 1 {
		gap = 1
	}
	return strings.Repeat(" ", axisWidth) + left + strings.Repeat(" ", gap) + right
}

// resampleData reduces data to fit targetWidth columns by averaging each
// bucket. A column is marked when any source value in its bucket is.
func resampleData(data []float64, marks []bool, targetWidth int) ([]float64, []bool) {
	if len(data) <= targetWidth {
		return data, marks
	}
	result := make([]float64, targetWidth)
	hot := make([]bool, targetWidth)
	for i := 0; i < targetWidth; i++ {
		srcStart := i * len(data) / targetWidth
		srcEnd := (i + 1) * len(data) / targetWidth
		if srcEnd > len(data) {
			srcEnd = len(data)
		}
		if srcStart >= srcEnd {
			srcStart = max(srcEnd-1, 0)
		}
		sum := 0.0
		for j := srcStart; j < srcEnd; j++ {
			sum += data[j]
			hot[i] = hot[i] || marks[j]
		}
		result[i] = sum / float64(srcEnd-srcStart)
	}
	return result, hot
}

// MonthlyChart renders incidents per month as horizontal bars, oldest first.
// The worst month is highlighted.
//
//	Incidents per month
//	2025-01 │████████████ 2  ◀ worst
//	2025-02 │██████ 1
func MonthlyChart(counts []aggregate.MonthCount, worst aggregate.MonthCount, width int) string {
	if len(counts) == 0 {
		return dimStyle.Render("no incidents recorded")
	}
	barW := width - len("2006-01 │") - len(" 999  ◀ worst")
	if barW < minChartWidth {
		barW = minChartWidth
	}
	maxCount := 0
	for _, c := range counts {
		maxCount = max(maxCount, c.Count)
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Incidents per month"))
	sb.WriteString("\n")
	for i, c := range counts {
		n := c.Count * barW / maxCount
		if n == 0 && c.Count > 0 {
			n = 1
		}
		isWorst := c.Month == worst.Month
		style := lipgloss.NewStyle().Foreground(colorCyan)
		if isWorst {
			style = critStyle
		}
		sb.WriteString(labelStyle.Render(c.Month.String() + " │"))
		sb.WriteString(style.Render(strings.Repeat("█", n)))
		sb.WriteString(valueStyle.Render(fmt.Sprintf(" %d", c.Count)))
		if isWorst {
			sb.WriteString(critStyle.Render("  ◀ worst"))
		}
		if i < len(counts)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
