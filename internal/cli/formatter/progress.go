package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a percentage as a bar like [████░░░░]  45%.
func RenderProgress(pct int, width int) string {
	pct = clampPercent(pct)
	return fmt.Sprintf("[%s] %3d%%", RenderCompactBar(pct, width), pct)
}

// RenderCompactBar renders the bar alone, colored by PercentColor.
func RenderCompactBar(pct int, width int) string {
	pct = clampPercent(pct)
	if width < 2 {
		width = 2
	}
	filled := pct * width / 100
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)
	return PercentColor(pct).Render(bar)
}

func clampPercent(pct int) int {
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
