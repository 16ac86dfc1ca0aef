package report

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/drpaneas/redditpersona/internal/stats"
)

const (
	cloudWidth   = 800
	cloudHeight  = 400
	cloudPadding = 10
	minFontSize  = 12.0
	maxFontSize  = 56.0
	// Average glyph advance relative to font size for a sans-serif face.
	glyphWidth = 0.6
)

var cloudColors = []string{"#2E86AB", "#A23B72", "#F18F01", "#C73E1D", "#3B1F2B", "#44BBA4"}

// WordCloudSVG lays words out left to right in rows, largest first, with
// font size scaled linearly between the least and most frequent word.
// Words that no longer fit vertically are dropped.
func WordCloudSVG(words []stats.Count) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		cloudWidth, cloudHeight, cloudWidth, cloudHeight)
	b.WriteString(`<rect width="100%" height="100%" fill="white"/>` + "\n")

	if len(words) == 0 {
		fmt.Fprintf(&b, `<text x="%d" y="%d" font-family="sans-serif" font-size="16" text-anchor="middle">No words to display</text>`+"\n",
			cloudWidth/2, cloudHeight/2)
		b.WriteString("</svg>\n")
		return b.String()
	}

	lo, hi := words[0].Count, words[0].Count
	for _, w := range words {
		lo = min(lo, w.Count)
		hi = max(hi, w.Count)
	}

	x, y := float64(cloudPadding), float64(cloudPadding)
	rowHeight := 0.0
	for i, w := range words {
		size := fontSize(w.Count, lo, hi)
		width := glyphWidth * size * float64(utf8.RuneCountInString(w.Name))
		if x+width > cloudWidth-cloudPadding && x > cloudPadding {
			x = cloudPadding
			y += rowHeight
			rowHeight = 0
		}
		if y+size > cloudHeight-cloudPadding {
			break
		}
		rowHeight = max(rowHeight, size*1.2)
		fmt.Fprintf(&b, `<text x="%.0f" y="%.0f" font-family="sans-serif" font-size="%.0f" fill="%s"><title>%d</title>%s</text>`+"\n",
			x, y+size, size, cloudColors[i%len(cloudColors)], w.Count, html.EscapeString(w.Name))
		x += width + size*0.4
	}
	b.WriteString("</svg>\n")
	return b.String()
}

func fontSize(count, lo, hi int) float64 {
	if hi == lo {
		return (minFontSize + maxFontSize) / 2
	}
	return minFontSize + float64(count-lo)/float64(hi-lo)*(maxFontSize-minFontSize)
}
