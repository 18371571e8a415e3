// Package export renders braille canvas snapshots to standalone files.
package export

import (
	"fmt"
	"strings"
)

// Braille dot-to-bit layout, matching the canvas encoding.
var dotBits = [4][2]int{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// BrailleToSVG unpacks every set sub-pixel of a braille rune grid into an
// SVG dot. scale is the rendered size of one sub-pixel in SVG units;
// non-positive means 4.
func BrailleToSVG(grid [][]rune, scale float64) string {
	if len(grid) == 0 || len(grid[0]) == 0 {
		return ""
	}
	if scale <= 0 {
		scale = 4
	}

	cols := len(grid[0])
	width := float64(cols) * scale * 2
	height := float64(len(grid)) * scale * 4
	radius := scale * 0.4

	var b strings.Builder
	fmt.Fprintf(&b, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0b0d12"/>
<g fill="#d8dee9">
`, width, height, width, height)

	for row := range grid {
		for col := 0; col < cols && col < len(grid[row]); col++ {
			pattern := int(grid[row][col]) - 0x2800
			if pattern <= 0 || pattern > 0xff {
				continue
			}
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&dotBits[dy][dx] == 0 {
						continue
					}
					cx := (float64(col)*2+float64(dx))*scale + scale/2
					cy := (float64(row)*4+float64(dy))*scale + scale/2
					fmt.Fprintf(&b, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, radius)
				}
			}
		}
	}

	b.WriteString("</g>\n</svg>\n")
	return b.String()
}
