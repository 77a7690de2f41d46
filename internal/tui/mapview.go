package tui

import (
	"strings"

	"github.com/gujitrio/ping/pkg/domain"
)

// Cell kinds used when colorizing the rendered map grid.
const (
	cellBackground byte = iota
	cellFrame
	cellPath
	cellPathStart
	cellPathEnd
	cellMarker
	cellLabel
)

// Glyphs for map features.
const (
	glyphMarker    = '◉'
	glyphPath      = '·'
	glyphPathStart = '○'
	glyphPathEnd   = '●'
)

// mapView renders a framed character-grid map. Given center coordinates, a
// labeled current-position marker and an optional ordered path, it projects
// everything onto the grid, draws the path as a dotted polyline with start
// and end markers, and fits the viewport bounds to the path when one is
// present (two or more points). Every call re-renders the whole grid.
type mapView struct {
	width  int
	height int
	center domain.LocationSample
	label  string
	path   []domain.LocationSample
}

// bounds returns the lat/lng extent the grid covers. With a path the
// extent is the path's bounding box plus padding, so the whole route is
// visible; otherwise a fixed span around the center.
func (v mapView) bounds() (minLat, maxLat, minLng, maxLng float64) {
	const span = 0.01 // default viewport half-extent in degrees

	if len(v.path) < 2 {
		return v.center.Latitude - span, v.center.Latitude + span,
			v.center.Longitude - span, v.center.Longitude + span
	}

	minLat, maxLat = v.path[0].Latitude, v.path[0].Latitude
	minLng, maxLng = v.path[0].Longitude, v.path[0].Longitude
	for _, p := range v.path[1:] {
		minLat = min(minLat, p.Latitude)
		maxLat = max(maxLat, p.Latitude)
		minLng = min(minLng, p.Longitude)
		maxLng = max(maxLng, p.Longitude)
	}

	// Pad 10% per side; degenerate extents get the default span.
	padLat := (maxLat - minLat) * 0.1
	if padLat == 0 {
		padLat = span
	}
	padLng := (maxLng - minLng) * 0.1
	if padLng == 0 {
		padLng = span
	}
	return minLat - padLat, maxLat + padLat, minLng - padLng, maxLng + padLng
}

// project maps a coordinate onto grid cells. North is up.
func project(lat, lng, minLat, maxLat, minLng, maxLng float64, w, h int) (col, row int) {
	col = int((lng - minLng) / (maxLng - minLng) * float64(w-1))
	row = int((maxLat - lat) / (maxLat - minLat) * float64(h-1))
	if col < 0 {
		col = 0
	}
	if col > w-1 {
		col = w - 1
	}
	if row < 0 {
		row = 0
	}
	if row > h-1 {
		row = h - 1
	}
	return col, row
}

func (v mapView) render() string {
	w, h := v.width, v.height
	if w < 20 {
		w = 20
	}
	if h < 6 {
		h = 6
	}
	// Inner grid inside the frame.
	gw, gh := w-2, h-2

	cells := make([][]rune, gh)
	kinds := make([][]byte, gh)
	for r := range cells {
		cells[r] = make([]rune, gw)
		kinds[r] = make([]byte, gw)
		for c := range cells[r] {
			cells[r][c] = ' '
		}
	}

	minLat, maxLat, minLng, maxLng := v.bounds()
	put := func(col, row int, ch rune, kind byte) {
		if row >= 0 && row < gh && col >= 0 && col < gw {
			cells[row][col] = ch
			kinds[row][col] = kind
		}
	}

	// Path polyline first, so markers draw over it.
	if len(v.path) >= 2 {
		var prevCol, prevRow int
		for i, p := range v.path {
			col, row := project(p.Latitude, p.Longitude, minLat, maxLat, minLng, maxLng, gw, gh)
			if i > 0 {
				drawLine(prevCol, prevRow, col, row, func(c, r int) {
					put(c, r, glyphPath, cellPath)
				})
			}
			prevCol, prevRow = col, row
		}
		startCol, startRow := project(v.path[0].Latitude, v.path[0].Longitude, minLat, maxLat, minLng, maxLng, gw, gh)
		endCol, endRow := project(v.path[len(v.path)-1].Latitude, v.path[len(v.path)-1].Longitude, minLat, maxLat, minLng, maxLng, gw, gh)
		put(startCol, startRow, glyphPathStart, cellPathStart)
		put(endCol, endRow, glyphPathEnd, cellPathEnd)
	}

	// Current-position marker with its text label beside it.
	markerCol, markerRow := project(v.center.Latitude, v.center.Longitude, minLat, maxLat, minLng, maxLng, gw, gh)
	put(markerCol, markerRow, glyphMarker, cellMarker)
	if v.label != "" {
		labelRow := markerRow - 1
		if labelRow < 0 {
			labelRow = markerRow + 1
		}
		labelCol := markerCol + 1
		runes := []rune(v.label)
		if labelCol+len(runes) > gw {
			labelCol = gw - len(runes)
			if labelCol < 0 {
				labelCol = 0
			}
		}
		for i, ch := range runes {
			put(labelCol+i, labelRow, ch, cellLabel)
		}
	}

	// Compose with frame and per-kind colors.
	var b strings.Builder
	b.WriteString(mapFrameStyle.Render("┌"+strings.Repeat("─", gw)+"┐") + "\n")
	for r := 0; r < gh; r++ {
		b.WriteString(mapFrameStyle.Render("│"))
		for c := 0; c < gw; c++ {
			ch := string(cells[r][c])
			switch kinds[r][c] {
			case cellPath, cellPathStart, cellPathEnd:
				b.WriteString(mapPathStyle.Render(ch))
			case cellMarker:
				b.WriteString(mapMarkerStyle.Render(ch))
			case cellLabel:
				b.WriteString(mapLabelStyle.Render(ch))
			default:
				b.WriteString(ch)
			}
		}
		b.WriteString(mapFrameStyle.Render("│") + "\n")
	}
	b.WriteString(mapFrameStyle.Render("└" + strings.Repeat("─", gw) + "┘"))
	return b.String()
}

// drawLine visits every cell on the segment (x0,y0)-(x1,y1) (Bresenham).
func drawLine(x0, y0, x1, y1 int, visit func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		visit(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
