package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Stylesheet maps class names to terminal styles. A compound key such as
// "deprecated-formula-item.selected" matches a node carrying both classes
// and takes precedence over the single-class entries.
type Stylesheet map[string]lipgloss.Style

// StyleFor returns the style for a node: the compound entry for all of its
// classes when present, otherwise the entry for its last styled class.
func (s Stylesheet) StyleFor(n *Node) lipgloss.Style {
	if len(n.Classes) > 1 {
		if st, ok := s[strings.Join(n.Classes, ".")]; ok {
			return st
		}
	}
	for i := len(n.Classes) - 1; i >= 0; i-- {
		if st, ok := s[n.Classes[i]]; ok {
			return st
		}
	}
	return lipgloss.NewStyle()
}

// Zone is the screen rectangle occupied by a keyed node. Bounds are
// half-open: Top <= y < Bottom, Left <= x < Right.
type Zone struct {
	Key    string
	Top    int
	Bottom int
	Left   int
	Right  int
	depth  int
}

// Contains reports whether the cell (x, y) lies inside the zone.
func (z Zone) Contains(x, y int) bool {
	return y >= z.Top && y < z.Bottom && x >= z.Left && x < z.Right
}

// ZoneMap records where keyed nodes were drawn by the last Render.
type ZoneMap struct {
	zones []Zone
}

// Hit returns the key of the innermost node drawn at (x, y).
func (m *ZoneMap) Hit(x, y int) (string, bool) {
	if m == nil {
		return "", false
	}
	best := -1
	for i, z := range m.zones {
		if !z.Contains(x, y) {
			continue
		}
		if best < 0 || z.depth > m.zones[best].depth {
			best = i
		}
	}
	if best < 0 {
		return "", false
	}
	return m.zones[best].Key, true
}

// Zone returns the recorded zone for key.
func (m *ZoneMap) Zone(key string) (Zone, bool) {
	if m == nil {
		return Zone{}, false
	}
	for _, z := range m.zones {
		if z.Key == key {
			return z, true
		}
	}
	return Zone{}, false
}

// Shift returns a copy of the map moved by dy rows, for callers that draw the
// rendered tree below other content or scroll it. Pass -offset to map
// screen rows of a scrolled view back to zones.
func (m *ZoneMap) Shift(dy int) *ZoneMap {
	if m == nil {
		return nil
	}
	out := &ZoneMap{zones: make([]Zone, len(m.zones))}
	for i, z := range m.zones {
		z.Top += dy
		z.Bottom += dy
		out.zones[i] = z
	}
	return out
}

// Render draws the tree with the given stylesheet and reports where each
// keyed node landed.
func Render(root *Node, sheet Stylesheet) (string, *ZoneMap) {
	r := &renderer{sheet: sheet, zones: &ZoneMap{}}
	if root == nil {
		return "", r.zones
	}
	return r.render(root, 0, 0, 0), r.zones
}

type renderer struct {
	sheet Stylesheet
	zones *ZoneMap
}

func (r *renderer) render(n *Node, top, left, depth int) string {
	style := r.sheet.StyleFor(n)
	innerTop := top + style.GetMarginTop() + style.GetBorderTopSize() + style.GetPaddingTop()
	innerLeft := left + style.GetMarginLeft() + style.GetBorderLeftSize() + style.GetPaddingLeft()

	var inner string
	switch n.Tag {
	case TagText, TagPre:
		inner = n.Text
	case TagButton:
		inner = "[" + n.Text + "]"
	case TagRow:
		parts := make([]string, 0, len(n.Children)*2)
		col := innerLeft
		for i, c := range n.Children {
			if i > 0 {
				parts = append(parts, " ")
				col++
			}
			out := r.render(c, innerTop, col, depth+1)
			parts = append(parts, out)
			col += lipgloss.Width(out)
		}
		inner = lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	default:
		parts := make([]string, 0, len(n.Children))
		row := innerTop
		for _, c := range n.Children {
			out := r.render(c, row, innerLeft, depth+1)
			parts = append(parts, out)
			row += lipgloss.Height(out)
		}
		inner = lipgloss.JoinVertical(lipgloss.Left, parts...)
	}

	if n.Tag == TagRow || n.Tag == TagBlock {
		// Children already applied their own tab handling.
		style = style.TabWidth(lipgloss.NoTabConversion)
	}
	out := style.Render(inner)
	if n.Key != "" {
		// Margins are outside the node's clickable area.
		r.zones.zones = append(r.zones.zones, Zone{
			Key:    n.Key,
			Top:    top + style.GetMarginTop(),
			Bottom: top + lipgloss.Height(out) - style.GetMarginBottom(),
			Left:   left + style.GetMarginLeft(),
			Right:  left + lipgloss.Width(out) - style.GetMarginRight(),
			depth:  depth,
		})
	}
	return out
}
