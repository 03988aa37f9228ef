// Package present turns tracker state into display text and filters it to
// the glyphs the display font can draw.
package present

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/tui-hunter/internal/config"
)

// Glyphs is the set of runes a display font supports.
type Glyphs map[rune]struct{}

// NewGlyphs builds the glyph set for a charset name plus extra runes.
func NewGlyphs(charset, extra string) (Glyphs, error) {
	g := make(Glyphs)
	switch charset {
	case "", "ascii":
		g.addRange(0x20, 0x7e)
	case "latin1":
		g.addRange(0x20, 0x7e)
		g.addRange(0xa0, 0xff)
	default:
		return nil, fmt.Errorf("present: unknown charset %q", charset)
	}
	for _, r := range extra {
		g[r] = struct{}{}
	}
	return g, nil
}

// GlyphsFromConfig builds the glyph set of the configured font.
func GlyphsFromConfig(cfg config.FontConfig) (Glyphs, error) {
	return NewGlyphs(cfg.Charset, cfg.Extra)
}

func (g Glyphs) addRange(lo, hi rune) {
	for r := lo; r <= hi; r++ {
		g[r] = struct{}{}
	}
}

// Supports reports whether r can be drawn.
func (g Glyphs) Supports(r rune) bool {
	_, ok := g[r]
	return ok
}

// ReplaceUnsupported swaps every rune the font cannot draw for replacement.
// Line breaks are always kept.
func ReplaceUnsupported(g Glyphs, input, replacement string) string {
	if input == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if r == '\r' || r == '\n' || g.Supports(r) {
			b.WriteRune(r)
			continue
		}
		b.WriteString(replacement)
	}
	return b.String()
}
