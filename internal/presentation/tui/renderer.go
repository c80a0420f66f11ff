package tui

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/aretw0/picket/pkg/reconciler"
	"github.com/aretw0/picket/pkg/registry"
	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// NewMarkdownRenderer returns a function that renders markdown using glamour.
// It uses a dark theme by default, but could be configurable.
func NewMarkdownRenderer() func(string) (string, error) {
	// Automatically detect light/dark background
	r, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
	)

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

var glyphToken = regexp.MustCompile(`:([a-z0-9_+-]+):`)

// WidgetRenderer draws the reconciler's visible option rows as terminal text.
// Glyph tokens like ":star:" in option labels are resolved through the
// registry; unknown tokens pass through unchanged.
type WidgetRenderer struct {
	glyphs  *registry.Registry
	profile termenv.Profile
}

// NewWidgetRenderer detects the terminal capabilities of Stdout and builds a
// renderer over the given glyph registry. Non-TTY output gets plain text.
func NewWidgetRenderer(glyphs *registry.Registry) *WidgetRenderer {
	profile := termenv.Ascii
	if term.IsTerminal(int(os.Stdout.Fd())) {
		profile = termenv.ColorProfile()
	}
	return &WidgetRenderer{glyphs: glyphs, profile: profile}
}

// Render returns one line per visible option of the widget, selected rows
// highlighted. Unknown widgets render as an empty string.
func (r *WidgetRenderer) Render(rec *reconciler.Reconciler, widgetID string) string {
	rows, err := rec.Render(widgetID)
	if err != nil || len(rows) == 0 {
		return ""
	}

	var b strings.Builder
	for _, row := range rows {
		label := r.expandGlyphs(row.Label)
		line := fmt.Sprintf("[%d] %s", row.Index, label)
		if row.Selected {
			b.WriteString(r.profile.String("▸ " + line).Foreground(r.profile.Color("#34d399")).Bold().String())
		} else {
			b.WriteString("  " + line)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (r *WidgetRenderer) expandGlyphs(label string) string {
	return glyphToken.ReplaceAllStringFunc(label, func(token string) string {
		key := strings.Trim(token, ":")
		v, err := r.glyphs.Resolve(key)
		if err != nil {
			return token
		}
		return v.Render()
	})
}

// NewLabelRenderer returns a plain label transformer that only expands glyph
// tokens, for hosts that style output themselves.
func NewLabelRenderer(glyphs *registry.Registry) func(string) (string, error) {
	r := &WidgetRenderer{glyphs: glyphs, profile: termenv.Ascii}
	return func(label string) (string, error) {
		return r.expandGlyphs(label), nil
	}
}

// DefaultGlyphs returns a registry preloaded with the glyph tokens used by
// the built-in feedback presets.
func DefaultGlyphs() *registry.Registry {
	reg := registry.New()
	reg.Register("star", registry.Glyph("★"))
	reg.Register("star_outline", registry.Glyph("☆"))
	reg.Register("thumb_up", registry.Glyph("👍"))
	reg.Register("thumb_down", registry.Glyph("👎"))
	reg.Register("check", registry.Glyph("✔"))
	reg.Register("cross", registry.Glyph("✘"))
	reg.Register("heart", registry.Glyph("♥"))
	return reg
}
