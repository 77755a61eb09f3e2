// Package sanitize strips executable markup from user-authored rich text.
package sanitize

import (
	"fmt"
	"html"
	"strings"

	"github.com/Rrens/interaction-drafts/internal/domain"
)

// Engine parses a markup fragment, removes unsafe nodes and attributes, and serializes
// what is left. Targets without an HTML parser can plug in their own allow-list engine.
type Engine interface {
	Clean(fragment string) (string, error)
}

// Sanitizer filters content before it reaches the workspace
type Sanitizer struct {
	engine Engine
}

// New creates a sanitizer backed by the HTML5 fragment engine
func New() *Sanitizer {
	return &Sanitizer{engine: NewHTMLEngine()}
}

// NewWithEngine creates a sanitizer with a custom engine
func NewWithEngine(engine Engine) *Sanitizer {
	return &Sanitizer{engine: engine}
}

// Sanitize returns the filtered markup. A fragment the engine cannot parse is rejected:
// the result is empty and the error wraps domain.ErrUnsafeContent.
func (s *Sanitizer) Sanitize(input string) (string, error) {
	if strings.TrimSpace(input) == "" {
		return "", nil
	}

	out, err := s.engine.Clean(input)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUnsafeContent, err)
	}
	return out, nil
}

// ClipboardPayload is the data offered by a paste event
type ClipboardPayload struct {
	HTML string `json:"html,omitempty"`
	Text string `json:"text,omitempty"`
}

// Paste converts a clipboard payload into sanitized markup ready for insertion.
// Rich content wins over plain text; plain text is escaped and line breaks preserved.
func (s *Sanitizer) Paste(p ClipboardPayload) (string, error) {
	if strings.TrimSpace(p.HTML) != "" {
		return s.Sanitize(p.HTML)
	}
	if p.Text == "" {
		return "", nil
	}

	text := strings.ReplaceAll(p.Text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = html.EscapeString(line)
	}
	return s.Sanitize(strings.Join(lines, "<br>"))
}
