// Package messages renders user-facing copy from embedded templates. It is
// the narrative voice of the game: handlers refer to messages by id and pass
// a rendering context.
package messages

import (
	"bytes"
	"embed"
	"fmt"
	"log/slog"
	"strings"
	"text/template"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Fallback is returned by Text when a template fails to render. The game
// must always say something.
const Fallback = "The game ran into an unexpected problem. Please try again."

// Renderer renders message templates by id.
type Renderer struct {
	tmpl   *template.Template
	logger *slog.Logger
}

// NewRenderer parses all embedded templates.
func NewRenderer(logger *slog.Logger) (*Renderer, error) {
	funcs := template.FuncMap{
		"join": strings.Join,
		"add":  func(a, b int) int { return a + b },
	}
	tmpl, err := template.New("messages").Funcs(funcs).ParseFS(templatesFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse message templates: %w", err)
	}
	return &Renderer{tmpl: tmpl, logger: logger}, nil
}

// Render renders the message template with the given context.
func (r *Renderer) Render(id string, data any) (string, error) {
	t := r.tmpl.Lookup(id + ".tmpl")
	if t == nil {
		return "", fmt.Errorf("message template %q not found", id)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render message %q: %w", id, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// Text renders the message, replacing any rendering failure with Fallback.
func (r *Renderer) Text(id string, data any) string {
	out, err := r.Render(id, data)
	if err != nil {
		r.logger.Error("Message rendering failed", "message", id, "error", err)
		return Fallback
	}
	return out
}
