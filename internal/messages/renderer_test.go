package messages

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mysterygames/dialog-engine/pkg/content"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	r, err := NewRenderer(logger)
	require.NoError(t, err)
	return r
}

func TestRender(t *testing.T) {
	r := newTestRenderer(t)

	out, err := r.Render("navigationFail", map[string]any{"location": "the docks"})
	require.NoError(t, err)
	assert.Contains(t, out, "the docks")

	out, err = r.Render("finishQuestion", map[string]any{
		"question": &content.Question{Text: "Who did it?"},
		"index":    0,
		"total":    4,
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Question 1 of 4")
	assert.Contains(t, out, "Who did it?")
}

func TestRenderUnknownTemplate(t *testing.T) {
	r := newTestRenderer(t)

	_, err := r.Render("doesNotExist", nil)
	assert.Error(t, err)
	assert.Equal(t, Fallback, r.Text("doesNotExist", nil))
}

func TestTextFallbackOnBadContext(t *testing.T) {
	r := newTestRenderer(t)

	// welcomeFinish dereferences .stats fields; a nil context must not panic
	assert.Equal(t, Fallback, r.Text("welcomeFinish", nil))
}

func TestAllTemplatesForSpeakableOutput(t *testing.T) {
	r := newTestRenderer(t)

	out, err := r.Render("listClues", map[string]any{
		"clues": []content.Clue{{Name: "Knife"}, {Name: "Letter"}},
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Knife, Letter")

	out, err = r.Render("listClues", map[string]any{})
	require.NoError(t, err)
	assert.Contains(t, out, "not gathered")
}
