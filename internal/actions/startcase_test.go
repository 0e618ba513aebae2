package actions

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	intcontent "github.com/mysterygames/dialog-engine/internal/content"
	"github.com/mysterygames/dialog-engine/internal/messages"
	"github.com/mysterygames/dialog-engine/internal/storage"
	"github.com/mysterygames/dialog-engine/pkg/content"
	"github.com/mysterygames/dialog-engine/pkg/dialog"
	"github.com/mysterygames/dialog-engine/pkg/session"
)

func TestStartCaseAutoSelectsSingleCase(t *testing.T) {
	e, store := newTestEngine(t)

	resp := handle(t, e, "s1", "start-case", nil)

	assert.Equal(t, "A new case awaits.", resp.PrestoryText)
	assert.Equal(t, "A mirror has been stolen.", resp.StoryText)
	assert.Contains(t, resp.OutContexts, dialog.Context{Name: "case-start", Lifespan: 1})

	sess := getSession(t, store, "s1")
	assert.Equal(t, session.StateCaseStarted, sess.State)
	assert.Equal(t, testCaseID, sess.CaseID)

	log, err := store.SessionLog(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, log, 1)
	assert.Equal(t, content.StoryCaseIntroduction, log[0].StoryID)
}

func TestStartCaseOffersSelectionForMultipleCases(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	renderer, err := messages.NewRenderer(logger)
	require.NoError(t, err)

	second := testBundle()
	second.Case = content.Case{ID: "case2", CaseDataID: "data2", Name: "The Empty House", Enabled: true}
	for i := range second.Stories {
		second.Stories[i].CaseDataID = "data2"
	}
	store := storage.NewMockStore()
	e := NewEngine(intcontent.NewMemoryRepository(testBundle(), second), store, renderer, logger)

	resp := handle(t, e, "s1", "start-case", nil)

	assert.Contains(t, resp.OutContexts, dialog.Context{Name: "case-selection", Lifespan: 1})
	assert.Equal(t, []string{"The Silvered Mirror", "The Empty House"}, resp.Suggestions)
	assert.Equal(t, session.StateNew, getSession(t, store, "s1").State)
}

func TestStartCaseMidGameAsksForConfirmation(t *testing.T) {
	e, store := newTestEngine(t)
	startTestCase(t, e, store, "s1")
	handle(t, e, "s1", "navigate", map[string]string{"location": "bakerstreet"})

	resp := handle(t, e, "s1", "start-case", map[string]string{"caseId": testCaseID})

	assert.Contains(t, resp.OutContexts, dialog.Context{Name: "start-case-confirmation", Lifespan: 1})
	assert.Equal(t, testCaseID, resp.Parameters["caseId"])
	assert.Equal(t, []string{"Case Introduction", "Yes I Am Sure"}, resp.Suggestions)
	// progress untouched until confirmed
	assert.Equal(t, []string{"bakerstreet"}, getSession(t, store, "s1").LocationsBacklog)
}

func TestStartCaseConfirmResetsProgress(t *testing.T) {
	e, store := newTestEngine(t)
	startTestCase(t, e, store, "s1")
	handle(t, e, "s1", "navigate", map[string]string{"location": "bakerstreet"})

	handle(t, e, "s1", "start-case-confirm", map[string]string{"caseId": testCaseID})

	sess := getSession(t, store, "s1")
	assert.Equal(t, session.StateCaseStarted, sess.State)
	assert.Empty(t, sess.LocationsBacklog)
	assert.Empty(t, sess.Clues)

	// the log starts over with the new playthrough
	log, err := store.SessionLog(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, log, 1)
	assert.Equal(t, content.StoryCaseIntroduction, log[0].StoryID)
}

func TestStartCaseConfirmResolvesAlternativeName(t *testing.T) {
	e, store := newTestEngine(t)

	handle(t, e, "s1", "start-case-confirm", map[string]string{"case": "silvered mirror"})

	assert.Equal(t, testCaseID, getSession(t, store, "s1").CaseID)
}

func TestStartCaseAfterFinishRestartsWithoutConfirmation(t *testing.T) {
	e, store := newTestEngine(t)
	startTestCase(t, e, store, "s1")
	handle(t, e, "s1", "finish", nil)
	handle(t, e, "s1", "finish-confirm", nil)
	for i := 0; i < 3; i++ {
		handle(t, e, "s1", "skip-question", nil)
	}
	for i := 0; i < 3; i++ {
		handle(t, e, "s1", "validate-answer-confirm", nil)
	}
	require.Equal(t, session.StateFinish, getSession(t, store, "s1").State)

	handle(t, e, "s1", "start-case", nil)

	sess := getSession(t, store, "s1")
	assert.Equal(t, session.StateCaseStarted, sess.State)
	assert.Empty(t, sess.Answers)
}

func TestStartCaseUnknownCase(t *testing.T) {
	e, store := newTestEngine(t)

	resp := handle(t, e, "s1", "start-case", map[string]string{"caseId": "nope"})

	want, err := e.renderer.Render("newCaseNoSuchCase", nil)
	require.NoError(t, err)
	assert.Equal(t, want, resp.StoryText)
	assert.Equal(t, session.StateNew, getSession(t, store, "s1").State)
}
