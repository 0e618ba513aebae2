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

const (
	testCaseID     = "case1"
	testCaseDataID = "data1"
)

func testBundle() intcontent.Bundle {
	return intcontent.Bundle{
		Case: content.Case{
			ID:               testCaseID,
			CaseDataID:       testCaseDataID,
			Name:             "The Silvered Mirror",
			AlternativeNames: []string{"Silvered Mirror"},
			Enabled:          true,
		},
		Stories: []content.Story{
			{CaseDataID: testCaseDataID, ID: content.StoryCaseIntroduction, Type: content.StorySimple, Title: "Introduction", Text: "A mirror has been stolen."},
			{CaseDataID: testCaseDataID, ID: content.StoryCaseStart, Type: content.StorySimple, Title: "Prestory", Text: "A new case awaits."},
			{CaseDataID: testCaseDataID, ID: content.StoryFinalSolution, Type: content.StorySimple, Title: "Solution", Text: "The butler stole it."},
			{CaseDataID: testCaseDataID, ID: "bakerstreet", Type: content.StoryLocation, Title: "Baker Street", Text: "You find a knife.", Clues: []string{"knife"}},
			{CaseDataID: testCaseDataID, ID: "yard", Type: content.StoryLocation, Title: "Scotland Yard", Text: "The inspector is out.", Clues: []string{"letter"}},
			{CaseDataID: testCaseDataID, ID: "docks", Type: content.StoryLocation, Title: "The Docks", Text: "Fog over the water."},
		},
		Clues: []content.Clue{
			{CaseDataID: testCaseDataID, ID: "knife", Name: "Bloody Knife", Description: "A kitchen knife.", Keywords: "weapon kitchen"},
			{CaseDataID: testCaseDataID, ID: "letter", Name: "Torn Letter", Description: "Half a letter.", Keywords: "paper note"},
		},
		Hints: []content.Hint{
			{CaseDataID: testCaseDataID, ID: "h1", Precondition: []string{"bakerstreet"}, Text: "Perhaps the Yard knows more.", Suggestions: []string{"Visit Scotland Yard"}},
			{CaseDataID: testCaseDataID, ID: "h2", Precondition: []string{"bakerstreet", "yard"}, Text: "The docks at night.", Suggestions: []string{"Go To The Docks"}},
		},
		Questions: []content.Question{
			{CaseDataID: testCaseDataID, Order: 1, Text: "Who stole the mirror?", Answer: "The butler", Score: 20, PossibleAnswers: []string{"The butler", "The maid"}},
			{CaseDataID: testCaseDataID, Order: 2, Text: "Why?", Answer: "Debts", Score: 30},
			{CaseDataID: testCaseDataID, Order: 3, Text: "How?", Answer: "Through the window", Score: 50},
		},
		Directory: []content.DirectoryEntry{
			{CaseDataID: testCaseDataID, Name: "221B Baker Street", Location: "bakerstreet", Keywords: "holmes home"},
			{CaseDataID: testCaseDataID, Name: "Scotland Yard", Location: "yard", Keywords: "police"},
			{CaseDataID: testCaseDataID, Name: "The Docks", Location: "docks", Keywords: "harbour river"},
		},
	}
}

// newTestEngine wires an engine over the fixture bundle, a mock store and a
// deterministic tie-break source.
func newTestEngine(t *testing.T) (*Engine, *storage.MockStore) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	renderer, err := messages.NewRenderer(logger)
	require.NoError(t, err)

	store := storage.NewMockStore()
	e := NewEngine(intcontent.NewMemoryRepository(testBundle()), store, renderer, logger)
	// descending keys make ties resolve to later candidates first
	key := 1 << 30
	e.randInt = func() int {
		key--
		return key
	}
	return e, store
}

func handle(t *testing.T, e *Engine, sessionID, action string, params map[string]string) *dialog.Response {
	t.Helper()
	resp := e.Handle(context.Background(), &dialog.Request{
		SessionID:  sessionID,
		Action:     action,
		Parameters: params,
	})
	require.NotNil(t, resp)
	return resp
}

func getSession(t *testing.T, store *storage.MockStore, id string) session.Session {
	t.Helper()
	s, err := store.GetSession(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, s)
	return *s
}

// startTestCase plays a start-case turn and asserts it took.
func startTestCase(t *testing.T, e *Engine, store *storage.MockStore, sessionID string) {
	t.Helper()
	handle(t, e, sessionID, "start-case", nil)
	require.Equal(t, session.StateCaseStarted, getSession(t, store, sessionID).State)
}

func TestHandleCreatesSession(t *testing.T) {
	e, store := newTestEngine(t)

	resp := handle(t, e, "s1", "welcome", nil)

	assert.NotEmpty(t, resp.StoryText)
	assert.Equal(t, stateSuggestions[session.StateNew], resp.Suggestions)
	sess := getSession(t, store, "s1")
	assert.Equal(t, session.StateNew, sess.State)
}

func TestHandleUnknownAction(t *testing.T) {
	e, _ := newTestEngine(t)

	resp := handle(t, e, "s1", "no-such-action", nil)

	assert.Equal(t, messages.Fallback, resp.StoryText)
	assert.Empty(t, resp.Suggestions)
}

func TestHandleActionCaseInsensitive(t *testing.T) {
	e, _ := newTestEngine(t)

	resp := handle(t, e, "s1", "Welcome", nil)

	assert.NotEqual(t, messages.Fallback, resp.StoryText)
	assert.NotEmpty(t, resp.StoryText)
}

func TestHandleCaseRequired(t *testing.T) {
	e, store := newTestEngine(t)

	resp := handle(t, e, "s1", "navigate", map[string]string{"location": "bakerstreet"})

	want, err := e.renderer.Render("caseRequired", nil)
	require.NoError(t, err)
	assert.Equal(t, want, resp.StoryText)
	// the handler must not have run
	assert.Empty(t, getSession(t, store, "s1").LocationsBacklog)
}

func TestHandleStateGatedFallsBackToWelcome(t *testing.T) {
	e, store := newTestEngine(t)
	startTestCase(t, e, store, "s1")

	resp := handle(t, e, "s1", "answer", map[string]string{"answer": "The butler"})

	want, err := e.renderer.Render("welcomeCase", nil)
	require.NoError(t, err)
	assert.Equal(t, want, resp.StoryText)
	assert.Empty(t, getSession(t, store, "s1").Answers)
}

func TestHandleRecoversPanics(t *testing.T) {
	e, _ := newTestEngine(t)
	e.register(Descriptor{Name: "boom"}, func(ctx context.Context, turn *Turn, req *dialog.Request, resp *dialog.Response) error {
		panic("kaboom")
	})

	resp := handle(t, e, "s1", "boom", nil)

	assert.Equal(t, messages.Fallback, resp.StoryText)
}

func TestHandleCommitsDespiteHandlerFailure(t *testing.T) {
	e, store := newTestEngine(t)
	e.register(Descriptor{Name: "half-fail"}, func(ctx context.Context, turn *Turn, req *dialog.Request, resp *dialog.Response) error {
		turn.AddAnswer("partial")
		return context.Canceled
	})

	resp := handle(t, e, "s1", "half-fail", nil)

	assert.Equal(t, messages.Fallback, resp.StoryText)
	// no rollback: the mutation before the failure is persisted
	assert.Equal(t, []string{"partial"}, getSession(t, store, "s1").Answers)
}

func TestHandleStatePendingContexts(t *testing.T) {
	e, store := newTestEngine(t)
	startTestCase(t, e, store, "s1")
	handle(t, e, "s1", "finish", nil)
	handle(t, e, "s1", "finish-confirm", nil)

	resp := handle(t, e, "s1", "finish-answer-repeat", nil)

	assert.Contains(t, resp.OutContexts, dialog.Context{Name: "question", Lifespan: 1})
}

func TestResetSession(t *testing.T) {
	e, store := newTestEngine(t)
	startTestCase(t, e, store, "s1")
	handle(t, e, "s1", "navigate", map[string]string{"location": "bakerstreet"})

	handle(t, e, "s1", "reset-session", nil)

	sess := getSession(t, store, "s1")
	assert.Equal(t, session.StateNew, sess.State)
	assert.Empty(t, sess.CaseID)
	assert.Empty(t, sess.Clues)
	log, err := store.SessionLog(context.Background(), "s1")
	require.NoError(t, err)
	assert.Empty(t, log)
}

func TestExitEndsConversation(t *testing.T) {
	e, _ := newTestEngine(t)

	resp := handle(t, e, "s1", "exit", nil)

	assert.True(t, resp.EndConversation)
	assert.NotEmpty(t, resp.StoryText)
}
