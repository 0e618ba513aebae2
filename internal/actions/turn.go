package actions

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mysterygames/dialog-engine/pkg/session"
)

// Turn holds the session value for exactly one request/response cycle. All
// session mutation during a turn goes through it; the updated value is
// written back once by Commit. Not safe for use by more than one in-flight
// turn per session id: the engine assumes a player issues turns
// sequentially, and concurrent commits are last-writer-wins.
type Turn struct {
	store  sessionPutter
	logger *slog.Logger
	sess   session.Session
	dirty  bool
}

// sessionPutter is the slice of the session store a turn needs.
type sessionPutter interface {
	PutSession(ctx context.Context, s session.Session) error
	AppendLog(ctx context.Context, entry session.LogEntry) error
	ClearLog(ctx context.Context, sessionID string) error
}

// beginTurn loads the session for the id, synthesizing and persisting a
// fresh NEW session (and clearing any stale session log) on first sight.
func (e *Engine) beginTurn(ctx context.Context, sessionID string) (*Turn, error) {
	s, err := e.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		fresh := session.New(sessionID)
		if err := e.store.PutSession(ctx, fresh); err != nil {
			return nil, err
		}
		if err := e.store.ClearLog(ctx, sessionID); err != nil {
			e.logger.Warn("Failed to clear stale session log", "session_id", sessionID, "error", err)
		}
		s = &fresh
	}
	return &Turn{store: e.store, logger: e.logger, sess: *s}, nil
}

// Current returns the session value as of now. The session is immutable:
// call Current again after any mutation to observe the new value.
func (t *Turn) Current() session.Session {
	return t.sess
}

// Replace installs a new session value and marks the turn dirty.
func (t *Turn) Replace(s session.Session) {
	t.sess = s
	t.dirty = true
}

// Commit persists the session if anything changed this turn. Read-only
// turns are a no-op.
func (t *Turn) Commit(ctx context.Context) error {
	if !t.dirty {
		return nil
	}
	if err := t.store.PutSession(ctx, t.sess); err != nil {
		return err
	}
	t.dirty = false
	return nil
}

// StartCase replaces the session with a fresh playthrough of the given case
// and clears the previous session log.
func (t *Turn) StartCase(ctx context.Context, caseID string) {
	t.Replace(session.StartCase(t.sess.ID, caseID))
	if err := t.store.ClearLog(ctx, t.sess.ID); err != nil {
		t.logger.Warn("Failed to clear session log", "session_id", t.sess.ID, "error", err)
	}
}

// Reset replaces the session with a fresh NEW session and clears the log.
func (t *Turn) Reset(ctx context.Context) {
	t.Replace(session.New(t.sess.ID))
	if err := t.store.ClearLog(ctx, t.sess.ID); err != nil {
		t.logger.Warn("Failed to clear session log", "session_id", t.sess.ID, "error", err)
	}
}

// SetState transitions the session state.
func (t *Turn) SetState(state session.State) {
	t.Replace(t.sess.WithState(state))
}

// SetFollowup sets (or clears, with "") the one-shot followup text.
func (t *Turn) SetFollowup(text string) {
	if t.sess.FollowupText == text {
		return
	}
	t.Replace(t.sess.WithFollowup(text))
}

// AddLocation appends a visited location; revisits leave the turn clean.
func (t *Turn) AddLocation(location string) {
	if t.sess.HasVisited(location) {
		return
	}
	t.Replace(t.sess.AddLocation(location))
}

// AddClue appends an unlocked clue id; duplicates leave the turn clean.
func (t *Turn) AddClue(clueID string) {
	if t.sess.HasClue(clueID) {
		return
	}
	t.Replace(t.sess.AddClue(clueID))
}

// AddUsedHint appends a triggered hint id; duplicates leave the turn clean.
func (t *Turn) AddUsedHint(hintID string) {
	if t.sess.HasUsedHint(hintID) {
		return
	}
	t.Replace(t.sess.AddUsedHint(hintID))
}

// AddAnswer appends a submitted answer ("" means skipped).
func (t *Turn) AddAnswer(answer string) {
	t.Replace(t.sess.AddAnswer(answer))
}

// AddAnswerResult appends a validated correctness result.
func (t *Turn) AddAnswerResult(correct bool) {
	t.Replace(t.sess.AddAnswerResult(correct))
}

// AgeSuggestions decays every active suggestion by one toward zero.
func (t *Turn) AgeSuggestions() {
	if len(t.sess.ActiveSuggestions) == 0 {
		return
	}
	aged := make([]session.ActiveSuggestion, 0, len(t.sess.ActiveSuggestions))
	for _, s := range t.sess.ActiveSuggestions {
		r := s.Relevancy - 1
		if r < 0 {
			r = 0
		}
		aged = append(aged, session.ActiveSuggestion{Text: s.Text, Relevancy: r})
	}
	t.Replace(t.sess.WithActiveSuggestions(aged))
}

// InjectSuggestions adds fresh suggestion phrases at full relevancy.
func (t *Turn) InjectSuggestions(texts []string) {
	if len(texts) == 0 {
		return
	}
	active := append([]session.ActiveSuggestion(nil), t.sess.ActiveSuggestions...)
	for _, text := range texts {
		active = append(active, session.ActiveSuggestion{Text: text, Relevancy: 10})
	}
	t.Replace(t.sess.WithActiveSuggestions(active))
}

// PushLog appends a session-log entry for a story shown this turn, with the
// clue and hint ids it revealed.
func (t *Turn) PushLog(ctx context.Context, storyID string, clueIDs []string, hintID string) {
	entry := session.LogEntry{
		ID:        uuid.NewString(),
		SessionID: t.sess.ID,
		StoryID:   storyID,
		ClueIDs:   clueIDs,
		HintID:    hintID,
		CreatedAt: time.Now(),
	}
	if err := t.store.AppendLog(ctx, entry); err != nil {
		t.logger.Error("Failed to append session log", "session_id", t.sess.ID, "story_id", storyID, "error", err)
	}
}

// PushFinalLog appends the terminal thank-you entry after a finished case.
func (t *Turn) PushFinalLog(ctx context.Context) {
	t.PushLog(ctx, session.LogThankYou, nil, "")
}
