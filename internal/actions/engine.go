// Package actions implements the dialog action engine: a static action
// table, per-turn session context, the hint/clue unlock rules, suggestion
// ranking and the end-game question flow.
package actions

import (
	"context"
	"log/slog"
	"math/rand"
	"strings"

	"github.com/mysterygames/dialog-engine/internal/content"
	"github.com/mysterygames/dialog-engine/internal/messages"
	"github.com/mysterygames/dialog-engine/internal/storage"
	"github.com/mysterygames/dialog-engine/pkg/dialog"
	"github.com/mysterygames/dialog-engine/pkg/session"
)

// Handler executes one action against the current turn.
type Handler func(ctx context.Context, turn *Turn, req *dialog.Request, resp *dialog.Response) error

// Descriptor declares the preconditions of an action.
type Descriptor struct {
	Name        string
	RequireCase bool
	// AllowedStates restricts the action to the given states. Empty means
	// any state.
	AllowedStates []session.State
}

type action struct {
	desc    Descriptor
	handler Handler
}

// Engine routes actions to handlers and owns the turn lifecycle.
type Engine struct {
	repo     content.Repository
	store    storage.SessionStore
	renderer *messages.Renderer
	logger   *slog.Logger

	// randInt is the tie-break source for suggestion selection; swappable
	// so tests can make selection deterministic.
	randInt func() int

	actions map[string]action
}

// NewEngine builds the engine and its action table.
func NewEngine(repo content.Repository, store storage.SessionStore, renderer *messages.Renderer, logger *slog.Logger) *Engine {
	e := &Engine{
		repo:     repo,
		store:    store,
		renderer: renderer,
		logger:   logger,
		randInt:  rand.Int,
		actions:  make(map[string]action),
	}
	e.registerActions()
	return e
}

func (e *Engine) register(desc Descriptor, h Handler) {
	e.actions[strings.ToLower(desc.Name)] = action{desc: desc, handler: h}
}

// registerActions assembles the static action table. This is the effective
// API surface of the engine.
func (e *Engine) registerActions() {
	requireCase := func(name string, h Handler) {
		e.register(Descriptor{Name: name, RequireCase: true}, h)
	}
	open := func(name string, h Handler) {
		e.register(Descriptor{Name: name}, h)
	}
	questions := func(name string, h Handler) {
		e.register(Descriptor{Name: name, RequireCase: true,
			AllowedStates: []session.State{session.StateQuestions}}, h)
	}
	answers := func(name string, h Handler) {
		e.register(Descriptor{Name: name, RequireCase: true,
			AllowedStates: []session.State{session.StateAnswers}}, h)
	}

	open("test", e.testAction)
	open("input.unknown", e.inputUnknown)
	open("welcome", e.welcome)
	open("game-introduction", e.gameIntroduction)
	open("how-to-play", e.howToPlay)
	open("exit", e.exit)
	open("reset-session", e.resetSession)
	open("start-case", e.startCase)
	open("start-case-confirm", e.startCaseConfirm)

	requireCase("case-introduction", e.caseIntroduction)
	requireCase("navigate", e.navigate)
	requireCase("lookup", e.lookup)
	requireCase("list-clues", e.listClues)
	requireCase("status", e.status)
	requireCase("finish", e.finish)
	requireCase("finish-confirm", e.finishConfirm)

	questions("answer", e.answer)
	questions("answer-confirm", e.answerConfirm)
	questions("answer-reject", e.answerReject)
	questions("skip-question", e.skipQuestion)
	questions("finish-answer-repeat", e.answerRepeat)

	answers("validate-answer-confirm", e.validateAnswerConfirm)
	answers("validate-answer-reject", e.validateAnswerReject)
	answers("finish-validate-repeat", e.validateRepeat)
}

// Handle runs one turn: load-or-create the session, dispatch the action,
// then commit. Handler failures are recovered inside dispatch and never
// reach the caller. There is no rollback: mutations applied before a
// failure are committed with the turn.
func (e *Engine) Handle(ctx context.Context, req *dialog.Request) *dialog.Response {
	turn, err := e.beginTurn(ctx, req.SessionID)
	if err != nil {
		e.logger.Error("Failed to begin turn", "session_id", req.SessionID, "error", err)
		resp := &dialog.Response{}
		e.errorResponse(resp)
		return resp
	}

	sess := turn.Current()
	if sess.CaseID != "" {
		req.CaseDataID = e.repo.CaseDataID(sess.CaseID)
		if req.CaseDataID == "" && sess.State != session.StateNew {
			e.logger.Warn("Session references unknown case", "session_id", sess.ID, "case_id", sess.CaseID)
		}
	}

	resp := e.dispatch(ctx, turn, req)

	if err := turn.Commit(ctx); err != nil {
		e.logger.Error("Failed to commit session", "session_id", req.SessionID, "error", err)
	}
	return resp
}

// dispatch routes the action through precondition checks, the handler, the
// state annotation and the suggestion pass. It never panics or returns an
// error: every failure is logged and replaced with a generic error response.
func (e *Engine) dispatch(ctx context.Context, turn *Turn, req *dialog.Request) (resp *dialog.Response) {
	resp = &dialog.Response{}
	name := strings.ToLower(req.Action)

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Action panicked", "action", name, "panic", r)
			resp = &dialog.Response{}
			e.errorResponse(resp)
		}
	}()

	act, ok := e.actions[name]
	if !ok {
		e.logger.Error("Action not found", "action", req.Action)
		e.errorResponse(resp)
		return resp
	}

	sess := turn.Current()
	// stop indicates a precondition was not met and the handler must not run
	stop := false
	if act.desc.RequireCase && sess.State == session.StateNew {
		resp.StoryText = e.renderer.Text("caseRequired", nil)
		stop = true
	}
	if !stop && len(act.desc.AllowedStates) != 0 && !stateAllowed(act.desc.AllowedStates, sess.State) {
		e.logger.Warn("Action not allowed in state, falling back to welcome",
			"action", name, "state", sess.State)
		if err := e.welcome(ctx, turn, req, resp); err != nil {
			return e.failedResponse(name, err)
		}
		stop = true
	}

	if !stop {
		if err := act.handler(ctx, turn, req, resp); err != nil {
			return e.failedResponse(name, err)
		}
	}

	// session could have changed after the handler
	switch turn.Current().State {
	case session.StateQuestions:
		resp.AddOutContext("question", 1)
	case session.StateAnswers:
		resp.AddOutContext("answer", 1)
	}

	e.suggest(turn, resp)

	// persist clue/hint side effects of this turn into the session
	for _, c := range resp.Clues {
		turn.AddClue(c.ID)
	}
	if resp.Hint != nil {
		turn.AddUsedHint(resp.Hint.ID)
	}
	return resp
}

func (e *Engine) failedResponse(name string, err error) *dialog.Response {
	e.logger.Error("Action failed", "action", name, "error", err)
	resp := &dialog.Response{}
	e.errorResponse(resp)
	return resp
}

func (e *Engine) errorResponse(resp *dialog.Response) {
	resp.StoryText = e.renderer.Text("error", nil)
}

// message renders one message template into the response story text.
func (e *Engine) message(resp *dialog.Response, id string, data any) error {
	out, err := e.renderer.Render(id, data)
	if err != nil {
		return err
	}
	resp.StoryText = out
	return nil
}

func stateAllowed(allowed []session.State, s session.State) bool {
	for _, a := range allowed {
		if a == s {
			return true
		}
	}
	return false
}

func hintID(resp *dialog.Response) string {
	if resp.Hint == nil {
		return ""
	}
	return resp.Hint.ID
}
