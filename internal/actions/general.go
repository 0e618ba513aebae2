package actions

import (
	"context"

	"github.com/mysterygames/dialog-engine/pkg/content"
	"github.com/mysterygames/dialog-engine/pkg/dialog"
	"github.com/mysterygames/dialog-engine/pkg/session"
)

func (e *Engine) testAction(ctx context.Context, turn *Turn, req *dialog.Request, resp *dialog.Response) error {
	resp.StoryText = "This is a test response"
	return nil
}

// welcome greets the player according to session state. It is also the
// fallback target when an action is invoked in a state it does not allow.
func (e *Engine) welcome(ctx context.Context, turn *Turn, req *dialog.Request, resp *dialog.Response) error {
	sess := turn.Current()
	switch sess.State {
	case session.StateNew:
		return e.message(resp, "welcomeNew", nil)
	case session.StateCaseStarted:
		if !e.handleFollowup(turn, resp) {
			return e.message(resp, "welcomeCase", nil)
		}
		prompt, err := e.renderer.Render("whatIsNext", nil)
		if err != nil {
			return err
		}
		resp.AfterstoryText += " " + prompt
		return nil
	case session.StateQuestions:
		return e.quizWelcome(ctx, turn, req, resp)
	case session.StateAnswers:
		if e.handleFollowup(turn, resp) {
			resp.ConfirmRejectSuggestions()
			resp.AddOutContext("validate-answer-confirm", 3)
			return nil
		}
		return e.quizWelcome(ctx, turn, req, resp)
	case session.StateFinish:
		stats := e.stats(req.CaseDataID, sess)
		return e.message(resp, "welcomeFinish", map[string]any{"stats": stats})
	}
	return e.message(resp, "welcomeNew", nil)
}

// handleFollowup moves pending one-shot followup text into the response and
// clears it from the session. Reports whether a followup was delivered.
func (e *Engine) handleFollowup(turn *Turn, resp *dialog.Response) bool {
	sess := turn.Current()
	if sess.State != session.StateCaseStarted && sess.State != session.StateAnswers {
		return false
	}
	if sess.FollowupText == "" {
		return false
	}
	resp.AfterstoryText = sess.FollowupText
	turn.SetFollowup("")
	return true
}

// inputUnknown is the free-text fallback. During a case it first tries the
// input as a lookup query before giving up.
func (e *Engine) inputUnknown(ctx context.Context, turn *Turn, req *dialog.Request, resp *dialog.Response) error {
	sess := turn.Current()
	if sess.State == session.StateCaseStarted && req.Input != "" {
		handled, err := e.lookupQuery(ctx, turn, req, resp, req.Input, "", "")
		if err != nil {
			return err
		}
		if handled {
			return nil
		}
	}
	return e.message(resp, "unknown", nil)
}

func (e *Engine) gameIntroduction(ctx context.Context, turn *Turn, req *dialog.Request, resp *dialog.Response) error {
	return e.message(resp, "gameIntroduction", nil)
}

func (e *Engine) howToPlay(ctx context.Context, turn *Turn, req *dialog.Request, resp *dialog.Response) error {
	return e.message(resp, "howToPlay", nil)
}

func (e *Engine) exit(ctx context.Context, turn *Turn, req *dialog.Request, resp *dialog.Response) error {
	resp.EndConversation = true
	return e.message(resp, "bye", nil)
}

func (e *Engine) resetSession(ctx context.Context, turn *Turn, req *dialog.Request, resp *dialog.Response) error {
	turn.Reset(ctx)
	return e.message(resp, "sessionReset", nil)
}

// caseIntroduction re-renders the case introduction story.
func (e *Engine) caseIntroduction(ctx context.Context, turn *Turn, req *dialog.Request, resp *dialog.Response) error {
	prestory, err := e.renderer.Render("repeatCaseIntroduction", nil)
	if err != nil {
		return err
	}
	story := e.repo.GetStory(req.CaseDataID, content.StoryCaseIntroduction)
	if story == nil {
		resp.StoryText = "No asset found"
		return nil
	}
	resp.SetStory(story)
	resp.PrestoryText = prestory
	return nil
}

// finalSolution re-renders the final solution story.
func (e *Engine) finalSolution(ctx context.Context, turn *Turn, req *dialog.Request, resp *dialog.Response) error {
	prestory, err := e.renderer.Render("repeatFinalSolution", nil)
	if err != nil {
		return err
	}
	story := e.repo.GetStory(req.CaseDataID, content.StoryFinalSolution)
	if story == nil {
		resp.StoryText = "No asset found"
		return nil
	}
	resp.SetStory(story)
	resp.PrestoryText = prestory
	return nil
}
