package actions

import (
	"context"
	"fmt"
	"strings"

	"github.com/mysterygames/dialog-engine/pkg/content"
	"github.com/mysterygames/dialog-engine/pkg/dialog"
	"github.com/mysterygames/dialog-engine/pkg/session"
)

const caseIDParameter = "caseId"

// startCase begins a new playthrough. Without a caseId parameter the single
// enabled case is auto-selected; multiple cases produce a selection prompt.
// If a case is already running the player is asked to confirm the restart
// instead of losing progress silently.
func (e *Engine) startCase(ctx context.Context, turn *Turn, req *dialog.Request, resp *dialog.Response) error {
	sess := turn.Current()
	caseID := req.Parameter(caseIDParameter)

	if caseID == "" {
		cases := e.repo.EnabledCases()
		switch {
		case len(cases) == 0:
			return e.message(resp, "newCaseNoPlayableCases", nil)
		case len(cases) == 1:
			caseID = cases[0].ID
		default:
			if err := e.message(resp, "newCaseSelection", map[string]any{"cases": cases}); err != nil {
				return err
			}
			resp.AddOutContext("case-selection", 1)
			for _, c := range cases {
				resp.AddSuggestion(c.Name)
			}
			return nil
		}
	}

	if sess.State == session.StateNew || sess.State == session.StateFinish {
		return e.startCaseInternal(ctx, turn, req, resp, caseID)
	}

	c := e.repo.GetCase(caseID)
	if c == nil {
		return e.message(resp, "newCaseNoSuchCase", nil)
	}
	if err := e.message(resp, "newCaseAlreadyStarted", map[string]any{"case": c}); err != nil {
		return err
	}
	resp.AddOutContext("start-case-confirmation", 1)
	resp.AddParameter(caseIDParameter, caseID)
	resp.Suggest("Case Introduction", "Yes I Am Sure")
	return nil
}

// startCaseConfirm restarts regardless of current progress. The case may be
// referenced by id or by (alternative) name.
func (e *Engine) startCaseConfirm(ctx context.Context, turn *Turn, req *dialog.Request, resp *dialog.Response) error {
	caseID := req.Parameter(caseIDParameter)
	if name := req.Parameter("case"); name != "" {
		for _, c := range e.repo.EnabledCases() {
			if matchesCaseName(c, name) {
				caseID = c.ID
				break
			}
		}
	}
	if caseID == "" {
		e.logger.Error("start-case-confirm without a resolvable case", "parameters", req.Parameters)
		return e.message(resp, "newCaseNoSuchCase", nil)
	}
	return e.startCaseInternal(ctx, turn, req, resp, caseID)
}

func (e *Engine) startCaseInternal(ctx context.Context, turn *Turn, req *dialog.Request, resp *dialog.Response, caseID string) error {
	caseDataID := e.repo.CaseDataID(caseID)
	if caseDataID == "" {
		return e.message(resp, "newCaseNoSuchCase", nil)
	}

	turn.StartCase(ctx, caseID)
	req.CaseDataID = caseDataID

	story := e.repo.GetStory(caseDataID, content.StoryCaseIntroduction)
	if story == nil {
		return fmt.Errorf("case %s has no introduction story", caseID)
	}
	resp.SetStory(story)
	if pre := e.repo.GetStory(caseDataID, content.StoryCaseStart); pre != nil {
		resp.PrestoryText = pre.Text
	}

	e.revealOnArrival(turn, req, story, resp)
	turn.PushLog(ctx, story.ID, resp.ClueIDs(), hintID(resp))
	resp.AddOutContext("case-start", 1)
	return nil
}

func matchesCaseName(c content.Case, name string) bool {
	if strings.EqualFold(c.Name, name) {
		return true
	}
	for _, alt := range c.AlternativeNames {
		if strings.EqualFold(alt, name) {
			return true
		}
	}
	return false
}
