package actions

import (
	"github.com/mysterygames/dialog-engine/pkg/content"
	"github.com/mysterygames/dialog-engine/pkg/dialog"
	"github.com/mysterygames/dialog-engine/pkg/session"
)

// Unlock is the outcome of arriving at a location: at most one newly
// triggered hint, plus the clues revealed by the location's story.
type Unlock struct {
	Hint  *content.Hint
	Clues []content.Clue
}

// unlockOnArrival evaluates the hint and clue rules for an arrival at
// locationID whose story references storyClueIDs.
//
// Hints are checked in definition order against the visited-set including
// the arrival location; the first unused hint whose precondition is fully
// covered triggers. Remaining eligible hints wait for a later arrival.
// Referenced clues that cannot be resolved are logged and skipped.
func (e *Engine) unlockOnArrival(sess session.Session, caseDataID, locationID string, storyClueIDs []string) Unlock {
	visited := make(map[string]bool, len(sess.LocationsBacklog)+1)
	for _, loc := range sess.LocationsBacklog {
		visited[loc] = true
	}
	visited[locationID] = true

	var out Unlock
	for _, h := range e.repo.HintsForCase(caseDataID) {
		if sess.HasUsedHint(h.ID) {
			continue
		}
		if coveredBy(h.Precondition, visited) {
			hint := h
			out.Hint = &hint
			break
		}
	}

	for _, clueID := range storyClueIDs {
		if sess.HasClue(clueID) {
			continue
		}
		clue := e.repo.GetClue(caseDataID, clueID)
		if clue == nil {
			e.logger.Warn("Story references unknown clue", "case_data_id", caseDataID, "clue_id", clueID)
			continue
		}
		out.Clues = append(out.Clues, *clue)
	}
	return out
}

// revealOnArrival applies the unlock outcome to the response: hint and
// clues are attached (the dispatcher later persists them into the session)
// and the after-story narration announces them. Callers only invoke this on
// a first visit in CASE_STARTED.
func (e *Engine) revealOnArrival(turn *Turn, req *dialog.Request, story *content.Story, resp *dialog.Response) {
	u := e.unlockOnArrival(turn.Current(), req.CaseDataID, story.ID, story.Clues)

	if u.Hint != nil {
		resp.SetHint(u.Hint)
	}
	for _, c := range u.Clues {
		resp.AddClue(c)
	}

	data := map[string]any{"clues": u.Clues}
	if u.Hint != nil {
		data["hint"] = u.Hint
	}
	if after := e.renderer.Text("afterStory", data); after != "" {
		resp.AfterstoryText = after
	}
}

func coveredBy(precondition []string, visited map[string]bool) bool {
	for _, loc := range precondition {
		if !visited[loc] {
			return false
		}
	}
	return true
}
