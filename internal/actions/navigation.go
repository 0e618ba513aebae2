package actions

import (
	"context"
	"strings"

	"github.com/mysterygames/dialog-engine/pkg/content"
	"github.com/mysterygames/dialog-engine/pkg/dialog"
	"github.com/mysterygames/dialog-engine/pkg/session"
)

// navigate visits a location. First visits during a case run the unlock
// engine, extend the backlog and push a session-log entry; revisits only
// re-render the story.
func (e *Engine) navigate(ctx context.Context, turn *Turn, req *dialog.Request, resp *dialog.Response) error {
	location := req.Parameter("location")
	if location == "" {
		e.logger.Warn("navigate action without location parameter", "parameters", req.Parameters)
		e.errorResponse(resp)
		return nil
	}
	if id := e.repo.CheckLocation(req.CaseDataID, location); id != "" {
		location = id
	}
	return e.doNavigate(ctx, turn, req, "", location, resp)
}

func (e *Engine) doNavigate(ctx context.Context, turn *Turn, req *dialog.Request, query, location string, resp *dialog.Response) error {
	story := e.repo.GetStory(req.CaseDataID, location)
	if story == nil {
		return e.message(resp, "navigationFail", map[string]any{"location": location})
	}

	data := map[string]any{"title": story.Title}
	if query != "" && !strings.Contains(strings.ToLower(story.Title), strings.ToLower(query)) {
		data["query"] = query
	}
	prestory, err := e.renderer.Render("navigatePre", data)
	if err != nil {
		return err
	}
	resp.SetStory(story)
	resp.PrestoryText = prestory

	sess := turn.Current()
	if sess.State == session.StateCaseStarted && !sess.HasVisited(location) {
		e.revealOnArrival(turn, req, story, resp)
		turn.AddLocation(location)
		turn.PushLog(ctx, story.ID, resp.ClueIDs(), hintID(resp))
	}
	return nil
}

// lookup searches the case directory and the player's clues by free text.
// Without parameters it asks which location to investigate and offers the
// visited locations.
func (e *Engine) lookup(ctx context.Context, turn *Turn, req *dialog.Request, resp *dialog.Response) error {
	query := req.Parameter("query")
	clueParam := req.Parameter("clue")
	locationParam := req.Parameter("location")

	if query == "" && clueParam == "" && locationParam == "" {
		if err := e.message(resp, "investigateQuestion", nil); err != nil {
			return err
		}
		resp.AddOutContext("location-selection", 1)

		sess := turn.Current()
		if sess.State == session.StateAnswers || sess.State == session.StateFinish {
			resp.AddSuggestion("Final Solution")
		}
		// most recent visits first
		for i := len(sess.LocationsBacklog) - 1; i >= 0; i-- {
			if story := e.repo.GetStory(req.CaseDataID, sess.LocationsBacklog[i]); story != nil {
				resp.AddSuggestion(story.Title)
			}
		}
		resp.AddSuggestion("Case Introduction")
		return nil
	}

	handled, err := e.lookupQuery(ctx, turn, req, resp, query, clueParam, locationParam)
	if err != nil {
		return err
	}
	if !handled {
		return e.message(resp, "lookupNotFound", map[string]any{"query": query})
	}
	return nil
}

// lookupQuery resolves a free-text query, a clue parameter or a location
// parameter, in that priority. Reports whether anything handled the input.
func (e *Engine) lookupQuery(ctx context.Context, turn *Turn, req *dialog.Request, resp *dialog.Response, query, clueParam, locationParam string) (bool, error) {
	sess := turn.Current()
	q := strings.ToLower(strings.TrimSpace(query))
	lp := strings.ToLower(strings.TrimSpace(locationParam))

	// special queries that map to well-known stories
	if q == "case introduction" || lp == "case introduction" {
		return true, e.caseIntroduction(ctx, turn, req, resp)
	}
	if q == "final solution" || q == "finish the case" || lp == "final solution" {
		return true, e.finalSolution(ctx, turn, req, resp)
	}

	location := ""
	if query != "" {
		location = e.repo.CheckLocation(req.CaseDataID, query)
	}
	if locationParam != "" {
		location = e.repo.CheckLocation(req.CaseDataID, locationParam)
	}
	if location != "" {
		if !e.navigationAllowed(sess, location) {
			resp.AddOutContext("ask-navigate", 0)
			return true, e.message(resp, "navigationForbidden", nil)
		}
		return true, e.doNavigate(ctx, turn, req, "", location, resp)
	}

	if locationParam != "" {
		dirs := e.repo.SearchDirectory(req.CaseDataID, locationParam)
		return true, e.lookupLocation(ctx, turn, req, resp, locationParam, dirs)
	}

	if clueParam != "" {
		clues := e.repo.SearchClues(req.CaseDataID, clueParam, sess.Clues)
		return true, e.lookupClues(turn, req, resp, clueParam, clues)
	}

	if query != "" {
		if dirs := e.repo.SearchDirectory(req.CaseDataID, query); len(dirs) > 0 {
			return true, e.lookupLocation(ctx, turn, req, resp, query, dirs)
		}
		if clues := e.repo.SearchClues(req.CaseDataID, query, sess.Clues); len(clues) > 0 {
			return true, e.lookupClues(turn, req, resp, query, clues)
		}
	}
	return false, nil
}

// maxDirectoryMatches caps how many directory hits are read back to the
// player for an ambiguous query.
const maxDirectoryMatches = 11

func (e *Engine) lookupLocation(ctx context.Context, turn *Turn, req *dialog.Request, resp *dialog.Response, query string, dirs []content.DirectoryEntry) error {
	sess := turn.Current()
	switch {
	case len(dirs) == 0:
		return e.message(resp, "lookupNotFound", map[string]any{"query": query})
	case len(dirs) == 1:
		entry := dirs[0]
		if !e.navigationAllowed(sess, entry.Location) {
			resp.AddOutContext("ask-navigate", 0)
			return e.message(resp, "navigationForbidden", nil)
		}
		return e.doNavigate(ctx, turn, req, query, entry.Location, resp)
	default:
		if len(dirs) > maxDirectoryMatches {
			dirs = dirs[:maxDirectoryMatches]
		}
		return e.message(resp, "lookupFoundMulti", map[string]any{"dirs": dirs, "query": query})
	}
}

func (e *Engine) lookupClues(turn *Turn, req *dialog.Request, resp *dialog.Response, query string, found []content.Clue) error {
	if len(found) == 0 {
		return e.message(resp, "lookupCluesNotFound", map[string]any{
			"query":    query,
			"allClues": e.sessionClues(turn, req.CaseDataID),
		})
	}
	if err := e.message(resp, "lookupCluesFound", map[string]any{"query": query, "clues": found}); err != nil {
		return err
	}
	for _, c := range found {
		if c.ImageURL != "" && resp.ImageURL == "" {
			resp.ImageURL = c.ImageURL
		}
	}
	return nil
}

// listClues reviews unlocked clues, newest first. An optional clue name
// narrows to one clue.
func (e *Engine) listClues(ctx context.Context, turn *Turn, req *dialog.Request, resp *dialog.Response) error {
	clues := e.sessionClues(turn, req.CaseDataID)

	clueName := req.Parameter("clue")
	if clueName == "" {
		clueName = req.Parameter("clue-other")
	}
	if clueName != "" {
		for _, c := range clues {
			if strings.EqualFold(c.Name, clueName) {
				return e.lookupClues(turn, req, resp, clueName, []content.Clue{c})
			}
		}
	}

	if err := e.message(resp, "listClues", map[string]any{"clues": clues}); err != nil {
		return err
	}
	resp.AddSuggestion("Continue")
	for _, c := range clues {
		resp.AddSuggestion(c.Name)
	}
	return nil
}

// status summarizes the visited locations.
func (e *Engine) status(ctx context.Context, turn *Turn, req *dialog.Request, resp *dialog.Response) error {
	sess := turn.Current()
	var visited []content.Story
	for _, location := range sess.LocationsBacklog {
		if story := e.repo.GetStory(req.CaseDataID, location); story != nil {
			visited = append(visited, *story)
		}
	}
	if err := e.message(resp, "status", map[string]any{"backlog": visited, "size": len(visited)}); err != nil {
		return err
	}
	prompt, err := e.renderer.Render("whatIsNext", nil)
	if err != nil {
		return err
	}
	resp.AfterstoryText = prompt
	return nil
}

// sessionClues resolves the session's unlocked clue ids, newest first.
// Unresolvable ids are skipped.
func (e *Engine) sessionClues(turn *Turn, caseDataID string) []content.Clue {
	sess := turn.Current()
	clues := make([]content.Clue, 0, len(sess.Clues))
	for i := len(sess.Clues) - 1; i >= 0; i-- {
		if c := e.repo.GetClue(caseDataID, sess.Clues[i]); c != nil {
			clues = append(clues, *c)
		}
	}
	return clues
}

// navigationAllowed checks whether a location may be visited in the current
// phase: once the final questions begin, only revisits are allowed.
func (e *Engine) navigationAllowed(sess session.Session, location string) bool {
	if sess.State == session.StateQuestions {
		return sess.HasVisited(location)
	}
	return true
}
