package actions

import (
	"sort"

	"github.com/mysterygames/dialog-engine/pkg/dialog"
	"github.com/mysterygames/dialog-engine/pkg/session"
)

// Static suggestion menus for states where ranking does not apply.
var stateSuggestions = map[session.State][]string{
	session.StateNew:       {"Start New Case", "Game Introduction", "Leave The Game"},
	session.StateFinish:    {"Start New Case", "Revisit", "Case Introduction", "Final Solution", "Exit The Game"},
	session.StateQuestions: {"Repeat Question", "Next Question", "Revisit", "Show Clues"},
	session.StateAnswers:   {"Repeat Question"},
}

// suggest runs after every handled turn. In CASE_STARTED it ages the active
// suggestion set, injects the phrases of a hint triggered this turn at full
// relevancy, and, when the handler supplied no suggestions of its own,
// presents the top candidates. Other states get their static menu.
func (e *Engine) suggest(turn *Turn, resp *dialog.Response) {
	sess := turn.Current()

	if sess.State != session.StateCaseStarted {
		if menu, ok := stateSuggestions[sess.State]; ok && !resp.HasSuggestions() {
			resp.Suggest(menu...)
		}
		return
	}

	turn.AgeSuggestions()
	if resp.Hint != nil && len(resp.Hint.Suggestions) > 0 {
		turn.InjectSuggestions(resp.Hint.Suggestions)
	}

	active := turn.Current().ActiveSuggestions
	if !resp.HasSuggestions() && len(active) > 0 {
		resp.Suggest(e.chooseTop(active)...)
	}
}

// chooseTop picks the three most relevant suggestions. Ties are broken by a
// fresh random key per candidate so equally relevant phrases rotate across
// turns instead of resolving in definition order. Selection is informational
// only: the active set itself is not reduced.
func (e *Engine) chooseTop(active []session.ActiveSuggestion) []string {
	keys := make([]int, len(active))
	indexes := make([]int, len(active))
	for i := range active {
		keys[i] = e.randInt()
		indexes[i] = i
	}
	sort.SliceStable(indexes, func(a, b int) bool {
		i, j := indexes[a], indexes[b]
		if active[i].Relevancy != active[j].Relevancy {
			return active[i].Relevancy > active[j].Relevancy
		}
		return keys[i] < keys[j]
	})

	n := 3
	if len(indexes) < n {
		n = len(indexes)
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, active[indexes[i]].Text)
	}
	return out
}
