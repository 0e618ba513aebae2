package session

// State drives which actions are permitted for a session.
type State string

const (
	// StateNew is a fresh player without an active case.
	StateNew State = "NEW"
	// StateCaseStarted is the main state while a case is being played.
	StateCaseStarted State = "CASE_STARTED"
	// StateQuestions is the end-game phase where questions are asked one by one.
	StateQuestions State = "QUESTIONS"
	// StateAnswers is the end-game phase where the player confirms answer correctness.
	StateAnswers State = "ANSWERS"
	// StateFinish is the terminal state of a finished case.
	StateFinish State = "FINISH"
)

// ActiveSuggestion is a candidate canned-reply phrase with a decaying
// relevancy score.
type ActiveSuggestion struct {
	Text      string `json:"text"`
	Relevancy int    `json:"relevancy"`
}

// Session is one player's game session. It is treated as an immutable value:
// every mutation derives a new Session from the previous one. The backlog,
// clue and hint lists are append-only within a case playthrough and never
// contain duplicates.
type Session struct {
	ID                string             `json:"id"`
	State             State              `json:"state"`
	CaseID            string             `json:"case_id,omitempty"`
	LocationsBacklog  []string           `json:"locations_backlog,omitempty"`
	Clues             []string           `json:"clues,omitempty"`
	UsedHints         []string           `json:"used_hints,omitempty"`
	Answers           []string           `json:"answers,omitempty"`
	AnswersResults    []bool             `json:"answers_results,omitempty"`
	FollowupText      string             `json:"followup_text,omitempty"`
	ActiveSuggestions []ActiveSuggestion `json:"active_suggestions,omitempty"`
}

// New returns a fresh session in StateNew.
func New(id string) Session {
	return Session{ID: id, State: StateNew}
}

// StartCase returns a fresh session for the given case. All playthrough
// collections start empty.
func StartCase(id, caseID string) Session {
	return Session{ID: id, State: StateCaseStarted, CaseID: caseID}
}

func (s Session) clone() Session {
	out := s
	out.LocationsBacklog = append([]string(nil), s.LocationsBacklog...)
	out.Clues = append([]string(nil), s.Clues...)
	out.UsedHints = append([]string(nil), s.UsedHints...)
	out.Answers = append([]string(nil), s.Answers...)
	out.AnswersResults = append([]bool(nil), s.AnswersResults...)
	out.ActiveSuggestions = append([]ActiveSuggestion(nil), s.ActiveSuggestions...)
	return out
}

// WithState derives a session in the given state.
func (s Session) WithState(state State) Session {
	out := s.clone()
	out.State = state
	return out
}

// WithFollowup derives a session with the given followup text. An empty
// string clears it.
func (s Session) WithFollowup(text string) Session {
	out := s.clone()
	out.FollowupText = text
	return out
}

// WithActiveSuggestions derives a session with the given suggestion set.
func (s Session) WithActiveSuggestions(suggestions []ActiveSuggestion) Session {
	out := s.clone()
	out.ActiveSuggestions = append([]ActiveSuggestion(nil), suggestions...)
	return out
}

// AddLocation appends a visited location. Revisits are no-ops.
func (s Session) AddLocation(location string) Session {
	if s.HasVisited(location) {
		return s
	}
	out := s.clone()
	out.LocationsBacklog = append(out.LocationsBacklog, location)
	return out
}

// AddClue appends an unlocked clue id. Already-unlocked ids are no-ops.
func (s Session) AddClue(clueID string) Session {
	if s.HasClue(clueID) {
		return s
	}
	out := s.clone()
	out.Clues = append(out.Clues, clueID)
	return out
}

// AddUsedHint appends a triggered hint id. Already-used ids are no-ops.
func (s Session) AddUsedHint(hintID string) Session {
	if s.HasUsedHint(hintID) {
		return s
	}
	out := s.clone()
	out.UsedHints = append(out.UsedHints, hintID)
	return out
}

// AddAnswer appends a submitted answer. An empty string means the question
// was skipped.
func (s Session) AddAnswer(answer string) Session {
	out := s.clone()
	out.Answers = append(out.Answers, answer)
	return out
}

// AddAnswerResult appends a validated correctness result.
func (s Session) AddAnswerResult(correct bool) Session {
	out := s.clone()
	out.AnswersResults = append(out.AnswersResults, correct)
	return out
}

// HasVisited reports whether the location is in the backlog.
func (s Session) HasVisited(location string) bool {
	return contains(s.LocationsBacklog, location)
}

// HasClue reports whether the clue has been unlocked.
func (s Session) HasClue(clueID string) bool {
	return contains(s.Clues, clueID)
}

// HasUsedHint reports whether the hint has been triggered.
func (s Session) HasUsedHint(hintID string) bool {
	return contains(s.UsedHints, hintID)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
