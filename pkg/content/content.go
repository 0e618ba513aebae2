// Package content holds the read-only narrative entities of a mystery case:
// stories, clues, hints, end-game questions and the case metadata itself.
// Entities are grouped by a case-data bundle id.
package content

// Story types.
const (
	StorySimple   = "simple"
	StoryLocation = "location"
	StoryArticle  = "article"
)

// Well-known story ids present in every case bundle.
const (
	StoryCaseIntroduction = "caseIntroduction"
	StoryFinalSolution    = "finalSolution"
	StoryCaseStart        = "caseStartPrestory"
)

// Story is a narrative fragment. Location stories reference the clues that
// become discoverable when the location is first visited.
type Story struct {
	CaseDataID string   `json:"case_data_id"`
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Type       string   `json:"type"`
	Text       string   `json:"text"`
	Clues      []string `json:"clues,omitempty"`
	ImageURL   string   `json:"image_url,omitempty"`
	AudioURL   string   `json:"audio_url,omitempty"`
}

// Clue is a discoverable piece of evidence.
type Clue struct {
	CaseDataID  string `json:"case_data_id"`
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Keywords    string `json:"keywords,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

// Hint nudges the player toward unexplored leads. It triggers once, on
// arrival at a location, when every precondition location has been visited.
type Hint struct {
	CaseDataID   string   `json:"case_data_id"`
	ID           string   `json:"id"`
	Precondition []string `json:"precondition,omitempty"`
	Text         string   `json:"text"`
	Suggestions  []string `json:"suggestions,omitempty"`
}

// Question is one end-game question. The canonical answer is informational:
// correctness is the player's own call, not matched algorithmically.
type Question struct {
	CaseDataID      string   `json:"case_data_id"`
	Order           int      `json:"order"`
	Text            string   `json:"text"`
	Answer          string   `json:"answer"`
	Score           int      `json:"score"`
	PossibleAnswers []string `json:"possible_answers,omitempty"`
}

// Case is one playable mystery scenario referencing its content bundle.
type Case struct {
	ID               string   `json:"id"`
	CaseDataID       string   `json:"case_data_id"`
	Name             string   `json:"name"`
	AlternativeNames []string `json:"alternative_names,omitempty"`
	Category         string   `json:"category,omitempty"`
	Enabled          bool     `json:"enabled"`
	ImageURL         string   `json:"image_url,omitempty"`
}

// DirectoryEntry maps a searchable place name to a location story id. The
// lookup action matches player queries against the directory.
type DirectoryEntry struct {
	CaseDataID string `json:"case_data_id"`
	Name       string `json:"name"`
	Location   string `json:"location"`
	Keywords   string `json:"keywords,omitempty"`
}
