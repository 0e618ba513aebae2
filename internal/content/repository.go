// Package content provides read-only access to authored case content.
// Bundles are loaded from a data directory at startup, one JSON file per
// case-data bundle.
package content

import (
	"github.com/mysterygames/dialog-engine/pkg/content"
)

// Repository is the engine's view of authored content. Lookups return nil
// when the referenced entity does not exist; authored content is allowed to
// have soft inconsistencies.
type Repository interface {
	// GetCase resolves playable-case metadata by case id.
	GetCase(caseID string) *content.Case

	// EnabledCases lists the playable cases in definition order.
	EnabledCases() []content.Case

	// CaseDataID resolves the content bundle id for a case, "" if unknown.
	CaseDataID(caseID string) string

	// GetStory resolves a story by id within a bundle.
	GetStory(caseDataID, id string) *content.Story

	// GetClue resolves a clue by id within a bundle.
	GetClue(caseDataID, id string) *content.Clue

	// HintsForCase returns all hints of a bundle in stable definition order.
	HintsForCase(caseDataID string) []content.Hint

	// GetQuestion returns the end-game question at the given 0-based index,
	// nil when out of range.
	GetQuestion(caseDataID string, index int) *content.Question

	// QuestionCount returns the number of end-game questions.
	QuestionCount(caseDataID string) int

	// CheckLocation resolves a player-supplied place name to a location
	// story id, "" when the name is not a known location.
	CheckLocation(caseDataID, name string) string

	// SearchDirectory finds directory entries matching a free-text query.
	SearchDirectory(caseDataID, query string) []content.DirectoryEntry

	// SearchClues finds clues matching a free-text query among the given
	// unlocked clue ids.
	SearchClues(caseDataID, query string, unlockedIDs []string) []content.Clue
}

// Bundle is one case-data content bundle as authored on disk.
type Bundle struct {
	Case      content.Case             `json:"case"`
	Stories   []content.Story          `json:"stories"`
	Clues     []content.Clue           `json:"clues"`
	Hints     []content.Hint           `json:"hints"`
	Questions []content.Question       `json:"questions"`
	Directory []content.DirectoryEntry `json:"directory"`
}
