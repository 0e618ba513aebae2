package content

import (
	"sort"
	"strings"

	"github.com/mysterygames/dialog-engine/pkg/content"
)

// MemoryRepository is an in-memory Repository over loaded bundles. It is the
// runtime implementation (fed by LoadDir) and doubles as the test fixture.
type MemoryRepository struct {
	cases     []content.Case
	caseByID  map[string]content.Case
	stories   map[string]map[string]content.Story
	clues     map[string]map[string]content.Clue
	hints     map[string][]content.Hint
	questions map[string][]content.Question
	directory map[string][]content.DirectoryEntry
	locations map[string]map[string]string // caseDataID -> lowercased name -> location id
}

var _ Repository = (*MemoryRepository)(nil)

// NewMemoryRepository indexes the given bundles.
func NewMemoryRepository(bundles ...Bundle) *MemoryRepository {
	r := &MemoryRepository{
		caseByID:  make(map[string]content.Case),
		stories:   make(map[string]map[string]content.Story),
		clues:     make(map[string]map[string]content.Clue),
		hints:     make(map[string][]content.Hint),
		questions: make(map[string][]content.Question),
		directory: make(map[string][]content.DirectoryEntry),
		locations: make(map[string]map[string]string),
	}
	for _, b := range bundles {
		r.add(b)
	}
	return r
}

func (r *MemoryRepository) add(b Bundle) {
	dataID := b.Case.CaseDataID
	r.cases = append(r.cases, b.Case)
	r.caseByID[b.Case.ID] = b.Case

	stories := make(map[string]content.Story, len(b.Stories))
	locations := make(map[string]string)
	for _, s := range b.Stories {
		stories[s.ID] = s
		if s.Type == content.StoryLocation {
			locations[strings.ToLower(s.ID)] = s.ID
			locations[strings.ToLower(s.Title)] = s.ID
		}
	}
	r.stories[dataID] = stories

	clues := make(map[string]content.Clue, len(b.Clues))
	for _, c := range b.Clues {
		clues[c.ID] = c
	}
	r.clues[dataID] = clues

	r.hints[dataID] = append([]content.Hint(nil), b.Hints...)

	questions := append([]content.Question(nil), b.Questions...)
	sort.SliceStable(questions, func(i, j int) bool {
		return questions[i].Order < questions[j].Order
	})
	r.questions[dataID] = questions

	r.directory[dataID] = append([]content.DirectoryEntry(nil), b.Directory...)
	for _, d := range b.Directory {
		locations[strings.ToLower(d.Name)] = d.Location
	}
	r.locations[dataID] = locations
}

func (r *MemoryRepository) GetCase(caseID string) *content.Case {
	if c, ok := r.caseByID[caseID]; ok {
		return &c
	}
	return nil
}

func (r *MemoryRepository) EnabledCases() []content.Case {
	var out []content.Case
	for _, c := range r.cases {
		if c.Enabled {
			out = append(out, c)
		}
	}
	return out
}

func (r *MemoryRepository) CaseDataID(caseID string) string {
	if c := r.GetCase(caseID); c != nil {
		return c.CaseDataID
	}
	return ""
}

func (r *MemoryRepository) GetStory(caseDataID, id string) *content.Story {
	if s, ok := r.stories[caseDataID][id]; ok {
		return &s
	}
	return nil
}

func (r *MemoryRepository) GetClue(caseDataID, id string) *content.Clue {
	if c, ok := r.clues[caseDataID][id]; ok {
		return &c
	}
	return nil
}

func (r *MemoryRepository) HintsForCase(caseDataID string) []content.Hint {
	return r.hints[caseDataID]
}

func (r *MemoryRepository) GetQuestion(caseDataID string, index int) *content.Question {
	qs := r.questions[caseDataID]
	if index < 0 || index >= len(qs) {
		return nil
	}
	q := qs[index]
	return &q
}

func (r *MemoryRepository) QuestionCount(caseDataID string) int {
	return len(r.questions[caseDataID])
}

func (r *MemoryRepository) CheckLocation(caseDataID, name string) string {
	return r.locations[caseDataID][strings.ToLower(strings.TrimSpace(name))]
}

func (r *MemoryRepository) SearchDirectory(caseDataID, query string) []content.DirectoryEntry {
	var out []content.DirectoryEntry
	for _, d := range r.directory[caseDataID] {
		if matches(query, d.Name+" "+d.Keywords) {
			out = append(out, d)
		}
	}
	return out
}

func (r *MemoryRepository) SearchClues(caseDataID, query string, unlockedIDs []string) []content.Clue {
	var out []content.Clue
	for _, id := range unlockedIDs {
		c, ok := r.clues[caseDataID][id]
		if !ok {
			continue
		}
		if matches(query, c.Name+" "+c.Keywords) {
			out = append(out, c)
		}
	}
	return out
}

// matches reports whether every word of the query occurs in the candidate
// text, case-insensitively.
func matches(query, text string) bool {
	words := strings.Fields(strings.ToLower(query))
	if len(words) == 0 {
		return false
	}
	text = strings.ToLower(text)
	for _, w := range words {
		if !strings.Contains(text, w) {
			return false
		}
	}
	return true
}
