package dialog

import "github.com/mysterygames/dialog-engine/pkg/content"

// Context is a conversation-context marker attached to a response. A
// downstream protocol adapter uses these to restrict which follow-up
// actions are valid next.
type Context struct {
	Name     string `json:"name"`
	Lifespan int    `json:"lifespan"`
}

// Response is the structured result of one turn. Handlers fill it in
// progressively; the dispatcher annotates it and the suggestion ranker adds
// canned replies before it is returned.
type Response struct {
	PrestoryText    string            `json:"prestory_text,omitempty"`
	StoryText       string            `json:"story_text"`
	AfterstoryText  string            `json:"afterstory_text,omitempty"`
	StoryID         string            `json:"story_id,omitempty"`
	ImageURL        string            `json:"image_url,omitempty"`
	Suggestions     []string          `json:"suggestions,omitempty"`
	Clues           []content.Clue    `json:"clues,omitempty"`
	Hint            *content.Hint     `json:"hint,omitempty"`
	OutContexts     []Context         `json:"out_contexts,omitempty"`
	Parameters      map[string]string `json:"parameters,omitempty"`
	EndConversation bool              `json:"end_conversation,omitempty"`

	// Error is set only on transport-level failures, never by handlers.
	Error string `json:"error,omitempty"`
}

// SetStory fills the response from a narrative story asset.
func (r *Response) SetStory(story *content.Story) {
	r.StoryID = story.ID
	r.StoryText = story.Text
	if story.ImageURL != "" && r.ImageURL == "" {
		r.ImageURL = story.ImageURL
	}
}

// AddClue attaches a newly revealed clue.
func (r *Response) AddClue(clue content.Clue) {
	r.Clues = append(r.Clues, clue)
	if clue.ImageURL != "" && r.ImageURL == "" {
		r.ImageURL = clue.ImageURL
	}
}

// SetHint attaches the hint triggered this turn.
func (r *Response) SetHint(hint *content.Hint) {
	r.Hint = hint
}

// Suggest replaces the response suggestions.
func (r *Response) Suggest(suggestions ...string) {
	r.Suggestions = append([]string(nil), suggestions...)
}

// AddSuggestion appends one suggestion.
func (r *Response) AddSuggestion(suggestion string) {
	r.Suggestions = append(r.Suggestions, suggestion)
}

// HasSuggestions reports whether the handler already supplied suggestions.
func (r *Response) HasSuggestions() bool {
	return len(r.Suggestions) > 0
}

// ConfirmSuggestions offers a plain confirmation reply.
func (r *Response) ConfirmSuggestions() {
	r.Suggest("Yes")
}

// ConfirmRejectSuggestions offers confirm/reject replies for answer
// validation.
func (r *Response) ConfirmRejectSuggestions() {
	r.Suggest("Yes", "No")
}

// ContinueSuggestions offers a continue reply.
func (r *Response) ContinueSuggestions() {
	r.Suggest("Continue")
}

// AddOutContext attaches a conversation-context marker.
func (r *Response) AddOutContext(name string, lifespan int) {
	r.OutContexts = append(r.OutContexts, Context{Name: name, Lifespan: lifespan})
}

// AddParameter attaches a parameter to carry into the next turn.
func (r *Response) AddParameter(name, value string) {
	if r.Parameters == nil {
		r.Parameters = make(map[string]string)
	}
	r.Parameters[name] = value
}

// ClueIDs returns the ids of the clues attached to this response.
func (r *Response) ClueIDs() []string {
	ids := make([]string, 0, len(r.Clues))
	for _, c := range r.Clues {
		ids = append(ids, c.ID)
	}
	return ids
}
