package session

import "time"

// LogThankYou is the story id of the terminal log entry pushed when a case
// is finished.
const LogThankYou = "thankyou"

// LogEntry is one append-only session-log record: a narrative event shown to
// the player, kept for replay and audit.
type LogEntry struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	StoryID   string    `json:"story_id"`
	ClueIDs   []string  `json:"clue_ids,omitempty"`
	HintID    string    `json:"hint_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
