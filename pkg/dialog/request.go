// Package dialog defines the request and response shapes of one turn:
// one player utterance in, one structured narrative response out. A protocol
// adapter upstream translates assistant-platform payloads into these shapes.
package dialog

// Request is one named action with parameters, scoped to a session.
type Request struct {
	SessionID  string            `json:"session_id"`
	Action     string            `json:"action"`
	Input      string            `json:"input,omitempty"`
	Parameters map[string]string `json:"parameters,omitempty"`

	// CaseDataID is resolved by the engine from the session's active case
	// before dispatch. Not part of the wire shape.
	CaseDataID string `json:"-"`
}

// Parameter returns the named parameter or "".
func (r *Request) Parameter(name string) string {
	if r.Parameters == nil {
		return ""
	}
	return r.Parameters[name]
}
