package main

import (
	"strings"

	"github.com/mysterygames/dialog-engine/pkg/dialog"
)

// buildRequest maps a typed utterance to an engine request. In production
// an assistant platform does intent matching; the console stands in with a
// phrase table plus the contexts and parameters carried over from the
// previous response. Confirmation contexts win over the table, the table
// wins over free-text contexts.
func (m *ConsoleUI) buildRequest(input string) dialog.Request {
	req := dialog.Request{
		SessionID: m.sessionID,
		Input:     input,
	}
	phrase := strings.ToLower(strings.TrimSpace(input))

	if action, params, ok := m.matchConfirmation(phrase); ok {
		req.Action = action
		req.Parameters = params
		return req
	}

	switch phrase {
	case "start new case", "new case", "start case":
		req.Action = "start-case"
	case "game introduction":
		req.Action = "game-introduction"
	case "how to play", "help":
		req.Action = "how-to-play"
	case "leave the game", "exit the game", "exit", "quit", "goodbye":
		req.Action = "exit"
	case "reset", "reset session", "start over":
		req.Action = "reset-session"
	case "case introduction":
		req.Action = "case-introduction"
	case "show clues", "clues", "list clues":
		req.Action = "list-clues"
	case "status", "where have i been":
		req.Action = "status"
	case "revisit", "investigate":
		req.Action = "lookup"
	case "finish", "finish the case", "solve the case":
		req.Action = "finish"
	case "repeat question", "repeat":
		req.Action = m.repeatAction()
	case "next question", "skip", "skip question", "i don't know":
		req.Action = "skip-question"
	case "continue", "welcome":
		req.Action = "welcome"
	default:
		return m.matchFreeText(req, phrase)
	}
	return req
}

// matchConfirmation resolves yes/no style replies against the confirmation
// contexts attached to the previous response.
func (m *ConsoleUI) matchConfirmation(phrase string) (string, map[string]string, bool) {
	contexts := m.lastContexts()
	yes := phrase == "yes" || phrase == "yes i am sure" || phrase == "sure"
	no := phrase == "no"

	switch {
	case contexts["answer-confirm"]:
		if yes {
			return "answer-confirm", m.lastResp.Parameters, true
		}
		if no {
			return "answer-reject", nil, true
		}

	case contexts["validate-answer-confirm"]:
		if yes {
			return "validate-answer-confirm", nil, true
		}
		if no {
			return "validate-answer-reject", nil, true
		}

	case contexts["start-case-confirmation"]:
		if yes {
			return "start-case-confirm", m.lastResp.Parameters, true
		}

	case contexts["finish-confirmation"]:
		if yes {
			return "finish-confirm", nil, true
		}
	}
	return "", nil, false
}

// matchFreeText handles utterances that are not canned phrases: selections
// prompted by the previous turn, simple navigation grammar, and finally the
// unknown-input fallback.
func (m *ConsoleUI) matchFreeText(req dialog.Request, phrase string) dialog.Request {
	contexts := m.lastContexts()

	switch {
	case contexts["case-selection"]:
		req.Action = "start-case-confirm"
		req.Parameters = map[string]string{"case": phrase}

	case contexts["location-selection"]:
		req.Action = "lookup"
		req.Parameters = map[string]string{"location": phrase}

	case contexts["question"]:
		req.Action = "answer"
		req.Parameters = map[string]string{"answer": phrase}

	default:
		if location, ok := strings.CutPrefix(phrase, "go to "); ok {
			req.Action = "navigate"
			req.Parameters = map[string]string{"location": location}
		} else if location, ok := strings.CutPrefix(phrase, "visit "); ok {
			req.Action = "navigate"
			req.Parameters = map[string]string{"location": location}
		} else if query, ok := strings.CutPrefix(phrase, "look up "); ok {
			req.Action = "lookup"
			req.Parameters = map[string]string{"query": query}
		} else {
			req.Action = "input.unknown"
		}
	}
	return req
}

// repeatAction picks the repeat flavor for the current quiz phase.
func (m *ConsoleUI) repeatAction() string {
	if m.lastContexts()["answer"] {
		return "finish-validate-repeat"
	}
	return "finish-answer-repeat"
}

func (m *ConsoleUI) lastContexts() map[string]bool {
	if m.lastResp == nil {
		return nil
	}
	contexts := make(map[string]bool, len(m.lastResp.OutContexts))
	for _, c := range m.lastResp.OutContexts {
		contexts[c.Name] = true
	}
	return contexts
}
