package actions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mysterygames/dialog-engine/pkg/dialog"
	"github.com/mysterygames/dialog-engine/pkg/session"
)

func TestFinishRequiresConfirmation(t *testing.T) {
	e, store := newTestEngine(t)
	startTestCase(t, e, store, "s1")

	resp := handle(t, e, "s1", "finish", nil)

	assert.Contains(t, resp.OutContexts, dialog.Context{Name: "finish-confirmation", Lifespan: 1})
	assert.Equal(t, []string{"Yes"}, resp.Suggestions)
	assert.Equal(t, session.StateCaseStarted, getSession(t, store, "s1").State)
}

func TestFinishConfirmAsksFirstQuestion(t *testing.T) {
	e, store := newTestEngine(t)
	startTestCase(t, e, store, "s1")
	handle(t, e, "s1", "finish", nil)

	resp := handle(t, e, "s1", "finish-confirm", nil)

	assert.Equal(t, session.StateQuestions, getSession(t, store, "s1").State)
	assert.NotEmpty(t, resp.PrestoryText)
	assert.Contains(t, resp.StoryText, "Question 1 of 3")
	assert.Contains(t, resp.StoryText, "Who stole the mirror?")
	assert.Equal(t, []string{"The butler", "The maid"}, resp.Suggestions)
}

func TestAnswerAsksForConfirmation(t *testing.T) {
	e, store := newTestEngine(t)
	startTestCase(t, e, store, "s1")
	handle(t, e, "s1", "finish", nil)
	handle(t, e, "s1", "finish-confirm", nil)

	resp := handle(t, e, "s1", "answer", map[string]string{"answer": "The butler"})

	assert.Contains(t, resp.StoryText, `"The butler"`)
	assert.Equal(t, []string{"Yes"}, resp.Suggestions)
	assert.Equal(t, "The butler", resp.Parameters["answer"])
	assert.Contains(t, resp.OutContexts, dialog.Context{Name: "answer-confirm", Lifespan: 1})
	// nothing recorded until confirmed
	assert.Empty(t, getSession(t, store, "s1").Answers)
}

func TestAnswerConfirmRecordsAndAdvances(t *testing.T) {
	e, store := newTestEngine(t)
	startTestCase(t, e, store, "s1")
	handle(t, e, "s1", "finish", nil)
	handle(t, e, "s1", "finish-confirm", nil)
	handle(t, e, "s1", "answer", map[string]string{"answer": "The butler"})

	resp := handle(t, e, "s1", "answer-confirm", map[string]string{"answer": "The butler"})

	assert.Equal(t, []string{"The butler"}, getSession(t, store, "s1").Answers)
	assert.Contains(t, resp.StoryText, "Question 2 of 3")
}

func TestAnswerRejectReasks(t *testing.T) {
	e, store := newTestEngine(t)
	startTestCase(t, e, store, "s1")
	handle(t, e, "s1", "finish", nil)
	handle(t, e, "s1", "finish-confirm", nil)
	handle(t, e, "s1", "answer", map[string]string{"answer": "The maid"})

	resp := handle(t, e, "s1", "answer-reject", nil)

	assert.Empty(t, getSession(t, store, "s1").Answers)
	assert.Contains(t, resp.StoryText, "Question 1 of 3")
}

func TestSkipQuestionRecordsEmptyAnswer(t *testing.T) {
	e, store := newTestEngine(t)
	startTestCase(t, e, store, "s1")
	handle(t, e, "s1", "finish", nil)
	handle(t, e, "s1", "finish-confirm", nil)

	resp := handle(t, e, "s1", "skip-question", nil)

	assert.Equal(t, []string{""}, getSession(t, store, "s1").Answers)
	assert.Contains(t, resp.StoryText, "Question 2 of 3")
}

func TestLastAnswerRevealsSolution(t *testing.T) {
	e, store := newTestEngine(t)
	startTestCase(t, e, store, "s1")
	handle(t, e, "s1", "finish", nil)
	handle(t, e, "s1", "finish-confirm", nil)
	handle(t, e, "s1", "skip-question", nil)
	handle(t, e, "s1", "skip-question", nil)

	resp := handle(t, e, "s1", "skip-question", nil)

	sess := getSession(t, store, "s1")
	assert.Equal(t, session.StateAnswers, sess.State)
	assert.Equal(t, "The butler stole it.", resp.StoryText)
	assert.Equal(t, []string{"Continue"}, resp.Suggestions)
	// the first answer review is queued as a followup
	assert.Contains(t, sess.FollowupText, "Who stole the mirror?")

	log, err := store.SessionLog(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "finalSolution", log[len(log)-1].StoryID)
}

func TestWelcomeDeliversQueuedReview(t *testing.T) {
	e, store := newTestEngine(t)
	startTestCase(t, e, store, "s1")
	handle(t, e, "s1", "finish", nil)
	handle(t, e, "s1", "finish-confirm", nil)
	for i := 0; i < 3; i++ {
		handle(t, e, "s1", "skip-question", nil)
	}

	resp := handle(t, e, "s1", "welcome", nil)

	assert.Contains(t, resp.AfterstoryText, "Who stole the mirror?")
	assert.Equal(t, []string{"Yes", "No"}, resp.Suggestions)
	assert.Contains(t, resp.OutContexts, dialog.Context{Name: "validate-answer-confirm", Lifespan: 3})
	// the followup is one-shot
	assert.Empty(t, getSession(t, store, "s1").FollowupText)
}

func TestValidateAnswersScoring(t *testing.T) {
	e, store := newTestEngine(t)
	startTestCase(t, e, store, "s1")
	handle(t, e, "s1", "finish", nil)
	handle(t, e, "s1", "finish-confirm", nil)
	for i := 0; i < 3; i++ {
		handle(t, e, "s1", "skip-question", nil)
	}

	resp := handle(t, e, "s1", "validate-answer-confirm", nil)
	assert.Contains(t, resp.StoryText, "Why?")
	assert.Equal(t, []string{"Yes", "No"}, resp.Suggestions)

	resp = handle(t, e, "s1", "validate-answer-reject", nil)
	assert.Contains(t, resp.StoryText, "How?")

	resp = handle(t, e, "s1", "validate-answer-confirm", nil)

	sess := getSession(t, store, "s1")
	assert.Equal(t, session.StateFinish, sess.State)
	assert.Equal(t, []bool{true, false, true}, sess.AnswersResults)

	// scores 20 and 50 marked correct
	stats := e.stats(testCaseDataID, sess)
	assert.Equal(t, FinalStats{Score: 70, CorrectCount: 2, Total: 3}, stats)
	assert.Contains(t, resp.StoryText, "2 of 3")
	assert.Contains(t, resp.StoryText, "70 points")
	assert.NotEmpty(t, resp.AfterstoryText)

	log, err := store.SessionLog(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, session.LogThankYou, log[len(log)-1].StoryID)
}

func TestValidateRepeat(t *testing.T) {
	e, store := newTestEngine(t)
	startTestCase(t, e, store, "s1")
	handle(t, e, "s1", "finish", nil)
	handle(t, e, "s1", "finish-confirm", nil)
	handle(t, e, "s1", "answer", map[string]string{"answer": "The maid"})
	handle(t, e, "s1", "answer-confirm", map[string]string{"answer": "The maid"})
	handle(t, e, "s1", "skip-question", nil)
	handle(t, e, "s1", "skip-question", nil)

	resp := handle(t, e, "s1", "finish-validate-repeat", nil)

	assert.Contains(t, resp.StoryText, "Who stole the mirror?")
	assert.Contains(t, resp.StoryText, "The maid")
	assert.Equal(t, []string{"Yes", "No"}, resp.Suggestions)
}

func TestAnswerConfirmWithoutParameterReorients(t *testing.T) {
	e, store := newTestEngine(t)
	startTestCase(t, e, store, "s1")
	handle(t, e, "s1", "finish", nil)
	handle(t, e, "s1", "finish-confirm", nil)

	resp := handle(t, e, "s1", "answer-confirm", nil)

	assert.Empty(t, getSession(t, store, "s1").Answers)
	assert.Contains(t, resp.StoryText, "Question 1 of 3")
}

func TestFinishAfterSolutionRerendersIt(t *testing.T) {
	e, store := newTestEngine(t)
	startTestCase(t, e, store, "s1")
	handle(t, e, "s1", "finish", nil)
	handle(t, e, "s1", "finish-confirm", nil)
	for i := 0; i < 3; i++ {
		handle(t, e, "s1", "skip-question", nil)
	}
	require.Equal(t, session.StateAnswers, getSession(t, store, "s1").State)

	resp := handle(t, e, "s1", "finish", nil)

	assert.Equal(t, "The butler stole it.", resp.StoryText)
	// no answer was recorded by the detour
	assert.Len(t, getSession(t, store, "s1").AnswersResults, 0)
}

func TestWelcomeAfterFinishShowsScore(t *testing.T) {
	e, store := newTestEngine(t)
	startTestCase(t, e, store, "s1")
	handle(t, e, "s1", "finish", nil)
	handle(t, e, "s1", "finish-confirm", nil)
	for i := 0; i < 3; i++ {
		handle(t, e, "s1", "skip-question", nil)
	}
	for i := 0; i < 3; i++ {
		handle(t, e, "s1", "validate-answer-confirm", nil)
	}
	require.Equal(t, session.StateFinish, getSession(t, store, "s1").State)

	resp := handle(t, e, "s1", "welcome", nil)

	assert.Contains(t, resp.StoryText, "3 of 3")
	assert.Contains(t, resp.StoryText, "100 points")
	assert.Equal(t, stateSuggestions[session.StateFinish], resp.Suggestions)
}
