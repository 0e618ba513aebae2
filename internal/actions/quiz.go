package actions

import (
	"context"
	"fmt"

	"github.com/mysterygames/dialog-engine/pkg/content"
	"github.com/mysterygames/dialog-engine/pkg/dialog"
	"github.com/mysterygames/dialog-engine/pkg/session"
)

const answerParameter = "answer"

// FinalStats is the end-of-case score summary.
type FinalStats struct {
	Score        int `json:"score"`
	CorrectCount int `json:"correct_count"`
	Total        int `json:"total"`
}

// stats sums the scores of the questions the player marked correct.
func (e *Engine) stats(caseDataID string, sess session.Session) FinalStats {
	stats := FinalStats{Total: e.repo.QuestionCount(caseDataID)}
	for i, correct := range sess.AnswersResults {
		if !correct {
			continue
		}
		q := e.repo.GetQuestion(caseDataID, i)
		if q == nil {
			continue
		}
		stats.CorrectCount++
		stats.Score += q.Score
	}
	return stats
}

// finish asks the player to confirm ending the investigation. Once the
// solution has been revealed it re-renders it instead.
func (e *Engine) finish(ctx context.Context, turn *Turn, req *dialog.Request, resp *dialog.Response) error {
	switch turn.Current().State {
	case session.StateCaseStarted:
		if err := e.message(resp, "finishConfirm", nil); err != nil {
			return err
		}
		resp.ConfirmSuggestions()
		resp.AddOutContext("finish-confirmation", 1)
		return nil
	case session.StateAnswers, session.StateFinish:
		return e.finalSolution(ctx, turn, req, resp)
	}
	return e.quizWelcome(ctx, turn, req, resp)
}

// finishConfirm begins the end-game questions. A confirmation arriving while
// the quiz is already underway re-asks the pending question instead.
func (e *Engine) finishConfirm(ctx context.Context, turn *Turn, req *dialog.Request, resp *dialog.Response) error {
	switch turn.Current().State {
	case session.StateCaseStarted:
		turn.SetState(session.StateQuestions)
	case session.StateQuestions:
		// already underway, re-ask the pending question
	default:
		return e.quizWelcome(ctx, turn, req, resp)
	}
	return e.askQuestion(turn, req, resp, len(turn.Current().Answers))
}

// askQuestion reads the question at the given index. The first question
// carries an introductory prestory.
func (e *Engine) askQuestion(turn *Turn, req *dialog.Request, resp *dialog.Response, index int) error {
	total := e.repo.QuestionCount(req.CaseDataID)
	q := e.repo.GetQuestion(req.CaseDataID, index)
	if q == nil {
		e.logger.Error("Question out of range", "case_data_id", req.CaseDataID, "index", index, "total", total)
		e.errorResponse(resp)
		return nil
	}
	if index == 0 {
		prestory, err := e.renderer.Render("finishQuestionFirstPrompt", nil)
		if err != nil {
			return err
		}
		resp.PrestoryText = prestory
	}
	if err := e.message(resp, "finishQuestion", map[string]any{
		"index":    index,
		"total":    total,
		"question": q,
	}); err != nil {
		return err
	}
	resp.Suggest(q.PossibleAnswers...)
	return nil
}

// answer takes the player's answer to the pending question and asks for
// confirmation before recording it.
func (e *Engine) answer(ctx context.Context, turn *Turn, req *dialog.Request, resp *dialog.Response) error {
	answer := req.Parameter(answerParameter)
	if answer == "" {
		answer = req.Input
	}
	idx := len(turn.Current().Answers)
	q := e.repo.GetQuestion(req.CaseDataID, idx)
	if q == nil {
		return e.quizWelcome(ctx, turn, req, resp)
	}
	if err := e.message(resp, "finishAnswerConfirm", map[string]any{
		"question": q,
		"answer":   answer,
	}); err != nil {
		return err
	}
	resp.ConfirmSuggestions()
	resp.AddParameter(answerParameter, answer)
	resp.AddOutContext("answer-confirm", 1)
	return nil
}

// answerConfirm records the answer carried over from the previous turn.
func (e *Engine) answerConfirm(ctx context.Context, turn *Turn, req *dialog.Request, resp *dialog.Response) error {
	answer, ok := req.Parameters[answerParameter]
	if !ok {
		e.logger.Error("Answer confirmation without answer parameter", "session_id", turn.Current().ID)
		return e.quizWelcome(ctx, turn, req, resp)
	}
	return e.doAddAnswer(ctx, turn, req, resp, answer)
}

// answerReject discards the unconfirmed answer and re-asks the question.
func (e *Engine) answerReject(ctx context.Context, turn *Turn, req *dialog.Request, resp *dialog.Response) error {
	prestory, err := e.renderer.Render("answerReject", nil)
	if err != nil {
		return err
	}
	if err := e.askQuestion(turn, req, resp, len(turn.Current().Answers)); err != nil {
		return err
	}
	resp.PrestoryText = prestory
	return nil
}

// skipQuestion records an empty answer for the pending question.
func (e *Engine) skipQuestion(ctx context.Context, turn *Turn, req *dialog.Request, resp *dialog.Response) error {
	return e.doAddAnswer(ctx, turn, req, resp, "")
}

// answerRepeat re-asks the pending question.
func (e *Engine) answerRepeat(ctx context.Context, turn *Turn, req *dialog.Request, resp *dialog.Response) error {
	idx := len(turn.Current().Answers)
	if idx >= e.repo.QuestionCount(req.CaseDataID) {
		return e.quizWelcome(ctx, turn, req, resp)
	}
	return e.askQuestion(turn, req, resp, idx)
}

// doAddAnswer records an answer and either asks the next question or, after
// the last one, moves to the solution and answer review.
func (e *Engine) doAddAnswer(ctx context.Context, turn *Turn, req *dialog.Request, resp *dialog.Response, answer string) error {
	idx := len(turn.Current().Answers)
	total := e.repo.QuestionCount(req.CaseDataID)
	if idx >= total {
		e.logger.Error("Answer received past the last question", "session_id", turn.Current().ID, "index", idx, "total", total)
		return e.quizWelcome(ctx, turn, req, resp)
	}
	turn.AddAnswer(answer)
	if idx+1 < total {
		return e.askQuestion(turn, req, resp, idx+1)
	}
	return e.doFinalSolution(ctx, turn, req, resp)
}

// doFinalSolution reveals the solution and opens the answer review.
func (e *Engine) doFinalSolution(ctx context.Context, turn *Turn, req *dialog.Request, resp *dialog.Response) error {
	turn.SetState(session.StateAnswers)

	prestory, err := e.renderer.Render("finishPresolution", nil)
	if err != nil {
		return err
	}
	story := e.repo.GetStory(req.CaseDataID, content.StoryFinalSolution)
	if story == nil {
		return fmt.Errorf("no final solution story in case data %q", req.CaseDataID)
	}
	resp.SetStory(story)
	resp.PrestoryText = prestory

	// queue the first answer review for the next turn
	q := e.repo.GetQuestion(req.CaseDataID, 0)
	if q != nil {
		after, err := e.renderer.Render("finishAftersolution", map[string]any{
			"question": q,
			"answer":   answerAt(turn.Current(), 0),
		})
		if err != nil {
			return err
		}
		turn.SetFollowup(after)
	}
	resp.ContinueSuggestions()
	turn.PushLog(ctx, story.ID, nil, "")
	return nil
}

// validateAnswerConfirm marks the answer under review correct.
func (e *Engine) validateAnswerConfirm(ctx context.Context, turn *Turn, req *dialog.Request, resp *dialog.Response) error {
	return e.validateAnswer(ctx, turn, req, resp, true)
}

// validateAnswerReject marks the answer under review wrong.
func (e *Engine) validateAnswerReject(ctx context.Context, turn *Turn, req *dialog.Request, resp *dialog.Response) error {
	return e.validateAnswer(ctx, turn, req, resp, false)
}

// validateAnswer records the player's own verdict on the answer under
// review, then moves on to the next review or closes the case.
func (e *Engine) validateAnswer(ctx context.Context, turn *Turn, req *dialog.Request, resp *dialog.Response, correct bool) error {
	sess := turn.Current()
	idx := len(sess.AnswersResults)
	total := e.repo.QuestionCount(req.CaseDataID)
	if idx >= total {
		e.logger.Error("Answer validation past the last question", "session_id", sess.ID, "index", idx, "total", total)
		return e.quizWelcome(ctx, turn, req, resp)
	}
	turn.AddAnswerResult(correct)

	if idx+1 == total {
		turn.SetState(session.StateFinish)
		stats := e.stats(req.CaseDataID, turn.Current())
		if err := e.message(resp, "validateAnswerFinal", map[string]any{
			"correct": correct,
			"stats":   stats,
		}); err != nil {
			return err
		}
		after, err := e.renderer.Render("validateAnswerFinalAfter", nil)
		if err != nil {
			return err
		}
		resp.AfterstoryText = after
		resp.AddOutContext("validate-answer-confirm", 0)
		turn.PushFinalLog(ctx)
		return nil
	}

	next := e.repo.GetQuestion(req.CaseDataID, idx+1)
	if next == nil {
		e.logger.Error("Next question missing during answer review", "case_data_id", req.CaseDataID, "index", idx+1)
		return e.quizWelcome(ctx, turn, req, resp)
	}
	if err := e.message(resp, "validateAnswerNext", map[string]any{
		"correct":      correct,
		"nextQuestion": next,
		"answer":       answerAt(turn.Current(), idx+1),
	}); err != nil {
		return err
	}
	resp.ConfirmRejectSuggestions()
	resp.AddOutContext("validate-answer-confirm", 3)
	return nil
}

// validateRepeat re-reads the answer under review.
func (e *Engine) validateRepeat(ctx context.Context, turn *Turn, req *dialog.Request, resp *dialog.Response) error {
	sess := turn.Current()
	idx := len(sess.AnswersResults)
	if idx >= e.repo.QuestionCount(req.CaseDataID) {
		return e.quizWelcome(ctx, turn, req, resp)
	}
	q := e.repo.GetQuestion(req.CaseDataID, idx)
	if q == nil {
		return e.quizWelcome(ctx, turn, req, resp)
	}
	if err := e.message(resp, "validateAnswerRepeat", map[string]any{
		"question": q,
		"answer":   answerAt(sess, idx),
	}); err != nil {
		return err
	}
	resp.ConfirmRejectSuggestions()
	resp.AddOutContext("validate-answer-confirm", 3)
	return nil
}

// quizWelcome reorients a player who lost the thread of the quiz, resuming
// at the pending question or the pending answer review.
func (e *Engine) quizWelcome(ctx context.Context, turn *Turn, req *dialog.Request, resp *dialog.Response) error {
	sess := turn.Current()
	switch sess.State {
	case session.StateQuestions:
		prestory, err := e.renderer.Render("welcomeQuestions", nil)
		if err != nil {
			return err
		}
		if err := e.askQuestion(turn, req, resp, len(sess.Answers)); err != nil {
			return err
		}
		resp.PrestoryText = prestory
		return nil
	case session.StateAnswers:
		idx := len(sess.AnswersResults)
		q := e.repo.GetQuestion(req.CaseDataID, idx)
		if q == nil {
			e.logger.Error("Pending review question missing", "case_data_id", req.CaseDataID, "index", idx)
			e.errorResponse(resp)
			return nil
		}
		if err := e.message(resp, "welcomeAnswers", map[string]any{
			"question": q,
			"answer":   answerAt(sess, idx),
		}); err != nil {
			return err
		}
		resp.ConfirmRejectSuggestions()
		resp.AddOutContext("validate-answer-confirm", 3)
		return nil
	}
	return e.welcome(ctx, turn, req, resp)
}

// answerAt returns the recorded answer at idx, tolerating short slices from
// older sessions.
func answerAt(sess session.Session, idx int) string {
	if idx < 0 || idx >= len(sess.Answers) {
		return ""
	}
	return sess.Answers[idx]
}
