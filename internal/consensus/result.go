package consensus

import "math"

// ConsensusResult is the per-item outcome after reconciliation and scoring.
// AllPassStatuses keeps the raw votes in pass order for auditability.
type ConsensusResult struct {
	ItemID          string   `json:"item_id"`
	Desc            string   `json:"desc"`
	FinalStatus     Status   `json:"final_status"`
	FlagForReview   bool     `json:"flag_for_review"`
	AllPassStatuses []Status `json:"all_pass_statuses"`
	Rationale       string   `json:"rationale,omitempty"`
	Evidence        []string `json:"evidence,omitempty"`
	PointsEarned    float64  `json:"points_earned"`
	PointsPossible  float64  `json:"points_possible"`
}

// QuestionResult is the full grade for one question. Exactly one of Items
// or Error is populated; a caller can always render something.
type QuestionResult struct {
	QuestionNumber string            `json:"question_number"`
	QuestionType   string            `json:"question_type,omitempty"`
	StudentAnswer  string            `json:"student_answer"`
	Items          []ConsensusResult `json:"items,omitempty"`
	PointsEarned   float64           `json:"points_earned"`
	PointsPossible float64           `json:"points_possible"`
	Percentage     float64           `json:"percentage"`
	PassesUsed     int               `json:"passes_used"`
	FlagForReview  bool              `json:"flag_for_review"`
	Error          string            `json:"error,omitempty"`

	// Math-variant extras.
	Steps               []Step `json:"steps,omitempty"`
	FinalAnswerCorrect  *bool  `json:"final_answer_correct,omitempty"`
	FinalAnswerOverride bool   `json:"final_answer_override,omitempty"`
	Feedback            string `json:"feedback,omitempty"`
}

// BatchResult aggregates a whole grading request. Totals sum only over
// questions that produced a valid score.
type BatchResult struct {
	BatchID           string           `json:"batch_id"`
	Questions         []QuestionResult `json:"questions"`
	TotalQuestions    int              `json:"total_questions"`
	PointsEarned      float64          `json:"points_earned"`
	PointsPossible    float64          `json:"points_possible"`
	Percentage        float64          `json:"percentage"`
	FlaggedForReview  int              `json:"flagged_for_review"`
	PassesPerQuestion int              `json:"grading_passes_per_question"`
}

// errorResult is the inline error entry for a question that could not be
// graded; the batch carries on.
func errorResult(number, qtype, msg string) QuestionResult {
	return QuestionResult{
		QuestionNumber: number,
		QuestionType:   qtype,
		Error:          msg,
	}
}

// round2 is applied only when assembling output, never mid-computation.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// answerAuditLimit bounds how much of the student answer is echoed back
// in results for audit.
const answerAuditLimit = 200

func truncateAnswer(s string) string {
	r := []rune(s)
	if len(r) <= answerAuditLimit {
		return s
	}
	return string(r[:answerAuditLimit]) + "..."
}
