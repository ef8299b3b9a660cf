package consensus

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

// Question categories the consensus engine understands. Objective types
// (multiple choice, matching, ...) are graded deterministically elsewhere.
const (
	TypeOpenEnded       = "open_ended"
	TypeDefinition      = "definition"
	TypeShortAnswer     = "short_answer"
	TypeCompareContrast = "compare_contrast"
	TypeTable           = "table"
	TypeLabeling        = "labeling"
	TypeMath            = "math"
)

// defaultMaxPoints applies when the incoming record carries no point value.
const defaultMaxPoints = 10

// Question is the record shape handed over by the OCR collaborator: one
// entry per exam question, already reduced to text.
type Question struct {
	Number        string          `json:"question_number"`
	Type          string          `json:"question_type"`
	Text          string          `json:"question_text,omitempty"`
	ModelAnswer   string          `json:"model_answer,omitempty"`
	Keywords      []string        `json:"expected_keywords,omitempty"`
	Checklist     []ChecklistItem `json:"grading_table,omitempty"`
	Labels        []Label         `json:"labeling_items,omitempty"`
	CorrectAnswer string          `json:"correct_answer,omitempty"`
	Points        float64         `json:"points"`
}

// Label is one pointer on a diagram-labeling question.
type Label struct {
	ID      string `json:"label_id"`
	Pointer string `json:"pointer_description,omitempty"`
	Correct string `json:"correct_label"`
}

// BuildRubric turns a question record into a rubric of the right flavor.
// Weighted categories draw their criteria from the static tables and
// require a model answer; checklist categories come from the teacher's
// grading table or labeling items.
func BuildRubric(q Question, equalSplit bool) (Rubric, error) {
	switch q.Type {
	case TypeOpenEnded, TypeDefinition, TypeShortAnswer:
		set, ok := CriteriaFor(q.Type)
		if !ok {
			return Rubric{}, fmt.Errorf("no criteria table for category %q", q.Type)
		}
		if isBlank(q.ModelAnswer) {
			return Rubric{}, ErrMissingModelAnswer
		}
		return NewWeightedRubric(set)
	case TypeCompareContrast, TypeTable:
		return NewChecklistRubric(q.Checklist, q.Points, equalSplit)
	case TypeLabeling:
		if len(q.Labels) == 0 {
			return Rubric{}, ErrEmptyChecklist
		}
		items := make([]ChecklistItem, 0, len(q.Labels))
		for _, l := range q.Labels {
			desc := "label " + l.ID
			if l.Pointer != "" {
				desc += " (" + l.Pointer + ")"
			}
			items = append(items, ChecklistItem{Text: desc + ": expected " + l.Correct})
		}
		// Labels always split the question total evenly.
		rub, err := NewChecklistRubric(items, q.Points, true)
		if err != nil {
			return Rubric{}, err
		}
		for i := range rub.Items {
			rub.Items[i].ID = "label_" + q.Labels[i].ID
		}
		return rub, nil
	default:
		return Rubric{}, fmt.Errorf("question type %q is not handled by the consensus engine", q.Type)
	}
}

// Batch grades a list of questions independently and aggregates totals.
// A hard failure on one question becomes an inline error entry; the rest
// of the batch is unaffected.
type Batch struct {
	Engine      *Engine
	Math        *MathEngine
	EqualSplit  bool
	MaxParallel int
}

func (b *Batch) Grade(ctx context.Context, questions []Question, answers map[string]string) BatchResult {
	results := make([]QuestionResult, len(questions))
	limit := b.MaxParallel
	if limit <= 0 {
		limit = 4
	}
	sem := semaphore.NewWeighted(int64(limit))
	var wg sync.WaitGroup
	for i, q := range questions {
		if err := sem.Acquire(ctx, 1); err != nil {
			results[i] = errorResult(q.Number, q.Type, fmt.Sprintf("grading cancelled: %v", err))
			continue
		}
		wg.Add(1)
		go func(i int, q Question) {
			defer wg.Done()
			defer sem.Release(1)
			results[i] = b.gradeOne(ctx, q, answers[q.Number])
		}(i, q)
	}
	wg.Wait()

	out := BatchResult{
		BatchID:           uuid.NewString(),
		Questions:         results,
		TotalQuestions:    len(results),
		PassesPerQuestion: b.Engine.Passes(),
	}
	earned, possible := 0.0, 0.0
	for _, r := range results {
		if r.Error != "" {
			continue
		}
		earned += r.PointsEarned
		possible += r.PointsPossible
		if r.FlagForReview {
			out.FlaggedForReview++
		}
	}
	out.PointsEarned = round2(earned)
	out.PointsPossible = round2(possible)
	out.Percentage = round2(percentage(earned, possible))
	return out
}

// GradeOne grades a single question outside of a batch.
func (b *Batch) GradeOne(ctx context.Context, q Question, answer string) QuestionResult {
	return b.gradeOne(ctx, q, answer)
}

func (b *Batch) gradeOne(ctx context.Context, q Question, answer string) QuestionResult {
	points := q.Points
	if points <= 0 {
		points = defaultMaxPoints
	}
	if q.Type == TypeMath {
		if b.Math == nil {
			return errorResult(q.Number, q.Type, "math grading not configured")
		}
		return b.Math.GradeProblem(ctx, Problem{
			Number:        q.Number,
			Text:          q.Text,
			CorrectAnswer: q.CorrectAnswer,
			MaxPoints:     points,
		}, answer)
	}
	q.Points = points
	rub, err := BuildRubric(q, b.EqualSplit)
	if err != nil {
		return errorResult(q.Number, q.Type, err.Error())
	}
	meta := QuestionMeta{Number: q.Number, Type: q.Type, MaxPoints: points}
	sub := Submission{
		QuestionText: q.Text,
		ModelAnswer:  q.ModelAnswer,
		Keywords:     q.Keywords,
		Answer:       answer,
	}
	return b.Engine.GradeQuestion(ctx, meta, rub, sub)
}
