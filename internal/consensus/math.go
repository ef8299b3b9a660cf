package consensus

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Step is one expected computational step of a math problem, produced by a
// single decomposition call before grading starts.
type Step struct {
	Number     int    `json:"step"`
	Operation  string `json:"operation"`
	Expression string `json:"expression"`
}

// StepItemID names the rubric item a step grades under.
func StepItemID(n int) string { return fmt.Sprintf("step_%d", n) }

// Problem is a math question with a known-correct final answer.
type Problem struct {
	Number        string
	Text          string
	CorrectAnswer string
	MaxPoints     float64
}

// StepVerdicts is one judging pass over the student's shown work: a verdict
// per expected step plus whether the final numeric answer matched.
type StepVerdicts struct {
	Steps              PassResult
	FinalAnswerCorrect bool
}

// StepDecomposer breaks a problem into ordered computational steps.
// Called once per question, before the multi-pass pipeline.
type StepDecomposer interface {
	Decompose(ctx context.Context, problem, correctAnswer string) ([]Step, error)
}

// WorkJudge grades shown work against the expected steps. Like Oracle it is
// non-deterministic and called once per pass.
type WorkJudge interface {
	JudgeWork(ctx context.Context, p Problem, steps []Step, studentWork string) (StepVerdicts, error)
}

// MathEngine is the step-decomposition variant of the grading pipeline.
// Each decomposed step becomes a checklist rubric item with an equal point
// share and is graded by the standard N-pass consensus.
type MathEngine struct {
	decomp StepDecomposer
	judge  WorkJudge
	cfg    settings
}

func NewMath(decomp StepDecomposer, judge WorkJudge, opts ...Option) *MathEngine {
	return &MathEngine{decomp: decomp, judge: judge, cfg: newSettings(opts...)}
}

// Passes reports the configured pass count.
func (m *MathEngine) Passes() int { return m.cfg.passes }

// GradeProblem grades a student's shown work for one math problem.
//
// Final-answer override policy: the judge is asked on every pass whether the
// student's final numeric answer matches the known-correct one. If a majority
// of passes say yes, the last step's consensus is forced to present even when
// step-level reconciliation said otherwise — arriving at the correct answer
// means the closing computation was performed. The override is recorded on
// the result, never applied silently.
func (m *MathEngine) GradeProblem(ctx context.Context, p Problem, studentWork string) QuestionResult {
	if p.Text == "" {
		return errorResult(p.Number, "math", "no problem text provided")
	}
	if p.CorrectAnswer == "" {
		return errorResult(p.Number, "math", "no correct answer provided")
	}
	if isBlank(studentWork) {
		correct := false
		return QuestionResult{
			QuestionNumber:     p.Number,
			QuestionType:       "math",
			StudentAnswer:      "",
			PointsEarned:       0,
			PointsPossible:     round2(p.MaxPoints),
			Percentage:         0,
			PassesUsed:         0,
			FinalAnswerCorrect: &correct,
		}
	}

	dctx, cancel := context.WithTimeout(ctx, m.cfg.timeout)
	steps, err := m.decomp.Decompose(dctx, p.Text, p.CorrectAnswer)
	cancel()
	if err != nil {
		return errorResult(p.Number, "math", fmt.Sprintf("step decomposition failed: %v", err))
	}
	if len(steps) == 0 {
		return errorResult(p.Number, "math", "could not decompose problem into steps")
	}

	rub := stepsRubric(steps, p.MaxPoints)
	verdicts := m.runPasses(ctx, p, steps, rub, studentWork)
	return m.assemble(p, steps, rub, studentWork, verdicts)
}

// stepsRubric spreads the problem's points evenly across the decomposed
// steps (checklist flavor).
func stepsRubric(steps []Step, maxPoints float64) Rubric {
	share := maxPoints / float64(len(steps))
	items := make([]Item, 0, len(steps))
	for _, s := range steps {
		items = append(items, Item{
			ID:     StepItemID(s.Number),
			Desc:   fmt.Sprintf("%s: %s", s.Operation, s.Expression),
			Points: share,
		})
	}
	return Rubric{Flavor: FlavorChecklist, Items: items}
}

func (m *MathEngine) runPasses(ctx context.Context, p Problem, steps []Step, rub Rubric, work string) []StepVerdicts {
	verdicts := make([]StepVerdicts, m.cfg.passes)
	var g errgroup.Group
	g.SetLimit(m.cfg.maxParallel)
	for i := range verdicts {
		i := i
		g.Go(func() error {
			cctx, cancel := context.WithTimeout(ctx, m.cfg.timeout)
			defer cancel()
			v, err := m.judge.JudgeWork(cctx, p, steps, work)
			if err != nil {
				v = StepVerdicts{Steps: NeutralPass(rub, err)}
			}
			verdicts[i] = v
			return nil
		})
	}
	_ = g.Wait()
	return verdicts
}

func (m *MathEngine) assemble(p Problem, steps []Step, rub Rubric, work string, verdicts []StepVerdicts) QuestionResult {
	items := make([]ConsensusResult, 0, len(rub.Items))
	flagged := false
	finalVotes := make([]bool, 0, len(verdicts))
	for _, v := range verdicts {
		finalVotes = append(finalVotes, v.FinalAnswerCorrect)
	}
	finalCorrect := MajorityTrue(finalVotes)
	last := verdicts[len(verdicts)-1].Steps

	for _, it := range rub.Items {
		votes := make([]Status, 0, len(verdicts))
		for _, v := range verdicts {
			a, ok := v.Steps[it.ID]
			if !ok {
				votes = append(votes, StatusPartial)
				continue
			}
			votes = append(votes, NormalizeStatus(string(a.Status)))
		}
		c := Reconcile(votes)
		flagged = flagged || c.FlagForReview

		cr := ConsensusResult{
			ItemID:          it.ID,
			Desc:            it.Desc,
			FinalStatus:     c.Status,
			FlagForReview:   c.FlagForReview,
			AllPassStatuses: votes,
		}
		if a, ok := last[it.ID]; ok {
			cr.Rationale = a.Rationale
		}
		items = append(items, cr)
	}

	// Final-answer override: a correct final answer forces the last step to
	// full credit.
	override := false
	if finalCorrect && len(items) > 0 {
		lastIdx := len(items) - 1
		if items[lastIdx].FinalStatus != StatusPresent {
			items[lastIdx].FinalStatus = StatusPresent
			items[lastIdx].Rationale = "final answer matches; closing step credited by majority vote"
			override = true
		}
	}

	earned, possible := 0.0, 0.0
	for i, it := range rub.Items {
		itemEarned, itemPossible := scoreItem(rub, it, items[i].FinalStatus, p.MaxPoints)
		items[i].PointsEarned = round2(itemEarned)
		items[i].PointsPossible = round2(itemPossible)
		earned += itemEarned
		possible += itemPossible
	}

	return QuestionResult{
		QuestionNumber:      p.Number,
		QuestionType:        "math",
		StudentAnswer:       truncateAnswer(work),
		Items:               items,
		PointsEarned:        round2(earned),
		PointsPossible:      round2(possible),
		Percentage:          round2(percentage(earned, possible)),
		PassesUsed:          m.cfg.passes,
		FlagForReview:       flagged,
		Steps:               steps,
		FinalAnswerCorrect:  &finalCorrect,
		FinalAnswerOverride: override,
		Feedback:            stepFeedback(items, steps, finalCorrect, p.CorrectAnswer),
	}
}

// stepFeedback describes the first problematic step, or the final-answer
// mismatch when every step checked out.
func stepFeedback(items []ConsensusResult, steps []Step, finalCorrect bool, correctAnswer string) string {
	for i, cr := range items {
		switch cr.FinalStatus {
		case StatusPartial:
			return fmt.Sprintf("Step %d (%s): %s", steps[i].Number, steps[i].Operation, cr.Rationale)
		case StatusAbsent:
			return fmt.Sprintf("Step %d (%s) not shown: %s", steps[i].Number, steps[i].Operation, steps[i].Expression)
		}
	}
	if !finalCorrect {
		return fmt.Sprintf("Work is correct but final answer should be %s", correctAnswer)
	}
	return ""
}
