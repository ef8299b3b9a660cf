package consensus

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

func isBlank(s string) bool { return strings.TrimSpace(s) == "" }

const (
	DefaultPasses        = 3
	DefaultOracleTimeout = 60 * time.Second
	DefaultMaxParallel   = 3
)

type settings struct {
	passes      int
	timeout     time.Duration
	maxParallel int
}

// Option tunes an engine (pass count, oracle timeout, fan-out limit).
type Option func(*settings)

func WithPasses(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.passes = n
		}
	}
}

func WithOracleTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func WithMaxParallel(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.maxParallel = n
		}
	}
}

func newSettings(opts ...Option) settings {
	s := settings{
		passes:      DefaultPasses,
		timeout:     DefaultOracleTimeout,
		maxParallel: DefaultMaxParallel,
	}
	for _, o := range opts {
		o(&s)
	}
	return s
}

// Engine runs the multi-pass grading pipeline for one rubric at a time.
// It is stateless across calls and safe for concurrent use.
type Engine struct {
	oracle Oracle
	cfg    settings
}

func New(oracle Oracle, opts ...Option) *Engine {
	return &Engine{oracle: oracle, cfg: newSettings(opts...)}
}

// Passes reports the configured pass count.
func (e *Engine) Passes() int { return e.cfg.passes }

// QuestionMeta is the question context the engine needs beyond the rubric.
type QuestionMeta struct {
	Number    string
	Type      string
	MaxPoints float64
}

// GradeQuestion grades one submission against a rubric: N independent
// oracle passes, per-item reconciliation, then scoring. A blank answer
// short-circuits to all-absent without touching the oracle.
func (e *Engine) GradeQuestion(ctx context.Context, meta QuestionMeta, r Rubric, sub Submission) QuestionResult {
	if isBlank(sub.Answer) {
		return e.blankResult(meta, r)
	}
	passes := e.runPasses(ctx, r, sub)
	return e.assemble(meta, r, sub.Answer, passes)
}

// runPasses fans out N independent oracle calls. Passes never see each
// other's output; a failed or timed-out call is replaced by a neutral
// all-partial pass so the question still reconciles.
func (e *Engine) runPasses(ctx context.Context, r Rubric, sub Submission) []PassResult {
	passes := make([]PassResult, e.cfg.passes)
	var g errgroup.Group
	g.SetLimit(e.cfg.maxParallel)
	for i := range passes {
		i := i
		g.Go(func() error {
			cctx, cancel := context.WithTimeout(ctx, e.cfg.timeout)
			defer cancel()
			pr, err := e.oracle.Judge(cctx, r, sub)
			if err != nil {
				pr = NeutralPass(r, err)
			}
			passes[i] = pr
			return nil
		})
	}
	_ = g.Wait()
	return passes
}

func (e *Engine) assemble(meta QuestionMeta, r Rubric, answer string, passes []PassResult) QuestionResult {
	items := make([]ConsensusResult, 0, len(r.Items))
	earned, possible := 0.0, 0.0
	flagged := false
	last := passes[len(passes)-1]

	for _, it := range r.Items {
		votes := make([]Status, 0, len(passes))
		for _, pr := range passes {
			a, ok := pr[it.ID]
			if !ok {
				// Item missing from a malformed response: middle ordinal.
				votes = append(votes, StatusPartial)
				continue
			}
			votes = append(votes, NormalizeStatus(string(a.Status)))
		}
		c := Reconcile(votes)
		itemEarned, itemPossible := scoreItem(r, it, c.Status, meta.MaxPoints)
		earned += itemEarned
		possible += itemPossible
		flagged = flagged || c.FlagForReview

		cr := ConsensusResult{
			ItemID:          it.ID,
			Desc:            it.Desc,
			FinalStatus:     c.Status,
			FlagForReview:   c.FlagForReview,
			AllPassStatuses: votes,
			PointsEarned:    round2(itemEarned),
			PointsPossible:  round2(itemPossible),
		}
		// Rationale surfaced from the final pass; earlier passes keep only
		// their votes.
		if a, ok := last[it.ID]; ok {
			cr.Rationale = a.Rationale
			cr.Evidence = a.Evidence
		}
		items = append(items, cr)
	}

	return QuestionResult{
		QuestionNumber: meta.Number,
		QuestionType:   meta.Type,
		StudentAnswer:  truncateAnswer(answer),
		Items:          items,
		PointsEarned:   round2(earned),
		PointsPossible: round2(possible),
		Percentage:     round2(percentage(earned, possible)),
		PassesUsed:     e.cfg.passes,
		FlagForReview:  flagged,
	}
}

// blankResult is the deterministic short-circuit for empty answers: every
// item absent, zero passes used, nothing flagged.
func (e *Engine) blankResult(meta QuestionMeta, r Rubric) QuestionResult {
	items := make([]ConsensusResult, 0, len(r.Items))
	possible := 0.0
	for _, it := range r.Items {
		_, itemPossible := scoreItem(r, it, StatusAbsent, meta.MaxPoints)
		possible += itemPossible
		items = append(items, ConsensusResult{
			ItemID:         it.ID,
			Desc:           it.Desc,
			FinalStatus:    StatusAbsent,
			Rationale:      "no answer provided",
			PointsEarned:   0,
			PointsPossible: round2(itemPossible),
		})
	}
	return QuestionResult{
		QuestionNumber: meta.Number,
		QuestionType:   meta.Type,
		StudentAnswer:  "",
		Items:          items,
		PointsEarned:   0,
		PointsPossible: round2(possible),
		Percentage:     0,
		PassesUsed:     0,
	}
}
