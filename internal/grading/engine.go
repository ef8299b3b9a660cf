package grading

import (
	"context"
	"errors"
	"fmt"
)

// Objective question types graded deterministically, without an oracle.
const (
	TypeMultipleChoice = "multiple_choice"
	TypeTrueFalse      = "true_false"
	TypeMultiSelect    = "multi_select"
	TypeMatching       = "matching"
	TypeOrdering       = "ordering"
	TypeFillInBlank    = "fill_in_blank"
	TypeShortWord      = "short_word"
	TypeNumeric        = "numeric"
)

// Q is the view of a question needed for objective grading.
type Q struct {
	Number    string
	Type      string
	Points    float64
	AnswerKey []string          // accepted answers (mcq, true/false, blanks, short word)
	Pairs     map[string]string // matching: item -> expected match
	Order     []string          // ordering: the correct sequence
}

// Result is the outcome of grading a single question response.
type Result struct {
	Number       string   `json:"question_number"`
	AutoPoints   float64  `json:"points_earned"`
	MaxPoints    float64  `json:"points_possible"`
	CorrectUnits int      `json:"correct_units"` // blanks, pairs, positions
	TotalUnits   int      `json:"total_units"`
	NeedsManual  bool     `json:"needs_manual,omitempty"`
	Feedback     []string `json:"feedback,omitempty"`
}

// Strategy grades a single question.
type Strategy interface {
	Grade(ctx context.Context, q Q, response interface{}) (Result, error)
}

// Grader routes by question type to the correct Strategy.
type Grader interface {
	Grade(ctx context.Context, q Q, response interface{}) (Result, error)
}

type defaultGrader struct {
	strategies map[string]Strategy
}

func (g *defaultGrader) Grade(ctx context.Context, q Q, response interface{}) (Result, error) {
	s, ok := g.strategies[q.Type]
	if !ok {
		return Result{
			Number:      q.Number,
			MaxPoints:   q.Points,
			NeedsManual: true,
			Feedback:    []string{fmt.Sprintf("type %q has no objective strategy", q.Type)},
		}, nil
	}
	res, err := s.Grade(ctx, q, response)
	res.Number = q.Number
	return res, err
}

// Engine options

type Option func(*config)

type config struct {
	MaxEditDistance   int  // for short-word fuzzy
	AllowPartialMulti bool // partial credit for multi_select without false positives
}

func WithMaxEditDistance(n int) Option { return func(c *config) { c.MaxEditDistance = n } }
func WithPartialMulti(b bool) Option   { return func(c *config) { c.AllowPartialMulti = b } }

// NewDefaultGrader installs built-in strategies.
func NewDefaultGrader(opts ...Option) Grader {
	cfg := &config{
		MaxEditDistance:   1,
		AllowPartialMulti: true,
	}
	for _, o := range opts {
		o(cfg)
	}
	return &defaultGrader{
		strategies: map[string]Strategy{
			TypeMultipleChoice: singleAnswerStrategy{},
			TypeTrueFalse:      singleAnswerStrategy{},
			TypeMultiSelect:    multiSelectStrategy{allowPartial: cfg.AllowPartialMulti},
			TypeMatching:       matchingStrategy{},
			TypeOrdering:       orderingStrategy{},
			TypeFillInBlank:    fillInBlankStrategy{},
			TypeShortWord:      shortWordStrategy{maxEdit: cfg.MaxEditDistance},
			TypeNumeric:        numericStrategy{},
		},
	}
}

// --- Strategies ---

// singleAnswerStrategy handles multiple choice and true/false. Matching is
// flexible: "C", "c." and "3" are equivalent, as are "yes" and "true".
type singleAnswerStrategy struct{}

func (singleAnswerStrategy) Grade(_ context.Context, q Q, response interface{}) (Result, error) {
	res := Result{MaxPoints: q.Points, TotalUnits: 1}
	resp, ok := response.(string)
	if !ok {
		return res, errors.New("response must be string")
	}
	for _, k := range q.AnswerKey {
		if answersMatch(resp, k) {
			res.AutoPoints = q.Points
			res.CorrectUnits = 1
			return res, nil
		}
	}
	return res, nil
}

type multiSelectStrategy struct{ allowPartial bool }

func (s multiSelectStrategy) Grade(_ context.Context, q Q, response interface{}) (Result, error) {
	res := Result{MaxPoints: q.Points}
	chosen := splitList(response)
	if chosen == nil {
		return res, errors.New("response must be a list or comma-separated string")
	}
	correct := toSet(q.AnswerKey)
	resp := toSet(chosen)
	res.TotalUnits = len(correct)

	inter := 0
	falsePositive := false
	for r := range resp {
		if _, ok := correct[r]; ok {
			inter++
		} else {
			falsePositive = true
		}
	}
	res.CorrectUnits = inter
	if inter == len(correct) && !falsePositive {
		res.AutoPoints = q.Points
		return res, nil
	}
	if s.allowPartial && !falsePositive && len(correct) > 0 {
		res.AutoPoints = q.Points * (float64(inter) / float64(len(correct)))
	}
	return res, nil
}

// matchingStrategy grades item->match pairs, splitting points evenly per pair.
type matchingStrategy struct{}

func (matchingStrategy) Grade(_ context.Context, q Q, response interface{}) (Result, error) {
	res := Result{MaxPoints: q.Points, TotalUnits: len(q.Pairs)}
	if len(q.Pairs) == 0 {
		return res, errors.New("matching question has no pairs")
	}
	given, ok := response.(map[string]string)
	if !ok {
		return res, errors.New("response must be map[string]string")
	}
	for item, want := range q.Pairs {
		if answersMatch(given[item], want) {
			res.CorrectUnits++
		} else {
			res.Feedback = append(res.Feedback, fmt.Sprintf("%s: expected %s", item, want))
		}
	}
	res.AutoPoints = q.Points * (float64(res.CorrectUnits) / float64(res.TotalUnits))
	return res, nil
}

// orderingStrategy grades position by position against the correct sequence.
type orderingStrategy struct{}

func (orderingStrategy) Grade(_ context.Context, q Q, response interface{}) (Result, error) {
	res := Result{MaxPoints: q.Points, TotalUnits: len(q.Order)}
	if len(q.Order) == 0 {
		return res, errors.New("ordering question has no correct sequence")
	}
	given := splitList(response)
	if given == nil {
		return res, errors.New("response must be a list or comma-separated string")
	}
	for i, want := range q.Order {
		if i < len(given) && answersMatch(given[i], want) {
			res.CorrectUnits++
		}
	}
	if res.CorrectUnits < res.TotalUnits {
		res.Feedback = append(res.Feedback,
			fmt.Sprintf("%d of %d positions correct", res.CorrectUnits, res.TotalUnits))
	}
	res.AutoPoints = q.Points * (float64(res.CorrectUnits) / float64(res.TotalUnits))
	return res, nil
}

// fillInBlankStrategy grades each blank against the answer key at the same
// index, splitting points evenly per blank.
type fillInBlankStrategy struct{}

func (fillInBlankStrategy) Grade(_ context.Context, q Q, response interface{}) (Result, error) {
	res := Result{MaxPoints: q.Points, TotalUnits: len(q.AnswerKey)}
	if len(q.AnswerKey) == 0 {
		return res, errors.New("fill-in-blank question has no answer key")
	}
	given := splitList(response)
	if given == nil {
		return res, errors.New("response must be a list or comma-separated string")
	}
	for i, want := range q.AnswerKey {
		if i < len(given) && answersMatch(given[i], want) {
			res.CorrectUnits++
		} else {
			res.Feedback = append(res.Feedback, fmt.Sprintf("blank %d: expected %s", i+1, want))
		}
	}
	res.AutoPoints = q.Points * (float64(res.CorrectUnits) / float64(res.TotalUnits))
	return res, nil
}

type shortWordStrategy struct{ maxEdit int }

func (s shortWordStrategy) Grade(_ context.Context, q Q, response interface{}) (Result, error) {
	res := Result{MaxPoints: q.Points, TotalUnits: 1}
	resp, ok := response.(string)
	if !ok {
		return res, errors.New("response must be string")
	}
	normResp := normalizeAnswer(resp)

	near := false
	for _, k := range q.AnswerKey {
		nk := normalizeAnswer(k)
		if nk == normResp {
			res.AutoPoints = q.Points
			res.CorrectUnits = 1
			return res, nil
		}
		if s.maxEdit > 0 && levenshtein(nk, normResp) <= s.maxEdit {
			near = true
		}
	}
	if near {
		res.AutoPoints = q.Points * 0.5
		res.Feedback = append(res.Feedback, "close match (fuzzy)")
	}
	return res, nil
}

// helpers

func toSet(arr []string) map[string]struct{} {
	m := make(map[string]struct{}, len(arr))
	for _, s := range arr {
		m[normalizeAnswer(s)] = struct{}{}
	}
	return m
}
