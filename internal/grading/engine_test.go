package grading

import (
	"context"
	"testing"
)

func TestAnswersMatch(t *testing.T) {
	cases := []struct {
		student, correct string
		want             bool
	}{
		{"C", "c", true},
		{"c.", "C", true},
		{"3", "c", true}, // option number maps onto its letter
		{"b", "2", true},
		{"yes", "true", true},
		{"Y", "True", true},
		{"no", "false", true},
		{"no", "true", false},
		{"", "c", false},
		{"mitochondria", "Mitochondria.", true},
		{"the cell wall", "cell  wall, the", false},
	}
	for _, tc := range cases {
		if got := answersMatch(tc.student, tc.correct); got != tc.want {
			t.Errorf("answersMatch(%q, %q) = %v, want %v", tc.student, tc.correct, got, tc.want)
		}
	}
}

func TestSingleAnswerStrategies(t *testing.T) {
	g := NewDefaultGrader()
	ctx := context.Background()

	q := Q{Number: "1", Type: TypeMultipleChoice, Points: 2, AnswerKey: []string{"c"}}
	res, err := g.Grade(ctx, q, "C.")
	if err != nil || res.AutoPoints != 2 {
		t.Fatalf("mcq correct: res=%+v err=%v", res, err)
	}
	res, _ = g.Grade(ctx, q, "a")
	if res.AutoPoints != 0 || res.CorrectUnits != 0 {
		t.Fatalf("mcq wrong: %+v", res)
	}

	tf := Q{Number: "2", Type: TypeTrueFalse, Points: 1, AnswerKey: []string{"true"}}
	res, _ = g.Grade(ctx, tf, "Y")
	if res.AutoPoints != 1 {
		t.Fatalf("true/false vocabulary: %+v", res)
	}
}

func TestMatchingSplitsPointsPerPair(t *testing.T) {
	g := NewDefaultGrader()
	q := Q{
		Number: "3",
		Type:   TypeMatching,
		Points: 4,
		Pairs:  map[string]string{"mitochondria": "energy", "nucleus": "dna"},
	}
	res, err := g.Grade(context.Background(), q, map[string]string{
		"mitochondria": "energy",
		"nucleus":      "protein",
	})
	if err != nil {
		t.Fatalf("Grade: %v", err)
	}
	if res.AutoPoints != 2 || res.CorrectUnits != 1 || res.TotalUnits != 2 {
		t.Fatalf("matching = %+v", res)
	}
}

func TestOrderingAcceptsCommaString(t *testing.T) {
	g := NewDefaultGrader()
	q := Q{Number: "4", Type: TypeOrdering, Points: 3, Order: []string{"c", "a", "b"}}
	res, err := g.Grade(context.Background(), q, "C, A, B")
	if err != nil || res.AutoPoints != 3 {
		t.Fatalf("ordering full credit: res=%+v err=%v", res, err)
	}
	res, _ = g.Grade(context.Background(), q, []string{"c", "b", "a"})
	if res.AutoPoints != 1 || res.CorrectUnits != 1 {
		t.Fatalf("ordering partial = %+v", res)
	}
}

func TestFillInBlankPerBlankCredit(t *testing.T) {
	g := NewDefaultGrader()
	q := Q{Number: "5", Type: TypeFillInBlank, Points: 4, AnswerKey: []string{"xylem", "phloem"}}
	res, err := g.Grade(context.Background(), q, []string{"Xylem", "roots"})
	if err != nil {
		t.Fatalf("Grade: %v", err)
	}
	if res.AutoPoints != 2 || res.CorrectUnits != 1 || res.TotalUnits != 2 {
		t.Fatalf("fill-in-blank = %+v", res)
	}
}

func TestMultiSelectPartialCredit(t *testing.T) {
	g := NewDefaultGrader()
	q := Q{Number: "6", Type: TypeMultiSelect, Points: 4, AnswerKey: []string{"a", "b"}}

	res, _ := g.Grade(context.Background(), q, []string{"a"})
	if res.AutoPoints != 2 {
		t.Fatalf("subset without false positives = %+v", res)
	}
	res, _ = g.Grade(context.Background(), q, []string{"a", "c"})
	if res.AutoPoints != 0 {
		t.Fatalf("false positive must zero partial credit = %+v", res)
	}
	res, _ = g.Grade(context.Background(), q, []string{"b", "a"})
	if res.AutoPoints != 4 {
		t.Fatalf("full set = %+v", res)
	}
}

func TestShortWordFuzzy(t *testing.T) {
	g := NewDefaultGrader() // max edit distance 1
	q := Q{Number: "7", Type: TypeShortWord, Points: 2, AnswerKey: []string{"osmosis"}}

	res, _ := g.Grade(context.Background(), q, "Osmosis")
	if res.AutoPoints != 2 {
		t.Fatalf("exact after normalize = %+v", res)
	}
	res, _ = g.Grade(context.Background(), q, "osmossis")
	if res.AutoPoints != 1 {
		t.Fatalf("one-edit fuzzy = %+v", res)
	}
	res, _ = g.Grade(context.Background(), q, "diffusion")
	if res.AutoPoints != 0 {
		t.Fatalf("wrong word = %+v", res)
	}
}

func TestNumericTolerance(t *testing.T) {
	g := NewDefaultGrader()
	q := Q{Number: "8", Type: TypeNumeric, Points: 2, AnswerKey: []string{"3.14159", "tol=0.01"}}

	res, _ := g.Grade(context.Background(), q, "3.14")
	if res.AutoPoints != 2 {
		t.Fatalf("within tolerance = %+v", res)
	}
	res, _ = g.Grade(context.Background(), q, "3.5")
	if res.AutoPoints != 0 {
		t.Fatalf("outside tolerance = %+v", res)
	}
}

func TestUnknownTypeNeedsManual(t *testing.T) {
	g := NewDefaultGrader()
	res, err := g.Grade(context.Background(), Q{Number: "9", Type: "open_ended", Points: 10}, "essay text")
	if err != nil {
		t.Fatalf("Grade: %v", err)
	}
	if !res.NeedsManual || res.AutoPoints != 0 || res.MaxPoints != 10 {
		t.Fatalf("unknown type = %+v", res)
	}
}

func TestLevenshtein(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "abc", 3},
		{"abc", "abc", 0},
		{"kitten", "sitting", 3},
		{"osmosis", "osmossis", 1},
	}
	for _, tc := range cases {
		if got := levenshtein(tc.a, tc.b); got != tc.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}
