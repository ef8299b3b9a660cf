package consensus

import "testing"

func TestReconcileMajority(t *testing.T) {
	cases := []struct {
		name  string
		votes []Status
		want  Status
	}{
		{"two of three present", []Status{StatusPresent, StatusPresent, StatusPartial}, StatusPresent},
		{"two of three absent", []Status{StatusAbsent, StatusPartial, StatusAbsent}, StatusAbsent},
		{"unanimous", []Status{StatusPartial, StatusPartial, StatusPartial}, StatusPartial},
		{"three of five", []Status{StatusPresent, StatusAbsent, StatusPresent, StatusPartial, StatusPresent}, StatusPresent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := Reconcile(tc.votes)
			if c.Status != tc.want {
				t.Fatalf("status = %q, want %q", c.Status, tc.want)
			}
			if c.FlagForReview {
				t.Fatalf("majority outcome must not be flagged")
			}
		})
	}
}

func TestReconcileNoMajorityTakesOrdinalMedian(t *testing.T) {
	c := Reconcile([]Status{StatusAbsent, StatusPartial, StatusPresent})
	if c.Status != StatusPartial {
		t.Fatalf("status = %q, want partial (ordinal median)", c.Status)
	}
	if !c.FlagForReview {
		t.Fatalf("all-distinct votes must be flagged for review")
	}

	// Five passes, no value above N/2: 2x present, 2x absent, 1x partial.
	// Sorted ordinals: absent absent partial present present -> median partial.
	c = Reconcile([]Status{StatusPresent, StatusAbsent, StatusPresent, StatusAbsent, StatusPartial})
	if c.Status != StatusPartial || !c.FlagForReview {
		t.Fatalf("got (%q, flagged=%v), want (partial, flagged=true)", c.Status, c.FlagForReview)
	}
}

func TestReconcileIsPure(t *testing.T) {
	a := Reconcile([]Status{StatusPresent, StatusAbsent, StatusPartial})
	b := Reconcile([]Status{StatusPartial, StatusPresent, StatusAbsent})
	if a != b {
		t.Fatalf("same vote multiset gave %+v and %+v", a, b)
	}
}

func TestReconcileEmptyVotes(t *testing.T) {
	c := Reconcile(nil)
	if c.Status != StatusPartial || !c.FlagForReview {
		t.Fatalf("got (%q, flagged=%v), want (partial, flagged=true)", c.Status, c.FlagForReview)
	}
}

func TestMajorityTrue(t *testing.T) {
	cases := []struct {
		votes []bool
		want  bool
	}{
		{[]bool{true, true, false}, true},
		{[]bool{true, false, false}, false},
		{[]bool{true, true}, true},
		{[]bool{true, false}, false}, // exactly half is not a majority
		{nil, false},
	}
	for _, tc := range cases {
		if got := MajorityTrue(tc.votes); got != tc.want {
			t.Errorf("MajorityTrue(%v) = %v, want %v", tc.votes, got, tc.want)
		}
	}
}

func TestNormalizeStatus(t *testing.T) {
	cases := []struct {
		in   string
		want Status
	}{
		{"present", StatusPresent},
		{"Present", StatusPresent},
		{"  FULL ", StatusPresent}, // legacy alias
		{"absent", StatusAbsent},
		{"partial", StatusPartial},
		{"somewhat", StatusPartial}, // unknown -> middle ordinal
		{"", StatusPartial},
	}
	for _, tc := range cases {
		if got := NormalizeStatus(tc.in); got != tc.want {
			t.Errorf("NormalizeStatus(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestStatusMultiplier(t *testing.T) {
	if m := StatusAbsent.Multiplier(); m != 0 {
		t.Errorf("absent multiplier = %v", m)
	}
	if m := StatusPartial.Multiplier(); m != 0.5 {
		t.Errorf("partial multiplier = %v", m)
	}
	if m := StatusPresent.Multiplier(); m != 1 {
		t.Errorf("present multiplier = %v", m)
	}
}
