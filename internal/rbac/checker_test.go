package rbac

import "testing"

func TestCheckerHas(t *testing.T) {
	c := NewChecker(map[string][]string{
		"teacher": {"grade:question", "grade:*"},
		"admin":   {"*"},
	})

	if !c.Has("teacher", "grade:question") {
		t.Errorf("exact permission denied")
	}
	if !c.Has("teacher", "grade:batch") {
		t.Errorf("prefix wildcard denied")
	}
	if c.Has("teacher", "results:view") {
		t.Errorf("unlisted permission granted")
	}
	if !c.Has("admin", "anything:at:all") {
		t.Errorf("admin wildcard denied")
	}
	if c.Has("stranger", "grade:question") {
		t.Errorf("unknown role granted")
	}
}

func TestDefaultPolicy(t *testing.T) {
	c := NewChecker(nil)
	if !c.Has("teacher", "grade:batch") {
		t.Errorf("teacher must grade batches")
	}
	if !c.Has("admin", "grade:objective") {
		t.Errorf("admin wildcard must cover grading")
	}
	if c.Has("teacher", "made:up") {
		t.Errorf("teacher must not have unlisted permissions")
	}
}
