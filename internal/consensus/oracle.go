package consensus

import (
	"context"
	"fmt"
)

// Assessment is a single judge verdict for one rubric item in one pass.
// Never mutated after the adapter returns it.
type Assessment struct {
	Status    Status   `json:"status"`
	Rationale string   `json:"rationale"`
	Evidence  []string `json:"evidence,omitempty"`
}

// PassResult holds the verdicts for every rubric item from one oracle
// invocation, keyed by item ID.
type PassResult map[string]Assessment

// Submission is the material a judge sees besides the rubric: the student
// answer plus the reference context the rubric items are judged against.
type Submission struct {
	QuestionText string
	ModelAnswer  string
	Keywords     []string
	Answer       string
}

// Oracle is the external judgment dependency. One Judge call covers the
// whole rubric in a single round trip, so a question costs N calls, not
// N x item-count. Repeated calls with identical input may return different
// verdicts; nothing here may assume determinism.
type Oracle interface {
	Judge(ctx context.Context, r Rubric, sub Submission) (PassResult, error)
}

// NeutralPass stands in for a failed oracle call: every item partial with
// the cause recorded. Grading proceeds; the failure never aborts a question.
func NeutralPass(r Rubric, cause error) PassResult {
	pr := make(PassResult, len(r.Items))
	for _, it := range r.Items {
		pr[it.ID] = Assessment{
			Status:    StatusPartial,
			Rationale: fmt.Sprintf("grading error: %v", cause),
		}
	}
	return pr
}
