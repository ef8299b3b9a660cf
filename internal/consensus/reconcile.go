package consensus

import "sort"

// Consensus is the reconciled verdict for one rubric item.
type Consensus struct {
	Status        Status
	FlagForReview bool
}

// Reconcile collapses the pass votes for one item into a single verdict.
//
// Majority rule: a status held by more than half the votes wins outright.
// Otherwise no majority exists (e.g. three pairwise-distinct votes, or a
// 2-2 split at N=4): take the ordinal median of the sorted votes and flag
// the item for human review.
//
// Pure function of the vote multiset; identical votes always reconcile to
// the same result. For N=3 this reproduces the 2-of-3 rule.
func Reconcile(votes []Status) Consensus {
	n := len(votes)
	if n == 0 {
		return Consensus{Status: StatusPartial, FlagForReview: true}
	}
	counts := make(map[Status]int, 3)
	for _, v := range votes {
		counts[v]++
	}
	for st, c := range counts {
		if c*2 > n {
			return Consensus{Status: st}
		}
	}
	sorted := make([]Status, n)
	copy(sorted, votes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Rank() < sorted[j].Rank() })
	return Consensus{Status: sorted[n/2], FlagForReview: true}
}

// MajorityTrue reports whether more than half of the boolean votes are true.
// Used for the math final-answer vote.
func MajorityTrue(votes []bool) bool {
	c := 0
	for _, v := range votes {
		if v {
			c++
		}
	}
	return c*2 > len(votes)
}
