package consensus

import (
	"errors"
	"fmt"
)

// Flavor selects how rubric items carry value: fractional weights that sum
// to 1.0, or absolute point values.
type Flavor string

const (
	FlavorWeighted  Flavor = "weighted"
	FlavorChecklist Flavor = "checklist"
)

var (
	ErrMissingModelAnswer = errors.New("no model answer provided for comparison")
	ErrEmptyChecklist     = errors.New("no checklist items provided")
	ErrUnpricedChecklist  = errors.New("checklist item has no points and equal split is disabled")
)

// Item is one atomic gradable unit. Exactly one of Weight or Points is
// authoritative, determined by the rubric flavor. Immutable once built.
type Item struct {
	ID     string  `json:"id"`
	Desc   string  `json:"desc"`
	Weight float64 `json:"weight,omitempty"`
	Points float64 `json:"points,omitempty"`
}

// Rubric is the ordered set of gradable items for one question.
type Rubric struct {
	Flavor Flavor `json:"flavor"`
	Items  []Item `json:"items"`
}

// ChecklistItem is a teacher-supplied checklist entry. Points <= 0 means
// "not set"; the builder applies the equal-split policy in that case.
type ChecklistItem struct {
	Text   string  `json:"item"`
	Points float64 `json:"points,omitempty"`
}

// NewWeightedRubric builds a rubric from a fixed criteria table. The table
// is re-validated here so a rubric can never exist with weights that do not
// sum to 1.0.
func NewWeightedRubric(set CriteriaSet) (Rubric, error) {
	if err := set.Validate(); err != nil {
		return Rubric{}, err
	}
	items := make([]Item, 0, len(set.Criteria))
	for _, c := range set.Criteria {
		items = append(items, Item{ID: c.Name, Desc: c.Desc, Weight: c.Weight})
	}
	return Rubric{Flavor: FlavorWeighted, Items: items}, nil
}

// NewChecklistRubric builds a rubric from teacher checklist items. Items
// without explicit points share totalPoints evenly when equalSplit is on;
// with the policy off an unpriced item is a build error.
func NewChecklistRubric(items []ChecklistItem, totalPoints float64, equalSplit bool) (Rubric, error) {
	if len(items) == 0 {
		return Rubric{}, ErrEmptyChecklist
	}
	share := totalPoints / float64(len(items))
	out := make([]Item, 0, len(items))
	for i, it := range items {
		pts := it.Points
		if pts <= 0 {
			if !equalSplit {
				return Rubric{}, fmt.Errorf("%w: item %d", ErrUnpricedChecklist, i+1)
			}
			pts = share
		}
		out = append(out, Item{
			ID:     fmt.Sprintf("item_%d", i+1),
			Desc:   it.Text,
			Points: pts,
		})
	}
	return Rubric{Flavor: FlavorChecklist, Items: out}, nil
}

// PointsPossible is the maximum credit a rubric can award. For the weighted
// flavor that depends on the question's max points, so it takes maxPoints;
// the checklist flavor ignores it.
func (r Rubric) PointsPossible(maxPoints float64) float64 {
	if r.Flavor == FlavorWeighted {
		return maxPoints
	}
	total := 0.0
	for _, it := range r.Items {
		total += it.Points
	}
	return total
}
