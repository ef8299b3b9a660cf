package consensus

import (
	"fmt"
	"math"
)

// Criterion is one named grading dimension in a weighted rubric.
type Criterion struct {
	Name   string  `json:"name"`
	Desc   string  `json:"desc"`
	Weight float64 `json:"weight"`
}

// CriteriaSet is the fixed weight table for one question category.
// Weights must sum to 1.0; Validate is called before any rubric is built.
type CriteriaSet struct {
	Category string      `json:"category"`
	Criteria []Criterion `json:"criteria"`
}

const weightTolerance = 1e-9

func (cs CriteriaSet) Validate() error {
	if len(cs.Criteria) == 0 {
		return fmt.Errorf("criteria set %q is empty", cs.Category)
	}
	sum := 0.0
	for _, c := range cs.Criteria {
		if c.Weight <= 0 {
			return fmt.Errorf("criteria set %q: criterion %q has non-positive weight %v", cs.Category, c.Name, c.Weight)
		}
		sum += c.Weight
	}
	if math.Abs(sum-1.0) > weightTolerance {
		return fmt.Errorf("criteria set %q: weights sum to %v, want 1.0", cs.Category, sum)
	}
	return nil
}

// Built-in weight tables. Treat as immutable; changing a weight is a
// grading-behavior change and must be versioned.
var (
	OpenEndedCriteria = CriteriaSet{
		Category: "open_ended",
		Criteria: []Criterion{
			{Name: "core_concept", Desc: "Correct understanding of main concept", Weight: 0.40},
			{Name: "logical_explanation", Desc: "Clear reasoning and logical flow", Weight: 0.30},
			{Name: "key_terms", Desc: "Use of teacher-specified keywords", Weight: 0.20},
			{Name: "clarity_structure", Desc: "Well-organized and clear writing", Weight: 0.10},
		},
	}

	DefinitionCriteria = CriteriaSet{
		Category: "definition",
		Criteria: []Criterion{
			{Name: "core_concept", Desc: "The main/essential meaning of the term", Weight: 0.50},
			{Name: "required_properties", Desc: "Key ideas/words set by the teacher", Weight: 0.30},
			{Name: "scope_context", Desc: "Correct scope, context, or application", Weight: 0.20},
		},
	}

	ShortAnswerCriteria = CriteriaSet{
		Category: "short_answer",
		Criteria: []Criterion{
			{Name: "factual_accuracy", Desc: "Is the answer factually correct?", Weight: 0.60},
			{Name: "completeness", Desc: "Are all requested items/parts present?", Weight: 0.30},
			{Name: "terminology", Desc: "Uses correct/appropriate terms?", Weight: 0.10},
		},
	}
)

var criteriaByCategory = map[string]CriteriaSet{
	OpenEndedCriteria.Category:   OpenEndedCriteria,
	DefinitionCriteria.Category:  DefinitionCriteria,
	ShortAnswerCriteria.Category: ShortAnswerCriteria,
}

// CriteriaFor looks up the weight table for a question category.
func CriteriaFor(category string) (CriteriaSet, bool) {
	cs, ok := criteriaByCategory[category]
	return cs, ok
}

// ValidateCriteria checks every built-in weight table. Call at startup so a
// bad table fails the process instead of a grading request.
func ValidateCriteria() error {
	for _, cs := range criteriaByCategory {
		if err := cs.Validate(); err != nil {
			return err
		}
	}
	return nil
}
