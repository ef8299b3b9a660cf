package gemini

import (
	"fmt"
	"strings"

	"github.com/gradeflow/gradeflow/internal/consensus"
)

// judgePrompt asks for a verdict on every rubric item in one round trip.
// Weighted items are shown with their percentage share so the model grades
// in context; checklist items are shown as numbered ideas to find.
func judgePrompt(r consensus.Rubric, sub consensus.Submission) string {
	var b strings.Builder
	b.WriteString("You are grading a student's answer against a rubric.\n\n")

	if sub.QuestionText != "" {
		fmt.Fprintf(&b, "QUESTION:\n%s\n\n", sub.QuestionText)
	}
	if sub.ModelAnswer != "" {
		fmt.Fprintf(&b, "MODEL ANSWER (reference):\n%s\n\n", sub.ModelAnswer)
	}
	fmt.Fprintf(&b, "STUDENT ANSWER:\n%s\n\n", sub.Answer)

	keywords := "None specified"
	if len(sub.Keywords) > 0 {
		keywords = strings.Join(sub.Keywords, ", ")
	}
	fmt.Fprintf(&b, "EXPECTED KEYWORDS: %s\n\n", keywords)

	b.WriteString(`For each rubric item below, evaluate using MEANING-BASED comparison (not exact wording):
- "present": fully covered in the student's answer
- "partial": partially mentioned or implied
- "absent": not present at all

RUBRIC ITEMS:
`)
	for _, it := range r.Items {
		if r.Flavor == consensus.FlavorWeighted {
			fmt.Fprintf(&b, "- %s (%d%%): %s\n", it.ID, int(it.Weight*100), it.Desc)
		} else {
			fmt.Fprintf(&b, "- %s: %s\n", it.ID, it.Desc)
		}
	}

	b.WriteString(`
Return ONLY valid JSON in this exact format:
{
    "items": [
        {"id": "<item id>", "status": "present|partial|absent", "reason": "brief explanation", "evidence": ["keywords", "found"]}
    ]
}

Include an entry for EVERY rubric item, using the item ids exactly as given.`)
	return b.String()
}

// decomposePrompt asks for the ordered computational steps of a math
// problem. The last step must itself produce the final answer; no separate
// "final answer" step.
func decomposePrompt(problem, correctAnswer string) string {
	return fmt.Sprintf(`Analyze this math problem and break it into computational steps following order of operations.

PROBLEM: %s
FINAL ANSWER: %s

ORDER OF OPERATIONS:
1. Parentheses (innermost first, including brackets)
2. Exponents (powers, square roots)
3. Multiplication and Division (left to right)
4. Addition and Subtraction (left to right)

IMPORTANT:
- List ONLY the computational steps, NOT a separate "final answer" step
- The last computational step should naturally produce the final answer
- Do NOT add a redundant step like "final: %s"

Return ONLY valid JSON:
{
    "steps": [
        {"step": 1, "operation": "parentheses", "expression": "(2 + 3) = 5"},
        {"step": 2, "operation": "multiplication", "expression": "5 x 4 = 20"}
    ],
    "final_answer": "%s"
}

Include ALL intermediate computational steps in order. Use operation types: parentheses, exponent, multiplication, division, addition, subtraction.`,
		problem, correctAnswer, correctAnswer, correctAnswer)
}

// workPrompt asks for a per-step verdict on the student's shown work plus
// an explicit final-answer check.
func workPrompt(p consensus.Problem, steps []consensus.Step, studentWork string) string {
	var lines []string
	for _, s := range steps {
		lines = append(lines, fmt.Sprintf("%d. %s: %s", s.Number, s.Operation, s.Expression))
	}
	return fmt.Sprintf(`You are grading a student's math work. Recognize EQUIVALENT approaches.

PROBLEM: %s
CORRECT ANSWER: %s

EXPECTED STEPS:
%s

STUDENT'S WORK:
%s

GRADING RULES:
1. For each expected step, check if the student demonstrated the SAME MATHEMATICAL RESULT
2. Different order or equivalent operations are acceptable if mathematically correct
3. If the student combined steps correctly, give credit for both steps covered
4. Focus on MATHEMATICAL CORRECTNESS, not exact format

STATUS OPTIONS:
- "present": the mathematical result/operation is shown correctly (even in a different format)
- "partial": step attempted but has a calculation error
- "absent": this operation is not shown anywhere in the student's work

CRITICAL: Check whether the student's final answer is %s. If YES, set final_answer_correct=true.

Return ONLY valid JSON:
{
    "steps": [
        {"step": 1, "status": "present", "reason": "explanation"},
        {"step": 2, "status": "partial", "reason": "explanation"}
    ],
    "final_answer_correct": true
}

Include an entry for EVERY expected step.`,
		p.Text, p.CorrectAnswer, strings.Join(lines, "\n"), studentWork, p.CorrectAnswer)
}
