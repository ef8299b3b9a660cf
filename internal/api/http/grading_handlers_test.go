package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/gradeflow/gradeflow/internal/consensus"
	"github.com/gradeflow/gradeflow/internal/grading"
)

// allPresentOracle marks every rubric item present.
type allPresentOracle struct{}

func (allPresentOracle) Judge(_ context.Context, r consensus.Rubric, _ consensus.Submission) (consensus.PassResult, error) {
	pr := make(consensus.PassResult, len(r.Items))
	for _, it := range r.Items {
		pr[it.ID] = consensus.Assessment{Status: consensus.StatusPresent, Rationale: "ok"}
	}
	return pr, nil
}

func testBatch() *consensus.Batch {
	return &consensus.Batch{
		Engine:     consensus.New(allPresentOracle{}),
		EqualSplit: true,
	}
}

func TestGradeQuestionHandler(t *testing.T) {
	h := GradeQuestionHandler(testBatch())
	body := `{
		"question": {
			"question_number": "1",
			"question_type": "definition",
			"question_text": "Define osmosis.",
			"model_answer": "movement of water across a membrane",
			"points": 10
		},
		"student_answer": "water moving through a membrane from dilute to concentrated"
	}`
	req := httptest.NewRequest("POST", "/grade/question", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var res consensus.QuestionResult
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Error != "" || res.PointsEarned != 10 || res.Percentage != 100 {
		t.Fatalf("result = %+v", res)
	}
}

func TestGradeQuestionHandlerValidation(t *testing.T) {
	h := GradeQuestionHandler(testBatch())

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest("POST", "/grade/question", strings.NewReader("{")))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed json status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h(rec, httptest.NewRequest("POST", "/grade/question", strings.NewReader(`{"question":{}}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing question number status = %d", rec.Code)
	}
}

func TestGradeBatchHandler(t *testing.T) {
	h := GradeBatchHandler(testBatch())
	body := `{
		"questions": [
			{"question_number": "1", "question_type": "table", "points": 6,
			 "grading_table": [{"item": "a"}, {"item": "b"}, {"item": "c"}]}
		],
		"student_answers": {"1": "a filled table"}
	}`
	req := httptest.NewRequest("POST", "/grade/batch", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var res consensus.BatchResult
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.TotalQuestions != 1 || res.PointsEarned != 6 {
		t.Fatalf("batch = %+v", res)
	}

	rec = httptest.NewRecorder()
	h(rec, httptest.NewRequest("POST", "/grade/batch", strings.NewReader(`{"questions": []}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty questions status = %d", rec.Code)
	}
}

func TestCriteriaHandler(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/criteria/{category}", CriteriaHandler())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/criteria/definition", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var set consensus.CriteriaSet
	if err := json.NewDecoder(rec.Body).Decode(&set); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if set.Category != "definition" || len(set.Criteria) != 3 {
		t.Fatalf("set = %+v", set)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/criteria/haiku", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown category status = %d", rec.Code)
	}
}

func TestGradeObjectiveHandler(t *testing.T) {
	h := GradeObjectiveHandler(grading.NewDefaultGrader())
	body := `{
		"items": [
			{"question_number": "1", "question_type": "multiple_choice", "points": 2,
			 "answer_key": ["c"], "response": "C."},
			{"question_number": "2", "question_type": "matching", "points": 4,
			 "pairs": {"mitochondria": "energy", "nucleus": "dna"},
			 "response": {"mitochondria": "energy", "nucleus": "protein"}},
			{"question_number": "3", "question_type": "ordering", "points": 3,
			 "order": ["c", "a", "b"], "response": ["c", "a", "b"]}
		]
	}`
	req := httptest.NewRequest("POST", "/grade/objective", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var res objectiveResp
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(res.Results) != 3 {
		t.Fatalf("results = %+v", res.Results)
	}
	if res.PointsEarned != 7 || res.PointsPossible != 9 {
		t.Fatalf("totals = %v/%v, want 7/9", res.PointsEarned, res.PointsPossible)
	}
}
