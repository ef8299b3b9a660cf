package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/gradeflow/gradeflow/internal/consensus"
)

type gradeQuestionReq struct {
	Question consensus.Question `json:"question"`
	Answer   string             `json:"student_answer"`
}

// POST /grade/question
func GradeQuestionHandler(b *consensus.Batch) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req gradeQuestionReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Question.Number) == "" {
			http.Error(w, "question_number required", http.StatusBadRequest)
			return
		}
		res := b.GradeOne(r.Context(), req.Question, req.Answer)
		writeJSON(w, res)
	}
}

type gradeBatchReq struct {
	Questions []consensus.Question `json:"questions"`
	Answers   map[string]string    `json:"student_answers"` // question_number -> answer
}

// POST /grade/batch
func GradeBatchHandler(b *consensus.Batch) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req gradeBatchReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		if len(req.Questions) == 0 {
			http.Error(w, "questions required", http.StatusBadRequest)
			return
		}
		res := b.Grade(r.Context(), req.Questions, req.Answers)
		writeJSON(w, res)
	}
}

// GET /criteria/{category}
func CriteriaHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category := strings.TrimSpace(chi.URLParam(r, "category"))
		set, ok := consensus.CriteriaFor(category)
		if !ok {
			http.Error(w, "unknown category: "+category, http.StatusNotFound)
			return
		}
		writeJSON(w, set)
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
