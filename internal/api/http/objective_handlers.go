package http

import (
	"encoding/json"
	"net/http"

	"github.com/gradeflow/gradeflow/internal/grading"
)

type objectiveItem struct {
	Number    string            `json:"question_number"`
	Type      string            `json:"question_type"`
	Points    float64           `json:"points"`
	AnswerKey []string          `json:"answer_key,omitempty"`
	Pairs     map[string]string `json:"pairs,omitempty"`
	Order     []string          `json:"order,omitempty"`
	Response  json.RawMessage   `json:"response"`
}

type objectiveReq struct {
	Items []objectiveItem `json:"items"`
}

type objectiveResp struct {
	Results        []grading.Result `json:"results"`
	PointsEarned   float64          `json:"points_earned"`
	PointsPossible float64          `json:"points_possible"`
}

// POST /grade/objective
//
// Responses are raw JSON: a string for single-answer types, a list for
// ordering and blanks, an object for matching.
func GradeObjectiveHandler(g grading.Grader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req objectiveReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		if len(req.Items) == 0 {
			http.Error(w, "items required", http.StatusBadRequest)
			return
		}
		out := objectiveResp{Results: make([]grading.Result, 0, len(req.Items))}
		for _, it := range req.Items {
			q := grading.Q{
				Number:    it.Number,
				Type:      it.Type,
				Points:    it.Points,
				AnswerKey: it.AnswerKey,
				Pairs:     it.Pairs,
				Order:     it.Order,
			}
			res, err := g.Grade(r.Context(), q, decodeResponse(it.Response))
			if err != nil {
				res = grading.Result{
					Number:      it.Number,
					MaxPoints:   it.Points,
					NeedsManual: true,
					Feedback:    []string{err.Error()},
				}
			}
			out.Results = append(out.Results, res)
			out.PointsEarned += res.AutoPoints
			out.PointsPossible += res.MaxPoints
		}
		writeJSON(w, out)
	}
}

// decodeResponse maps raw JSON onto the shapes the strategies accept.
func decodeResponse(raw json.RawMessage) interface{} {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	var m map[string]string
	if err := json.Unmarshal(raw, &m); err == nil {
		return m
	}
	return ""
}
