package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/gradeflow/gradeflow/internal/consensus"
)

// Judge implements the consensus oracle contracts (Oracle, StepDecomposer,
// WorkJudge) on top of the Gemini API. Responses are requested as strict
// JSON; anything off-schema is normalized or surfaced as an error for the
// engine's neutral-pass fallback.
type Judge struct {
	APIKey string
	Model  string
}

var (
	_ consensus.Oracle         = (*Judge)(nil)
	_ consensus.StepDecomposer = (*Judge)(nil)
	_ consensus.WorkJudge      = (*Judge)(nil)
)

func New(apiKey, model string) *Judge {
	return &Judge{APIKey: strings.TrimSpace(apiKey), Model: strings.TrimSpace(model)}
}

func (j *Judge) Judge(ctx context.Context, r consensus.Rubric, sub consensus.Submission) (consensus.PassResult, error) {
	raw, err := j.generate(ctx, judgePrompt(r, sub))
	if err != nil {
		return nil, err
	}
	return parsePass(raw)
}

func (j *Judge) Decompose(ctx context.Context, problem, correctAnswer string) ([]consensus.Step, error) {
	raw, err := j.generate(ctx, decomposePrompt(problem, correctAnswer))
	if err != nil {
		return nil, err
	}
	return parseSteps(raw)
}

func (j *Judge) JudgeWork(ctx context.Context, p consensus.Problem, steps []consensus.Step, studentWork string) (consensus.StepVerdicts, error) {
	raw, err := j.generate(ctx, workPrompt(p, steps, studentWork))
	if err != nil {
		return consensus.StepVerdicts{}, err
	}
	return parseWork(raw)
}

func (j *Judge) generate(ctx context.Context, prompt string) (string, error) {
	if j.APIKey == "" {
		return "", errors.New("GEMINI_API_KEY is empty")
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(j.APIKey))
	if err != nil {
		return "", err
	}
	defer cl.Close()

	m := cl.GenerativeModel(j.Model)
	m.GenerationConfig = genai.GenerationConfig{
		Temperature:      ptrFloat32(0),
		ResponseMIMEType: "application/json",
	}
	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	return textOf(resp)
}

func textOf(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("gemini: empty response")
	}
	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if t, ok := p.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", errors.New("gemini: no text parts in response")
	}
	return out, nil
}

func ptrFloat32(v float32) *float32 { return &v }

// ---- wire payloads ----

type itemVerdict struct {
	ID       string   `json:"id"`
	Status   string   `json:"status"`
	Reason   string   `json:"reason"`
	Evidence []string `json:"evidence,omitempty"`
}

type judgeResponse struct {
	Items []itemVerdict `json:"items"`
}

// parsePass converts the wire payload into a PassResult. Status values are
// normalized here at the boundary; the engine never sees a raw verdict.
func parsePass(raw string) (consensus.PassResult, error) {
	var jr judgeResponse
	if err := json.Unmarshal([]byte(raw), &jr); err != nil {
		return nil, fmt.Errorf("parse judge response: %w", err)
	}
	if len(jr.Items) == 0 {
		return nil, errors.New("judge response has no items")
	}
	pr := make(consensus.PassResult, len(jr.Items))
	for _, it := range jr.Items {
		if it.ID == "" {
			continue
		}
		pr[it.ID] = consensus.Assessment{
			Status:    consensus.NormalizeStatus(it.Status),
			Rationale: it.Reason,
			Evidence:  it.Evidence,
		}
	}
	return pr, nil
}

type stepsResponse struct {
	Steps       []consensus.Step `json:"steps"`
	FinalAnswer string           `json:"final_answer"`
}

func parseSteps(raw string) ([]consensus.Step, error) {
	var sr stepsResponse
	if err := json.Unmarshal([]byte(raw), &sr); err != nil {
		return nil, fmt.Errorf("parse decomposition response: %w", err)
	}
	for i := range sr.Steps {
		if sr.Steps[i].Number == 0 {
			sr.Steps[i].Number = i + 1
		}
	}
	return sr.Steps, nil
}

type workResponse struct {
	Steps []struct {
		Step   int    `json:"step"`
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"steps"`
	FinalAnswerCorrect bool `json:"final_answer_correct"`
}

func parseWork(raw string) (consensus.StepVerdicts, error) {
	var wr workResponse
	if err := json.Unmarshal([]byte(raw), &wr); err != nil {
		return consensus.StepVerdicts{}, fmt.Errorf("parse work response: %w", err)
	}
	if len(wr.Steps) == 0 {
		return consensus.StepVerdicts{}, errors.New("work response has no steps")
	}
	pr := make(consensus.PassResult, len(wr.Steps))
	for i, s := range wr.Steps {
		n := s.Step
		if n == 0 {
			n = i + 1
		}
		pr[consensus.StepItemID(n)] = consensus.Assessment{
			Status:    consensus.NormalizeStatus(s.Status),
			Rationale: s.Reason,
		}
	}
	return consensus.StepVerdicts{Steps: pr, FinalAnswerCorrect: wr.FinalAnswerCorrect}, nil
}
