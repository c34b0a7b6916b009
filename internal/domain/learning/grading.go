package learning

import (
	"errors"
	"fmt"
	"strings"
)

const DefaultPassingScore = 70

// ErrMalformedSubmission marks a submission whose answer count does not match the question count.
var ErrMalformedSubmission = errors.New("malformed submission")

type GradeOutcome struct {
	Correct   int  `json:"correct"`
	Total     int  `json:"total"`
	Score     int  `json:"score"`
	Threshold int  `json:"threshold"`
	Passed    bool `json:"passed"`
}

// PassingThreshold picks the per-assessment override when present, else the deployment default.
func PassingThreshold(override *int, def int) int {
	t := def
	if override != nil {
		t = *override
	}
	if t < 0 {
		return 0
	}
	if t > 100 {
		return 100
	}
	return t
}

// Grade scores answers positionally against questions ordered by Position.
// score = floor(correct * 100 / total); passed = score >= threshold.
func Grade(questions []*Question, answers []string, threshold int) (GradeOutcome, error) {
	total := len(questions)
	if total == 0 {
		return GradeOutcome{}, fmt.Errorf("%w: assessment has no questions", ErrMalformedSubmission)
	}
	if len(answers) != total {
		return GradeOutcome{}, fmt.Errorf("%w: got %d answers for %d questions", ErrMalformedSubmission, len(answers), total)
	}
	correct := 0
	for i, q := range questions {
		if q == nil {
			continue
		}
		if normalizeAnswer(answers[i]) == normalizeAnswer(q.CorrectAnswer) {
			correct++
		}
	}
	score := correct * 100 / total
	return GradeOutcome{
		Correct:   correct,
		Total:     total,
		Score:     score,
		Threshold: threshold,
		Passed:    score >= threshold,
	}, nil
}

func normalizeAnswer(s string) string {
	return strings.TrimSpace(s)
}

// RedactAnswers returns copies of the questions without their correct answers.
func RedactAnswers(questions []*Question) []*Question {
	out := make([]*Question, 0, len(questions))
	for _, q := range questions {
		if q == nil {
			continue
		}
		cp := *q
		cp.CorrectAnswer = ""
		out = append(out, &cp)
	}
	return out
}
