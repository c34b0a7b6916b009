package learning

import (
	"errors"
	"testing"
)

func questions(correct ...string) []*Question {
	out := make([]*Question, 0, len(correct))
	for i, c := range correct {
		out = append(out, &Question{Position: i, CorrectAnswer: c})
	}
	return out
}

func TestGradeSevenOfTenPassesAtSeventy(t *testing.T) {
	qs := questions("a", "b", "c", "d", "a", "b", "c", "d", "a", "b")
	answers := []string{"a", "b", "c", "d", "a", "b", "c", "x", "x", "x"}

	out, err := Grade(qs, answers, DefaultPassingScore)
	if err != nil {
		t.Fatalf("Grade: %v", err)
	}
	if out.Correct != 7 || out.Score != 70 || !out.Passed {
		t.Fatalf("unexpected outcome: %+v", out)
	}
}

func TestGradeFloorsScore(t *testing.T) {
	out, err := Grade(questions("a", "b", "c"), []string{"a", "b", "x"}, 67)
	if err != nil {
		t.Fatalf("Grade: %v", err)
	}
	if out.Score != 66 || out.Passed {
		t.Fatalf("2/3 should floor to 66 and fail at 67, got=%+v", out)
	}
}

func TestGradeTrimsAnswers(t *testing.T) {
	out, err := Grade(questions("Paris"), []string{"  Paris "}, 100)
	if err != nil || !out.Passed {
		t.Fatalf("trimmed answer should match: out=%+v err=%v", out, err)
	}
}

func TestGradeRejectsMalformedSubmissions(t *testing.T) {
	if _, err := Grade(questions("a", "b"), []string{"a"}, 70); !errors.Is(err, ErrMalformedSubmission) {
		t.Fatalf("short answers: want ErrMalformedSubmission, got=%v", err)
	}
	if _, err := Grade(questions("a"), []string{"a", "b"}, 70); !errors.Is(err, ErrMalformedSubmission) {
		t.Fatalf("long answers: want ErrMalformedSubmission, got=%v", err)
	}
	if _, err := Grade(nil, nil, 70); !errors.Is(err, ErrMalformedSubmission) {
		t.Fatalf("no questions: want ErrMalformedSubmission, got=%v", err)
	}
}

func TestPassingThreshold(t *testing.T) {
	override := 85
	if got := PassingThreshold(&override, 70); got != 85 {
		t.Fatalf("override: got=%d", got)
	}
	if got := PassingThreshold(nil, 70); got != 70 {
		t.Fatalf("default: got=%d", got)
	}
	tooHigh := 150
	if got := PassingThreshold(&tooHigh, 70); got != 100 {
		t.Fatalf("clamp: got=%d", got)
	}
}

func TestRedactAnswers(t *testing.T) {
	qs := questions("a", "b")
	out := RedactAnswers(qs)
	if len(out) != 2 || out[0].CorrectAnswer != "" || out[1].CorrectAnswer != "" {
		t.Fatalf("answers not redacted: %+v", out)
	}
	if qs[0].CorrectAnswer != "a" {
		t.Fatalf("source questions must not be mutated")
	}
}
