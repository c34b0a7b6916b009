package learning

import (
	"sort"

	"github.com/google/uuid"
)

type CompletionSummary struct {
	CompletedCount int  `json:"completed_count"`
	TotalCount     int  `json:"total_count"`
	AllComplete    bool `json:"all_complete"`
}

// PublishedInOrder filters to published chapters sorted by position.
func PublishedInOrder(chapters []*Chapter) []*Chapter {
	out := make([]*Chapter, 0, len(chapters))
	for _, ch := range chapters {
		if ch != nil && ch.IsPublished {
			out = append(out, ch)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

// SummarizeCompletion counts completed rows over published chapters only.
// AllComplete is false for a course without published chapters.
func SummarizeCompletion(chapters []*Chapter, progress []*ChapterProgress) CompletionSummary {
	published := PublishedInOrder(chapters)
	done := completedSet(progress)
	s := CompletionSummary{TotalCount: len(published)}
	for _, ch := range published {
		if done[ch.ID] {
			s.CompletedCount++
		}
	}
	s.AllComplete = s.TotalCount > 0 && s.CompletedCount == s.TotalCount
	return s
}

func completedSet(progress []*ChapterProgress) map[uuid.UUID]bool {
	out := make(map[uuid.UUID]bool, len(progress))
	for _, p := range progress {
		if p != nil && p.IsCompleted {
			out[p.ChapterID] = true
		}
	}
	return out
}

type AccessPolicy struct {
	// SequentialGating locks a chapter until every earlier published chapter is completed.
	SequentialGating bool
}

type AccessInput struct {
	Enrollment *Enrollment
	Chapters   []*Chapter
	Progress   []*ChapterProgress
	Results    []*AssessmentResult
	Policy     AccessPolicy
}

type ChapterAccess struct {
	ChapterID uuid.UUID    `json:"chapter_id"`
	Position  int          `json:"position"`
	State     ChapterState `json:"state"`
	Unlocked  bool         `json:"unlocked"`
}

type AccessView struct {
	Enrolled                    bool              `json:"enrolled"`
	Completion                  CompletionSummary `json:"completion"`
	CanAccessResearchPage       bool              `json:"can_access_research_page"`
	CanRequestCertificate       bool              `json:"can_request_certificate"`
	NextUnlockedChapterPosition *int              `json:"next_unlocked_chapter_position"`
	Chapters                    []ChapterAccess   `json:"chapters"`
	// BestScores maps assessment id to the best score achieved.
	BestScores map[string]int `json:"best_scores"`
}

// EvaluateAccess is a pure function of persisted state; it never writes.
func EvaluateAccess(in AccessInput) AccessView {
	published := PublishedInOrder(in.Chapters)
	progressByChapter := make(map[uuid.UUID]*ChapterProgress, len(in.Progress))
	for _, p := range in.Progress {
		if p != nil {
			progressByChapter[p.ChapterID] = p
		}
	}

	view := AccessView{
		Enrolled:   in.Enrollment != nil,
		Completion: SummarizeCompletion(published, in.Progress),
		Chapters:   make([]ChapterAccess, 0, len(published)),
		BestScores: map[string]int{},
	}

	priorComplete := true
	for _, ch := range published {
		state := StateOf(progressByChapter[ch.ID])
		unlocked := view.Enrolled
		if in.Policy.SequentialGating {
			unlocked = unlocked && priorComplete
		}
		view.Chapters = append(view.Chapters, ChapterAccess{
			ChapterID: ch.ID,
			Position:  ch.Position,
			State:     state,
			Unlocked:  unlocked,
		})
		if state != ChapterCompleted {
			if view.NextUnlockedChapterPosition == nil {
				pos := ch.Position
				view.NextUnlockedChapterPosition = &pos
			}
			priorComplete = false
		}
	}

	for _, r := range in.Results {
		if r == nil {
			continue
		}
		key := r.AssessmentID.String()
		if best, ok := view.BestScores[key]; !ok || r.Score > best {
			view.BestScores[key] = r.Score
		}
	}

	view.CanAccessResearchPage = view.Enrolled && view.Completion.AllComplete
	view.CanRequestCertificate = view.CanAccessResearchPage
	return view
}

// CanViewChapter reports whether the chapter is navigable for this learner.
func (v AccessView) CanViewChapter(chapterID uuid.UUID) bool {
	for _, ch := range v.Chapters {
		if ch.ChapterID == chapterID {
			return ch.Unlocked
		}
	}
	return false
}
