package learning

import (
	"time"

	"github.com/google/uuid"
)

// ChapterState is the per (user, chapter) progress state.
//
//	NotStarted -> VideoSeen -> Completed
//	NotStarted -> Completed   (chapters without an assessment only)
//
// Completed is terminal.
type ChapterState string

const (
	ChapterNotStarted ChapterState = "not_started"
	ChapterVideoSeen  ChapterState = "video_seen"
	ChapterCompleted  ChapterState = "completed"
)

// StateOf derives the state of a stored progress row; nil means no row yet.
func StateOf(p *ChapterProgress) ChapterState {
	switch {
	case p == nil:
		return ChapterNotStarted
	case p.IsCompleted:
		return ChapterCompleted
	case p.VideoSeen:
		return ChapterVideoSeen
	default:
		return ChapterNotStarted
	}
}

// ChapterSignals carries what the triggering operation learned about a chapter.
type ChapterSignals struct {
	HasAssessment bool
	// WatchedNow is set by the "video watched" signal; an earlier watch is read from the stored row.
	WatchedNow bool
	// Passed is true when at least one passing result exists for the chapter's assessment.
	Passed bool
}

type ChapterTransition struct {
	Progress ChapterProgress
	From     ChapterState
	To       ChapterState
	Changed  bool
}

func (t ChapterTransition) BecameCompleted() bool {
	return t.From != ChapterCompleted && t.To == ChapterCompleted
}

// NextChapterProgress applies signals to the previous row and returns the row to upsert.
// Completion requires the video to have been seen and, when the chapter has an assessment,
// a passing result. A completed row never regresses.
func NextChapterProgress(prev *ChapterProgress, userID string, chapter *Chapter, s ChapterSignals, now time.Time) ChapterTransition {
	from := StateOf(prev)
	var next ChapterProgress
	if prev != nil {
		next = *prev
	} else {
		next = ChapterProgress{
			ID:        uuid.New(),
			UserID:    userID,
			ChapterID: chapter.ID,
			CourseID:  chapter.CourseID,
		}
	}

	changed := false
	if s.WatchedNow && !next.VideoSeen {
		next.VideoSeen = true
		at := now
		next.VideoSeenAt = &at
		changed = true
	}
	if !next.IsCompleted && next.VideoSeen && (!s.HasAssessment || s.Passed) {
		next.IsCompleted = true
		at := now
		next.CompletedAt = &at
		changed = true
	}
	if changed {
		next.UpdatedAt = now
	}
	return ChapterTransition{
		Progress: next,
		From:     from,
		To:       StateOf(&next),
		Changed:  changed,
	}
}
