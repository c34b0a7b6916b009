package testutil

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/courseware-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, role types.Role) *types.User {
	tb.Helper()
	now := time.Now().UTC()
	u := &types.User{
		ID:        "user_" + uuid.NewString(),
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedCourse(tb testing.TB, ctx context.Context, tx *gorm.DB, ownerUserID string, published bool) *types.Course {
	tb.Helper()
	now := time.Now().UTC()
	c := &types.Course{
		ID:            uuid.New(),
		OwnerUserID:   ownerUserID,
		Title:         "course",
		Description:   "description",
		ResearchNotes: "research",
		IsPublished:   published,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}
	return c
}

func SeedChapter(tb testing.TB, ctx context.Context, tx *gorm.DB, courseID uuid.UUID, position int, published bool) *types.Chapter {
	tb.Helper()
	now := time.Now().UTC()
	ch := &types.Chapter{
		ID:          uuid.New(),
		CourseID:    courseID,
		Position:    position,
		Title:       "chapter",
		VideoURL:    "https://video.example/clip.mp4",
		IsPublished: published,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := tx.WithContext(ctx).Create(ch).Error; err != nil {
		tb.Fatalf("seed chapter: %v", err)
	}
	return ch
}

// SeedAssessment attaches an assessment whose questions have the given correct answers, in order.
func SeedAssessment(tb testing.TB, ctx context.Context, tx *gorm.DB, chapterID uuid.UUID, correctAnswers ...string) *types.Assessment {
	tb.Helper()
	now := time.Now().UTC()
	a := &types.Assessment{
		ID:        uuid.New(),
		ChapterID: chapterID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed assessment: %v", err)
	}
	for i, ans := range correctAnswers {
		opts, _ := json.Marshal([]string{ans, "other"})
		q := &types.Question{
			ID:            uuid.New(),
			AssessmentID:  a.ID,
			Position:      i,
			Prompt:        "question",
			Options:       datatypes.JSON(opts),
			CorrectAnswer: ans,
			CreatedAt:     now,
		}
		if err := tx.WithContext(ctx).Create(q).Error; err != nil {
			tb.Fatalf("seed question: %v", err)
		}
		a.Questions = append(a.Questions, q)
	}
	return a
}

func SeedEnrollment(tb testing.TB, ctx context.Context, tx *gorm.DB, userID string, courseID uuid.UUID) *types.Enrollment {
	tb.Helper()
	e := &types.Enrollment{
		ID:        uuid.New(),
		UserID:    userID,
		CourseID:  courseID,
		CreatedAt: time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed enrollment: %v", err)
	}
	return e
}

func PtrInt(v int) *int { return &v }

func PtrTime(v time.Time) *time.Time { return &v }
