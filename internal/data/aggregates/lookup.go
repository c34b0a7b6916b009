package aggregates

import (
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/courseware-backend/internal/data/repos"
	types "github.com/yungbote/courseware-backend/internal/domain"
	domainagg "github.com/yungbote/courseware-backend/internal/domain/aggregates"
	"github.com/yungbote/courseware-backend/internal/platform/dbctx"
)

// loadPublishedChapter returns nil when the chapter or its course is missing or unpublished.
func loadPublishedChapter(dbc dbctx.Context, courses repos.CourseRepo, chapters repos.ChapterRepo, chapterID uuid.UUID) (*types.Chapter, error) {
	chapter, err := chapters.GetByID(dbc, chapterID)
	if err != nil || chapter == nil || !chapter.IsPublished {
		return nil, err
	}
	course, err := courses.GetByID(dbc, chapter.CourseID)
	if err != nil || course == nil || !course.IsPublished {
		return nil, err
	}
	return chapter, nil
}

// requireCourseOwner checks the actor's stored role and ownership of the course.
func requireCourseOwner(dbc dbctx.Context, users repos.UserRepo, op, actorUserID string, course *types.Course) error {
	actorUserID = strings.TrimSpace(actorUserID)
	actor, err := users.GetByID(dbc, actorUserID)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() || course == nil || course.OwnerUserID != actorUserID {
		return domainagg.NewError(domainagg.CodeForbidden, op, "not the owner of this course", nil)
	}
	return nil
}
