package aggregates

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domainagg "github.com/yungbote/courseware-backend/internal/domain/aggregates"
	"github.com/yungbote/courseware-backend/internal/domain/learning"
)

// codedError is returned from inside a transaction body; MapError attaches the operation name.
type codedError struct {
	code domainagg.ErrorCode
	msg  string
}

func (e *codedError) Error() string { return e.msg }

func ValidationError(msg string) error {
	return &codedError{code: domainagg.CodeValidation, msg: strings.TrimSpace(msg)}
}

func InvariantError(msg string) error {
	return &codedError{code: domainagg.CodeInvariantViolation, msg: strings.TrimSpace(msg)}
}

// ConflictError marks a lost insert race.
func ConflictError(msg string) error {
	return &codedError{code: domainagg.CodeConflict, msg: strings.TrimSpace(msg)}
}

func RetryableError(msg string) error {
	return &codedError{code: domainagg.CodeRetryable, msg: strings.TrimSpace(msg)}
}

// Postgres SQLSTATEs with a stable meaning for callers.
var pgStateCodes = map[string]domainagg.ErrorCode{
	"23505": domainagg.CodeConflict,           // unique_violation
	"23503": domainagg.CodePreconditionFailed, // foreign_key_violation
	"40001": domainagg.CodeRetryable,          // serialization_failure
	"40P01": domainagg.CodeRetryable,          // deadlock_detected
	"55P03": domainagg.CodeRetryable,          // lock_not_available
}

// Driver messages without a typed error, mostly sqlite.
var storeMessageCodes = []struct {
	fragment string
	code     domainagg.ErrorCode
}{
	{"duplicate key", domainagg.CodeConflict},
	{"unique constraint", domainagg.CodeConflict},
	{"already exists", domainagg.CodeConflict},
	{"database is locked", domainagg.CodeRetryable},
	{"deadlock", domainagg.CodeRetryable},
	{"serialization", domainagg.CodeRetryable},
	{"timeout", domainagg.CodeRetryable},
	{"temporar", domainagg.CodeRetryable},
}

// MapError converts a transaction body or storage failure into a *domainagg.Error.
func MapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var aggErr *domainagg.Error
	if errors.As(err, &aggErr) {
		return err
	}
	var coded *codedError
	if errors.As(err, &coded) {
		return domainagg.Wrap(coded.code, op, err)
	}
	switch {
	case errors.Is(err, learning.ErrMalformedSubmission):
		return domainagg.Wrap(domainagg.CodeMalformedSubmission, op, err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domainagg.Wrap(domainagg.CodeNotFound, op, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return domainagg.Wrap(domainagg.CodeRetryable, op, err)
	}
	if code := storeCode(err); code != "" {
		return domainagg.Wrap(code, op, err)
	}
	return domainagg.Wrap(domainagg.CodeInternal, op, err)
}

// storeCode classifies a database driver error, or returns "" when it is not recognized.
func storeCode(err error) domainagg.ErrorCode {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domainagg.CodeConflict
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if code, ok := pgStateCodes[strings.TrimSpace(pgErr.Code)]; ok {
			return code
		}
	}
	msg := strings.ToLower(err.Error())
	for _, m := range storeMessageCodes {
		if strings.Contains(msg, m.fragment) {
			return m.code
		}
	}
	return ""
}

// isUniqueViolation reports whether err is a lost race on a unique index.
func isUniqueViolation(err error) bool {
	return err != nil && storeCode(err) == domainagg.CodeConflict
}
