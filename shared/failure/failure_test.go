package failure_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"termin/shared/failure"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"bad request", failure.BadRequest(errors.New("validation failed")), http.StatusBadRequest, "validation failed"},
		{"bad request from string", failure.BadRequestFromString("bad date"), http.StatusBadRequest, "bad date"},
		{"unauthorized", failure.Unauthorized("token expired"), http.StatusUnauthorized, "token expired"},
		{"internal", failure.InternalError(errors.New("boom")), http.StatusInternalServerError, "boom"},
		{"not found", failure.NotFound("time slot"), http.StatusNotFound, "time slot"},
		{"conflict", failure.Conflict("department has teachers"), http.StatusConflict, "department has teachers"},
		{"forbidden", failure.Forbidden("nope"), http.StatusForbidden, "nope"},
		{"unprocessable", failure.Unprocessable("start after end"), http.StatusUnprocessableEntity, "start after end"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f *failure.Failure
			assert.True(t, errors.As(tt.err, &f))
			assert.Equal(t, tt.code, f.Code)
			assert.Equal(t, tt.message, f.Error())
		})
	}
}

func TestNilInputs(t *testing.T) {
	assert.Nil(t, failure.BadRequest(nil))
	assert.Nil(t, failure.InternalError(nil))
	assert.Nil(t, failure.Persistence("insert", nil))
}

func TestBookingSentinels(t *testing.T) {
	assert.Equal(t, http.StatusConflict, failure.GetCode(failure.ErrSlotUnavailable))
	assert.Equal(t, http.StatusUnprocessableEntity, failure.GetCode(failure.ErrWindowClosed))
	assert.Equal(t, http.StatusConflict, failure.GetCode(failure.ErrInvalidTransition))
	assert.Equal(t, http.StatusForbidden, failure.GetCode(failure.ErrForbidden))

	wrapped := fmt.Errorf("failed to create booking: %w", failure.ErrSlotUnavailable)
	assert.ErrorIs(t, wrapped, failure.ErrSlotUnavailable)
	assert.Equal(t, http.StatusConflict, failure.GetCode(wrapped))
}

func TestPersistence(t *testing.T) {
	cause := errors.New("connection reset")

	err := failure.Persistence("update time slot", cause)

	var perr *failure.PersistenceError
	assert.True(t, errors.As(err, &perr))
	assert.Equal(t, "update time slot", perr.Op)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
	assert.Contains(t, err.Error(), "connection reset")

	// domain failures pass through untouched
	assert.Same(t, failure.ErrWindowClosed, failure.Persistence("reserve", failure.ErrWindowClosed))
	// already wrapped errors are not wrapped twice
	assert.Same(t, err, failure.Persistence("other", err))
}

func TestIsUniqueViolation(t *testing.T) {
	unique := &pq.Error{Code: "23505"}
	fk := &pq.Error{Code: "23503"}

	assert.True(t, failure.IsUniqueViolation(unique))
	assert.True(t, failure.IsUniqueViolation(fmt.Errorf("insert: %w", unique)))
	assert.False(t, failure.IsUniqueViolation(fk))
	assert.False(t, failure.IsUniqueViolation(errors.New("plain")))
	assert.True(t, failure.IsForeignKeyViolation(fk))
	assert.False(t, failure.IsForeignKeyViolation(unique))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(failure.InvalidPageParam))
	assert.Equal(t, http.StatusForbidden, failure.GetCode(failure.ForbiddenError))
	assert.Equal(t, http.StatusInternalServerError, failure.GetCode(errors.New("regular error")))
	assert.Equal(t, http.StatusInternalServerError, failure.GetCode(nil))
}
