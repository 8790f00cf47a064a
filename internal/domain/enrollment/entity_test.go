package enrollment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/alphamind/alphamind-backend/internal/domain/shared"
)

func validEnrollment() *Enrollment {
	return &Enrollment{
		ID:         "e1",
		LearnerID:  "7ed99bd0-87b2-4dbb-a97b-596c3f29c49b",
		CourseID:   "9ca4322d-ebd5-4ffa-a340-56fe811bbab1",
		Status:     StatusActive,
		EnrolledAt: time.Now().UTC(),
	}
}

func TestStatus_Transitions(t *testing.T) {
	// Жизненный цикл монотонный: active -> expired/cancelled, обратно нельзя.
	assert.True(t, StatusActive.CanTransitionTo(StatusExpired))
	assert.True(t, StatusActive.CanTransitionTo(StatusCancelled))

	assert.False(t, StatusExpired.CanTransitionTo(StatusActive))
	assert.False(t, StatusCancelled.CanTransitionTo(StatusActive))
	assert.False(t, StatusExpired.CanTransitionTo(StatusCancelled))
	assert.False(t, StatusActive.CanTransitionTo(StatusActive))
}

func TestEnrollment_Expire(t *testing.T) {
	e := validEnrollment()

	assert.NoError(t, e.Expire())
	assert.Equal(t, StatusExpired, e.Status)
	assert.False(t, e.IsActive())

	// Повторное истечение - no-op.
	assert.NoError(t, e.Expire())
	assert.Equal(t, StatusExpired, e.Status)
}

func TestEnrollment_ExpireCancelled(t *testing.T) {
	e := validEnrollment()
	assert.NoError(t, e.Cancel())

	// cancelled -> expired запрещён.
	err := e.Expire()
	assert.ErrorIs(t, err, shared.ErrStateTransition)
	assert.Equal(t, StatusCancelled, e.Status)
}

func TestEnrollment_Cancel(t *testing.T) {
	e := validEnrollment()

	assert.NoError(t, e.Cancel())
	assert.Equal(t, StatusCancelled, e.Status)

	// Идемпотентно.
	assert.NoError(t, e.Cancel())
}

func TestEnrollment_Validate(t *testing.T) {
	e := validEnrollment()
	assert.NoError(t, e.Validate())

	missing := validEnrollment()
	missing.LearnerID = ""
	assert.ErrorIs(t, missing.Validate(), shared.ErrEmptyValue)

	noCourse := validEnrollment()
	noCourse.CourseID = ""
	assert.ErrorIs(t, noCourse.Validate(), shared.ErrEmptyValue)

	badStatus := validEnrollment()
	badStatus.Status = "refunded"
	assert.ErrorIs(t, badStatus.Validate(), shared.ErrInvalidInput)
}
