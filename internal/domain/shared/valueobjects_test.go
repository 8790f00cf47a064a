package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPercent(t *testing.T) {
	// 2 из 3 уроков: 66.666... -> 66.67 (round half-up до 2 знаков).
	assert.Equal(t, Percent(66.67), NewPercent(2, 3))
	assert.Equal(t, Percent(50), NewPercent(1, 2))
	assert.Equal(t, Percent(100), NewPercent(3, 3))
	assert.Equal(t, Percent(0), NewPercent(0, 5))

	// 1 из 3: 33.333... -> 33.33 (вниз, т.к. третий знак < 5).
	assert.Equal(t, Percent(33.33), NewPercent(1, 3))

	// 1 из 6: 16.666... -> 16.67.
	assert.Equal(t, Percent(16.67), NewPercent(1, 6))

	// 5 из 8: ровно 62.5, округление не требуется.
	assert.Equal(t, Percent(62.5), NewPercent(5, 8))
}

func TestNewPercent_EmptyDenominator(t *testing.T) {
	// Пустой знаменатель определён как нулевой прогресс, не ошибка и не NaN.
	assert.Equal(t, Percent(0), NewPercent(0, 0))
	assert.Equal(t, Percent(0), NewPercent(3, 0))
	assert.Equal(t, Percent(0), NewPercent(1, -1))
}

func TestPercent_IsComplete(t *testing.T) {
	assert.True(t, NewPercent(7, 7).IsComplete())
	assert.False(t, NewPercent(6, 7).IsComplete())
	assert.False(t, Percent(99.99).IsComplete())
}

func TestPercent_IsValid(t *testing.T) {
	assert.True(t, Percent(0).IsValid())
	assert.True(t, Percent(100).IsValid())
	assert.False(t, Percent(-0.01).IsValid())
	assert.False(t, Percent(100.01).IsValid())
}

func TestLearnerID_Validation(t *testing.T) {
	valid := "7ed99bd0-87b2-4dbb-a97b-596c3f29c49b"

	id, err := NewLearnerID(valid)
	assert.NoError(t, err)
	assert.Equal(t, LearnerID(valid), id)

	// Регистр и пробелы нормализуются.
	id, err = NewLearnerID("  7ED99BD0-87B2-4DBB-A97B-596C3F29C49B ")
	assert.NoError(t, err)
	assert.Equal(t, LearnerID(valid), id)

	_, err = NewLearnerID("not-a-uuid")
	assert.ErrorIs(t, err, ErrInvalidID)

	_, err = NewLearnerID("")
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestDomainError_Matching(t *testing.T) {
	// DomainError должен матчиться на свой Kind через errors.Is.
	assert.ErrorIs(t, ErrNoActiveEnrollment, ErrAccessDenied)
	assert.ErrorIs(t, ErrDuplicateActiveEnrollment, ErrAlreadyExists)
	assert.ErrorIs(t, ErrEnrollmentConsistency, ErrConsistency)
	assert.ErrorIs(t, ErrCourseNotFound, ErrNotFound)
	assert.ErrorIs(t, ErrInvalidCredentials, ErrUnauthorized)

	// Предикаты по kind-ам.
	assert.True(t, IsAccessDenied(ErrNoActiveEnrollment))
	assert.False(t, IsNotFound(ErrNoActiveEnrollment))
	assert.True(t, IsConsistency(ErrEnrollmentConsistency))
	assert.True(t, IsTransient(ErrStoreUnavailable))
	assert.True(t, IsTransient(ErrTimeout))
	assert.False(t, IsTransient(ErrCourseNotFound))
}

func TestDomainError_Wrapping(t *testing.T) {
	inner := ErrTimeout
	wrapped := WrapError("progress", "MarkComplete", ErrStoreUnavailable, "upsert failed", inner)

	assert.ErrorIs(t, wrapped, ErrStoreUnavailable)
	assert.ErrorIs(t, wrapped, ErrTimeout)
	assert.Contains(t, wrapped.Error(), "progress.MarkComplete")
}
