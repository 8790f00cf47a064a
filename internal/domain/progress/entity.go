// Package progress содержит доменную модель прогресса ученика:
// факты завершения уроков и чистую агрегацию процентов
// (урок -> модуль -> курс).
package progress

import (
	"time"

	"github.com/alphamind/alphamind-backend/internal/domain/shared"
)

// Record представляет долговременный факт: завершил ли конкретный ученик
// конкретный урок. Создаётся лениво при первом взаимодействии и никогда
// не удаляется - "снятие отметки" переводит completed в false и очищает
// completed_at, сохраняя историю и идемпотентность.
type Record struct {
	LearnerID shared.LearnerID
	LessonID  shared.LessonID
	Completed bool
	// CompletedAt заполнен только при Completed == true.
	CompletedAt *time.Time
}

// Validate проверяет инварианты записи прогресса.
func (r *Record) Validate() error {
	if r.LearnerID.IsEmpty() {
		return shared.NewDomainError("progress", "Validate", shared.ErrEmptyValue, "learner_id is required")
	}
	if r.LessonID.IsEmpty() {
		return shared.NewDomainError("progress", "Validate", shared.ErrEmptyValue, "lesson_id is required")
	}
	if r.Completed && r.CompletedAt == nil {
		return shared.NewDomainError("progress", "Validate", shared.ErrInvalidEntity, "completed record must carry completed_at")
	}
	if !r.Completed && r.CompletedAt != nil {
		return shared.NewDomainError("progress", "Validate", shared.ErrInvalidEntity, "incomplete record must not carry completed_at")
	}
	return nil
}

// CompletionSet - множество завершённых уроков ученика.
// Вклад урока в процент бинарный: урок либо завершён, либо нет.
type CompletionSet map[shared.LessonID]struct{}

// NewCompletionSet строит множество из списка идентификаторов.
func NewCompletionSet(ids []shared.LessonID) CompletionSet {
	set := make(CompletionSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Contains проверяет, завершён ли урок.
func (s CompletionSet) Contains(id shared.LessonID) bool {
	_, ok := s[id]
	return ok
}

// Len возвращает размер множества.
func (s CompletionSet) Len() int {
	return len(s)
}
