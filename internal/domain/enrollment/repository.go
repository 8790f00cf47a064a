package enrollment

import (
	"context"

	"github.com/alphamind/alphamind-backend/internal/domain/shared"
)

// Store - контракт хранилища записей на курс (Enrollment Store).
//
// Требования к реализации:
//   - уникальность active-записи обеспечивается ограничением на уровне
//     хранилища, а не проверкой в коде (две конкурентные активации не
//     должны пройти обе);
//   - каждая операция независимо транзакционна.
type Store interface {
	// Activate создаёт новую active-запись. Если для пары
	// (learner, course) уже есть active-запись, возвращает
	// shared.ErrDuplicateActiveEnrollment. Вызывается внешним контуром
	// покупки/административной записи.
	Activate(ctx context.Context, e *Enrollment) error

	// GetActiveEnrollment возвращает единственную active-запись пары или
	// shared.ErrNoActiveEnrollment. Если инвариант уникальности нарушен
	// (найдено больше одной строки), возвращает
	// shared.ErrEnrollmentConsistency - никогда не выбирает строку молча.
	GetActiveEnrollment(ctx context.Context, learnerID shared.LearnerID, courseID shared.CourseID) (*Enrollment, error)

	// ListActiveEnrollments возвращает active-записи ученика,
	// упорядоченные по дате записи, новые первыми.
	ListActiveEnrollments(ctx context.Context, learnerID shared.LearnerID) ([]*Enrollment, error)

	// Expire переводит запись active -> expired.
	// Идемпотентно: истечение уже истёкшей записи - no-op, не ошибка.
	Expire(ctx context.Context, enrollmentID string) error
}
