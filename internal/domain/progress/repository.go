package progress

import (
	"context"

	"github.com/alphamind/alphamind-backend/internal/domain/shared"
)

// Store - контракт хранилища прогресса (Progress Store).
//
// Требования к реализации:
//   - MarkComplete/MarkIncomplete выполняются атомарным upsert-ом
//     (insert-on-conflict-update), а не read-then-write: две конкурентные
//     последовательности "проверить-потом-вставить" теряют обновления;
//   - записи никогда не удаляются;
//   - каждая операция независимо транзакционна.
type Store interface {
	// MarkComplete создаёт запись, если её нет, иначе ставит
	// completed = true. Идемпотентно: повторный вызов не меняет
	// completed_at, если запись уже была завершена; если была
	// незавершённой - completed_at обновляется на текущий момент.
	MarkComplete(ctx context.Context, learnerID shared.LearnerID, lessonID shared.LessonID) error

	// MarkIncomplete ставит completed = false и очищает completed_at.
	// Если записи нет - no-op (снимать нечего), не ошибка.
	MarkIncomplete(ctx context.Context, learnerID shared.LearnerID, lessonID shared.LessonID) error

	// GetCompletionSet возвращает подмножество переданных уроков,
	// отмеченных завершёнными у данного ученика. Один bulk-запрос:
	// стоимость агрегации по курсу линейна по числу уроков.
	GetCompletionSet(ctx context.Context, learnerID shared.LearnerID, lessonIDs []shared.LessonID) (CompletionSet, error)
}
