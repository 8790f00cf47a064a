package redis

import (
	"context"
	"errors"

	"github.com/alphamind/alphamind-backend/internal/domain/catalog"
	"github.com/alphamind/alphamind-backend/internal/domain/shared"
	"github.com/alphamind/alphamind-backend/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// COURSE TREE CACHE
// ══════════════════════════════════════════════════════════════════════════════

// CourseTreeCache is a caching decorator over a catalog.Reader. It
// satisfies the same contract as the underlying reader and the tree
// invalidator consumed by catalog commands.
//
// Correctness rule: a stale active flag corrupts progress denominators,
// so every catalog write must invalidate before the cache may be
// trusted again. Cache failures degrade to direct reads; Redis being
// down never makes the catalog unreadable.
type CourseTreeCache struct {
	source catalog.Reader
	cache  *Cache
	log    *logger.Logger
}

// NewCourseTreeCache creates a caching reader over source.
func NewCourseTreeCache(source catalog.Reader, cache *Cache, log *logger.Logger) *CourseTreeCache {
	return &CourseTreeCache{
		source: source,
		cache:  cache,
		log:    log,
	}
}

// GetCourseTree returns the cached tree or falls through to the source.
// Domain errors from the source (course not found) are never cached.
func (c *CourseTreeCache) GetCourseTree(ctx context.Context, courseID shared.CourseID) (*catalog.CourseTree, error) {
	key := CourseTreeKey(string(courseID))

	var cached catalog.CourseTree
	err := c.cache.Get(ctx, key, &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		c.log.Warn("course tree cache read failed", logger.CourseID(string(courseID)), logger.Err(err))
	}

	tree, err := c.source.GetCourseTree(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, key, tree, TTLCourseTree); err != nil {
		c.log.Warn("course tree cache write failed", logger.CourseID(string(courseID)), logger.Err(err))
	}

	return tree, nil
}

// ResolveLessonCourse always reads from the source. The lookup is a
// single indexed join and is not worth a second invalidation path.
func (c *CourseTreeCache) ResolveLessonCourse(ctx context.Context, lessonID shared.LessonID) (shared.CourseID, error) {
	return c.source.ResolveLessonCourse(ctx, lessonID)
}

// ListActiveCourses returns the cached listing or falls through to the
// source.
func (c *CourseTreeCache) ListActiveCourses(ctx context.Context) ([]catalog.CourseSummary, error) {
	key := CatalogListKey()

	var cached []catalog.CourseSummary
	err := c.cache.Get(ctx, key, &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		c.log.Warn("catalog listing cache read failed", logger.Err(err))
	}

	summaries, err := c.source.ListActiveCourses(ctx)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, key, summaries, TTLCatalogList); err != nil {
		c.log.Warn("catalog listing cache write failed", logger.Err(err))
	}

	return summaries, nil
}

// InvalidateCourse drops the cached tree of one course plus the
// listing, whose aggregates include that course.
func (c *CourseTreeCache) InvalidateCourse(ctx context.Context, courseID shared.CourseID) error {
	return c.cache.Delete(ctx, CourseTreeKey(string(courseID)), CatalogListKey())
}

// InvalidateCatalog drops all cached catalog data.
func (c *CourseTreeCache) InvalidateCatalog(ctx context.Context) error {
	if err := c.cache.DeleteByPattern(ctx, PrefixCourseTree+"*"); err != nil {
		return err
	}
	return c.cache.Delete(ctx, CatalogListKey())
}
