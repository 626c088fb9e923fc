package locator

import (
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"motorlab/pkg/contracts/domain"
)

// SharedCarichiLocator is the goroutine-safe counterpart of CarichiLocator:
// a read/write-locked cache with per-key single flight, so concurrent
// lookups of one identifier trigger a single directory walk and every
// caller shares its result.
type SharedCarichiLocator struct {
	locator *Locator
	logger  *slog.Logger

	mu    sync.RWMutex
	cache map[string]*domain.WorkbookMatch
	group singleflight.Group
}

func NewSharedCarichiLocator(locator *Locator, logger *slog.Logger) *SharedCarichiLocator {
	if logger == nil {
		logger = slog.Default()
	}
	return &SharedCarichiLocator{
		locator: locator,
		logger:  logger,
		cache:   make(map[string]*domain.WorkbookMatch),
	}
}

// Available reports whether the underlying locator can search at all.
func (c *SharedCarichiLocator) Available() bool { return c.locator.Available() }

// Find resolves testNumber. Cached results, misses included, are shared
// across goroutines.
func (c *SharedCarichiLocator) Find(testNumber string) *domain.WorkbookMatch {
	id := domain.NormalizeTestID(testNumber)
	if id.IsZero() {
		return nil
	}
	key := id.String()

	c.mu.RLock()
	match, cached := c.cache[key]
	c.mu.RUnlock()
	if cached {
		return match
	}

	v, _, shared := c.group.Do(key, func() (interface{}, error) {
		// Another flight may have landed between the cache read and Do.
		c.mu.RLock()
		match, cached := c.cache[key]
		c.mu.RUnlock()
		if cached {
			return match, nil
		}

		match = c.locator.Locate(key)
		c.mu.Lock()
		c.cache[key] = match
		c.mu.Unlock()
		return match, nil
	})
	if shared {
		c.logger.Debug("carichi lookup shared across callers", slog.String("test_number", key))
	}
	match, _ = v.(*domain.WorkbookMatch)
	return match
}

// FindForPerformanceTest resolves the carichi record consulted alongside a
// base performance test, with the same strict matching as Find.
func (c *SharedCarichiLocator) FindForPerformanceTest(performanceTestNumber string) *domain.WorkbookMatch {
	return c.Find(performanceTestNumber)
}

// BulkLookup resolves many identifiers, returning a map keyed by the raw
// inputs.
func (c *SharedCarichiLocator) BulkLookup(testNumbers []string) map[string]*domain.WorkbookMatch {
	result := make(map[string]*domain.WorkbookMatch, len(testNumbers))
	for _, number := range testNumbers {
		result[number] = c.Find(number)
	}
	return result
}
