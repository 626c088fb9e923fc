package locator

import (
	"log/slog"

	"motorlab/pkg/contracts/domain"
)

// CarichiLocator is a thin caching facade over Locator for report assembly,
// where the same identifiers are resolved repeatedly. Results are cached
// per normalized identifier, misses included, so each test touches the
// filesystem once per instance. Instances are not safe for concurrent use;
// create one per goroutine or use SharedCarichiLocator.
type CarichiLocator struct {
	locator *Locator
	cache   map[string]*domain.WorkbookMatch
	logger  *slog.Logger
}

func NewCarichiLocator(locator *Locator, logger *slog.Logger) *CarichiLocator {
	if logger == nil {
		logger = slog.Default()
	}
	return &CarichiLocator{
		locator: locator,
		cache:   make(map[string]*domain.WorkbookMatch),
		logger:  logger,
	}
}

// Available reports whether the underlying locator can search at all.
func (c *CarichiLocator) Available() bool { return c.locator.Available() }

// Find resolves testNumber, consulting the cache first. The cached result
// may be nil; a nil return means no workbook backs the identifier.
func (c *CarichiLocator) Find(testNumber string) *domain.WorkbookMatch {
	id := domain.NormalizeTestID(testNumber)
	if id.IsZero() {
		return nil
	}
	key := id.String()
	if match, cached := c.cache[key]; cached {
		c.logger.Debug("carichi cache hit",
			slog.String("test_number", key),
			slog.Bool("found", match != nil))
		return match
	}
	match := c.locator.Locate(key)
	c.cache[key] = match
	return match
}

// FindForPerformanceTest resolves the carichi record consulted alongside a
// base performance test. Matching is strict: the identifier is looked up
// exactly as given, with no alias form derived.
func (c *CarichiLocator) FindForPerformanceTest(performanceTestNumber string) *domain.WorkbookMatch {
	return c.Find(performanceTestNumber)
}

// BulkLookup resolves many identifiers in one pass, returning a map keyed
// by the raw inputs. All lookups share the instance cache.
func (c *CarichiLocator) BulkLookup(testNumbers []string) map[string]*domain.WorkbookMatch {
	result := make(map[string]*domain.WorkbookMatch, len(testNumbers))
	for _, number := range testNumbers {
		result[number] = c.Find(number)
	}
	return result
}
