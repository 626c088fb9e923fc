package locator

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"motorlab/internal/shared/testutil"
	"motorlab/pkg/contracts/domain"
)

func TestSharedCarichiLocatorConcurrentLookups(t *testing.T) {
	base := t.TempDir()
	testutil.TouchWorkbooks(t, base, "30001.xlsx")

	c := NewSharedCarichiLocator(New(base, DefaultParams(), nil), nil)

	const callers = 16
	results := make([]*domain.WorkbookMatch, callers)
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func(n int) {
			defer wg.Done()
			results[n] = c.Find("30001")
		}(i)
	}
	wg.Wait()

	require.NotNil(t, results[0])
	for _, r := range results[1:] {
		assert.Same(t, results[0], r, "every caller shares one lookup result")
	}
}

func TestSharedCarichiLocatorCachesMisses(t *testing.T) {
	base := t.TempDir()
	c := NewSharedCarichiLocator(New(base, DefaultParams(), nil), nil)

	assert.Nil(t, c.Find("30001"))

	testutil.TouchWorkbooks(t, base, "30001.xlsx")
	assert.Nil(t, c.Find("30001"), "misses are cached for the life of the instance")
}

func TestSharedCarichiLocatorBulkLookup(t *testing.T) {
	base := t.TempDir()
	testutil.TouchWorkbooks(t, base, "30001.xlsx")

	c := NewSharedCarichiLocator(New(base, DefaultParams(), nil), nil)
	got := c.BulkLookup([]string{"30001", "99999"})

	require.Len(t, got, 2)
	require.NotNil(t, got["30001"])
	assert.Equal(t, "30001", got["30001"].MatchedTestNumber)
	assert.Nil(t, got["99999"])

	assert.Same(t, got["30001"], c.FindForPerformanceTest("30001"))
}

func TestSharedCarichiLocatorEmptyIdentifier(t *testing.T) {
	c := NewSharedCarichiLocator(New(t.TempDir(), DefaultParams(), nil), nil)
	assert.True(t, c.Available())
	assert.Nil(t, c.Find("()"))
}
