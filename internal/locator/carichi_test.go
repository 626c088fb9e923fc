package locator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"motorlab/internal/shared/testutil"
)

func TestCarichiLocatorCachesHits(t *testing.T) {
	base := t.TempDir()
	testutil.TouchWorkbooks(t, base, "30001.xlsx")

	c := NewCarichiLocator(New(base, DefaultParams(), nil), nil)

	first := c.Find("30001")
	require.NotNil(t, first)

	// Remove the backing file: the cached entry must keep answering.
	require.NoError(t, os.Remove(filepath.Join(base, "30001.xlsx")))
	second := c.Find("30-001") // different spelling, same normalized key
	require.NotNil(t, second)
	assert.Same(t, first, second)
}

func TestCarichiLocatorCachesMisses(t *testing.T) {
	base := t.TempDir()
	c := NewCarichiLocator(New(base, DefaultParams(), nil), nil)

	assert.Nil(t, c.Find("30001"))

	// A file arriving later is invisible to this instance.
	testutil.TouchWorkbooks(t, base, "30001.xlsx")
	assert.Nil(t, c.Find("30001"))

	fresh := NewCarichiLocator(New(base, DefaultParams(), nil), nil)
	assert.NotNil(t, fresh.Find("30001"))
}

func TestCarichiLocatorBulkLookup(t *testing.T) {
	base := t.TempDir()
	testutil.TouchWorkbooks(t, base, "30001.xlsx", "30002A.xlsx")

	c := NewCarichiLocator(New(base, DefaultParams(), nil), nil)
	got := c.BulkLookup([]string{"30001", "30002A", "99999", "30-001"})

	require.Len(t, got, 4)
	require.NotNil(t, got["30001"])
	assert.Equal(t, "30001", got["30001"].MatchedTestNumber)
	require.NotNil(t, got["30002A"])
	assert.Equal(t, "30002A", got["30002A"].MatchedTestNumber)
	assert.Nil(t, got["99999"])
	require.NotNil(t, got["30-001"])
	assert.Same(t, got["30001"], got["30-001"], "spellings of one test share the cache entry")
}

func TestCarichiLocatorFindForPerformanceTest(t *testing.T) {
	base := t.TempDir()
	testutil.TouchWorkbooks(t, base, "26178.xlsx", "26178A.xlsx")

	c := NewCarichiLocator(New(base, DefaultParams(), nil), nil)

	got := c.FindForPerformanceTest("26178")
	require.NotNil(t, got)
	assert.Equal(t, "26178", got.MatchedTestNumber)

	got = c.FindForPerformanceTest("26178A")
	require.NotNil(t, got)
	assert.Equal(t, "26178A", got.MatchedTestNumber)
}

func TestCarichiLocatorEmptyIdentifier(t *testing.T) {
	c := NewCarichiLocator(New(t.TempDir(), DefaultParams(), nil), nil)
	assert.Nil(t, c.Find("  "))
}
