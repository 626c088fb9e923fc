package testlab

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"motorlab/internal/shared/testutil"
)

func TestInitializeLoaderMetrics(t *testing.T) {
	provider := sdkmetric.NewMeterProvider()
	defer func() { _ = provider.Shutdown(context.Background()) }()

	metrics, err := InitializeLoaderMetrics(provider.Meter("testlab-test"))
	require.NoError(t, err)
	require.NotNil(t, metrics)

	assert.NotNil(t, metrics.Lookups)
	assert.NotNil(t, metrics.LookupHits)
	assert.NotNil(t, metrics.LookupMisses)
	assert.NotNil(t, metrics.ConversionFailures)
	assert.NotNil(t, metrics.ExtractionDuration)
}

func TestSummaryLoaderRecordsMetrics(t *testing.T) {
	provider := sdkmetric.NewMeterProvider()
	defer func() { _ = provider.Shutdown(context.Background()) }()

	metrics, err := InitializeLoaderMetrics(provider.Meter("testlab-test"))
	require.NoError(t, err)

	base := t.TempDir()
	testutil.WriteWorkbook(t, filepath.Join(base, "30001.xlsx"),
		testutil.SheetDef{Name: "Scheda SR", Cells: testutil.SchedaCells()})

	loader := NewSummaryLoader(base, WithMetrics(metrics))

	// Exercise the hit, miss and raw-export recording paths.
	require.NotNil(t, loader.LoadSummary(context.Background(), "30001"))
	assert.Nil(t, loader.LoadSummary(context.Background(), "77777"))
	assert.NotEmpty(t, loader.RawSheets(context.Background(), "30001"))
	assert.Nil(t, loader.LoadSummaryFromPath(context.Background(), "30001",
		filepath.Join(t.TempDir(), "gone.xlsx")))
}
