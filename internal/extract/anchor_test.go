package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"motorlab/pkg/contracts/domain"
)

func TestClassifyLabel(t *testing.T) {
	tests := []struct {
		name       string
		normalized string
		want       string
	}{
		{"media", "media", domain.RowMedia},
		{"abbreviated med", "med", domain.RowMedia},
		{"media pesata", "mediapesata", domain.RowMedia},
		{"embedded media", "valoremedia", domain.RowMedia},
		{"min", "min", domain.RowMin},
		{"minimo", "minimo", domain.RowMin},
		{"minimi", "minimi", domain.RowMin},
		{"max", "max", domain.RowMax},
		{"massimo", "massimo", domain.RowMax},
		{"massimi", "massimi", domain.RowMax},
		{"plain header text", "portata", ""},
		{"medie is not media", "condizionimedie", ""},
		{"minuti is not min", "minuti", ""},
		{"massa is not max", "massa", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyLabel(tt.normalized))
		})
	}
}

func TestNearestHeaderAbove(t *testing.T) {
	headers := []headerRow{
		{row: 3, columns: map[string]int{"Watt": 2}},
		{row: 10, columns: map[string]int{"Watt": 4}},
	}

	anchor, ok := nearestHeaderAbove(headers, 4)
	assert.True(t, ok)
	assert.Equal(t, 3, anchor.row)

	// A label on the header row itself anchors to the header above it.
	anchor, ok = nearestHeaderAbove(headers, 10)
	assert.True(t, ok)
	assert.Equal(t, 3, anchor.row)

	anchor, ok = nearestHeaderAbove(headers, 11)
	assert.True(t, ok)
	assert.Equal(t, 10, anchor.row)

	_, ok = nearestHeaderAbove(headers, 2)
	assert.False(t, ok)

	_, ok = nearestHeaderAbove(nil, 5)
	assert.False(t, ok)
}

func TestRowScan(t *testing.T) {
	g := &grid{rows: [][]string{{"", "note", "Media "}}}

	assert.Equal(t, domain.RowMedia, rowScan{maxCols: 3}.scan(g, 1))
	assert.Equal(t, "", rowScan{maxCols: 2}.scan(g, 1), "label beyond the column limit must not classify")
	assert.Equal(t, "", rowScan{maxCols: 3}.scan(g, 2), "row outside the grid")
}

func TestFirstColumnScan(t *testing.T) {
	g := &grid{rows: [][]string{
		{"Media su 3 prove"},
		{"", "Media"},
		{"Min"},
	}}

	assert.Equal(t, domain.RowMedia, firstColumnScan{}.scan(g, 1))
	assert.Equal(t, "", firstColumnScan{}.scan(g, 2), "media outside the first column must not classify")
	assert.Equal(t, "", firstColumnScan{}.scan(g, 3), "collaudo sheets only ever label the media row")
}
