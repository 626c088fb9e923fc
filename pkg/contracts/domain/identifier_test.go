package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTestID(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		want      string
		wantAlias bool
	}{
		{
			name:      "plain numeric identifier",
			raw:       "30001",
			want:      "30001",
			wantAlias: false,
		},
		{
			name:      "lowercase alias is uppercased",
			raw:       "26178a",
			want:      "26178A",
			wantAlias: true,
		},
		{
			name:      "dashes and spaces stripped",
			raw:       " 26178-A ",
			want:      "26178A",
			wantAlias: true,
		},
		{
			name:      "interior punctuation stripped",
			raw:       "26.178/a",
			want:      "26178A",
			wantAlias: true,
		},
		{
			name:      "empty input",
			raw:       "",
			want:      "",
			wantAlias: false,
		},
		{
			name:      "only punctuation",
			raw:       "--- ",
			want:      "",
			wantAlias: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := NormalizeTestID(tt.raw)
			assert.Equal(t, tt.want, id.String())
			assert.Equal(t, tt.wantAlias, id.IsAlias())
			assert.Equal(t, tt.want == "", id.IsZero())
		})
	}
}

func TestNormalizeTestIDIdempotent(t *testing.T) {
	for _, raw := range []string{"30001", " 26178-A ", "abc 12 3", ""} {
		once := NormalizeTestID(raw)
		twice := NormalizeTestID(once.String())
		assert.Equal(t, once, twice, "normalizing %q twice must not change the token", raw)
	}
}

func TestTestIDForms(t *testing.T) {
	base := NormalizeTestID("30001")
	alias := NormalizeTestID("30001A")

	assert.Equal(t, alias, base.AliasForm())
	assert.Equal(t, base, alias.BaseForm())

	// Already in the requested form: unchanged.
	assert.Equal(t, alias, alias.AliasForm())
	assert.Equal(t, base, base.BaseForm())

	// A bare alias marker reduces to the zero identifier.
	assert.True(t, NormalizeTestID("A").BaseForm().IsZero())
	assert.True(t, TestID{}.AliasForm().IsZero())
}
