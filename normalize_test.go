package worklens

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumeric(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  float64
		ok    bool
	}{
		{"integer", "42", 42, true},
		{"float", "3.5", 3.5, true},
		{"negative", "-7.25", -7.25, true},
		{"scientific", "1e3", 1000, true},
		{"surrounding whitespace", "  99 ", 99, true},
		{"empty", "", 0, false},
		{"whitespace only", "   ", 0, false},
		{"text", "n/a", 0, false},
		{"trailing junk", "42k", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := parseNumeric(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestNormalizeNumeric(t *testing.T) {
	t.Parallel()

	raw := newFrame(
		newHeader([]string{ColName, ColSalary, ColAge}),
		[]Record{
			newRecord([]string{"Alice", "50000", "29"}),
			newRecord([]string{"Bob", "not-a-number", "41"}),
			newRecord([]string{"Carol", "70000", ""}),
		},
	)

	f := normalizeNumeric(raw, []string{ColSalary, ColAge})

	t.Run("parsable cells get a numeric view", func(t *testing.T) {
		t.Parallel()

		v, ok := f.Value(0, ColSalary)
		require.True(t, ok)
		assert.Equal(t, 50000.0, v)

		v, ok = f.Value(1, ColAge)
		require.True(t, ok)
		assert.Equal(t, 41.0, v)
	})

	t.Run("unparsable cell becomes missing marker, not zero", func(t *testing.T) {
		t.Parallel()

		_, ok := f.Value(1, ColSalary)
		assert.False(t, ok)
		_, ok = f.Value(2, ColAge)
		assert.False(t, ok)

		// The raw text is untouched.
		cell, found := f.Cell(1, ColSalary)
		require.True(t, found)
		assert.Equal(t, "not-a-number", cell)
	})

	t.Run("rows with missing markers are kept", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, 3, f.Len())
	})

	t.Run("columns outside the designated set have no numeric view", func(t *testing.T) {
		t.Parallel()

		_, ok := f.Value(0, ColName)
		assert.False(t, ok)
	})

	t.Run("input frame is not modified", func(t *testing.T) {
		t.Parallel()

		_, ok := raw.Value(0, ColSalary)
		assert.False(t, ok, "raw frame must stay unnormalized")
	})
}
