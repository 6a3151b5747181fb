package pgsql

import (
	"testing"

	"github.com/falconsoft3d/falconerp/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestOrderedByLineID(t *testing.T) {
	lines := []domain.JournalLine{
		{LineID: "c"},
		{LineID: "a"},
		{LineID: "b"},
	}

	ordered := orderedByLineID(lines)

	assert.Equal(t, []string{"a", "b", "c"}, []string{ordered[0].LineID, ordered[1].LineID, ordered[2].LineID})
	// The input slice keeps the order the caller built it in.
	assert.Equal(t, []string{"c", "a", "b"}, []string{lines[0].LineID, lines[1].LineID, lines[2].LineID})
}

func TestOrderedByLineIDEmpty(t *testing.T) {
	assert.Empty(t, orderedByLineID(nil))
}
