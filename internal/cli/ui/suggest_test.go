package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"Target", "Target", 0},
		{"Targt", "Target", 1},
		{"héllo", "hello", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, Distance(tt.a, tt.b))
			assert.Equal(t, tt.want, Distance(tt.b, tt.a))
		})
	}
}

func TestSuggest(t *testing.T) {
	candidates := []string{"Target", "Project", "Property", "Marker"}

	t.Run("closest first", func(t *testing.T) {
		assert.Equal(t, []string{"Target"}, Suggest("Targt", candidates, 0))
	})

	t.Run("case insensitive", func(t *testing.T) {
		assert.Equal(t, []string{"Project"}, Suggest("project", candidates, 1))
	})

	t.Run("ties break by name", func(t *testing.T) {
		assert.Equal(t, []string{"Bar", "Car", "Tag"}, Suggest("Tar", []string{"Tag", "Car", "Bar"}, 1))
	})

	t.Run("no match", func(t *testing.T) {
		assert.Empty(t, Suggest("Zzz", candidates, 1))
	})

	t.Run("limit", func(t *testing.T) {
		got := Suggest("x", []string{"a", "b", "c", "d"}, 1)
		assert.Len(t, got, MaxSuggestions)
		assert.Equal(t, []string{"a", "b", "c"}, got)
	})
}
