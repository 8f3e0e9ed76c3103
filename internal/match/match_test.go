package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"a", "b", 1},
		{"ab", "abc", 1},
		{"kitten", "sitting", 3},
		{"saturday", "sunday", 3},
		{"Hello", "hello", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, Levenshtein(tt.a, tt.b))
			assert.Equal(t, tt.want, Levenshtein(tt.b, tt.a))
		})
	}
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, Similarity("SpineSkeleton", "spine_skeleton"), 1e-9)
	assert.InDelta(t, 1.0, Similarity("", ""), 1e-9)
	assert.InDelta(t, 0.6, Similarity("imgae", "image"), 1e-9)
	assert.InDelta(t, 0.0, Similarity("abc", "xyz"), 1e-9)
}

func TestClosest(t *testing.T) {
	types := []string{"Image", "Atlas", "Font", "Text", "SpineSkeleton", "Sound", "Music", "Pyramid"}

	tests := []struct {
		name string
		want string
		ok   bool
	}{
		{"Imgae", "Image", true},
		{"image", "Image", true},
		{"spine-skeleton", "SpineSkeleton", true},
		{"Muzic", "Music", true},
		{"Shader", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Closest(tt.name, types)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := Closest("anything", nil)
	assert.False(t, ok)
}

func TestHint(t *testing.T) {
	assert.Equal(t, ` (did you mean "hd"?)`, Hint("hdd", []string{"base", "hd"}))
	assert.Empty(t, Hint("hd", []string{"hd"}))
	assert.Empty(t, Hint("zzzzzz", []string{"base", "hd"}))
}
