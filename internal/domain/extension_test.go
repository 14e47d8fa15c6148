package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseExtensionsNormalizes(t *testing.T) {
	set := ParseExtensions("pdf, JPG,.txt")

	assert.Equal(t, 3, set.Len())
	assert.Equal(t, []string{".jpg", ".pdf", ".txt"}, set.Strings())
	assert.True(t, set.Contains(".PDF"))
	assert.True(t, set.Contains(".jpg"))
	assert.False(t, set.Contains(".png"))
}

func TestParseExtensionsDropsEmptyAndDuplicates(t *testing.T) {
	set := ParseExtensions("pdf,,.pdf, PDF , . ,")

	assert.Equal(t, 1, set.Len())
	assert.Equal(t, []string{".pdf"}, set.Strings())
}

func TestParseExtensionsIdempotent(t *testing.T) {
	first := ParseExtensions("Pdf, jpg, .TXT")
	second := ParseExtensions(first.String())

	assert.Equal(t, first.Strings(), second.Strings())
}

func TestEmptySetMatchesNothing(t *testing.T) {
	var set ExtensionSet

	assert.Equal(t, 0, set.Len())
	assert.False(t, set.Contains(".txt"))
	assert.False(t, set.Contains(""))
}
