package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		input          string
		preserveSpaces bool
		want           string
	}{
		{name: "diacritics and punctuation", input: "Café!! 123", want: "cafe123"},
		{name: "lowercase", input: "TOMATO", want: "tomato"},
		{name: "combining marks", input: "Crème Brûlée", want: "cremebrulee"},
		{name: "spaces stripped by default", input: "Main  Dish", want: "maindish"},
		{name: "spaces preserved", input: "Main   Dish", preserveSpaces: true, want: "main_dish"},
		{name: "outer spaces trimmed", input: "  Crème Brûlée ", preserveSpaces: true, want: "creme_brulee"},
		{name: "symbols between spaces", input: "salt & pepper", preserveSpaces: true, want: "salt_pepper"},
		{name: "empty", input: "", want: ""},
		{name: "only symbols", input: "!!--??", want: ""},
		{name: "non latin letters kept", input: "日本 料理", want: "日本料理"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Normalize(tt.input, tt.preserveSpaces))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"Café!! 123", "Crème Brûlée", "2nd Course", "soup!!"} {
		once := Normalize(in, false)
		assert.Equal(t, once, Normalize(once, false), in)
	}
}

func TestMakeIdentifierSafe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{input: "Main Dish", want: "maindish"},
		{input: "2nd Course", want: "x2ndcourse"},
		{input: "", want: "x"},
		{input: "!!!", want: "x"},
		{input: "Côte d'Ivoire", want: "cotedivoire"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got := MakeIdentifierSafe(tt.input)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.True(t, strings.HasPrefix(MakeIdentifierSafe("2nd Course"), IdentifierSentinel))
}
