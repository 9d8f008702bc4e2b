package courses

import (
	"testing"

	"github.com/stretchr/testify/assert"

	_ "github.com/lumen-lms/lumen/testing"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Introduction to Go":        "introduction-to-go",
		"  C++ & Systems!  ":        "c-systems",
		"Économie pour débutants":   "economie-pour-debutants",
		"Data   Science 101":        "data-science-101",
		"--- ":                      "",
		"Üben: Praxis für Anfänger": "uben-praxis-fur-anfanger",
	}
	for title, want := range cases {
		assert.Equal(t, want, Slugify(title), title)
	}
}
