package slug

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"Sunrise Towers":        "sunrise-towers",
		"  Lake View  ":         "lake-view",
		"O'Brien's \"Place\"":   "obriens-place",
		"Tower-21 / Phase #2":   "tower-21-phase-2",
		"---":                   "",
		"":                      "",
		"ALL CAPS!!!":           "all-caps",
		"a  b\t c":              "a-b-c",
		"‘curly’ “quotes”": "curly-quotes",
	}
	for in, want := range cases {
		assert.Equal(t, want, Normalize(in), "input %q", in)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Sunrise Towers", "O'Brien's Place", "a--b--c", "  spaced  out  ",
		"123 Main St.", "!!!", "déjà vu",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestGenerateSequence(t *testing.T) {
	existing := map[string]bool{}
	oracle := func(c string) (bool, error) { return existing[c], nil }

	var got []string
	for i := 0; i < 3; i++ {
		s, err := Generate("Sunrise Towers", "project", oracle)
		require.NoError(t, err)
		existing[s] = true
		got = append(got, s)
	}
	assert.Equal(t, []string{"sunrise-towers", "sunrise-towers-1", "sunrise-towers-2"}, got)
}

func TestGenerateOwnSlugNotACollision(t *testing.T) {
	// The update-path oracle excludes the entity's own id, so probing the
	// current slug reports it as free.
	oracle := func(c string) (bool, error) { return false, nil }
	s, err := Generate("lake-view", "project", oracle)
	require.NoError(t, err)
	assert.Equal(t, "lake-view", s)
}

func TestGenerateEmptySeedFallsBack(t *testing.T) {
	oracle := func(c string) (bool, error) { return false, nil }

	s, err := Generate("!!!", "developer", oracle)
	require.NoError(t, err)
	assert.Equal(t, "developer", s)
}

func TestGenerateExhaustionFallsBackToTimestamp(t *testing.T) {
	oracle := func(c string) (bool, error) { return true, nil }

	s, err := Generate("Sunrise Towers", "project", oracle)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(s, "sunrise-towers-"), "got %q", s)

	var ts int64
	_, err = fmt.Sscanf(s, "sunrise-towers-%d", &ts)
	require.NoError(t, err)
	assert.Greater(t, ts, int64(50))
}

func TestGenerateOraclePropagatesError(t *testing.T) {
	boom := errors.New("store unreachable")
	calls := 0
	oracle := func(c string) (bool, error) {
		calls++
		return false, boom
	}

	_, err := Generate("Sunrise Towers", "project", oracle)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls, "no retry on oracle failure")
}
