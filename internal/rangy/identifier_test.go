package rangy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildID(t *testing.T) {
	d := NewDescriptor(Entry{Start: 12, End: 17, ID: "tmp", StyleClass: "highlight-yellow"})

	id, err := BuildID("moby", 3, d)
	require.NoError(t, err)
	assert.Equal(t, "moby_3_12_17", id)

	again, err := BuildID("moby", 3, d)
	require.NoError(t, err)
	assert.Equal(t, id, again)
}

func TestBuildID_ClampsPage(t *testing.T) {
	d := NewDescriptor(Entry{Start: 0, End: 5})

	negative, err := BuildID("b", -1, d)
	require.NoError(t, err)
	zero, err := BuildID("b", 0, d)
	require.NoError(t, err)

	assert.Equal(t, "b_0_0_5", negative)
	assert.Equal(t, zero, negative)
}

func TestBuildID_UsesFirstEntry(t *testing.T) {
	d := NewDescriptor(Entry{Start: 1, End: 2}, Entry{Start: 8, End: 9})

	id, err := BuildID("b", 4, d)
	require.NoError(t, err)
	assert.Equal(t, "b_4_1_2", id)
}

func TestBuildID_Errors(t *testing.T) {
	_, err := BuildID("b", 1, NewDescriptor())
	assert.ErrorIs(t, err, ErrEmptyDescriptor)

	_, err = BuildID("", 1, NewDescriptor(Entry{Start: 1, End: 2}))
	assert.ErrorIs(t, err, ErrMissingBookID)
}

func TestRewriteID(t *testing.T) {
	t.Run("rewrites only the matching entry", func(t *testing.T) {
		out, err := RewriteID(twoEntries, "h2", "book_1_20_30")
		require.NoError(t, err)
		assert.Equal(t, "type:textContent|5$10$h1$yellow$|20$30$book_1_20_30$green$", out)
	})

	t.Run("does not touch substrings in other fields", func(t *testing.T) {
		// the id "1" appears inside offsets and the other id
		in := "type:textContent|1$11$h1$c1$|21$31$1$c1$"
		out, err := RewriteID(in, "1", "new")
		require.NoError(t, err)
		assert.Equal(t, "type:textContent|1$11$h1$c1$|21$31$new$c1$", out)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := RewriteID(twoEntries, "nope", "x")
		assert.ErrorIs(t, err, ErrEntryNotFound)
	})

	t.Run("malformed input", func(t *testing.T) {
		_, err := RewriteID("nonsense", "h1", "x")
		assert.ErrorIs(t, err, ErrMalformedDescriptor)
	})
}
