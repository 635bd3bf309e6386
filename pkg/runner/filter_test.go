package runner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFilter(t *testing.T) {
	t.Run("invalid include pattern", func(t *testing.T) {
		_, err := NewFilter([]string{"[unclosed"}, nil)
		assert.ErrorContains(t, err, "invalid include pattern")
	})

	t.Run("invalid exclude pattern", func(t *testing.T) {
		_, err := NewFilter(nil, []string{"[unclosed"})
		assert.ErrorContains(t, err, "invalid exclude pattern")
	})
}

func TestFilterMatches(t *testing.T) {
	login := Scenario{Name: "login menu item links to the login page", Tags: []string{"smoke", "nav"}}
	trade := Scenario{Name: "trade section lists instruments", Tags: []string{"smoke", "trade"}}
	footer := Scenario{Name: "footer exposes its link set", Tags: []string{"marketing"}}

	t.Run("empty filter includes everything", func(t *testing.T) {
		f, err := NewFilter(nil, nil)
		require.NoError(t, err)

		assert.True(t, f.Matches(login))
		assert.True(t, f.Matches(trade))
		assert.True(t, f.Matches(footer))
	})

	t.Run("include by name glob", func(t *testing.T) {
		f, err := NewFilter([]string{"trade*"}, nil)
		require.NoError(t, err)

		assert.True(t, f.Matches(trade))
		assert.False(t, f.Matches(login))
	})

	t.Run("include by tag", func(t *testing.T) {
		f, err := NewFilter([]string{"smoke"}, nil)
		require.NoError(t, err)

		assert.True(t, f.Matches(login))
		assert.True(t, f.Matches(trade))
		assert.False(t, f.Matches(footer))
	})

	t.Run("exclude wins over include", func(t *testing.T) {
		f, err := NewFilter([]string{"smoke"}, []string{"trade"})
		require.NoError(t, err)

		assert.True(t, f.Matches(login))
		assert.False(t, f.Matches(trade))
	})

	t.Run("exclude only", func(t *testing.T) {
		f, err := NewFilter(nil, []string{"marketing"})
		require.NoError(t, err)

		assert.True(t, f.Matches(login))
		assert.False(t, f.Matches(footer))
	})
}
