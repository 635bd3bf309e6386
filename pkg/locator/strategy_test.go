package locator

import (
	"errors"
	"fmt"
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstMatch(t *testing.T) {
	candidates := []Candidate{
		ByRole(*playwright.AriaRoleLink, "Sign in"),
		ByText("Sign in"),
		BySelector(`a[href*="login"]`),
	}

	t.Run("first visible wins", func(t *testing.T) {
		var probed []int
		idx, err := firstMatch(candidates, func(i int, c Candidate) (bool, error) {
			probed = append(probed, i)
			return true, nil
		})

		require.NoError(t, err)
		assert.Equal(t, 0, idx)
		assert.Equal(t, []int{0}, probed, "later candidates must not be probed after a hit")
	})

	t.Run("falls through to a later candidate", func(t *testing.T) {
		idx, err := firstMatch(candidates, func(i int, c Candidate) (bool, error) {
			return i == 2, nil
		})

		require.NoError(t, err)
		assert.Equal(t, 2, idx)
	})

	t.Run("probe errors advance the search", func(t *testing.T) {
		idx, err := firstMatch(candidates, func(i int, c Candidate) (bool, error) {
			if i == 0 {
				return false, fmt.Errorf("malformed selector")
			}
			return true, nil
		})

		require.NoError(t, err)
		assert.Equal(t, 1, idx)
	})

	t.Run("exhaustion returns ErrNotFound", func(t *testing.T) {
		timeout := errors.New("Timeout 2000ms exceeded")
		probes := 0
		_, err := firstMatch(candidates, func(i int, c Candidate) (bool, error) {
			probes++
			return false, timeout
		})

		assert.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, len(candidates), probes, "every candidate gets exactly one probe")
	})

	t.Run("empty candidate list", func(t *testing.T) {
		_, err := firstMatch(nil, func(i int, c Candidate) (bool, error) {
			t.Fatal("probe must not run for an empty list")
			return false, nil
		})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestCandidateString(t *testing.T) {
	tests := []struct {
		candidate Candidate
		want      string
	}{
		{ByRole(*playwright.AriaRoleButton, "Submit"), `role=button[name="Submit"]`},
		{ByText("Log in"), `text="Log in"`},
		{ByPlaceholder("Email"), `placeholder="Email"`},
		{BySelector(`input[type="email"]`), `css="input[type=\"email\"]"`},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.candidate.String())
	}
}

func TestLoginCandidateLists(t *testing.T) {
	lists := map[string][]Candidate{
		"login entry":         LoginEntry(),
		"email field":         EmailField(),
		"password field":      PasswordField(),
		"submit control":      SubmitControl(),
		"logged-in indicator": LoggedInIndicator(),
	}

	for name, list := range lists {
		t.Run(name, func(t *testing.T) {
			require.NotEmpty(t, list)
			for _, c := range list {
				switch c.Kind {
				case KindRole:
					assert.NotEmpty(t, c.Name, "role candidates need an accessible name")
				case KindText, KindPlaceholder, KindSelector:
					assert.NotEmpty(t, c.Value)
				default:
					t.Fatalf("unknown candidate kind %q", c.Kind)
				}
			}
		})
	}

	// Semantic candidates rank ahead of attribute heuristics.
	assert.Equal(t, KindRole, LoginEntry()[0].Kind)
	assert.Equal(t, KindSelector, LoginEntry()[len(LoginEntry())-1].Kind)
}
