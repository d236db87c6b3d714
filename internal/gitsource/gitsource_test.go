package gitsource

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsURL(t *testing.T) {
	assert.True(t, IsURL("https://github.com/a/b"))
	assert.True(t, IsURL("git@github.com:a/b.git"))
	assert.True(t, IsURL("/srv/decks.git"))
	assert.False(t, IsURL("./decks"))
	assert.False(t, IsURL("/home/me/notes"))
}

func TestLocalPath(t *testing.T) {
	testCases := []struct {
		url  string
		want string
	}{
		{"https://github.com/acme/decks.git", filepath.Join("repos", "github.com", "acme", "decks")},
		{"http://example.org/team/cards", filepath.Join("repos", "example.org", "team", "cards")},
		{"git@github.com:acme/decks.git", filepath.Join("repos", "github.com", "acme", "decks")},
	}
	for _, tc := range testCases {
		t.Run(tc.url, func(t *testing.T) {
			got, err := LocalPath("repos", tc.url)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	for _, bad := range []string{"not a url", "https://", "git@nohost"} {
		_, err := LocalPath("repos", bad)
		assert.Error(t, err, bad)
	}
}
