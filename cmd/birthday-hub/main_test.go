package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/birthday-hub/internal/config"
)

func TestRosterSource(t *testing.T) {
	assert.Equal(t, config.SourceModeEmbedded, rosterSource("").Mode)

	src := rosterSource("/srv/team.toml")
	assert.Equal(t, config.SourceModeLocal, src.Mode)
	assert.Equal(t, "/srv/team.toml", src.LocalPath)
}

func TestListUpcoming(t *testing.T) {
	path := filepath.Join(t.TempDir(), "team.toml")
	data := "[[person]]\nname = \"Ada Lovelace\"\ndob = \"10-Dec\"\n\n[[person]]\nname = \"Alan Turing\"\ndob = \"23-Jun\"\n"
	require.NoError(t, os.WriteFile(path, []byte(data), config.FilePermUserRW))

	var out bytes.Buffer
	require.NoError(t, listUpcoming(context.Background(), &out, 5, rosterSource(path)))

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "DATE"))
	assert.Contains(t, out.String(), "Ada Lovelace")
	assert.Contains(t, out.String(), "Alan Turing")
}

func TestListUpcoming_Limit(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, listUpcoming(context.Background(), &out, 3, rosterSource("")))

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	assert.Len(t, lines, 4, "Header plus three rows from the built-in roster")
}

func TestListUpcoming_Errors(t *testing.T) {
	var out bytes.Buffer

	err := listUpcoming(context.Background(), &out, -1, rosterSource(""))
	assert.ErrorContains(t, err, config.ErrUpcomingCount)

	err = listUpcoming(context.Background(), &out, 5, rosterSource(filepath.Join(t.TempDir(), "missing.json")))
	assert.ErrorContains(t, err, config.ErrUpcomingList)
	assert.Empty(t, out.String())
}
