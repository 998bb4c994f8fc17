package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/stallbook/catalog"
	"github.com/poiesic/stallbook/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	app := newApp()
	var out bytes.Buffer
	app.Writer = &out
	app.ErrWriter = io.Discard
	err := app.Run(append([]string{"stallbook", "--log-level", "error"}, args...))
	return out.String(), err
}

func TestSetupLogger(t *testing.T) {
	t.Run("invalid level", func(t *testing.T) {
		app := newApp()
		app.Writer = io.Discard
		err := app.Run([]string{"stallbook", "--log-level", "loud", "list", "--in-memory"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})

	t.Run("valid levels", func(t *testing.T) {
		for _, level := range []string{"debug", "INFO", "warn", "error"} {
			app := newApp()
			app.Writer = io.Discard
			assert.NoError(t, app.Run([]string{"stallbook", "--log-level", level, "list", "--in-memory"}), level)
		}
	})
}

func TestSeedAndList(t *testing.T) {
	db := filepath.Join(t.TempDir(), "db")

	out, err := run(t, "seed", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "stalls seeded: true")
	assert.Contains(t, out, "admin users seeded: true")

	out, err = run(t, "seed", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "stalls seeded: false")

	out, err = run(t, "list", "--db", db)
	require.NoError(t, err)
	for _, s := range catalog.DefaultStalls() {
		assert.Contains(t, out, s.Name)
	}

	out, err = run(t, "list", "--db", db, "--json")
	require.NoError(t, err)
	var stalls []core.Stall
	require.NoError(t, json.Unmarshal([]byte(out), &stalls))
	assert.Equal(t, catalog.DefaultStalls(), stalls)
}

func TestRateCommand(t *testing.T) {
	db := filepath.Join(t.TempDir(), "db")
	stall := catalog.DefaultStalls()[0]
	item := stall.Menu[0].Items[1]

	out, err := run(t, "rate", "--db", db, "--stall", stall.ID, "--rating", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "(13 votes)")

	out, err = run(t, "rate", "--db", db, "--stall", stall.ID, "--item", item.ID, "--rating", "5")
	require.NoError(t, err)
	assert.Contains(t, out, item.Name)
	assert.Contains(t, out, "(5 votes)")

	_, err = run(t, "rate", "--db", db, "--stall", stall.ID, "--rating", "7")
	assert.ErrorIs(t, err, core.ErrValidationFailed)

	_, err = run(t, "rate", "--db", db, "--stall", "missing", "--rating", "3")
	assert.ErrorIs(t, err, catalog.ErrStallNotFound)

	_, err = run(t, "rate", "--db", db, "--stall", stall.ID, "--item", "missing", "--rating", "3")
	assert.ErrorIs(t, err, catalog.ErrMenuItemNotFound)

	_, err = run(t, "rate", "--db", db, "--rating", "3")
	assert.Error(t, err)
}

func TestImportCommand(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "db")
	file := filepath.Join(dir, "stalls.json")
	doc := `[
		{"name":"Kaya Toast","cuisine":"Local","category":"Breakfast","description":"Toast","imageUrl":"https://example.com/k.jpg","menu":[]},
		{"name":"","cuisine":"Local","category":"Breakfast","description":"Broken","imageUrl":"https://example.com/b.jpg","menu":[]}
	]`
	require.NoError(t, os.WriteFile(file, []byte(doc), 0644))

	out, err := run(t, "import", "--db", db, "--no-seed", "--file", file, "--pool-size", "2")
	assert.Error(t, err)
	assert.Contains(t, out, "imported 1 stalls, 1 failed")

	out, err = run(t, "list", "--db", db, "--no-seed")
	require.NoError(t, err)
	assert.Contains(t, out, "Kaya Toast")

	_, err = run(t, "import", "--db", db, "--file", filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	_, err = run(t, "import", "--db", db, "--file", file, "--pool-size", "0")
	assert.Error(t, err)
}
