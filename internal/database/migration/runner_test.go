package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
}

func TestLoad_SortsAndSkipsForeignFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "V2__courses.sql", "CREATE TABLE b ();")
	writeFile(t, dir, "V1__init.sql", "  CREATE TABLE a ();\n")
	writeFile(t, dir, "README.md", "ignored")

	migs, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, migs, 2)
	assert.Equal(t, int64(1), migs[0].Version)
	assert.Equal(t, "init", migs[0].Name)
	assert.Equal(t, "CREATE TABLE a ();", migs[0].SQL)
	assert.Len(t, migs[0].Checksum, 64)
	assert.Equal(t, int64(2), migs[1].Version)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "V1__empty.sql", "   ")
	_, err := Load(dir)
	assert.ErrorContains(t, err, "empty migration file")

	dup := t.TempDir()
	writeFile(t, dup, "V1__a.sql", "SELECT 1;")
	writeFile(t, dup, "V1__b.sql", "SELECT 2;")
	_, err = Load(dup)
	assert.ErrorContains(t, err, "duplicate migration version")

	migs, err := Load(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Empty(t, migs)
}

func TestPending(t *testing.T) {
	migs := []Migration{
		{Version: 1, Name: "init", Checksum: "aaa"},
		{Version: 2, Name: "next", Checksum: "bbb"},
	}

	out, err := Pending(migs, map[int64]string{1: "aaa"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, int64(2), out[0].Version)

	_, err = Pending(migs, map[int64]string{1: "edited"})
	assert.ErrorIs(t, err, ErrChecksumMismatch)
}

func TestLoad_RepositoryMigrations(t *testing.T) {
	migs, err := Load(filepath.Join("..", "..", "..", "migrations"))
	require.NoError(t, err)
	require.NotEmpty(t, migs)
	assert.Equal(t, int64(1), migs[0].Version)
}
