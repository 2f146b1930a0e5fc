package cas

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprint_DeterministicAndDistinct(t *testing.T) {
	a := Fingerprint([]byte("hello"))
	b := Fingerprint([]byte("hello"))
	c := Fingerprint([]byte("world"))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestFormatHash_ParseHash_RoundTrip(t *testing.T) {
	h := Fingerprint([]byte("hello"))
	encoded := FormatHash(h)
	assert.Len(t, encoded, 64)

	decoded, err := ParseHash(encoded)
	require.NoError(t, err)
	assert.Equal(t, h, decoded)
}

func TestParseHash_RejectsWrongLength(t *testing.T) {
	_, err := ParseHash("deadbeef")
	assert.Error(t, err)
}

func TestStore_Store_IsContentAddressedAndIdempotent(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)

	url1, err := store.Store([]byte("hello"), "txt")
	require.NoError(t, err)

	url2, err := store.Store([]byte("hello"), "txt")
	require.NoError(t, err)
	assert.Equal(t, url1, url2, "identical bytes must produce the same URL")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "exactly one file must exist on disk for identical content")

	url3, err := store.Store([]byte("world"), "txt")
	require.NoError(t, err)
	assert.NotEqual(t, url1, url3)
}

func TestStore_Store_LeavesNoTempFilesBehind(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)

	_, err := store.Store([]byte("payload"), "bin")
	require.NoError(t, err)

	matches, err := filepath.Glob(filepath.Join(dir, ".tmp-*"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestStore_URLPrefix_DefaultsToHash(t *testing.T) {
	store := New(t.TempDir())
	url, err := store.Store([]byte("x"), "css")
	require.NoError(t, err)
	assert.True(t, len(url) > len("/hash/") && url[:6] == "/hash/")
}
