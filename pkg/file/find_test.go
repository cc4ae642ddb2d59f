package file

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindRecentAfter(t *testing.T) {
	dir := t.TempDir()

	oldFile := filepath.Join(dir, "old.vtt")
	require.NoError(t, os.WriteFile(oldFile, []byte("old"), 0644))
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(oldFile, past, past))

	newFile := filepath.Join(dir, "new.vtt")
	require.NoError(t, os.WriteFile(newFile, []byte("new"), 0644))

	found, err := FindRecentAfter(dir, time.Now().Add(-time.Minute))
	require.NoError(t, err)
	assert.Equal(t, []string{newFile}, found)
}

func TestFindRecentAfter_MissingDir(t *testing.T) {
	_, err := FindRecentAfter(filepath.Join(t.TempDir(), "absent"), time.Now())
	assert.Error(t, err)
}
