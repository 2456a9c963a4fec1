package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetIndexFlags() {
	indexTitle = ""
	indexDescription = ""
	indexURL = ""
	indexPublished = ""
}

func TestIndexCmd_Use(t *testing.T) {
	assert.Equal(t, "index", indexCmd.Use)
	assert.Equal(t, "add [type] [id]", indexAddCmd.Use)
	assert.Equal(t, "rm [type] [id]", indexRemoveCmd.Use)
	assert.Equal(t, "ls [type]", indexListCmd.Use)
}

func TestIndexAdd_RequiresTitle(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()
	defer resetIndexFlags()

	_, err := execute("index", "add", "blog", "post-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title")
}

func TestIndexAddListRemove(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()
	defer resetIndexFlags()

	out, err := execute("index", "add", "blog", "react-tips",
		"--title", "React Tips",
		"--description", "Ten practical patterns",
		"--url", "/blog/react-tips")
	require.NoError(t, err)
	assert.Contains(t, out, "Indexed blog/react-tips")

	out, err = execute("index", "ls", "blog")
	require.NoError(t, err)
	assert.Contains(t, out, "react-tips")
	assert.Contains(t, out, "React Tips")
	assert.Contains(t, out, "1 record(s)")

	out, err = execute("index", "rm", "blog", "react-tips")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed blog/react-tips")

	out, err = execute("index", "ls", "blog")
	require.NoError(t, err)
	assert.Contains(t, out, "No records.")
}

func TestIndexAdd_RejectsBadPublished(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()
	defer resetIndexFlags()

	_, err := execute("index", "add", "blog", "post-1",
		"--title", "Post", "--published", "yesterday")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing --published")
}

func TestIndexRemove_NotFound(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()
	defer resetIndexFlags()

	_, err := execute("index", "rm", "blog", "missing")
	assert.Error(t, err)
}

func TestIndexAdd_InvalidatesSearchCache(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()
	defer resetIndexFlags()
	defer resetSearchFlags()

	// Prime the cache with a search that misses the future record.
	out, err := execute("search", "zig")
	require.NoError(t, err)
	assert.Contains(t, out, "No results found.")

	_, err = execute("index", "add", "blog", "zig-intro", "--title", "Zig Intro")
	require.NoError(t, err)

	// The same search now sees the new record instead of the cached miss.
	out, err = execute("search", "zig")
	require.NoError(t, err)
	assert.Contains(t, out, "Zig Intro")
}
