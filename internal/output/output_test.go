package output

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kk-code-lab/rseek/internal/search"
)

var sample = []search.Match{
	{FileName: "a.txt", Line: 1, Column: 0},
	{FileName: "日本.md", Line: 120, Column: 14},
}

func TestRenderPlain(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sample, FormatPlain))

	assert.Equal(t,
		"Found a match in file a.txt, line 1, column 0!\n"+
			"Found a match in file 日本.md, line 120, column 14!\n",
		buf.String())
}

func TestRenderTableAlignsByDisplayWidth(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sample, FormatTable))

	assert.Equal(t,
		"FILE     LINE  COLUMN\n"+
			"a.txt    1     0\n"+
			"日本.md  120   14\n",
		buf.String())
}

func TestRenderSanitisesFileNames(t *testing.T) {
	var buf bytes.Buffer
	matches := []search.Match{{FileName: "evil\x1b[2J.txt", Line: 2, Column: 3}}
	require.NoError(t, Render(&buf, matches, FormatPlain))

	assert.Equal(t, "Found a match in file evil?[2J.txt, line 2, column 3!\n", buf.String())
}

func TestRenderEmpty(t *testing.T) {
	for _, format := range []Format{FormatPlain, FormatTable} {
		var buf bytes.Buffer
		require.NoError(t, Render(&buf, nil, format))
		assert.Empty(t, buf.String(), format)
	}
}

func TestRenderUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Render(&buf, sample, Format("xml")))
}

func TestParseFormat(t *testing.T) {
	got, err := ParseFormat(" TABLE ")
	require.NoError(t, err)
	assert.Equal(t, FormatTable, got)

	got, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatPlain, got)

	_, err = ParseFormat("json")
	assert.Error(t, err)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "matches.txt")

	require.NoError(t, WriteFile(path, sample[:1], FormatPlain))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Found a match in file a.txt, line 1, column 0!\n", string(data))
}
