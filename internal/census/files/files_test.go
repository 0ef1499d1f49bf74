package files

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte("a;b\n1;2\n"), 0o600))

	src, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, path, src.AbsPath)
	assert.Equal(t, Hash([]byte("a;b\n1;2\n")), src.Hash)
	assert.Len(t, src.Hash, 64)

	_, err = Read(filepath.Join(dir, "missing.csv"))
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = Read(dir)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "directory")
}

func TestDecoder(t *testing.T) {
	for _, name := range []string{"", "UTF-8", "utf8", "cp1252", "latin1"} {
		_, err := Decoder(name)
		assert.NoError(t, err, name)
	}

	_, err := Decoder("ebcdic")
	assert.True(t, errors.Is(err, ErrDecode))
}

func TestDecode(t *testing.T) {
	df, err := Decode([]byte("\xEF\xBB\xBFNO_IES;QT_DOC_TOTAL\nUNIVERSIDADE;\nNaN;7\n"), "utf-8")
	require.NoError(t, err)

	assert.Equal(t, []string{"NO_IES", "QT_DOC_TOTAL"}, df.Names())
	assert.Equal(t, []string{"", "7"}, df.Col("QT_DOC_TOTAL").Records())
	assert.Equal(t, "NaN", df.Col("NO_IES").Records()[1])
}

func TestDecode_Charsets(t *testing.T) {
	latin, err := charmap.Windows1252.NewEncoder().Bytes([]byte("nome_municipio\nLuziânia\n"))
	require.NoError(t, err)

	_, err = Decode(latin, "utf-8")
	assert.True(t, errors.Is(err, ErrDecode))

	df, err := Decode(latin, "windows-1252")
	require.NoError(t, err)
	assert.Equal(t, []string{"Luziânia"}, df.Col("nome_municipio").Records())
}

func TestDecode_RaggedRows(t *testing.T) {
	df, err := Decode([]byte("a;b;c\n1;2;3\n4\n"), "utf-8")
	require.NoError(t, err)
	assert.Equal(t, 2, df.Nrow())
	assert.Equal(t, []string{"3", ""}, df.Col("c").Records())

	_, err = Decode([]byte("a;b\n1;2;3\n"), "utf-8")
	assert.True(t, errors.Is(err, ErrDecode))
}

func TestDecode_DuplicateHeader(t *testing.T) {
	_, err := Decode([]byte("a;b;a\n1;2;3\n"), "utf-8")
	assert.True(t, errors.Is(err, ErrDuplicateColumn))
	assert.Contains(t, err.Error(), "a")
}
