package files

import (
	"bytes"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Delimiter separates fields in the census export.
const Delimiter = ';'

// DefaultFileName is the export name the dashboard looks for when no path is
// configured.
const DefaultFileName = "table_EDUCACAO_SUPERIOR_RIDE_DF.csv"

var (
	// ErrNotFound means the path does not resolve to a readable regular file.
	ErrNotFound = errors.New("source file not found")
	// ErrDecode means the bytes could not be decoded or tokenized.
	ErrDecode = errors.New("source file could not be decoded")
	// ErrDuplicateColumn means the header names the same column twice.
	ErrDuplicateColumn = errors.New("duplicate column in header")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Source is the raw content of one census file.
type Source struct {
	Path    string
	AbsPath string
	Content []byte
	Hash    string
}

// Hash returns the hex SHA-256 of content.
func Hash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Read loads the file at path. Any stat/open/read failure wraps ErrNotFound
// and names the absolute path that was expected.
func Read(path string) (Source, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return Source{}, fmt.Errorf("%w: expected file at %s: %v", ErrNotFound, absPath, err)
	}
	if info.IsDir() {
		return Source{}, fmt.Errorf("%w: expected file at %s, found a directory", ErrNotFound, absPath)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return Source{}, fmt.Errorf("%w: failed to read %s: %v", ErrNotFound, absPath, err)
	}

	return Source{
		Path:    path,
		AbsPath: absPath,
		Content: content,
		Hash:    Hash(content),
	}, nil
}

// Decoder returns the text decoder for a configured charset name.
// "utf-8" (or "") returns nil: the content is validated, not transcoded.
func Decoder(name string) (*encoding.Decoder, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return nil, nil
	case "windows-1252", "cp1252":
		// INEP microdata dumps are often re-saved in this charset.
		return charmap.Windows1252.NewDecoder(), nil
	case "iso-8859-1", "latin1", "latin-1":
		return charmap.ISO8859_1.NewDecoder(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported encoding %q", ErrDecode, name)
	}
}

// Decode tokenizes content on Delimiter into a DataFrame where every column
// is a string series. Type conversion is left to the normalizer so that empty
// and malformed cells are under its control. Data lines shorter than the
// header are padded with empty cells; longer ones are rejected.
func Decode(content []byte, charset string) (dataframe.DataFrame, error) {
	dec, err := Decoder(charset)
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	var reader io.Reader
	if dec == nil {
		if !utf8.Valid(content) {
			return dataframe.DataFrame{}, fmt.Errorf("%w: content is not valid UTF-8", ErrDecode)
		}
		reader = bytes.NewReader(bytes.TrimPrefix(content, utf8BOM))
	} else {
		reader = dec.Reader(bytes.NewReader(content))
	}

	records, err := readRecords(reader)
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues([]string{}),
	)
	if df.Error() != nil {
		return dataframe.DataFrame{}, fmt.Errorf("%w: %v", ErrDecode, df.Error())
	}

	return df, nil
}

func readRecords(r io.Reader) ([][]string, error) {
	csvReader := csv.NewReader(r)
	csvReader.Comma = Delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: file is empty", ErrDecode)
	}

	header := records[0]
	seen := make(map[string]bool, len(header))
	for _, name := range header {
		if seen[name] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateColumn, name)
		}
		seen[name] = true
	}

	for i := 1; i < len(records); i++ {
		rec := records[i]
		switch {
		case len(rec) > len(header):
			return nil, fmt.Errorf("%w: data record %d has %d fields, header has %d", ErrDecode, i, len(rec), len(header))
		case len(rec) < len(header):
			padded := make([]string, len(header))
			copy(padded, rec)
			records[i] = padded
		}
	}
	return records, nil
}
