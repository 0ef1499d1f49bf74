package load

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a load failure.
type Kind int

const (
	KindUnexpected Kind = iota
	KindNotFound
	KindParse
	KindSchema
)

var kindNames = map[Kind]string{
	KindUnexpected: "UnexpectedError",
	KindNotFound:   "NotFound",
	KindParse:      "ParseError",
	KindSchema:     "SchemaError",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Sentinels for errors.Is.
var (
	ErrNotFound   = errors.New("dataset not found")
	ErrParse      = errors.New("dataset could not be parsed")
	ErrSchema     = errors.New("dataset schema mismatch")
	ErrUnexpected = errors.New("unexpected error loading dataset")
)

var kindSentinels = map[Kind]error{
	KindUnexpected: ErrUnexpected,
	KindNotFound:   ErrNotFound,
	KindParse:      ErrParse,
	KindSchema:     ErrSchema,
}

// Error is the only error type Load returns.
type Error struct {
	Kind    Kind
	Path    string
	Missing []string
	Err     error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindNotFound:
		return fmt.Sprintf("o arquivo não foi encontrado; o caminho absoluto esperado é: %s", e.Path)
	case KindParse:
		return fmt.Sprintf("erro ao ler %s (separador ';', codificação 'utf-8'): %v", e.Path, e.Err)
	case KindSchema:
		if len(e.Missing) == 0 {
			return fmt.Sprintf("esquema inválido em %s: %v", e.Path, e.Err)
		}
		return fmt.Sprintf("as seguintes colunas essenciais não foram encontradas no arquivo CSV: %s", strings.Join(e.Missing, ", "))
	default:
		return fmt.Sprintf("ocorreu um erro inesperado ao carregar ou processar os dados: %v", e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return kindSentinels[e.Kind] == target
}

func newError(kind Kind, path string, err error) *Error {
	return &Error{Kind: kind, Path: path, Err: err}
}

// KindOf returns the kind of err, or KindUnexpected when err is not a load
// error.
func KindOf(err error) Kind {
	var le *Error
	if errors.As(err, &le) {
		return le.Kind
	}
	return KindUnexpected
}
