// Package importer turns statement files into transaction create params.
package importer

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/MrJamesThe3rd/finboard/internal/importer/cgd"
	"github.com/MrJamesThe3rd/finboard/internal/importer/native"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

type Format string

const (
	// FormatNative is the CSV this dashboard exports.
	FormatNative Format = "native"
	// FormatCGD is a Caixa Geral de Depósitos statement export.
	FormatCGD Format = "cgd"
)

var Formats = []Format{FormatNative, FormatCGD}

func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(Formats, f) {
		return "", fmt.Errorf("unknown import format: %q", s)
	}

	return f, nil
}

type Parser interface {
	Parse(r io.Reader) ([]transaction.CreateParams, error)
}

type Service struct {
	parsers map[Format]Parser
}

// NewService wires the built-in parsers. account labels rows of formats
// that do not carry an account column.
func NewService(account string) *Service {
	return &Service{
		parsers: map[Format]Parser{
			FormatNative: native.NewParser(account),
			FormatCGD:    cgd.NewParser(account),
		},
	}
}

func (s *Service) Import(format Format, r io.Reader) ([]transaction.CreateParams, error) {
	p, ok := s.parsers[format]
	if !ok {
		return nil, fmt.Errorf("unknown import format: %q", format)
	}

	return p.Parse(r)
}
