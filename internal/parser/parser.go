// Package parser splits content documents into front matter and body and
// derives text fields from Markdown bodies.
package parser

import (
	"bytes"
	"strings"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"

	"github.com/starford/packindex/internal/apperr"
)

const delimiter = "---"

var (
	yamlFormat = frontmatter.NewFormat(delimiter, delimiter, yaml.Unmarshal)
	bom        = []byte("\ufeff")
)

// Result holds the output of parsing a content document.
type Result struct {
	Metadata map[string]any
	Body     string
}

// Parse separates YAML front matter (between leading --- delimiters) from
// the Markdown body. A leading UTF-8 byte order mark is ignored. A document
// without front matter yields empty metadata and the whole content as body.
// An unterminated header or front matter that does not decode to a mapping
// is an authoring error; the returned *apperr.ContentError carries only Kind
// and Detail, the caller fills in where the document lives.
func Parse(data []byte) (*Result, error) {
	data = bytes.TrimPrefix(data, bom)
	if opensHeader(data) && !closesHeader(data) {
		return nil, &apperr.ContentError{
			Kind:   apperr.ErrMalformedMetadata,
			Detail: "front matter opened with '---' is never closed",
		}
	}

	var md map[string]any
	body, err := frontmatter.Parse(bytes.NewReader(data), &md, yamlFormat)
	if err != nil {
		return nil, &apperr.ContentError{Kind: apperr.ErrMalformedMetadata, Detail: err.Error()}
	}
	if md == nil {
		md = map[string]any{}
	}
	return &Result{
		Metadata: md,
		Body:     string(body),
	}, nil
}

// opensHeader reports whether the first non-blank line is the delimiter.
func opensHeader(data []byte) bool {
	first, _, _ := strings.Cut(strings.TrimLeft(string(data), " \t\r\n"), "\n")
	return strings.TrimRight(first, " \t\r") == delimiter
}

// closesHeader reports whether a delimiter line follows the opening one.
func closesHeader(data []byte) bool {
	_, rest, _ := strings.Cut(strings.TrimLeft(string(data), " \t\r\n"), "\n")
	for line := range strings.Lines(rest) {
		if strings.TrimRight(line, " \t\r\n") == delimiter {
			return true
		}
	}
	return false
}
