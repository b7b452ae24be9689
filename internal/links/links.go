// Package links maps diagnostic codes to their documentation pages. It is
// presentation-only: the parsing engine never consults it, the renderers
// and the dashboard do.
package links

import (
	"bytes"
	_ "embed"
	"fmt"
	"strconv"

	"github.com/spf13/viper"
)

//go:embed links.yaml
var linksYAML []byte

// Table is a read-only lookup from diagnostic code to documentation URL,
// one namespace per diagnostic category.
type Table struct {
	compilerWarnings map[int]string
	compilerErrors   map[int]string
	linkerWarnings   map[int]string
	linkerErrors     map[int]string
}

// Load reads the embedded link table. An optional overlay file lets users
// extend or replace entries.
func Load(overlayPath string) (*Table, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(linksYAML)); err != nil {
		return nil, fmt.Errorf("embedded link table: %w", err)
	}
	if overlayPath != "" {
		v.SetConfigFile(overlayPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("link table overlay: %w", err)
		}
	}

	t := &Table{
		compilerWarnings: codeMap(v.GetStringMapString("compiler_warnings")),
		compilerErrors:   codeMap(v.GetStringMapString("compiler_errors")),
		linkerWarnings:   codeMap(v.GetStringMapString("linker_warnings")),
		linkerErrors:     codeMap(v.GetStringMapString("linker_errors")),
	}
	return t, nil
}

// codeMap converts viper's string-keyed map to integer diagnostic codes,
// skipping malformed keys.
func codeMap(m map[string]string) map[int]string {
	out := make(map[int]string, len(m))
	for k, url := range m {
		code, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		out[code] = url
	}
	return out
}

// CompilerWarningLink returns the documentation URL for a C-prefixed
// compiler warning code.
func (t *Table) CompilerWarningLink(code int) (string, bool) {
	url, ok := t.compilerWarnings[code]
	return url, ok
}

// CompilerErrorLink returns the documentation URL for a compiler error code.
func (t *Table) CompilerErrorLink(code int) (string, bool) {
	url, ok := t.compilerErrors[code]
	return url, ok
}

// LinkerWarningLink returns the documentation URL for a linker warning code.
func (t *Table) LinkerWarningLink(code int) (string, bool) {
	url, ok := t.linkerWarnings[code]
	return url, ok
}

// LinkerErrorLink returns the documentation URL for a linker error code.
func (t *Table) LinkerErrorLink(code int) (string, bool) {
	url, ok := t.linkerErrors[code]
	return url, ok
}
