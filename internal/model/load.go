package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/roach88/filterql/internal/filterir"
)

// Format is a definition file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatCUE  Format = "cue"
)

// FormatFor picks a format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".cue":
		return FormatCUE, nil
	default:
		return "", fmt.Errorf("unsupported model file extension %q (want .yaml, .yml, .json or .cue)", filepath.Ext(path))
	}
}

// Load reads and validates a definition file.
func Load(path string) (*Set, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model file: %w", err)
	}

	set, err := ParseBytes(data, format, path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return set, nil
}

// ParseBytes decodes data in the given format and validates it. filename is
// only used in CUE error positions.
func ParseBytes(data []byte, format Format, filename string) (*Set, error) {
	var root filterir.Element

	switch format {
	case FormatYAML:
		var doc yaml.Node
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, filterir.NewConfigError("", "invalid YAML: %v", err)
		}
		if err := filterir.RejectYAMLAliases(&doc); err != nil {
			return nil, err
		}
		root = filterir.YAMLElement(&doc)
	case FormatJSON:
		if !gjson.ValidBytes(data) {
			return nil, filterir.NewConfigError("", "invalid JSON")
		}
		root = filterir.JSONElement(gjson.ParseBytes(data))
	case FormatCUE:
		var err error
		root, err = compileCUE(data, filename)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported model format %q", format)
	}

	return Parse(root)
}
