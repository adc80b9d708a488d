// Package policy loads governance policy documents from disk and hands out
// normalized, validated policy snapshots.
package policy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"sqlgate/internal/domain"
)

// LoadOptions configures policy file loading behavior.
type LoadOptions struct {
	AllowUnknownFields bool
}

// Document is the on-disk shape of a policy file. Field names mirror the
// HTTP/CLI surface so one document format serves all entry points.
type Document struct {
	MaxRows        *uint64  `yaml:"max_rows" json:"max_rows"`
	DenyPII        bool     `yaml:"deny_pii" json:"deny_pii"`
	MaskPII        bool     `yaml:"mask_pii" json:"mask_pii"`
	BlockedColumns []string `yaml:"blocked_columns" json:"blocked_columns"`
	AllowedTables  []string `yaml:"allowed_tables" json:"allowed_tables"`
}

// ToPolicy converts the document into a normalized, validated domain policy.
func (d *Document) ToPolicy() (*domain.Policy, error) {
	p := &domain.Policy{
		MaxRows:        d.MaxRows,
		DenyPII:        d.DenyPII,
		MaskPII:        d.MaskPII,
		BlockedColumns: domain.SetFromSlice(d.BlockedColumns),
		AllowedTables:  domain.SetFromSlice(d.AllowedTables),
	}
	p.Normalize()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Load reads a policy file, rejecting unknown fields.
func Load(path string) (*domain.Policy, error) {
	return LoadWithOptions(path, LoadOptions{})
}

// LoadWithOptions reads a policy file using caller-provided loading options.
// The format is chosen by extension: .json is JSON, everything else YAML.
func LoadWithOptions(path string, opts LoadOptions) (*domain.Policy, error) {
	data, err := os.ReadFile(path) //nolint:gosec // intentional: reading user-specified policy files
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var doc Document
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := decodeJSON(data, &doc, opts); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else {
		if err := decodeYAML(data, &doc, opts); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	p, err := doc.ToPolicy()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

func decodeYAML(data []byte, target *Document, opts LoadOptions) error {
	if opts.AllowUnknownFields {
		return yaml.Unmarshal(data, target)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(target); err != nil {
		return err
	}
	return nil
}

func decodeJSON(data []byte, target *Document, opts LoadOptions) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	if !opts.AllowUnknownFields {
		decoder.DisallowUnknownFields()
	}
	return decoder.Decode(target)
}
