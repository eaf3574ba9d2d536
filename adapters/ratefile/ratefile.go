// Package ratefile loads rate tables from JSON, YAML or HCL files.
package ratefile

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"tour-quote/core/rates"
	qerrors "tour-quote/internal/errors"
	"tour-quote/internal/logging"
)

// Format is a rate file encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatHCL  Format = "hcl"
)

// FormatFor infers the encoding from a file extension
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".hcl":
		return FormatHCL, nil
	}
	return "", qerrors.NotSupported("rate file extension " + filepath.Ext(path))
}

// Load reads and decodes a rate file
func Load(path string) (rates.Tables, error) {
	format, err := FormatFor(path)
	if err != nil {
		return rates.Tables{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return rates.Tables{}, qerrors.NotFound("rate file", path)
		}
		return rates.Tables{}, qerrors.Rates("failed to read rate file", err).WithContext("path", path)
	}
	return Decode(data, format, path)
}

// Decode parses rate tables in the given encoding. filename only labels
// diagnostics.
func Decode(data []byte, format Format, filename string) (rates.Tables, error) {
	var t rates.Tables
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&t); err != nil {
			return rates.Tables{}, qerrors.Parsing("invalid JSON rate file", err).WithContext("file", filename)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &t); err != nil {
			return rates.Tables{}, qerrors.Parsing("invalid YAML rate file", err).WithContext("file", filename)
		}
	case FormatHCL:
		decoded, err := decodeHCL(data, filename)
		if err != nil {
			return rates.Tables{}, err
		}
		t = decoded
	default:
		return rates.Tables{}, qerrors.NotSupported("rate file format " + string(format))
	}
	return t, nil
}

// LoadRepository loads a rate file and validates it into a repository.
// Coercions are logged and returned; they never fail the load.
func LoadRepository(path string) (*rates.Repository, []rates.Issue, error) {
	t, err := Load(path)
	if err != nil {
		return nil, nil, err
	}
	repo, issues := rates.NewRepository(t)
	for _, issue := range issues {
		logging.Warn("rate table coerced",
			zap.String("table", issue.Table),
			zap.String("key", issue.Key),
			zap.String("issue", issue.Message),
		)
	}
	logging.Info("rate tables loaded",
		zap.String("path", path),
		zap.Int("hotel_rates", len(t.HotelRates)),
		zap.Int("special_rates", len(t.SpecialRates)),
		zap.Int("issues", len(issues)),
	)
	return repo, issues, nil
}
