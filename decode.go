package configs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// DecodeJSON decodes a JSON document into a raw value tree.
func DecodeJSON(data []byte) (any, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("configs: json decode failed: %w", err)
	}
	return raw, nil
}

// DecodeTOML decodes a TOML document into a raw value tree.
func DecodeTOML(data []byte) (any, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("configs: toml decode failed: %w", err)
	}
	return raw, nil
}

// DecodeYAML decodes a YAML document into a raw value tree.
func DecodeYAML(data []byte) (any, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("configs: yaml decode failed: %w", err)
	}
	return raw, nil
}

// LoadFile reads a .toml, .json, .yaml or .yml file into a raw value tree.
func LoadFile(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		return DecodeTOML(data)
	case ".json":
		return DecodeJSON(data)
	case ".yaml", ".yml":
		return DecodeYAML(data)
	default:
		return nil, fmt.Errorf("unsupported config file extension %q", ext)
	}
}

// IntoFile loads path and converts it into dst.
func (c *Converter) IntoFile(dst any, path string) error {
	raw, err := LoadFile(path)
	if err != nil {
		return err
	}
	if err := c.Into(dst, raw); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
