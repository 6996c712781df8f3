package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile reads path and decodes it on top of Default.
func LoadFile(path string) (*Config, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML on top of Default and validates the result.
// Keys absent from data keep their default values.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	if len(bytes.TrimSpace(data)) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Load returns the configuration from path, or from the first default file
// that exists when path is empty. With no file at all, Default is used.
func Load(path string) (*Config, string, error) {
	if path != "" {
		cfg, err := LoadFile(path)
		return cfg, path, err
	}

	found, err := FindConfigFile()
	if err != nil {
		cfg := Default()
		return cfg, "", cfg.Validate()
	}

	cfg, err := LoadFile(found)
	return cfg, found, err
}

// FindConfigFile returns the first entry of DefaultConfigFiles that exists.
func FindConfigFile() (string, error) {
	for _, candidate := range DefaultConfigFiles {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("none of %v found: %w", DefaultConfigFiles, fs.ErrNotExist)
}

// IsNotFound reports whether err came from a missing config file.
func IsNotFound(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// Marshal renders cfg as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return buf.Bytes(), nil
}
