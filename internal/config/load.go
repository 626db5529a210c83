// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/spf13/afero"
)

var (
	// ErrReadConfig is returned when the config file cannot be read.
	ErrReadConfig = errors.New("failed to read config file")
	// ErrParseConfig is returned when the config file cannot be decoded.
	ErrParseConfig = errors.New("failed to parse config file")
)

// FsFactory returns the filesystem config files are read from.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}

// LocalFileNames are looked for in the working directory, in order.
var LocalFileNames = []string{".gpu-batch.yaml", ".gpu-batch.yml", "gpu-batch.hcl"}

// UserFileName is looked for in the user's home directory when no local file exists.
var UserFileName = filepath.Join(".config", "gpu-batch", "config.yaml")

// Discover returns the first config file that exists in dir, then in home.
// It returns an empty string if there is none.
func Discover(dir, home string) string {
	fs := FsFactory()

	candidates := make([]string, 0, len(LocalFileNames)+1)
	for _, n := range LocalFileNames {
		candidates = append(candidates, filepath.Join(dir, n))
	}

	if home != "" {
		candidates = append(candidates, filepath.Join(home, UserFileName))
	}

	for _, c := range candidates {
		if info, err := fs.Stat(c); err == nil && !info.IsDir() {
			return c
		}
	}

	return ""
}

// Load returns the defaults overlaid with the file at path, if path is not empty.
// Files ending in .hcl are decoded as HCL, anything else as YAML.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}

	content, err := afero.ReadFile(FsFactory(), path)
	if err != nil {
		return nil, errors.Join(ErrReadConfig, err)
	}

	if filepath.Ext(path) == ".hcl" {
		err = decodeHCL(content, path, cfg)
	} else {
		err = decodeYAML(content, cfg)
	}

	if err != nil {
		return nil, errors.Join(ErrParseConfig, fmt.Errorf("%s: %w", path, err))
	}

	return cfg, nil
}

func decodeYAML(content []byte, cfg *Config) error {
	if len(bytes.TrimSpace(content)) == 0 {
		return nil
	}

	return yaml.UnmarshalWithOptions(content, cfg, yaml.DisallowUnknownField())
}

// YAML renders cfg as a YAML document.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
