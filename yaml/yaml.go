// Package yaml loads backend catalogs from YAML files.
//
// A catalog file lists backends under a versioned root:
//
//	version: 1
//	backends:
//	  - id: sonar-pro
//	    display_name: Sonar Pro
//	    quota: medium
//	    quality: highest
//	    priority: 1
//
// Unknown keys are rejected. Backends with equal priority keep file order.
package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fwojciec/cascade"
	"gopkg.in/yaml.v3"
)

const version = 1

type catalogFile struct {
	Version  int          `yaml:"version"`
	Backends []backendDTO `yaml:"backends"`
}

type backendDTO struct {
	ID          string `yaml:"id"`
	DisplayName string `yaml:"display_name"`
	Description string `yaml:"description"`
	Quota       string `yaml:"quota"`
	Quality     string `yaml:"quality"`
	Priority    int    `yaml:"priority"`
}

// UnmarshalCatalog parses a catalog document.
func UnmarshalCatalog(data []byte) (*cascade.Catalog, error) {
	var f catalogFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty catalog document: %w", cascade.ErrValidation)
		}
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if f.Version != version {
		return nil, fmt.Errorf("unsupported catalog version: %d", f.Version)
	}
	if len(f.Backends) == 0 {
		return nil, fmt.Errorf("catalog has no backends: %w", cascade.ErrValidation)
	}

	backends := make([]cascade.Backend, len(f.Backends))
	for i, dto := range f.Backends {
		b, err := unmarshalBackend(dto)
		if err != nil {
			return nil, fmt.Errorf("backend %d: %w", i, err)
		}
		backends[i] = b
	}
	return cascade.NewCatalog(backends...)
}

// LoadCatalog reads a catalog from a YAML file.
func LoadCatalog(path string) (*cascade.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return UnmarshalCatalog(data)
}

func unmarshalBackend(dto backendDTO) (cascade.Backend, error) {
	b := cascade.Backend{
		ID:          dto.ID,
		DisplayName: dto.DisplayName,
		Description: dto.Description,
		Priority:    dto.Priority,
	}
	if b.DisplayName == "" {
		b.DisplayName = dto.ID
	}
	if dto.Quota != "" {
		q, err := cascade.ParseQuota(dto.Quota)
		if err != nil {
			return cascade.Backend{}, err
		}
		b.Quota = q
	}
	if dto.Quality != "" {
		q, err := cascade.ParseQuality(dto.Quality)
		if err != nil {
			return cascade.Backend{}, err
		}
		b.Quality = q
	}
	return b, nil
}
