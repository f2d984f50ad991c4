package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// yamlProfile is the on-disk shape of a profile. Timeout is expressed in
// seconds to keep files editable by hand.
type yamlProfile struct {
	Name           string            `yaml:"name"`
	Description    string            `yaml:"description"`
	Endpoint       EndpointConfig    `yaml:"endpoint"`
	Fragments      []ContextFragment `yaml:"fragments"`
	MaxRetries     int               `yaml:"max_retries"`
	TimeoutSeconds int               `yaml:"timeout_seconds"`
}

// LoadProfile reads, normalizes and validates a single profile file.
func LoadProfile(path string) (AgentProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return AgentProfile{}, fmt.Errorf("read profile %s: %w", path, err)
	}
	var yp yamlProfile
	if err := yaml.Unmarshal(data, &yp); err != nil {
		return AgentProfile{}, fmt.Errorf("parse profile %s: %w", path, err)
	}
	profile := AgentProfile{
		Name:        yp.Name,
		Description: yp.Description,
		Endpoint:    yp.Endpoint,
		Fragments:   yp.Fragments,
		MaxRetries:  yp.MaxRetries,
		Timeout:     time.Duration(yp.TimeoutSeconds) * time.Second,
	}
	profile.Normalize()
	if err := profile.Validate(); err != nil {
		return AgentProfile{}, err
	}
	return profile, nil
}

// SaveProfile writes a profile to disk in the YAML shape LoadProfile reads.
func SaveProfile(path string, profile AgentProfile) error {
	yp := yamlProfile{
		Name:           profile.Name,
		Description:    profile.Description,
		Endpoint:       profile.Endpoint,
		Fragments:      profile.Fragments,
		MaxRetries:     profile.MaxRetries,
		TimeoutSeconds: int(profile.Timeout / time.Second),
	}
	data, err := yaml.Marshal(&yp)
	if err != nil {
		return fmt.Errorf("encode profile %s: %w", profile.Name, err)
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadDir loads every .yaml/.yml file in dir into a fresh in-memory store.
func LoadDir(dir string) (*InMemoryStore, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read profile dir %s: %w", dir, err)
	}
	store := NewInMemoryStore()
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		profile, err := LoadProfile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		if err := store.Put(profile); err != nil {
			return nil, err
		}
	}
	return store, nil
}
