package registry

import (
	"fmt"
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/lepinkainen/feedreader/configs"
)

const defaultFeedsFile = "feeds.yaml"

// fileFormat is the on-disk shape of a feed list
type fileFormat struct {
	Feeds []FeedDescriptor `yaml:"feeds"`
}

// Parse builds a registry from YAML of the form `feeds: [{name, url}]`
func Parse(data []byte) (*Registry, error) {
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse feed list: %w", err)
	}
	return New(f.Feeds)
}

// Marshal encodes the registry in the same format Parse accepts
func (r *Registry) Marshal() ([]byte, error) {
	return yaml.Marshal(fileFormat{Feeds: r.All()})
}

// Default returns the registry compiled into the binary
func Default() (*Registry, error) {
	data, err := configs.EmbeddedConfigs.ReadFile(defaultFeedsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded feed list: %w", err)
	}

	r, err := Parse(data)
	if err != nil {
		return nil, err
	}

	slog.Debug("Loaded embedded feed registry", "feeds", r.Len())
	return r, nil
}
