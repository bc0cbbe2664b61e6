package manifest

import (
	"context"
	"fmt"

	"github.com/viant/afs"
	"gopkg.in/yaml.v3"
)

// document is the on-disk YAML shape loaded by Load, grounded on the
// yaml-tagged structs throughout the teacher's analyzer/linage package.
type document struct {
	Activities  []string            `yaml:"activities,omitempty"`
	Services    []string            `yaml:"services,omitempty"`
	Receivers   []string            `yaml:"receivers,omitempty"`
	Providers   []string            `yaml:"providers,omitempty"`
	Authorities map[string]string   `yaml:"authorities,omitempty"`
	Exported    map[string]bool     `yaml:"exported,omitempty"`
	Permissions map[string][]string `yaml:"permissions,omitempty"`
}

// Load reads a declared-components manifest from url using afs (the same
// storage abstraction the teacher repository uses in analyzer/package.go to
// walk and download source trees), returning a Static Analysis.
//
// url may point at any scheme afs.Service supports (file://, s3://, gs://,
// ...), so a manifest produced by an upstream extraction step can be read
// without the core needing to know where it lives.
func Load(ctx context.Context, url string) (*Static, error) {
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("manifest: download %s: %w", url, err)
	}
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("manifest: parse %s: %w", url, err)
	}
	return &Static{
		Activities:           doc.Activities,
		Services:             doc.Services,
		Receivers:            doc.Receivers,
		Providers:            doc.Providers,
		Authorities:          doc.Authorities,
		ExportedComponents:   doc.Exported,
		ComponentPermissions: doc.Permissions,
	}, nil
}
