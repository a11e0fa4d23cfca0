package datasource

import (
	"context"
	"fmt"
	"os"

	"sigs.k8s.io/yaml"

	"envrepo/internal/environment"
	"envrepo/pkg/logging"
)

// fileDocument is the on-disk layout read by File:
//
//	environments:
//	  - id: dev-01
//	    name: Backend Environment
//	    host: example.example.com
//	    productCodes: [IU, WS]
type fileDocument struct {
	Environments []environment.Config `json:"environments"`
}

// File reads environment configs from a YAML or JSON document.
type File struct {
	path string
}

// NewFile creates a File source for path.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the document path.
func (f *File) Path() string {
	return f.path
}

// Fetch implements DataSource. A missing file, a malformed document or an
// invalid record fails the whole fetch.
func (f *File) Fetch(ctx context.Context) ([]environment.Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, NewFetchError(fmt.Sprintf("cannot read %s", f.path), err)
	}

	var doc fileDocument
	if err := yaml.UnmarshalStrict(data, &doc); err != nil {
		return nil, NewFetchError(fmt.Sprintf("cannot parse %s", f.path), err)
	}

	for i, cfg := range doc.Environments {
		if err := cfg.Validate(); err != nil {
			return nil, NewFetchError(fmt.Sprintf("invalid environment #%d in %s", i+1, f.path), err)
		}
	}

	logging.Debug("FileSource", "Read %d environments from %s", len(doc.Environments), f.path)
	return doc.Environments, nil
}
