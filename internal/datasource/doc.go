// Package datasource contains the port through which envrepo obtains
// environment configs, and the sources shipped with it.
//
// A DataSource only fetches. It returns plain environment.Config values and
// never builds Environment objects; identity and lifecycle belong to the
// reconciling cache.
//
// Sources:
//
//   - Static: a fixed in-memory list, by default two mocked environments
//   - File: a YAML or JSON document on disk
//
// Watcher complements File: it reports changes to the document so the
// repository can refresh without waiting for the next tick.
package datasource
