package environment

import (
	"fmt"
	"maps"
	"slices"
)

// DefaultSSHPort is used when a Config carries a host but no port.
const DefaultSSHPort = 22

// Config is an immutable snapshot of one environment's desired state as
// delivered by a data source.
type Config struct {
	// ID is the stable primary key. It is never reassigned.
	ID string `json:"id"`

	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	// Connection hints. None of them are used to open a connection here.
	Host     string `json:"host,omitempty"`
	Port     int    `json:"port,omitempty"`
	Username string `json:"username,omitempty"`

	// ProductCodes lists IDE product codes available in the environment, in order.
	ProductCodes []string `json:"productCodes,omitempty"`

	// ProjectPaths lists project paths in the environment, in order.
	ProjectPaths []string `json:"projectPaths,omitempty"`

	// Tags holds free-form metadata such as "region" or "type".
	Tags map[string]string `json:"tags,omitempty"`
}

// Equal reports whether c and other are structurally equal. Sequence fields
// are compared in order, tags as an unordered mapping. A nil and an empty
// collection are equal.
func (c Config) Equal(other Config) bool {
	return c.ID == other.ID &&
		c.Name == other.Name &&
		c.Description == other.Description &&
		c.Host == other.Host &&
		c.Port == other.Port &&
		c.Username == other.Username &&
		slices.Equal(c.ProductCodes, other.ProductCodes) &&
		slices.Equal(c.ProjectPaths, other.ProjectPaths) &&
		maps.Equal(c.Tags, other.Tags)
}

// Clone returns a deep copy of c so that callers cannot mutate a stored
// config through shared slices or maps.
func (c Config) Clone() Config {
	out := c
	out.ProductCodes = slices.Clone(c.ProductCodes)
	out.ProjectPaths = slices.Clone(c.ProjectPaths)
	out.Tags = maps.Clone(c.Tags)
	return out
}

// Validate checks the invariants a data source must uphold.
func (c Config) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("environment config has empty id")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("environment %s: port %d out of range", c.ID, c.Port)
	}
	return nil
}

// SSHPort returns the configured port, or DefaultSSHPort when none is set.
func (c Config) SSHPort() int {
	if c.Port == 0 {
		return DefaultSSHPort
	}
	return c.Port
}
