package environment

import (
	"context"
	"fmt"
	"slices"
)

// IDEStub describes an IDE that can be started in an environment.
type IDEStub struct {
	ProductCode string

	// Running is nil when the running state is not known.
	Running *bool
}

// Project is a project directory inside an environment.
type Project struct {
	Path string
}

// ContentsView describes what an environment offers to the user.
type ContentsView interface {
	IDEs() []IDEStub
	Projects() []Project
}

// ViewFactory builds the contents view for a config. Create may block.
type ViewFactory interface {
	Create(ctx context.Context, cfg Config) (ContentsView, error)
}

// ViewFactoryFunc adapts a function to the ViewFactory interface.
type ViewFactoryFunc func(ctx context.Context, cfg Config) (ContentsView, error)

// Create calls f(ctx, cfg).
func (f ViewFactoryFunc) Create(ctx context.Context, cfg Config) (ContentsView, error) {
	return f(ctx, cfg)
}

// ManualContentsView is a static list of IDEs and projects fixed at
// construction time.
type ManualContentsView struct {
	ides     []IDEStub
	projects []Project
}

// NewManualContentsView creates a ManualContentsView from copies of the given lists.
func NewManualContentsView(ides []IDEStub, projects []Project) *ManualContentsView {
	return &ManualContentsView{
		ides:     slices.Clone(ides),
		projects: slices.Clone(projects),
	}
}

func (v *ManualContentsView) IDEs() []IDEStub {
	return slices.Clone(v.ides)
}

func (v *ManualContentsView) Projects() []Project {
	return slices.Clone(v.projects)
}

// ManualViewFactory lists one IDE stub per product code and one project per
// path, in config order.
type ManualViewFactory struct{}

// Create implements ViewFactory.
func (ManualViewFactory) Create(ctx context.Context, cfg Config) (ContentsView, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return manualViewFor(cfg), nil
}

func manualViewFor(cfg Config) *ManualContentsView {
	ides := make([]IDEStub, 0, len(cfg.ProductCodes))
	for _, code := range cfg.ProductCodes {
		ides = append(ides, IDEStub{ProductCode: code})
	}
	projects := make([]Project, 0, len(cfg.ProjectPaths))
	for _, path := range cfg.ProjectPaths {
		projects = append(projects, Project{Path: path})
	}
	return &ManualContentsView{ides: ides, projects: projects}
}

// SSHContentsView carries the connection parameters a host application
// needs to reach the environment over SSH, alongside the static lists.
type SSHContentsView struct {
	*ManualContentsView

	Host     string
	Port     int
	Username string
}

// SSHViewFactory builds SSHContentsView values. Configs without a host are
// rejected. DefaultUsername is used when the config carries none.
type SSHViewFactory struct {
	DefaultUsername string
}

// Create implements ViewFactory.
func (f SSHViewFactory) Create(ctx context.Context, cfg Config) (ContentsView, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if cfg.Host == "" {
		return nil, fmt.Errorf("environment %s has no host to connect to", cfg.ID)
	}

	username := cfg.Username
	if username == "" {
		username = f.DefaultUsername
	}

	return &SSHContentsView{
		ManualContentsView: manualViewFor(cfg),
		Host:               cfg.Host,
		Port:               cfg.SSHPort(),
		Username:           username,
	}, nil
}
