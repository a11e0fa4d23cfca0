package repository

import (
	"time"

	"envrepo/internal/datasource"
	"envrepo/internal/environment"
	"envrepo/internal/reconciler"
)

// Kind tags the variant of a State.
type Kind string

const (
	KindLoading Kind = "Loading"
	KindReady   Kind = "Ready"
	KindFailed  Kind = "Failed"
)

// State is the aggregate value published after every pass.
//
// The Environments slice is shared between readers and must not be modified.
type State struct {
	Kind Kind

	// Environments is the fetched list, in fetch order, when Kind is
	// KindReady. When Kind is KindFailed it is the list of the last Ready
	// state, or nil if there never was one.
	Environments []*environment.Environment

	// Err is set when Kind is KindFailed.
	Err error

	// CycleID identifies the pass that produced this state.
	CycleID string

	// At is when the state was published.
	At time.Time
}

// IDs returns the ids of Environments in order.
func (s State) IDs() []string {
	ids := make([]string, len(s.Environments))
	for i, env := range s.Environments {
		ids[i] = env.ID()
	}
	return ids
}

const (
	// DefaultRefreshInterval is used when Config.RefreshInterval is zero.
	DefaultRefreshInterval = 10 * time.Minute

	// DefaultFetchTimeout is used when Config.FetchTimeout is zero.
	DefaultFetchTimeout = time.Minute
)

// Config holds the repository's collaborators and timing.
type Config struct {
	// DataSource is required.
	DataSource datasource.DataSource

	// RefreshInterval is the time between periodic passes.
	RefreshInterval time.Duration

	// FetchTimeout bounds each fetch. Negative disables the bound.
	FetchTimeout time.Duration

	ViewFactory environment.ViewFactory
	Localizer   environment.Localizer

	// Metrics is optional.
	Metrics *reconciler.Metrics

	// OnReady, if set, is called once after the first Ready state is published.
	OnReady func()
}
