package cmd

import (
	"fmt"

	"envrepo/internal/config"
	"envrepo/internal/datasource"
	"envrepo/internal/environment"
	"envrepo/internal/reconciler"
	"envrepo/internal/repository"
)

func newDataSource(cfg config.EnvrepoConfig) (datasource.DataSource, error) {
	switch cfg.Source.Type {
	case config.SourceTypeStatic, "":
		return datasource.NewStatic(nil), nil
	case config.SourceTypeFile:
		return datasource.NewFile(cfg.Source.Path), nil
	default:
		return nil, fmt.Errorf("unsupported source type %q", cfg.Source.Type)
	}
}

func newViewFactory(cfg config.EnvrepoConfig) environment.ViewFactory {
	if cfg.View.Type == config.ViewTypeSSH {
		return environment.SSHViewFactory{DefaultUsername: cfg.View.DefaultUsername}
	}
	return environment.ManualViewFactory{}
}

func newLocalizer(cfg config.EnvrepoConfig) environment.Localizer {
	if cfg.Localization.Templates {
		return environment.NewTemplateLocalizer(cfg.Localization.Vars)
	}
	return environment.PassthroughLocalizer{}
}

// newRepository wires a repository from the loaded configuration. metrics
// and onReady may be nil.
func newRepository(cfg config.EnvrepoConfig, metrics *reconciler.Metrics, onReady func()) (*repository.Repository, error) {
	source, err := newDataSource(cfg)
	if err != nil {
		return nil, err
	}

	return repository.New(repository.Config{
		DataSource:      source,
		RefreshInterval: cfg.RefreshInterval,
		FetchTimeout:    cfg.FetchTimeout,
		ViewFactory:     newViewFactory(cfg),
		Localizer:       newLocalizer(cfg),
		Metrics:         metrics,
		OnReady:         onReady,
	})
}
