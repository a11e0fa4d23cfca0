// Package environment defines the configuration record of a remote
// environment and the identity-stable Environment object that wraps it.
//
// # Config and Environment
//
// A Config is a plain value produced by a data source. It describes the
// desired state of one environment: identity, display name, connection
// hints, available IDE product codes and project paths.
//
// An Environment is created once per distinct Config.ID and lives until the
// reconciling cache evicts it. Consumers hold on to *Environment values and
// subscribe to them, so the same pointer must survive every refresh in which
// its id is still present. Updates are applied in place:
//
//	env, _ := environment.New(cfg, environment.ManualViewFactory{}, environment.PassthroughLocalizer{})
//	unsubscribe := env.Subscribe(func(s environment.Snapshot) {
//	    fmt.Println(s.Config.Name, s.State)
//	})
//	defer unsubscribe()
//
//	_ = env.UpdateConfig(newCfg)            // same id required
//	env.UpdateState(environment.StateError, "health check failed")
//
// # Concurrency
//
// Every Environment guards its own fields with its own lock. Reads never wait
// for subscriber callbacks; mutations are delivered to subscribers in the
// order they were applied. Callbacks must not mutate the environment that
// invoked them.
package environment
