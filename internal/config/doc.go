// Package config loads and hot-reloads the YAML configuration for a SCIM
// service: the HTTP listener, the schema registry's resource-type
// selection, storage driver, logging, and metrics.
//
// # Loading
//
//	cfg, err := config.Load("service.yaml")
//
// Values may reference environment variables with "${VAR}" or
// "${VAR:-default}" substitution, applied before YAML parsing.
//
// # Hot reload
//
// A Manager holds the current config behind a lock and a Watcher reloads
// it whenever the file changes on disk:
//
//	mgr := config.NewManager(cfg, "service.yaml")
//	mgr.SetOnUpdate(func(old, new *config.Config) { ... })
//	w, err := config.NewWatcher(mgr)
//	go w.Run(ctx)
package config
