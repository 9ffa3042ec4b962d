package config

import "fmt"

// Validate checks cfg for internally inconsistent settings.
func Validate(cfg *Config) error {
	if cfg.Server.Address == "" {
		return fmt.Errorf("server.address must not be empty")
	}
	if (cfg.Server.TLSCert == "") != (cfg.Server.TLSKey == "") {
		return fmt.Errorf("server.tlsCert and server.tlsKey must be set together")
	}
	switch cfg.Storage.Driver {
	case "memory":
	case "postgres":
		if cfg.Storage.DSN == "" {
			return fmt.Errorf("storage.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("storage.driver %q is not recognized", cfg.Storage.Driver)
	}
	if len(cfg.Schema.ResourceTypes) == 0 {
		return fmt.Errorf("schema.resourceTypes must list at least one resource type")
	}
	return nil
}
