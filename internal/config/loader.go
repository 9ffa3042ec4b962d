package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads and parses a YAML config file, applying ${VAR} and
// ${VAR:-default} environment substitution to the raw document before
// unmarshaling, then validating the result.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := DefaultConfig()
	expanded := os.Expand(string(raw), envLookup)
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// envLookup implements os.Expand's mapping function, supporting the
// "${NAME:-default}" fallback form in addition to plain "${NAME}".
func envLookup(token string) string {
	name, def, hasDefault := token, "", false
	for i := 0; i+2 < len(token); i++ {
		if token[i] == ':' && token[i+1] == '-' {
			name, def, hasDefault = token[:i], token[i+2:], true
			break
		}
	}
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	if hasDefault {
		return def
	}
	return ""
}
