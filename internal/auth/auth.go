// Package auth protects the mutating endpoints with static API keys.
package auth

import (
	"context"
	"fmt"
	"strings"
)

// Principal identifies the caller behind an API key.
type Principal struct {
	Name string
}

type APIKeyValidator interface {
	Validate(ctx context.Context, apiKey string) (Principal, bool)
}

// StaticAPIKeyValidator resolves keys from a config-supplied list.
type StaticAPIKeyValidator struct {
	keys map[string]Principal
}

// NewStaticAPIKeyValidator parses a comma-separated list of key:name
// entries. The name is optional; a bare key gets the name "default".
func NewStaticAPIKeyValidator(spec string) (*StaticAPIKeyValidator, error) {
	validator := &StaticAPIKeyValidator{keys: map[string]Principal{}}
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return validator, nil
	}

	for _, entry := range strings.Split(spec, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		key, name, _ := strings.Cut(entry, ":")
		key = strings.TrimSpace(key)
		name = strings.TrimSpace(name)
		if key == "" {
			return nil, fmt.Errorf("invalid static key entry %q: empty key", entry)
		}
		if name == "" {
			name = "default"
		}
		validator.keys[key] = Principal{Name: name}
	}
	return validator, nil
}

func (v *StaticAPIKeyValidator) Validate(_ context.Context, apiKey string) (Principal, bool) {
	principal, ok := v.keys[apiKey]
	return principal, ok
}

// Empty reports whether no keys are configured.
func (v *StaticAPIKeyValidator) Empty() bool {
	return len(v.keys) == 0
}
