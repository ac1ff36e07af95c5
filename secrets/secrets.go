// Package secrets resolves credential references from configuration.
// A reference is either a literal value, "env:NAME" for an environment
// variable, or "file:/path" for the first line of a file. Resolution is
// fail-closed: a named source that is missing or empty is an error, so a
// typo never silently sends an empty key.
package secrets

import (
	"fmt"
	"os"
	"strings"
)

type Resolver struct {
	// Aliases maps short names to environment variable names, so config
	// can say "env:openai" with aliases {"openai": "OPENAI_API_KEY"}.
	Aliases map[string]string
}

// Resolve turns a credential reference into its value. A plain string
// without a recognized scheme is returned as-is; empty references
// resolve to empty without error so optional credentials stay optional.
func (r *Resolver) Resolve(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", nil
	}
	switch {
	case strings.HasPrefix(ref, "env:"):
		return r.fromEnv(strings.TrimPrefix(ref, "env:"))
	case strings.HasPrefix(ref, "file:"):
		return fromFile(strings.TrimPrefix(ref, "file:"))
	default:
		return ref, nil
	}
}

func (r *Resolver) fromEnv(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("empty env reference")
	}
	if r != nil && r.Aliases != nil {
		if v, ok := r.Aliases[name]; ok && strings.TrimSpace(v) != "" {
			name = strings.TrimSpace(v)
		}
	}
	val, ok := os.LookupEnv(name)
	if !ok {
		return "", fmt.Errorf("secret not found (env var %q is not set)", name)
	}
	if strings.TrimSpace(val) == "" {
		return "", fmt.Errorf("secret is empty (env var %q)", name)
	}
	return val, nil
}

func fromFile(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("empty file reference")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read secret file: %w", err)
	}
	val := strings.TrimSpace(strings.SplitN(string(data), "\n", 2)[0])
	if val == "" {
		return "", fmt.Errorf("secret file %q is empty", path)
	}
	return val, nil
}
