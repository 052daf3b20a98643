package domain

import (
	"maps"
	"os"
	"slices"
	"strings"
)

// SearchPathKey is the environment variable consulted for executable lookup.
const SearchPathKey = "PATH"

// DefaultLocalBin is prepended to the search path so locally installed tools win.
const DefaultLocalBin = "node_modules/.bin"

// ParseEnviron converts "KEY=VALUE" entries into a map. Entries without '=' are ignored.
func ParseEnviron(environ []string) map[string]string {
	env := make(map[string]string, len(environ))
	for _, entry := range environ {
		k, v, ok := strings.Cut(entry, "=")
		if ok {
			env[k] = v
		}
	}
	return env
}

// Environ converts an environment map into sorted "KEY=VALUE" entries.
func Environ(env map[string]string) []string {
	keys := slices.Sorted(maps.Keys(env))
	result := make([]string, 0, len(keys))
	for _, k := range keys {
		result = append(result, k+"="+env[k])
	}
	return result
}

// MergeEnv returns a new map with overrides applied over base. Neither input is modified.
func MergeEnv(base, overrides map[string]string) map[string]string {
	merged := make(map[string]string, len(base)+len(overrides))
	maps.Copy(merged, base)
	maps.Copy(merged, overrides)
	return merged
}

// PrependSearchPath puts dir ahead of the existing search path.
func PrependSearchPath(dir, existing string) string {
	if existing == "" {
		return dir
	}
	return dir + string(os.PathListSeparator) + existing
}
