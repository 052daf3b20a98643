package ports

// ExecutableResolver locates a command on a search path.
//
//go:generate go run go.uber.org/mock/mockgen -source=resolver.go -destination=mocks/mock_resolver.go -package=mocks
type ExecutableResolver interface {
	// LookPath resolves name using the PATH found in env.
	// Relative search path entries are resolved against dir.
	// It returns an error wrapping domain.ErrExecutableNotFound when nothing matches.
	LookPath(name string, env map[string]string, dir string) (string, error)
}
