package envutil

import "context"

type envContextKey string

// WithEnvOverride returns a context in which readers see value for key,
// regardless of the process environment.
func WithEnvOverride(ctx context.Context, key string, value string) context.Context {
	return context.WithValue(ctx, envContextKey(key), value)
}

// WithEnvOverrides is WithEnvOverride for a whole map, e.g. one returned by LoadEnvFile.
func WithEnvOverrides(ctx context.Context, env map[string]string) context.Context {
	for k, v := range env {
		ctx = WithEnvOverride(ctx, k, v)
	}

	return ctx
}

func getEnvOverride(ctx context.Context, key string) (string, bool) {
	if ctx == nil {
		return "", false
	}

	val, ok := ctx.Value(envContextKey(key)).(string)

	return val, ok
}
