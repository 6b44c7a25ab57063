package retry

import (
	"context"
	"fmt"
	"strings"

	"github.com/amp-labs/amp-backoff/envutil"
	amperrors "github.com/amp-labs/amp-backoff/errors"
	"github.com/amp-labs/amp-backoff/interval"
)

// PolicyFromEnv builds a Policy from environment variables:
//
//	<prefix>_MAX_ATTEMPTS   retry limit, or "unlimited"
//	<prefix>_MAX_ELAPSED    elapsed-time limit, e.g. "2m"
//	<prefix>_TIMEOUT        per-invocation timeout, e.g. "10s"
//	<prefix>_ALGORITHM ...  see interval.SpecFromEnv
//
// Variables that are unset leave the corresponding opts (or defaults) in
// effect. If no algorithm variable is set, the algorithm from opts is kept.
// Variables take precedence over opts. The prefix must not be empty.
func PolicyFromEnv(ctx context.Context, prefix string, opts ...Option) (*Policy, error) {
	if strings.TrimSpace(prefix) == "" {
		return nil, fmt.Errorf("%w: environment prefix must not be empty", ErrInvalidArgument)
	}

	key := func(name string) string {
		return prefix + "_" + name
	}

	var errs amperrors.Collection

	envOpts := make([]Option, 0, len(opts)+4) //nolint:mnd
	envOpts = append(envOpts, opts...)

	attempts, ok, err := envutil.String(ctx, key("MAX_ATTEMPTS")).OptionalValue()
	errs.Add(err)

	if ok {
		if strings.EqualFold(strings.TrimSpace(attempts), "unlimited") {
			envOpts = append(envOpts, WithUnlimitedAttempts())
		} else {
			n, err := envutil.Int[int](ctx, key("MAX_ATTEMPTS")).Value()
			errs.Add(err)

			envOpts = append(envOpts, WithMaxAttempts(n))
		}
	}

	elapsed, ok, err := envutil.Duration(ctx, key("MAX_ELAPSED")).OptionalValue()
	errs.Add(err)

	if ok {
		envOpts = append(envOpts, WithMaxElapsed(elapsed))
	}

	timeout, ok, err := envutil.Duration(ctx, key("TIMEOUT")).OptionalValue()
	errs.Add(err)

	if ok {
		envOpts = append(envOpts, WithTimeout(timeout))
	}

	spec, err := interval.SpecFromEnv(ctx, prefix)
	errs.Add(err)

	if err == nil && spec != (interval.Spec{}) {
		alg, err := spec.Build()
		if err != nil {
			errs.Add(fmt.Errorf("%s: %w", key("ALGORITHM"), err))
		} else {
			envOpts = append(envOpts, WithAlgorithm(alg))
		}
	}

	if err := errs.GetError(); err != nil {
		return nil, err
	}

	return NewPolicy(envOpts...)
}
