package retry

import (
	"slices"
	"time"

	amperrors "github.com/amp-labs/amp-backoff/errors"
	"github.com/amp-labs/amp-backoff/interval"
	"github.com/google/uuid"
)

// DefaultMaxAttempts is the retry limit of a Policy built without
// WithMaxAttempts.
const DefaultMaxAttempts = 10

// Policy is the immutable description of how to retry: which algorithm to
// use, how often, which failures qualify and whom to tell. A Policy may be
// shared freely; each retry sequence gets its own Coordinator from
// NewCoordinator.
type Policy struct {
	name        string
	algorithm   interval.Algorithm
	maxAttempts int
	unlimited   bool
	maxElapsed  time.Duration
	filter      Predicate
	onRetry     []Hook
	onGiveUp    []Hook
	scheduler   Scheduler
	timeout     time.Duration
}

// NewPolicy builds a Policy. Without options it retries up to
// DefaultMaxAttempts times, accepts every failure and waits according to
// interval.DefaultExponentialConfig. Every invalid setting is reported in the
// returned error, each wrapping ErrInvalidArgument.
func NewPolicy(opts ...Option) (*Policy, error) {
	o := &options{
		algorithm:   interval.Must(interval.NewExponential(interval.DefaultExponentialConfig())),
		maxAttempts: DefaultMaxAttempts,
		filter:      AcceptAll,
		scheduler:   TimerScheduler{},
	}

	for _, opt := range opts {
		opt(o)
	}

	var errs amperrors.Collection

	errs.Check(o.algorithm != nil, ErrInvalidArgument, "algorithm must not be nil")
	errs.Check(o.unlimited || o.maxAttempts >= 0, ErrInvalidArgument,
		"max attempts must be >= 0, got %d", o.maxAttempts)
	errs.Check(o.maxElapsed >= 0, ErrInvalidArgument, "max elapsed must be >= 0, got %s", o.maxElapsed)
	errs.Check(o.filter != nil, ErrInvalidArgument, "filter must not be nil")
	errs.Check(o.scheduler != nil, ErrInvalidArgument, "scheduler must not be nil")
	errs.Check(o.timeout >= 0, ErrInvalidArgument, "timeout must be >= 0, got %s", o.timeout)

	if err := errs.GetError(); err != nil {
		return nil, err
	}

	return &Policy{
		name:        o.name,
		algorithm:   o.algorithm,
		maxAttempts: o.maxAttempts,
		unlimited:   o.unlimited,
		maxElapsed:  o.maxElapsed,
		filter:      o.filter,
		onRetry:     slices.Clone(o.onRetry),
		onGiveUp:    slices.Clone(o.onGiveUp),
		scheduler:   o.scheduler,
		timeout:     o.timeout,
	}, nil
}

// MustPolicy is NewPolicy, panicking on error.
func MustPolicy(opts ...Option) *Policy {
	p, err := NewPolicy(opts...)
	if err != nil {
		panic(err)
	}

	return p
}

func (p *Policy) Name() string {
	return p.name
}

func (p *Policy) Algorithm() interval.Algorithm { //nolint:ireturn
	return p.algorithm
}

// MaxAttempts returns the retry limit and false, or 0 and true if the
// policy retries without limit.
func (p *Policy) MaxAttempts() (int, bool) {
	if p.unlimited {
		return 0, true
	}

	return p.maxAttempts, false
}

func (p *Policy) MaxElapsed() time.Duration {
	return p.maxElapsed
}

// NewCoordinator starts a new retry sequence under this policy.
func (p *Policy) NewCoordinator() *Coordinator {
	return &Coordinator{
		policy: p,
		id:     uuid.New(),
	}
}
