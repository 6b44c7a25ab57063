package retry

import (
	"errors"
	"slices"
)

// Predicate decides whether a failure may be retried. Predicates must be
// pure: a Coordinator may call them at any point and they must not block or
// have side effects.
type Predicate func(err error) bool

// AcceptAll retries every failure.
func AcceptAll(error) bool { return true }

// Is accepts failures matching any of targets under errors.Is.
func Is(targets ...error) Predicate {
	return func(err error) bool {
		return slices.ContainsFunc(targets, func(target error) bool {
			return errors.Is(err, target)
		})
	}
}

// As accepts failures whose chain contains an error of type T.
func As[T error]() Predicate {
	return func(err error) bool {
		var target T

		return errors.As(err, &target)
	}
}

// Temporary accepts failures that report themselves as temporary through a
// Temporary() bool method, like net.Error. Failures without the method are
// rejected.
func Temporary(err error) bool {
	var tmp interface{ Temporary() bool }
	if errors.As(err, &tmp) {
		return tmp.Temporary()
	}

	return false
}

// Not inverts a predicate.
func Not(p Predicate) Predicate {
	return func(err error) bool {
		return !p(err)
	}
}

// AnyOf accepts a failure if at least one predicate does. With no
// predicates it rejects everything.
func AnyOf(preds ...Predicate) Predicate {
	return func(err error) bool {
		for _, p := range preds {
			if p(err) {
				return true
			}
		}

		return false
	}
}

// AllOf accepts a failure if every predicate does. With no predicates it
// accepts everything.
func AllOf(preds ...Predicate) Predicate {
	return func(err error) bool {
		for _, p := range preds {
			if !p(err) {
				return false
			}
		}

		return true
	}
}

// OnlyKinds accepts failures whose kind, as computed by classify, is one of
// kinds. K is usually a small enum owned by the caller:
//
//	type Kind int
//
//	const (
//	    KindIO Kind = iota
//	    KindRuntime
//	)
//
//	filter := retry.OnlyKinds(classify, KindIO)
func OnlyKinds[K comparable](classify func(error) K, kinds ...K) Predicate {
	return func(err error) bool {
		return slices.Contains(kinds, classify(err))
	}
}
