package interval

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/amp-labs/amp-backoff/envutil"
	amperrors "github.com/amp-labs/amp-backoff/errors"
	"gopkg.in/yaml.v3"
)

// Kind names an algorithm in declarative configuration.
type Kind string

const (
	KindFixed             Kind = "fixed"
	KindExponential       Kind = "exponential"
	KindBinaryExponential Kind = "binary_exponential"
	KindRandom            Kind = "random"
)

// ParseKind accepts the Kind names case-insensitively, with '-' or '_'
// as the word separator. An empty string selects KindExponential.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))

	switch k {
	case "":
		return KindExponential, nil
	case KindFixed, KindExponential, KindBinaryExponential, KindRandom:
		return k, nil
	default:
		return "", fmt.Errorf("%w: unknown algorithm %q", ErrInvalidArgument, s)
	}
}

// Spec describes an algorithm declaratively. Nil fields take the defaults of
// the selected Kind; setting a field the Kind does not use is an error.
//
// In YAML, durations are Go duration strings:
//
//	kind: exponential
//	interval: 1s
//	multiplier: 2
//	max_interval: 5s
//	range: 0.2
type Spec struct {
	Kind           Kind
	Interval       *time.Duration
	Multiplier     *float64
	MaxInterval    *time.Duration
	Range          *float64
	LowInterval    *time.Duration
	HighInterval   *time.Duration
	LowMultiplier  *float64
	HighMultiplier *float64

	// Rand is passed to randomized algorithms. Nil means DefaultSource.
	Rand Source
}

// Build validates the Spec and constructs the algorithm it describes.
func (s Spec) Build() (Algorithm, error) { //nolint:ireturn
	kind, err := ParseKind(string(s.Kind))
	if err != nil {
		return nil, err
	}

	if err := s.checkFields(kind); err != nil {
		return nil, err
	}

	switch kind {
	case KindFixed:
		cfg := DefaultFixedConfig()
		setIf(&cfg.Interval, s.Interval)

		return NewFixed(cfg)
	case KindBinaryExponential:
		cfg := DefaultBinaryExponentialConfig()
		setIf(&cfg.Interval, s.Interval)
		setIf(&cfg.MaxInterval, s.MaxInterval)
		setIf(&cfg.Range, s.Range)
		cfg.Rand = s.Rand

		return NewBinaryExponential(cfg)
	case KindRandom:
		cfg := DefaultRandomIntervalConfig()
		setIf(&cfg.LowInterval, s.LowInterval)
		setIf(&cfg.HighInterval, s.HighInterval)
		setIf(&cfg.LowMultiplier, s.LowMultiplier)
		setIf(&cfg.HighMultiplier, s.HighMultiplier)
		setIf(&cfg.MaxInterval, s.MaxInterval)
		cfg.Rand = s.Rand

		return NewRandomInterval(cfg)
	default:
		cfg := DefaultExponentialConfig()
		setIf(&cfg.Interval, s.Interval)
		setIf(&cfg.Multiplier, s.Multiplier)
		setIf(&cfg.MaxInterval, s.MaxInterval)
		setIf(&cfg.Range, s.Range)
		cfg.Rand = s.Rand

		return NewExponential(cfg)
	}
}

func (s Spec) checkFields(kind Kind) error {
	allowed := map[Kind][]string{
		KindFixed:             {"interval"},
		KindExponential:       {"interval", "multiplier", "max_interval", "range"},
		KindBinaryExponential: {"interval", "max_interval", "range"},
		KindRandom:            {"low_interval", "high_interval", "low_multiplier", "high_multiplier", "max_interval"},
	}[kind]

	set := map[string]bool{
		"interval":        s.Interval != nil,
		"multiplier":      s.Multiplier != nil,
		"max_interval":    s.MaxInterval != nil,
		"range":           s.Range != nil,
		"low_interval":    s.LowInterval != nil,
		"high_interval":   s.HighInterval != nil,
		"low_multiplier":  s.LowMultiplier != nil,
		"high_multiplier": s.HighMultiplier != nil,
	}

	for _, name := range allowed {
		delete(set, name)
	}

	var errs amperrors.Collection

	for _, name := range slices.Sorted(maps.Keys(set)) {
		errs.Check(!set[name], ErrInvalidArgument, "%s does not apply to the %s algorithm", name, kind)
	}

	return errs.GetError()
}

// specYAML is the wire shape of a Spec; durations arrive as strings.
type specYAML struct {
	Kind           string   `yaml:"kind"`
	Interval       string   `yaml:"interval"`
	Multiplier     *float64 `yaml:"multiplier"`
	MaxInterval    string   `yaml:"max_interval"`
	Range          *float64 `yaml:"range"`
	LowInterval    string   `yaml:"low_interval"`
	HighInterval   string   `yaml:"high_interval"`
	LowMultiplier  *float64 `yaml:"low_multiplier"`
	HighMultiplier *float64 `yaml:"high_multiplier"`
}

// specKeys are the mapping keys specYAML understands.
var specKeys = []string{ //nolint:gochecknoglobals
	"kind", "interval", "multiplier", "max_interval", "range",
	"low_interval", "high_interval", "low_multiplier", "high_multiplier",
}

// UnmarshalYAML decodes a Spec. Unknown keys are rejected so that a
// misspelled field cannot silently fall back to its default.
func (s *Spec) UnmarshalYAML(value *yaml.Node) error {
	var raw specYAML
	if err := value.Decode(&raw); err != nil {
		return err
	}

	var errs amperrors.Collection

	if value.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(value.Content); i += 2 {
			key := value.Content[i].Value
			errs.Check(slices.Contains(specKeys, key), ErrInvalidArgument,
				"unknown field %q (line %d)", key, value.Content[i].Line)
		}
	}

	parse := func(field, v string) *time.Duration {
		if v == "" {
			return nil
		}

		d, err := time.ParseDuration(v)
		if err != nil {
			errs.Addf(ErrInvalidArgument, "%s: %v", field, err)

			return nil
		}

		return &d
	}

	*s = Spec{
		Kind:           Kind(raw.Kind),
		Interval:       parse("interval", raw.Interval),
		Multiplier:     raw.Multiplier,
		MaxInterval:    parse("max_interval", raw.MaxInterval),
		Range:          raw.Range,
		LowInterval:    parse("low_interval", raw.LowInterval),
		HighInterval:   parse("high_interval", raw.HighInterval),
		LowMultiplier:  raw.LowMultiplier,
		HighMultiplier: raw.HighMultiplier,
	}

	return errs.GetError()
}

// ParseSpec decodes a YAML document into a Spec. It does not build the
// algorithm; call Build for that.
func ParseSpec(data []byte) (Spec, error) {
	var s Spec
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Spec{}, fmt.Errorf("parsing algorithm spec: %w", err)
	}

	return s, nil
}

// SpecFromEnv reads a Spec from variables named <prefix>_ALGORITHM,
// <prefix>_INTERVAL, <prefix>_MULTIPLIER, <prefix>_MAX_INTERVAL,
// <prefix>_RANGE, <prefix>_LOW_INTERVAL, <prefix>_HIGH_INTERVAL,
// <prefix>_LOW_MULTIPLIER and <prefix>_HIGH_MULTIPLIER. Unset variables
// leave the field nil. The prefix must not be empty.
func SpecFromEnv(ctx context.Context, prefix string) (Spec, error) {
	if strings.TrimSpace(prefix) == "" {
		return Spec{}, fmt.Errorf("%w: environment prefix must not be empty", ErrInvalidArgument)
	}

	var errs amperrors.Collection

	key := func(name string) string {
		return prefix + "_" + name
	}

	kind, _, err := envutil.String(ctx, key("ALGORITHM")).OptionalValue()
	errs.Add(err)

	spec := Spec{
		Kind:           Kind(kind),
		Interval:       optional(envutil.Duration(ctx, key("INTERVAL")), &errs),
		Multiplier:     optional(envutil.Float64(ctx, key("MULTIPLIER")), &errs),
		MaxInterval:    optional(envutil.Duration(ctx, key("MAX_INTERVAL")), &errs),
		Range:          optional(envutil.Float64(ctx, key("RANGE")), &errs),
		LowInterval:    optional(envutil.Duration(ctx, key("LOW_INTERVAL")), &errs),
		HighInterval:   optional(envutil.Duration(ctx, key("HIGH_INTERVAL")), &errs),
		LowMultiplier:  optional(envutil.Float64(ctx, key("LOW_MULTIPLIER")), &errs),
		HighMultiplier: optional(envutil.Float64(ctx, key("HIGH_MULTIPLIER")), &errs),
	}

	if err := errs.GetError(); err != nil {
		return Spec{}, err
	}

	return spec, nil
}

func optional[T any](rdr envutil.Reader[T], errs *amperrors.Collection) *T {
	val, ok, err := rdr.OptionalValue()
	if err != nil {
		errs.Add(err)

		return nil
	}

	if !ok {
		return nil
	}

	return &val
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
