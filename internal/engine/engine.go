package engine

import (
	"context"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/raphi011/devtools/internal/log"
)

// DefaultRange is used when a repository does not declare engines.node.
const DefaultRange = "16.15.0"

type ctxKey struct{}

// Engine indexes the Node.js versions found by one discovery pass and
// answers range queries against them. It is read-only after New.
type Engine struct {
	all          []*Version
	usable       []*Version
	defaultRange string
	env          Env
}

type options struct {
	env          Env
	envSet       bool
	versions     []*Version
	versionsSet  bool
	defaultRange string
	logger       *log.Logger
}

// Option configures New.
type Option func(*options)

// WithEnv sets the version manager variables used for discovery.
// Defaults to EnvFromOS.
func WithEnv(env Env) Option {
	return func(o *options) {
		o.env = env
		o.envSet = true
	}
}

// WithVersions skips discovery and indexes the given versions instead.
func WithVersions(versions ...*Version) Option {
	return func(o *options) {
		o.versions = versions
		o.versionsSet = true
	}
}

// WithDefaultRange overrides DefaultRange.
func WithDefaultRange(r string) Option {
	return func(o *options) {
		o.defaultRange = r
	}
}

// WithLogger logs discovery details.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// New builds an Engine, discovering installed versions unless WithVersions is given.
func New(opts ...Option) *Engine {
	o := options{defaultRange: DefaultRange}
	for _, opt := range opts {
		opt(&o)
	}
	if !o.envSet {
		o.env = EnvFromOS()
	}

	all := o.versions
	if !o.versionsSet {
		all = Discover(o.env, o.logger)
	}

	usable := make([]*Version, 0, len(all))
	for _, v := range all {
		if v.Usable() {
			usable = append(usable, v)
		}
	}

	defaultRange := o.defaultRange
	if defaultRange == "" {
		defaultRange = DefaultRange
	}

	return &Engine{all: all, usable: usable, defaultRange: defaultRange, env: o.env}
}

// WithEngine attaches an Engine to the context.
func WithEngine(ctx context.Context, e *Engine) context.Context {
	return context.WithValue(ctx, ctxKey{}, e)
}

// FromContext returns the Engine stored in ctx, or nil.
func FromContext(ctx context.Context) *Engine {
	if e, ok := ctx.Value(ctxKey{}).(*Engine); ok {
		return e
	}
	return nil
}

// All returns every discovered version, including unusable ones.
func (e *Engine) All() []*Version { return e.all }

// Usable returns the versions with a working executable.
func (e *Engine) Usable() []*Version { return e.usable }

// DefaultRange returns the range applied when a repository declares none.
func (e *Engine) DefaultRange() string { return e.defaultRange }

// Env returns the version manager layout the versions were discovered with.
func (e *Engine) Env() Env { return e.env }

// Satisfies reports whether v is usable and its version is within rng.
// An invalid range is satisfied by nothing.
func Satisfies(v *Version, rng string) bool {
	c, err := semver.NewConstraint(rng)
	if err != nil {
		return false
	}
	return satisfies(c, v)
}

func satisfies(c *semver.Constraints, v *Version) bool {
	if !v.Usable() {
		return false
	}
	sv, err := semver.NewVersion(strings.TrimPrefix(v.Version(), "v"))
	if err != nil {
		return false
	}
	return c.Check(sv)
}

// SatisfyingVersions returns the usable versions within rng, newest first.
// Versions of equal Rank keep their discovery order.
func (e *Engine) SatisfyingVersions(rng string) []*Version {
	c, err := semver.NewConstraint(rng)
	if err != nil {
		return nil
	}

	var matches []*Version
	for _, v := range e.usable {
		if satisfies(c, v) {
			matches = append(matches, v)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return Rank(matches[i].Version()) > Rank(matches[j].Version())
	})
	return matches
}

// MaxSatisfying returns the newest usable version within rng, or nil.
func (e *Engine) MaxSatisfying(rng string) *Version {
	matches := e.SatisfyingVersions(rng)
	if len(matches) == 0 {
		return nil
	}
	return matches[0]
}

// MinSatisfying returns the oldest usable version within rng, or nil.
// It is the last entry of SatisfyingVersions, so among equal ranks the one
// discovered last wins.
func (e *Engine) MinSatisfying(rng string) *Version {
	matches := e.SatisfyingVersions(rng)
	if len(matches) == 0 {
		return nil
	}
	return matches[len(matches)-1]
}
