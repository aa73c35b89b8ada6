package dedup

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/soocke/pixel-gif-go/domain/capture"
)

// Policy selects how candidates are matched against accepted frames.
type Policy int

const (
	// PolicyHashVerify shortlists any earlier frame with an equal hash and
	// confirms with a tolerant sampled comparison. Catches out-of-order repeats.
	PolicyHashVerify Policy = iota
	// PolicyLastExact compares byte for byte against the last accepted frame only.
	PolicyLastExact
)

// DefaultTolerance is the per-channel difference still considered equal.
const DefaultTolerance = 3

func (p Policy) String() string {
	switch p {
	case PolicyHashVerify:
		return "hash-verify"
	case PolicyLastExact:
		return "last-exact"
	default:
		return "unknown"
	}
}

// ParsePolicy maps a config value to a Policy. Empty selects PolicyHashVerify.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "hash-verify":
		return PolicyHashVerify, nil
	case "last-exact":
		return PolicyLastExact, nil
	default:
		return 0, fmt.Errorf("unknown dedup policy %q", s)
	}
}

// Options tune the detector built by New.
type Options struct {
	// Tolerance per channel for verified comparisons. Negative selects DefaultTolerance.
	Tolerance int
	Logger    *slog.Logger
}

// New returns a fresh detector for one capture session.
func New(p Policy, opts Options) capture.DuplicateDetector {
	if p == PolicyLastExact {
		return LastExact{}
	}
	tol := opts.Tolerance
	if tol < 0 {
		tol = DefaultTolerance
	}
	return NewHashVerify(tol, opts.Logger)
}
