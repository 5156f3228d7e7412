package domain

import (
	"fmt"
	"strings"
)

// MatchMode selects how a user-supplied identifier is resolved to a container.
type MatchMode string

const (
	// MatchFuzzy tries an exact match first, then falls back to the first
	// container whose name contains the identifier.
	MatchFuzzy MatchMode = "fuzzy"
	// MatchExact only accepts an exact name, full ID or unique ID prefix.
	MatchExact MatchMode = "exact"
)

// ParseMatchMode validates a configured match mode. Empty means fuzzy.
func ParseMatchMode(raw string) (MatchMode, error) {
	switch MatchMode(strings.ToLower(strings.TrimSpace(raw))) {
	case "", MatchFuzzy:
		return MatchFuzzy, nil
	case MatchExact:
		return MatchExact, nil
	default:
		return "", fmt.Errorf("unknown match mode %q (want %q or %q)", raw, MatchFuzzy, MatchExact)
	}
}

// FindContainer resolves target against containers in daemon order.
//
// Resolution follows the daemon's own order: full ID, exact name, then an ID
// prefix that matches exactly one container. In fuzzy mode the first container
// with a name containing target is returned otherwise, which means "web" can
// resolve to "web-1" when no container is called "web".
func FindContainer(containers []Container, target string, mode MatchMode) (Container, bool) {
	if target == "" {
		return Container{}, false
	}

	for _, ctr := range containers {
		if ctr.ID == target {
			return ctr, true
		}
	}

	for _, ctr := range containers {
		for _, name := range ctr.DisplayNames() {
			if name == target {
				return ctr, true
			}
		}
	}

	if ctr, ok := uniqueIDPrefix(containers, target); ok {
		return ctr, true
	}

	if mode == MatchExact {
		return Container{}, false
	}

	for _, ctr := range containers {
		for _, name := range ctr.DisplayNames() {
			if strings.Contains(name, target) {
				return ctr, true
			}
		}
	}
	return Container{}, false
}

// uniqueIDPrefix returns the only container whose ID starts with prefix.
// An ambiguous prefix matches nothing.
func uniqueIDPrefix(containers []Container, prefix string) (Container, bool) {
	var (
		found Container
		hits  int
	)
	for _, ctr := range containers {
		if strings.HasPrefix(ctr.ID, prefix) {
			found = ctr
			hits++
		}
	}
	return found, hits == 1
}
