package gadget

import (
	"fmt"
	"strconv"
	"strings"
)

// Filter selects gadgets. Zero-value fields other than the bounds match everything.
type Filter struct {
	Status         Status
	Name           string
	MinProbability int
	MaxProbability int
}

// AllGadgets matches every gadget.
func AllGadgets() Filter {
	return Filter{MinProbability: MinProbability, MaxProbability: MaxProbability}
}

// ParseFilter builds a Filter from raw query values. Empty bounds default to 0 and 100.
func ParseFilter(status, minRaw, maxRaw, name string) (Filter, error) {
	f := AllGadgets()
	if status = strings.TrimSpace(status); status != "" {
		st, err := ParseStatus(status)
		if err != nil {
			return Filter{}, fmt.Errorf("%w: status %q", ErrInvalidFilter, status)
		}
		f.Status = st
	}
	var err error
	if f.MinProbability, err = parseBound("minSuccessProbability", minRaw, MinProbability); err != nil {
		return Filter{}, err
	}
	if f.MaxProbability, err = parseBound("maxSuccessProbability", maxRaw, MaxProbability); err != nil {
		return Filter{}, err
	}
	f.Name = strings.TrimSpace(name)
	return f, nil
}

func parseBound(param, raw string, def int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", ErrInvalidFilter, param)
	}
	return v, nil
}

// Match reports whether g satisfies f. Name matching is a case-insensitive substring test.
func (f Filter) Match(g Gadget) bool {
	if f.Status != "" && g.Status != f.Status {
		return false
	}
	if g.SuccessProbability < f.MinProbability || g.SuccessProbability > f.MaxProbability {
		return false
	}
	if f.Name != "" && !strings.Contains(strings.ToLower(g.Name), strings.ToLower(f.Name)) {
		return false
	}
	return true
}
