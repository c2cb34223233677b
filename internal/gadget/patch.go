package gadget

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	Name               *string
	SuccessProbability *int
	Status             *Status
}

// Empty reports whether no field is set.
func (p Patch) Empty() bool {
	return p.Name == nil && p.SuccessProbability == nil && p.Status == nil
}

// ParsePatch keeps only name, successProbability and status from body and validates
// their values. Unknown keys are dropped. The status transition itself is not checked.
func ParsePatch(body map[string]json.RawMessage) (Patch, error) {
	var p Patch
	if raw, ok := body["name"]; ok {
		var name string
		if err := json.Unmarshal(raw, &name); err != nil || strings.TrimSpace(name) == "" {
			return Patch{}, ErrInvalidName
		}
		name = strings.TrimSpace(name)
		p.Name = &name
	}
	if raw, ok := body["successProbability"]; ok {
		v, err := parseProbability(raw)
		if err != nil {
			return Patch{}, err
		}
		p.SuccessProbability = &v
	}
	if raw, ok := body["status"]; ok {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Patch{}, fmt.Errorf("%w: status must be a string", ErrInvalidStatus)
		}
		st, err := ParseStatus(s)
		if err != nil {
			return Patch{}, err
		}
		p.Status = &st
	}
	if p.Empty() {
		return Patch{}, ErrNoValidFields
	}
	return p, nil
}

func parseProbability(raw json.RawMessage) (int, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var decoded any
	if err := dec.Decode(&decoded); err != nil {
		return 0, ErrInvalidProbability
	}
	n, ok := decoded.(json.Number)
	if !ok {
		return 0, ErrInvalidProbability
	}
	v, err := n.Int64()
	if err != nil || v < MinProbability || v > MaxProbability {
		return 0, ErrInvalidProbability
	}
	return int(v), nil
}

// Apply writes the set fields of p onto g.
func (p Patch) Apply(g *Gadget) {
	if p.Name != nil {
		g.Name = *p.Name
	}
	if p.SuccessProbability != nil {
		g.SuccessProbability = *p.SuccessProbability
	}
	if p.Status != nil {
		g.Status = *p.Status
	}
}
