package capability

// Grant is an ordered collection of capabilities extended to a skill
// invocation. Order is preserved for deterministic audit rendering.
type Grant []Capability

// NewGrant returns an empty Grant.
func NewGrant() Grant {
	return make(Grant, 0)
}

// Add appends a capability if it is not already present.
func (g *Grant) Add(cap Capability) {
	for _, existing := range *g {
		if existing.Equals(cap) {
			return
		}
	}
	*g = append(*g, cap)
}

// Contains reports whether cap is present verbatim.
func (g Grant) Contains(cap Capability) bool {
	for _, existing := range g {
		if existing.Equals(cap) {
			return true
		}
	}
	return false
}

// ContainsAny reports whether any of caps is present verbatim.
func (g Grant) ContainsAny(caps []Capability) bool {
	for _, cap := range caps {
		if g.Contains(cap) {
			return true
		}
	}
	return false
}

// IsGranted reports whether request is covered by any member of g,
// using pattern matching rather than exact equality.
func (g Grant) IsGranted(request Capability) bool {
	for _, granted := range g {
		if granted.Matches(request) {
			return true
		}
	}
	return false
}

// Remove deletes the first occurrence of cap, if any.
func (g *Grant) Remove(cap Capability) {
	for i, existing := range *g {
		if existing.Equals(cap) {
			*g = append((*g)[:i], (*g)[i+1:]...)
			return
		}
	}
}

// Paths returns the patterns of every capability of the given kind,
// used to build preopen lists and sandbox allow-lists.
func (g Grant) Paths(kind Kind) []string {
	var out []string
	for _, c := range g {
		if c.Kind == kind {
			out = append(out, c.Pattern)
		}
	}
	return out
}
