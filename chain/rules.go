package chain

// Chain returns the inheritance chain for id, root first, ending with the
// version itself. Returns nil for an unknown id.
func (m *Manifest) Chain(id string) []*Version {
	v, ok := m.byID[id]
	if !ok {
		return nil
	}

	var reversed []*Version
	for cur := v; cur != nil; {
		reversed = append(reversed, cur)
		if cur.Parent == "" {
			break
		}
		cur = m.byID[cur.Parent]
	}

	out := make([]*Version, len(reversed))
	for i, cv := range reversed {
		out[len(reversed)-1-i] = cv
	}
	return out
}

// EffectiveRules flattens tag rules along the inheritance chain for id.
//
// A child's rule whose pattern string exactly matches an ancestor's rule
// replaces that rule in place, keeping the ancestor's position in the
// sequence; new patterns are appended in declaration order. The keyed
// override is what prevents double-counting when a pattern is redeclared
// down the chain.
func (m *Manifest) EffectiveRules(id string) []TagRule {
	var effective []TagRule
	index := make(map[string]int)

	for _, v := range m.Chain(id) {
		for _, rule := range v.Rules {
			if at, seen := index[rule.Pattern]; seen {
				effective[at] = rule
				continue
			}
			index[rule.Pattern] = len(effective)
			effective = append(effective, rule)
		}
	}

	return effective
}
