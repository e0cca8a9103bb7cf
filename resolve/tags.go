package resolve

import (
	"github.com/bmatcuk/doublestar/v4"

	"github.com/ucspec/ucsync/chain"
	"github.com/ucspec/ucsync/fixture"
)

// TagsFor computes the tag set for one logical path: the version's own
// tags, then the tags of every effective rule whose glob matches the path.
// All matching rules contribute; there is no most-specific-wins tie-break.
//
// Output order is first appearance across (version tags, rules in rule
// order), deduplicated, so regenerated files are byte-stable.
func TagsFor(v *chain.Version, effective []chain.TagRule, path fixture.LogicalPath) []string {
	var tags []string
	seen := make(map[string]bool)

	add := func(ts []string) {
		for _, t := range ts {
			if seen[t] {
				continue
			}
			seen[t] = true
			tags = append(tags, t)
		}
	}

	add(v.Tags)
	for _, rule := range effective {
		matched, err := doublestar.Match(rule.Pattern, string(path))
		if err != nil {
			// Patterns are validated at manifest load; an error here
			// cannot happen for a loaded manifest.
			continue
		}
		if matched {
			add(rule.Tags)
		}
	}

	return tags
}
