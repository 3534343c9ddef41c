package correlate

import (
	"strings"

	"github.com/zeebo/xxh3"
)

// DuplicateSiteNames returns each trimmed name that occurs more than once,
// in order of its second occurrence. Blank names are ignored.
func DuplicateSiteNames(names []string) []string {
	type entry struct {
		name  string
		count int
	}
	seen := make(map[uint64][]*entry, len(names))

	var dups []string
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		h := xxh3.HashString(name)

		var e *entry
		for _, cand := range seen[h] {
			if cand.name == name {
				e = cand
				break
			}
		}
		if e == nil {
			seen[h] = append(seen[h], &entry{name: name, count: 1})
			continue
		}
		e.count++
		if e.count == 2 {
			dups = append(dups, name)
		}
	}
	return dups
}
