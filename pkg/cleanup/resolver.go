package cleanup

import (
	"sort"
)

// Resolve selects the stale members of a duplicate group for deletion. The
// oldest pod is the established workload instance and is retained; every
// newer duplicate is treated as a transient artifact of a node transition.
// Groups smaller than two yield no deletions. Creation-timestamp ties are
// broken by name so repeated calls on the same input always pick the same
// survivor.
//
// Resolve only decides; it never deletes.
func Resolve(group []Pod) []Pod {
	if len(group) < 2 {
		return nil
	}

	sorted := make([]Pod, len(group))
	copy(sorted, group)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].Name < sorted[j].Name
		}
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	return sorted[1:]
}
