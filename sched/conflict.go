package sched

// componentConflict records one overlapping component access between
// two systems' access policies.
type componentConflict struct {
	id          ComponentAccess
	readWrite   bool // true: one read, one write; false: both write
	aWrite      bool
	bWrite      bool
}

// resourceConflict records one overlapping resource access between two
// systems' access policies.
type resourceConflict struct {
	id        ResourceAccess
	readWrite bool
	aWrite    bool
	bWrite    bool
}

// AnalyzeComponentConflicts reports every component both a and b touch
// where at least one of them writes it, checked across every pair of
// their declared queries — mirrors SystemDiagnostics::AnalyzeComponentConflicts.
func AnalyzeComponentConflicts(a, b AccessPolicy) []componentConflict {
	var conflicts []componentConflict
	for _, qa := range a.queries {
		for _, qb := range b.queries {
			conflicts = append(conflicts, intersectComponents(qa.Write, qb.Write, true, true)...)
			conflicts = append(conflicts, intersectComponents(qa.Write, qb.Read, true, false)...)
			conflicts = append(conflicts, intersectComponents(qa.Read, qb.Write, false, true)...)
		}
	}
	return conflicts
}

func intersectComponents(lhs, rhs []ComponentAccess, aWrite, bWrite bool) []componentConflict {
	var out []componentConflict
	i, j := 0, 0
	for i < len(lhs) && j < len(rhs) {
		switch {
		case lhs[i].ID < rhs[j].ID:
			i++
		case rhs[j].ID < lhs[i].ID:
			j++
		default:
			out = append(out, componentConflict{
				id:        lhs[i],
				readWrite: aWrite != bWrite,
				aWrite:    aWrite,
				bWrite:    bWrite,
			})
			i++
			j++
		}
	}
	return out
}

// AnalyzeResourceConflicts is AnalyzeComponentConflicts' resource-access
// equivalent.
func AnalyzeResourceConflicts(a, b AccessPolicy) []resourceConflict {
	var conflicts []resourceConflict
	conflicts = append(conflicts, intersectResources(a.writeResources, b.writeResources, true, true)...)
	conflicts = append(conflicts, intersectResources(a.writeResources, b.readResources, true, false)...)
	conflicts = append(conflicts, intersectResources(a.readResources, b.writeResources, false, true)...)
	return conflicts
}

func intersectResources(lhs, rhs []ResourceAccess, aWrite, bWrite bool) []resourceConflict {
	var out []resourceConflict
	i, j := 0, 0
	for i < len(lhs) && j < len(rhs) {
		switch {
		case lhs[i].ID < rhs[j].ID:
			i++
		case rhs[j].ID < lhs[i].ID:
			j++
		default:
			out = append(out, resourceConflict{
				id:        lhs[i],
				readWrite: aWrite != bWrite,
				aWrite:    aWrite,
				bWrite:    bWrite,
			})
			i++
			j++
		}
	}
	return out
}

// Conflicts reports whether a and b may not safely run concurrently:
// any shared component or resource where at least one side writes it.
func Conflicts(a, b AccessPolicy) bool {
	return len(AnalyzeComponentConflicts(a, b)) > 0 || len(AnalyzeResourceConflicts(a, b)) > 0
}
