package sched

import (
	"fmt"
	"strings"
)

// FormatComponentConflicts renders a human-readable report of every
// component conflict between two named systems — mirrors
// SystemDiagnostics::FormatComponentConflicts.
func FormatComponentConflicts(systemA, systemB string, conflicts []componentConflict) string {
	if len(conflicts) == 0 {
		return fmt.Sprintf("%s and %s: no component conflicts", systemA, systemB)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s and %s conflict on %d component(s):\n", systemA, systemB, len(conflicts))
	for _, c := range conflicts {
		fmt.Fprintf(&b, "  - %s: %s=%s, %s=%s\n",
			c.id.Name, systemA, accessWord(c.aWrite), systemB, accessWord(c.bWrite))
	}
	return b.String()
}

// FormatResourceConflicts is FormatComponentConflicts' resource-access
// equivalent.
func FormatResourceConflicts(systemA, systemB string, conflicts []resourceConflict) string {
	if len(conflicts) == 0 {
		return fmt.Sprintf("%s and %s: no resource conflicts", systemA, systemB)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s and %s conflict on %d resource(s):\n", systemA, systemB, len(conflicts))
	for _, c := range conflicts {
		fmt.Fprintf(&b, "  - %s: %s=%s, %s=%s\n",
			c.id.Name, systemA, accessWord(c.aWrite), systemB, accessWord(c.bWrite))
	}
	return b.String()
}

func accessWord(write bool) string {
	if write {
		return "write"
	}
	return "read"
}

// SummarizeAccessPolicy renders a policy's declared accesses for
// debugging — mirrors SystemDiagnostics::SummarizeAccessPolicy.
func SummarizeAccessPolicy(p AccessPolicy) string {
	var b strings.Builder
	if !p.HasQueries() && !p.HasResources() {
		return "(no declared access)"
	}
	for i, q := range p.queries {
		fmt.Fprintf(&b, "query[%d]: read=%s write=%s\n", i, namesOf(q.Read), namesOf(q.Write))
	}
	if len(p.readResources) > 0 {
		fmt.Fprintf(&b, "read resources: %s\n", resourceNamesOf(p.readResources))
	}
	if len(p.writeResources) > 0 {
		fmt.Fprintf(&b, "write resources: %s\n", resourceNamesOf(p.writeResources))
	}
	return b.String()
}

func namesOf(s []ComponentAccess) string {
	names := make([]string, len(s))
	for i, a := range s {
		names[i] = a.Name
	}
	return "[" + strings.Join(names, ", ") + "]"
}

func resourceNamesOf(s []ResourceAccess) string {
	names := make([]string, len(s))
	for i, a := range s {
		names[i] = a.Name
	}
	return "[" + strings.Join(names, ", ") + "]"
}
