package sched

import (
	"fmt"
	"sort"
	"strings"
)

// Registration is one system as registered with a Scheduler: its stage,
// optional system-set membership, and the index it was registered at
// (recorded only; Compile does not read it).
type Registration struct {
	System System
	Name   string
	Stage  ScheduleID
	Set    SystemSetID
	index  int
}

type setEdge struct{ before, after SystemSetID }

// Scheduler accumulates system registrations and set orderings; Compile
// turns it into an immutable, stage-ordered Plan.
type Scheduler struct {
	regs     []*Registration
	setEdges []setEdge
}

// NewScheduler returns an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// SystemOption configures a Registration at AddSystem time.
type SystemOption func(*Registration)

// InStage assigns the system to stage T instead of the default Main.
func InStage[T any]() SystemOption {
	return func(r *Registration) { r.Stage = IDOf[T]() }
}

// InSet assigns the system to system-set T, so OrderSets edges
// involving T apply to it.
func InSet[T any]() SystemOption {
	return func(r *Registration) { r.Set = IDOf[T]() }
}

// AddSystem registers sys, defaulting it to stage Main with no set.
// Explicit ordering against other systems is declared by sys itself
// implementing Before() []ScheduleID and/or After() []ScheduleID,
// naming other systems via IDOf[OtherSystemType]().
func (s *Scheduler) AddSystem(sys System, opts ...SystemOption) *Registration {
	r := &Registration{
		System: sys,
		Name:   nameOf(sys),
		Stage:  IDOf[Main](),
		index:  len(s.regs),
	}
	for _, o := range opts {
		o(r)
	}
	s.regs = append(s.regs, r)
	return r
}

// OrderSets declares that every system registered InSet[A]() must run
// before every system registered InSet[B](), within any stage they
// share — the set-propagated analogue of SystemSetConfig::After/Before.
func OrderSets[A, B any](s *Scheduler) {
	s.setEdges = append(s.setEdges, setEdge{before: IDOf[A](), after: IDOf[B]()})
}

func (s *Scheduler) regsForStage(stage ScheduleID) []*Registration {
	var out []*Registration
	for _, r := range s.regs {
		if r.Stage == stage {
			out = append(out, r)
		}
	}
	return out
}

// Wave is a set of systems the executor may run concurrently: none of
// them conflict, directly or transitively, with any other in the wave.
type Wave []*Registration

// StagePlan is one stage's compiled dependency graph. Waves groups
// systems into topological levels for display and testing ("these run
// concurrently"); Nodes/Successors/Indegree is the same graph in the
// form the executor actually dispatches from — a continuous
// readiness-driven schedule rather than a level-synchronized one, so a
// fast system in level N+1 can start the instant its own dependencies
// clear rather than waiting for every level-N system to finish.
type StagePlan struct {
	Stage      ScheduleID
	Name       string
	Waves      []Wave
	Nodes      []*Registration
	Successors [][]int
	Indegree   []int
}

// Plan is a fully compiled, conflict-free execution plan: one StagePlan
// per non-empty built-in stage, in StartUp/Main/Update/CleanUp order.
type Plan struct {
	Stages []StagePlan
}

// CycleError reports an ordering cycle found while compiling a stage,
// with the full path of systems involved.
type CycleError struct {
	Stage string
	Path  []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("sched: ordering cycle in stage %s: %s", e.Stage, strings.Join(e.Path, " -> "))
}

// ConflictError reports two systems in the same stage that touch the
// same component or resource, with at least one of them writing it, and
// have no explicit order between them (neither Before()/After() nor an
// OrderSets edge, directly or transitively). Compile refuses to guess an
// order in this case — the caller must declare one.
type ConflictError struct {
	Stage     string
	SystemA   string
	SystemB   string
	TypeName  string
	AccessTag string // SystemA's access then SystemB's: "write write", "write read" or "read write"
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf(
		"sched: unresolved conflict in stage %s: %s and %s both touch %s (%s) with no declared order",
		e.Stage, e.SystemA, e.SystemB, e.TypeName, e.AccessTag,
	)
}

// Compile builds a Plan from every system registered with s. Within each
// stage, systems are ordered by explicit Before()/After() declared on
// the system itself and set-propagated OrderSets edges. Any remaining
// pair of systems whose AccessPolicy conflicts with no such order
// between them is a compile error, not an automatic resolution — the
// caller must declare the order itself.
func Compile(s *Scheduler) (*Plan, error) {
	plan := &Plan{}
	for _, stageID := range stageOrder {
		regs := s.regsForStage(stageID)
		if len(regs) == 0 {
			continue
		}
		sp, err := compileStage(stageID, regs, s.setEdges)
		if err != nil {
			return nil, err
		}
		plan.Stages = append(plan.Stages, sp)
	}
	return plan, nil
}

func compileStage(stage ScheduleID, regs []*Registration, setEdges []setEdge) (StagePlan, error) {
	n := len(regs)
	idToIdx := make(map[ScheduleID][]int, n)
	for i, r := range regs {
		id := scheduleIDOfSystem(r.System)
		idToIdx[id] = append(idToIdx[id], i)
	}

	adj := make([][]bool, n)
	for i := range adj {
		adj[i] = make([]bool, n)
	}
	addEdge := func(from, to int) {
		if from != to {
			adj[from][to] = true
		}
	}

	for i, r := range regs {
		for _, id := range beforeOf(r.System) {
			for _, j := range idToIdx[id] {
				addEdge(i, j)
			}
		}
		for _, id := range afterOf(r.System) {
			for _, j := range idToIdx[id] {
				addEdge(j, i)
			}
		}
	}

	for _, se := range setEdges {
		for i, ri := range regs {
			if ri.Set == 0 || ri.Set != se.before {
				continue
			}
			for j, rj := range regs {
				if rj.Set != 0 && rj.Set == se.after {
					addEdge(i, j)
				}
			}
		}
	}

	reach := transitiveClosure(adj, n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if reach[i][j] || reach[j][i] {
				continue
			}
			polI, polJ := regs[i].System.AccessPolicy(), regs[j].System.AccessPolicy()
			if cc := AnalyzeComponentConflicts(polI, polJ); len(cc) > 0 {
				c := cc[0]
				return StagePlan{}, &ConflictError{
					Stage:     stageName(stage),
					SystemA:   regs[i].Name,
					SystemB:   regs[j].Name,
					TypeName:  c.id.Name,
					AccessTag: accessWord(c.aWrite) + " " + accessWord(c.bWrite),
				}
			}
			if rc := AnalyzeResourceConflicts(polI, polJ); len(rc) > 0 {
				c := rc[0]
				return StagePlan{}, &ConflictError{
					Stage:     stageName(stage),
					SystemA:   regs[i].Name,
					SystemB:   regs[j].Name,
					TypeName:  c.id.Name,
					AccessTag: accessWord(c.aWrite) + " " + accessWord(c.bWrite),
				}
			}
		}
	}

	waves, cyclePath, ok := kahnWaves(adj, n)
	if !ok {
		names := make([]string, len(cyclePath))
		for k, idx := range cyclePath {
			names[k] = regs[idx].Name
		}
		return StagePlan{}, &CycleError{Stage: stageName(stage), Path: names}
	}

	wavesOut := make([]Wave, len(waves))
	for i, w := range waves {
		wave := make(Wave, len(w))
		for j, idx := range w {
			wave[j] = regs[idx]
		}
		wavesOut[i] = wave
	}

	successors := make([][]int, n)
	indegree := make([]int, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if adj[i][j] {
				successors[i] = append(successors[i], j)
				indegree[j]++
			}
		}
	}

	return StagePlan{
		Stage:      stage,
		Name:       stageName(stage),
		Waves:      wavesOut,
		Nodes:      regs,
		Successors: successors,
		Indegree:   indegree,
	}, nil
}

// transitiveClosure computes full reachability over adj via repeated
// relaxation — fine at scheduler scale (tens to low hundreds of
// systems per stage), not meant for huge graphs.
func transitiveClosure(adj [][]bool, n int) [][]bool {
	reach := make([][]bool, n)
	for i := range reach {
		reach[i] = make([]bool, n)
		copy(reach[i], adj[i])
	}
	for k := 0; k < n; k++ {
		for i := 0; i < n; i++ {
			if !reach[i][k] {
				continue
			}
			for j := 0; j < n; j++ {
				if reach[k][j] {
					reach[i][j] = true
				}
			}
		}
	}
	return reach
}

// kahnWaves runs Kahn's topological sort in levels: every node with
// zero remaining in-degree at a given step forms one wave, processed
// together. On a cycle it returns the partial waves built so far, the
// cycle's node path, and false.
func kahnWaves(adj [][]bool, n int) ([][]int, []int, bool) {
	indegree := make([]int, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if adj[i][j] {
				indegree[j]++
			}
		}
	}

	visited := make([]bool, n)
	var waves [][]int
	remaining := n
	for remaining > 0 {
		var wave []int
		for i := 0; i < n; i++ {
			if !visited[i] && indegree[i] == 0 {
				wave = append(wave, i)
			}
		}
		if len(wave) == 0 {
			return waves, findCyclePath(adj, visited), false
		}
		sort.Ints(wave)
		for _, i := range wave {
			visited[i] = true
			remaining--
			for j := 0; j < n; j++ {
				if adj[i][j] {
					indegree[j]--
				}
			}
		}
		waves = append(waves, wave)
	}
	return waves, nil, true
}

// findCyclePath depth-first searches the remaining (unvisited) subgraph
// for a back-edge and returns the cycle it closes, earliest node first.
func findCyclePath(adj [][]bool, visited []bool) []int {
	n := len(adj)
	const white, gray, black = 0, 1, 2
	color := make([]int, n)
	var path []int
	var found []int

	var dfs func(u int) bool
	dfs = func(u int) bool {
		color[u] = gray
		path = append(path, u)
		for v := 0; v < n; v++ {
			if !adj[u][v] || visited[v] {
				continue
			}
			if color[v] == gray {
				for k, p := range path {
					if p == v {
						found = append(append([]int{}, path[k:]...), v)
						return true
					}
				}
			}
			if color[v] == white && dfs(v) {
				return true
			}
		}
		path = path[:len(path)-1]
		color[u] = black
		return false
	}

	for i := 0; i < n; i++ {
		if !visited[i] && color[i] == white {
			if dfs(i) {
				return found
			}
		}
	}
	return nil
}
