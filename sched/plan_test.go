package sched

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type planTestA struct{ X int }
type planTestB struct{ X int }

type readerSystem struct{ ran *[]string }

func (readerSystem) AccessPolicy() AccessPolicy {
	return NewAccessPolicy().Query(R[planTestA]())
}

func (s readerSystem) Run(ctx *Context) error {
	*s.ran = append(*s.ran, "reader")
	return nil
}

type writerSystem struct{ ran *[]string }

func (writerSystem) AccessPolicy() AccessPolicy {
	return NewAccessPolicy().Query(W[planTestA]())
}

func (s writerSystem) Run(ctx *Context) error {
	*s.ran = append(*s.ran, "writer")
	return nil
}

type otherWriterSystem struct{ ran *[]string }

func (otherWriterSystem) AccessPolicy() AccessPolicy {
	return NewAccessPolicy().Query(W[planTestB]())
}

func (s otherWriterSystem) Run(ctx *Context) error {
	*s.ran = append(*s.ran, "other")
	return nil
}

func TestCompileRejectsUndeclaredConflictBetweenWriterAndReader(t *testing.T) {
	var ran []string
	s := NewScheduler()
	s.AddSystem(writerSystem{ran: &ran})
	s.AddSystem(readerSystem{ran: &ran})

	_, err := Compile(s)
	require.Error(t, err)
	var conflictErr *ConflictError
	require.ErrorAs(t, err, &conflictErr)
	require.Contains(t, []string{conflictErr.SystemA, conflictErr.SystemB}, "writerSystem")
	require.Contains(t, []string{conflictErr.SystemA, conflictErr.SystemB}, "readerSystem")
	require.Equal(t, "planTestA", conflictErr.TypeName)
	require.Equal(t, "write read", conflictErr.AccessTag)
}

// TestCompileRejectsTwoUpdateSystemsWritingSamePositionWithNoOrder is the
// spec's canonical scenario: two Update-stage systems both writing the
// same component with no declared order must fail to compile, naming
// both systems, the conflicting type, and the write/write access tag.
func TestCompileRejectsTwoUpdateSystemsWritingSamePositionWithNoOrder(t *testing.T) {
	var ran []string
	s := NewScheduler()
	s.AddSystem(writerSystem{ran: &ran}, InStage[Update]())
	s.AddSystem(otherPositionWriterSystem{ran: &ran}, InStage[Update]())

	_, err := Compile(s)
	require.Error(t, err)
	var conflictErr *ConflictError
	require.ErrorAs(t, err, &conflictErr)
	require.Contains(t, []string{conflictErr.SystemA, conflictErr.SystemB}, "writerSystem")
	require.Contains(t, []string{conflictErr.SystemA, conflictErr.SystemB}, "otherPositionWriterSystem")
	require.Equal(t, "planTestA", conflictErr.TypeName)
	require.Equal(t, "write write", conflictErr.AccessTag)
}

func TestCompileAllowsConflictingSystemsWithExplicitOrder(t *testing.T) {
	var ran []string
	s := NewScheduler()
	s.AddSystem(writerSystem{ran: &ran})
	s.AddSystem(orderedReaderSystem{ran: &ran})

	plan, err := Compile(s)
	require.NoError(t, err)
	require.Len(t, plan.Stages, 1)
	require.Len(t, plan.Stages[0].Waves, 2, "explicitly ordered conflicting pair must not share a wave")
}

type otherPositionWriterSystem struct{ ran *[]string }

func (otherPositionWriterSystem) AccessPolicy() AccessPolicy {
	return NewAccessPolicy().Query(W[planTestA]())
}

func (s otherPositionWriterSystem) Run(ctx *Context) error {
	*s.ran = append(*s.ran, "otherPositionWriter")
	return nil
}

// orderedReaderSystem conflicts with writerSystem on planTestA but
// declares an explicit After() order against it.
type orderedReaderSystem struct{ ran *[]string }

func (orderedReaderSystem) AccessPolicy() AccessPolicy {
	return NewAccessPolicy().Query(R[planTestA]())
}

func (s orderedReaderSystem) Run(ctx *Context) error {
	*s.ran = append(*s.ran, "orderedReader")
	return nil
}

func (orderedReaderSystem) After() []ScheduleID {
	return []ScheduleID{scheduleIDOfSystem(writerSystem{})}
}

func TestCompileLetsNonConflictingSystemsShareAWave(t *testing.T) {
	var ran []string
	s := NewScheduler()
	s.AddSystem(writerSystem{ran: &ran})
	s.AddSystem(otherWriterSystem{ran: &ran})

	plan, err := Compile(s)
	require.NoError(t, err)
	stage := plan.Stages[0]
	require.Len(t, stage.Waves, 1, "systems touching disjoint components may run concurrently")
	require.Len(t, stage.Waves[0], 2)
}

func TestCompileDetectsCycle(t *testing.T) {
	s := NewScheduler()
	s.AddSystem(cyclicSystem{id: 1})
	s.AddSystem(cyclicSystem{id: 2})

	_, err := Compile(s)
	require.Error(t, err)
	var cycleErr *CycleError
	require.ErrorAs(t, err, &cycleErr)
}

type cyclicSystem struct{ id int }

func (c cyclicSystem) AccessPolicy() AccessPolicy { return NewAccessPolicy() }
func (c cyclicSystem) Run(*Context) error         { return nil }
func (c cyclicSystem) Before() []ScheduleID       { return []ScheduleID{typeIDOfCyclic(3 - c.id)} }
func (c cyclicSystem) After() []ScheduleID        { return []ScheduleID{typeIDOfCyclic(3 - c.id)} }

func typeIDOfCyclic(id int) ScheduleID {
	if id == 1 {
		return scheduleIDOfSystem(cyclicSystem{id: 1})
	}
	return scheduleIDOfSystem(cyclicSystem{id: 2})
}

func TestStagesRunInFixedOrder(t *testing.T) {
	var ran []string
	s := NewScheduler()
	s.AddSystem(writerSystem{ran: &ran}, InStage[CleanUp]())
	s.AddSystem(readerSystem{ran: &ran}, InStage[StartUp]())

	plan, err := Compile(s)
	require.NoError(t, err)
	require.Len(t, plan.Stages, 2)
	require.Equal(t, "StartUp", plan.Stages[0].Name)
	require.Equal(t, "CleanUp", plan.Stages[1].Name)
}
