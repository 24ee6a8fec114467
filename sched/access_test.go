package sched

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type accessTestGameTime struct{ DeltaTime float64 }

type accessTestThreadSafeResource struct{ Value int }

func (accessTestThreadSafeResource) ThreadSafe() {}

func TestThreadSafeResourcesAreIgnoredInReadResources(t *testing.T) {
	p := NewAccessPolicy().Resources(ReadRes[accessTestThreadSafeResource](), ReadRes[accessTestGameTime]())
	require.Len(t, p.ReadResources(), 1)
	require.Equal(t, ReadRes[accessTestGameTime]().Name, p.ReadResources()[0].Name)
}

func TestThreadSafeResourcesAreIgnoredInWriteResources(t *testing.T) {
	p := NewAccessPolicy().Resources(WriteRes[accessTestThreadSafeResource](), WriteRes[accessTestGameTime]())
	require.Len(t, p.WriteResources(), 1)
	require.Equal(t, WriteRes[accessTestGameTime]().Name, p.WriteResources()[0].Name)
}

func TestThreadSafeResourcesNeverConflict(t *testing.T) {
	a := NewAccessPolicy().Resources(WriteRes[accessTestThreadSafeResource]())
	b := NewAccessPolicy().Resources(WriteRes[accessTestThreadSafeResource]())
	require.False(t, Conflicts(a, b))
}
