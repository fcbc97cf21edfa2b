package engine

import (
	"reflect"
	"testing"

	"github.com/Siridelta/PerSpatia-Ad-Destra-sub000/pkg/domain"
)

func TestDependencyIndex_Adjacency(t *testing.T) {
	idx := NewDependencyIndex([]domain.EdgeSpec{
		{Source: "a", Target: "b"},
		{Source: "a", Target: "c"},
		{Source: "b", Target: "d"},
		{Source: "c", Target: "d"},
	})

	if got := idx.Outgoing("a"); !reflect.DeepEqual(got, []string{"b", "c"}) {
		t.Errorf("outgoing(a) = %v", got)
	}
	if got := idx.Incoming("d"); !reflect.DeepEqual(got, []string{"b", "c"}) {
		t.Errorf("incoming(d) = %v", got)
	}
	if got := idx.Incoming("a"); got != nil {
		t.Errorf("incoming(a) = %v, want nil", got)
	}
}

func TestDependencyIndex_DeduplicatesParallelEdges(t *testing.T) {
	idx := NewDependencyIndex([]domain.EdgeSpec{
		{Source: "a", Target: "b"},
		{Source: "a", Target: "b"},
		{Source: "a", Target: "b"},
	})

	if got := idx.Incoming("b"); len(got) != 1 {
		t.Errorf("expected parallel edges collapsed, got %v", got)
	}
	if got := idx.Outgoing("a"); len(got) != 1 {
		t.Errorf("expected parallel edges collapsed, got %v", got)
	}
}

func TestDependencyIndex_PreservesEdgeListOrder(t *testing.T) {
	// Incoming order drives input merging, so it must follow the edge list.
	idx := NewDependencyIndex([]domain.EdgeSpec{
		{Source: "z", Target: "sink"},
		{Source: "a", Target: "sink"},
		{Source: "m", Target: "sink"},
	})

	if got := idx.Incoming("sink"); !reflect.DeepEqual(got, []string{"z", "a", "m"}) {
		t.Errorf("incoming(sink) = %v, want edge-list order", got)
	}
}
