package directory

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"
)

func TestValidateParentAcceptsChain(t *testing.T) {
	parents := map[string]string{"b1": "", "b2": "b1", "b3": "b2"}

	if err := validateParent(parents, "", "b3"); err != nil {
		t.Fatalf("new branch under leaf: %v", err)
	}
	if err := validateParent(parents, "b3", "b1"); err != nil {
		t.Fatalf("reparent to ancestor of parent: %v", err)
	}
}

func TestValidateParentRejectsSelf(t *testing.T) {
	parents := map[string]string{"b1": ""}
	if !errors.Is(validateParent(parents, "b1", "b1"), ErrInvalidHierarchy) {
		t.Fatal("expected ErrInvalidHierarchy for self-parent")
	}
}

func TestValidateParentRejectsCycle(t *testing.T) {
	// b2 is a child of b1; moving b1 under b2 would close a loop.
	parents := map[string]string{"b1": "", "b2": "b1"}
	if !errors.Is(validateParent(parents, "b1", "b2"), ErrInvalidHierarchy) {
		t.Fatal("expected ErrInvalidHierarchy for cycle")
	}
}

func TestValidateParentRejectsUnknownParent(t *testing.T) {
	parents := map[string]string{"b1": ""}
	if !errors.Is(validateParent(parents, "", "b9"), ErrInvalidHierarchy) {
		t.Fatal("expected ErrInvalidHierarchy for parent outside the company")
	}
}

func TestValidateParentRejectsBrokenChain(t *testing.T) {
	// b2 points at a parent that is not in the map.
	parents := map[string]string{"b2": "missing"}
	if !errors.Is(validateParent(parents, "", "b2"), ErrInvalidHierarchy) {
		t.Fatal("expected ErrInvalidHierarchy for dangling ancestor chain")
	}
}

// Random reparent sequences must never produce a tree whose parent chains
// fail to terminate.
func TestRandomReparentSequencesStayAcyclic(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	const branches = 12
	parents := map[string]string{}
	for i := 0; i < branches; i++ {
		parents[fmt.Sprintf("b%d", i)] = ""
	}

	ids := make([]string, 0, branches)
	for id := range parents {
		ids = append(ids, id)
	}

	for step := 0; step < 2000; step++ {
		child := ids[rng.Intn(len(ids))]
		parent := ids[rng.Intn(len(ids))]
		if err := validateParent(parents, child, parent); err != nil {
			continue
		}
		parents[child] = parent
	}

	for id := range parents {
		steps := 0
		for current := id; current != ""; current = parents[current] {
			steps++
			if steps > branches {
				t.Fatalf("parent chain from %s does not terminate", id)
			}
		}
	}
}
