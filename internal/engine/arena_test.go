package engine

import "testing"

func TestArenaInsertGet(t *testing.T) {
	var a Arena[int]

	h1 := a.Insert(10)
	h2 := a.Insert(20)

	if h1 == h2 {
		t.Fatal("distinct inserts returned the same handle")
	}
	if v := a.Get(h1); v == nil || *v != 10 {
		t.Errorf("expected 10, got %v", v)
	}
	if v := a.Get(h2); v == nil || *v != 20 {
		t.Errorf("expected 20, got %v", v)
	}
	if a.Len() != 2 {
		t.Errorf("expected len 2, got %d", a.Len())
	}
}

func TestArenaRemoveInvalidatesHandle(t *testing.T) {
	var a Arena[string]

	h := a.Insert("x")
	if _, ok := a.Remove(h); !ok {
		t.Fatal("remove of live handle failed")
	}
	if a.Get(h) != nil {
		t.Error("stale handle still resolves")
	}
	if _, ok := a.Remove(h); ok {
		t.Error("double remove succeeded")
	}
}

func TestArenaSlotReuseBumpsGeneration(t *testing.T) {
	var a Arena[int]

	h1 := a.Insert(1)
	a.Remove(h1)
	h2 := a.Insert(2)

	if h2.Index != h1.Index {
		t.Fatalf("expected slot reuse, got index %d then %d", h1.Index, h2.Index)
	}
	if h2.Generation == h1.Generation {
		t.Error("reused slot kept the old generation")
	}
	if a.Get(h1) != nil {
		t.Error("old-generation handle resolves to the new entry")
	}
	if v := a.Get(h2); v == nil || *v != 2 {
		t.Errorf("expected 2, got %v", v)
	}
}

func TestInvalidHandleNeverResolves(t *testing.T) {
	var a Arena[int]
	a.Insert(1)

	if a.Get(InvalidHandle) != nil {
		t.Error("invalid handle resolved")
	}
}
