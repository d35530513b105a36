package scope_test

import (
	"testing"

	"github.com/jexlang/jexl/internal/scope"
)

func TestDeclareAndResolveSameScope(t *testing.T) {
	s := scope.NewScope()
	sym := s.DeclareLocal("x")
	resolved, ok := s.Resolve("x")
	if !ok || resolved != sym {
		t.Fatalf("Resolve(x) = %v, %v, want %v, true", resolved, ok, sym)
	}
	// re-declaring the same name returns the same slot.
	again := s.DeclareLocal("x")
	if again != sym {
		t.Errorf("re-declaring x = %v, want %v", again, sym)
	}
}

func TestResolveUnknownFallsThroughToContext(t *testing.T) {
	s := scope.NewScope()
	if _, ok := s.Resolve("nope"); ok {
		t.Error("resolving an undeclared name in a root scope should fail")
	}
}

func TestResolveCapturesOuterScope(t *testing.T) {
	parent := scope.NewScope()
	outer := parent.DeclareLocal("n")
	child := scope.NewChild(parent)

	sym, ok := child.Resolve("n")
	if !ok {
		t.Fatal("child should resolve a name declared in its parent")
	}
	capturedOuter, isCapture := child.IsCapture(sym)
	if !isCapture {
		t.Fatal("resolving a parent-scope name should materialize a capture slot")
	}
	if capturedOuter != outer {
		t.Errorf("capture points at slot %v, want %v", capturedOuter, outer)
	}
}

func TestHasLocalExcludesCaptures(t *testing.T) {
	parent := scope.NewScope()
	parent.DeclareLocal("n")
	child := scope.NewChild(parent)
	child.Resolve("n")
	if child.HasLocal("n") {
		t.Error("HasLocal should not count a captured name as locally declared")
	}
	child.DeclareLocal("m")
	if !child.HasLocal("m") {
		t.Error("HasLocal should report a name declared directly in this scope")
	}
}

func TestFrameGetSetAndUndefined(t *testing.T) {
	s := scope.NewScope()
	x := s.DeclareParameter("x")
	y := s.DeclareLocal("y")

	f := scope.NewFrame(s, []any{42})
	if f.Get(x) != 42 {
		t.Errorf("Get(x) = %v, want 42", f.Get(x))
	}
	if !f.Has(x) {
		t.Error("a parameter slot should be marked assigned")
	}
	if f.Has(y) {
		t.Error("an unassigned local should not be marked assigned yet")
	}
	if f.Get(y) != scope.UNDEFINED {
		t.Errorf("Get(y) before assignment = %v, want UNDEFINED", f.Get(y))
	}

	f.Set(y, "hello")
	if !f.Has(y) {
		t.Error("y should be marked assigned after Set")
	}
	if f.Get(y) != "hello" {
		t.Errorf("Get(y) after Set = %v, want hello", f.Get(y))
	}
}

func TestFrameChildCapturesOuterFrame(t *testing.T) {
	parent := scope.NewScope()
	n := parent.DeclareLocal("n")
	child := scope.NewChild(parent)
	capSym, _ := child.Resolve("n")

	parentFrame := scope.NewFrame(parent, nil)
	parentFrame.Set(n, 7)
	childFrame := parentFrame.CreateChild(child, nil)

	if childFrame.Get(capSym) != 7 {
		t.Errorf("child frame read through capture = %v, want 7", childFrame.Get(capSym))
	}

	childFrame.Set(capSym, 9)
	if parentFrame.Get(n) != 9 {
		t.Errorf("write through capture should mutate the outer frame; got %v, want 9", parentFrame.Get(n))
	}
	if childFrame.Outer() != parentFrame {
		t.Error("CreateChild should wire Outer() to the parent frame")
	}
}
