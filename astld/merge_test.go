package astld

import (
	"errors"
	"strings"
	"testing"
)

func mustMerge(t *testing.T, left, right *Record) *Record {
	t.Helper()
	out, err := Merge(left, right)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	return out
}

func TestMergeLeftWins(t *testing.T) {
	left := mustRecord(t, `{"name":"left","only":1}`)
	right := mustRecord(t, `{"name":"right","extra":2}`)

	got := mustMerge(t, left, right)
	want := mustRecord(t, `{"name":"left","only":1,"extra":2}`)
	if !got.Equal(want) {
		data, _ := got.MarshalJSON()
		t.Fatalf("unexpected merge result %s", data)
	}
}

func TestMergeRecursesIntoRecords(t *testing.T) {
	left := mustRecord(t, `{"@context":{"sysml":"http://left#"}}`)
	right := mustRecord(t, `{"@context":{"sysml":"http://right#","@vocab":"http://v#"}}`)

	got := mustMerge(t, left, right)
	want := mustRecord(t, `{"@context":{"sysml":"http://left#","@vocab":"http://v#"}}`)
	if !got.Equal(want) {
		data, _ := got.MarshalJSON()
		t.Fatalf("unexpected merge result %s", data)
	}
}

func TestMergeMixedKindsKeepsLeft(t *testing.T) {
	left := mustRecord(t, `{"k":"scalar","l":[1]}`)
	right := mustRecord(t, `{"k":{"nested":true},"l":{"x":1}}`)

	got := mustMerge(t, left, right)
	want := mustRecord(t, `{"k":"scalar","l":[1]}`)
	if !got.Equal(want) {
		data, _ := got.MarshalJSON()
		t.Fatalf("unexpected merge result %s", data)
	}
}

func TestMergeNullFallsBackToRight(t *testing.T) {
	left := mustRecord(t, `{"@type":"PartUsage","declaredName":null,"ctx":{"n":null}}`)
	right := mustRecord(t, `{"declaredName":"fromContext","ctx":{"n":{"deep":1}}}`)

	got := mustMerge(t, left, right)
	want := mustRecord(t, `{"@type":"PartUsage","declaredName":"fromContext","ctx":{"n":{"deep":1}}}`)
	if !got.Equal(want) {
		data, _ := got.MarshalJSON()
		t.Fatalf("unexpected merge result %s", data)
	}
}

func TestMergeKeepsOneSidedNull(t *testing.T) {
	left := mustRecord(t, `{"a":null}`)
	right := mustRecord(t, `{"b":null}`)

	got := mustMerge(t, left, right)
	want := mustRecord(t, `{"a":null,"b":null}`)
	if !got.Equal(want) {
		data, _ := got.MarshalJSON()
		t.Fatalf("unexpected merge result %s", data)
	}
}

func TestMergeNullOnBothSidesFails(t *testing.T) {
	left := mustRecord(t, `{"ctx":{"name":null}}`)
	right := mustRecord(t, `{"ctx":{"name":null}}`)

	_, err := Merge(left, right)
	if !errors.Is(err, ErrNullConflict) {
		t.Fatalf("expected ErrNullConflict, got %v", err)
	}
	if !strings.Contains(err.Error(), `"ctx.name"`) {
		t.Fatalf("error should name the key path: %v", err)
	}
}

func TestMergeIdentityAndTotality(t *testing.T) {
	a := mustRecord(t, `{"x":1,"y":{"z":[1,2]}}`)
	b := mustRecord(t, `{"w":"q","y":{"v":false}}`)

	if got := mustMerge(t, a, NewRecord()); !got.Equal(a) {
		t.Fatal("merge with empty right should equal left")
	}
	if got := mustMerge(t, NewRecord(), a); !got.Equal(a) {
		t.Fatal("merge with empty left should equal right")
	}
	if got := mustMerge(t, a, nil); !got.Equal(a) {
		t.Fatal("merge with nil right should equal left")
	}

	got := mustMerge(t, a, b)
	if keys := strings.Join(got.Keys(), ","); keys != "x,y,w" {
		t.Fatalf("unexpected key set %q", keys)
	}
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	a := mustRecord(t, `{"ctx":{"a":1}}`)
	b := mustRecord(t, `{"ctx":{"b":2}}`)
	aCopy, bCopy := a.Clone(), b.Clone()

	out := mustMerge(t, a, b)
	v, _ := out.Get("ctx")
	nested, _ := v.Record()
	nested.Set("c", Number("3"))

	if !a.Equal(aCopy) || !b.Equal(bCopy) {
		t.Fatal("merge mutated its inputs")
	}
}
