package reconcile

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestIdentityOrderIsPreserved(t *testing.T) {
	entries := []Entry{
		{ID: "a", Original: 0},
		{ID: "b", Original: 1, Annotated: true},
		{ID: "c", Original: 2},
	}
	res, err := Reconcile(3, entries)
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}
	want := []PageMapping{
		{Status: Unchanged, ID: "a", Original: 0, Position: 0},
		{Status: Annotated, ID: "b", Original: 1, Position: 1},
		{Status: Unchanged, ID: "c", Original: 2, Position: 2},
	}
	if diff := cmp.Diff(want, res.Pages); diff != "" {
		t.Fatalf("pages mismatch (-want +got):\n%s", diff)
	}
	if len(res.Deleted) != 0 {
		t.Fatalf("expected no deleted pages, got %v", res.Deleted)
	}
}

func TestInsertedPage(t *testing.T) {
	// original [A, B]; annotation list [A, X, B]
	entries := []Entry{
		{ID: "a", Original: 0},
		{ID: "x", Original: -1},
		{ID: "b", Original: 1},
	}
	res, err := Reconcile(2, entries)
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}
	if got := res.Pages[1].Status; got != Inserted {
		t.Fatalf("expected page x inserted, got %v", got)
	}
	if res.Pages[1].Original != -1 {
		t.Fatalf("inserted page must not reference a source page")
	}
	// B sits at position 2 but references source page 1.
	if got := res.Pages[2].Status; got != Moved {
		t.Fatalf("expected page b moved, got %v", got)
	}
}

func TestDeletedAndReordered(t *testing.T) {
	// original [A, B, C]; annotation list [C, A]
	entries := []Entry{
		{ID: "c", Original: 2},
		{ID: "a", Original: 0},
	}
	res, err := Reconcile(3, entries)
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}
	if len(res.Pages) != 2 {
		t.Fatalf("expected 2 output pages, got %d", len(res.Pages))
	}
	for i, want := range []string{"c", "a"} {
		if res.Pages[i].ID != want {
			t.Fatalf("position %d: expected page %q, got %q", i, want, res.Pages[i].ID)
		}
		if res.Pages[i].Status != Moved {
			t.Fatalf("position %d: expected moved, got %v", i, res.Pages[i].Status)
		}
	}
	if diff := cmp.Diff([]int{1}, res.Deleted); diff != "" {
		t.Fatalf("deleted mismatch (-want +got):\n%s", diff)
	}
}

func TestOutOfBoundsReference(t *testing.T) {
	_, err := Reconcile(2, []Entry{{ID: "a", Original: 5}})
	var refErr *PageReferenceError
	if !errors.As(err, &refErr) {
		t.Fatalf("expected PageReferenceError, got %v", err)
	}
	if refErr.Reference != 5 || refErr.PageCount != 2 {
		t.Fatalf("unexpected error detail: %+v", refErr)
	}
}

func TestMissingMetadataIsIdentity(t *testing.T) {
	res, err := Reconcile(4, nil)
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}
	if len(res.Pages) != 4 {
		t.Fatalf("expected 4 pages, got %d", len(res.Pages))
	}
	for i, m := range res.Pages {
		if m.Status != Unchanged || m.Original != i || m.Position != i {
			t.Fatalf("page %d: not an identity mapping: %+v", i, m)
		}
	}
}

func TestStatusStrings(t *testing.T) {
	cases := map[Status]string{
		Unchanged: "unchanged",
		Annotated: "annotated",
		Inserted:  "inserted",
		Moved:     "moved",
	}
	for st, want := range cases {
		if got := st.String(); got != want {
			t.Errorf("%d: expected %q, got %q", int(st), want, got)
		}
	}
}
