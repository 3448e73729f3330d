// Package reconcile aligns an annotation set's declared page order with the
// original source document's pages. The device lets users insert, delete and
// reorder pages after annotating a PDF; reconciliation computes the final
// page order and the provenance of every output page as a pure function of
// the two page lists.
package reconcile

import "fmt"

// Status classifies an output page relative to the source document.
type Status int

const (
	// Unchanged: the page maps to the same source position and carries no ink.
	Unchanged Status = iota
	// Annotated: same source position, with ink.
	Annotated
	// Inserted: created on the device, no source page behind it.
	Inserted
	// Moved: maps to a source page at a different position.
	Moved
)

func (s Status) String() string {
	switch s {
	case Unchanged:
		return "unchanged"
	case Annotated:
		return "annotated"
	case Inserted:
		return "inserted"
	case Moved:
		return "moved"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Entry is one page of the annotation set's declared order.
type Entry struct {
	// ID is the stable page identifier.
	ID string
	// Original is the zero-based index of the source page this entry
	// redirects to, or -1 for device-inserted pages.
	Original int
	// Annotated is set when the page carries non-empty layers.
	Annotated bool
}

// PageMapping describes one output page. Output pages follow the annotation
// list's order. The mapping is derived once per render pass and never
// mutated afterwards.
type PageMapping struct {
	Status   Status
	ID       string
	Original int // source page index, -1 for inserted pages
	Position int // output position, zero-based
}

// Result is the reconciliation outcome: the ordered output pages plus the
// source page indexes that were deleted on the device and are omitted from
// the output.
type Result struct {
	Pages   []PageMapping
	Deleted []int
}

// PageReferenceError reports reconciliation metadata pointing outside the
// source document. The engine never clamps such references.
type PageReferenceError struct {
	ID        string
	Reference int
	PageCount int
}

func (e *PageReferenceError) Error() string {
	return fmt.Sprintf("page %q references source page %d outside document of %d pages",
		e.ID, e.Reference, e.PageCount)
}

// Reconcile aligns the annotation entries against a source document of
// originalCount pages. A nil entries slice means the document carries no
// edit-tracking metadata; the result is then the identity mapping over the
// source pages.
func Reconcile(originalCount int, entries []Entry) (*Result, error) {
	if entries == nil {
		res := &Result{Pages: make([]PageMapping, originalCount)}
		for i := range res.Pages {
			res.Pages[i] = PageMapping{Status: Unchanged, Original: i, Position: i}
		}
		return res, nil
	}

	res := &Result{Pages: make([]PageMapping, 0, len(entries))}
	referenced := make(map[int]bool, len(entries))

	for pos, e := range entries {
		m := PageMapping{ID: e.ID, Original: e.Original, Position: pos}
		switch {
		case e.Original < 0:
			m.Status = Inserted
			m.Original = -1
		case e.Original >= originalCount:
			return nil, &PageReferenceError{ID: e.ID, Reference: e.Original, PageCount: originalCount}
		case e.Original == pos:
			if e.Annotated {
				m.Status = Annotated
			} else {
				m.Status = Unchanged
			}
			referenced[e.Original] = true
		default:
			m.Status = Moved
			referenced[e.Original] = true
		}
		res.Pages = append(res.Pages, m)
	}

	for i := 0; i < originalCount; i++ {
		if !referenced[i] {
			res.Deleted = append(res.Deleted, i)
		}
	}
	return res, nil
}
