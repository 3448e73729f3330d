// Package render drives the annotation rendering pipeline: it reconciles
// the annotation set's page order against the source document, composites
// each page's layers into draw instructions, pairs them with the right
// background, and hands the resulting draw jobs to a document writer in
// final page order.
package render

import (
	"context"
	"fmt"
	"iter"

	"github.com/wudi/rmrender/compose"
	"github.com/wudi/rmrender/ink"
	"github.com/wudi/rmrender/observability"
	"github.com/wudi/rmrender/reconcile"
	"github.com/wudi/rmrender/style"
	"github.com/wudi/rmrender/template"
)

// PageRef is an opaque handle to one source-document page, produced by the
// source collaborator and consumed unchanged by the document writer.
type PageRef interface{}

// SourceDocument supplies the original document's pages by index.
type SourceDocument interface {
	PageCount() int
	Page(index int) (PageRef, error)
}

// Background is what a writer draws beneath a page's annotation layers.
// At most one of Original and Template is set; both nil means a blank page.
type Background struct {
	Original PageRef
	Template *template.Asset
}

// Job is the complete draw job for one output page.
type Job struct {
	// Index is the zero-based output position of the page.
	Index int
	// Total is the number of output pages in this render pass.
	Total      int
	Mapping    reconcile.PageMapping
	Background Background
	// Art is the composited annotation drawing, nil for pages without ink.
	Art *compose.PageArt
	// Annotations are grouped bounding regions for writers that emit
	// document annotations alongside the drawing.
	Annotations []compose.AnnotationGroup
}

// DocumentWriter consumes draw jobs in order and owns final serialization.
type DocumentWriter interface {
	WritePage(ctx context.Context, job *Job) error
}

// ProgressFunc is called with a percentage in [0, 100] after each completed
// page. Returning an error aborts the render; the error surfaces to the
// caller wrapped in AbortError.
type ProgressFunc func(percent int) error

// AbortError wraps the error a progress callback returned to cancel a
// render. No further pages are emitted after the abort.
type AbortError struct {
	Cause error
}

func (e *AbortError) Error() string { return fmt.Sprintf("render aborted: %v", e.Cause) }
func (e *AbortError) Unwrap() error { return e.Cause }

// Renderer orchestrates one or more render passes. All fields but Styles
// are optional; a zero Source renders notebooks (no original pages), a nil
// Templates store yields blank backgrounds.
type Renderer struct {
	Source    SourceDocument
	Templates template.Store
	Styles    *style.Mapper
	Progress  ProgressFunc
	Logger    observability.Logger
	// Compositor overrides the default one, e.g. to disable the pencil
	// jitter approximation.
	Compositor *compose.Compositor
}

// NewRenderer returns a Renderer with default styles and no logging.
func NewRenderer() *Renderer {
	return &Renderer{
		Styles: style.NewMapper(0),
		Logger: observability.NopLogger{},
	}
}

func (r *Renderer) logger() observability.Logger {
	if r.Logger == nil {
		return observability.NopLogger{}
	}
	return r.Logger
}

func (r *Renderer) sourceCount() int {
	if r.Source == nil {
		return 0
	}
	return r.Source.PageCount()
}

// entries builds the reconciliation input from the decoded document. A
// document without edit tracking maps 1:1 onto the source pages; source
// pages beyond the annotation set still appear in the output, unannotated.
func (r *Renderer) entries(doc *ink.Document) []reconcile.Entry {
	if doc.EditTracked {
		out := make([]reconcile.Entry, len(doc.Pages))
		for i := range doc.Pages {
			p := &doc.Pages[i]
			out[i] = reconcile.Entry{ID: p.ID, Original: p.Original, Annotated: p.Annotated()}
		}
		return out
	}

	n := max(len(doc.Pages), r.sourceCount())
	out := make([]reconcile.Entry, n)
	for i := range out {
		out[i] = reconcile.Entry{Original: i}
		if r.Source == nil {
			// Notebook: no source document behind the pages.
			out[i].Original = -1
		}
		if i < len(doc.Pages) {
			out[i].ID = doc.Pages[i].ID
			out[i].Annotated = doc.Pages[i].Annotated()
		}
	}
	return out
}

// Jobs returns the render pass as a finite, restartable lazy sequence of
// draw jobs in final page order. Ranging over it again restarts the pass
// from the first page; the document itself is never mutated. On failure the
// sequence yields a nil job with an error carrying the output page index,
// then stops.
func (r *Renderer) Jobs(doc *ink.Document) iter.Seq2[*Job, error] {
	return func(yield func(*Job, error) bool) {
		res, err := reconcile.Reconcile(r.sourceCount(), r.entries(doc))
		if err != nil {
			yield(nil, fmt.Errorf("reconcile pages: %w", err))
			return
		}

		log := r.logger()
		log.Debug("page order reconciled",
			observability.Int("pages", len(res.Pages)),
			observability.Int("deleted", len(res.Deleted)))

		comp := r.Compositor
		if comp == nil {
			comp = compose.NewCompositor(r.styles())
		}
		for _, m := range res.Pages {
			job, err := r.buildJob(comp, doc, m, len(res.Pages))
			if err != nil {
				yield(nil, fmt.Errorf("page %d: %w", m.Position, err))
				return
			}
			if !yield(job, nil) {
				return
			}
		}
	}
}

func (r *Renderer) styles() *style.Mapper {
	if r.Styles == nil {
		return style.NewMapper(0)
	}
	return r.Styles
}

func (r *Renderer) buildJob(comp *compose.Compositor, doc *ink.Document, m reconcile.PageMapping, total int) (*Job, error) {
	job := &Job{Index: m.Position, Total: total, Mapping: m}

	// Entries are built in doc.Pages order, so the output position indexes
	// back into the decoded pages. Identity mappings may extend past them.
	var page *ink.Page
	if m.Position < len(doc.Pages) {
		page = &doc.Pages[m.Position]
	}

	if err := r.selectBackground(job, page, m); err != nil {
		return nil, err
	}

	if page != nil && page.Annotated() {
		art, err := comp.Composite(page.Layers, doc.Version)
		if err != nil {
			return nil, err
		}
		job.Art = art
		for i := range page.Layers {
			l := &page.Layers[i]
			if l.Empty() {
				continue
			}
			job.Annotations = append(job.Annotations,
				compose.GroupAnnotations(l.Name, l.Z, art)...)
		}
	}
	return job, nil
}

// selectBackground picks original page content when the page maps to a
// source page, a template otherwise, and a blank page when neither exists.
func (r *Renderer) selectBackground(job *Job, page *ink.Page, m reconcile.PageMapping) error {
	if m.Original >= 0 && r.Source != nil {
		ref, err := r.Source.Page(m.Original)
		if err != nil {
			return fmt.Errorf("source page %d: %w", m.Original, err)
		}
		job.Background.Original = ref
		return nil
	}
	if page == nil || r.Templates == nil {
		return nil
	}
	asset, err := r.Templates.Template(page.Template)
	if err != nil {
		return fmt.Errorf("template %q: %w", page.Template, err)
	}
	job.Background.Template = asset
	return nil
}

// Render runs one full pass, writing every page through w. The progress
// callback fires after each page with a non-decreasing percentage, the last
// call with exactly 100. The failing page's output is withheld from the
// writer; nothing is emitted after an error or abort.
func (r *Renderer) Render(ctx context.Context, doc *ink.Document, w DocumentWriter) error {
	if !doc.Version.Supported() {
		return fmt.Errorf("unsupported schema version %d", int(doc.Version))
	}
	log := r.logger()

	done := 0
	for job, err := range r.Jobs(doc) {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.WritePage(ctx, job); err != nil {
			return fmt.Errorf("page %d: write: %w", job.Index, err)
		}

		done++
		log.Debug("page rendered",
			observability.Int("page", job.Index),
			observability.String("status", job.Mapping.Status.String()))
		if r.Progress != nil {
			if err := r.Progress(done * 100 / job.Total); err != nil {
				return &AbortError{Cause: err}
			}
		}
	}

	log.Info("render complete", observability.Int("pages", done))
	return nil
}
