// Package wheel is the sunburst view: it owns the current document's tree,
// frame geometry, selection and edit session, and exposes one method per
// host command. A View is not safe for concurrent use; hosts deliver events
// one at a time.
package wheel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgallion1/docwheel/internal/doctree"
	"github.com/dgallion1/docwheel/internal/edit"
	"github.com/dgallion1/docwheel/internal/layout"
	"github.com/dgallion1/docwheel/internal/navigate"
	"github.com/dgallion1/docwheel/internal/parser"
	"github.com/dgallion1/docwheel/internal/patch"
	"github.com/dgallion1/docwheel/internal/render"
	"github.com/dgallion1/docwheel/internal/store"
)

// Config wires a View to its collaborators.
type Config struct {
	Store   store.Store
	Scanner parser.Scanner
	Options layout.Options
	Width   float64
	Height  float64
	Logger  *slog.Logger
}

// View is one visualization of one document.
type View struct {
	store   store.Store
	scanner parser.Scanner
	patcher *patch.Patcher
	painter *render.Painter
	opts    layout.Options
	log     *slog.Logger

	path    string
	loaded  bool
	visible bool
	text    string
	tree    *doctree.Node

	width, height float64
	frame         layout.Frame
	index         *navigate.Index
	ctrl          edit.Controller
}

// New returns a visible view with no document loaded.
func New(cfg Config) *View {
	if cfg.Scanner == nil {
		cfg.Scanner = parser.LineScanner{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	return &View{
		store:   cfg.Store,
		scanner: cfg.Scanner,
		patcher: patch.New(cfg.Scanner),
		painter: render.NewPainter(cfg.Options),
		opts:    cfg.Options,
		log:     cfg.Logger,
		visible: true,
		width:   cfg.Width,
		height:  cfg.Height,
		index:   navigate.NewIndex(nil),
	}
}

// Open loads the document at path and makes it the view's document.
func (v *View) Open(ctx context.Context, path string) error {
	prev := v.path
	v.path = path
	if err := v.Reload(ctx); err != nil {
		v.path = prev
		return err
	}
	return nil
}

// Close unloads the document. Nothing is rendered afterwards.
func (v *View) Close() {
	v.path = ""
	v.loaded = false
	v.text = ""
	v.tree = nil
	v.frame = layout.Frame{}
	v.index.Reset(nil)
	v.ctrl.Abort()
}

// Reload re-reads the document and rebuilds tree, frame and index. The
// selection is cleared. With no document it only clears the view.
func (v *View) Reload(ctx context.Context) error {
	if v.path == "" {
		v.Close()
		return nil
	}
	text, err := v.store.Read(ctx, v.path)
	if err != nil {
		v.log.Error("document read failed", "document", v.path, "error", err)
		return &StoreError{Op: "read", Path: v.path, Err: err}
	}
	v.apply(text)
	v.index.Clear()
	v.ctrl.Deselect()
	v.log.Info("document loaded", "document", v.path, "sections", len(v.frame.Sections))
	return nil
}

// apply replaces the document text and rebuilds everything derived from it.
func (v *View) apply(text string) {
	v.text = text
	v.loaded = true
	v.tree = parser.Parse(text, parser.DocumentName(v.path), v.scanner)
	v.relayout()
}

func (v *View) relayout() {
	v.frame = layout.Compute(v.tree, v.width, v.height, v.opts)
	v.index.Reset(v.frame.Sections)
}

// Resize lays the current tree out for a new surface size and re-resolves
// the selection.
func (v *View) Resize(width, height float64) {
	v.width, v.height = width, height
	if !v.loaded {
		return
	}
	sel, had := v.index.Selected()
	v.relayout()
	if had {
		v.reselect(sel.Path, sel.Title)
	}
	if s := v.ctrl.Session(); s != nil {
		if cur, ok := v.index.Selected(); ok {
			s.Prompt = edit.Placement(cur, s.Mode)
		}
	}
}

// Toggle shows or hides the visualization and reports the new visibility.
// Hiding clears the selection and discards any open edit.
func (v *View) Toggle() bool {
	v.visible = !v.visible
	if !v.visible {
		v.index.Clear()
		v.ctrl.Abort()
	}
	return v.visible
}

func (v *View) ready() bool {
	return v.visible && v.loaded && v.ctrl.State() != edit.Editing
}

// sync mirrors the index selection into the controller.
func (v *View) sync(s layout.Section, ok bool) (layout.Section, bool) {
	if ok {
		v.ctrl.Select()
	} else {
		v.ctrl.Deselect()
	}
	return s, ok
}

// Click selects the section under surface point (x, y); a miss clears the
// selection. Ignored while editing.
func (v *View) Click(x, y float64) (layout.Section, bool) {
	if !v.ready() {
		return v.index.Selected()
	}
	return v.sync(v.index.Click(x, y))
}

// SelectFirst selects the first rendered section.
func (v *View) SelectFirst() (layout.Section, bool) {
	if !v.ready() {
		return v.index.Selected()
	}
	return v.sync(v.index.SelectFirst())
}

// Navigate moves the selection geometrically.
func (v *View) Navigate(d navigate.Direction) (layout.Section, bool) {
	if !v.ready() {
		return v.index.Selected()
	}
	return v.sync(v.index.Move(d))
}

// Find selects the section whose title best matches query. A query with no
// match leaves the selection unchanged.
func (v *View) Find(query string) (layout.Section, bool) {
	if !v.ready() {
		return v.index.Selected()
	}
	if s, ok := v.index.Find(query); ok {
		return v.sync(s, true)
	}
	return v.index.Selected()
}

// SelectTitle selects the first section titled exactly title.
func (v *View) SelectTitle(title string) (layout.Section, bool) {
	if !v.ready() {
		return v.index.Selected()
	}
	if s, ok := v.index.SelectTitle(title); ok {
		return v.sync(s, true)
	}
	return v.index.Selected()
}

// BeginRename opens a rename session on the selection.
func (v *View) BeginRename() (*edit.Session, error) {
	return v.begin(edit.Rename)
}

// BeginInsertChild opens a session that adds a child under the selection.
func (v *View) BeginInsertChild() (*edit.Session, error) {
	return v.begin(edit.InsertChild)
}

// BeginInsertSibling opens a session that adds a sibling after the
// selection's subtree.
func (v *View) BeginInsertSibling() (*edit.Session, error) {
	return v.begin(edit.InsertSibling)
}

func (v *View) begin(mode edit.Mode) (*edit.Session, error) {
	if !v.visible {
		return nil, ErrHidden
	}
	if !v.loaded {
		return nil, ErrNoDocument
	}
	if v.ctrl.State() == edit.Editing {
		return nil, edit.ErrEditInProgress
	}
	sel, ok := v.index.Selected()
	if !ok {
		return nil, edit.ErrNoSelection
	}
	node, path := v.tree.Resolve(sel.Path, sel.Title)
	if node == nil {
		v.index.Clear()
		v.ctrl.Abort()
		v.log.Warn("stale selection", "document", v.path, "title", sel.Title)
		return nil, ErrStaleReference
	}
	return v.ctrl.Begin(mode, v.tree, node, path, edit.Placement(sel, mode))
}

// Commit applies the open session with text. Empty or unchanged text closes
// the session without touching the document. On success the document is
// re-read from the written text and the edited or created section selected.
func (v *View) Commit(ctx context.Context, text string) error {
	title, ok, err := v.ctrl.Prepare(text)
	if err != nil {
		return err
	}
	if !ok {
		return v.finish()
	}
	s := v.ctrl.Session()
	log := v.log.With("document", v.path, "mode", s.Mode.String(), "target", s.Target.String())

	current, err := v.store.Read(ctx, v.path)
	if err != nil {
		v.finish()
		log.Error("document read failed", "error", err)
		return &StoreError{Op: "read", Path: v.path, Err: err}
	}

	var patched string
	switch s.Mode {
	case edit.Rename:
		patched, err = v.patcher.Rename(current, s.Target, title)
	case edit.InsertChild:
		patched, err = v.patcher.InsertChild(current, s.Target, title)
	case edit.InsertSibling:
		patched, err = v.patcher.InsertSibling(current, s.Target, title)
	default:
		err = fmt.Errorf("unsupported edit mode %s", s.Mode)
	}
	if errors.Is(err, patch.ErrNotFound) {
		v.index.Clear()
		v.ctrl.Abort()
		log.Warn("edit target not found", "error", err)
		return fmt.Errorf("%w: %w", ErrStaleReference, err)
	}
	if err != nil {
		v.finish()
		return err
	}

	if err := v.store.Write(ctx, v.path, patched); err != nil {
		v.finish()
		log.Error("document write failed", "error", err)
		return &StoreError{Op: "write", Path: v.path, Err: err}
	}

	v.finish()
	v.apply(patched)
	v.reselect(resultPath(s), title)
	log.Info("document updated", "title", title)
	return nil
}

// resultPath predicts where the edited or created node sits in the new tree.
func resultPath(s *edit.Session) []int {
	path := append([]int{}, s.Path...)
	switch s.Mode {
	case edit.InsertChild:
		return append(path, 0)
	case edit.InsertSibling:
		if len(path) > 0 {
			path[len(path)-1]++
		}
	}
	return path
}

func (v *View) reselect(path []int, title string) {
	if s, ok := v.index.SelectPath(path, title); ok {
		v.sync(s, true)
		return
	}
	v.sync(v.index.SelectTitle(title))
}

// Cancel discards the open session. The document is never touched.
func (v *View) Cancel() error {
	return v.finish()
}

// finish closes the session, landing in Idle if a reload dropped the
// selection while editing.
func (v *View) finish() error {
	if _, err := v.ctrl.Finish(); err != nil {
		return err
	}
	if _, ok := v.index.Selected(); !ok {
		v.ctrl.Deselect()
	}
	return nil
}

// SetPending records the text currently in the host's entry widget.
func (v *View) SetPending(text string) {
	v.ctrl.SetPending(text)
}

// Render draws the current frame. A hidden view or one with no document
// draws nothing.
func (v *View) Render(s render.Surface) {
	if !v.visible || !v.loaded {
		return
	}
	v.painter.Paint(s, v.frame, v.index.SelectedIndex())
}

// Path returns the loaded document's path.
func (v *View) Path() string { return v.path }

// Visible reports whether the visualization is shown.
func (v *View) Visible() bool { return v.visible }

// Loaded reports whether a document is loaded.
func (v *View) Loaded() bool { return v.loaded }

// Text returns the last document text read or written.
func (v *View) Text() string { return v.text }

// Tree returns the current tree, or nil with no document.
func (v *View) Tree() *doctree.Node { return v.tree }

// Options returns the layout options frames are computed with.
func (v *View) Options() layout.Options { return v.opts }

// Frame returns the current geometry.
func (v *View) Frame() layout.Frame { return v.frame }

// Selection returns the selected section.
func (v *View) Selection() (layout.Section, bool) { return v.index.Selected() }

// SelectedIndex returns the selection's position in the frame, or -1.
func (v *View) SelectedIndex() int { return v.index.SelectedIndex() }

// State returns the edit controller state.
func (v *View) State() edit.State { return v.ctrl.State() }

// Session returns the open edit session, or nil.
func (v *View) Session() *edit.Session { return v.ctrl.Session() }
