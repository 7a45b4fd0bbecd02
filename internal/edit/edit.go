// Package edit holds the single-session edit state machine that sits between
// the selection and the text patcher.
package edit

import (
	"errors"
	"strings"

	"github.com/dgallion1/docwheel/internal/doctree"
	"github.com/dgallion1/docwheel/internal/layout"
	"github.com/dgallion1/docwheel/internal/patch"
)

var (
	// ErrNoSelection indicates an edit command issued with nothing selected.
	ErrNoSelection = errors.New("no section selected")

	// ErrEditInProgress indicates an edit command issued while a session is open.
	ErrEditInProgress = errors.New("edit already in progress")

	// ErrNotEditing indicates a commit or cancel with no open session.
	ErrNotEditing = errors.New("no edit in progress")

	// ErrLevelLimit indicates a new child below the deepest header level.
	ErrLevelLimit = patch.ErrLevelLimit

	// ErrInvalidTitle indicates a commit whose text spans several lines.
	ErrInvalidTitle = patch.ErrInvalidTitle
)

// State is the controller's top-level state.
type State int

const (
	Idle State = iota
	Selected
	Editing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Selected:
		return "selected"
	case Editing:
		return "editing"
	default:
		return "unknown"
	}
}

// Mode is the kind of edit a session performs.
type Mode int

const (
	None Mode = iota
	Rename
	InsertChild
	InsertSibling
)

func (m Mode) String() string {
	switch m {
	case Rename:
		return "rename"
	case InsertChild:
		return "insert-child"
	case InsertSibling:
		return "insert-sibling"
	default:
		return "none"
	}
}

// Session is the open edit. Anchor belongs to the tree that was live when the
// session began; it is only used to build Target and must not be followed
// after a reparse.
type Session struct {
	Mode    Mode
	Anchor  *doctree.Node
	Path    []int
	Target  patch.Target
	Pending string
	Prompt  Prompt
}

// Controller enforces the Idle -> Selected -> Editing transitions.
type Controller struct {
	state   State
	session *Session
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Session returns the open session, or nil.
func (c *Controller) Session() *Session {
	return c.session
}

// Select records that a section is selected. It is ignored while editing.
func (c *Controller) Select() {
	if c.state == Editing {
		return
	}
	c.state = Selected
}

// Deselect records that nothing is selected. It is ignored while editing.
func (c *Controller) Deselect() {
	if c.state == Editing {
		return
	}
	c.state = Idle
}

// Begin opens a session anchored on node. The caller resolves the node from
// the current selection against the live tree.
func (c *Controller) Begin(mode Mode, root, node *doctree.Node, path []int, prompt Prompt) (*Session, error) {
	switch c.state {
	case Editing:
		return nil, ErrEditInProgress
	case Idle:
		return nil, ErrNoSelection
	}
	if mode == InsertChild && node.Level >= doctree.MaxLevel {
		return nil, ErrLevelLimit
	}
	s := &Session{
		Mode:   mode,
		Anchor: node,
		Path:   path,
		Target: patch.TargetFor(root, node),
		Prompt: prompt,
	}
	if mode == Rename {
		s.Pending = node.Title
	}
	c.session = s
	c.state = Editing
	return s, nil
}

// SetPending updates the text being edited.
func (c *Controller) SetPending(text string) {
	if c.session != nil {
		c.session.Pending = text
	}
}

// Prepare validates text for commit. It returns ok=false when the commit is a
// silent no-op: empty text, or a rename to the current title.
func (c *Controller) Prepare(text string) (title string, ok bool, err error) {
	if c.session == nil {
		return "", false, ErrNotEditing
	}
	c.session.Pending = text
	if strings.TrimSpace(text) == "" {
		return "", false, nil
	}
	title, err = patch.CleanTitle(text)
	if err != nil {
		return "", false, err
	}
	if c.session.Mode == Rename && title == c.session.Target.Title {
		return "", false, nil
	}
	return title, true, nil
}

// Finish closes the session and returns to Selected.
func (c *Controller) Finish() (*Session, error) {
	if c.session == nil {
		return nil, ErrNotEditing
	}
	s := c.session
	c.session = nil
	c.state = Selected
	return s, nil
}

// Abort closes any session and returns to Idle, used when the anchor no
// longer exists.
func (c *Controller) Abort() {
	c.session = nil
	c.state = Idle
}

// Prompt is where the host shows its text-entry affordance.
type Prompt struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Placement positions the affordance on the section's mid-angle: inside the
// band for a rename, beyond its outer edge for a new child, and on its outer
// edge for a new sibling.
func Placement(s layout.Section, mode Mode) Prompt {
	band := s.OuterRadius - s.InnerRadius
	r := s.MidRadius()
	switch mode {
	case InsertChild:
		r = s.OuterRadius + band/2
	case InsertSibling:
		r = s.OuterRadius
	}
	x, y := s.Point(s.MidAngle(), r)
	return Prompt{X: x, Y: y}
}
