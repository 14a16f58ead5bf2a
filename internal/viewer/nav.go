// Package viewer drives the interactive EventViewer: a cursor state machine
// over a fixed catalog snapshot and the Bubble Tea model rendering it.
package viewer

import (
	"errors"

	"github.com/crisislens/gdacs-viewer/internal/catalog"
	"github.com/crisislens/gdacs-viewer/internal/models"
)

// Command is a discrete input event driving the navigation state machine.
type Command int

const (
	CommandNext Command = iota
	CommandPrevious
	CommandOpenLink
	CommandToggleBorders
	CommandQuit
)

// Change is the single notification emitted after an accepted index-changing
// command. Every dependent view re-renders from this one payload.
type Change struct {
	Index int
	Event models.Event
}

// ErrEmptyCatalog is returned when a Nav is constructed over a catalog with
// no events. The emptiness check belongs upstream; reaching here with zero
// events is a caller bug.
var ErrEmptyCatalog = errors.New("viewer: catalog must contain at least one event")

// Nav is a cursor over a fixed catalog snapshot. The index is always within
// [0, Len()) and wraps around at both ends. Commands are applied one at a
// time; Nav is not safe for concurrent use and does not need to be.
type Nav struct {
	catalog *catalog.Catalog
	index   int
	done    bool

	onChange        func(Change)
	onOpenLink      func(link string)
	onToggleBorders func()
}

// NewNav builds a navigation state positioned at the first event.
func NewNav(c *catalog.Catalog) (*Nav, error) {
	if c.Len() == 0 {
		return nil, ErrEmptyCatalog
	}
	return &Nav{catalog: c}, nil
}

// OnChange registers the current-record-changed callback. It fires exactly
// once per accepted Next/Previous command and never otherwise.
func (n *Nav) OnChange(fn func(Change)) { n.onChange = fn }

// OnOpenLink registers the callback receiving the current record's report
// link when CommandOpenLink is applied.
func (n *Nav) OnOpenLink(fn func(link string)) { n.onOpenLink = fn }

// OnToggleBorders registers the pass-through for CommandToggleBorders. The
// border flag itself lives in the renderer, not here.
func (n *Nav) OnToggleBorders(fn func()) { n.onToggleBorders = fn }

// Index returns the current cursor position.
func (n *Nav) Index() int { return n.index }

// Len returns the number of events under the cursor.
func (n *Nav) Len() int { return n.catalog.Len() }

// Current returns the event at the cursor.
func (n *Nav) Current() models.Event { return n.catalog.At(n.index) }

// Done reports whether CommandQuit has been applied.
func (n *Nav) Done() bool { return n.done }

// Apply processes one command and reports whether it was accepted. Unknown
// commands and commands after Quit are rejected without side effects.
func (n *Nav) Apply(cmd Command) bool {
	if n.done {
		return false
	}

	switch cmd {
	case CommandNext:
		n.index = (n.index + 1) % n.catalog.Len()
		n.notifyChange()
	case CommandPrevious:
		n.index = (n.index - 1 + n.catalog.Len()) % n.catalog.Len()
		n.notifyChange()
	case CommandOpenLink:
		if n.onOpenLink != nil {
			n.onOpenLink(n.Current().Link)
		}
	case CommandToggleBorders:
		if n.onToggleBorders != nil {
			n.onToggleBorders()
		}
	case CommandQuit:
		n.done = true
	default:
		return false
	}
	return true
}

func (n *Nav) notifyChange() {
	if n.onChange != nil {
		n.onChange(Change{Index: n.index, Event: n.Current()})
	}
}
