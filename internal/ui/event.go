package ui

// EventType identifies the kind of input an Event carries.
type EventType string

const (
	EventClick   EventType = "click"
	EventKeyDown EventType = "keydown"
)

// Key names as reported by the terminal layer.
const (
	KeyEnter = "enter"
	KeySpace = " "
)

// Event is a single input delivered to a node and its ancestors.
type Event struct {
	Type EventType
	Key  string // set for keydown events

	// Target is the key of the node the event was delivered to.
	Target string
	// CurrentTarget is the key of the node whose handler is running.
	CurrentTarget string

	stopped   bool
	prevented bool
}

// NewClick returns a click event.
func NewClick() *Event {
	return &Event{Type: EventClick}
}

// NewKeyDown returns a keydown event for the named key.
func NewKeyDown(key string) *Event {
	return &Event{Type: EventKeyDown, Key: key}
}

// StopPropagation prevents ancestors of the current node from seeing the event.
func (e *Event) StopPropagation() { e.stopped = true }

// PreventDefault suppresses the default action for the event, such as a
// button turning Enter into a click.
func (e *Event) PreventDefault() { e.prevented = true }

// PropagationStopped reports whether a handler called StopPropagation.
func (e *Event) PropagationStopped() bool { return e.stopped }

// DefaultPrevented reports whether a handler called PreventDefault.
func (e *Event) DefaultPrevented() bool { return e.prevented }

// IsActivationKey reports whether key activates a focused control.
func IsActivationKey(key string) bool {
	return key == KeyEnter || key == KeySpace
}

// Dispatch delivers e to the node with key target and then bubbles it up
// through the node's ancestors, innermost first, until a handler stops
// propagation. It reports whether any handler ran.
func Dispatch(root *Node, target string, e *Event) bool {
	path := pathTo(root, target)
	if path == nil {
		return false
	}
	e.Target = target

	ran := false
	for i := len(path) - 1; i >= 0; i-- {
		n := path[i]
		if h := n.handler(e.Type); h != nil {
			e.CurrentTarget = n.Key
			h(e)
			ran = true
		}
		if e.stopped {
			break
		}
	}
	return ran
}

// Activate delivers a keydown for key to the focused node. When no handler
// prevents the default and the node is a button, an activation key is
// turned into a click on that button.
func Activate(root *Node, target, key string) bool {
	down := NewKeyDown(key)
	ran := Dispatch(root, target, down)
	if down.DefaultPrevented() || !IsActivationKey(key) {
		return ran
	}
	if n := Find(root, target); n != nil && n.Tag == TagButton {
		return Dispatch(root, target, NewClick()) || ran
	}
	return ran
}

func (n *Node) handler(t EventType) Handler {
	switch t {
	case EventClick:
		return n.OnClick
	case EventKeyDown:
		return n.OnKeyDown
	}
	return nil
}
