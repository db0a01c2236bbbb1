package climb

import "github.com/hwarang98/ClimbingSystem/component"

// StopReason says why climbing ended.
type StopReason uint8

const (
	StopNone StopReason = iota
	// StopRequested is an explicit stop command.
	StopRequested
	// StopNoSurface means the forward probe found nothing to hold on to.
	StopNoSurface
	// StopSurfaceTooFlat means the surface tilted past the climbable angle.
	StopSurfaceTooFlat
	StopReachedFloor
	StopReachedLedge
	// StopMontageFinished is a traversal clip handing control back to walking.
	StopMontageFinished
)

func (r StopReason) String() string {
	switch r {
	case StopRequested:
		return "requested"
	case StopNoSurface:
		return "no_surface"
	case StopSurfaceTooFlat:
		return "surface_too_flat"
	case StopReachedFloor:
		return "reached_floor"
	case StopReachedLedge:
		return "reached_ledge"
	case StopMontageFinished:
		return "montage_finished"
	default:
		return "none"
	}
}

// Action is a committed traversal action.
type Action uint8

const (
	ActionNone Action = iota
	ActionStartClimb
	ActionClimbDownLedge
	ActionClimbToTop
	ActionVault
	ActionHopUp
	ActionHopDown
)

func (a Action) String() string {
	switch a {
	case ActionStartClimb:
		return "start_climb"
	case ActionClimbDownLedge:
		return "climb_down_ledge"
	case ActionClimbToTop:
		return "climb_to_top"
	case ActionVault:
		return "vault"
	case ActionHopUp:
		return "hop_up"
	case ActionHopDown:
		return "hop_down"
	default:
		return "none"
	}
}

// EventKind identifies climb telemetry events.
type EventKind string

const (
	EventModeChanged     EventKind = "mode_changed"
	EventEnteredClimb    EventKind = "entered_climb"
	EventExitedClimb     EventKind = "exited_climb"
	EventActionCommitted EventKind = "action_committed"
	EventMontageFinished EventKind = "montage_finished"
)

// Event is one climb telemetry record.
type Event struct {
	Kind        EventKind
	From, To    component.MovementMode
	Reason      StopReason
	Action      Action
	Montage     component.MontageID
	Interrupted bool
}

// EventQueue is a FIFO of events, drained by the host.
type EventQueue struct {
	items []Event
}

func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// Observer is told when the character starts and stops climbing.
type Observer interface {
	OnEnterClimbState()
	OnExitClimbState()
}

// ObserverFuncs adapts two funcs to Observer. Nil funcs are skipped.
type ObserverFuncs struct {
	Enter func()
	Exit  func()
}

func (o ObserverFuncs) OnEnterClimbState() {
	if o.Enter != nil {
		o.Enter()
	}
}

func (o ObserverFuncs) OnExitClimbState() {
	if o.Exit != nil {
		o.Exit()
	}
}

type observerEntry struct {
	id  int
	obs Observer
}

// Subscribe registers o and returns a func that removes it again.
func (c *Component) Subscribe(o Observer) func() {
	if c == nil || o == nil {
		return func() {}
	}
	c.nextObserverID++
	id := c.nextObserverID
	c.observers = append(c.observers, observerEntry{id: id, obs: o})
	return func() {
		for i, e := range c.observers {
			if e.id == id {
				c.observers = append(c.observers[:i:i], c.observers[i+1:]...)
				return
			}
		}
	}
}

func (c *Component) notifyEnter() {
	for _, e := range append([]observerEntry(nil), c.observers...) {
		e.obs.OnEnterClimbState()
	}
}

func (c *Component) notifyExit() {
	for _, e := range append([]observerEntry(nil), c.observers...) {
		e.obs.OnExitClimbState()
	}
}
