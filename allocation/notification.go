package allocation

import "sync"

type EventKind = string

var (
	EventShareReserved       EventKind = "share.reserved"
	EventShareConfirmed      EventKind = "share.confirmed"
	EventShareReleased       EventKind = "share.released"
	EventInvitationAccepted  EventKind = "invitation.accepted"
	EventInvitationExpired   EventKind = "invitation.expired"
	EventInvitationCancelled EventKind = "invitation.cancelled"
)

type Event struct {
	AssetID    int64
	Kind       EventKind
	Share      ShareView
	Invitation *Invitation
}

// Notification fans allocation events out to registered handlers
// (snapshot cache refresh, invitation contact notifications). Handlers
// run asynchronously and must not feed errors back; the allocation
// outcome is already committed when they fire.
type Notification struct {
	mu       sync.RWMutex
	handlers []func(Event)
}

func NewNotification() *Notification {
	return &Notification{}
}

func (n *Notification) Subscribe(handler func(Event)) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.handlers = append(n.handlers, handler)
}

func (n *Notification) Publish(event Event) {
	if n == nil {
		return
	}

	n.mu.RLock()
	defer n.mu.RUnlock()

	for _, handler := range n.handlers {
		go handler(event)
	}
}
