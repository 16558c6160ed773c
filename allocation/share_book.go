package allocation

import (
	"errors"
	"sync"
	"time"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/plotnest/syndicate/types"
)

var (
	ErrShareNotFound        = errors.New("allocation: no share at that position")
	ErrShareUnavailable     = errors.New("allocation: share is not available")
	ErrShareNotReserved     = errors.New("allocation: share is not reserved")
	ErrInvitationNotFound   = errors.New("allocation: unknown invitation")
	ErrInvitationNotPending = errors.New("allocation: invitation already terminal")
	ErrInvitationExpired    = errors.New("allocation: invitation lease lapsed")
	ErrStaleTransition      = errors.New("allocation: share state changed underneath, re-read and retry")
)

// ShareBook owns the fixed set of shares for one asset. The share set
// never changes after construction; only share states move, and each
// move is a compare-and-set under the individual share's lock.
type ShareBook struct {
	AssetID     int64
	TotalShares int
	TotalPrice  decimal.Decimal

	shares *treemap.Map

	invMu       sync.RWMutex
	invitations map[uuid.UUID]*Invitation

	notification *Notification
}

func NewShareBook(assetID int64, totalShares int, totalPrice decimal.Decimal) *ShareBook {
	book := &ShareBook{
		AssetID:     assetID,
		TotalShares: totalShares,
		TotalPrice:  totalPrice,
		shares:      treemap.NewWith(utils.IntComparator),
		invitations: make(map[uuid.UUID]*Invitation),
	}

	prices := SplitPrice(totalPrice, totalShares)
	for i := 0; i < totalShares; i++ {
		book.shares.Put(i+1, &Share{
			Position:       i + 1,
			State:          types.ShareStateAvailable,
			PriceAllocated: prices[i],
		})
	}

	return book
}

func (b *ShareBook) share(position int) (*Share, error) {
	value, found := b.shares.Get(position)
	if !found {
		return nil, ErrShareNotFound
	}

	return value.(*Share), nil
}

// Reserve claims an available share. Confirm mode settles the claim
// immediately for holderRef; invite mode parks the share behind a
// pending invitation with a lease of ttl. Exactly one of any set of
// concurrent claims on the same share wins, the rest observe
// ErrShareUnavailable.
func (b *ShareBook) Reserve(position int, holderRef string, mode types.ReserveMode, invitee Contact, ttl time.Duration) (ShareView, *Invitation, error) {
	share, err := b.share(position)
	if err != nil {
		return ShareView{}, nil, err
	}

	share.Lock()
	defer share.Unlock()

	if share.State != types.ShareStateAvailable {
		return share.view(), nil, ErrShareUnavailable
	}

	switch mode {
	case types.ReserveModeConfirm:
		share.State = types.ShareStateConfirmed
		share.HolderRef = holderRef
		share.Invitation = nil

		view := share.view()
		b.notification.Publish(Event{AssetID: b.AssetID, Kind: EventShareConfirmed, Share: view})
		return view, nil, nil

	case types.ReserveModeInvite:
		now := time.Now()
		invitation := &Invitation{
			ID:          uuid.New(),
			AssetID:     b.AssetID,
			SharePos:    position,
			ReferrerUID: holderRef,
			Invitee:     invitee,
			Status:      types.InvitationPending,
			CreatedAt:   now,
			ExpiresAt:   now.Add(ttl),
		}

		share.State = types.ShareStateReserved
		share.HolderRef = invitation.ID.String()
		share.Invitation = invitation

		b.invMu.Lock()
		b.invitations[invitation.ID] = invitation
		b.invMu.Unlock()

		view := share.view()
		result := *invitation
		b.notification.Publish(Event{AssetID: b.AssetID, Kind: EventShareReserved, Share: view, Invitation: &result})
		return view, &result, nil

	default:
		return share.view(), nil, ErrShareUnavailable
	}
}

// Release withdraws a pending invitation and returns its share to the
// pool. Legal only while the share is reserved; confirmed shares are
// terminal. It announces the share-centric release event; Cancel is the
// invitation-centric path.
func (b *ShareBook) Release(position int) (ShareView, *Invitation, error) {
	return b.release(position, types.InvitationCancelled, EventShareReleased)
}

func (b *ShareBook) release(position int, status types.InvitationStatus, kind EventKind) (ShareView, *Invitation, error) {
	share, err := b.share(position)
	if err != nil {
		return ShareView{}, nil, err
	}

	share.Lock()
	defer share.Unlock()

	if share.State != types.ShareStateReserved {
		return share.view(), nil, ErrShareNotReserved
	}

	invitation := share.Invitation
	invitation.Status = status

	share.State = types.ShareStateAvailable
	share.HolderRef = ""
	share.Invitation = nil

	view := share.view()
	result := *invitation
	b.notification.Publish(Event{AssetID: b.AssetID, Kind: kind, Share: view, Invitation: &result})

	return view, &result, nil
}

// Accept settles a pending invitation: the invitation becomes accepted
// and its share flips to confirmed. A lapsed lease fails with
// ErrInvitationExpired and releases the share right away, even when the
// sweep has not visited it yet.
func (b *ShareBook) Accept(invitationID uuid.UUID, now time.Time) (ShareView, *Invitation, error) {
	b.invMu.RLock()
	invitation, found := b.invitations[invitationID]
	b.invMu.RUnlock()

	if !found {
		return ShareView{}, nil, ErrInvitationNotFound
	}

	share, err := b.share(invitation.SharePos)
	if err != nil {
		return ShareView{}, nil, err
	}

	share.Lock()
	defer share.Unlock()

	if invitation.Status != types.InvitationPending {
		return share.view(), nil, ErrInvitationNotPending
	}

	if share.State != types.ShareStateReserved || share.Invitation != invitation {
		return share.view(), nil, ErrStaleTransition
	}

	if invitation.LeaseLapsed(now) {
		invitation.Status = types.InvitationExpired

		share.State = types.ShareStateAvailable
		share.HolderRef = ""
		share.Invitation = nil

		result := *invitation
		b.notification.Publish(Event{AssetID: b.AssetID, Kind: EventInvitationExpired, Share: share.view(), Invitation: &result})

		return share.view(), &result, ErrInvitationExpired
	}

	invitation.Status = types.InvitationAccepted
	share.State = types.ShareStateConfirmed

	view := share.view()
	result := *invitation
	b.notification.Publish(Event{AssetID: b.AssetID, Kind: EventInvitationAccepted, Share: view, Invitation: &result})

	return view, &result, nil
}

// Cancel is the referrer withdrawing an invitation before acceptance.
// Same share outcome as expiry, distinct terminal status for audit.
func (b *ShareBook) Cancel(invitationID uuid.UUID) (ShareView, *Invitation, error) {
	b.invMu.RLock()
	invitation, found := b.invitations[invitationID]
	b.invMu.RUnlock()

	if !found {
		return ShareView{}, nil, ErrInvitationNotFound
	}

	share, err := b.share(invitation.SharePos)
	if err != nil {
		return ShareView{}, nil, err
	}

	share.Lock()
	defer share.Unlock()

	if invitation.Status != types.InvitationPending {
		return share.view(), nil, ErrInvitationNotPending
	}

	if share.State != types.ShareStateReserved || share.Invitation != invitation {
		return share.view(), nil, ErrStaleTransition
	}

	invitation.Status = types.InvitationCancelled

	share.State = types.ShareStateAvailable
	share.HolderRef = ""
	share.Invitation = nil

	view := share.view()
	result := *invitation
	b.notification.Publish(Event{AssetID: b.AssetID, Kind: EventInvitationCancelled, Share: view, Invitation: &result})

	return view, &result, nil
}

// SweepExpired releases every reserved share whose invitation lease has
// lapsed. It takes the same per-share lock as Accept, so a sweep racing
// a simultaneous accept resolves to whichever transition got the lock
// first; the loser sees the share in its new state.
func (b *ShareBook) SweepExpired(now time.Time) []Invitation {
	var released []Invitation

	it := b.shares.Iterator()
	for it.Next() {
		share := it.Value().(*Share)

		share.Lock()
		if share.State == types.ShareStateReserved && share.Invitation != nil && share.Invitation.LeaseLapsed(now) {
			invitation := share.Invitation
			invitation.Status = types.InvitationExpired

			share.State = types.ShareStateAvailable
			share.HolderRef = ""
			share.Invitation = nil

			result := *invitation
			released = append(released, result)
			b.notification.Publish(Event{AssetID: b.AssetID, Kind: EventInvitationExpired, Share: share.view(), Invitation: &result})
		}
		share.Unlock()
	}

	return released
}

// Invitation returns a copy of the tracked invitation, terminal ones
// included.
func (b *ShareBook) Invitation(invitationID uuid.UUID) (Invitation, bool) {
	b.invMu.RLock()
	invitation, found := b.invitations[invitationID]
	b.invMu.RUnlock()

	if !found {
		return Invitation{}, false
	}

	share, err := b.share(invitation.SharePos)
	if err != nil {
		return Invitation{}, false
	}

	share.Lock()
	defer share.Unlock()

	return *invitation, true
}

// InvitationByRef resolves a holder reference back to its invitation.
func (b *ShareBook) InvitationByRef(ref string) (Invitation, bool) {
	id, err := uuid.Parse(ref)
	if err != nil {
		return Invitation{}, false
	}

	return b.Invitation(id)
}

// Snapshot returns all shares in position order.
func (b *ShareBook) Snapshot() []ShareView {
	views := make([]ShareView, 0, b.TotalShares)

	it := b.shares.Iterator()
	for it.Next() {
		share := it.Value().(*Share)

		share.Lock()
		views = append(views, share.view())
		share.Unlock()
	}

	return views
}

// SlotsFilled counts reserved plus confirmed shares. A pending
// invitation counts as filled; its lease bounds how long it can do so.
func (b *ShareBook) SlotsFilled() (int, int) {
	filled := 0

	it := b.shares.Iterator()
	for it.Next() {
		share := it.Value().(*Share)

		share.Lock()
		if share.State != types.ShareStateAvailable {
			filled++
		}
		share.Unlock()
	}

	return filled, b.TotalShares
}

// Restore seeds a share's state from durable storage. Boot-time only,
// before the book starts serving.
func (b *ShareBook) Restore(position int, state types.ShareState, holderRef string, invitation *Invitation) error {
	share, err := b.share(position)
	if err != nil {
		return err
	}

	share.Lock()
	defer share.Unlock()

	share.State = state
	share.HolderRef = holderRef
	share.Invitation = invitation

	if invitation != nil {
		b.invMu.Lock()
		b.invitations[invitation.ID] = invitation
		b.invMu.Unlock()
	}

	return nil
}
