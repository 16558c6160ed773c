package allocation

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/plotnest/syndicate/types"
)

type ShareBookTestSuite struct {
	suite.Suite
}

func price(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func (s *ShareBookTestSuite) TestSplitPrice() {
	prices := SplitPrice(price("1000000"), 6)

	s.Len(prices, 6)
	for i := 0; i < 5; i++ {
		s.True(prices[i].Equal(price("166666")))
	}
	s.True(prices[5].Equal(price("166670")))

	total := decimal.Zero
	for _, p := range prices {
		total = total.Add(p)
	}
	s.True(total.Equal(price("1000000")))
}

func (s *ShareBookTestSuite) TestReserveConfirm() {
	book := NewShareBook(1, 6, price("1000000"))

	view, invitation, err := book.Reserve(2, "UID001", types.ReserveModeConfirm, Contact{}, time.Hour)

	s.NoError(err)
	s.Nil(invitation)
	s.Equal(types.ShareStateConfirmed, view.State)
	s.Equal("UID001", view.HolderRef)

	filled, total := book.SlotsFilled()
	s.Equal(1, filled)
	s.Equal(6, total)
}

func (s *ShareBookTestSuite) TestReserveInvite() {
	book := NewShareBook(1, 6, price("1000000"))

	invitee := Contact{Name: "Ravi", Email: "ravi@example.com"}
	view, invitation, err := book.Reserve(3, "UID001", types.ReserveModeInvite, invitee, time.Hour)

	s.NoError(err)
	s.NotNil(invitation)
	s.Equal(types.ShareStateReserved, view.State)
	s.Equal(invitation.ID.String(), view.HolderRef)
	s.Equal(types.InvitationPending, invitation.Status)
	s.Equal("UID001", invitation.ReferrerUID)
	s.Equal(invitee, invitation.Invitee)

	filled, _ := book.SlotsFilled()
	s.Equal(1, filled)
}

func (s *ShareBookTestSuite) TestReserveTakenShare() {
	book := NewShareBook(1, 6, price("1000000"))

	_, _, err := book.Reserve(1, "UID001", types.ReserveModeConfirm, Contact{}, time.Hour)
	s.NoError(err)

	_, _, err = book.Reserve(1, "UID002", types.ReserveModeConfirm, Contact{}, time.Hour)
	s.ErrorIs(err, ErrShareUnavailable)
}

func (s *ShareBookTestSuite) TestReserveUnknownPosition() {
	book := NewShareBook(1, 6, price("1000000"))

	_, _, err := book.Reserve(7, "UID001", types.ReserveModeConfirm, Contact{}, time.Hour)
	s.ErrorIs(err, ErrShareNotFound)
}

func (s *ShareBookTestSuite) TestConcurrentReserveSingleWinner() {
	book := NewShareBook(1, 6, price("1000000"))

	const claimers = 32

	var wg sync.WaitGroup
	results := make(chan error, claimers)

	for i := 0; i < claimers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, _, err := book.Reserve(4, fmt.Sprintf("UID%03d", n), types.ReserveModeConfirm, Contact{}, time.Hour)
			results <- err
		}(i)
	}

	wg.Wait()
	close(results)

	winners := 0
	losers := 0
	for err := range results {
		if err == nil {
			winners++
		} else {
			s.ErrorIs(err, ErrShareUnavailable)
			losers++
		}
	}

	s.Equal(1, winners)
	s.Equal(claimers-1, losers)

	filled, _ := book.SlotsFilled()
	s.Equal(1, filled)
}

func (s *ShareBookTestSuite) TestReleaseReservedShare() {
	book := NewShareBook(1, 6, price("1000000"))

	_, invitation, err := book.Reserve(2, "UID001", types.ReserveModeInvite, Contact{Name: "Ravi"}, time.Hour)
	s.NoError(err)

	view, released, err := book.Release(2)
	s.NoError(err)
	s.Equal(types.ShareStateAvailable, view.State)
	s.Empty(view.HolderRef)
	s.Equal(invitation.ID, released.ID)
	s.Equal(types.InvitationCancelled, released.Status)

	// The slot is reusable; the old invitation stays terminal.
	_, fresh, err := book.Reserve(2, "UID002", types.ReserveModeInvite, Contact{Name: "Priya"}, time.Hour)
	s.NoError(err)
	s.NotEqual(invitation.ID, fresh.ID)
}

func (s *ShareBookTestSuite) nextEvent(events chan Event) Event {
	select {
	case event := <-events:
		return event
	case <-time.After(time.Second):
		s.FailNow("no event published")
		return Event{}
	}
}

func (s *ShareBookTestSuite) TestReleasePublishesShareReleasedEvent() {
	engine := NewEngine()
	book := NewShareBook(1, 6, price("1000000"))
	engine.AddBook(book)

	events := make(chan Event, 8)
	engine.Subscribe(func(event Event) { events <- event })

	_, _, err := book.Reserve(2, "UID001", types.ReserveModeInvite, Contact{Name: "Ravi"}, time.Hour)
	s.NoError(err)
	s.Equal(EventShareReserved, s.nextEvent(events).Kind)

	_, _, err = book.Release(2)
	s.NoError(err)

	event := s.nextEvent(events)
	s.Equal(EventShareReleased, event.Kind)
	s.Equal(types.ShareStateAvailable, event.Share.State)
	s.Require().NotNil(event.Invitation)
	s.Equal(types.InvitationCancelled, event.Invitation.Status)
}

func (s *ShareBookTestSuite) TestCancelPublishesInvitationCancelledEvent() {
	engine := NewEngine()
	book := NewShareBook(1, 6, price("1000000"))
	engine.AddBook(book)

	events := make(chan Event, 8)
	engine.Subscribe(func(event Event) { events <- event })

	_, invitation, err := book.Reserve(2, "UID001", types.ReserveModeInvite, Contact{Name: "Ravi"}, time.Hour)
	s.NoError(err)
	s.Equal(EventShareReserved, s.nextEvent(events).Kind)

	_, _, err = book.Cancel(invitation.ID)
	s.NoError(err)

	s.Equal(EventInvitationCancelled, s.nextEvent(events).Kind)
}

func (s *ShareBookTestSuite) TestReleaseRequiresReservedState() {
	book := NewShareBook(1, 6, price("1000000"))

	_, _, err := book.Release(1)
	s.ErrorIs(err, ErrShareNotReserved)

	_, _, err = book.Reserve(1, "UID001", types.ReserveModeConfirm, Contact{}, time.Hour)
	s.NoError(err)

	_, _, err = book.Release(1)
	s.ErrorIs(err, ErrShareNotReserved)
}

func (s *ShareBookTestSuite) TestAcceptInvitation() {
	book := NewShareBook(1, 6, price("1000000"))

	_, invitation, err := book.Reserve(5, "UID001", types.ReserveModeInvite, Contact{Name: "Ravi"}, time.Hour)
	s.NoError(err)

	view, accepted, err := book.Accept(invitation.ID, time.Now())
	s.NoError(err)
	s.Equal(types.ShareStateConfirmed, view.State)
	s.Equal(types.InvitationAccepted, accepted.Status)

	// A second accept hits the terminal status.
	_, _, err = book.Accept(invitation.ID, time.Now())
	s.ErrorIs(err, ErrInvitationNotPending)
}

func (s *ShareBookTestSuite) TestAcceptAfterLeaseLapsedReleasesShare() {
	book := NewShareBook(1, 6, price("1000000"))

	_, invitation, err := book.Reserve(5, "UID001", types.ReserveModeInvite, Contact{Name: "Ravi"}, time.Minute)
	s.NoError(err)

	late := time.Now().Add(2 * time.Minute)
	view, expired, err := book.Accept(invitation.ID, late)

	s.ErrorIs(err, ErrInvitationExpired)
	s.Equal(types.ShareStateAvailable, view.State)
	s.Equal(types.InvitationExpired, expired.Status)

	// The share went straight back to the pool without waiting for the
	// sweep.
	_, _, err = book.Reserve(5, "UID002", types.ReserveModeConfirm, Contact{}, time.Hour)
	s.NoError(err)
}

func (s *ShareBookTestSuite) TestAcceptUnknownInvitation() {
	book := NewShareBook(1, 6, price("1000000"))

	_, invitation, err := book.Reserve(1, "UID001", types.ReserveModeInvite, Contact{}, time.Hour)
	s.NoError(err)

	_, _, err = book.Cancel(invitation.ID)
	s.NoError(err)

	other := NewShareBook(2, 6, price("1000000"))
	_, missing, err := other.Reserve(1, "UID001", types.ReserveModeInvite, Contact{}, time.Hour)
	s.NoError(err)

	_, _, err = book.Accept(missing.ID, time.Now())
	s.ErrorIs(err, ErrInvitationNotFound)
}

func (s *ShareBookTestSuite) TestCancelInvitation() {
	book := NewShareBook(1, 6, price("1000000"))

	_, invitation, err := book.Reserve(6, "UID001", types.ReserveModeInvite, Contact{Name: "Ravi"}, time.Hour)
	s.NoError(err)

	view, cancelled, err := book.Cancel(invitation.ID)
	s.NoError(err)
	s.Equal(types.ShareStateAvailable, view.State)
	s.Equal(types.InvitationCancelled, cancelled.Status)

	_, _, err = book.Cancel(invitation.ID)
	s.ErrorIs(err, ErrInvitationNotPending)
}

func (s *ShareBookTestSuite) TestSweepExpiredReleasesLapsedLeases() {
	book := NewShareBook(1, 6, price("1000000"))

	_, lapsed, err := book.Reserve(1, "UID001", types.ReserveModeInvite, Contact{Name: "Ravi"}, time.Minute)
	s.NoError(err)

	_, alive, err := book.Reserve(2, "UID001", types.ReserveModeInvite, Contact{Name: "Priya"}, time.Hour)
	s.NoError(err)

	_, _, err = book.Reserve(3, "UID002", types.ReserveModeConfirm, Contact{}, time.Hour)
	s.NoError(err)

	released := book.SweepExpired(time.Now().Add(2 * time.Minute))

	s.Len(released, 1)
	s.Equal(lapsed.ID, released[0].ID)
	s.Equal(types.InvitationExpired, released[0].Status)

	tracked, found := book.Invitation(alive.ID)
	s.True(found)
	s.Equal(types.InvitationPending, tracked.Status)

	// Position 1 is reusable, position 2 is still held.
	_, _, err = book.Reserve(1, "UID003", types.ReserveModeConfirm, Contact{}, time.Hour)
	s.NoError(err)

	_, _, err = book.Reserve(2, "UID003", types.ReserveModeConfirm, Contact{}, time.Hour)
	s.ErrorIs(err, ErrShareUnavailable)

	filled, _ := book.SlotsFilled()
	s.Equal(3, filled)
}

func (s *ShareBookTestSuite) TestFullAllocation() {
	book := NewShareBook(1, 6, price("1000000"))

	for position := 1; position <= 3; position++ {
		_, _, err := book.Reserve(position, "UID001", types.ReserveModeConfirm, Contact{}, time.Hour)
		s.NoError(err)
	}

	for position := 4; position <= 6; position++ {
		_, invitation, err := book.Reserve(position, "UID001", types.ReserveModeInvite, Contact{Name: "Ravi"}, time.Hour)
		s.NoError(err)

		_, _, err = book.Accept(invitation.ID, time.Now())
		s.NoError(err)
	}

	filled, total := book.SlotsFilled()
	s.Equal(total, filled)

	for _, view := range book.Snapshot() {
		s.Equal(types.ShareStateConfirmed, view.State)
	}
}

func (s *ShareBookTestSuite) TestSnapshotOrdering() {
	book := NewShareBook(1, 6, price("1000000"))

	views := book.Snapshot()

	s.Len(views, 6)
	for i, view := range views {
		s.Equal(i+1, view.Position)
		s.Equal(types.ShareStateAvailable, view.State)
	}
}

func (s *ShareBookTestSuite) TestInvitationByRef() {
	book := NewShareBook(1, 6, price("1000000"))

	view, invitation, err := book.Reserve(1, "UID001", types.ReserveModeInvite, Contact{Name: "Ravi"}, time.Hour)
	s.NoError(err)

	tracked, found := book.InvitationByRef(view.HolderRef)
	s.True(found)
	s.Equal(invitation.ID, tracked.ID)

	_, found = book.InvitationByRef("not-a-uuid")
	s.False(found)
}

func TestShareBook(t *testing.T) {
	suite.Run(t, new(ShareBookTestSuite))
}
