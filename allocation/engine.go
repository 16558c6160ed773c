package allocation

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrAssetNotFound = errors.New("allocation: no share book for that asset")

// Engine is the registry of share books, one per syndicated asset.
type Engine struct {
	mu    sync.RWMutex
	books map[int64]*ShareBook

	notification *Notification
}

func NewEngine() *Engine {
	return &Engine{
		books:        make(map[int64]*ShareBook),
		notification: NewNotification(),
	}
}

func (e *Engine) AddBook(book *ShareBook) {
	e.mu.Lock()
	defer e.mu.Unlock()

	book.notification = e.notification
	e.books[book.AssetID] = book
}

func (e *Engine) Book(assetID int64) (*ShareBook, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	book, found := e.books[assetID]
	if !found {
		return nil, ErrAssetNotFound
	}

	return book, nil
}

// Subscribe registers a handler for allocation events across all books,
// current and future.
func (e *Engine) Subscribe(handler func(Event)) {
	e.notification.Subscribe(handler)
}

// SlotsFilled reports the allocation progress of one asset.
func (e *Engine) SlotsFilled(assetID int64) (int, int, error) {
	book, err := e.Book(assetID)
	if err != nil {
		return 0, 0, err
	}

	filled, total := book.SlotsFilled()

	return filled, total, nil
}

// FindInvitation scans the books for a tracked invitation.
func (e *Engine) FindInvitation(invitationID uuid.UUID) (*ShareBook, Invitation, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, book := range e.books {
		if invitation, found := book.Invitation(invitationID); found {
			return book, invitation, nil
		}
	}

	return nil, Invitation{}, ErrInvitationNotFound
}

// SweepExpired runs the lease sweep across every book and returns the
// released invitations grouped by asset.
func (e *Engine) SweepExpired(now time.Time) map[int64][]Invitation {
	e.mu.RLock()
	books := make([]*ShareBook, 0, len(e.books))
	for _, book := range e.books {
		books = append(books, book)
	}
	e.mu.RUnlock()

	released := make(map[int64][]Invitation)
	for _, book := range books {
		if expired := book.SweepExpired(now); len(expired) > 0 {
			released[book.AssetID] = expired
		}
	}

	return released
}
