package desk

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"orderdesk-backend/cart"
)

var (
	ErrSessionNotFound     = errors.New("session not found")
	ErrSessionClosed       = errors.New("session closed")
	ErrProductNotInCatalog = errors.New("product not in the fetched catalog page")
)

// Session is one operator's order-creation screen: a draft order plus the
// catalog page it was built from. All access goes through Do.
type Session struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	ShopID    int       `json:"shop_id"`
	CreatedAt time.Time `json:"created_at"`

	mu       sync.Mutex
	draft    *cart.Draft
	catalog  Catalog
	closed   bool
	lastSeen atomic.Int64
}

func newSession(userID uuid.UUID, shopID int, policy cart.Policy, now time.Time) *Session {
	s := &Session{
		ID:        uuid.New(),
		UserID:    userID,
		ShopID:    shopID,
		CreatedAt: now,
		draft:     cart.NewDraft(policy),
	}
	s.lastSeen.Store(now.UnixNano())
	return s
}

// Do runs fn with the session locked. The lock must not be held across
// network calls, so fn should only touch the draft and catalog.
func (s *Session) Do(fn func(d *cart.Draft, c *Catalog) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	s.touch(time.Now())
	return fn(s.draft, &s.catalog)
}

// Edit is Do for changes to the cart, customer or payment. While an order is
// in flight those would not reach the back office, so they are refused with
// cart.ErrSubmissionInFlight.
func (s *Session) Edit(fn func(d *cart.Draft, c *Catalog) error) error {
	return s.Do(func(d *cart.Draft, c *Catalog) error {
		if d.Submitting() {
			return cart.ErrSubmissionInFlight
		}
		return fn(d, c)
	})
}

// AddFromCatalog adds one unit of a product from the fetched page.
func (s *Session) AddFromCatalog(productID, attributeID int) (cart.LineItem, error) {
	var item cart.LineItem
	err := s.Edit(func(d *cart.Draft, c *Catalog) error {
		p, ok := c.Product(productID)
		if !ok {
			return ErrProductNotInCatalog
		}
		var err error
		item, err = d.Add(p, attributeID)
		return err
	})
	return item, err
}

// OpenPicker starts the variant flow for a product from the fetched page.
func (s *Session) OpenPicker(productID int) (*cart.PickerState, error) {
	var state *cart.PickerState
	err := s.Do(func(d *cart.Draft, c *Catalog) error {
		p, ok := c.Product(productID)
		if !ok {
			return ErrProductNotInCatalog
		}
		var err error
		state, err = d.OpenPicker(p)
		return err
	})
	return state, err
}

// State returns a render snapshot.
func (s *Session) State() (cart.State, error) {
	var state cart.State
	err := s.Do(func(d *cart.Draft, _ *Catalog) error {
		state = d.State()
		return nil
	})
	return state, err
}

func (s *Session) close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

func (s *Session) touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

func (s *Session) idleSince() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}
