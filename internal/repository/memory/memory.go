// Package memory keeps every entity in process memory. It backs tests, runs
// the service when no database is configured, and serves as the ephemeral
// fallback for order placement. Nothing survives a restart.
package memory

import (
	"sync"
	"time"

	"restaurant_manager/internal/models"
	"restaurant_manager/internal/repository"
)

type Option func(*Store)

// WithIDSeed sets the first id handed out for every entity.
func WithIDSeed(seed uint) Option {
	return func(s *Store) {
		if seed > 0 {
			s.seed = seed
		}
	}
}

// WithClock replaces time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Store holds all entity maps behind one mutex.
type Store struct {
	mu   sync.Mutex
	seed uint
	now  func() time.Time
	ids  map[string]uint

	users      map[uint]models.User
	stores     map[uint]models.Store
	categories map[uint]models.Category
	products   map[uint]models.Product
	tables     map[uint]models.Table
	orders     map[uint]models.Order
	orderItems map[uint]models.OrderItem
	receipts   map[uint]models.PaymentReceipt
	customers  map[uint]models.Customer
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		seed:       1,
		now:        time.Now,
		ids:        make(map[string]uint),
		users:      make(map[uint]models.User),
		stores:     make(map[uint]models.Store),
		categories: make(map[uint]models.Category),
		products:   make(map[uint]models.Product),
		tables:     make(map[uint]models.Table),
		orders:     make(map[uint]models.Order),
		orderItems: make(map[uint]models.OrderItem),
		receipts:   make(map[uint]models.PaymentReceipt),
		customers:  make(map[uint]models.Customer),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// New returns a repository bundle backed by a fresh Store.
func New(opts ...Option) *repository.Repositories {
	return NewStore(opts...).Repositories()
}

func (s *Store) Repositories() *repository.Repositories {
	return &repository.Repositories{
		Users:      &users{s},
		Stores:     &stores{s},
		Categories: &categories{s},
		Products:   &products{s},
		Tables:     &tables{s},
		Orders:     &orders{s},
		OrderItems: &orderItems{s},
		Receipts:   &receipts{s},
		Customers:  &customers{s},
	}
}

// nextID must be called with mu held.
func (s *Store) nextID(entity string) uint {
	id, ok := s.ids[entity]
	if !ok {
		id = s.seed
	}
	s.ids[entity] = id + 1
	return id
}

// stamp fills zero creation times and always moves the update time. Must be
// called with mu held.
func (s *Store) stamp(created, updated *time.Time) time.Time {
	now := s.now()
	if created != nil && created.IsZero() {
		*created = now
	}
	if updated != nil {
		*updated = now
	}
	return now
}
