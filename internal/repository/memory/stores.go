package memory

import (
	"context"
	"sort"

	"restaurant_manager/internal/models"
	"restaurant_manager/internal/repository"
)

type stores struct{ s *Store }

func (r *stores) Create(_ context.Context, store *models.Store) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.conflicts(0, store) {
		return repository.ErrDuplicate
	}
	store.ID = r.s.nextID("stores")
	r.s.stamp(&store.CreatedAt, &store.UpdatedAt)
	r.s.stores[store.ID] = *store
	return nil
}

func (r *stores) GetByID(_ context.Context, id uint) (*models.Store, error) {
	return r.find(func(st models.Store) bool { return st.ID == id })
}

func (r *stores) GetBySlug(_ context.Context, slug string) (*models.Store, error) {
	return r.find(func(st models.Store) bool { return st.Slug == slug })
}

func (r *stores) GetByUserID(_ context.Context, userID uint) (*models.Store, error) {
	return r.find(func(st models.Store) bool { return st.UserID == userID })
}

func (r *stores) Update(_ context.Context, store *models.Store) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.stores[store.ID]; !ok {
		return repository.ErrNotFound
	}
	if r.conflicts(store.ID, store) {
		return repository.ErrDuplicate
	}
	r.s.stamp(nil, &store.UpdatedAt)
	r.s.stores[store.ID] = *store
	return nil
}

// conflicts reports a slug or owner clash with any store other than self.
func (r *stores) conflicts(self uint, store *models.Store) bool {
	for id, st := range r.s.stores {
		if id == self {
			continue
		}
		if st.Slug == store.Slug || st.UserID == store.UserID {
			return true
		}
	}
	return false
}

func (r *stores) find(match func(models.Store) bool) (*models.Store, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, st := range r.s.stores {
		if match(st) {
			return &st, nil
		}
	}
	return nil, repository.ErrNotFound
}

type tables struct{ s *Store }

func (r *tables) Create(_ context.Context, table *models.Table) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.numberTaken(0, table) {
		return repository.ErrDuplicate
	}
	table.ID = r.s.nextID("tables")
	r.s.stamp(&table.CreatedAt, &table.UpdatedAt)
	r.s.tables[table.ID] = *table
	return nil
}

func (r *tables) GetByID(_ context.Context, id uint) (*models.Table, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.tables[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (r *tables) GetByNumber(_ context.Context, storeID uint, number int) (*models.Table, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, t := range r.s.tables {
		if t.StoreID == storeID && t.Number == number {
			return &t, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *tables) ListByStore(_ context.Context, storeID uint, activeOnly bool) ([]models.Table, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []models.Table
	for _, t := range r.s.tables {
		if t.StoreID != storeID || (activeOnly && !t.IsActive) {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (r *tables) Update(_ context.Context, table *models.Table) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.tables[table.ID]; !ok {
		return repository.ErrNotFound
	}
	if r.numberTaken(table.ID, table) {
		return repository.ErrDuplicate
	}
	r.s.stamp(nil, &table.UpdatedAt)
	r.s.tables[table.ID] = *table
	return nil
}

func (r *tables) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.tables[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.tables, id)
	return nil
}

func (r *tables) numberTaken(self uint, table *models.Table) bool {
	for id, t := range r.s.tables {
		if id != self && t.StoreID == table.StoreID && t.Number == table.Number {
			return true
		}
	}
	return false
}
