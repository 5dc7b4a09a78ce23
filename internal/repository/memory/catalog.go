package memory

import (
	"context"
	"sort"

	"restaurant_manager/internal/models"
	"restaurant_manager/internal/repository"
)

type categories struct{ s *Store }

func (r *categories) Create(_ context.Context, category *models.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	category.ID = r.s.nextID("categories")
	r.s.stamp(&category.CreatedAt, &category.UpdatedAt)
	r.s.categories[category.ID] = *category
	return nil
}

func (r *categories) GetByID(_ context.Context, id uint) (*models.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.categories[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r *categories) ListByStore(_ context.Context, storeID uint) ([]models.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []models.Category
	for _, c := range r.s.categories {
		if c.StoreID == storeID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].OrderPosition != out[j].OrderPosition {
			return out[i].OrderPosition < out[j].OrderPosition
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *categories) Update(_ context.Context, category *models.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.categories[category.ID]; !ok {
		return repository.ErrNotFound
	}
	r.s.stamp(nil, &category.UpdatedAt)
	r.s.categories[category.ID] = *category
	return nil
}

func (r *categories) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.categories[id]; !ok {
		return repository.ErrNotFound
	}
	doomed := map[uint]bool{id: true}
	for cid, c := range r.s.categories {
		if c.ParentID != nil && *c.ParentID == id {
			doomed[cid] = true
		}
	}
	for pid, p := range r.s.products {
		if doomed[p.CategoryID] {
			delete(r.s.products, pid)
		}
	}
	for cid := range doomed {
		delete(r.s.categories, cid)
	}
	return nil
}

type products struct{ s *Store }

func (r *products) Create(_ context.Context, product *models.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	product.ID = r.s.nextID("products")
	r.s.stamp(&product.CreatedAt, &product.UpdatedAt)
	r.s.products[product.ID] = *product
	return nil
}

func (r *products) GetByID(_ context.Context, id uint) (*models.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *products) ListByStore(_ context.Context, storeID uint, categoryID *uint) ([]models.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []models.Product
	for _, p := range r.s.products {
		if p.StoreID != storeID {
			continue
		}
		if categoryID != nil && p.CategoryID != *categoryID {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *products) Update(_ context.Context, product *models.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.products[product.ID]; !ok {
		return repository.ErrNotFound
	}
	r.s.stamp(nil, &product.UpdatedAt)
	r.s.products[product.ID] = *product
	return nil
}

func (r *products) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.products, id)
	return nil
}
