package memory

import (
	"context"
	"strings"

	"restaurant_manager/internal/models"
	"restaurant_manager/internal/repository"
)

type users struct{ s *Store }

func (r *users) Create(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return repository.ErrDuplicate
		}
	}
	user.ID = r.s.nextID("users")
	r.s.stamp(&user.CreatedAt, &user.UpdatedAt)
	r.s.users[user.ID] = *user
	return nil
}

func (r *users) GetByID(_ context.Context, id uint) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *users) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

type customers struct{ s *Store }

func (r *customers) GetByPhone(_ context.Context, phone string) (*models.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, c := range r.s.customers {
		if c.Phone == phone {
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *customers) Create(_ context.Context, customer *models.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, c := range r.s.customers {
		if c.Phone == customer.Phone {
			return repository.ErrDuplicate
		}
	}
	customer.ID = r.s.nextID("customers")
	r.s.stamp(&customer.CreatedAt, &customer.UpdatedAt)
	r.s.customers[customer.ID] = *customer
	return nil
}

func (r *customers) Update(_ context.Context, customer *models.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.customers[customer.ID]; !ok {
		return repository.ErrNotFound
	}
	for id, c := range r.s.customers {
		if id != customer.ID && c.Phone == customer.Phone {
			return repository.ErrDuplicate
		}
	}
	r.s.stamp(nil, &customer.UpdatedAt)
	r.s.customers[customer.ID] = *customer
	return nil
}
