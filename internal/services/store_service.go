package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"restaurant_manager/internal/auth"
	"restaurant_manager/internal/logger"
	"restaurant_manager/internal/models"
	"restaurant_manager/internal/redis"
	"restaurant_manager/internal/repository"

	"go.uber.org/zap"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// StoreCache keeps store-by-slug lookups off the database.
type StoreCache interface {
	GetStore(ctx context.Context, slug string) (*models.Store, error)
	SetStore(ctx context.Context, store *models.Store, ttl time.Duration) error
	DeleteStore(ctx context.Context, slug string) error
}

type StoreInput struct {
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	Description  string `json:"description"`
	Address      string `json:"address"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	FacebookURL  string `json:"facebookUrl"`
	InstagramURL string `json:"instagramUrl"`
	WhatsAppURL  string `json:"whatsappUrl"`
	AppURL       string `json:"appUrl"`
	MpesaName    string `json:"mpesaName"`
	MpesaPhone   string `json:"mpesaPhone"`
	EmolaName    string `json:"emolaName"`
	EmolaPhone   string `json:"emolaPhone"`
}

type MenuCategory struct {
	models.Category
	Products []models.Product `json:"products"`
}

// Menu is the public view of a store: categories by position, each with
// its available products.
type Menu struct {
	Store      *models.Store  `json:"store"`
	Categories []MenuCategory `json:"categories"`
}

type StoreService interface {
	FindBySlug(ctx context.Context, slug string) (*models.Store, error)
	Menu(ctx context.Context, slug string) (*Menu, error)
	PublicTables(ctx context.Context, slug string, activeOnly bool) ([]models.Table, error)
	Mine(ctx context.Context, principal *auth.Principal) (*models.Store, error)
	Create(ctx context.Context, principal *auth.Principal, input StoreInput) (*models.Store, error)
	Update(ctx context.Context, principal *auth.Principal, input StoreInput) (*models.Store, error)
}

type storeService struct {
	repos    *repository.Repositories
	cache    StoreCache
	cacheTTL time.Duration
}

// NewStoreService builds the store service. cache may be nil.
func NewStoreService(repos *repository.Repositories, cache StoreCache, cacheTTL time.Duration) StoreService {
	return &storeService{repos: repos, cache: cache, cacheTTL: cacheTTL}
}

func (s *storeService) FindBySlug(ctx context.Context, slug string) (*models.Store, error) {
	log := logger.FromContext(ctx)
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, validationErr("store slug is required")
	}

	if s.cache != nil {
		store, err := s.cache.GetStore(ctx, slug)
		if err == nil {
			return store, nil
		}
		if !errors.Is(err, redis.ErrCacheMiss) {
			log.Warn("Store cache read failed", zap.String("slug", slug), zap.Error(err))
		}
	}

	store, err := s.repos.Stores.GetBySlug(ctx, slug)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Error("Failed to load store", zap.String("slug", slug), zap.Error(err))
		}
		return nil, notFoundErr("store %q not found", slug)
	}

	if s.cache != nil {
		if err := s.cache.SetStore(ctx, store, s.cacheTTL); err != nil {
			log.Warn("Store cache write failed", zap.String("slug", slug), zap.Error(err))
		}
	}
	return store, nil
}

func (s *storeService) Menu(ctx context.Context, slug string) (*Menu, error) {
	store, err := s.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	categories, err := s.repos.Categories.ListByStore(ctx, store.ID)
	if err != nil {
		return nil, internalErr("failed to load categories", err)
	}
	products, err := s.repos.Products.ListByStore(ctx, store.ID, nil)
	if err != nil {
		return nil, internalErr("failed to load products", err)
	}

	byCategory := make(map[uint][]models.Product)
	for _, p := range products {
		if p.IsAvailable {
			byCategory[p.CategoryID] = append(byCategory[p.CategoryID], p)
		}
	}

	menu := &Menu{Store: store, Categories: make([]MenuCategory, 0, len(categories))}
	for _, c := range categories {
		items := byCategory[c.ID]
		if items == nil {
			items = []models.Product{}
		}
		menu.Categories = append(menu.Categories, MenuCategory{Category: c, Products: items})
	}
	return menu, nil
}

func (s *storeService) PublicTables(ctx context.Context, slug string, activeOnly bool) ([]models.Table, error) {
	store, err := s.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	tables, err := s.repos.Tables.ListByStore(ctx, store.ID, activeOnly)
	if err != nil {
		return nil, internalErr("failed to load tables", err)
	}
	return tables, nil
}

func (s *storeService) Mine(ctx context.Context, principal *auth.Principal) (*models.Store, error) {
	if principal == nil {
		return nil, unauthorizedErr("authentication required")
	}
	store, err := s.repos.Stores.GetByUserID(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundErr("no store registered for this account")
		}
		return nil, internalErr("failed to load store", err)
	}
	return store, nil
}

func (s *storeService) Create(ctx context.Context, principal *auth.Principal, input StoreInput) (*models.Store, error) {
	if principal == nil {
		return nil, unauthorizedErr("authentication required")
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	if _, err := s.repos.Stores.GetByUserID(ctx, principal.UserID); err == nil {
		return nil, conflictErr("this account already has a store")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, internalErr("failed to load store", err)
	}

	store := &models.Store{UserID: principal.UserID}
	input.apply(store)
	if err := s.repos.Stores.Create(ctx, store); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflictErr("slug %q is already in use", store.Slug)
		}
		return nil, internalErr("failed to create store", err)
	}

	logger.FromContext(ctx).Info("Store created", zap.Uint("store_id", store.ID), zap.String("slug", store.Slug))
	return store, nil
}

func (s *storeService) Update(ctx context.Context, principal *auth.Principal, input StoreInput) (*models.Store, error) {
	store, err := s.Mine(ctx, principal)
	if err != nil {
		return nil, err
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	oldSlug := store.Slug
	input.apply(store)
	if err := s.repos.Stores.Update(ctx, store); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflictErr("slug %q is already in use", store.Slug)
		}
		// The update path reports the persistence error to the operator.
		return nil, &Error{Kind: KindInternal, Message: "failed to update store: " + err.Error(), Err: err}
	}

	s.invalidate(ctx, oldSlug)
	if store.Slug != oldSlug {
		s.invalidate(ctx, store.Slug)
	}
	return store, nil
}

func (s *storeService) invalidate(ctx context.Context, slug string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteStore(ctx, slug); err != nil {
		logger.FromContext(ctx).Warn("Store cache invalidation failed", zap.String("slug", slug), zap.Error(err))
	}
}

func (in *StoreInput) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Slug = strings.ToLower(strings.TrimSpace(in.Slug))
	if in.Name == "" {
		return validationErr("store name is required")
	}
	if !slugPattern.MatchString(in.Slug) {
		return validationErr("slug may only contain lowercase letters, digits and hyphens")
	}
	return nil
}

func (in StoreInput) apply(store *models.Store) {
	store.Name = in.Name
	store.Slug = in.Slug
	store.Description = in.Description
	store.Address = in.Address
	store.Phone = in.Phone
	store.Email = in.Email
	store.FacebookURL = in.FacebookURL
	store.InstagramURL = in.InstagramURL
	store.WhatsAppURL = in.WhatsAppURL
	store.AppURL = in.AppURL
	store.MpesaName = in.MpesaName
	store.MpesaPhone = in.MpesaPhone
	store.EmolaName = in.EmolaName
	store.EmolaPhone = in.EmolaPhone
}

// authorizeStore lets admins through and otherwise requires ownership.
func authorizeStore(principal *auth.Principal, store *models.Store) error {
	if principal == nil {
		return unauthorizedErr("authentication required")
	}
	if principal.IsAdmin() || store.UserID == principal.UserID {
		return nil
	}
	return forbiddenErr("you do not have access to this store")
}
