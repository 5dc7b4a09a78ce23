package migrations

import (
	"context"
	"errors"
	"fmt"

	"restaurant_manager/internal/auth"
	"restaurant_manager/internal/config"
	"restaurant_manager/internal/models"
	"restaurant_manager/internal/repository"
	"restaurant_manager/internal/services"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RunMigrations creates or updates every table.
func RunMigrations(db *gorm.DB, log *zap.Logger) error {
	log.Info("Running database migrations")
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	log.Info("Database migrations completed")
	return nil
}

// SeedDefaults creates the admin account and its store when missing. It is
// safe to run repeatedly.
func SeedDefaults(ctx context.Context, repos *repository.Repositories, admin config.AdminConfig, log *zap.Logger) error {
	userService := services.NewUserService(repos.Users, nil)

	user, err := userService.GetUserByEmail(ctx, admin.Email)
	switch {
	case err == nil:
		log.Info("Admin user already exists", zap.String("email", user.Email))
	case services.IsKind(err, services.KindNotFound):
		user = &models.User{
			Name:     admin.Name,
			Email:    admin.Email,
			Role:     string(models.RoleAdmin),
			IsActive: true,
		}
		if err := userService.CreateUser(ctx, user, admin.Password); err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}
		log.Info("Admin user created", zap.String("email", user.Email))
	default:
		return err
	}

	if _, err := repos.Stores.GetByUserID(ctx, user.ID); err == nil {
		return nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to load admin store: %w", err)
	}

	storeService := services.NewStoreService(repos, nil, 0)
	principal := &auth.Principal{UserID: user.ID, Role: models.RoleAdmin}
	store, err := storeService.Create(ctx, principal, services.StoreInput{
		Name: admin.StoreName,
		Slug: admin.StoreSlug,
	})
	if err != nil {
		return fmt.Errorf("failed to create admin store: %w", err)
	}
	log.Info("Admin store created", zap.String("slug", store.Slug))
	return nil
}
