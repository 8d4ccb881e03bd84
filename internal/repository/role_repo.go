package repository

import (
	"context"
	"errors"

	"go-bakery-pos/internal/model"

	"gorm.io/gorm"
)

type RoleRepository interface {
	FindAll(ctx context.Context) ([]model.Role, error)
	FindByCode(ctx context.Context, code string) (*model.Role, error)
	SeedDefaults(ctx context.Context) error
}

type roleRepo struct {
	db *gorm.DB
}

func NewRoleRepo(db *gorm.DB) RoleRepository {
	return &roleRepo{db: db}
}

func (r *roleRepo) FindAll(ctx context.Context) ([]model.Role, error) {
	var roles []model.Role
	err := r.db.WithContext(ctx).Preload("Privileges").Order("id ASC").Find(&roles).Error
	return roles, err
}

func (r *roleRepo) FindByCode(ctx context.Context, code string) (*model.Role, error) {
	var role model.Role
	err := r.db.WithContext(ctx).Preload("Privileges").Where("code = ?", code).First(&role).Error
	if err != nil {
		return nil, translateError(err, "role")
	}
	return &role, nil
}

// SeedDefaults creates missing default roles and resets their privilege sets.
// Privileges must already be seeded.
func (r *roleRepo) SeedDefaults(ctx context.Context) error {
	db := r.db.WithContext(ctx)
	for _, def := range model.DefaultRoles {
		role := def.Role
		var existing model.Role
		err := db.Where("code = ?", role.Code).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := db.Create(&role).Error; err != nil {
				return err
			}
			existing = role
		case err != nil:
			return err
		}

		var privileges []model.Privilege
		query := db.Model(&model.Privilege{})
		if def.Codes != nil {
			query = query.Where("code IN ?", def.Codes)
		}
		if err := query.Find(&privileges).Error; err != nil {
			return err
		}
		if err := db.Model(&existing).Association("Privileges").Replace(privileges); err != nil {
			return err
		}
	}
	return nil
}
