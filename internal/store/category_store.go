package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"inventory-service/internal/model"
)

// CategoryStore owns the category soft-delete lifecycle. Name uniqueness is
// enforced only among active rows, and a category cannot be deleted while an
// active product still references it.
type CategoryStore struct {
	db *gorm.DB
}

func NewCategoryStore(db *gorm.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

// CategoryCreate holds the fields accepted when creating a category.
type CategoryCreate struct {
	Name        string
	Description string
}

// CategoryUpdate holds optional fields for a partial update; nil means
// "leave unchanged".
type CategoryUpdate struct {
	Name        *string
	Description *string
}

func (s *CategoryStore) Create(ctx context.Context, in CategoryCreate) (*model.Category, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, validationf("category name must not be empty")
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Category{}).
		Where("name = ? AND deleted_at IS NULL", in.Name).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, conflictf("category with name %q already exists", in.Name)
	}

	category := model.Category{
		Name:        in.Name,
		Description: in.Description,
	}
	if err := s.db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// Get returns the category regardless of deletion state; callers decide how to
// treat DeletedAt.
func (s *CategoryStore) Get(ctx context.Context, id uint) (*model.Category, error) {
	var category model.Category
	err := s.db.WithContext(ctx).First(&category, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFoundf("category %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *CategoryStore) ListActive(ctx context.Context, page Page) ([]model.Category, error) {
	var categories []model.Category
	err := page.apply(s.db.WithContext(ctx).
		Where("deleted_at IS NULL").
		Order("id")).
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *CategoryStore) ListDeleted(ctx context.Context, page Page) ([]model.Category, error) {
	var categories []model.Category
	err := page.apply(s.db.WithContext(ctx).
		Where("deleted_at IS NOT NULL").
		Order("id")).
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// Update applies a partial field update and refreshes UpdatedAt. Deleted
// categories must be restored before they can be updated.
func (s *CategoryStore) Update(ctx context.Context, id uint, in CategoryUpdate) (*model.Category, error) {
	category, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if category.IsDeleted() {
		return nil, invalidStatef("cannot update deleted category %d, restore it first", id)
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, validationf("category name must not be empty")
		}
		if *in.Name != category.Name {
			var count int64
			if err := s.db.WithContext(ctx).Model(&model.Category{}).
				Where("name = ? AND id != ? AND deleted_at IS NULL", *in.Name, id).
				Count(&count).Error; err != nil {
				return nil, err
			}
			if count > 0 {
				return nil, conflictf("category with name %q already exists", *in.Name)
			}
		}
		updates["name"] = *in.Name
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if len(updates) == 0 {
		return category, nil
	}

	// Updates with a map refreshes updated_at, which is exactly what a normal
	// field mutation should do.
	if err := s.db.WithContext(ctx).Model(category).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete soft-deletes the category. It fails if any active product still
// references it. UpdateColumn bypasses the updated_at auto-touch: deletion is a
// lifecycle toggle, not a content change, and DeletedAt alone records when it
// happened.
func (s *CategoryStore) Delete(ctx context.Context, id uint) (*model.Category, error) {
	category, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if category.IsDeleted() {
		return nil, notFoundf("category %d already deleted", id)
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Product{}).
		Where("category_id = ? AND deleted_at IS NULL", id).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, conflictf("cannot delete category %d with active products, delete the products first or move them to another category", id)
	}

	now := time.Now()
	if err := s.db.WithContext(ctx).Model(category).
		UpdateColumn("deleted_at", now).Error; err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Restore clears DeletedAt, again without touching UpdatedAt.
func (s *CategoryStore) Restore(ctx context.Context, id uint) (*model.Category, error) {
	category, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !category.IsDeleted() {
		return nil, invalidStatef("category %d is not deleted", id)
	}

	if err := s.db.WithContext(ctx).Model(category).
		UpdateColumn("deleted_at", nil).Error; err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}
