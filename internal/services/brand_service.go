package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/pricedesk/pricedesk/internal/models"
	"github.com/pricedesk/pricedesk/internal/permissions"
	apperrors "github.com/pricedesk/pricedesk/pkg/errors"
	"github.com/pricedesk/pricedesk/pkg/metrics"
)

// BrandService manages catalog brands. Mutations consult the live grant
// tables through the checker rather than token claims, so a revoked grant
// takes effect on the next request. A caller without a grant is told the
// brand does not exist.
type BrandService struct {
	db      *gorm.DB
	checker *permissions.Checker
}

// NewBrandService constructs a BrandService using the provided database
// handle.
func NewBrandService(db *gorm.DB) (*BrandService, error) {
	if db == nil {
		return nil, errors.New("brand service: db is required")
	}
	checker, err := permissions.NewChecker(db)
	if err != nil {
		return nil, err
	}
	return &BrandService{db: db, checker: checker}, nil
}

// ListBrandsInput filters and paginates the brand listing.
type ListBrandsInput struct {
	Page    int
	PerPage int
	Name    string
}

// List returns brands matching the filter together with the total count.
func (s *BrandService) List(ctx context.Context, input ListBrandsInput) ([]models.Brand, int64, error) {
	ctx = ensureContext(ctx)
	page, perPage := normalisePage(input.Page, input.PerPage)

	query := s.db.WithContext(ctx).Model(&models.Brand{})
	if name := strings.TrimSpace(input.Name); name != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("brand service: count brands: %w", err)
	}

	var brands []models.Brand
	err := query.
		Order("name ASC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&brands).Error
	if err != nil {
		return nil, 0, fmt.Errorf("brand service: list brands: %w", err)
	}
	return brands, total, nil
}

// Get loads a single brand with its PDFs.
func (s *BrandService) Get(ctx context.Context, brandID uint) (*models.Brand, error) {
	ctx = ensureContext(ctx)
	var brand models.Brand
	err := s.db.WithContext(ctx).Preload("PDFs").First(&brand, brandID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("brand service: load brand: %w", err)
	}
	return &brand, nil
}

// BrandInput describes the mutable fields of a brand.
type BrandInput struct {
	Name     string
	Country  string
	Discount int
	Contact  string
}

// Create registers a new brand.
func (s *BrandService) Create(ctx context.Context, input BrandInput) (*models.Brand, error) {
	ctx = ensureContext(ctx)

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewBadRequest("brand name is required")
	}

	brand := &models.Brand{
		Name:     name,
		Country:  strings.TrimSpace(input.Country),
		Discount: input.Discount,
		Contact:  strings.TrimSpace(input.Contact),
	}
	if err := s.db.WithContext(ctx).Create(brand).Error; err != nil {
		return nil, fmt.Errorf("brand service: create brand: %w", err)
	}
	return brand, nil
}

// Update edits a brand on behalf of actorID. The caller needs a live brand
// grant (or the admin role); without one the brand is reported as not found.
func (s *BrandService) Update(ctx context.Context, actorID, brandID uint, input BrandInput) (*models.Brand, error) {
	ctx = ensureContext(ctx)

	if err := s.authorize(ctx, actorID, brandID); err != nil {
		return nil, err
	}

	brand, err := s.Get(ctx, brandID)
	if err != nil {
		return nil, err
	}
	brand.Name = trimmedOrCurrent(input.Name, brand.Name)
	brand.Country = strings.TrimSpace(input.Country)
	brand.Discount = input.Discount
	brand.Contact = strings.TrimSpace(input.Contact)

	err = s.db.WithContext(ctx).Model(brand).
		Select("name", "country", "discount", "contact").
		Updates(brand).Error
	if err != nil {
		return nil, fmt.Errorf("brand service: update brand: %w", err)
	}
	return brand, nil
}

// Delete removes a brand on behalf of actorID, detaching its PDFs instead of
// deleting them.
func (s *BrandService) Delete(ctx context.Context, actorID, brandID uint) error {
	ctx = ensureContext(ctx)

	if err := s.authorize(ctx, actorID, brandID); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.ProductPDF{}).
			Where("brand_id = ?", brandID).
			Update("brand_id", nil).Error; err != nil {
			return fmt.Errorf("brand service: detach pdfs: %w", err)
		}
		if err := tx.Where("brand_id = ?", brandID).
			Delete(&models.RoleBrandPermission{}).Error; err != nil {
			return fmt.Errorf("brand service: clear grants: %w", err)
		}
		result := tx.Delete(&models.Brand{}, brandID)
		if result.Error != nil {
			return fmt.Errorf("brand service: delete brand: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrNotFound
		}
		return nil
	})
}

func (s *BrandService) authorize(ctx context.Context, actorID, brandID uint) error {
	allowed, err := s.checker.CanEditBrand(ctx, actorID, brandID)
	if err != nil {
		return fmt.Errorf("brand service: authorize: %w", err)
	}
	if !allowed {
		metrics.ResourceChecks.WithLabelValues("brand", "denied").Inc()
		return apperrors.ErrNotFound
	}
	metrics.ResourceChecks.WithLabelValues("brand", "allowed").Inc()
	return nil
}
