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

// PDFService manages catalog PDFs. Listing narrows to documents the caller
// holds any grant for; mutations require a live edit grant and report missing
// access as a missing document.
type PDFService struct {
	db      *gorm.DB
	checker *permissions.Checker
}

// NewPDFService constructs a PDFService using the provided database handle.
func NewPDFService(db *gorm.DB) (*PDFService, error) {
	if db == nil {
		return nil, errors.New("pdf service: db is required")
	}
	checker, err := permissions.NewChecker(db)
	if err != nil {
		return nil, err
	}
	return &PDFService{db: db, checker: checker}, nil
}

// ListPDFsInput filters and paginates the PDF listing. ActorID scopes the
// result to granted documents unless the actor is an admin.
type ListPDFsInput struct {
	ActorID uint
	Page    int
	PerPage int
	Name    string
	BrandID uint
}

// List returns the PDFs visible to the actor together with the total count.
// Non-admin callers only see documents they hold a grant for; an actor with
// no grants gets an empty page, not an error.
func (s *PDFService) List(ctx context.Context, input ListPDFsInput) ([]models.ProductPDF, int64, error) {
	ctx = ensureContext(ctx)
	page, perPage := normalisePage(input.Page, input.PerPage)

	query := s.db.WithContext(ctx).Model(&models.ProductPDF{})
	if name := strings.TrimSpace(input.Name); name != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}
	if input.BrandID != 0 {
		query = query.Where("brand_id = ?", input.BrandID)
	}

	isAdmin, err := s.checker.IsAdmin(ctx, input.ActorID)
	if err != nil {
		return nil, 0, fmt.Errorf("pdf service: admin check: %w", err)
	}
	if !isAdmin {
		granted, err := s.checker.GrantedPDFIDs(ctx, input.ActorID)
		if err != nil {
			return nil, 0, fmt.Errorf("pdf service: load grants: %w", err)
		}
		if len(granted) == 0 {
			return []models.ProductPDF{}, 0, nil
		}
		query = query.Where("id IN ?", granted)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("pdf service: count pdfs: %w", err)
	}

	var pdfs []models.ProductPDF
	err = query.
		Preload("Brand").
		Order("id ASC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&pdfs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("pdf service: list pdfs: %w", err)
	}
	return pdfs, total, nil
}

// Get loads a single PDF visible to the actor. Documents the actor holds no
// grant for are reported as not found.
func (s *PDFService) Get(ctx context.Context, actorID, pdfID uint) (*models.ProductPDF, error) {
	ctx = ensureContext(ctx)

	isAdmin, err := s.checker.IsAdmin(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("pdf service: admin check: %w", err)
	}
	if !isAdmin {
		granted, err := s.checker.GrantedPDFIDs(ctx, actorID)
		if err != nil {
			return nil, fmt.Errorf("pdf service: load grants: %w", err)
		}
		if !containsID(granted, pdfID) {
			return nil, apperrors.ErrNotFound
		}
	}

	var pdf models.ProductPDF
	err = s.db.WithContext(ctx).Preload("Brand").First(&pdf, pdfID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("pdf service: load pdf: %w", err)
	}
	return &pdf, nil
}

// PDFInput describes the mutable fields of a catalog PDF.
type PDFInput struct {
	Name           string
	PDFURL         string
	PageCount      int
	DiscountFactor float64
	BrandID        *uint
}

// Create registers a new catalog PDF.
func (s *PDFService) Create(ctx context.Context, input PDFInput) (*models.ProductPDF, error) {
	ctx = ensureContext(ctx)

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewBadRequest("pdf name is required")
	}
	if input.DiscountFactor == 0 {
		input.DiscountFactor = 1
	}

	pdf := &models.ProductPDF{
		Name:           name,
		PDFURL:         strings.TrimSpace(input.PDFURL),
		PageCount:      input.PageCount,
		DiscountFactor: input.DiscountFactor,
		BrandID:        input.BrandID,
	}
	if err := s.db.WithContext(ctx).Create(pdf).Error; err != nil {
		return nil, fmt.Errorf("pdf service: create pdf: %w", err)
	}
	return pdf, nil
}

// Update edits a PDF on behalf of actorID. The caller needs a live edit
// grant; a view-only grant is not enough and is masked as not found.
func (s *PDFService) Update(ctx context.Context, actorID, pdfID uint, input PDFInput) (*models.ProductPDF, error) {
	ctx = ensureContext(ctx)

	if err := s.authorizeEdit(ctx, actorID, pdfID); err != nil {
		return nil, err
	}

	var pdf models.ProductPDF
	if err := s.db.WithContext(ctx).First(&pdf, pdfID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("pdf service: load pdf: %w", err)
	}

	pdf.Name = trimmedOrCurrent(input.Name, pdf.Name)
	pdf.PDFURL = trimmedOrCurrent(input.PDFURL, pdf.PDFURL)
	if input.PageCount != 0 {
		pdf.PageCount = input.PageCount
	}
	if input.DiscountFactor != 0 {
		pdf.DiscountFactor = input.DiscountFactor
	}
	if input.BrandID != nil {
		pdf.BrandID = input.BrandID
	}

	err := s.db.WithContext(ctx).Model(&pdf).
		Select("name", "pdf_url", "page_count", "discount_factor", "brand_id").
		Updates(&pdf).Error
	if err != nil {
		return nil, fmt.Errorf("pdf service: update pdf: %w", err)
	}
	return &pdf, nil
}

// Delete removes a PDF and its grant rows on behalf of actorID.
func (s *PDFService) Delete(ctx context.Context, actorID, pdfID uint) error {
	ctx = ensureContext(ctx)

	if err := s.authorizeEdit(ctx, actorID, pdfID); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_pdf_id = ?", pdfID).
			Delete(&models.RolePDFPermission{}).Error; err != nil {
			return fmt.Errorf("pdf service: clear grants: %w", err)
		}
		result := tx.Delete(&models.ProductPDF{}, pdfID)
		if result.Error != nil {
			return fmt.Errorf("pdf service: delete pdf: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrNotFound
		}
		return nil
	})
}

func (s *PDFService) authorizeEdit(ctx context.Context, actorID, pdfID uint) error {
	allowed, err := s.checker.CanEditPDF(ctx, actorID, pdfID)
	if err != nil {
		return fmt.Errorf("pdf service: authorize: %w", err)
	}
	if !allowed {
		metrics.ResourceChecks.WithLabelValues("pdf", "denied").Inc()
		return apperrors.ErrNotFound
	}
	metrics.ResourceChecks.WithLabelValues("pdf", "allowed").Inc()
	return nil
}

func containsID(ids []uint, id uint) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
