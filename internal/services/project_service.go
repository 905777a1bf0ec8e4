package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/pricedesk/pricedesk/internal/models"
	apperrors "github.com/pricedesk/pricedesk/pkg/errors"
)

// ProjectService manages projects and their nested regions and workbook
// versions.
type ProjectService struct {
	db *gorm.DB
}

// NewProjectService constructs a ProjectService using the provided database
// handle.
func NewProjectService(db *gorm.DB) (*ProjectService, error) {
	if db == nil {
		return nil, errors.New("project service: db is required")
	}
	return &ProjectService{db: db}, nil
}

// List returns projects with their regions, paginated.
func (s *ProjectService) List(ctx context.Context, page, perPage int) ([]models.Project, int64, error) {
	ctx = ensureContext(ctx)
	page, perPage = normalisePage(page, perPage)

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Project{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("project service: count projects: %w", err)
	}

	var projects []models.Project
	err := s.db.WithContext(ctx).
		Preload("Regions").
		Order("id ASC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&projects).Error
	if err != nil {
		return nil, 0, fmt.Errorf("project service: list projects: %w", err)
	}
	return projects, total, nil
}

// Get loads a project with its regions and versions.
func (s *ProjectService) Get(ctx context.Context, projectID uint) (*models.Project, error) {
	ctx = ensureContext(ctx)
	var project models.Project
	err := s.db.WithContext(ctx).
		Preload("Regions.Versions").
		First(&project, projectID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("project service: load project: %w", err)
	}
	return &project, nil
}

// ProjectInput describes the mutable fields of a project.
type ProjectInput struct {
	Name        string
	Description string
}

// Create registers a new project.
func (s *ProjectService) Create(ctx context.Context, input ProjectInput) (*models.Project, error) {
	ctx = ensureContext(ctx)

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewBadRequest("project name is required")
	}

	project := &models.Project{Name: name, Description: strings.TrimSpace(input.Description)}
	if err := s.db.WithContext(ctx).Create(project).Error; err != nil {
		return nil, fmt.Errorf("project service: create project: %w", err)
	}
	return project, nil
}

// Update edits a project's name and description.
func (s *ProjectService) Update(ctx context.Context, projectID uint, input ProjectInput) (*models.Project, error) {
	ctx = ensureContext(ctx)

	project, err := s.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	project.Name = trimmedOrCurrent(input.Name, project.Name)
	project.Description = strings.TrimSpace(input.Description)

	err = s.db.WithContext(ctx).Model(project).
		Select("name", "description").
		Updates(project).Error
	if err != nil {
		return nil, fmt.Errorf("project service: update project: %w", err)
	}
	return project, nil
}

// Delete removes a project and cascades to its regions and versions.
func (s *ProjectService) Delete(ctx context.Context, projectID uint) error {
	ctx = ensureContext(ctx)
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var regionIDs []uint
		if err := tx.Model(&models.Region{}).
			Where("project_id = ?", projectID).
			Pluck("id", &regionIDs).Error; err != nil {
			return fmt.Errorf("project service: load regions: %w", err)
		}
		if len(regionIDs) > 0 {
			if err := tx.Where("region_id IN ?", regionIDs).Delete(&models.Version{}).Error; err != nil {
				return fmt.Errorf("project service: delete versions: %w", err)
			}
			if err := tx.Where("project_id = ?", projectID).Delete(&models.Region{}).Error; err != nil {
				return fmt.Errorf("project service: delete regions: %w", err)
			}
		}
		result := tx.Delete(&models.Project{}, projectID)
		if result.Error != nil {
			return fmt.Errorf("project service: delete project: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrNotFound
		}
		return nil
	})
}

// RegionInput describes the mutable fields of a region.
type RegionInput struct {
	Name        string
	Description string
	Manager     string
	Status      string
}

// ListRegions returns a project's regions with their versions.
func (s *ProjectService) ListRegions(ctx context.Context, projectID uint) ([]models.Region, error) {
	ctx = ensureContext(ctx)

	if _, err := s.Get(ctx, projectID); err != nil {
		return nil, err
	}

	var regions []models.Region
	err := s.db.WithContext(ctx).
		Preload("Versions").
		Where("project_id = ?", projectID).
		Order("id ASC").
		Find(&regions).Error
	if err != nil {
		return nil, fmt.Errorf("project service: list regions: %w", err)
	}
	return regions, nil
}

// CreateRegion adds a region to a project.
func (s *ProjectService) CreateRegion(ctx context.Context, projectID uint, input RegionInput) (*models.Region, error) {
	ctx = ensureContext(ctx)

	if _, err := s.Get(ctx, projectID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewBadRequest("region name is required")
	}

	region := &models.Region{
		ProjectID:   projectID,
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Manager:     strings.TrimSpace(input.Manager),
		Status:      defaultString(input.Status, "active"),
	}
	if err := s.db.WithContext(ctx).Create(region).Error; err != nil {
		return nil, fmt.Errorf("project service: create region: %w", err)
	}
	return region, nil
}

// UpdateRegion edits a region belonging to the given project.
func (s *ProjectService) UpdateRegion(ctx context.Context, projectID, regionID uint, input RegionInput) (*models.Region, error) {
	ctx = ensureContext(ctx)

	region, err := s.loadRegion(ctx, projectID, regionID)
	if err != nil {
		return nil, err
	}

	region.Name = trimmedOrCurrent(input.Name, region.Name)
	region.Description = strings.TrimSpace(input.Description)
	region.Manager = strings.TrimSpace(input.Manager)
	region.Status = defaultString(input.Status, region.Status)

	err = s.db.WithContext(ctx).Model(region).
		Select("name", "description", "manager", "status").
		Updates(region).Error
	if err != nil {
		return nil, fmt.Errorf("project service: update region: %w", err)
	}
	return region, nil
}

// DeleteRegion removes a region and its versions.
func (s *ProjectService) DeleteRegion(ctx context.Context, projectID, regionID uint) error {
	ctx = ensureContext(ctx)

	if _, err := s.loadRegion(ctx, projectID, regionID); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("region_id = ?", regionID).Delete(&models.Version{}).Error; err != nil {
			return fmt.Errorf("project service: delete versions: %w", err)
		}
		if err := tx.Delete(&models.Region{}, regionID).Error; err != nil {
			return fmt.Errorf("project service: delete region: %w", err)
		}
		return nil
	})
}

// VersionInput describes the mutable fields of a workbook version.
type VersionInput struct {
	Version     string
	Description string
	Creator     string
	Status      string
	FileURL     string
	FileSize    int64
}

// ListVersions returns a region's workbook versions, newest first.
func (s *ProjectService) ListVersions(ctx context.Context, projectID, regionID uint) ([]models.Version, error) {
	ctx = ensureContext(ctx)

	if _, err := s.loadRegion(ctx, projectID, regionID); err != nil {
		return nil, err
	}

	var versions []models.Version
	err := s.db.WithContext(ctx).
		Where("region_id = ?", regionID).
		Order("id DESC").
		Find(&versions).Error
	if err != nil {
		return nil, fmt.Errorf("project service: list versions: %w", err)
	}
	return versions, nil
}

// CreateVersion records a new workbook revision under a region.
func (s *ProjectService) CreateVersion(ctx context.Context, projectID, regionID uint, input VersionInput) (*models.Version, error) {
	ctx = ensureContext(ctx)

	if _, err := s.loadRegion(ctx, projectID, regionID); err != nil {
		return nil, err
	}
	label := strings.TrimSpace(input.Version)
	if label == "" {
		return nil, apperrors.NewBadRequest("version label is required")
	}

	version := &models.Version{
		RegionID:    regionID,
		Version:     label,
		Description: strings.TrimSpace(input.Description),
		Creator:     strings.TrimSpace(input.Creator),
		Status:      defaultString(input.Status, "draft"),
		FileURL:     strings.TrimSpace(input.FileURL),
		FileSize:    input.FileSize,
	}
	if err := s.db.WithContext(ctx).Create(version).Error; err != nil {
		return nil, fmt.Errorf("project service: create version: %w", err)
	}
	return version, nil
}

// UpdateVersion edits a workbook revision.
func (s *ProjectService) UpdateVersion(ctx context.Context, projectID, regionID, versionID uint, input VersionInput) (*models.Version, error) {
	ctx = ensureContext(ctx)

	version, err := s.loadVersion(ctx, projectID, regionID, versionID)
	if err != nil {
		return nil, err
	}

	version.Version = trimmedOrCurrent(input.Version, version.Version)
	version.Description = strings.TrimSpace(input.Description)
	version.Creator = trimmedOrCurrent(input.Creator, version.Creator)
	version.Status = defaultString(input.Status, version.Status)
	version.FileURL = trimmedOrCurrent(input.FileURL, version.FileURL)
	if input.FileSize != 0 {
		version.FileSize = input.FileSize
	}

	err = s.db.WithContext(ctx).Model(version).
		Select("version", "description", "creator", "status", "file_url", "file_size").
		Updates(version).Error
	if err != nil {
		return nil, fmt.Errorf("project service: update version: %w", err)
	}
	return version, nil
}

// DeleteVersion removes a workbook revision.
func (s *ProjectService) DeleteVersion(ctx context.Context, projectID, regionID, versionID uint) error {
	ctx = ensureContext(ctx)

	if _, err := s.loadVersion(ctx, projectID, regionID, versionID); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(&models.Version{}, versionID).Error; err != nil {
		return fmt.Errorf("project service: delete version: %w", err)
	}
	return nil
}

func (s *ProjectService) loadRegion(ctx context.Context, projectID, regionID uint) (*models.Region, error) {
	var region models.Region
	err := s.db.WithContext(ctx).
		Where("id = ? AND project_id = ?", regionID, projectID).
		First(&region).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("project service: load region: %w", err)
	}
	return &region, nil
}

func (s *ProjectService) loadVersion(ctx context.Context, projectID, regionID, versionID uint) (*models.Version, error) {
	if _, err := s.loadRegion(ctx, projectID, regionID); err != nil {
		return nil, err
	}
	var version models.Version
	err := s.db.WithContext(ctx).
		Where("id = ? AND region_id = ?", versionID, regionID).
		First(&version).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("project service: load version: %w", err)
	}
	return &version, nil
}

func defaultString(value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	return value
}
