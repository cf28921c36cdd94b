package developer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/re-admin/core/internal/models"
	"github.com/re-admin/core/internal/pkg/apperr"
	"github.com/re-admin/core/internal/pkg/blobstore"
	"github.com/re-admin/core/internal/pkg/fileset"
	"github.com/re-admin/core/internal/pkg/pagination"
	"github.com/re-admin/core/internal/pkg/response"
	"github.com/re-admin/core/internal/pkg/slug"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const slugFallback = "developer"

// MaxPageSize caps the list window for developers.
const MaxPageSize = 100

type Service struct {
	db     *gorm.DB
	blobs  blobstore.Store
	logger *zap.Logger
}

func NewService(db *gorm.DB, blobs blobstore.Store, logger *zap.Logger) *Service {
	return &Service{db: db, blobs: blobs, logger: logger}
}

// List returns a page of developers, newest first. The name filter is a
// case-insensitive substring; the city filter matches link rows exactly.
func (s *Service) List(q pagination.Query, name, city string) ([]models.DeveloperModel, response.Pagination, error) {
	tx := s.db.Model(&models.DeveloperModel{}).Preload("Cities").Order("created_at DESC")
	if name = strings.TrimSpace(name); name != "" {
		tx = tx.Where("LOWER(name) LIKE LOWER(?)", "%"+name+"%")
	}
	if city = strings.TrimSpace(city); city != "" {
		tx = tx.Where("id IN (?)",
			s.db.Model(&models.DeveloperCityModel{}).Select("developer_id").Where("city = ?", city))
	}
	var items []models.DeveloperModel
	pag, err := pagination.Paginate(tx, q, &items)
	if err != nil {
		return nil, pag, apperr.Store(err)
	}
	return items, pag, nil
}

// GetByID returns the developer with its city links, or (nil, nil) when the
// row does not exist.
func (s *Service) GetByID(id string) (*models.DeveloperModel, error) {
	var d models.DeveloperModel
	if err := s.db.Preload("Cities").First(&d, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperr.Store(err)
	}
	return &d, nil
}

// Count returns the total number of developers.
func (s *Service) Count() (int64, error) {
	var n int64
	if err := s.db.Model(&models.DeveloperModel{}).Count(&n).Error; err != nil {
		return 0, apperr.Store(err)
	}
	return n, nil
}

// Create inserts the developer row, then links its cities in a second phase.
// City-link failures do not undo the already-persisted row; they come back as
// warnings on the Result.
func (s *Service) Create(ctx context.Context, in *CreateInput) (*Result, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, apperr.Validation("name is required")
	}

	resolved, err := s.resolveSlug(in.Slug, in.Name, "")
	if err != nil {
		return nil, apperr.Store(err)
	}

	d := models.DeveloperModel{
		Name:    strings.TrimSpace(in.Name),
		Slug:    resolved,
		Email:   in.Email,
		Phone:   in.Phone,
		Website: in.Website,
		About:   in.About,
		Country: in.Country,
		LogoURL: in.LogoURL,
		Active:  in.Active,
	}

	if err := s.db.WithContext(ctx).Create(&d).Error; err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Store(err)
		}
		if d.Slug, err = s.resolveSlug(in.Slug, in.Name, ""); err != nil {
			return nil, apperr.Store(err)
		}
		d.ID = ""
		if err := s.db.WithContext(ctx).Create(&d).Error; err != nil {
			return nil, apperr.Store(err)
		}
	}

	warnings := s.linkCities(ctx, &d, fileset.Dedupe(in.Cities))
	return &Result{Developer: &d, Warnings: warnings}, nil
}

// Update applies a sparse patch. The logo follows the single-reference
// reconciliation rules and a cities patch replaces the link rows wholesale.
func (s *Service) Update(ctx context.Context, id string, in *UpdateInput) (*Result, error) {
	d, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, nil
	}

	changed := false
	var orphans []string

	if in.Name != nil {
		d.Name = strings.TrimSpace(*in.Name)
		if d.Name == "" {
			return nil, apperr.Validation("name cannot be empty")
		}
		changed = true
	}
	if in.Slug != nil {
		resolved, err := s.resolveSlug(*in.Slug, d.Name, d.ID)
		if err != nil {
			return nil, apperr.Store(err)
		}
		d.Slug = resolved
		changed = true
	}
	if in.Email != nil {
		d.Email = nilIfEmpty(*in.Email)
		changed = true
	}
	if in.Phone != nil {
		d.Phone = nilIfEmpty(*in.Phone)
		changed = true
	}
	if in.Website != nil {
		d.Website = nilIfEmpty(*in.Website)
		changed = true
	}
	if in.About != nil {
		d.About = nilIfEmpty(*in.About)
		changed = true
	}
	if in.Country != nil {
		d.Country = nilIfEmpty(*in.Country)
		changed = true
	}
	if in.Active != nil {
		d.Active = *in.Active
		changed = true
	}

	if in.RemoveLogo || in.ReplaceLogoURL != nil {
		next, dead := fileset.ReconcileSingle(d.LogoURL, in.ReplaceLogoURL, in.RemoveLogo)
		d.LogoURL = next
		orphans = append(orphans, dead...)
		changed = true
	}

	var warnings []string
	if in.Cities != nil {
		warnings = s.replaceCities(ctx, d, fileset.Dedupe(*in.Cities))
	}

	if changed {
		// detach the preloaded association so Save only writes the row
		links := d.Cities
		d.Cities = nil
		if err := s.db.WithContext(ctx).Omit("Cities").Save(d).Error; err != nil {
			if !errors.Is(err, gorm.ErrDuplicatedKey) || in.Slug == nil {
				return nil, apperr.Store(err)
			}
			if d.Slug, err = s.resolveSlug(*in.Slug, d.Name, d.ID); err != nil {
				return nil, apperr.Store(err)
			}
			if err := s.db.WithContext(ctx).Omit("Cities").Save(d).Error; err != nil {
				return nil, apperr.Store(err)
			}
		}
		d.Cities = links
	}

	s.deleteBlobs(ctx, orphans)

	// reload links so the response reflects the replaced set
	if in.Cities != nil {
		if fresh, err := s.GetByID(id); err == nil && fresh != nil {
			d = fresh
		}
	}
	return &Result{Developer: d, Warnings: warnings}, nil
}

// SetStatus writes active directly. Idempotent.
func (s *Service) SetStatus(ctx context.Context, id string, active bool) (*models.DeveloperModel, error) {
	d, err := s.GetByID(id)
	if err != nil || d == nil {
		return d, err
	}
	if err := s.db.WithContext(ctx).Model(d).Update("active", active).Error; err != nil {
		return nil, apperr.Store(err)
	}
	return d, nil
}

// ToggleStatus flips active through a read-then-write. Kept for the legacy
// call pattern; prefer SetStatus.
func (s *Service) ToggleStatus(ctx context.Context, id string) (*models.DeveloperModel, error) {
	d, err := s.GetByID(id)
	if err != nil || d == nil {
		return d, err
	}
	if err := s.db.WithContext(ctx).Model(d).Update("active", !d.Active).Error; err != nil {
		return nil, apperr.Store(err)
	}
	return d, nil
}

// Delete removes the row and its city links after a best-effort cleanup of
// the logo blob.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	d, err := s.GetByID(id)
	if err != nil {
		return false, err
	}
	if d == nil {
		return false, nil
	}

	if d.LogoURL != nil && *d.LogoURL != "" {
		s.deleteBlobs(ctx, []string{*d.LogoURL})
	}

	if err := s.db.WithContext(ctx).Where("developer_id = ?", id).Delete(&models.DeveloperCityModel{}).Error; err != nil {
		return false, apperr.Store(err)
	}
	// hard delete so the slug returns to the pool immediately
	if err := s.db.WithContext(ctx).Unscoped().Delete(&models.DeveloperModel{}, "id = ?", id).Error; err != nil {
		return false, apperr.Store(err)
	}
	return true, nil
}

// linkCities inserts link rows one by one so a single bad city does not sink
// the rest. Failures come back as warning strings.
func (s *Service) linkCities(ctx context.Context, d *models.DeveloperModel, cities []string) []string {
	var warnings []string
	for _, city := range cities {
		link := models.DeveloperCityModel{DeveloperID: d.ID, City: city}
		if err := s.db.WithContext(ctx).Create(&link).Error; err != nil {
			s.logger.Warn("developer city link failed",
				zap.String("developer_id", d.ID),
				zap.String("city", city),
				zap.Error(err),
			)
			warnings = append(warnings, fmt.Sprintf("city %q not linked: %v", city, err))
			continue
		}
		d.Cities = append(d.Cities, link)
	}
	return warnings
}

func (s *Service) replaceCities(ctx context.Context, d *models.DeveloperModel, cities []string) []string {
	if err := s.db.WithContext(ctx).Where("developer_id = ?", d.ID).Delete(&models.DeveloperCityModel{}).Error; err != nil {
		return []string{fmt.Sprintf("existing city links not cleared: %v", err)}
	}
	d.Cities = nil
	return s.linkCities(ctx, d, cities)
}

func (s *Service) resolveSlug(explicit, name, excludeID string) (string, error) {
	base := strings.TrimSpace(explicit)
	if base == "" {
		base = name
	}
	return slug.Generate(base, slugFallback, func(candidate string) (bool, error) {
		tx := s.db.Model(&models.DeveloperModel{}).Where("slug = ?", candidate)
		if excludeID != "" {
			tx = tx.Where("id <> ?", excludeID)
		}
		var n int64
		if err := tx.Count(&n).Error; err != nil {
			return false, err
		}
		return n > 0, nil
	})
}

func (s *Service) deleteBlobs(ctx context.Context, urls []string) {
	if len(urls) == 0 || s.blobs == nil {
		return
	}
	if err := s.blobs.DeleteMany(ctx, urls); err != nil {
		s.logger.Warn("developer blob cleanup incomplete",
			zap.Int("count", len(urls)),
			zap.Error(err),
		)
	}
}

func nilIfEmpty(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
