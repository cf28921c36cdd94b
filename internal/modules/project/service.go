package project

import (
	"context"
	"errors"
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

const slugFallback = "project"

// MaxPageSize caps the list window for projects.
const MaxPageSize = 150

type Service struct {
	db     *gorm.DB
	blobs  blobstore.Store
	logger *zap.Logger
}

func NewService(db *gorm.DB, blobs blobstore.Store, logger *zap.Logger) *Service {
	return &Service{db: db, blobs: blobs, logger: logger}
}

// List returns a page of projects, newest first, optionally filtered by a
// case-insensitive title substring.
func (s *Service) List(q pagination.Query, title string) ([]models.ProjectModel, response.Pagination, error) {
	tx := s.db.Model(&models.ProjectModel{}).Order("created_at DESC")
	if title = strings.TrimSpace(title); title != "" {
		tx = tx.Where("LOWER(title) LIKE LOWER(?)", "%"+title+"%")
	}
	var items []models.ProjectModel
	pag, err := pagination.Paginate(tx, q, &items)
	if err != nil {
		return nil, pag, apperr.Store(err)
	}
	return items, pag, nil
}

// GetByID returns the project, or (nil, nil) when the row does not exist.
func (s *Service) GetByID(id string) (*models.ProjectModel, error) {
	var p models.ProjectModel
	if err := s.db.First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperr.Store(err)
	}
	return &p, nil
}

// Count returns the total number of projects.
func (s *Service) Count() (int64, error) {
	var n int64
	if err := s.db.Model(&models.ProjectModel{}).Count(&n).Error; err != nil {
		return 0, apperr.Store(err)
	}
	return n, nil
}

// Create inserts a project. The slug derives from the explicit slug when
// given, otherwise from the title; a unique-index violation between the probe
// and the insert triggers one re-resolve and retry.
func (s *Service) Create(ctx context.Context, in *CreateInput) (*models.ProjectModel, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, apperr.Validation("title is required")
	}

	resolved, err := s.resolveSlug(in.Slug, in.Title, "")
	if err != nil {
		return nil, apperr.Store(err)
	}

	p := models.ProjectModel{
		Title:       strings.TrimSpace(in.Title),
		Slug:        resolved,
		Description: in.Description,
		CategoryID:  in.CategoryID,
		Location:    in.Location,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Status:      in.Status,
		Amenities:   coerceAmenities(in.Amenities),
		Meta:        in.Meta,
		HeroImage:   in.HeroImageURL,
		Images:      fileset.Dedupe(in.ImageURLs),
		Documents:   fileset.Dedupe(in.DocumentURLs),
	}
	if p.Meta == nil {
		p.Meta = map[string]interface{}{}
	}

	if err := s.db.WithContext(ctx).Create(&p).Error; err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Store(err)
		}
		// lost the race between the uniqueness probe and the insert
		if p.Slug, err = s.resolveSlug(in.Slug, in.Title, ""); err != nil {
			return nil, apperr.Store(err)
		}
		p.ID = ""
		if err := s.db.WithContext(ctx).Create(&p).Error; err != nil {
			return nil, apperr.Store(err)
		}
	}
	return &p, nil
}

// Update applies a sparse patch. Nil fields leave columns untouched, the hero
// image follows the single-reference reconciliation rules, and array
// replacements delete the stored blobs that fell out of the desired set. An
// empty patch returns the entity without writing.
func (s *Service) Update(ctx context.Context, id string, in *UpdateInput) (*models.ProjectModel, error) {
	p, err := s.GetByID(id)
	if err != nil || p == nil {
		return p, err
	}

	changed := false
	var orphans []string

	if in.Title != nil {
		p.Title = strings.TrimSpace(*in.Title)
		if p.Title == "" {
			return nil, apperr.Validation("title cannot be empty")
		}
		changed = true
	}
	// a title change alone never rewrites the slug; published URLs stay
	// stable unless the caller sends a slug explicitly
	if in.Slug != nil {
		resolved, err := s.resolveSlug(*in.Slug, p.Title, p.ID)
		if err != nil {
			return nil, apperr.Store(err)
		}
		p.Slug = resolved
		changed = true
	}
	if in.Description != nil {
		p.Description = *in.Description
		changed = true
	}
	if in.CategoryID != nil {
		p.CategoryID = nilIfEmpty(*in.CategoryID)
		changed = true
	}
	if in.Location != nil {
		p.Location = *in.Location
		changed = true
	}
	if in.StartDate != nil {
		p.StartDate = nilIfEmpty(*in.StartDate)
		changed = true
	}
	if in.EndDate != nil {
		p.EndDate = nilIfEmpty(*in.EndDate)
		changed = true
	}
	if in.Status != nil {
		p.Status = *in.Status
		changed = true
	}
	if in.Amenities != nil {
		p.Amenities = coerceAmenities(*in.Amenities)
		changed = true
	}
	if in.Meta != nil {
		p.Meta = *in.Meta
		changed = true
	}

	if in.RemoveHero || in.ReplaceHeroURL != nil {
		next, dead := fileset.ReconcileSingle(p.HeroImage, in.ReplaceHeroURL, in.RemoveHero)
		p.HeroImage = next
		orphans = append(orphans, dead...)
		changed = true
	}

	if in.ReplaceImageURLs != nil {
		res := fileset.Reconcile(p.Images, *in.ReplaceImageURLs)
		p.Images = res.ToKeep
		orphans = append(orphans, res.ToDelete...)
		changed = true
	}
	if len(in.AppendImageURLs) > 0 {
		p.Images = fileset.Dedupe(append(p.Images, in.AppendImageURLs...))
		changed = true
	}
	if in.ReplaceDocumentURLs != nil {
		res := fileset.Reconcile(p.Documents, *in.ReplaceDocumentURLs)
		p.Documents = res.ToKeep
		orphans = append(orphans, res.ToDelete...)
		changed = true
	}
	if len(in.AppendDocumentURLs) > 0 {
		p.Documents = fileset.Dedupe(append(p.Documents, in.AppendDocumentURLs...))
		changed = true
	}

	if !changed {
		return p, nil
	}

	if err := s.db.WithContext(ctx).Save(p).Error; err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) || in.Slug == nil {
			return nil, apperr.Store(err)
		}
		if p.Slug, err = s.resolveSlug(*in.Slug, p.Title, p.ID); err != nil {
			return nil, apperr.Store(err)
		}
		if err := s.db.WithContext(ctx).Save(p).Error; err != nil {
			return nil, apperr.Store(err)
		}
	}

	s.deleteBlobs(ctx, orphans)
	return p, nil
}

// SetStatus writes status directly. Idempotent, no read-modify-write window.
func (s *Service) SetStatus(ctx context.Context, id string, status bool) (*models.ProjectModel, error) {
	p, err := s.GetByID(id)
	if err != nil || p == nil {
		return p, err
	}
	if err := s.db.WithContext(ctx).Model(p).Update("status", status).Error; err != nil {
		return nil, apperr.Store(err)
	}
	return p, nil
}

// ToggleStatus flips status through a read-then-write. Kept for the legacy
// call pattern; concurrent toggles can collapse, prefer SetStatus.
func (s *Service) ToggleStatus(ctx context.Context, id string) (*models.ProjectModel, error) {
	p, err := s.GetByID(id)
	if err != nil || p == nil {
		return p, err
	}
	if err := s.db.WithContext(ctx).Model(p).Update("status", !p.Status).Error; err != nil {
		return nil, apperr.Store(err)
	}
	return p, nil
}

// Delete removes the row after a best-effort cleanup of every blob the project
// references. Blob failures never block the row deletion.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	p, err := s.GetByID(id)
	if err != nil {
		return false, err
	}
	if p == nil {
		return false, nil
	}

	s.deleteBlobs(ctx, collectRefs(p))

	// hard delete so the slug returns to the pool immediately
	if err := s.db.WithContext(ctx).Unscoped().Delete(&models.ProjectModel{}, "id = ?", id).Error; err != nil {
		return false, apperr.Store(err)
	}
	return true, nil
}

func (s *Service) resolveSlug(explicit, title, excludeID string) (string, error) {
	base := strings.TrimSpace(explicit)
	if base == "" {
		base = title
	}
	return slug.Generate(base, slugFallback, func(candidate string) (bool, error) {
		tx := s.db.Model(&models.ProjectModel{}).Where("slug = ?", candidate)
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
		s.logger.Warn("project blob cleanup incomplete",
			zap.Int("count", len(urls)),
			zap.Error(err),
		)
	}
}

func collectRefs(p *models.ProjectModel) []string {
	refs := make([]string, 0, len(p.Images)+len(p.Documents)+1)
	if p.HeroImage != nil && *p.HeroImage != "" {
		refs = append(refs, *p.HeroImage)
	}
	refs = append(refs, p.Images...)
	refs = append(refs, p.Documents...)
	return fileset.Dedupe(refs)
}

func nilIfEmpty(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
