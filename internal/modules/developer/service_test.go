package developer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/re-admin/core/internal/database"
	"github.com/re-admin/core/internal/models"
	"github.com/re-admin/core/internal/pkg/apperr"
	"github.com/re-admin/core/internal/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeBlobStore struct {
	mu         sync.Mutex
	deleted    []string
	failDelete bool
}

func (f *fakeBlobStore) Put(_ context.Context, folder, filename, _ string, _ []byte) (string, error) {
	return fmt.Sprintf("https://blobs.test/%s/%s", folder, filename), nil
}

func (f *fakeBlobStore) DeleteMany(_ context.Context, urls []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, urls...)
	if f.failDelete {
		return errors.New("bucket unavailable")
	}
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeBlobStore, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	blobs := &fakeBlobStore{}
	return NewService(db, blobs, zap.NewNop()), blobs, db
}

func mustCreate(t *testing.T, svc *Service, in CreateInput) *models.DeveloperModel {
	t.Helper()
	res, err := svc.Create(context.Background(), &in)
	require.NoError(t, err)
	require.Empty(t, res.Warnings)
	return res.Developer
}

func strptr(s string) *string { return &s }

func cityNames(d *models.DeveloperModel) []string {
	out := make([]string, 0, len(d.Cities))
	for _, link := range d.Cities {
		out = append(out, link.City)
	}
	return out
}

func TestCreateResolvesSlugFromName(t *testing.T) {
	svc, _, _ := newTestService(t)

	first := mustCreate(t, svc, CreateInput{Name: "Emaar Properties"})
	second := mustCreate(t, svc, CreateInput{Name: "Emaar Properties"})

	assert.Equal(t, "emaar-properties", first.Slug)
	assert.Equal(t, "emaar-properties-1", second.Slug)
}

func TestCreateRetriesWhenSlugRaceIsLost(t *testing.T) {
	svc, _, db := newTestService(t)

	// a rival row claims the resolved slug just before the insert; the
	// duplicate-key translation must trigger one re-resolve
	stolen := false
	err := db.Callback().Create().Before("gorm:begin_transaction").Register("steal_slug", func(tx *gorm.DB) {
		if stolen {
			return
		}
		stolen = true
		tx.Session(&gorm.Session{NewDB: true}).Exec(
			"INSERT INTO developers (id, name, slug, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
			"rival-id", "Rival", "emaar-properties", time.Now(), time.Now(),
		)
	})
	require.NoError(t, err)

	res, err := svc.Create(context.Background(), &CreateInput{Name: "Emaar Properties"})
	require.NoError(t, err)
	assert.Equal(t, "emaar-properties-1", res.Developer.Slug)
	assert.NotEqual(t, "rival-id", res.Developer.ID)
}

func TestCreateRequiresName(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Create(context.Background(), &CreateInput{Name: ""})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCreateLinksCities(t *testing.T) {
	svc, _, _ := newTestService(t)

	d := mustCreate(t, svc, CreateInput{
		Name:   "Emaar Properties",
		Cities: []string{"Dubai", "Abu Dhabi", "Dubai"},
	})
	assert.Equal(t, []string{"Dubai", "Abu Dhabi"}, cityNames(d))

	stored, err := svc.GetByID(d.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.ElementsMatch(t, []string{"Dubai", "Abu Dhabi"}, cityNames(stored))
}

func TestCreateCityLinkFailureIsAWarning(t *testing.T) {
	svc, _, db := newTestService(t)
	require.NoError(t, db.Migrator().DropTable(&models.DeveloperCityModel{}))

	res, err := svc.Create(context.Background(), &CreateInput{
		Name:   "Emaar Properties",
		Cities: []string{"Dubai"},
	})
	require.NoError(t, err)
	require.NotNil(t, res.Developer)
	assert.NotEmpty(t, res.Warnings)

	// the primary row survived the phase-2 failure
	var n int64
	require.NoError(t, db.Model(&models.DeveloperModel{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestListFiltersByNameAndCity(t *testing.T) {
	svc, _, _ := newTestService(t)

	mustCreate(t, svc, CreateInput{Name: "Emaar Properties", Cities: []string{"Dubai"}})
	mustCreate(t, svc, CreateInput{Name: "Nakheel", Cities: []string{"Dubai", "Sharjah"}})
	mustCreate(t, svc, CreateInput{Name: "Aldar", Cities: []string{"Abu Dhabi"}})

	items, pag, err := svc.List(pagination.Query{Page: 1, Limit: 20}, "emaar", "")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Emaar Properties", items[0].Name)
	assert.Equal(t, int64(1), pag.Total)

	items, pag, err = svc.List(pagination.Query{Page: 1, Limit: 20}, "", "Dubai")
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, int64(2), pag.Total)

	items, _, err = svc.List(pagination.Query{Page: 1, Limit: 20}, "", "Lisbon")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestUpdateSparsePatch(t *testing.T) {
	svc, _, _ := newTestService(t)
	d := mustCreate(t, svc, CreateInput{Name: "Emaar Properties", Email: strptr("old@emaar.com")})

	res, err := svc.Update(context.Background(), d.ID, &UpdateInput{
		Phone: strptr("+971-4-000000"),
	})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "Emaar Properties", res.Developer.Name)
	assert.Equal(t, "emaar-properties", res.Developer.Slug)
	require.NotNil(t, res.Developer.Email)
	assert.Equal(t, "old@emaar.com", *res.Developer.Email)
	require.NotNil(t, res.Developer.Phone)
	assert.Equal(t, "+971-4-000000", *res.Developer.Phone)
}

func TestUpdateMissingReturnsNil(t *testing.T) {
	svc, _, _ := newTestService(t)

	res, err := svc.Update(context.Background(), "no-such-id", &UpdateInput{Name: strptr("x")})
	assert.NoError(t, err)
	assert.Nil(t, res)
}

func TestUpdateReplacesCities(t *testing.T) {
	svc, _, _ := newTestService(t)
	d := mustCreate(t, svc, CreateInput{Name: "Emaar Properties", Cities: []string{"Dubai", "Sharjah"}})

	cities := []string{"Abu Dhabi"}
	res, err := svc.Update(context.Background(), d.ID, &UpdateInput{Cities: &cities})
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, []string{"Abu Dhabi"}, cityNames(res.Developer))

	stored, err := svc.GetByID(d.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Abu Dhabi"}, cityNames(stored))
}

func TestUpdateLogoRemoveWinsOverReplacement(t *testing.T) {
	svc, blobs, _ := newTestService(t)
	d := mustCreate(t, svc, CreateInput{Name: "Emaar Properties", LogoURL: strptr("old-logo.png")})

	res, err := svc.Update(context.Background(), d.ID, &UpdateInput{
		ReplaceLogoURL: strptr("new-logo.png"),
		RemoveLogo:     true,
	})
	require.NoError(t, err)
	assert.Nil(t, res.Developer.LogoURL)
	assert.ElementsMatch(t, []string{"old-logo.png", "new-logo.png"}, blobs.deleted)
}

func TestUpdateLogoReplacementDeletesOldBlob(t *testing.T) {
	svc, blobs, _ := newTestService(t)
	d := mustCreate(t, svc, CreateInput{Name: "Emaar Properties", LogoURL: strptr("old-logo.png")})

	res, err := svc.Update(context.Background(), d.ID, &UpdateInput{
		ReplaceLogoURL: strptr("new-logo.png"),
	})
	require.NoError(t, err)
	require.NotNil(t, res.Developer.LogoURL)
	assert.Equal(t, "new-logo.png", *res.Developer.LogoURL)
	assert.Equal(t, []string{"old-logo.png"}, blobs.deleted)
}

func TestSetStatusAndToggle(t *testing.T) {
	svc, _, _ := newTestService(t)
	d := mustCreate(t, svc, CreateInput{Name: "Emaar Properties", Active: true})

	updated, err := svc.SetStatus(context.Background(), d.ID, false)
	require.NoError(t, err)
	assert.False(t, updated.Active)

	updated, err = svc.ToggleStatus(context.Background(), d.ID)
	require.NoError(t, err)
	assert.True(t, updated.Active)
}

func TestDeleteCleansLogoAndLinks(t *testing.T) {
	svc, blobs, db := newTestService(t)
	d := mustCreate(t, svc, CreateInput{
		Name:    "Emaar Properties",
		LogoURL: strptr("logo.png"),
		Cities:  []string{"Dubai"},
	})

	found, err := svc.Delete(context.Background(), d.ID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"logo.png"}, blobs.deleted)

	gone, err := svc.GetByID(d.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	var links int64
	require.NoError(t, db.Model(&models.DeveloperCityModel{}).Count(&links).Error)
	assert.Zero(t, links)
}

func TestDeleteMissingReturnsFalse(t *testing.T) {
	svc, _, _ := newTestService(t)

	found, err := svc.Delete(context.Background(), "no-such-id")
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestCount(t *testing.T) {
	svc, _, _ := newTestService(t)
	mustCreate(t, svc, CreateInput{Name: "One"})
	mustCreate(t, svc, CreateInput{Name: "Two"})

	n, err := svc.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
