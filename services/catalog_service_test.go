package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"event-marketplace-server/apperrors"
	"event-marketplace-server/database"
	"event-marketplace-server/models"
	"event-marketplace-server/testutil"
)

func TestSearchFilters(t *testing.T) {
	testutil.SetupDB(t)

	caterer := createVendor(t, "caterer@test.local", "Maison Gourmet")
	photographer := createVendor(t, "photo@test.local", "Lens & Light")
	photographer.Category = models.CategoryPhotography
	photographer.City = "Lyon"
	require.NoError(t, database.DB.Save(photographer).Error)

	createListing(t, caterer, "Seated dinner menu", 85)
	createListing(t, caterer, "Cocktail buffet", 45)
	shoot := createListing(t, photographer, "Full-day photography", 1200)
	shoot.Category = models.CategoryPhotography
	shoot.City = "Lyon"
	require.NoError(t, database.DB.Save(shoot).Error)

	svc := NewCatalogService()

	results, total, err := svc.Search(models.ListingFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, results, 3)

	results, total, err = svc.Search(models.ListingFilter{Category: "photography"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Full-day photography", results[0].Title)

	results, _, err = svc.Search(models.ListingFilter{City: "Lyon"})
	require.NoError(t, err)
	assert.Len(t, results, 1)

	results, _, err = svc.Search(models.ListingFilter{Keyword: "buffet"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Cocktail buffet", results[0].Title)

	min := 50.0
	max := 1000.0
	results, _, err = svc.Search(models.ListingFilter{PriceMin: &min, PriceMax: &max})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Seated dinner menu", results[0].Title)
}

func TestSearchExcludesInactive(t *testing.T) {
	testutil.SetupDB(t)

	vendor := createVendor(t, "vendor@test.local", "Maison Gourmet")
	createListing(t, vendor, "Seated dinner", 85)
	retired := createListing(t, vendor, "Old menu", 50)
	require.NoError(t, database.DB.Model(retired).Update("is_active", false).Error)

	_, total, err := NewCatalogService().Search(models.ListingFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestSearchPagination(t *testing.T) {
	testutil.SetupDB(t)

	vendor := createVendor(t, "vendor@test.local", "Maison Gourmet")
	for i := 0; i < 25; i++ {
		createListing(t, vendor, "Menu option", 10)
	}

	svc := NewCatalogService()

	page1, total, err := svc.Search(models.ListingFilter{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(25), total)
	assert.Len(t, page1, 10)

	page3, _, err := svc.Search(models.ListingFilter{Page: 3, PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, page3, 5)
}

func TestFindListing(t *testing.T) {
	testutil.SetupDB(t)

	vendor := createVendor(t, "vendor@test.local", "Maison Gourmet")
	listing := createListing(t, vendor, "Seated dinner", 85)

	svc := NewCatalogService()

	found, err := svc.FindListing(listing.ID)
	require.NoError(t, err)
	assert.Equal(t, "Maison Gourmet", found.Vendor.CompanyName)

	_, err = svc.FindListing(9999)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))

	// Inactive listings look like misses to buyers
	require.NoError(t, database.DB.Model(listing).Update("is_active", false).Error)
	_, err = svc.FindListing(listing.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}
