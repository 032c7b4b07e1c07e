package services

import (
	"strings"

	"event-marketplace-server/apperrors"
	"event-marketplace-server/database"
	"event-marketplace-server/models"
)

// CatalogService is the read-only listing lookup consumed by the cart and
// checkout paths. Only active, non-deleted listings resolve.
type CatalogService struct{}

// NewCatalogService creates a new catalog service
func NewCatalogService() *CatalogService {
	return &CatalogService{}
}

// FindListing resolves a single active listing with its vendor
func (s *CatalogService) FindListing(id uint) (*models.ServiceListing, error) {
	var listing models.ServiceListing
	err := database.DB.Preload("Vendor").
		Where("id = ? AND is_active = ?", id, true).
		First(&listing).Error
	if err != nil {
		return nil, apperrors.NotFound("listing")
	}
	return &listing, nil
}

// Search returns active listings matching the filter, newest first, featured
// listings ahead of the rest
func (s *CatalogService) Search(filter models.ListingFilter) ([]models.ServiceListing, int64, error) {
	query := database.DB.Model(&models.ServiceListing{}).
		Preload("Vendor").
		Where("is_active = ?", true)

	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		pattern := "%" + strings.ToLower(keyword) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.City != "" {
		query = query.Where("LOWER(city) = ?", strings.ToLower(filter.City))
	}
	if filter.PriceMin != nil {
		query = query.Where("price >= ?", *filter.PriceMin)
	}
	if filter.PriceMax != nil {
		query = query.Where("price <= ?", *filter.PriceMax)
	}
	if filter.Featured {
		query = query.Where("is_featured = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Internal("failed to count listings", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var listings []models.ServiceListing
	err := query.Order("is_featured DESC, created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&listings).Error
	if err != nil {
		return nil, 0, apperrors.Internal("failed to search listings", err)
	}

	return listings, total, nil
}
