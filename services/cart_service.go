package services

import (
	"errors"

	"gorm.io/gorm"

	"event-marketplace-server/apperrors"
	"event-marketplace-server/database"
	"event-marketplace-server/models"
)

// CartService owns the pre-purchase cart of one organizer. The cart is created
// lazily and always priced from the live catalog; it never stores totals.
type CartService struct {
	catalog *CatalogService
}

// NewCartService creates a new cart service
func NewCartService() *CartService {
	return &CartService{catalog: NewCatalogService()}
}

// getOrCreateCart returns the organizer's cart, creating it on first use
func (s *CartService) getOrCreateCart(organizerID uint) (*models.Cart, error) {
	var cart models.Cart
	err := database.DB.Where("organizer_id = ?", organizerID).First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Internal("failed to load cart", err)
	}

	cart = models.Cart{OrganizerID: organizerID}
	if err := database.DB.Create(&cart).Error; err != nil {
		return nil, apperrors.Internal("failed to create cart", err)
	}
	return &cart, nil
}

// AddItem inserts a new cart line for the listing or increments the existing
// one. Quantity defaults to 1.
func (s *CartService) AddItem(organizerID uint, req models.CartItemAdd) (*models.CartItem, error) {
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	listing, err := s.catalog.FindListing(req.ListingID)
	if err != nil {
		return nil, err
	}

	cart, err := s.getOrCreateCart(organizerID)
	if err != nil {
		return nil, err
	}

	var item models.CartItem
	err = database.DB.Where("cart_id = ? AND listing_id = ?", cart.ID, listing.ID).First(&item).Error
	if err == nil {
		item.Quantity += req.Quantity
		if req.SelectedDate != nil {
			item.SelectedDate = req.SelectedDate
		}
		if err := database.DB.Save(&item).Error; err != nil {
			return nil, apperrors.Internal("failed to update cart item", err)
		}
		return &item, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Internal("failed to load cart item", err)
	}

	item = models.CartItem{
		CartID:       cart.ID,
		ListingID:    listing.ID,
		Quantity:     req.Quantity,
		SelectedDate: req.SelectedDate,
	}
	if err := database.DB.Create(&item).Error; err != nil {
		return nil, apperrors.Internal("failed to add cart item", err)
	}
	return &item, nil
}

// UpdateItem changes quantity or date of a cart line owned by the caller
func (s *CartService) UpdateItem(organizerID, itemID uint, req models.CartItemUpdate) (*models.CartItem, error) {
	item, err := s.ownedItem(organizerID, itemID)
	if err != nil {
		return nil, err
	}

	item.Quantity = req.Quantity
	if req.SelectedDate != nil {
		item.SelectedDate = req.SelectedDate
	}
	if err := database.DB.Save(item).Error; err != nil {
		return nil, apperrors.Internal("failed to update cart item", err)
	}
	return item, nil
}

// RemoveItem deletes a cart line owned by the caller
func (s *CartService) RemoveItem(organizerID, itemID uint) error {
	item, err := s.ownedItem(organizerID, itemID)
	if err != nil {
		return err
	}
	if err := database.DB.Delete(item).Error; err != nil {
		return apperrors.Internal("failed to remove cart item", err)
	}
	return nil
}

// ownedItem loads a cart line and checks the owning cart belongs to the
// caller. A foreign item reports Forbidden, which renders the same as a miss
// so existence does not leak.
func (s *CartService) ownedItem(organizerID, itemID uint) (*models.CartItem, error) {
	var item models.CartItem
	if err := database.DB.First(&item, itemID).Error; err != nil {
		return nil, apperrors.NotFound("cart item")
	}

	var cart models.Cart
	if err := database.DB.First(&cart, item.CartID).Error; err != nil {
		return nil, apperrors.NotFound("cart item")
	}
	if cart.OrganizerID != organizerID {
		return nil, apperrors.Forbidden("cart item")
	}
	return &item, nil
}

// GetCart returns the cart lines joined with live listing data plus a derived
// subtotal. Lines whose listing went inactive or was deleted are filtered out
// of the view but their rows stay until explicit removal.
func (s *CartService) GetCart(organizerID uint) (*models.CartView, error) {
	cart, err := s.getOrCreateCart(organizerID)
	if err != nil {
		return nil, err
	}

	var items []models.CartItem
	if err := database.DB.Preload("Listing.Vendor").
		Where("cart_id = ?", cart.ID).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, apperrors.Internal("failed to load cart items", err)
	}

	view := &models.CartView{CartID: cart.ID, Items: []models.CartLineView{}}
	for _, item := range items {
		if item.Listing.ID == 0 || !item.Listing.IsActive {
			// Orphaned line, hidden until the organizer removes it
			continue
		}
		lineTotal := item.Listing.Price * float64(item.Quantity)
		view.Items = append(view.Items, models.CartLineView{
			ItemID:       item.ID,
			ListingID:    item.ListingID,
			Title:        item.Listing.Title,
			VendorName:   item.Listing.Vendor.CompanyName,
			Category:     string(item.Listing.Category),
			ImageURL:     item.Listing.ImageURL,
			UnitPrice:    item.Listing.Price,
			Quantity:     item.Quantity,
			LineTotal:    lineTotal,
			SelectedDate: item.SelectedDate,
		})
		view.Subtotal += lineTotal
	}

	return view, nil
}
