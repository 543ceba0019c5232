package services

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/terraza-app/terraza-kiosk/config"
	"github.com/terraza-app/terraza-kiosk/models"
)

// CartServiceInterface owns the local, not-yet-submitted cart. All
// mutations go through it; the checkout service reads from it and the
// facade clears it after a successful submission.
type CartServiceInterface interface {
	Cart() models.Cart
	AddLine(product models.Product, quantity int, note string)
	SetQuantity(productID, quantity int)
	SetNote(productID int, note string)
	Remove(productID int)
	Clear()
}

// CartService implements CartServiceInterface, persisting the cart with a
// timestamp on every change. A persisted cart older than the expiry window
// is discarded at startup instead of restored.
type CartService struct {
	mu     sync.RWMutex
	cart   models.Cart
	expiry time.Duration
}

var cartServiceInstance CartServiceInterface

// InitCartService initializes the cart service, restoring a persisted cart
// when one exists and is younger than the expiry window. A stale row is
// deleted.
func InitCartService(cfg *config.Config) CartServiceInterface {
	service := &CartService{expiry: cfg.CartExpiry}
	service.restore()
	cartServiceInstance = service
	return service
}

// GetCartService returns the initialized cart service instance
func GetCartService() CartServiceInterface {
	return cartServiceInstance
}

// SetCartService sets the cart service instance (primarily for testing)
func SetCartService(service CartServiceInterface) {
	cartServiceInstance = service
}

// Cart returns a copy of the current cart.
func (s *CartService) Cart() models.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	copied := s.cart
	copied.Lines = append([]models.CartLine(nil), s.cart.Lines...)
	return copied
}

// AddLine adds a product to the cart, merging into an existing line for
// the same product. Line order is cart insertion order.
func (s *CartService) AddLine(product models.Product, quantity int, note string) {
	if quantity <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if line := s.cart.LineFor(product.ID); line != nil {
		line.Cantidad += quantity
		if note != "" {
			line.Nota = note
		}
	} else {
		s.cart.Lines = append(s.cart.Lines, models.CartLine{
			Product:  product,
			Cantidad: quantity,
			Nota:     note,
		})
	}
	s.persistLocked()
}

// SetQuantity sets the quantity of a product's line. A quantity of zero or
// less removes the line.
func (s *CartService) SetQuantity(productID, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if quantity <= 0 {
		s.removeLocked(productID)
		s.persistLocked()
		return
	}
	if line := s.cart.LineFor(productID); line != nil {
		line.Cantidad = quantity
		s.persistLocked()
	}
}

// SetNote sets the kitchen note on a product's line.
func (s *CartService) SetNote(productID int, note string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if line := s.cart.LineFor(productID); line != nil {
		line.Nota = note
		s.persistLocked()
	}
}

// Remove drops a product's line from the cart.
func (s *CartService) Remove(productID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(productID)
	s.persistLocked()
}

// Clear empties the cart and removes its persisted row. Called by the
// facade only after a submission fully succeeds, and on logout.
func (s *CartService) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = models.Cart{}
	if db := config.GetStore(); db != nil {
		if err := db.Where("1 = 1").Delete(&models.CartRecord{}).Error; err != nil {
			log.Printf("Failed to remove persisted cart: %v", err)
		}
	}
}

func (s *CartService) removeLocked(productID int) {
	for i := range s.cart.Lines {
		if s.cart.Lines[i].Product.ID == productID {
			s.cart.Lines = append(s.cart.Lines[:i], s.cart.Lines[i+1:]...)
			return
		}
	}
}

// restore loads the persisted cart at startup, discarding it when it was
// saved longer than the expiry window ago.
func (s *CartService) restore() {
	db := config.GetStore()
	if db == nil {
		return
	}

	var record models.CartRecord
	if err := db.First(&record).Error; err != nil {
		return
	}

	if time.Since(record.SavedAt) > s.expiry {
		log.Println("Persisted cart expired, discarding")
		db.Delete(&record)
		return
	}

	var cart models.Cart
	if err := json.Unmarshal([]byte(record.Payload), &cart); err != nil {
		log.Printf("Discarding unreadable persisted cart: %v", err)
		db.Delete(&record)
		return
	}
	s.cart = cart
}

// persistLocked writes the cart and a fresh timestamp to the local store.
// Caller holds the mutex. An empty cart removes the row instead.
func (s *CartService) persistLocked() {
	db := config.GetStore()
	if db == nil {
		return
	}

	if s.cart.IsEmpty() {
		if err := db.Where("1 = 1").Delete(&models.CartRecord{}).Error; err != nil {
			log.Printf("Failed to remove persisted cart: %v", err)
		}
		return
	}

	now := time.Now()
	s.cart.SavedAt = now
	payload, err := json.Marshal(s.cart)
	if err != nil {
		log.Printf("Failed to encode cart: %v", err)
		return
	}

	var record models.CartRecord
	if err := db.First(&record).Error; err != nil {
		record = models.CartRecord{}
	}
	record.Payload = string(payload)
	record.SavedAt = now
	if err := db.Save(&record).Error; err != nil {
		log.Printf("Failed to persist cart: %v", err)
	}
}
