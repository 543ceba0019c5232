package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/terraza-app/terraza-kiosk/models"
)

// SubmitResult reports what a submission did: which order it resolved to,
// whether that order was created by this submission, and how many add
// calls were issued.
type SubmitResult struct {
	OrderID   int  `json:"order_id"`
	Created   bool `json:"created"`
	LinesSent int  `json:"lines_sent"`
}

// CheckoutServiceInterface reconciles the local cart against the server's
// order for the active table.
type CheckoutServiceInterface interface {
	Submit(ctx context.Context, orderType models.OrderType) (*SubmitResult, error)
	Submitting() bool
}

// CheckoutService implements the cart/order reconciliation. Given the
// locally accumulated cart and the target table, it ensures the server
// order reflects the cart contents exactly once: it creates the order if
// the table has none, sends only positive quantity deltas per product, and
// marks a pre-existing order as updated when it touched it.
//
// The service never clears the cart itself. The caller clears it after the
// whole sequence resolves without error, so a failed submission leaves the
// cart intact for a retry.
type CheckoutService struct {
	submitting atomic.Bool
}

var checkoutServiceInstance CheckoutServiceInterface

// InitCheckoutService initializes the checkout service
func InitCheckoutService() CheckoutServiceInterface {
	checkoutServiceInstance = &CheckoutService{}
	return checkoutServiceInstance
}

// GetCheckoutService returns the initialized checkout service instance
func GetCheckoutService() CheckoutServiceInterface {
	return checkoutServiceInstance
}

// SetCheckoutService sets the checkout service instance (primarily for testing)
func SetCheckoutService(service CheckoutServiceInterface) {
	checkoutServiceInstance = service
}

// Submitting reports whether a submission is in flight.
func (s *CheckoutService) Submitting() bool {
	return s.submitting.Load()
}

// Submit runs the reconciliation. Preconditions are checked before any
// network call; a violation fails fast with a typed validation error.
// Steps run strictly sequentially: order lookup, create-if-absent, one add
// call per positive-delta line in cart order, then the status update for a
// modified pre-existing order.
func (s *CheckoutService) Submit(ctx context.Context, orderType models.OrderType) (*SubmitResult, error) {
	if !s.submitting.CompareAndSwap(false, true) {
		return nil, models.NewAPIError(models.ErrValidation, "a submission is already in flight")
	}
	defer s.submitting.Store(false)

	cart := GetCartService().Cart()
	session := GetSessionService().Current()

	if err := validateSubmission(cart, session, orderType); err != nil {
		return nil, err
	}

	tableID := orderType.ResolveTable(sessionTableID(session))
	orders := GetOrderService()

	existing, err := orders.OrderByTable(ctx, tableID)
	if err != nil {
		return nil, enrich(err)
	}
	// A settled order is done with: the table effectively has none, and
	// the submission opens a fresh one.
	if existing != nil && !existing.Estado.Active() {
		existing = nil
	}

	result := &SubmitResult{}
	if existing != nil {
		result.OrderID = existing.ID
	} else {
		orderID, err := orders.CreateOrder(ctx, session.ClientID, tableID, orderType)
		if err != nil {
			return nil, enrich(err)
		}
		result.OrderID = orderID
		result.Created = true
	}

	for _, line := range cart.Lines {
		var previous *models.OrderLine
		if existing != nil {
			previous = existing.LineFor(line.Product.ID)
		}

		delta := line.Cantidad
		if previous != nil {
			delta = line.Cantidad - previous.Cantidad
		}
		// A line the server already covers is a no-op, never a negative
		// adjustment.
		if delta <= 0 {
			continue
		}

		add := AddLineRequest{
			OrderID:    result.OrderID,
			IDProducto: line.Product.ID,
			Cantidad:   delta,
			Precio:     line.Product.Precio,
			Nota:       line.Nota,
			Nuevo:      previous == nil,
		}
		if err := orders.AddProduct(ctx, add); err != nil {
			return nil, enrich(err)
		}
		result.LinesSent++
	}

	// A pre-existing order that gained lines needs the updated status so
	// staff views pick up the change.
	if !result.Created && result.LinesSent > 0 {
		if err := orders.UpdateStatus(ctx, result.OrderID, models.StatusActualizado); err != nil {
			return nil, enrich(err)
		}
	}

	return result, nil
}

// validateSubmission checks the preconditions that need no network call.
func validateSubmission(cart models.Cart, session *models.Session, orderType models.OrderType) error {
	if cart.IsEmpty() {
		return models.NewAPIError(models.ErrValidation, "cannot submit an empty cart")
	}
	if session == nil {
		return models.NewAPIError(models.ErrValidation, "no active session")
	}
	if !VenueOpen() {
		return models.NewAPIError(models.ErrTableClosed, "the venue is closed")
	}

	switch orderType {
	case models.OrderTypeDineIn:
		if session.TableID <= 0 {
			return models.NewAPIError(models.ErrValidation, "dine-in order needs a table")
		}
		// The latest table snapshot decides whether the table still takes
		// orders. A table the kiosk has never seen polled is let through.
		for _, table := range GetTableService().CachedTables() {
			if table.ID == session.TableID && !table.Orderable() {
				return models.NewAPIError(models.ErrTableClosed,
					fmt.Sprintf("table %d is closed for orders", table.ID))
			}
		}
	case models.OrderTypeDelivery:
		if session.Address() == "" {
			return models.NewAPIError(models.ErrMissingAddress, "delivery order needs a saved address")
		}
	case models.OrderTypeTakeaway:
		// Takeaway needs neither a table nor an address.
	default:
		return models.NewAPIError(models.ErrValidation, fmt.Sprintf("unknown order type %d", orderType))
	}
	return nil
}

func sessionTableID(session *models.Session) int {
	if session == nil {
		return 0
	}
	return session.TableID
}

// enrich guarantees every error leaving the reconciliation carries a
// taxonomy code.
func enrich(err error) error {
	var apiErr *models.APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return &models.APIError{Code: models.ErrUnknown, Message: err.Error()}
}
