package application

import (
	"context"

	"github.com/google/uuid"

	"github.com/hobbyforge/storefront/internal/domain"
	"github.com/hobbyforge/storefront/internal/ports"
)

// AddItem puts quantity units of product into the cart. Without an identity
// the intent is parked on the pending-action bridge and the user is sent to
// sign in; nothing is persisted and nothing in memory changes. When a line
// for the product already exists the quantities accumulate through
// UpdateQuantity rather than overwriting.
func (e *Engine) AddItem(ctx context.Context, product domain.Product, quantity int) error {
	if err := domain.ValidateQuantity(quantity); err != nil {
		return err
	}

	identity, present := e.identity.Current()
	if !present {
		if err := e.bridge.Set(ctx, domain.PendingCartAction{
			Kind:      domain.PendingActionAdd,
			ProductID: product.ProductID,
			Quantity:  quantity,
		}); err != nil {
			e.logger.WarnContext(ctx, "pending cart action not recorded", "module", "cart.engine", "error", err)
		}
		e.notifier.Notify(ctx, ports.Notice{
			Severity:    ports.SeverityNormal,
			Title:       "Sign in required",
			Description: "Sign in or create an account to add items to cart.",
		})
		e.navigator.RedirectToSignIn(ctx)
		return nil
	}

	// Read of the existing quantity happens before the gateway write of
	// either concurrent AddItem; the second to read wins the line.
	e.mu.Lock()
	existing, exists := e.lines[product.ProductID]
	e.mu.Unlock()

	if exists {
		if err := e.UpdateQuantity(ctx, product.ProductID, existing.Quantity+quantity); err != nil {
			return err
		}
	} else {
		if err := e.carts.InsertLine(ctx, identity, product.ProductID, quantity); err != nil {
			e.notifier.Notify(ctx, ports.Notice{
				Severity:    ports.SeverityDestructive,
				Title:       "Error",
				Description: "Failed to add item",
			})
			return err
		}
		e.mu.Lock()
		e.lines[product.ProductID] = domain.CartLine{
			ProductID: product.ProductID,
			Quantity:  quantity,
			Product:   product,
		}
		e.mu.Unlock()
		e.publish()
	}

	e.notifier.Notify(ctx, ports.Notice{
		Severity:    ports.SeverityNormal,
		Title:       "Added to cart",
		Description: product.Name + " added to cart",
	})
	return nil
}

// RemoveItem deletes the persisted row for productID, then drops the
// in-memory line. Without an identity it is a silent no-op.
func (e *Engine) RemoveItem(ctx context.Context, productID uuid.UUID) error {
	identity, present := e.identity.Current()
	if !present {
		return nil
	}
	if err := e.carts.DeleteLine(ctx, identity, productID); err != nil {
		e.notifier.Notify(ctx, ports.Notice{
			Severity:    ports.SeverityDestructive,
			Title:       "Error",
			Description: "Failed to remove item",
		})
		return err
	}
	e.mu.Lock()
	delete(e.lines, productID)
	e.mu.Unlock()
	e.publish()
	e.notifier.Notify(ctx, ports.Notice{
		Severity:    ports.SeverityNormal,
		Title:       "Removed from cart",
		Description: "Item removed",
	})
	return nil
}

// UpdateQuantity sets the line's quantity. Anything below one is a removal,
// never an error: quantity underflow delegates to RemoveItem.
func (e *Engine) UpdateQuantity(ctx context.Context, productID uuid.UUID, quantity int) error {
	if quantity < 1 {
		return e.RemoveItem(ctx, productID)
	}
	identity, present := e.identity.Current()
	if !present {
		return nil
	}
	if err := e.carts.UpdateLineQuantity(ctx, identity, productID, quantity); err != nil {
		e.notifier.Notify(ctx, ports.Notice{
			Severity:    ports.SeverityDestructive,
			Title:       "Error",
			Description: "Failed to update quantity",
		})
		return err
	}
	e.mu.Lock()
	if line, ok := e.lines[productID]; ok {
		line.Quantity = quantity
		e.lines[productID] = line
	}
	e.mu.Unlock()
	e.publish()
	return nil
}

// ClearCart deletes every persisted row for the identity in one bulk call,
// then empties the in-memory cart. Without an identity it is a silent no-op.
func (e *Engine) ClearCart(ctx context.Context) error {
	identity, present := e.identity.Current()
	if !present {
		return nil
	}
	if err := e.carts.DeleteAllLines(ctx, identity); err != nil {
		e.notifier.Notify(ctx, ports.Notice{
			Severity:    ports.SeverityDestructive,
			Title:       "Error",
			Description: "Failed to clear cart",
		})
		return err
	}
	e.mu.Lock()
	e.lines = make(map[uuid.UUID]domain.CartLine)
	e.mu.Unlock()
	e.publish()
	return nil
}
