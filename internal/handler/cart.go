package handler

import (
	"net/http"

	"metamarket-api/internal/model"
	"metamarket-api/internal/service"
	"metamarket-api/pkg/apierror"
	"metamarket-api/pkg/response"

	"github.com/go-chi/chi/v5"
)

// CartHandler handles shopping cart HTTP requests.
type CartHandler struct {
	sessions Sessions
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(sessions Sessions) *CartHandler {
	return &CartHandler{sessions: sessions}
}

// CartResponse is the cart state with its derived totals.
type CartResponse struct {
	model.CartState
	TotalItems int     `json:"totalItems"`
	TotalPrice float64 `json:"totalPrice"`
}

// QuantityRequest is the body of PUT /cart/items/{id}.
type QuantityRequest struct {
	Quantity *int `json:"quantity"`
}

func writeCart(w http.ResponseWriter, cart *service.CartStore) {
	response.OK(w, CartResponse{
		CartState:  cart.State(),
		TotalItems: cart.TotalItems(),
		TotalPrice: cart.TotalPrice(),
	})
}

// cartAction resolves the session, lets fn change the cart and writes the
// resulting state.
func (h *CartHandler) cartAction(w http.ResponseWriter, r *http.Request, fn func(cart *service.CartStore) error) {
	session, err := sessionFor(h.sessions, r)
	if err != nil {
		response.Error(w, err)
		return
	}
	if fn != nil {
		if err := fn(session.Cart); err != nil {
			response.Error(w, err)
			return
		}
	}
	writeCart(w, session.Cart)
}

// Get handles GET /api/v1/cart
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.cartAction(w, r, nil)
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	h.cartAction(w, r, func(cart *service.CartStore) error {
		var item model.CartItem
		if err := response.Decode(r, &item); err != nil {
			return err
		}

		var details []apierror.FieldError
		if item.ID == "" {
			details = append(details, apierror.FieldError{Field: "id", Message: "is required"})
		}
		if item.Price < 0 {
			details = append(details, apierror.FieldError{Field: "price", Message: "must not be negative"})
		}
		if len(details) > 0 {
			return apierror.ValidationError("invalid cart item", details...)
		}

		cart.AddItem(item)
		return nil
	})
}

// UpdateQuantity handles PUT /api/v1/cart/items/{id}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	h.cartAction(w, r, func(cart *service.CartStore) error {
		var req QuantityRequest
		if err := response.Decode(r, &req); err != nil {
			return err
		}
		if req.Quantity == nil {
			return apierror.ValidationError("invalid quantity",
				apierror.FieldError{Field: "quantity", Message: "is required"})
		}

		cart.UpdateQuantity(chi.URLParam(r, "id"), *req.Quantity)
		return nil
	})
}

// RemoveItem handles DELETE /api/v1/cart/items/{id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	h.cartAction(w, r, func(cart *service.CartStore) error {
		cart.RemoveItem(chi.URLParam(r, "id"))
		return nil
	})
}

// Clear handles DELETE /api/v1/cart
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.cartAction(w, r, func(cart *service.CartStore) error {
		cart.ClearCart()
		return nil
	})
}

// Toggle handles POST /api/v1/cart/toggle
func (h *CartHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	h.cartAction(w, r, func(cart *service.CartStore) error {
		cart.ToggleCart()
		return nil
	})
}

// Close handles POST /api/v1/cart/close
func (h *CartHandler) Close(w http.ResponseWriter, r *http.Request) {
	h.cartAction(w, r, func(cart *service.CartStore) error {
		cart.CloseCart()
		return nil
	})
}
