package service

import (
	"sync"

	"metamarket-api/internal/model"
)

// CartActionType names a cart reducer action.
type CartActionType string

const (
	ActionAddItem        CartActionType = "ADD_ITEM"
	ActionRemoveItem     CartActionType = "REMOVE_ITEM"
	ActionUpdateQuantity CartActionType = "UPDATE_QUANTITY"
	ActionClearCart      CartActionType = "CLEAR_CART"
	ActionToggleCart     CartActionType = "TOGGLE_CART"
	ActionCloseCart      CartActionType = "CLOSE_CART"
)

// CartAction is dispatched to ReduceCart. Item is used by ADD_ITEM, ID by
// REMOVE_ITEM and UPDATE_QUANTITY, Quantity by UPDATE_QUANTITY.
type CartAction struct {
	Type     CartActionType
	Item     model.CartItem
	ID       string
	Quantity int
}

// ReduceCart returns the state that results from applying action to state.
// state is not modified. Unknown actions return state unchanged.
func ReduceCart(state model.CartState, action CartAction) model.CartState {
	switch action.Type {
	case ActionAddItem:
		items := cloneItems(state.Items)
		for i := range items {
			if items[i].ID == action.Item.ID {
				// repeat adds count by one whatever the payload quantity
				items[i].Quantity++
				return model.CartState{Items: items, IsOpen: state.IsOpen}
			}
		}
		item := action.Item
		item.Quantity = 1
		return model.CartState{Items: append(items, item), IsOpen: state.IsOpen}

	case ActionRemoveItem:
		return model.CartState{Items: withoutItem(state.Items, action.ID), IsOpen: state.IsOpen}

	case ActionUpdateQuantity:
		if action.Quantity <= 0 {
			return model.CartState{Items: withoutItem(state.Items, action.ID), IsOpen: state.IsOpen}
		}
		items := cloneItems(state.Items)
		for i := range items {
			if items[i].ID == action.ID {
				items[i].Quantity = action.Quantity
			}
		}
		return model.CartState{Items: items, IsOpen: state.IsOpen}

	case ActionClearCart:
		return model.CartState{Items: []model.CartItem{}, IsOpen: state.IsOpen}

	case ActionToggleCart:
		return model.CartState{Items: cloneItems(state.Items), IsOpen: !state.IsOpen}

	case ActionCloseCart:
		return model.CartState{Items: cloneItems(state.Items), IsOpen: false}

	default:
		return state
	}
}

func cloneItems(items []model.CartItem) []model.CartItem {
	out := make([]model.CartItem, len(items))
	copy(out, items)
	return out
}

func withoutItem(items []model.CartItem, id string) []model.CartItem {
	out := make([]model.CartItem, 0, len(items))
	for _, item := range items {
		if item.ID != id {
			out = append(out, item)
		}
	}
	return out
}

// CartStore is a profile's shopping cart. It lives in memory only.
type CartStore struct {
	mu    sync.Mutex
	state model.CartState
}

// NewCartStore returns an empty, closed cart.
func NewCartStore() *CartStore {
	return &CartStore{state: model.CartState{Items: []model.CartItem{}}}
}

// Dispatch applies action and returns the new state.
func (c *CartStore) Dispatch(action CartAction) model.CartState {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = ReduceCart(c.state, action)
	return c.copyState()
}

func (c *CartStore) AddItem(item model.CartItem) model.CartState {
	return c.Dispatch(CartAction{Type: ActionAddItem, Item: item})
}

func (c *CartStore) RemoveItem(id string) model.CartState {
	return c.Dispatch(CartAction{Type: ActionRemoveItem, ID: id})
}

// UpdateQuantity sets the quantity of id; zero or less removes the line.
func (c *CartStore) UpdateQuantity(id string, quantity int) model.CartState {
	if quantity <= 0 {
		return c.RemoveItem(id)
	}
	return c.Dispatch(CartAction{Type: ActionUpdateQuantity, ID: id, Quantity: quantity})
}

func (c *CartStore) ClearCart() model.CartState {
	return c.Dispatch(CartAction{Type: ActionClearCart})
}

func (c *CartStore) ToggleCart() model.CartState {
	return c.Dispatch(CartAction{Type: ActionToggleCart})
}

func (c *CartStore) CloseCart() model.CartState {
	return c.Dispatch(CartAction{Type: ActionCloseCart})
}

// State returns a copy of the current cart.
func (c *CartStore) State() model.CartState {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.copyState()
}

// TotalItems sums the quantities of all lines.
func (c *CartStore) TotalItems() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := 0
	for _, item := range c.state.Items {
		total += item.Quantity
	}
	return total
}

// TotalPrice sums price times quantity over all lines.
func (c *CartStore) TotalPrice() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := 0.0
	for _, item := range c.state.Items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// Reset empties and closes the cart.
func (c *CartStore) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = model.CartState{Items: []model.CartItem{}}
}

func (c *CartStore) copyState() model.CartState {
	return model.CartState{Items: cloneItems(c.state.Items), IsOpen: c.state.IsOpen}
}
