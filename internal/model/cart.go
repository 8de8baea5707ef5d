package model

// CartItem is one line of the shopping cart.
type CartItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Seller   string  `json:"seller"`
	Quantity int     `json:"quantity"`
}

// CartState is the full cart: its lines and whether the cart drawer is open.
type CartState struct {
	Items  []CartItem `json:"items"`
	IsOpen bool       `json:"isOpen"`
}
