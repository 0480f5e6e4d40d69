package model

// Category groups menu items on the menu.
type Category struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Items       []MenuItem `json:"items,omitempty"`
}

// MenuItem is one orderable item from the catalogue.
type MenuItem struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	Price        Decimal `json:"price"`
	Available    bool    `json:"available"`
	Image        string  `json:"image,omitempty"`
	CategoryID   int64   `json:"category"`
	CategoryName string  `json:"category_name,omitempty"`
}
