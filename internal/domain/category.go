package domain

type Category struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
}

type Subcategory struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	CategoryID int    `json:"categoryId"`
	Slug       string `json:"slug,omitempty"`
}

type CategoryWithSubcategories struct {
	Category
	Subcategories []Subcategory `json:"subcategories"`
}
