package dto

// CategoryRequest payload for creating or updating a category.
type CategoryRequest struct {
	Type  *string `json:"type"`
	Color *string `json:"color"`
}

// DeleteCategoriesRequest names the category types to delete.
type DeleteCategoriesRequest struct {
	Types *[]string `json:"types"`
}

// CategoryResponse is the public shape of a category.
type CategoryResponse struct {
	Type  string `json:"type"`
	Color string `json:"color"`
}

// CategoryChangeResponse reports a cascading category edit.
type CategoryChangeResponse struct {
	Message string `json:"message"`
	Count   int64  `json:"count"`
}
