package gallery

type (
	// FilterRequest carries calendar days (YYYY-MM-DD); an empty value leaves
	// that bound open.
	FilterRequest struct {
		StartDate string `json:"start_date"`
		EndDate   string `json:"end_date"`
	}
	PageRequest struct {
		Page int `json:"page"`
	}
	ItemsPerPageRequest struct {
		ItemsPerPage int `json:"items_per_page"`
	}
)
