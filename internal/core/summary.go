package core

// CategoryTotal is an amount aggregated over one category.
type CategoryTotal struct {
	Category Category `json:"category"`
	Total    Money    `json:"total"`
}

// MonthTotal is an amount aggregated over one calendar month.
// Label is the display bucket ("Jan 2026"); Year and Month keep the
// series sortable without reparsing the label.
type MonthTotal struct {
	Label string `json:"label"`
	Year  int    `json:"year"`
	Month int    `json:"month"` // 1-12
	Total Money  `json:"total"`
}
