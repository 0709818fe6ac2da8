package models

// Aggregate is the result of summing a row or column.
type Aggregate struct {
	// Sum is the total of every numeric cell.
	Sum float64 `json:"sum"`
	// Numeric counts the cells that contributed to Sum.
	Numeric int `json:"numeric_cells"`
	// Excluded counts non-missing cells that were not numeric.
	Excluded int `json:"excluded_cells"`
}
