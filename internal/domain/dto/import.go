package dto

// ImportResult reports a spreadsheet import. Errors are ordered by row.
type ImportResult struct {
	Created int      `json:"created"`
	Errors  []string `json:"errors"`
}

// Partial reports whether some rows were created and some failed.
func (r ImportResult) Partial() bool {
	return r.Created > 0 && len(r.Errors) > 0
}
