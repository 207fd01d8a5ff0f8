package pagination

// Validate validates pagination parameters.
// Returns an error if:
//   - offset is negative
//   - limit is set and negative
func (p Params) Validate() error {
	if p.Offset < 0 {
		return invalid(paramOffset, "must be greater than or equal to 0")
	}
	if p.Limit != nil && *p.Limit < 0 {
		return invalid(paramLimit, "must be greater than or equal to 0")
	}
	return nil
}
