package pagination

// NextOffset returns the offset of the following page and whether such a page exists.
//
// Examples:
//   - Offset 0, Limit 10, Total 100 -> 10, true
//   - Offset 90, Limit 10, Total 100 -> 0, false
func NextOffset(offset, limit int, total int64) (int, bool) {
	next := offset + limit
	if int64(next) >= total {
		return 0, false
	}
	return next, true
}

// PreviousOffset returns the offset of the preceding page and whether such a page exists.
// The result is clamped at 0.
//
// Examples:
//   - Offset 0, Limit 10 -> 0, false
//   - Offset 5, Limit 10 -> 0, true
//   - Offset 30, Limit 10 -> 20, true
func PreviousOffset(offset, limit int) (int, bool) {
	if offset <= 0 {
		return 0, false
	}
	return max(0, offset-limit), true
}
