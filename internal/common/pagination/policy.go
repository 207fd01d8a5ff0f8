package pagination

// Decide applies the auto-pagination policy.
//
//   - limit set: the caller's limit is used as-is.
//   - limit nil and total > cfg.AutoThreshold: the query is capped at the threshold
//     and the page is marked auto-paginated.
//   - otherwise every row is returned and the reported limit equals total.
func Decide(total int64, limit *int, offset int, cfg Config) Page {
	p := Page{Total: total, Offset: offset}
	switch {
	case limit != nil:
		l := *limit
		p.Limit = l
		p.QueryLimit = &l
	case total > int64(cfg.AutoThreshold):
		l := cfg.AutoThreshold
		p.Limit = l
		p.QueryLimit = &l
		p.AutoPaginated = true
	default:
		p.Limit = int(total)
	}
	return p
}
