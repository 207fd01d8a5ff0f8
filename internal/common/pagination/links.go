package pagination

import "net/url"

// Query keys rewritten in navigation links.
const (
	paramAutoPaginated = "auto_paginated"
	paramOffset        = "offset"
	paramLimit         = "limit"
)

// BuildLinks returns the next/previous URLs of an auto-paginated page.
// reqURL must be absolute. Every query key other than offset, limit and
// auto_paginated is kept with all of its values; offset and limit are replaced by
// the values of the target page. Pages that are not auto-paginated get no links.
func BuildLinks(reqURL *url.URL, p Page) Links {
	if !p.AutoPaginated || reqURL == nil {
		return Links{}
	}

	base := reqURL.Query()
	base.Del(paramAutoPaginated)
	base.Del(paramOffset)
	base.Del(paramLimit)

	var links Links
	if next, ok := NextOffset(p.Offset, p.Limit, p.Total); ok {
		s := pageURL(reqURL, base, next, p.Limit)
		links.Next = &s
	}
	if prev, ok := PreviousOffset(p.Offset, p.Limit); ok {
		s := pageURL(reqURL, base, prev, p.Limit)
		links.Previous = &s
	}
	return links
}

func pageURL(reqURL *url.URL, base url.Values, offset, limit int) string {
	q := make(url.Values, len(base)+2)
	for k, v := range base {
		q[k] = append([]string(nil), v...)
	}
	q.Set(paramOffset, itoa(offset))
	q.Set(paramLimit, itoa(limit))

	u := *reqURL
	u.RawQuery = q.Encode()
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}
