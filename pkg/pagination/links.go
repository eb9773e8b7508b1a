package pagination

import (
	"net/url"
	"strconv"
)

// Link labels for the previous, next, and elided page controls.
const (
	LabelPrevious = "« Previous"
	LabelNext     = "Next »"
	LabelEllipsis = "..."
)

// Link describes one rendered pagination control. A Link without a URL is
// inert: either an ellipsis or a disabled previous/next control at a
// boundary page. Active marks the current page.
type Link struct {
	Label  string `json:"label"`
	URL    string `json:"url"`
	Active bool   `json:"active"`
}

// windowSize is the number of pages shown around the current page, and
// edgeSize the number always shown at each end, before elision kicks in.
const (
	windowSize = 1
	edgeSize   = 2
)

// Links builds the ordered control sequence for the page result:
// previous, numbered pages with ellipsis elision, next. Targets are
// formed from basePath plus the provided query values with the page
// parameter replaced, so filters like search survive navigation.
func (r PageResult[T]) Links(basePath string, values url.Values) []Link {
	target := func(page int) string {
		q := url.Values{}
		for k, vs := range values {
			if k == "page" {
				continue
			}
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		q.Set("page", strconv.Itoa(page))
		return basePath + "?" + q.Encode()
	}

	links := make([]Link, 0, r.TotalPages+2)

	prev := Link{Label: LabelPrevious}
	if r.Page > 1 && r.Page <= r.TotalPages {
		prev.URL = target(r.Page - 1)
	}
	links = append(links, prev)

	elided := false
	for page := 1; page <= r.TotalPages; page++ {
		if !visible(page, r.Page, r.TotalPages) {
			if !elided {
				links = append(links, Link{Label: LabelEllipsis})
				elided = true
			}
			continue
		}
		elided = false

		links = append(links, Link{
			Label:  strconv.Itoa(page),
			URL:    target(page),
			Active: page == r.Page,
		})
	}

	next := Link{Label: LabelNext}
	if r.Page < r.TotalPages {
		next.URL = target(r.Page + 1)
	}
	links = append(links, next)

	return links
}

// visible reports whether a page number is rendered rather than elided.
// The first and last edgeSize pages and the window around current are
// always shown; short sequences render fully since every page falls
// inside an edge or the window.
func visible(page, current, total int) bool {
	if page <= edgeSize || page > total-edgeSize {
		return true
	}
	return page >= current-windowSize && page <= current+windowSize
}
