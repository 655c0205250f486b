package wxcraft

import "sort"

// span is a half-open token range [start, end) of the change region.
type span struct {
	start, end int
}

// isChangeKeyword reports whether tok opens a TAF change group.
func isChangeKeyword(tok string) bool {
	switch tok {
	case "TEMPO", "BECMG", "PROB30", "PROB40":
		return true
	}
	return fmRegex.MatchString(tok)
}

// segment splits a header-stripped, remark-stripped TAF body into the base
// block and the token slices of the change groups, in report order.
func segment(body []string) (base []string, changes [][]string) {
	first := indexMatching(body, 0, isChangeKeyword)
	if first == -1 {
		return body, nil
	}

	base = body[:first]
	region := body[first:]

	for _, s := range mergeSpans(scanSpans(region)) {
		changes = append(changes, region[s.start:s.end])
	}

	return base, changes
}

// scanSpans collects candidate groups in two passes. The first finds PROB30 or
// PROB40 immediately followed by TEMPO; the second finds every keyword on its
// own. Each span runs to the next keyword or the end of the region. A keyword
// with nothing after it opens no span.
func scanSpans(region []string) []span {
	nextKeyword := func(from int) int {
		if next := indexMatching(region, from, isChangeKeyword); next != -1 {
			return next
		}
		return len(region)
	}

	var spans []span

	for i := 0; i+1 < len(region); i++ {
		if (region[i] == "PROB30" || region[i] == "PROB40") && region[i+1] == "TEMPO" {
			if end := nextKeyword(i + 2); end > i+2 {
				spans = append(spans, span{start: i, end: end})
			}
		}
	}

	for i, tok := range region {
		if !isChangeKeyword(tok) {
			continue
		}
		if end := nextKeyword(i + 1); end > i+1 {
			spans = append(spans, span{start: i, end: end})
		}
	}

	return spans
}

// mergeSpans orders spans by start, longer first on ties, and drops every
// span that begins inside one already kept.
func mergeSpans(spans []span) []span {
	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].start != spans[j].start {
			return spans[i].start < spans[j].start
		}
		return spans[i].end > spans[j].end
	})

	var kept []span
	lastEnd := -1
	for _, s := range spans {
		if s.start >= lastEnd {
			kept = append(kept, s)
			lastEnd = s.end
		}
	}

	return kept
}
