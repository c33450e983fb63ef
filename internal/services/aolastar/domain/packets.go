package domain

import (
	"regexp"
	"strings"

	"github.com/vmoranv/aolastar/internal/services/aolastar/session"
)

const (
	tokenNext  = "next"
	tokenPrev  = "prev"
	tokenReset = "reset"
)

type pageAction int

const (
	pageCurrent pageAction = iota
	pageNext
	pagePrev
	pageReset
	pageSearch
)

type pageRequest struct {
	action pageAction
	term   string
}

// parsePageRequest classifies a raw packet command argument.
func parsePageRequest(raw string) pageRequest {
	term := strings.TrimSpace(raw)
	switch strings.ToLower(term) {
	case "":
		return pageRequest{action: pageCurrent}
	case tokenNext:
		return pageRequest{action: pageNext}
	case tokenPrev:
		return pageRequest{action: pagePrev}
	case tokenReset:
		return pageRequest{action: pageReset}
	default:
		return pageRequest{action: pageSearch, term: term}
	}
}

// compileSearch builds the matcher for term exactly as written; callers add
// (?i) themselves for case-insensitive patterns. Terms that are not valid
// regular expressions are matched as case-sensitive substrings.
func compileSearch(term string) (*regexp.Regexp, SearchMode) {
	if re, err := regexp.Compile(term); err == nil {
		return re, SearchModeRegexp
	}
	return regexp.MustCompile(regexp.QuoteMeta(term)), SearchModeLiteral
}

// filterPackets returns the entries whose name matches the stored query.
func filterPackets(list []PacketEntry, state session.State) ([]PacketEntry, Search) {
	if !state.HasQuery {
		return list, Search{}
	}
	re, mode := compileSearch(state.Query)
	matched := make([]PacketEntry, 0, len(list))
	for _, entry := range list {
		if re.MatchString(entry.Name) {
			matched = append(matched, entry)
		}
	}
	return matched, Search{Term: state.Query, Mode: mode}
}

// lastPageOffset returns the offset of the final page for total items.
func lastPageOffset(total int, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return ((total - 1) / pageSize) * pageSize
}

// resolvePage applies one request to the stored state and slices the page.
func resolvePage(list []PacketEntry, current session.State, request pageRequest, pageSize int) (session.State, PageResult) {
	state := current
	switch request.action {
	case pageReset:
		state = session.State{}
	case pageSearch:
		state = session.State{Query: request.term, HasQuery: true}
	}

	filtered, search := filterPackets(list, state)
	total := len(filtered)
	last := lastPageOffset(total, pageSize)

	// The list may have shrunk since the offset was stored.
	offset := min(max(state.Offset, 0), last)
	clamped := false
	switch request.action {
	case pageNext:
		next := min(offset+pageSize, last)
		clamped = next == offset
		offset = next
	case pagePrev:
		prev := max(offset-pageSize, 0)
		clamped = prev == offset
		offset = prev
	}
	state.Offset = offset

	end := min(offset+pageSize, total)
	items := make([]PacketEntry, end-offset)
	copy(items, filtered[offset:end])

	return state, PageResult{
		Items:      items,
		Offset:     offset,
		PageSize:   pageSize,
		TotalCount: total,
		HasNext:    offset+pageSize < total,
		HasPrev:    offset > 0,
		Search:     search,
		Clamped:    clamped,
	}
}
