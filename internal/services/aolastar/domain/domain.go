package domain

import (
	"context"
	"encoding/json"
)

// PacketEntry is one named game-data bundle from the activity listing.
// Identity is the entry's position in the backend's ordered list.
type PacketEntry struct {
	Name string
	// Fields holds every backend field, name included, undecoded.
	Fields map[string]json.RawMessage
}

// Packet returns the packet field as text, or "" when absent.
func (p PacketEntry) Packet() string {
	raw, ok := p.Fields["packet"]
	if !ok || len(raw) == 0 {
		return ""
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text
	}
	if string(raw) == "null" {
		return ""
	}
	return string(raw)
}

// Attribute is one elemental type.
type Attribute struct {
	ID   int
	Name string
}

// AttributeList is the id-ordered attribute set.
type AttributeList struct {
	Attributes []Attribute
	// Stale is set when the set came from an expired cache entry after a
	// failed refresh.
	Stale bool
}

// RelationEntry is the damage multiplier against one other attribute.
type RelationEntry struct {
	OtherAttributeID int
	// Name is optional; empty names are resolved from the attribute set.
	Name       string
	Multiplier float64
}

// Relations holds both sides of one attribute's relations.
// Attack is this attribute hitting others; Defense is others hitting it.
type Relations struct {
	Attack  []RelationEntry
	Defense []RelationEntry
}

// Bucket groups the attributes sharing one exact multiplier.
type Bucket struct {
	Multiplier float64
	Names      []string
}

// RelationGrouping is the derived, render-ready relation view.
type RelationGrouping struct {
	AttributeID   int
	AttributeName string
	Attack        []Bucket
	Defense       []Bucket
	// Stale is set when relations or attributes came from an expired cache
	// entry after a failed refresh.
	Stale bool
}

// Empty reports whether neither side has any bucket.
func (g RelationGrouping) Empty() bool {
	return len(g.Attack) == 0 && len(g.Defense) == 0
}

// SearchMode identifies how a packet search term was applied.
type SearchMode int

const (
	// SearchModeNone indicates an unfiltered listing.
	SearchModeNone SearchMode = iota
	// SearchModeRegexp indicates the term compiled as a regular expression.
	SearchModeRegexp
	// SearchModeLiteral indicates the term failed to compile and was matched
	// as a plain substring.
	SearchModeLiteral
)

// Search describes the filter applied to one packet page.
type Search struct {
	Term string
	Mode SearchMode
}

// Active reports whether a filter was applied.
func (s Search) Active() bool {
	return s.Mode != SearchModeNone
}

// PageResult is one page of the (possibly filtered) packet list.
type PageResult struct {
	Items      []PacketEntry
	Offset     int
	PageSize   int
	TotalCount int
	HasNext    bool
	HasPrev    bool
	Search     Search
	// Clamped is set when a next or prev request could not move.
	Clamped bool
	// Stale is set when the list came from an expired cache entry after a
	// failed refresh.
	Stale bool
}

// Page returns the 1-based page number.
func (r PageResult) Page() int {
	if r.PageSize <= 0 {
		return 1
	}
	return r.Offset/r.PageSize + 1
}

// PageCount returns the number of pages, at least 1.
func (r PageResult) PageCount() int {
	if r.PageSize <= 0 || r.TotalCount == 0 {
		return 1
	}
	return (r.TotalCount + r.PageSize - 1) / r.PageSize
}

// Backend fetches raw game metadata.
type Backend interface {
	FetchPacketList(ctx context.Context) ([]PacketEntry, error)
	FetchAttributes(ctx context.Context) ([]Attribute, error)
	FetchRelations(ctx context.Context, attributeID int) (Relations, error)
}

// Tier names the damage class of a multiplier.
type Tier int

const (
	// TierNormal is neutral damage (1x).
	TierNormal Tier = iota
	// TierSuper is 3x or more.
	TierSuper
	// TierStrong is above 1x and below 3x.
	TierStrong
	// TierWeak is above 0 and below 1x.
	TierWeak
	// TierImmune is no damage.
	TierImmune
)

// TierOf classifies a multiplier.
func TierOf(multiplier float64) Tier {
	switch {
	case multiplier >= 3:
		return TierSuper
	case multiplier > 1:
		return TierStrong
	case multiplier == 1:
		return TierNormal
	case multiplier > 0:
		return TierWeak
	default:
		return TierImmune
	}
}
