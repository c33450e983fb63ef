// Package domain implements the aolastar query engine: cached, paginated and
// searchable packet listings plus grouped attribute relations.
package domain

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/vmoranv/aolastar/internal/platform/config"
	apperrors "github.com/vmoranv/aolastar/internal/platform/errors"
	"github.com/vmoranv/aolastar/internal/services/aolastar/cache"
	"github.com/vmoranv/aolastar/internal/services/aolastar/session"
)

const (
	// DefaultPageSize is the number of packets shown per page.
	DefaultPageSize = 20

	// DefaultPacketsTTL bounds the age of the cached packet list.
	DefaultPacketsTTL = 10 * time.Minute
	// DefaultAttributesTTL bounds the age of the cached attribute list.
	DefaultAttributesTTL = time.Hour
	// DefaultRelationsTTL bounds the age of each cached relation set.
	DefaultRelationsTTL = 30 * time.Minute

	keyPackets         = "packets"
	keyAttributes      = "attributes"
	keyRelationsPrefix = "relations/"
)

// Config controls paging and cache lifetimes.
type Config struct {
	PageSize      int
	PacketsTTL    time.Duration
	AttributesTTL time.Duration
	RelationsTTL  time.Duration
	Clock         func() time.Time
	Logf          func(string, ...any)
}

// Stores are the mutable components the service reads and writes. Nil
// fields are created by NewService.
type Stores struct {
	Packets    *cache.Store[[]PacketEntry]
	Attributes *cache.Store[[]Attribute]
	Relations  *cache.Store[Relations]
	Sessions   *session.Store
}

// Service answers packet, attribute and relation queries.
type Service struct {
	backend Backend

	packets    *cache.Store[[]PacketEntry]
	attributes *cache.Store[[]Attribute]
	relations  *cache.Store[Relations]
	sessions   *session.Store

	pageSize      int
	packetsTTL    time.Duration
	attributesTTL time.Duration
	relationsTTL  time.Duration
}

// NewService builds a query engine over backend.
func NewService(backend Backend, stores Stores, cfg Config) *Service {
	cacheOpts := []cache.Option{cache.WithClock(cfg.Clock), cache.WithLogf(cfg.Logf)}
	if stores.Packets == nil {
		stores.Packets = cache.New[[]PacketEntry](cacheOpts...)
	}
	if stores.Attributes == nil {
		stores.Attributes = cache.New[[]Attribute](cacheOpts...)
	}
	if stores.Relations == nil {
		stores.Relations = cache.New[Relations](cacheOpts...)
	}
	if stores.Sessions == nil {
		stores.Sessions = session.NewStore()
	}
	return &Service{
		backend:       backend,
		packets:       stores.Packets,
		attributes:    stores.Attributes,
		relations:     stores.Relations,
		sessions:      stores.Sessions,
		pageSize:      config.IntOr(cfg.PageSize, DefaultPageSize),
		packetsTTL:    config.DurationOr(cfg.PacketsTTL, DefaultPacketsTTL),
		attributesTTL: config.DurationOr(cfg.AttributesTTL, DefaultAttributesTTL),
		relationsTTL:  config.DurationOr(cfg.RelationsTTL, DefaultRelationsTTL),
	}
}

// PageSize returns the configured page size.
func (s *Service) PageSize() int {
	if s == nil {
		return DefaultPageSize
	}
	return s.pageSize
}

// ListPackets resolves one packet command argument for a conversation.
//
// An empty argument re-shows the stored page; "next" and "prev" move by one
// page; "reset" drops the stored search. Anything else is a new search term.
// A backend failure leaves the conversation's state untouched.
func (s *Service) ListPackets(ctx context.Context, conversationID string, rawArgument string) (PageResult, error) {
	if err := s.ready(); err != nil {
		return PageResult{}, err
	}
	lookup, err := s.packets.GetOrFetch(ctx, keyPackets, s.packetsTTL, s.backend.FetchPacketList)
	if err != nil {
		return PageResult{}, err
	}

	request := parsePageRequest(rawArgument)
	var result PageResult
	s.sessions.Update(conversationID, func(current session.State, _ bool) session.State {
		next, page := resolvePage(lookup.Value, current, request, s.pageSize)
		result = page
		return next
	})
	result.Stale = lookup.Stale
	return result, nil
}

// ListAttributes returns every attribute ordered by id.
func (s *Service) ListAttributes(ctx context.Context) (AttributeList, error) {
	attributes, stale, err := s.loadAttributes(ctx)
	if err != nil {
		return AttributeList{}, err
	}
	sorted := make([]Attribute, len(attributes))
	copy(sorted, attributes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ID < sorted[j].ID
	})
	return AttributeList{Attributes: sorted, Stale: stale}, nil
}

// LookupAttribute returns the attribute with id, or UNKNOWN_ATTRIBUTE.
func (s *Service) LookupAttribute(ctx context.Context, id int) (Attribute, error) {
	attributes, _, err := s.loadAttributes(ctx)
	if err != nil {
		return Attribute{}, err
	}
	return findAttribute(attributes, id)
}

// GetRelationGrouping returns the bucketed relations of one attribute.
// Unknown ids fail before any relation request is made.
func (s *Service) GetRelationGrouping(ctx context.Context, attributeID int) (RelationGrouping, error) {
	attributes, attributesStale, err := s.loadAttributes(ctx)
	if err != nil {
		return RelationGrouping{}, err
	}
	attribute, err := findAttribute(attributes, attributeID)
	if err != nil {
		return RelationGrouping{}, err
	}

	key := keyRelationsPrefix + strconv.Itoa(attributeID)
	lookup, err := s.relations.GetOrFetch(ctx, key, s.relationsTTL, func(ctx context.Context) (Relations, error) {
		return s.backend.FetchRelations(ctx, attributeID)
	})
	if err != nil {
		return RelationGrouping{}, err
	}

	names := make(map[int]string, len(attributes))
	for _, attr := range attributes {
		names[attr.ID] = attr.Name
	}
	defense := lookup.Value.Defense
	if len(defense) == 0 {
		defense = s.cachedDefense(attribute, attributes)
	}
	return RelationGrouping{
		AttributeID:   attribute.ID,
		AttributeName: attribute.Name,
		Attack:        groupRelations(lookup.Value.Attack, names),
		Defense:       groupRelations(defense, names),
		Stale:         attributesStale || lookup.Stale,
	}, nil
}

// cachedDefense derives the defending side of target from the attack lists
// already cached for the other attributes. It never calls the backend, so
// attributes whose relations were not fetched yet are missing.
func (s *Service) cachedDefense(target Attribute, attributes []Attribute) []RelationEntry {
	var defense []RelationEntry
	for _, other := range attributes {
		if other.ID == target.ID {
			continue
		}
		entry, ok := s.relations.Peek(keyRelationsPrefix + strconv.Itoa(other.ID))
		if !ok {
			continue
		}
		for _, attack := range entry.Value.Attack {
			hitsTarget := attack.OtherAttributeID == target.ID ||
				(attack.OtherAttributeID == 0 && attack.Name == target.Name)
			if !hitsTarget {
				continue
			}
			defense = append(defense, RelationEntry{
				OtherAttributeID: other.ID,
				Name:             other.Name,
				Multiplier:       attack.Multiplier,
			})
			break
		}
	}
	return defense
}

func (s *Service) loadAttributes(ctx context.Context) ([]Attribute, bool, error) {
	if err := s.ready(); err != nil {
		return nil, false, err
	}
	lookup, err := s.attributes.GetOrFetch(ctx, keyAttributes, s.attributesTTL, s.backend.FetchAttributes)
	if err != nil {
		return nil, false, err
	}
	return lookup.Value, lookup.Stale, nil
}

func (s *Service) ready() error {
	if s == nil || s.backend == nil {
		return apperrors.New(apperrors.CodeConfigurationMissing, "aolastar backend is not configured")
	}
	return nil
}

func findAttribute(attributes []Attribute, id int) (Attribute, error) {
	for _, attr := range attributes {
		if attr.ID == id {
			return attr, nil
		}
	}
	return Attribute{}, apperrors.WithMetadata(
		apperrors.CodeUnknownAttribute,
		fmt.Sprintf("attribute %d not found", id),
		map[string]string{apperrors.MetadataAttributeID: strconv.Itoa(id)},
	)
}
