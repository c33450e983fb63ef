package domain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	apperrors "github.com/vmoranv/aolastar/internal/platform/errors"
	"github.com/vmoranv/aolastar/internal/services/aolastar/session"
)

type fakeBackend struct {
	mu         sync.Mutex
	packets    []PacketEntry
	attributes []Attribute
	relations  map[int]Relations
	packetsErr error

	// attributesErr fails attribute fetches once set.
	attributesErr error

	packetCalls    atomic.Int32
	attributeCalls atomic.Int32
	relationCalls  atomic.Int32
}

func (f *fakeBackend) FetchPacketList(context.Context) ([]PacketEntry, error) {
	f.packetCalls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.packetsErr != nil {
		return nil, f.packetsErr
	}
	return append([]PacketEntry(nil), f.packets...), nil
}

func (f *fakeBackend) FetchAttributes(context.Context) ([]Attribute, error) {
	f.attributeCalls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.attributesErr != nil {
		return nil, f.attributesErr
	}
	return append([]Attribute(nil), f.attributes...), nil
}

func (f *fakeBackend) FetchRelations(_ context.Context, attributeID int) (Relations, error) {
	f.relationCalls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.relations[attributeID], nil
}

func (f *fakeBackend) failAttributes(err error) {
	f.mu.Lock()
	f.attributesErr = err
	f.mu.Unlock()
}

func (f *fakeBackend) setPackets(packets []PacketEntry, err error) {
	f.mu.Lock()
	f.packets = packets
	f.packetsErr = err
	f.mu.Unlock()
}

type mutableClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *mutableClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *mutableClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func packetsNamed(names ...string) []PacketEntry {
	entries := make([]PacketEntry, 0, len(names))
	for _, name := range names {
		entries = append(entries, PacketEntry{
			Name:   name,
			Fields: map[string]json.RawMessage{"name": json.RawMessage(fmt.Sprintf("%q", name))},
		})
	}
	return entries
}

func numberedPackets(prefix string, count int) []PacketEntry {
	names := make([]string, 0, count)
	for i := 1; i <= count; i++ {
		names = append(names, fmt.Sprintf("%s%02d", prefix, i))
	}
	return packetsNamed(names...)
}

func itemNames(items []PacketEntry) []string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	return names
}

func attributesUpTo(n int) []Attribute {
	attributes := make([]Attribute, 0, n)
	for id := n; id >= 1; id-- {
		attributes = append(attributes, Attribute{ID: id, Name: fmt.Sprintf("属性%d", id)})
	}
	return attributes
}

func newTestService(backend *fakeBackend, pageSize int) (*Service, *mutableClock) {
	clock := &mutableClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	return NewService(backend, Stores{}, Config{PageSize: pageSize, Clock: clock.Now}), clock
}

func TestListPacketsDefaultPageShowsSmallList(t *testing.T) {
	backend := &fakeBackend{packets: packetsNamed("石矶娘娘·觉", "挑战之塔", "哪吒外传")}
	svc, _ := newTestService(backend, 20)

	page, err := svc.ListPackets(context.Background(), "group-1", "")
	if err != nil {
		t.Fatalf("list packets: %v", err)
	}
	want := []string{"石矶娘娘·觉", "挑战之塔", "哪吒外传"}
	if got := itemNames(page.Items); !reflect.DeepEqual(got, want) {
		t.Fatalf("items = %v, want %v", got, want)
	}
	if page.Offset != 0 || page.TotalCount != 3 || page.HasNext || page.HasPrev {
		t.Fatalf("page = %+v, want offset 0 total 3 without next/prev", page)
	}
	if page.Search.Active() {
		t.Fatalf("search = %+v, want none", page.Search)
	}
}

func TestListPacketsRegexpSearch(t *testing.T) {
	backend := &fakeBackend{packets: packetsNamed("石矶娘娘·觉", "挑战之塔", "哪吒外传")}
	svc, _ := newTestService(backend, 20)

	page, err := svc.ListPackets(context.Background(), "group-1", ".*挑战.*")
	if err != nil {
		t.Fatalf("list packets: %v", err)
	}
	if got := itemNames(page.Items); !reflect.DeepEqual(got, []string{"挑战之塔"}) {
		t.Fatalf("items = %v, want [挑战之塔]", got)
	}
	if page.Search.Mode != SearchModeRegexp || page.Search.Term != ".*挑战.*" {
		t.Fatalf("search = %+v, want regexp .*挑战.*", page.Search)
	}
}

func TestListPacketsInvalidPatternFallsBackToLiteral(t *testing.T) {
	backend := &fakeBackend{packets: packetsNamed("活动[上", "活动下", "[上半")}
	svc, _ := newTestService(backend, 20)

	page, err := svc.ListPackets(context.Background(), "c", "[上")
	if err != nil {
		t.Fatalf("list packets: %v", err)
	}
	if page.Search.Mode != SearchModeLiteral {
		t.Fatalf("mode = %v, want literal", page.Search.Mode)
	}
	if got := itemNames(page.Items); !reflect.DeepEqual(got, []string{"活动[上", "[上半"}) {
		t.Fatalf("items = %v, want literal matches", got)
	}
}

func TestListPacketsSearchIsCaseSensitiveUnlessPatternSaysOtherwise(t *testing.T) {
	backend := &fakeBackend{packets: packetsNamed("Boss Rush", "boss战", "日常")}
	svc, _ := newTestService(backend, 20)
	ctx := context.Background()

	page, err := svc.ListPackets(ctx, "c", "Boss")
	if err != nil {
		t.Fatalf("list packets: %v", err)
	}
	if got := itemNames(page.Items); !reflect.DeepEqual(got, []string{"Boss Rush"}) {
		t.Fatalf("items = %v, want [Boss Rush]", got)
	}

	page, err = svc.ListPackets(ctx, "c", "(?i)BOSS")
	if err != nil {
		t.Fatalf("list packets: %v", err)
	}
	if got := itemNames(page.Items); !reflect.DeepEqual(got, []string{"Boss Rush", "boss战"}) {
		t.Fatalf("items = %v, want both boss entries", got)
	}
}

func TestListPacketsLiteralFallbackMatchesExactSubstring(t *testing.T) {
	backend := &fakeBackend{packets: packetsNamed("Tower(1)", "tower(1)", "Tower")}
	svc, _ := newTestService(backend, 20)

	page, err := svc.ListPackets(context.Background(), "c", "Tower(")
	if err != nil {
		t.Fatalf("list packets: %v", err)
	}
	if page.Search.Mode != SearchModeLiteral {
		t.Fatalf("mode = %v, want literal", page.Search.Mode)
	}
	if got := itemNames(page.Items); !reflect.DeepEqual(got, []string{"Tower(1)"}) {
		t.Fatalf("items = %v, want [Tower(1)]", got)
	}
}

func TestListPacketsNextAndPrevClamp(t *testing.T) {
	backend := &fakeBackend{packets: numberedPackets("p", 45)}
	svc, _ := newTestService(backend, 20)
	ctx := context.Background()

	steps := []struct {
		argument    string
		wantOffset  int
		wantClamped bool
	}{
		{argument: "", wantOffset: 0},
		{argument: "prev", wantOffset: 0, wantClamped: true},
		{argument: "next", wantOffset: 20},
		{argument: "NEXT", wantOffset: 40},
		{argument: "next", wantOffset: 40, wantClamped: true},
		{argument: "", wantOffset: 40},
		{argument: " prev ", wantOffset: 20},
		{argument: "prev", wantOffset: 0},
	}
	for i, step := range steps {
		page, err := svc.ListPackets(ctx, "c", step.argument)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if page.Offset != step.wantOffset || page.Clamped != step.wantClamped {
			t.Fatalf("step %d (%q): offset=%d clamped=%v, want offset=%d clamped=%v",
				i, step.argument, page.Offset, page.Clamped, step.wantOffset, step.wantClamped)
		}
		assertPageInvariants(t, page)
	}
}

func TestListPacketsNextWithoutStateStartsAtFirstPage(t *testing.T) {
	backend := &fakeBackend{packets: numberedPackets("p", 45)}
	svc, _ := newTestService(backend, 20)

	page, err := svc.ListPackets(context.Background(), "fresh", "next")
	if err != nil {
		t.Fatalf("list packets: %v", err)
	}
	if page.Offset != 20 {
		t.Fatalf("offset = %d, want 20", page.Offset)
	}
}

func TestListPacketsPagingContinuesSearch(t *testing.T) {
	packets := append(numberedPackets("火系活动", 25), numberedPackets("水系活动", 25)...)
	backend := &fakeBackend{packets: packets}
	svc, _ := newTestService(backend, 20)
	ctx := context.Background()

	first, err := svc.ListPackets(ctx, "c", "火")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if first.TotalCount != 25 || !first.HasNext {
		t.Fatalf("first = %+v, want 25 filtered matches with next", first)
	}

	second, err := svc.ListPackets(ctx, "c", "next")
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if second.Offset != 20 || len(second.Items) != 5 || second.Search.Term != "火" {
		t.Fatalf("second = %+v, want filtered page 2 with 5 items", second)
	}
	for _, item := range second.Items {
		if !strings.HasPrefix(item.Name, "火") {
			t.Fatalf("unexpected unfiltered item %q", item.Name)
		}
	}

	reset, err := svc.ListPackets(ctx, "c", "reset")
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if reset.Search.Active() || reset.Offset != 0 || reset.TotalCount != 50 {
		t.Fatalf("reset = %+v, want unfiltered first page", reset)
	}
}

func TestListPacketsNewSearchResetsOffset(t *testing.T) {
	backend := &fakeBackend{packets: numberedPackets("活动", 45)}
	svc, _ := newTestService(backend, 20)
	ctx := context.Background()

	if _, err := svc.ListPackets(ctx, "c", "next"); err != nil {
		t.Fatalf("next: %v", err)
	}
	page, err := svc.ListPackets(ctx, "c", "活动")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if page.Offset != 0 {
		t.Fatalf("offset = %d, want 0 after new search", page.Offset)
	}
}

func TestListPacketsIsIdempotent(t *testing.T) {
	backend := &fakeBackend{packets: numberedPackets("活动", 45)}
	svc, _ := newTestService(backend, 20)
	ctx := context.Background()

	first, err := svc.ListPackets(ctx, "c", "活动0")
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := svc.ListPackets(ctx, "c", "活动0")
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("results differ:\nfirst=%+v\nsecond=%+v", first, second)
	}
	if got := backend.packetCalls.Load(); got != 1 {
		t.Fatalf("packet fetches = %d, want 1", got)
	}
}

func TestListPacketsConversationsAreIndependent(t *testing.T) {
	backend := &fakeBackend{packets: numberedPackets("活动", 45)}
	svc, _ := newTestService(backend, 20)
	ctx := context.Background()

	if _, err := svc.ListPackets(ctx, "a", "next"); err != nil {
		t.Fatalf("a next: %v", err)
	}
	page, err := svc.ListPackets(ctx, "b", "")
	if err != nil {
		t.Fatalf("b: %v", err)
	}
	if page.Offset != 0 {
		t.Fatalf("b offset = %d, want 0", page.Offset)
	}
}

func TestListPacketsClampsStoredOffsetAfterShrink(t *testing.T) {
	backend := &fakeBackend{packets: numberedPackets("活动", 45)}
	svc, clock := newTestService(backend, 20)
	ctx := context.Background()

	for range 2 {
		if _, err := svc.ListPackets(ctx, "c", "next"); err != nil {
			t.Fatalf("next: %v", err)
		}
	}
	backend.setPackets(numberedPackets("活动", 25), nil)
	clock.Advance(DefaultPacketsTTL + time.Second)

	page, err := svc.ListPackets(ctx, "c", "")
	if err != nil {
		t.Fatalf("list after shrink: %v", err)
	}
	if page.Offset != 20 || len(page.Items) != 5 {
		t.Fatalf("page = offset %d items %d, want offset 20 items 5", page.Offset, len(page.Items))
	}
	assertPageInvariants(t, page)
}

func TestListPacketsServesStaleListWhenRefreshFails(t *testing.T) {
	backend := &fakeBackend{packets: numberedPackets("活动", 3)}
	svc, clock := newTestService(backend, 20)
	ctx := context.Background()

	if _, err := svc.ListPackets(ctx, "c", ""); err != nil {
		t.Fatalf("prime: %v", err)
	}
	backend.setPackets(nil, apperrors.New(apperrors.CodeBackendUnavailable, "down"))
	clock.Advance(DefaultPacketsTTL + time.Second)

	page, err := svc.ListPackets(ctx, "c", "")
	if err != nil {
		t.Fatalf("expected stale page, got %v", err)
	}
	if !page.Stale || page.TotalCount != 3 {
		t.Fatalf("page = %+v, want stale page with 3 items", page)
	}
}

func TestListPacketsPropagatesBackendErrorWithoutCache(t *testing.T) {
	backend := &fakeBackend{packetsErr: apperrors.New(apperrors.CodeBackendUnavailable, "down")}
	svc, _ := newTestService(backend, 20)

	_, err := svc.ListPackets(context.Background(), "c", "next")
	if !apperrors.HasCode(err, apperrors.CodeBackendUnavailable) {
		t.Fatalf("error = %v, want backend unavailable", err)
	}
	if _, ok := svc.sessions.Get("c"); ok {
		t.Fatal("failed request must not create pagination state")
	}
}

func TestListPacketsEmptyList(t *testing.T) {
	svc, _ := newTestService(&fakeBackend{}, 20)
	page, err := svc.ListPackets(context.Background(), "c", "next")
	if err != nil {
		t.Fatalf("list packets: %v", err)
	}
	if page.TotalCount != 0 || len(page.Items) != 0 || page.HasNext || page.HasPrev {
		t.Fatalf("page = %+v, want empty page", page)
	}
	if page.PageCount() != 1 || page.Page() != 1 {
		t.Fatalf("page %d/%d, want 1/1", page.Page(), page.PageCount())
	}
}

func TestPaginationInvariantsHoldForAllOffsets(t *testing.T) {
	for _, total := range []int{0, 1, 19, 20, 21, 40, 57} {
		list := numberedPackets("x", total)
		state := resolveAll(t, list, 20)
		for _, page := range state {
			assertPageInvariants(t, page)
		}
	}
}

func resolveAll(t *testing.T, list []PacketEntry, pageSize int) []PageResult {
	t.Helper()
	var pages []PageResult
	state, page := resolvePage(list, session.State{}, pageRequest{action: pageCurrent}, pageSize)
	pages = append(pages, page)
	for range len(list)/pageSize + 2 {
		state, page = resolvePage(list, state, pageRequest{action: pageNext}, pageSize)
		pages = append(pages, page)
	}
	return pages
}

func assertPageInvariants(t *testing.T, page PageResult) {
	t.Helper()
	if page.Offset+len(page.Items) > page.TotalCount {
		t.Fatalf("offset %d + items %d > total %d", page.Offset, len(page.Items), page.TotalCount)
	}
	if page.HasNext != (page.Offset+page.PageSize < page.TotalCount) {
		t.Fatalf("hasNext = %v for offset %d size %d total %d", page.HasNext, page.Offset, page.PageSize, page.TotalCount)
	}
	if page.HasPrev != (page.Offset > 0) {
		t.Fatalf("hasPrev = %v for offset %d", page.HasPrev, page.Offset)
	}
	if len(page.Items) > page.PageSize {
		t.Fatalf("items = %d, want <= %d", len(page.Items), page.PageSize)
	}
}

func TestListAttributesSortsByID(t *testing.T) {
	backend := &fakeBackend{attributes: attributesUpTo(5)}
	svc, _ := newTestService(backend, 20)

	list, err := svc.ListAttributes(context.Background())
	if err != nil {
		t.Fatalf("list attributes: %v", err)
	}
	if list.Stale {
		t.Fatal("fresh list marked stale")
	}
	for i, attr := range list.Attributes {
		if attr.ID != i+1 {
			t.Fatalf("attributes[%d].ID = %d, want %d", i, attr.ID, i+1)
		}
	}
}

func TestListAttributesReportsStaleSet(t *testing.T) {
	backend := &fakeBackend{attributes: attributesUpTo(3)}
	svc, clock := newTestService(backend, 20)
	ctx := context.Background()

	if _, err := svc.ListAttributes(ctx); err != nil {
		t.Fatalf("prime: %v", err)
	}
	backend.failAttributes(apperrors.New(apperrors.CodeBackendUnavailable, "down"))
	clock.Advance(DefaultAttributesTTL + time.Second)

	list, err := svc.ListAttributes(ctx)
	if err != nil {
		t.Fatalf("expected stale list, got %v", err)
	}
	if !list.Stale || len(list.Attributes) != 3 {
		t.Fatalf("list = %+v, want stale list with 3 attributes", list)
	}
}

func TestGetRelationGroupingUnknownAttributeSkipsRelationFetch(t *testing.T) {
	backend := &fakeBackend{attributes: attributesUpTo(50)}
	svc, _ := newTestService(backend, 20)

	_, err := svc.GetRelationGrouping(context.Background(), 9999)
	if !apperrors.HasCode(err, apperrors.CodeUnknownAttribute) {
		t.Fatalf("error = %v, want unknown attribute", err)
	}
	if got := apperrors.MetadataOf(err)[apperrors.MetadataAttributeID]; got != "9999" {
		t.Fatalf("attribute_id metadata = %q, want 9999", got)
	}
	if got := backend.relationCalls.Load(); got != 0 {
		t.Fatalf("relation fetches = %d, want 0", got)
	}
}

func TestGetRelationGroupingCollatesBucketNames(t *testing.T) {
	backend := &fakeBackend{
		attributes: append(attributesUpTo(49), Attribute{ID: 50, Name: "光"}),
		relations: map[int]Relations{
			50: {Attack: []RelationEntry{
				{OtherAttributeID: 1, Name: "普通", Multiplier: 2},
				{OtherAttributeID: 2, Name: "格斗", Multiplier: 2},
				{OtherAttributeID: 3, Name: "飞行", Multiplier: 2},
			}},
		},
	}
	svc, _ := newTestService(backend, 20)

	grouping, err := svc.GetRelationGrouping(context.Background(), 50)
	if err != nil {
		t.Fatalf("grouping: %v", err)
	}
	// Chinese collation orders by pinyin (fei, ge, pu). The order 格斗, 飞行,
	// 普通 only holds for the English glosses Fighting, Flying, Normal.
	want := []Bucket{{Multiplier: 2, Names: []string{"飞行", "格斗", "普通"}}}
	if !reflect.DeepEqual(grouping.Attack, want) {
		t.Fatalf("attack = %+v, want %+v", grouping.Attack, want)
	}
	if len(grouping.Defense) != 0 {
		t.Fatalf("defense = %+v, want empty", grouping.Defense)
	}
	if grouping.AttributeName != "光" || grouping.Empty() {
		t.Fatalf("grouping = %+v, want non-empty grouping for 光", grouping)
	}
}

func TestGetRelationGroupingOrdersBucketsAndResolvesNames(t *testing.T) {
	backend := &fakeBackend{
		attributes: []Attribute{{ID: 1, Name: "火"}, {ID: 2, Name: "水"}, {ID: 3, Name: "草"}, {ID: 4, Name: "电"}},
		relations: map[int]Relations{
			1: {
				Attack: []RelationEntry{
					{OtherAttributeID: 2, Multiplier: 0.5},
					{OtherAttributeID: 3, Multiplier: 2},
					{OtherAttributeID: 4, Multiplier: 1},
					{OtherAttributeID: 3, Multiplier: 0},
					{OtherAttributeID: 77, Multiplier: 3},
				},
				Defense: []RelationEntry{
					{OtherAttributeID: 2, Multiplier: 2},
				},
			},
		},
	}
	svc, _ := newTestService(backend, 20)

	grouping, err := svc.GetRelationGrouping(context.Background(), 1)
	if err != nil {
		t.Fatalf("grouping: %v", err)
	}
	wantAttack := []Bucket{
		{Multiplier: 3, Names: []string{"#77"}},
		{Multiplier: 2, Names: []string{"草"}},
		{Multiplier: 1, Names: []string{"电"}},
		{Multiplier: 0.5, Names: []string{"水"}},
	}
	if !reflect.DeepEqual(grouping.Attack, wantAttack) {
		t.Fatalf("attack = %+v, want %+v", grouping.Attack, wantAttack)
	}
	wantDefense := []Bucket{{Multiplier: 2, Names: []string{"水"}}}
	if !reflect.DeepEqual(grouping.Defense, wantDefense) {
		t.Fatalf("defense = %+v, want %+v", grouping.Defense, wantDefense)
	}
}

func TestGetRelationGroupingResolvesNameOnlyEntries(t *testing.T) {
	backend := &fakeBackend{
		attributes: []Attribute{{ID: 1, Name: "火"}, {ID: 2, Name: "水"}, {ID: 3, Name: "草"}},
		relations: map[int]Relations{
			3: {Attack: []RelationEntry{
				{Name: "火", Multiplier: 0.5},
				{Name: "水", Multiplier: 2},
				{OtherAttributeID: 1, Multiplier: 3},
				{Name: "水", Multiplier: 0},
				{Name: "冰", Multiplier: 2},
			}},
		},
	}
	svc, _ := newTestService(backend, 20)

	grouping, err := svc.GetRelationGrouping(context.Background(), 3)
	if err != nil {
		t.Fatalf("grouping: %v", err)
	}
	want := []Bucket{
		{Multiplier: 2, Names: []string{"冰", "水"}},
		{Multiplier: 0.5, Names: []string{"火"}},
	}
	if !reflect.DeepEqual(grouping.Attack, want) {
		t.Fatalf("attack = %+v, want %+v", grouping.Attack, want)
	}
}

func TestGetRelationGroupingDerivesDefenseFromCachedAttackLists(t *testing.T) {
	backend := &fakeBackend{
		attributes: []Attribute{{ID: 1, Name: "火"}, {ID: 2, Name: "水"}, {ID: 3, Name: "草"}},
		relations: map[int]Relations{
			1: {Attack: []RelationEntry{{OtherAttributeID: 3, Multiplier: 2}, {OtherAttributeID: 2, Multiplier: 0.5}}},
			2: {Attack: []RelationEntry{{Name: "草", Multiplier: 0.5}, {OtherAttributeID: 1, Multiplier: 2}}},
			3: {Attack: []RelationEntry{{OtherAttributeID: 2, Multiplier: 2}}},
		},
	}
	svc, _ := newTestService(backend, 20)
	ctx := context.Background()

	grouping, err := svc.GetRelationGrouping(ctx, 3)
	if err != nil {
		t.Fatalf("grouping: %v", err)
	}
	if len(grouping.Defense) != 0 {
		t.Fatalf("defense = %+v, want empty before other attributes are cached", grouping.Defense)
	}

	for _, id := range []int{1, 2} {
		if _, err := svc.GetRelationGrouping(ctx, id); err != nil {
			t.Fatalf("grouping %d: %v", id, err)
		}
	}
	calls := backend.relationCalls.Load()

	grouping, err = svc.GetRelationGrouping(ctx, 3)
	if err != nil {
		t.Fatalf("grouping: %v", err)
	}
	want := []Bucket{
		{Multiplier: 2, Names: []string{"火"}},
		{Multiplier: 0.5, Names: []string{"水"}},
	}
	if !reflect.DeepEqual(grouping.Defense, want) {
		t.Fatalf("defense = %+v, want %+v", grouping.Defense, want)
	}
	if got := backend.relationCalls.Load(); got != calls {
		t.Fatalf("relation fetches = %d, want %d", got, calls)
	}
}

func TestGetRelationGroupingIsDeterministicAndCached(t *testing.T) {
	backend := &fakeBackend{
		attributes: attributesUpTo(10),
		relations: map[int]Relations{
			5: {Attack: []RelationEntry{
				{OtherAttributeID: 9, Multiplier: 2},
				{OtherAttributeID: 1, Multiplier: 2},
				{OtherAttributeID: 4, Multiplier: 0.5},
				{OtherAttributeID: 2, Multiplier: 2},
			}},
		},
	}
	svc, _ := newTestService(backend, 20)
	ctx := context.Background()

	first, err := svc.GetRelationGrouping(ctx, 5)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := svc.GetRelationGrouping(ctx, 5)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("groupings differ: %+v vs %+v", first, second)
	}
	if got := backend.relationCalls.Load(); got != 1 {
		t.Fatalf("relation fetches = %d, want 1", got)
	}
	if got := backend.attributeCalls.Load(); got != 1 {
		t.Fatalf("attribute fetches = %d, want 1", got)
	}
}

func TestServiceWithoutBackendReportsConfigurationMissing(t *testing.T) {
	svc := NewService(nil, Stores{}, Config{})
	_, err := svc.ListPackets(context.Background(), "c", "")
	if !errors.Is(err, apperrors.New(apperrors.CodeConfigurationMissing, "")) {
		t.Fatalf("error = %v, want configuration missing", err)
	}
	var nilService *Service
	if _, err := nilService.ListAttributes(context.Background()); !apperrors.HasCode(err, apperrors.CodeConfigurationMissing) {
		t.Fatalf("nil service error = %v, want configuration missing", err)
	}
}

func TestPacketPreviewField(t *testing.T) {
	entry := PacketEntry{Name: "a", Fields: map[string]json.RawMessage{"packet": json.RawMessage(`"AAEC"`)}}
	if got := entry.Packet(); got != "AAEC" {
		t.Fatalf("packet = %q, want AAEC", got)
	}
	entry.Fields["packet"] = json.RawMessage(`[1,2]`)
	if got := entry.Packet(); got != "[1,2]" {
		t.Fatalf("packet = %q, want raw json", got)
	}
	if got := (PacketEntry{Name: "b"}).Packet(); got != "" {
		t.Fatalf("packet = %q, want empty", got)
	}
}

func TestTierOf(t *testing.T) {
	tests := []struct {
		multiplier float64
		want       Tier
	}{
		{multiplier: 3, want: TierSuper},
		{multiplier: 4, want: TierSuper},
		{multiplier: 2, want: TierStrong},
		{multiplier: 1.5, want: TierStrong},
		{multiplier: 1, want: TierNormal},
		{multiplier: 0.5, want: TierWeak},
		{multiplier: 0, want: TierImmune},
	}
	for _, tc := range tests {
		if got := TierOf(tc.multiplier); got != tc.want {
			t.Fatalf("TierOf(%v) = %v, want %v", tc.multiplier, got, tc.want)
		}
	}
}
