package commands

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/message"

	"github.com/vmoranv/aolastar/internal/services/aolastar/domain"
)

const (
	previewRunes      = 50
	normalBucketLimit = 10
)

var tierKeys = map[domain.Tier]string{
	domain.TierSuper:  "relations.tier.super",
	domain.TierStrong: "relations.tier.strong",
	domain.TierNormal: "relations.tier.normal",
	domain.TierWeak:   "relations.tier.weak",
	domain.TierImmune: "relations.tier.immune",
}

var tierIcons = map[domain.Tier]string{
	domain.TierSuper:  "💥",
	domain.TierStrong: "🔥",
	domain.TierNormal: "➡️",
	domain.TierWeak:   "❄️",
	domain.TierImmune: "🛡️",
}

func formatPacketPage(p *message.Printer, page domain.PageResult) string {
	var lines []string
	if page.Stale {
		lines = append(lines, p.Sprintf("stale.notice"))
	}
	if page.TotalCount == 0 {
		if page.Search.Active() {
			return strings.Join(append(lines, p.Sprintf("packets.no_match", page.Search.Term)), "\n")
		}
		return strings.Join(append(lines, p.Sprintf("packets.empty")), "\n")
	}

	start := page.Offset + 1
	end := page.Offset + len(page.Items)
	if page.Search.Active() {
		lines = append(lines, p.Sprintf("packets.search_header", page.TotalCount, page.Search.Term, start, end))
	} else {
		lines = append(lines, p.Sprintf("packets.header", page.TotalCount, start, end))
	}
	if page.Search.Mode == domain.SearchModeLiteral {
		lines = append(lines, p.Sprintf("packets.search_literal", page.Search.Term))
	}
	lines = append(lines, "")

	for i, item := range page.Items {
		lines = append(lines, fmt.Sprintf("%d. %s", start+i, item.Name))
		if preview := packetPreview(item.Packet()); preview != "" {
			lines = append(lines, p.Sprintf("packets.packet", preview))
		}
		lines = append(lines, "")
	}

	lines = append(lines, p.Sprintf("packets.page", page.Page(), page.PageCount()))
	if page.HasNext {
		lines = append(lines, p.Sprintf("packets.hint_next"))
	}
	if page.HasPrev {
		lines = append(lines, p.Sprintf("packets.hint_prev"))
	}
	if page.Search.Active() {
		lines = append(lines, p.Sprintf("packets.hint_reset"))
	}
	return strings.Join(lines, "\n")
}

// packetPreview keeps the first previewRunes runes of a packet.
func packetPreview(packet string) string {
	runes := []rune(packet)
	if len(runes) <= previewRunes {
		return packet
	}
	return string(runes[:previewRunes]) + "..."
}

func formatAttributeList(p *message.Printer, list domain.AttributeList) string {
	var lines []string
	if list.Stale {
		lines = append(lines, p.Sprintf("stale.notice"))
	}
	attributes := list.Attributes
	if len(attributes) == 0 {
		return strings.Join(append(lines, p.Sprintf("attributes.empty")), "\n")
	}
	lines = append(lines, p.Sprintf("attributes.header"), "")
	for _, attr := range attributes {
		lines = append(lines, fmt.Sprintf("%2d. %s", attr.ID, attr.Name))
	}
	lines = append(lines,
		"",
		p.Sprintf("attributes.total", len(attributes)),
		p.Sprintf("attributes.hint"),
	)
	return strings.Join(lines, "\n")
}

func formatRelations(p *message.Printer, grouping domain.RelationGrouping) string {
	var lines []string
	if grouping.Stale {
		lines = append(lines, p.Sprintf("stale.notice"))
	}
	lines = append(lines, p.Sprintf("relations.header", grouping.AttributeName), "")
	lines = append(lines, p.Sprintf("relations.attack"))
	lines = appendBuckets(p, lines, grouping.Attack)
	lines = append(lines, "", p.Sprintf("relations.defense"))
	lines = appendBuckets(p, lines, grouping.Defense)
	lines = append(lines,
		"",
		p.Sprintf("relations.legend"),
		"",
		p.Sprintf("relations.image_hint"),
	)
	return strings.Join(lines, "\n")
}

// appendBuckets writes the non-neutral buckets in their order and the 1x
// bucket last, truncated after normalBucketLimit names.
func appendBuckets(p *message.Printer, lines []string, buckets []domain.Bucket) []string {
	var normal []domain.Bucket
	written := false
	for _, bucket := range buckets {
		if len(bucket.Names) == 0 {
			continue
		}
		if domain.TierOf(bucket.Multiplier) == domain.TierNormal {
			normal = append(normal, bucket)
			continue
		}
		lines = appendBucket(p, lines, bucket, len(bucket.Names))
		written = true
	}
	for _, bucket := range normal {
		lines = appendBucket(p, lines, bucket, normalBucketLimit)
		written = true
	}
	if !written {
		lines = append(lines, p.Sprintf("relations.all_normal"))
	}
	return lines
}

func appendBucket(p *message.Printer, lines []string, bucket domain.Bucket, limit int) []string {
	tier := domain.TierOf(bucket.Multiplier)
	lines = append(lines, fmt.Sprintf("  %s %s (%s):", tierIcons[tier], p.Sprintf(tierKeys[tier]), damageText(p, bucket.Multiplier)))
	shown := bucket.Names
	if len(shown) > limit {
		shown = shown[:limit]
	}
	for _, name := range shown {
		lines = append(lines, "     • "+name)
	}
	if hidden := len(bucket.Names) - len(shown); hidden > 0 {
		lines = append(lines, p.Sprintf("relations.more", hidden))
	}
	return lines
}

func damageText(p *message.Printer, multiplier float64) string {
	switch multiplier {
	case 0:
		return p.Sprintf("relations.damage.none")
	case 0.5:
		return p.Sprintf("relations.damage.half")
	default:
		return p.Sprintf("relations.damage.times", strconv.FormatFloat(multiplier, 'g', -1, 64))
	}
}
