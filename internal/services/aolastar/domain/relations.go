package domain

import (
	"fmt"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// groupRelations builds one side's buckets: keyed by exact multiplier,
// ordered by multiplier descending, names in Chinese collation order.
// Entries carrying only a name are resolved to an id through names. A
// repeated attribute keeps its first occurrence.
func groupRelations(entries []RelationEntry, names map[int]string) []Bucket {
	if len(entries) == 0 {
		return nil
	}
	ids := make(map[string]int, len(names))
	for id, name := range names {
		ids[name] = id
	}
	seen := make(map[string]struct{}, len(entries))
	byMultiplier := make(map[float64][]string)
	for _, entry := range entries {
		if entry.OtherAttributeID == 0 && entry.Name != "" {
			entry.OtherAttributeID = ids[entry.Name]
		}
		key := relationKey(entry)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		byMultiplier[entry.Multiplier] = append(byMultiplier[entry.Multiplier], relationName(entry, names))
	}

	buckets := make([]Bucket, 0, len(byMultiplier))
	for multiplier, members := range byMultiplier {
		buckets = append(buckets, Bucket{Multiplier: multiplier, Names: members})
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Multiplier > buckets[j].Multiplier
	})

	// Collators keep internal buffers and are not safe to share.
	collator := collate.New(language.SimplifiedChinese)
	for i := range buckets {
		sortNames(collator, buckets[i].Names)
	}
	return buckets
}

func sortNames(collator *collate.Collator, names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		if c := collator.CompareString(names[i], names[j]); c != 0 {
			return c < 0
		}
		return names[i] < names[j]
	})
}

// relationKey identifies the other attribute by id, or by name when the
// id could not be resolved.
func relationKey(entry RelationEntry) string {
	if entry.OtherAttributeID == 0 && entry.Name != "" {
		return "name:" + entry.Name
	}
	return fmt.Sprintf("id:%d", entry.OtherAttributeID)
}

func relationName(entry RelationEntry, names map[int]string) string {
	if entry.Name != "" {
		return entry.Name
	}
	if name, ok := names[entry.OtherAttributeID]; ok && name != "" {
		return name
	}
	return fmt.Sprintf("#%d", entry.OtherAttributeID)
}
