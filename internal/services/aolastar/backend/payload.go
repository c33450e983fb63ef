package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	apperrors "github.com/vmoranv/aolastar/internal/platform/errors"
	"github.com/vmoranv/aolastar/internal/services/aolastar/domain"
)

// unwrapEnvelope returns the payload of a {"success","data"} envelope, or
// the body itself when it is not enveloped.
func unwrapEnvelope(body []byte) ([]byte, error) {
	if !gjson.ValidBytes(body) {
		return nil, malformed("response is not valid json", nil)
	}
	root := gjson.ParseBytes(body)
	switch {
	case root.IsArray():
		return body, nil
	case root.IsObject():
		success := root.Get("success")
		data := root.Get("data")
		if success.Exists() && !success.Bool() {
			message := strings.TrimSpace(root.Get("message").String())
			if message == "" {
				message = "success is false"
			}
			return nil, malformed("backend reported failure: "+message, nil)
		}
		if !data.Exists() {
			if success.Exists() {
				return nil, malformed("envelope has no data", nil)
			}
			return body, nil
		}
		return []byte(data.Raw), nil
	default:
		return nil, malformed("response is neither an object nor an array", nil)
	}
}

func decodePackets(body []byte) ([]domain.PacketEntry, error) {
	data, err := unwrapEnvelope(body)
	if err != nil {
		return nil, err
	}
	var items []map[string]json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, malformed("decode packet list", err)
	}
	entries := make([]domain.PacketEntry, 0, len(items))
	for i, fields := range items {
		if fields == nil {
			return nil, malformed(fmt.Sprintf("packet %d is not an object", i), nil)
		}
		var name string
		if err := json.Unmarshal(fields["name"], &name); err != nil || strings.TrimSpace(name) == "" {
			return nil, malformed(fmt.Sprintf("packet %d has no name", i), err)
		}
		entries = append(entries, domain.PacketEntry{Name: name, Fields: fields})
	}
	return entries, nil
}

type wireAttribute struct {
	ID   *int   `json:"id"`
	Name string `json:"name"`
}

func decodeAttributes(body []byte) ([]domain.Attribute, error) {
	data, err := unwrapEnvelope(body)
	if err != nil {
		return nil, err
	}
	var items []wireAttribute
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, malformed("decode attribute list", err)
	}
	attributes := make([]domain.Attribute, 0, len(items))
	for i, item := range items {
		if item.ID == nil {
			return nil, malformed(fmt.Sprintf("attribute %d has no id", i), nil)
		}
		name := strings.TrimSpace(item.Name)
		if name == "" {
			return nil, malformed(fmt.Sprintf("attribute %d has no name", *item.ID), nil)
		}
		attributes = append(attributes, domain.Attribute{ID: *item.ID, Name: name})
	}
	return attributes, nil
}

// Multiplier decodes a relation multiplier sent as a number or as the
// relation strings "", "1/2", "-1", "2" and "3".
type Multiplier float64

// UnmarshalJSON implements json.Unmarshaler.
func (m *Multiplier) UnmarshalJSON(raw []byte) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return err
		}
		value, err := ParseMultiplier(text)
		if err != nil {
			return err
		}
		*m = Multiplier(value)
		return nil
	}
	if bytes.Equal(raw, []byte("null")) {
		*m = 1
		return nil
	}
	var value float64
	if err := json.Unmarshal(raw, &value); err != nil {
		return err
	}
	normalized, err := normalizeMultiplier(value)
	if err != nil {
		return err
	}
	*m = Multiplier(normalized)
	return nil
}

// ParseMultiplier converts a relation string into a damage multiplier.
// Empty means neutral, "-1" means no damage, and "a/b" is a fraction.
func ParseMultiplier(text string) (float64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 1, nil
	}
	if numerator, denominator, ok := strings.Cut(text, "/"); ok {
		n, err := strconv.ParseFloat(strings.TrimSpace(numerator), 64)
		if err != nil {
			return 0, fmt.Errorf("parse multiplier %q: %w", text, err)
		}
		d, err := strconv.ParseFloat(strings.TrimSpace(denominator), 64)
		if err != nil || d == 0 {
			return 0, fmt.Errorf("parse multiplier %q: invalid denominator", text)
		}
		return normalizeMultiplier(n / d)
	}
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("parse multiplier %q: %w", text, err)
	}
	return normalizeMultiplier(value)
}

func normalizeMultiplier(value float64) (float64, error) {
	switch {
	case math.IsNaN(value) || math.IsInf(value, 0):
		return 0, fmt.Errorf("multiplier %v is not finite", value)
	case value == -1:
		return 0, nil
	case value < 0:
		return 0, fmt.Errorf("multiplier %v is negative", value)
	default:
		return value, nil
	}
}

type wireRelation struct {
	TargetAttributeID *int        `json:"targetAttributeId"`
	Name              string      `json:"name"`
	Multiplier        *Multiplier `json:"multiplier"`
}

type wireRelations struct {
	Attacker []wireRelation `json:"attacker"`
	Defender []wireRelation `json:"defender"`
}

func decodeRelations(body []byte) (domain.Relations, error) {
	data, err := unwrapEnvelope(body)
	if err != nil {
		return domain.Relations{}, err
	}
	root := gjson.ParseBytes(data)
	if root.Type == gjson.Null {
		return domain.Relations{}, nil
	}
	if !root.IsObject() {
		return domain.Relations{}, malformed("relations payload is not an object", nil)
	}
	if root.Get("attacker").Exists() || root.Get("defender").Exists() {
		var wire wireRelations
		if err := json.Unmarshal(data, &wire); err != nil {
			return domain.Relations{}, malformed("decode relations", err)
		}
		attack, err := convertRelations(wire.Attacker)
		if err != nil {
			return domain.Relations{}, err
		}
		defense, err := convertRelations(wire.Defender)
		if err != nil {
			return domain.Relations{}, err
		}
		return domain.Relations{Attack: attack, Defense: defense}, nil
	}
	return decodeLegacyRelations(data)
}

func convertRelations(wire []wireRelation) ([]domain.RelationEntry, error) {
	if len(wire) == 0 {
		return nil, nil
	}
	entries := make([]domain.RelationEntry, 0, len(wire))
	for i, item := range wire {
		name := strings.TrimSpace(item.Name)
		if item.TargetAttributeID == nil && name == "" {
			return nil, malformed(fmt.Sprintf("relation %d has neither targetAttributeId nor name", i), nil)
		}
		multiplier := 1.0
		if item.Multiplier != nil {
			multiplier = float64(*item.Multiplier)
		}
		entry := domain.RelationEntry{Name: name, Multiplier: multiplier}
		if item.TargetAttributeID != nil {
			entry.OtherAttributeID = *item.TargetAttributeID
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// decodeLegacyRelations reads the target id → relation string map. It only
// describes the attacking side.
func decodeLegacyRelations(data []byte) (domain.Relations, error) {
	var wire map[string]Multiplier
	if err := json.Unmarshal(data, &wire); err != nil {
		return domain.Relations{}, malformed("decode legacy relations", err)
	}
	entries := make([]domain.RelationEntry, 0, len(wire))
	for key, multiplier := range wire {
		id, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			return domain.Relations{}, malformed(fmt.Sprintf("relation key %q is not an attribute id", key), err)
		}
		entries = append(entries, domain.RelationEntry{OtherAttributeID: id, Multiplier: float64(multiplier)})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].OtherAttributeID < entries[j].OtherAttributeID
	})
	if len(entries) == 0 {
		entries = nil
	}
	return domain.Relations{Attack: entries}, nil
}

func malformed(message string, cause error) error {
	if cause == nil {
		return apperrors.New(apperrors.CodeBackendMalformedResponse, message)
	}
	return apperrors.Wrap(apperrors.CodeBackendMalformedResponse, message, cause)
}
