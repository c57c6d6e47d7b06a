package setup

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// rawRecord is a record as it was read: its members in input order and the
// canonical encoding of the typed value decoded from them.
type rawRecord struct {
	members  []member
	snapshot map[string]json.RawMessage
}

func decodeRecords[T any](data []byte) ([]T, []rawRecord, error) {
	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err != nil {
		return nil, nil, err
	}
	if elements == nil {
		return nil, nil, nil
	}

	records := make([]T, len(elements))
	raw := make([]rawRecord, len(elements))
	for i, element := range elements {
		members, err := decodeObject(element)
		if err != nil {
			return nil, nil, fmt.Errorf("record %d: %w", i, err)
		}
		typed, err := encodeObject(integralNumbers(members))
		if err != nil {
			return nil, nil, fmt.Errorf("record %d: %w", i, err)
		}
		if err := json.Unmarshal(typed, &records[i]); err != nil {
			return nil, nil, fmt.Errorf("record %d: %w", i, err)
		}
		snapshot, err := encodeMembers(records[i])
		if err != nil {
			return nil, nil, fmt.Errorf("record %d: %w", i, err)
		}
		raw[i] = rawRecord{members: members, snapshot: memberValues(snapshot)}
	}
	return records, raw, nil
}

func encodeMembers(record interface{}) ([]member, error) {
	encoded, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	return decodeObject(encoded)
}

// encodeRecords writes records[i] over raw[i]: fields the typed value does
// not know are kept, unchanged fields keep their input text and position,
// changed fields are replaced, removed ones dropped and new ones appended.
// Records without a raw counterpart with the same id are encoded as is.
func encodeRecords[T any](records []T, raw []rawRecord) ([]byte, error) {
	if len(raw) == 0 {
		return json.Marshal(records)
	}
	elements := make([]json.RawMessage, len(records))
	for i, record := range records {
		current, err := encodeMembers(record)
		if err != nil {
			return nil, err
		}
		if i < len(raw) {
			if merged, ok := raw[i].merge(current); ok {
				current = merged
			}
		}
		if elements[i], err = encodeObject(current); err != nil {
			return nil, err
		}
	}
	return json.Marshal(elements)
}

func (r rawRecord) merge(current []member) ([]member, bool) {
	values := memberValues(current)
	if !bytes.Equal(values["id"], r.snapshot["id"]) {
		return nil, false
	}

	merged := make([]member, 0, len(r.members)+1)
	seen := make(map[string]bool, len(current))
	for _, m := range r.members {
		before, inSnapshot := r.snapshot[m.Key]
		now, inCurrent := values[m.Key]
		seen[m.Key] = inCurrent
		switch {
		case !inSnapshot && !inCurrent:
			merged = append(merged, m)
		case !inCurrent:
			// cleared, e.g. a stale data_module_id
		case inSnapshot && bytes.Equal(before, now):
			merged = append(merged, m)
		default:
			merged = append(merged, member{Key: m.Key, Value: now})
		}
	}
	for _, m := range current {
		if !seen[m.Key] {
			merged = append(merged, m)
		}
	}
	return merged, true
}
