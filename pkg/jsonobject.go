package setup

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
)

// member is one key of a JSON object. Slices of members keep the order the
// keys were read in.
type member struct {
	Key   string
	Value json.RawMessage
}

// decodeObject splits a JSON object into its members. A repeated key keeps
// its first position and its last value.
func decodeObject(data []byte) ([]member, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	token, err := decoder.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := token.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected a JSON object, found %v", token)
	}

	var members []member
	index := make(map[string]int)
	for decoder.More() {
		token, err := decoder.Token()
		if err != nil {
			return nil, err
		}
		key, ok := token.(string)
		if !ok {
			return nil, fmt.Errorf("expected an object key, found %v", token)
		}
		var value json.RawMessage
		if err := decoder.Decode(&value); err != nil {
			return nil, fmt.Errorf("error decoding %q: %w", key, err)
		}
		if i, ok := index[key]; ok {
			members[i].Value = value
			continue
		}
		index[key] = len(members)
		members = append(members, member{Key: key, Value: value})
	}
	// closing brace
	if _, err := decoder.Token(); err != nil {
		return nil, err
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after JSON object")
	}
	return members, nil
}

func encodeObject(members []member) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range members {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(m.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(m.Value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func memberValues(members []member) map[string]json.RawMessage {
	values := make(map[string]json.RawMessage, len(members))
	for _, m := range members {
		values[m.Key] = m.Value
	}
	return values
}

// maxExactInteger is the largest integer every float64 below it represents
// exactly.
const maxExactInteger = 1 << 53

// integralNumbers rewrites numbers such as 25.0 or 1e3 as plain integers so
// they decode into int fields. Other values are left alone.
func integralNumbers(members []member) []member {
	rewritten := make([]member, len(members))
	for i, m := range members {
		rewritten[i] = m
		value := bytes.TrimSpace(m.Value)
		if len(value) == 0 || (value[0] != '-' && (value[0] < '0' || value[0] > '9')) {
			continue
		}
		if !bytes.ContainsAny(value, ".eE") {
			continue
		}
		f, err := strconv.ParseFloat(string(value), 64)
		if err != nil || f != math.Trunc(f) || math.Abs(f) > maxExactInteger {
			continue
		}
		rewritten[i].Value = json.RawMessage(strconv.FormatInt(int64(f), 10))
	}
	return rewritten
}
