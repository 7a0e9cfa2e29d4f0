package model

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strconv"
	"strings"
)

// The Sponte API is schema-less JSON: records carry whatever fields the
// tenant has configured. Each record type declares the fields the service
// actually reads and keeps everything else in an Extra bag so the
// presentation layer still receives the full row.

// fieldKeys collects the JSON key names declared on a struct's tags.
func fieldKeys(v interface{}) map[string]struct{} {
	keys := make(map[string]struct{})
	t := reflect.TypeOf(v)
	for i := 0; i < t.NumField(); i++ {
		name := strings.SplitN(t.Field(i).Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			continue
		}
		keys[name] = struct{}{}
	}
	return keys
}

// extraFields returns the raw JSON members of data not covered by known.
func extraFields(data []byte, known map[string]struct{}) map[string]json.RawMessage {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil
	}
	for k := range all {
		if _, ok := known[k]; ok {
			delete(all, k)
		}
	}
	if len(all) == 0 {
		return nil
	}
	return all
}

// marshalWithExtra re-inlines the Extra bag next to the typed fields so a
// round trip through the cache (or out to the frontend) preserves the row.
// Typed fields win on key collision.
func marshalWithExtra(v interface{}, extra map[string]json.RawMessage) ([]byte, error) {
	base, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if len(extra) == 0 {
		return base, nil
	}
	var merged map[string]json.RawMessage
	if err := json.Unmarshal(base, &merged); err != nil {
		return nil, err
	}
	for k, raw := range extra {
		if _, ok := merged[k]; !ok {
			merged[k] = raw
		}
	}
	return json.Marshal(merged)
}

// ────────────────────────────────────────────────────────────────────────────
// Amount
// ────────────────────────────────────────────────────────────────────────────

// Amount is a monetary value that may arrive as a JSON number or as a
// numeric string. Input that cannot be parsed decodes as not-set instead of
// failing the enclosing record; callers that sum amounts skip unset values.
type Amount struct {
	value float64
	valid bool
}

// NewAmount builds a set Amount; used by tests and report builders.
func NewAmount(v float64) Amount { return Amount{value: v, valid: true} }

// Value returns the amount and whether it was actually set.
func (a Amount) Value() (float64, bool) { return a.value, a.valid }

// Or returns the amount, or fallback when unset.
func (a Amount) Or(fallback float64) float64 {
	if a.valid {
		return a.value
	}
	return fallback
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	a.value, a.valid = 0, false

	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		return nil
	}
	if s[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return nil
		}
		s = strings.TrimSpace(str)
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	a.value, a.valid = f, true
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.valid {
		return []byte("null"), nil
	}
	return json.Marshal(a.value)
}

// ────────────────────────────────────────────────────────────────────────────
// RosterEntry
// ────────────────────────────────────────────────────────────────────────────

// RosterEntry identifies one student in a class roster. Rosters reach the
// service either as bare id lists or as lists of student records, so the
// entry decodes from both forms.
type RosterEntry struct {
	AlunoID   int    `json:"alunoID"`
	NomeAluno string `json:"nomeAluno,omitempty"`
}

func (r *RosterEntry) UnmarshalJSON(b []byte) error {
	s := bytes.TrimSpace(b)
	if len(s) > 0 && s[0] == '{' {
		type alias RosterEntry
		var a alias
		if err := json.Unmarshal(b, &a); err != nil {
			return err
		}
		*r = RosterEntry(a)
		return nil
	}
	var id int
	if err := json.Unmarshal(b, &id); err != nil {
		return err
	}
	r.AlunoID = id
	return nil
}

// UniqueStudentIDs normalizes a roster into the unique positive student ids
// it contains, preserving first-seen order.
func UniqueStudentIDs(roster []RosterEntry) []int {
	ids := make([]int, 0, len(roster))
	seen := make(map[int]struct{}, len(roster))
	for _, entry := range roster {
		if entry.AlunoID <= 0 {
			continue
		}
		if _, ok := seen[entry.AlunoID]; ok {
			continue
		}
		seen[entry.AlunoID] = struct{}{}
		ids = append(ids, entry.AlunoID)
	}
	return ids
}
