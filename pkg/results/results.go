// Copyright IKOS Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package results implements spec section 4.14's results table: a mapping
// (program-point, call-context) -> abstract value, populated by the
// fixpoint iterator and exported as JSON for the external results database
// (spec section 6). This package owns only the in-memory representation
// and a read-only iterator; persistence format and storage are someone
// else's problem, mirroring the teacher's own "the core produces a
// domain object, a JSON export, and stops there" split
// (pkg/trace/json/writer.go).
package results

import (
	"sort"

	"github.com/segmentio/encoding/json"

	"github.com/NASA-SW-VnV/ikos-sub006/pkg/ir"
)

// Status is the spec section 7 outcome recorded for a single check.
type Status int

const (
	OK Status = iota
	Warning
	Error
	Unreachable
)

func (s Status) String() string {
	switch s {
	case OK:
		return "ok"
	case Warning:
		return "warning"
	case Error:
		return "error"
	case Unreachable:
		return "unreachable"
	default:
		return "?"
	}
}

func (s Status) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

// Key is the results table's primary key: a program point (CFG node) under
// a given call context. CallContext is left as an opaque string (spec
// section 6 calls it "callsite + call context", a frontend-defined key the
// core never interprets) so this package stays agnostic to whatever
// context-sensitivity scheme, if any, a caller uses.
type Key struct {
	Node        ir.Node
	CallContext string
}

// Entry is one row of the results table: the abstract state recorded at
// Key, its status, and an optional free-form message (e.g. why a Warning
// could not be resolved to OK).
type Entry struct {
	Key     Key
	Status  Status
	Value   string // String() of the abstract domain value at this point
	Message string
}

// Table is the in-memory results table. Zero value is ready to use.
type Table struct {
	rows map[Key]Entry
}

// NewTable builds an empty results table.
func NewTable() *Table { return &Table{rows: map[Key]Entry{}} }

// Set records or overwrites the entry at key.
func (t *Table) Set(key Key, status Status, value, message string) {
	if t.rows == nil {
		t.rows = map[Key]Entry{}
	}
	t.rows[key] = Entry{Key: key, Status: status, Value: value, Message: message}
}

// Get returns the entry at key, if any.
func (t *Table) Get(key Key) (Entry, bool) {
	e, ok := t.rows[key]
	return e, ok
}

// ForEach iterates every entry in a deterministic order (by node, then call
// context), stopping early if fn returns false.
func (t *Table) ForEach(fn func(Entry) bool) {
	keys := make([]Key, 0, len(t.rows))
	for k := range t.rows {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Node != keys[j].Node {
			return keys[i].Node < keys[j].Node
		}
		return keys[i].CallContext < keys[j].CallContext
	})
	for _, k := range keys {
		if !fn(t.rows[k]) {
			return
		}
	}
}

// Len reports the number of rows currently recorded.
func (t *Table) Len() int { return len(t.rows) }

// MarshalJSON exports the table as a JSON array of entries, ordered the
// same way ForEach walks them, via the teacher's own JSON dependency
// (github.com/segmentio/encoding/json) rather than encoding/json.
func (t *Table) MarshalJSON() ([]byte, error) {
	entries := make([]Entry, 0, len(t.rows))
	t.ForEach(func(e Entry) bool {
		entries = append(entries, e)
		return true
	})
	return json.Marshal(entries)
}
