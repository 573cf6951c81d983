package wompi

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

const EventTransactionUpdated = "transaction.updated"

// ErrNotObject is returned by ParseEvent when the body is not a JSON object.
var ErrNotObject = errors.New("event body is not a json object")

// Event is a loosely typed gateway envelope. The shape is owned by the gateway
// and may grow; every accessor tolerates missing or mistyped fields.
type Event struct {
	raw map[string]any
}

// Transaction is the subset of data.transaction the reconciler reads.
type Transaction struct {
	ID            string
	Reference     string
	Status        string
	StatusMessage string
	AmountInCents string
}

// ParseEvent decodes body keeping numbers verbatim so checksums can be recomputed.
func ParseEvent(body []byte) (*Event, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	return &Event{raw: obj}, nil
}

// NewEvent wraps an already decoded document.
func NewEvent(doc map[string]any) *Event {
	if doc == nil {
		doc = map[string]any{}
	}
	return &Event{raw: doc}
}

// Lookup walks a dotted path from the envelope root.
func (e *Event) Lookup(path string) (any, bool) {
	if e == nil {
		return nil, false
	}
	return lookup(e.raw, path)
}

// String returns the canonical string form of the value at path, or "".
func (e *Event) String(path string) string {
	v, ok := e.Lookup(path)
	if !ok {
		return ""
	}
	s, _ := stringify(v)
	return s
}

func (e *Event) Name() string {
	return e.String("event")
}

func (e *Event) Timestamp() (string, bool) {
	v, ok := e.Lookup("timestamp")
	if !ok {
		return "", false
	}
	return stringify(v)
}

func (e *Event) Checksum() string {
	return e.String("signature.checksum")
}

// Properties returns signature.properties. ok is false when the list is missing
// or holds anything other than strings.
func (e *Event) Properties() ([]string, bool) {
	v, found := e.Lookup("signature.properties")
	if !found {
		return nil, false
	}
	list, isList := v.([]any)
	if !isList || len(list) == 0 {
		return nil, false
	}
	props := make([]string, 0, len(list))
	for _, item := range list {
		s, isString := item.(string)
		if !isString || strings.TrimSpace(s) == "" {
			return nil, false
		}
		props = append(props, s)
	}
	return props, true
}

// DataValue resolves a signature property path, which is relative to "data".
func (e *Event) DataValue(path string) (string, bool) {
	v, ok := e.Lookup("data." + path)
	if !ok {
		return "", false
	}
	return stringify(v)
}

func (e *Event) HasTransaction() bool {
	v, ok := e.Lookup("data.transaction")
	if !ok {
		return false
	}
	_, isObject := v.(map[string]any)
	return isObject
}

func (e *Event) Transaction() Transaction {
	return Transaction{
		ID:            e.String("data.transaction.id"),
		Reference:     strings.TrimSpace(e.String("data.transaction.reference")),
		Status:        e.String("data.transaction.status"),
		StatusMessage: e.String("data.transaction.status_message"),
		AmountInCents: e.String("data.transaction.amount_in_cents"),
	}
}

func lookup(root map[string]any, path string) (any, bool) {
	if path == "" {
		return nil, false
	}
	var cur any = root
	for _, key := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		next, exists := obj[key]
		if !exists || next == nil {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// stringify renders scalars the way they appeared on the wire. Objects and
// arrays are not signable.
func stringify(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case bool:
		return strconv.FormatBool(t), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	default:
		return "", false
	}
}
