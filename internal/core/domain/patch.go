package domain

import (
	"bytes"
	"encoding/json"
	"time"
)

// Opt is a three-state JSON field used by partial updates. A plain pointer
// cannot distinguish "field absent" from "field sent as null", and those two
// states map to different outcomes (leave untouched vs. clear), so every
// optional field in a patch is wrapped in Opt.
//
//	absent  → Set=false
//	null    → Set=true, Null=true
//	value   → Set=true, Null=false, Value holds the decoded value
type Opt[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Some returns an Opt carrying v. Intended for tests and mappers.
func Some[T any](v T) Opt[T] {
	return Opt[T]{Set: true, Value: v}
}

// Null returns an Opt representing an explicit JSON null.
func Null[T any]() Opt[T] {
	return Opt[T]{Set: true, Null: true}
}

// Present reports whether the field carries a non-null value.
func (o Opt[T]) Present() bool {
	return o.Set && !o.Null
}

var jsonNull = []byte("null")

// UnmarshalJSON is only invoked by encoding/json when the field appears in
// the payload, which is what makes the absent state detectable: a field
// never decoded keeps Set=false.
func (o *Opt[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		o.Null = true
		var zero T
		o.Value = zero
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

func (o Opt[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Null {
		return jsonNull, nil
	}
	return json.Marshal(o.Value)
}

// TaskPatch is a partial task update. Field semantics are documented on the
// task service; the zero value is an empty patch that only refreshes the
// updated-at timestamp.
type TaskPatch struct {
	Title       Opt[string]
	Description Opt[string]
	Status      Opt[TaskStatus]
	Priority    Opt[TaskPriority]
	AssignedTo  Opt[string]
	DueDate     Opt[time.Time]
	Tags        Opt[[]string]
}

// ProfilePatch is a partial profile update. Unlike TaskPatch there is no
// null-means-clear convention: a null here is a validation error.
type ProfilePatch struct {
	Name               Opt[string]
	Bio                Opt[string]
	Role               Opt[string]
	Department         Opt[string]
	Theme              Opt[Theme]
	EmailNotifications Opt[bool]
	TaskReminders      Opt[bool]
}
