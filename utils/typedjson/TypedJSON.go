// Package typedjson implements JSON (un)marshalling of interface
// values by tagging each encoded value with the name of its concrete
// type.
//
// A value is encoded as
//
//	{"type": "<name>", "config": <value>}
//
// and decoded by looking up the concrete type registered under
// "<name>".
package typedjson

import (
	"encoding/json"
	"fmt"
	"reflect"
)

type envelope struct {
	Type   string          `json:"type"`
	Config json.RawMessage `json:"config,omitempty"`
}

// Marshal encodes value tagged with typeName
func Marshal(typeName string, value interface{}) ([]byte, error) {
	config, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("marshal: %v", err)
	}
	return json.Marshal(envelope{Type: typeName, Config: config})
}

// Unmarshal decodes data into the concrete type registered under the
// encoded type name and returns it as a T together with the type name.
// Registered types must implement T.
func Unmarshal[T any](data []byte,
	registry map[string]reflect.Type) (T, string, error) {
	var zero T

	var e envelope
	if err := json.Unmarshal(data, &e); err != nil {
		return zero, "", fmt.Errorf("unmarshal: %v", err)
	}

	ty, ok := registry[e.Type]
	if !ok {
		return zero, "", fmt.Errorf("unmarshal: no such type %q", e.Type)
	}

	ptr := reflect.New(ty)
	if len(e.Config) > 0 {
		if err := json.Unmarshal(e.Config, ptr.Interface()); err != nil {
			return zero, "", fmt.Errorf("unmarshal: %v config: %v", e.Type,
				err)
		}
	}

	value, ok := ptr.Elem().Interface().(T)
	if !ok {
		return zero, "", fmt.Errorf("unmarshal: type %v does not "+
			"implement %T", ty, (*T)(nil))
	}
	return value, e.Type, nil
}
