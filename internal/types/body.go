package types

import (
	"encoding/json"
	"fmt"
)

// BodyKind tags the shape of a request or response body.
type BodyKind int

const (
	BodyNull BodyKind = iota
	BodyObject
	BodyArray
	BodyText
)

// Body is a request/response payload carried as an explicit tagged union
// instead of a bare interface{}. Exactly one of Object, Array, or Text is
// meaningful, selected by Kind; BodyNull means "no body".
type Body struct {
	Kind   BodyKind
	Object map[string]any
	Array  []any
	Text   string
}

// ObjectBody wraps a JSON object.
func ObjectBody(obj map[string]any) *Body {
	return &Body{Kind: BodyObject, Object: obj}
}

// ArrayBody wraps a JSON array.
func ArrayBody(arr []any) *Body {
	return &Body{Kind: BodyArray, Array: arr}
}

// TextBody wraps an opaque text payload.
func TextBody(text string) *Body {
	return &Body{Kind: BodyText, Text: text}
}

// BodyFromAny converts a decoded JSON value into a Body. Scalars other than
// strings become their text rendering.
func BodyFromAny(v any) *Body {
	switch val := v.(type) {
	case nil:
		return nil
	case map[string]any:
		return ObjectBody(val)
	case []any:
		return ArrayBody(val)
	case string:
		return TextBody(val)
	default:
		return TextBody(fmt.Sprint(val))
	}
}

// IsNull reports whether the body is absent.
func (b *Body) IsNull() bool {
	return b == nil || b.Kind == BodyNull
}

// Value returns the underlying dynamic value.
func (b *Body) Value() any {
	if b == nil {
		return nil
	}
	switch b.Kind {
	case BodyObject:
		return b.Object
	case BodyArray:
		return b.Array
	case BodyText:
		return b.Text
	default:
		return nil
	}
}

// String renders the body for keyword matching and diagnostics. Objects and
// arrays render as compact JSON.
func (b *Body) String() string {
	if b == nil {
		return ""
	}
	switch b.Kind {
	case BodyObject, BodyArray:
		data, err := json.Marshal(b.Value())
		if err != nil {
			return ""
		}
		return string(data)
	case BodyText:
		return b.Text
	default:
		return ""
	}
}

// MarshalJSON emits the underlying value; a null body marshals as null.
func (b *Body) MarshalJSON() ([]byte, error) {
	if b == nil || b.Kind == BodyNull {
		return []byte("null"), nil
	}
	return json.Marshal(b.Value())
}

// UnmarshalJSON classifies the incoming value into the union.
func (b *Body) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch val := v.(type) {
	case nil:
		*b = Body{Kind: BodyNull}
	case map[string]any:
		*b = Body{Kind: BodyObject, Object: val}
	case []any:
		*b = Body{Kind: BodyArray, Array: val}
	case string:
		*b = Body{Kind: BodyText, Text: val}
	default:
		*b = Body{Kind: BodyText, Text: fmt.Sprint(val)}
	}
	return nil
}
