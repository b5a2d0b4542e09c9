package jsonval

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrEmptyInput is returned when the input contains no JSON value.
	ErrEmptyInput = errors.New("jsonval: empty input")

	// ErrTrailingData is returned when bytes follow the first JSON value.
	ErrTrailingData = errors.New("jsonval: trailing data after value")
)

// frame is one partially-built container on the parser stack.
type frame struct {
	value   Value
	key     string
	haveKey bool
}

// Parse decodes a single JSON value, preserving object member order and
// number text. Containers are assembled over an explicit stack, so input
// nesting depth is not bounded by the call stack.
func Parse(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	root, err := parseValue(dec)
	if err != nil {
		return Value{}, err
	}

	if dec.More() {
		return Value{}, ErrTrailingData
	}

	return root, nil
}

// parseValue consumes exactly one JSON value from the decoder.
func parseValue(dec *json.Decoder) (Value, error) {
	var stack []frame

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return Value{}, ErrEmptyInput
		}

		if err != nil {
			return Value{}, fmt.Errorf("jsonval: decode: %w", err)
		}

		if delim, ok := tok.(json.Delim); ok {
			switch delim {
			case '{':
				stack = append(stack, frame{value: Value{Kind: KindObject}})

				continue
			case '[':
				stack = append(stack, frame{value: Value{Kind: KindArray}})

				continue
			case '}', ']':
				done := stack[len(stack)-1].value
				stack = stack[:len(stack)-1]

				if len(stack) == 0 {
					return done, nil
				}

				attach(&stack[len(stack)-1], done)

				continue
			}
		}

		leaf := tokenValue(tok)

		if len(stack) == 0 {
			// Whole document is a scalar.
			return leaf, nil
		}

		top := &stack[len(stack)-1]

		// Inside an object, string tokens alternate between keys and values.
		if top.value.Kind == KindObject && !top.haveKey {
			key, isString := tok.(string)
			if !isString {
				return Value{}, fmt.Errorf("jsonval: decode: unexpected object key token %v", tok)
			}

			top.key = key
			top.haveKey = true

			continue
		}

		attach(top, leaf)
	}
}

// attach adds a completed child value to the container on top of the stack.
func attach(parent *frame, child Value) {
	if parent.value.Kind == KindObject {
		parent.value.Obj = append(parent.value.Obj, Member{Key: parent.key, Value: child})
		parent.haveKey = false

		return
	}

	parent.value.Arr = append(parent.value.Arr, child)
}

// tokenValue converts a non-delimiter decoder token into a scalar Value.
func tokenValue(tok json.Token) Value {
	switch t := tok.(type) {
	case nil:
		return Null()
	case bool:
		return Bool(t)
	case json.Number:
		return Value{Kind: KindNumber, Num: t}
	case string:
		return String(t)
	default:
		// json.Decoder only emits the cases above for non-delimiter tokens.
		return String(fmt.Sprint(t))
	}
}
