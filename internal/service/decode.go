package service

import (
	"errors"
	"fmt"
	"math"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// ErrInvalidRequest is returned by DecodeRequest for payloads that do not
// describe a request exactly.
var ErrInvalidRequest = errors.New("invalid request")

// DecodeRequest fills out, a pointer to one of the request types, from a
// generic document such as a protobuf Struct or MCP tool arguments. Numbers
// in those documents are doubles; fractions, negatives for unsigned fields,
// values that overflow the field, and unknown keys are all rejected rather
// than truncated.
func DecodeRequest(in map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      out,
		ErrorUnused: true,
		DecodeHook:  exactNumberHook,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(in); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}

// exactNumberHook lets a float through only when the integer field it lands
// in can hold it without loss.
func exactNumberHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.Float64 && from.Kind() != reflect.Float32 {
		return data, nil
	}
	for to.Kind() == reflect.Pointer {
		to = to.Elem()
	}
	f := reflect.ValueOf(data).Float()

	var lo, hi float64
	switch to.Kind() {
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uint:
		lo, hi = 0, math.Ldexp(1, to.Bits())
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64, reflect.Int:
		lo, hi = -math.Ldexp(1, to.Bits()-1), math.Ldexp(1, to.Bits()-1)
	default:
		return data, nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return nil, fmt.Errorf("%v is not an integer", f)
	}
	if f < lo || f >= hi {
		return nil, fmt.Errorf("%v is out of range for %s", f, to.Kind())
	}
	return data, nil
}
