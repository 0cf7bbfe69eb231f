package tree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"unicode/utf16"

	"github.com/buger/jsonparser"
)

// Parse decodes a JSON document into a Value. Object keys keep their document
// order.
func Parse(data []byte) (*Value, error) {
	// jsonparser is lenient about malformed input, so validate strictly first.
	if !json.Valid(data) {
		return nil, fmt.Errorf("not a valid JSON document")
	}
	data = replaceLoneSurrogates(data)
	raw, dataType, _, err := jsonparser.Get(data)
	if err != nil {
		return nil, fmt.Errorf("read root value: %w", err)
	}
	return build(raw, dataType)
}

func build(raw []byte, dataType jsonparser.ValueType) (*Value, error) {
	switch dataType {
	case jsonparser.Null:
		return Null(), nil

	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(raw)
		if err != nil {
			return nil, fmt.Errorf("parse boolean %q: %w", raw, err)
		}
		return Bool(b), nil

	case jsonparser.Number:
		literal := string(raw)
		f, err := strconv.ParseFloat(literal, 64)
		if err != nil && !isRangeError(err) {
			return nil, fmt.Errorf("parse number %q: %w", literal, err)
		}
		// Out-of-range literals keep their ±Inf value; callers decide what
		// to do with them.
		return &Value{kind: KindNumber, number: f, literal: literal}, nil

	case jsonparser.String:
		s, err := jsonparser.ParseString(raw)
		if err != nil {
			return nil, fmt.Errorf("parse string: %w", err)
		}
		return String(s), nil

	case jsonparser.Array:
		list := List()
		var inner error
		_, err := jsonparser.ArrayEach(raw, func(value []byte, dt jsonparser.ValueType, _ int, err error) {
			if inner != nil {
				return
			}
			if err != nil {
				inner = err
				return
			}
			item, err := build(value, dt)
			if err != nil {
				inner = err
				return
			}
			list.items = append(list.items, item)
		})
		if inner != nil {
			return nil, inner
		}
		if err != nil {
			return nil, fmt.Errorf("parse array: %w", err)
		}
		return list, nil

	case jsonparser.Object:
		m := Map()
		err := jsonparser.ObjectEach(raw, func(key []byte, value []byte, dt jsonparser.ValueType, _ int) error {
			// ObjectEach hands over keys already unescaped.
			k := string(key)
			child, err := build(value, dt)
			if err != nil {
				return err
			}
			m.set(k, child)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("parse object: %w", err)
		}
		return m, nil
	}

	return nil, fmt.Errorf("unsupported value type %s", dataType)
}

func isRangeError(err error) bool {
	numErr, ok := err.(*strconv.NumError)
	return ok && numErr.Err == strconv.ErrRange
}

// replaceLoneSurrogates rewrites \u escapes of unpaired UTF-16 surrogates as
// \ufffd. JSON allows them but they have no UTF-8 form, and jsonparser
// rejects them in both keys and values. Backslashes only occur inside strings
// in valid JSON, so a byte scan is enough.
func replaceLoneSurrogates(data []byte) []byte {
	if !bytes.Contains(data, []byte(`\u`)) {
		return data
	}
	var out []byte // allocated on the first replacement
	for i := 0; i < len(data); i++ {
		if data[i] != '\\' {
			if out != nil {
				out = append(out, data[i])
			}
			continue
		}
		if data[i+1] == 'u' {
			if r, ok := hexRune(data, i+2); ok && utf16.IsSurrogate(r) {
				if isPair(data, i, r) {
					if out != nil {
						out = append(out, data[i:i+12]...)
					}
					i += 11
					continue
				}
				if out == nil {
					out = append(make([]byte, 0, len(data)), data[:i]...)
				}
				out = append(out, `\ufffd`...)
				i += 5
				continue
			}
		}
		// Any other escape: copy the backslash and the escaped byte.
		if out != nil {
			out = append(out, data[i:i+2]...)
		}
		i++
	}
	if out == nil {
		return data
	}
	return out
}

// isPair reports whether the high surrogate r escaped at data[i:] is
// directly followed by an escaped low surrogate.
func isPair(data []byte, i int, r rune) bool {
	if r >= 0xdc00 || i+12 > len(data) || data[i+6] != '\\' || data[i+7] != 'u' {
		return false
	}
	low, ok := hexRune(data, i+8)
	return ok && low >= 0xdc00 && low <= 0xdfff
}

func hexRune(data []byte, at int) (rune, bool) {
	if at+4 > len(data) {
		return 0, false
	}
	n, err := strconv.ParseUint(string(data[at:at+4]), 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(n), true
}
