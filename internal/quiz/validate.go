// Package quiz checks generator output against the ChordQuiz contract.
package quiz

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/vytor/chordflash/internal/models"
)

// ValidationError describes the first place where a response breaks the
// ChordQuiz contract. Field is a JSON path such as "keys[2].note".
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid chord quiz: " + e.Reason
	}
	return fmt.Sprintf("invalid chord quiz: %s: %s", e.Field, e.Reason)
}

// IsValidationError reports whether err wraps a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Parse decodes a JSON document and validates it.
func Parse(data []byte) (models.ChordQuiz, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return models.ChordQuiz{}, &ValidationError{Reason: fmt.Sprintf("malformed JSON: %v", err)}
	}
	if _, err := dec.Token(); err != io.EOF {
		return models.ChordQuiz{}, &ValidationError{Reason: "unexpected data after JSON object"}
	}
	return Validate(raw)
}

// Validate converts an untyped decoded JSON value into a ChordQuiz.
// Every field must be present with the right type and note labels must be
// one of the enumerated spellings. Coordinates and finger numbers are taken
// as given; nothing is defaulted or coerced.
func Validate(raw any) (models.ChordQuiz, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return models.ChordQuiz{}, wrongType("", "object", raw)
	}

	name, err := stringField(obj, "chord_name", "chord_name")
	if err != nil {
		return models.ChordQuiz{}, err
	}

	keysRaw, err := field(obj, "keys", "keys")
	if err != nil {
		return models.ChordQuiz{}, err
	}
	items, ok := keysRaw.([]any)
	if !ok {
		return models.ChordQuiz{}, wrongType("keys", "array", keysRaw)
	}
	keys := make([]models.KeyDescriptor, 0, len(items))
	for i, item := range items {
		k, err := validateKey(item, fmt.Sprintf("keys[%d]", i))
		if err != nil {
			return models.ChordQuiz{}, err
		}
		keys = append(keys, k)
	}

	explanation, err := stringField(obj, "explanation", "explanation")
	if err != nil {
		return models.ChordQuiz{}, err
	}

	return models.ChordQuiz{
		ChordName:   name,
		Keys:        keys,
		Explanation: explanation,
	}, nil
}

func validateKey(raw any, path string) (models.KeyDescriptor, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return models.KeyDescriptor{}, wrongType(path, "object", raw)
	}

	x, err := intField(obj, "x", path+".x")
	if err != nil {
		return models.KeyDescriptor{}, err
	}

	isBlackRaw, err := field(obj, "is_black", path+".is_black")
	if err != nil {
		return models.KeyDescriptor{}, err
	}
	isBlack, ok := isBlackRaw.(bool)
	if !ok {
		return models.KeyDescriptor{}, wrongType(path+".is_black", "boolean", isBlackRaw)
	}

	finger, err := intField(obj, "finger", path+".finger")
	if err != nil {
		return models.KeyDescriptor{}, err
	}

	label, err := stringField(obj, "note", path+".note")
	if err != nil {
		return models.KeyDescriptor{}, err
	}
	note, ok := models.ParseNoteName(label)
	if !ok {
		return models.KeyDescriptor{}, &ValidationError{
			Field:  path + ".note",
			Reason: fmt.Sprintf("unknown note %q (want one of %s)", label, strings.Join(models.NoteNameStrings(), ", ")),
		}
	}

	return models.KeyDescriptor{X: x, IsBlack: isBlack, Finger: finger, Note: note}, nil
}

func field(obj map[string]any, key, path string) (any, error) {
	v, ok := obj[key]
	if !ok {
		return nil, &ValidationError{Field: path, Reason: "required field is missing"}
	}
	return v, nil
}

func stringField(obj map[string]any, key, path string) (string, error) {
	v, err := field(obj, key, path)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", wrongType(path, "string", v)
	}
	return s, nil
}

func intField(obj map[string]any, key, path string) (int, error) {
	v, err := field(obj, key, path)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return toInt(i, path)
		}
		f, err := n.Float64()
		if err != nil && !math.IsInf(f, 0) {
			return 0, wrongType(path, "integer", v)
		}
		return floatToInt(f, path, v)
	case float64:
		return floatToInt(n, path, v)
	case int:
		return n, nil
	case int64:
		return toInt(n, path)
	default:
		return 0, wrongType(path, "integer", v)
	}
}

// floatToInt accepts whole numbers only; 1.0 is 1, 1.5 is not an integer.
func floatToInt(f float64, path string, raw any) (int, error) {
	if math.IsNaN(f) || f != math.Trunc(f) {
		return 0, wrongType(path, "integer", raw)
	}
	if math.IsInf(f, 0) || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, outOfRange(path, raw)
	}
	return toInt(int64(f), path)
}

func toInt(i int64, path string) (int, error) {
	if int64(int(i)) != i {
		return 0, outOfRange(path, i)
	}
	return int(i), nil
}

func outOfRange(path string, raw any) error {
	return &ValidationError{
		Field:  path,
		Reason: fmt.Sprintf("integer %v does not fit in int", raw),
	}
}

func wrongType(path, want string, got any) error {
	return &ValidationError{
		Field:  path,
		Reason: fmt.Sprintf("expected %s, got %s", want, jsonTypeName(got)),
	}
}

func jsonTypeName(v any) string {
	switch n := v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number:
		return "number " + n.String()
	case float64, int, int64:
		return fmt.Sprintf("number %v", n)
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
