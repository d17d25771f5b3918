package quiz

import "github.com/vytor/chordflash/internal/models"

// SchemaName is the name the contract is registered under with providers
// that take named JSON schemas.
const SchemaName = "ChordQuiz"

// JSONSchema returns the JSON Schema of the ChordQuiz contract. A new map is
// built on every call so callers may modify the result.
func JSONSchema() map[string]any {
	key := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"x": map[string]any{
				"type":        "integer",
				"description": "Left edge of the key in diagram coordinates",
			},
			"is_black": map[string]any{
				"type":        "boolean",
				"description": "Whether the key is a black key",
			},
			"finger": map[string]any{
				"type":        "integer",
				"description": "Finger number, 1 (thumb) to 5 (little finger)",
			},
			"note": map[string]any{
				"type":        "string",
				"description": "Note name",
				"enum":        models.NoteNameStrings(),
			},
		},
		"required":             []string{"x", "is_black", "finger", "note"},
		"additionalProperties": false,
	}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"chord_name": map[string]any{
				"type":        "string",
				"description": "Chord symbol, e.g. GM7",
			},
			"keys": map[string]any{
				"type":        "array",
				"description": "Keys to press, in play order",
				"items":       key,
			},
			"explanation": map[string]any{
				"type":        "string",
				"description": "Explanation of the fingering",
			},
		},
		"required":             []string{"chord_name", "keys", "explanation"},
		"additionalProperties": false,
	}
}
