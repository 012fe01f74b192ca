package synth

// ResponseSchema validates the oracle's template synthesis output.
var ResponseSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"components": map[string]any{
			"type":        "array",
			"description": "Ordered component placeholders for the section template",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"type": map[string]any{
						"type": "string",
						"enum": []string{"text", "table", "chart", "image", "kpi"},
					},
					"title": map[string]any{
						"type":        "string",
						"description": "Short placeholder title",
					},
					"description": map[string]any{
						"type":        []string{"string", "null"},
						"description": "What the author should put here",
					},
					"required": map[string]any{
						"type":        "boolean",
						"description": "Whether the component must be filled in",
					},
					"order": map[string]any{
						"type":        "integer",
						"description": "1-based position within the template",
					},
					"default_value": map[string]any{
						"type":        []string{"string", "null"},
						"description": "Optional pre-filled value",
					},
					"data_fields": map[string]any{
						"type":        "array",
						"items":       map[string]any{"type": "string"},
						"description": "Field names the component draws data from",
					},
				},
				"required":             []string{"type", "title", "required"},
				"additionalProperties": false,
			},
		},
		"instructions": map[string]any{
			"type":        "string",
			"description": "Short guidance for a human author completing the section",
		},
	},
	"required":             []string{"components", "instructions"},
	"additionalProperties": false,
}

// responseComponent mirrors one placeholder in the oracle response.
type responseComponent struct {
	Type         string   `json:"type"`
	Title        string   `json:"title"`
	Description  *string  `json:"description"`
	Required     bool     `json:"required"`
	Order        int      `json:"order"`
	DefaultValue *string  `json:"default_value"`
	DataFields   []string `json:"data_fields"`
}

// response is the parsed oracle synthesis result.
type response struct {
	Components   []responseComponent `json:"components"`
	Instructions string              `json:"instructions"`
}
