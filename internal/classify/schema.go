package classify

// ResponseSchema validates the oracle's classification output.
var ResponseSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"area_id": map[string]any{
			"type":        "integer",
			"description": "ID of the single best-fit area from the catalog",
		},
		"confidence": map[string]any{
			"type":        "number",
			"minimum":     0,
			"maximum":     1,
			"description": "Confidence in the assignment, 0.0-1.0",
		},
		"reasoning": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"description": "Short reasons supporting the assignment",
		},
		"required_components": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "string",
				"enum": []string{"text", "table", "chart", "image", "kpi"},
			},
			"description": "Component types a section owned by this area should contain",
		},
	},
	"required":             []string{"area_id", "confidence"},
	"additionalProperties": false,
}

// response is the parsed oracle classification result.
type response struct {
	AreaID             int      `json:"area_id"`
	Confidence         float64  `json:"confidence"`
	Reasoning          []string `json:"reasoning"`
	RequiredComponents []string `json:"required_components"`
}
