package segment

// ResponseSchema validates the oracle's segmentation output before any field
// is trusted.
var ResponseSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"sections": map[string]any{
			"type":        "array",
			"description": "All logical sections in reading order",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"title": map[string]any{
						"type":        "string",
						"description": "Section title",
					},
					"subtitle": map[string]any{
						"type":        []string{"string", "null"},
						"description": "Optional subtitle",
					},
					"content": map[string]any{
						"type":        "string",
						"description": "Raw text of the section",
					},
					"page_number": map[string]any{
						"type":        "integer",
						"description": "Page the section starts on (1-indexed)",
					},
					"order": map[string]any{
						"type":        "integer",
						"description": "1-based position in reading order",
					},
					"keywords": map[string]any{
						"type":        "array",
						"items":       map[string]any{"type": "string"},
						"description": "Salient keywords for the section",
					},
					"content_type": map[string]any{
						"type":        []string{"string", "null"},
						"description": "Dominant content kind: narrative, tabular, metrics, mixed",
					},
				},
				"required":             []string{"title", "content", "page_number"},
				"additionalProperties": false,
			},
		},
	},
	"required":             []string{"sections"},
	"additionalProperties": false,
}

// responseSection mirrors one entry of the oracle response.
type responseSection struct {
	Title       string   `json:"title"`
	Subtitle    *string  `json:"subtitle"`
	Content     string   `json:"content"`
	PageNumber  int      `json:"page_number"`
	Order       int      `json:"order"`
	Keywords    []string `json:"keywords"`
	ContentType *string  `json:"content_type"`
}

// response is the parsed oracle segmentation result.
type response struct {
	Sections []responseSection `json:"sections"`
}
