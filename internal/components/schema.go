package components

// KPISchema validates the oracle's KPI extraction output.
var KPISchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"kpis": map[string]any{
			"type":        "array",
			"description": "Named metrics found in the section",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name": map[string]any{
						"type":        "string",
						"description": "Metric name as written (e.g. 'Revenue growth')",
					},
					"value": map[string]any{
						"type":        "string",
						"description": "Metric value as written (e.g. '12.5%')",
					},
					"description": map[string]any{
						"type":        []string{"string", "null"},
						"description": "Short context for the metric",
					},
				},
				"required":             []string{"name", "value"},
				"additionalProperties": false,
			},
		},
	},
	"required":             []string{"kpis"},
	"additionalProperties": false,
}

// kpiEntry mirrors one metric in the oracle response.
type kpiEntry struct {
	Name        string  `json:"name"`
	Value       string  `json:"value"`
	Description *string `json:"description"`
}

// kpiResponse is the parsed oracle KPI result.
type kpiResponse struct {
	KPIs []kpiEntry `json:"kpis"`
}
