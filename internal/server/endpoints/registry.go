package endpoints

import (
	"github.com/informeapp/informe/internal/api"
)

// All returns all endpoint instances.
func All() []api.Endpoint {
	return []api.Endpoint{
		// Health endpoints
		&HealthEndpoint{},
		&ReadyEndpoint{},
		&StatusEndpoint{},

		// Document analysis
		&AnalyzeEndpoint{},

		// Area catalog
		&ListAreasEndpoint{},
		&ReplaceAreasEndpoint{},

		// Stored analyses
		&ListAnalysesEndpoint{},
		&GetAnalysisEndpoint{},
		&DeleteAnalysisEndpoint{},
	}
}
