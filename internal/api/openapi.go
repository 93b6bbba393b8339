package api

import (
	"fmt"
	"net/http"

	"github.com/mosaicintel/mosaic/internal/config"
	"github.com/mosaicintel/mosaic/pkg/openapi"
)

// buildSpec assembles the OpenAPI document for the API surface. The spec is
// serialized once at startup and served as static bytes.
func buildSpec(cfg *config.Config, storageEnabled bool) ([]byte, error) {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)

	spec.Components.AddSchemas(map[string]*openapi.Schema{
		"TaxonomyEntry": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":             {Type: "integer"},
				"parent_id":      {Type: "integer"},
				"name":           {Type: "string"},
				"path":           {Type: "string", Description: "Tier labels joined with ' | '"},
				"depth":          {Type: "integer", Minimum: ptr(1.0), Maximum: ptr(5.0)},
				"grouping_tier":  {Type: "string", Enum: []any{"tier_2", "tier_3"}},
				"grouping_value": {Type: "string"},
			},
		},
		"EvidenceItem": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":          {Type: "string", Format: "uuid"},
				"subject":     {Type: "string"},
				"sender":      {Type: "string"},
				"body":        {Type: "string"},
				"received_at": {Type: "string", Format: "date-time"},
			},
		},
		"EvidenceBatch": {
			Type:  "array",
			Items: openapi.SchemaRef("EvidenceItem"),
		},
		"AnalyzeRequest": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"since": {Type: "string", Format: "date-time", Description: "Only evidence received after this time is analyzed"},
			},
		},
		"AnalysisResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"user_id":                 {Type: "string"},
				"emails_processed":        {Type: "integer"},
				"classifications_added":   {Type: "integer"},
				"classifications_updated": {Type: "integer"},
				"profile":                 {Type: "object"},
				"run":                     openapi.SchemaRef("Run"),
				"completed_at":            {Type: "string", Format: "date-time"},
			},
		},
		"Profile": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"schema_version":         {Type: "string", Example: "2.0"},
				"user_id":                {Type: "string"},
				"generated_at":           {Type: "string", Format: "date-time"},
				"tiered_classifications": {Type: "object"},
			},
		},
		"Classification": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"taxonomy_id":    {Type: "integer"},
				"section":        {Type: "string"},
				"value":          {Type: "string"},
				"confidence":     {Type: "number", Minimum: ptr(0.0), Maximum: ptr(1.0)},
				"evidence_count": {Type: "integer"},
				"needs_review":   {Type: "boolean"},
			},
		},
		"Run": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":                      {Type: "string", Format: "uuid"},
				"user_id":                 {Type: "string"},
				"emails_processed":        {Type: "integer"},
				"classifications_added":   {Type: "integer"},
				"classifications_updated": {Type: "integer"},
				"status":                  {Type: "string", Enum: []any{"completed", "failed"}},
				"error":                   {Type: "string"},
				"started_at":              {Type: "string", Format: "date-time"},
				"completed_at":            {Type: "string", Format: "date-time"},
			},
		},
	})

	addTaxonomyPaths(spec)
	addProfilePaths(spec)
	addRunPaths(spec)
	if storageEnabled {
		addExportPaths(spec)
	}

	data, err := openapi.MarshalJSON(spec)
	if err != nil {
		return nil, fmt.Errorf("marshal openapi spec: %w", err)
	}
	return data, nil
}

func addTaxonomyPaths(spec *openapi.Spec) {
	spec.Paths["/taxonomy/sections"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List taxonomy sections",
			Tags:    []string{"taxonomy"},
			Responses: map[int]*openapi.Response{
				200: {
					Description: "Section names in source order",
					Content: map[string]*openapi.MediaType{
						"application/json": {Schema: &openapi.Schema{Type: "array", Items: &openapi.Schema{Type: "string"}}},
					},
				},
			},
		},
	}
	spec.Paths["/taxonomy/sections/{section}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "List entries in a section",
			Tags:       []string{"taxonomy"},
			Parameters: []*openapi.Parameter{openapi.PathParamString("section", "Section name")},
			Responses: map[int]*openapi.Response{
				200: {
					Description: "Entries in the section",
					Content: map[string]*openapi.MediaType{
						"application/json": {Schema: &openapi.Schema{Type: "array", Items: openapi.SchemaRef("TaxonomyEntry")}},
					},
				},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}
	spec.Paths["/taxonomy/sections/{section}/context"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Render the prompt context for a section",
			Tags:       []string{"taxonomy"},
			Parameters: []*openapi.Parameter{openapi.PathParamString("section", "Section name")},
			Responses: map[int]*openapi.Response{
				200: {
					Description: "Rendered section context",
					Content: map[string]*openapi.MediaType{
						"application/json": {Schema: &openapi.Schema{
							Type: "object",
							Properties: map[string]*openapi.Schema{
								"section": {Type: "string"},
								"context": {Type: "string"},
							},
						}},
					},
				},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}
	spec.Paths["/taxonomy/entries/{id}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Find a taxonomy entry",
			Tags:       []string{"taxonomy"},
			Parameters: []*openapi.Parameter{openapi.PathParamString("id", "Numeric taxonomy id")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("The entry", "TaxonomyEntry"),
				400: openapi.ResponseRef("BadRequest"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}
	spec.Paths["/taxonomy/search"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Search entries by name",
			Tags:       []string{"taxonomy"},
			Parameters: []*openapi.Parameter{openapi.QueryParam("term", "string", "Name substring", false)},
			Responses: map[int]*openapi.Response{
				200: {
					Description: "Matching entries",
					Content: map[string]*openapi.MediaType{
						"application/json": {Schema: &openapi.Schema{Type: "array", Items: openapi.SchemaRef("TaxonomyEntry")}},
					},
				},
			},
		},
	}
}

func addProfilePaths(spec *openapi.Spec) {
	userParam := openapi.PathParamString("user", "User identifier")

	spec.Paths["/profiles/{user}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Get the current profile snapshot",
			Tags:       []string{"profiles"},
			Parameters: []*openapi.Parameter{userParam},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("The profile document", "Profile"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}
	spec.Paths["/profiles/{user}/classifications"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "List reconciled classifications",
			Tags:       []string{"profiles"},
			Parameters: []*openapi.Parameter{userParam},
			Responses: map[int]*openapi.Response{
				200: {
					Description: "Classification records, recalibrated to now",
					Content: map[string]*openapi.MediaType{
						"application/json": {Schema: &openapi.Schema{Type: "array", Items: openapi.SchemaRef("Classification")}},
					},
				},
			},
		},
	}
	spec.Paths["/profiles/{user}/evidence"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Ingest evidence items",
			Tags:        []string{"profiles"},
			Parameters:  []*openapi.Parameter{userParam},
			RequestBody: openapi.RequestBodyJSON("EvidenceBatch", true),
			Responses: map[int]*openapi.Response{
				201: openapi.ResponseJSON("Stored items with assigned ids", "EvidenceBatch"),
				400: openapi.ResponseRef("BadRequest"),
			},
		},
	}
	spec.Paths["/profiles/{user}/analyze"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Run the analysis pipeline",
			Tags:        []string{"profiles"},
			Parameters:  []*openapi.Parameter{userParam},
			RequestBody: openapi.RequestBodyJSON("AnalyzeRequest", false),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("The run result", "AnalysisResult"),
				400: openapi.ResponseRef("BadRequest"),
			},
		},
	}
}

func addRunPaths(spec *openapi.Spec) {
	spec.Paths["/runs"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List analysis runs",
			Tags:    []string{"runs"},
			Parameters: []*openapi.Parameter{
				openapi.QueryParam("page", "integer", "Page number", false),
				openapi.QueryParam("page_size", "integer", "Results per page", false),
				openapi.QueryParam("user_id", "string", "Filter by user", false),
				openapi.QueryParam("status", "string", "Filter by status", false),
			},
			Responses: map[int]*openapi.Response{
				200: {
					Description: "Paginated runs",
					Content: map[string]*openapi.MediaType{
						"application/json": {Schema: &openapi.Schema{Type: "object"}},
					},
				},
			},
		},
	}
	spec.Paths["/runs/{id}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Find a run",
			Tags:       []string{"runs"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Run id")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("The run", "Run"),
				400: openapi.ResponseRef("BadRequest"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}
	spec.Paths["/runs/search"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Search runs",
			Tags:        []string{"runs"},
			RequestBody: openapi.RequestBodyJSON("PageRequest", true),
			Responses: map[int]*openapi.Response{
				200: {
					Description: "Paginated runs",
					Content: map[string]*openapi.MediaType{
						"application/json": {Schema: &openapi.Schema{Type: "object"}},
					},
				},
				400: openapi.ResponseRef("BadRequest"),
			},
		},
	}
}

func addExportPaths(spec *openapi.Spec) {
	spec.Paths["/exports"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "List exported profile blobs",
			Tags:       []string{"exports"},
			Parameters: []*openapi.Parameter{openapi.QueryParam("prefix", "string", "Key prefix filter", false)},
			Responses: map[int]*openapi.Response{
				200: {
					Description: "Blob keys",
					Content: map[string]*openapi.MediaType{
						"application/json": {Schema: &openapi.Schema{Type: "array", Items: &openapi.Schema{Type: "string"}}},
					},
				},
			},
		},
	}
	spec.Paths["/exports/download/{key}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Download an exported profile",
			Tags:       []string{"exports"},
			Parameters: []*openapi.Parameter{openapi.PathParamString("key", "Blob key")},
			Responses: map[int]*openapi.Response{
				200: {Description: "Blob content"},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}
	spec.Paths["/exports/{key}"] = &openapi.PathItem{
		Delete: &openapi.Operation{
			Summary:    "Delete an exported profile",
			Tags:       []string{"exports"},
			Parameters: []*openapi.Parameter{openapi.PathParamString("key", "Blob key")},
			Responses: map[int]*openapi.Response{
				204: {Description: "Deleted"},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}
}

func specRoute(data []byte) (string, http.HandlerFunc) {
	return "GET /openapi.json", openapi.ServeSpec(data)
}

func ptr(v float64) *float64 { return &v }
