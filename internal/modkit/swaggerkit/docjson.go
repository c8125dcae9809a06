//go:build swag

package swaggerkit

import (
	"encoding/json"
	"net/http"
	"strings"

	"spillway/internal/platform/config"

	docs "spillway/internal/services/api/docs"
)

// docReader is a seam so tests can inject invalid JSON without patching swagger
var docReader = func() string { return docs.SwaggerInfo.ReadDoc() }

// serveDocJSON serves swagger JSON with the runtime wire stamped in:
// the error envelope model, default failure responses, and the security
// schemes recorded while routes mounted
func serveDocJSON() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := docReader()

		var spec map[string]any
		if err := json.Unmarshal([]byte(raw), &spec); err != nil {
			http.Error(w, "spec parse error", http.StatusInternalServerError)
			return
		}

		// OAS3 base url lives in servers, not BasePath
		ensureServers(spec, "/api")

		// optional global tweaks go here
		cfg := config.New().Prefix("CORE_API_")
		if v := cfg.MayString("DOCS_TITLE_SUFFIX", ""); v != "" {
			if info, ok := spec["info"].(map[string]any); ok {
				if title, ok := info["title"].(string); ok {
					info["title"] = title + " " + v
				}
			}
		}

		ensureErrorResponseDefinition(spec)
		addDefaultError(spec)
		addDefaultBadRequest(spec)
		applySecurity(spec)

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(spec)
	}
}

// ensureServers makes sure the spec is OAS3 and has a servers array
// swagger http ui can't support 3.1 at the moment, so downconvert if needed
func ensureServers(spec map[string]any, url string) {
	// if it's swagger 2, lift to oas3
	if _, hasSwagger := spec["swagger"]; hasSwagger {
		spec["openapi"] = "3.0.3"
		delete(spec, "swagger")
	}

	// if it's already oas3, downsample 3.1 -> 3.0.3
	if v, ok := spec["openapi"].(string); ok {
		if strings.HasPrefix(v, "3.1") {
			spec["openapi"] = "3.0.3"
		}
	} else {
		// no version set at all: pick a sane default
		spec["openapi"] = "3.0.3"
	}

	// ensure servers
	if _, ok := spec["servers"]; !ok {
		spec["servers"] = []any{
			map[string]any{"url": url},
		}
	}
}

// ensureComponents returns the components.schemas maps, creating them if absent
func ensureComponents(spec map[string]any) (map[string]any, map[string]any) {
	comps, ok := spec["components"].(map[string]any)
	if !ok {
		comps = map[string]any{}
		spec["components"] = comps
	}
	schemas, ok := comps["schemas"].(map[string]any)
	if !ok {
		schemas = map[string]any{}
		comps["schemas"] = schemas
	}
	return comps, schemas
}

// ensureErrorResponseDefinition creates a simple error envelope model if missing
// kept minimal so it does not drift from the runtime wire
func ensureErrorResponseDefinition(spec map[string]any) {
	_, schemas := ensureComponents(spec)
	if _, ok := schemas["ErrorResponse"]; ok {
		return
	}
	schemas["ErrorResponse"] = map[string]any{
		"type":        "object",
		"description": "Standard error response",
		"properties": map[string]any{
			"status_code": map[string]any{"type": "integer", "format": "int32"},
			"status":      map[string]any{"type": "string"},
			"code":        map[string]any{"type": "string"},
			"error":       map[string]any{"type": "string"},
			"request_id":  map[string]any{"type": "string"},
			"error_id":    map[string]any{"type": "string"},
		},
		"required": []any{"status_code", "status"},
	}
}

// addDefaultError walks every operation and injects a 500 response if absent
// OAS3 version using content.application/json.schema
func addDefaultError(spec map[string]any) {
	errResp := map[string]any{
		"description": "Internal Server Error",
		"content": map[string]any{
			"application/json": map[string]any{
				"schema": map[string]any{"$ref": "#/components/schemas/ErrorResponse"},
				"example": map[string]any{
					"status_code": 500,
					"status":      "error",
					"code":        "INTERNAL_ERROR",
					"error":       "panic recovered",
					"request_id":  "spillway-api-7f9c/x2K9rT-000042",
					"error_id":    "5f0c1b0e-0000-4000-8000-000000000000",
				},
			},
		},
	}
	eachOperation(spec, func(_, _ string, op map[string]any) {
		responses := ensureResponses(op)
		if _, exists := responses["500"]; !exists {
			responses["500"] = errResp
		}
	})
}

// addDefaultBadRequest injects a 400 example that mirrors the binder wording
func addDefaultBadRequest(spec map[string]any) {
	br := map[string]any{
		"description": "Bad Request",
		"content": map[string]any{
			"application/json": map[string]any{
				"schema": map[string]any{"$ref": "#/components/schemas/ErrorResponse"},
				"example": map[string]any{
					"status_code": 400,
					"status":      "error",
					"code":        "VALIDATION_FAILED",
					"error":       "level must be one of [debug info warn error fatal]",
					"request_id":  "spillway-api-7f9c/x2K9rT-000042",
				},
			},
		},
	}
	eachOperation(spec, func(_, _ string, op map[string]any) {
		responses := ensureResponses(op)
		if _, exists := responses["400"]; !exists {
			responses["400"] = br
		}
	})
}

// applySecurity declares the credential header schemes and stamps every
// operation the routers marked while mounting. Signed routes require the
// key and signature pair; admin routes the shared token
func applySecurity(spec map[string]any) {
	marked := securedSnapshot()
	if len(marked) == 0 {
		return
	}

	comps, _ := ensureComponents(spec)
	schemes, ok := comps["securitySchemes"].(map[string]any)
	if !ok {
		schemes = map[string]any{}
		comps["securitySchemes"] = schemes
	}
	schemes["ProjectKey"] = map[string]any{
		"type": "apiKey", "in": "header", "name": "X-Project-Key",
	}
	schemes["BodySignature"] = map[string]any{
		"type": "apiKey", "in": "header", "name": "X-Signature",
		"description": "Hex HMAC-SHA256 of the raw body (the query string on GET)",
	}
	schemes["AdminToken"] = map[string]any{
		"type": "apiKey", "in": "header", "name": "X-Admin-Token",
	}

	requirement := func(scheme string) (sec []any, code string) {
		if scheme == SchemeAdmin {
			return []any{map[string]any{"AdminToken": []any{}}}, "ADMIN_TOKEN_MISSING"
		}
		return []any{map[string]any{"ProjectKey": []any{}, "BodySignature": []any{}}}, "PROJECT_KEY_MISSING"
	}

	paths, ok := spec["paths"].(map[string]any)
	if !ok {
		return
	}
	for p, verbs := range marked {
		node, ok := paths[p].(map[string]any)
		if !ok {
			continue
		}
		for verb, scheme := range verbs {
			op, ok := node[verb].(map[string]any)
			if !ok {
				continue
			}
			sec, code := requirement(scheme)
			op["security"] = sec

			responses := ensureResponses(op)
			if _, exists := responses["401"]; !exists {
				responses["401"] = map[string]any{
					"description": "Unauthorized",
					"content": map[string]any{
						"application/json": map[string]any{
							"schema": map[string]any{"$ref": "#/components/schemas/ErrorResponse"},
							"example": map[string]any{
								"status_code": 401,
								"status":      "error",
								"code":        code,
								"request_id":  "spillway-api-7f9c/x2K9rT-000042",
							},
						},
					},
				}
			}
		}
	}
}

// eachOperation visits every path/verb operation object in the spec
func eachOperation(spec map[string]any, visit func(path, verb string, op map[string]any)) {
	paths, ok := spec["paths"].(map[string]any)
	if !ok {
		return
	}
	for p, pAny := range paths {
		node, ok := pAny.(map[string]any)
		if !ok {
			continue
		}
		for verb, opAny := range node {
			op, ok := opAny.(map[string]any)
			if !ok {
				continue
			}
			visit(p, verb, op)
		}
	}
}

func ensureResponses(op map[string]any) map[string]any {
	responses, ok := op["responses"].(map[string]any)
	if !ok {
		responses = map[string]any{}
		op["responses"] = responses
	}
	return responses
}
