// Package docs holds the OpenAPI document served by swaggerkit.
// Keep it in step with the swag annotations on the handlers.
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
    "openapi": "3.0.3",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}"
    },
    "paths": {
        "/providers/search": {
            "post": {
                "tags": ["Providers"],
                "summary": "Search providers",
                "description": "Filters, ranks and pages providers. Supplying lat and lng enables the radius filter and distance sort.",
                "requestBody": {
                    "required": false,
                    "content": {"application/json": {"schema": {"$ref": "#/components/schemas/domain.SearchInput"}}}
                },
                "responses": {
                    "200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/domain.SearchResult"}}}},
                    "400": {"description": "validation failed", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ErrorResponse"}}}},
                    "503": {"description": "storage unavailable", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ErrorResponse"}}}}
                }
            }
        },
        "/providers/{providerID}/availability": {
            "get": {
                "tags": ["Providers"],
                "summary": "Free start times for a provider service on a date",
                "parameters": [
                    {"name": "providerID", "in": "path", "required": true, "schema": {"type": "string", "format": "uuid"}},
                    {"name": "service_id", "in": "query", "required": true, "schema": {"type": "string", "format": "uuid"}},
                    {"name": "date", "in": "query", "required": true, "schema": {"type": "string", "format": "date"}}
                ],
                "responses": {
                    "200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/domain.AvailabilityResult"}}}},
                    "404": {"description": "provider does not offer the service", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ErrorResponse"}}}},
                    "503": {"description": "storage unavailable", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ErrorResponse"}}}}
                }
            }
        },
        "/searchlog/stats": {
            "get": {
                "tags": ["Searchlog"],
                "summary": "Search event recorder counters",
                "responses": {"200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/domain.Stats"}}}}}
            }
        },
        "/meta/health": {
            "get": {
                "tags": ["Meta"],
                "summary": "Liveness",
                "responses": {"200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/http.HealthResponse"}}}}}
            }
        },
        "/meta/ready": {
            "get": {
                "tags": ["Meta"],
                "summary": "Readiness probe with dependency checks",
                "responses": {
                    "200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/http.ReadyResponse"}}}},
                    "503": {"description": "a dependency is down", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/http.ReadyResponse"}}}}
                }
            }
        },
        "/meta/version": {
            "get": {
                "tags": ["Meta"],
                "summary": "Build and version info",
                "responses": {"200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/version.BuildInfo"}}}}}
            }
        }
    },
    "components": {
        "schemas": {
            "domain.SearchInput": {
                "type": "object",
                "properties": {
                    "query": {"type": "string", "maxLength": 200, "example": "deep tissue"},
                    "category_id": {"type": "string", "example": "wellness"},
                    "lat": {"type": "number", "minimum": -90, "maximum": 90, "example": 52.52},
                    "lng": {"type": "number", "minimum": -180, "maximum": 180, "example": 13.405},
                    "radius_km": {"type": "number", "minimum": 1, "maximum": 100, "default": 25},
                    "min_rating": {"type": "number", "minimum": 0, "maximum": 5},
                    "min_price": {"type": "number", "minimum": 0},
                    "max_price": {"type": "number", "minimum": 0},
                    "service_ids": {"type": "array", "maxItems": 20, "items": {"type": "string", "format": "uuid"}},
                    "sort_by": {"type": "string", "enum": ["distance", "rating", "price", "reviews", "newest"]},
                    "sort_order": {"type": "string", "enum": ["asc", "desc"]},
                    "limit": {"type": "integer", "minimum": 1, "maximum": 50, "default": 20},
                    "offset": {"type": "integer", "minimum": 0, "default": 0},
                    "date": {"type": "string", "format": "date", "example": "2026-03-02"},
                    "time": {"type": "string", "example": "10:00"},
                    "home_service": {"type": "boolean"},
                    "verified_only": {"type": "boolean"}
                }
            },
            "domain.ProviderResult": {
                "type": "object",
                "properties": {
                    "id": {"type": "string", "format": "uuid"},
                    "name": {"type": "string"},
                    "description": {"type": "string"},
                    "category_id": {"type": "string"},
                    "lat": {"type": "number"},
                    "lng": {"type": "number"},
                    "rating": {"type": "number"},
                    "review_count": {"type": "integer"},
                    "base_price": {"type": "number"},
                    "verified": {"type": "boolean"},
                    "home_service": {"type": "boolean"},
                    "created_at": {"type": "string", "format": "date-time"},
                    "service_ids": {"type": "array", "items": {"type": "string"}},
                    "services": {"type": "array", "items": {"type": "string"}},
                    "distance_km": {"type": "number"}
                }
            },
            "domain.SearchResult": {
                "type": "object",
                "properties": {
                    "items": {"type": "array", "items": {"$ref": "#/components/schemas/domain.ProviderResult"}},
                    "total": {"type": "integer"},
                    "limit": {"type": "integer"},
                    "offset": {"type": "integer"}
                }
            },
            "domain.AvailabilityResult": {
                "type": "object",
                "properties": {
                    "provider_id": {"type": "string", "format": "uuid"},
                    "service_id": {"type": "string", "format": "uuid"},
                    "date": {"type": "string", "format": "date"},
                    "duration_min": {"type": "integer"},
                    "slots": {"type": "array", "items": {"type": "string"}, "example": ["09:00", "10:00", "11:00"]}
                }
            },
            "domain.Stats": {
                "type": "object",
                "properties": {
                    "buffered": {"type": "integer"},
                    "capacity": {"type": "integer"},
                    "accepted": {"type": "integer"},
                    "dropped": {"type": "integer"},
                    "written": {"type": "integer"},
                    "failed": {"type": "integer"},
                    "sinks": {"type": "array", "items": {"type": "string"}}
                }
            },
            "http.HealthResponse": {
                "type": "object",
                "properties": {
                    "ok": {"type": "boolean"},
                    "service": {"type": "string"},
                    "started": {"type": "string", "format": "date-time"},
                    "uptime": {"type": "integer"}
                }
            },
            "http.ReadyCheck": {
                "type": "object",
                "properties": {
                    "name": {"type": "string"},
                    "status": {"type": "string", "enum": ["ok", "fail"]},
                    "error": {"type": "string"},
                    "took_ms": {"type": "integer"}
                }
            },
            "http.ReadyResponse": {
                "type": "object",
                "properties": {
                    "status": {"type": "string", "enum": ["ok", "fail"]},
                    "checks": {"type": "array", "items": {"$ref": "#/components/schemas/http.ReadyCheck"}},
                    "now": {"type": "string", "format": "date-time"}
                }
            },
            "version.BuildInfo": {
                "type": "object",
                "properties": {
                    "service": {"type": "string"},
                    "version": {"type": "string"},
                    "commit": {"type": "string"},
                    "date": {"type": "string"},
                    "go_version": {"type": "string"}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	BasePath:         "/api/v1",
	Title:            "bookable API",
	Description:      "Provider search and availability.",
	InfoInstanceName: "api",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
