// Package docs holds the OpenAPI document served under /swagger/.
// Keep it in sync with the godoc annotations on the handlers (swag init).
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Basic health check",
                "responses": {
                    "200": {"description": "Service is running correctly", "schema": {"$ref": "#/definitions/dto.HealthResponse"}}
                }
            }
        },
        "/ready": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Service is ready to receive traffic", "schema": {"$ref": "#/definitions/dto.HealthResponse"}},
                    "503": {"description": "Rate store backend is unreachable", "schema": {"$ref": "#/definitions/dto.HealthResponse"}}
                }
            }
        },
        "/api/v1/rates": {
            "get": {
                "produces": ["application/json"],
                "tags": ["rates"],
                "summary": "Current exchange rates",
                "parameters": [
                    {"type": "string", "description": "Comma separated currency codes (e.g. EUR,TRY)", "name": "currencies", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.RatesResponse"}},
                    "503": {"description": "No rate data available", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "delete": {
                "tags": ["rates"],
                "summary": "Clear the rate cache",
                "responses": {
                    "204": {"description": "No Content"},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/v1/rates/refresh": {
            "post": {
                "produces": ["application/json"],
                "tags": ["rates"],
                "summary": "Force a refresh",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.RefreshResponse"}},
                    "503": {"description": "Provider failed and no previous data exists", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/v1/convert": {
            "get": {
                "produces": ["application/json"],
                "tags": ["rates"],
                "summary": "Convert an amount from the base currency",
                "parameters": [
                    {"type": "number", "description": "Amount in the base currency", "name": "amount", "in": "query", "required": true},
                    {"type": "string", "description": "Target currency", "name": "to", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ConvertResponse"}},
                    "400": {"description": "Invalid parameters", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Currency not in the rate table", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "503": {"description": "No rate data available", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/v1/display": {
            "get": {
                "produces": ["application/json"],
                "tags": ["display"],
                "summary": "Latest display snapshot",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/entities.Snapshot"}}
                }
            }
        },
        "/api/v1/crypto": {
            "get": {
                "produces": ["application/json"],
                "tags": ["crypto"],
                "summary": "Bitcoin and Ethereum prices in USD",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.CryptoResponse"}},
                    "404": {"description": "Crypto lookup disabled", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "502": {"description": "Price provider failed", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "dto.RatesResponse": {
            "type": "object",
            "properties": {
                "base": {"type": "string", "example": "USD"},
                "rates": {"type": "object", "additionalProperties": {"type": "number"}},
                "fetched_at": {"type": "integer", "example": 1714571130},
                "stored_at": {"type": "integer", "example": 1714571131234},
                "age_ms": {"type": "integer", "example": 42000},
                "verdict": {"type": "string", "enum": ["fresh", "stale"], "example": "fresh"}
            }
        },
        "dto.RefreshResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string", "example": "Rates refreshed successfully"},
                "rates": {"$ref": "#/definitions/dto.RatesResponse"}
            }
        },
        "dto.ConvertResponse": {
            "type": "object",
            "properties": {
                "from": {"type": "string", "example": "USD"},
                "to": {"type": "string", "example": "EUR"},
                "amount": {"type": "number", "example": 100},
                "result": {"type": "number", "example": 92},
                "formatted": {"type": "string", "example": "€92.00"},
                "rate": {"type": "number", "example": 0.92}
            }
        },
        "dto.CryptoResponse": {
            "type": "object",
            "properties": {
                "bitcoin": {"type": "number", "example": 65000.5},
                "ethereum": {"type": "number", "example": 3200},
                "formatted": {"$ref": "#/definitions/dto.CryptoFormatted"},
                "retrieved_at": {"type": "integer", "example": 1714571131234}
            }
        },
        "dto.CryptoFormatted": {
            "type": "object",
            "properties": {
                "bitcoin": {"type": "string", "example": "$65000.50"},
                "ethereum": {"type": "string", "example": "$3200.00"}
            }
        },
        "dto.ErrorResponse": {
            "type": "object",
            "required": ["error"],
            "properties": {
                "error": {"type": "string", "example": "INVALID_PARAMETER"},
                "message": {"type": "string", "example": "amount must be a number"},
                "code": {"type": "string", "example": "400"}
            }
        },
        "dto.HealthResponse": {
            "type": "object",
            "required": ["status", "timestamp"],
            "properties": {
                "status": {"type": "string", "enum": ["healthy", "ready", "degraded", "unhealthy"], "example": "healthy"},
                "timestamp": {"type": "string", "example": "2023-12-01T10:30:00Z"},
                "services": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "entities.Snapshot": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["ok", "unavailable"]},
                "base": {"type": "string", "example": "USD"},
                "rates": {"type": "object", "additionalProperties": {"type": "number"}},
                "rendered": {"type": "string", "example": "€0.92 | ₺34.10"},
                "title": {"type": "string", "example": "Last updated: 13:45:30"},
                "fetched_at": {"type": "integer"},
                "stored_at": {"type": "integer"},
                "error": {"type": "string"},
                "error_kind": {"type": "string", "example": "bad_status"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "FX Rates Service API",
	Description:      "Cached exchange rates relative to USD with periodic refresh, stale-but-serve fallback and currency conversion.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
