// Package docs is generated by swaggo/swag from the handler annotations; regenerate with
// `swag init -g cmd/api/main.go` after changing routes.
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
        "/health": {"get": {"tags": ["health"], "summary": "Readiness probe", "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}},
        "/healthz": {"get": {"tags": ["health"], "summary": "Liveness probe", "responses": {"200": {"description": "OK"}}}},
        "/auth/session": {"post": {"tags": ["auth"], "summary": "Sign in", "consumes": ["application/json"], "produces": ["application/json"],
            "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"type": "object", "properties": {"id_token": {"type": "string"}}}}],
            "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}}}},
        "/me": {"get": {"tags": ["auth"], "summary": "Current identity", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/me/library": {"get": {"tags": ["auth"], "summary": "Caller's entitlements", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/documents": {
            "get": {"tags": ["documents"], "summary": "List documents",
                "parameters": [
                    {"type": "string", "name": "category", "in": "query"},
                    {"type": "integer", "default": 10, "name": "limit", "in": "query"},
                    {"type": "integer", "default": 0, "name": "offset", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}},
            "post": {"tags": ["documents"], "summary": "Upload a document", "security": [{"BearerAuth": []}], "consumes": ["multipart/form-data"],
                "parameters": [
                    {"type": "file", "name": "file", "in": "formData", "required": true},
                    {"type": "string", "name": "title", "in": "formData", "required": true},
                    {"type": "string", "name": "category", "in": "formData", "required": true},
                    {"type": "string", "name": "author", "in": "formData"},
                    {"type": "string", "name": "description", "in": "formData"},
                    {"type": "string", "name": "price", "in": "formData"},
                    {"type": "string", "default": "inr", "name": "currency", "in": "formData"}
                ],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "403": {"description": "Forbidden"}}}
        },
        "/documents/{id}": {
            "get": {"tags": ["documents"], "summary": "Get document metadata", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "delete": {"tags": ["documents"], "summary": "Delete a document", "security": [{"BearerAuth": []}], "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found"}}}
        },
        "/documents/{id}/content": {"get": {"tags": ["documents"], "summary": "Read a document", "security": [{"BearerAuth": []}],
            "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"type": "integer", "name": "page", "in": "query"}],
            "responses": {"302": {"description": "Found"}, "402": {"description": "Payment Required"}, "404": {"description": "Not Found"}}}},
        "/claims": {"post": {"tags": ["claims"], "summary": "Submit a payment claim", "security": [{"BearerAuth": []}], "consumes": ["application/json"],
            "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"type": "object", "properties": {
                "user": {"type": "string"}, "user_name": {"type": "string"}, "document_id": {"type": "string"}, "document_title": {"type": "string"},
                "transaction_ref": {"type": "string"}, "amount": {"type": "string"}, "currency": {"type": "string"}}}}],
            "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}}},
        "/claims/status": {"get": {"tags": ["claims"], "summary": "Latest claim status", "security": [{"BearerAuth": []}],
            "parameters": [{"type": "string", "name": "user", "in": "query"}, {"type": "string", "name": "document_id", "in": "query", "required": true}],
            "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "403": {"description": "Forbidden"}}}},
        "/entitlements": {"post": {"tags": ["entitlements"], "summary": "Grant access directly", "security": [{"BearerAuth": []}], "consumes": ["application/json"],
            "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"type": "object", "properties": {"user": {"type": "string"}, "document_id": {"type": "string"}}}}],
            "responses": {"201": {"description": "Created"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}}},
        "/entitlements/check": {"get": {"tags": ["entitlements"], "summary": "Entitlement check", "security": [{"BearerAuth": []}],
            "parameters": [{"type": "string", "name": "user", "in": "query"}, {"type": "string", "name": "document_id", "in": "query", "required": true}],
            "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "403": {"description": "Forbidden"}}}},
        "/admin/claims": {"get": {"tags": ["admin"], "summary": "List all claims", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}},
        "/admin/claims/{id}/approve": {"post": {"tags": ["admin"], "summary": "Approve a claim", "security": [{"BearerAuth": []}],
            "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
            "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}, "409": {"description": "Conflict"}, "500": {"description": "Internal Server Error"}}}},
        "/admin/claims/{id}/reject": {"post": {"tags": ["admin"], "summary": "Reject a claim", "security": [{"BearerAuth": []}],
            "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
            "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}, "409": {"description": "Conflict"}}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Document Marketplace API",
	Description:      "Catalog, payment claims, reconciliation and gated document access.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
