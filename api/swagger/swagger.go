package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "PFE Catalog API",
        "description": "Submission, validation and catalog service for final-year project reports",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Login, registration and session info"},
        {"name": "Submissions", "description": "Report submission and drafts"},
        {"name": "Validation", "description": "Review workflow for pending reports"},
        {"name": "Catalog", "description": "Public catalog of validated reports"},
        {"name": "Admin", "description": "Administration dashboard"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/api/v1/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate with institutional email",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Token issued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid payload or non-institutional email"},
                    "401": {"description": "Bad credentials"},
                    "403": {"description": "Inactive account"}
                }
            }
        },
        "/api/v1/auth/register": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Create an account",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Account created"},
                    "409": {"description": "Email already registered"}
                }
            }
        },
        "/api/v1/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current user info",
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Missing or invalid token"}
                }
            }
        },
        "/api/v1/submissions": {
            "get": {
                "tags": ["Submissions"],
                "summary": "List own submissions",
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "tags": ["Submissions"],
                "summary": "Submit a report for review",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitReportRequest"}}
                ],
                "responses": {
                    "201": {"description": "Report created in pending state"},
                    "400": {"description": "Form rules violated"}
                }
            }
        },
        "/api/v1/submissions/draft": {
            "get": {
                "tags": ["Submissions"],
                "summary": "Load the saved draft",
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "No draft"}
                }
            },
            "put": {
                "tags": ["Submissions"],
                "summary": "Save the draft",
                "responses": {
                    "200": {"description": "Saved"}
                }
            },
            "delete": {
                "tags": ["Submissions"],
                "summary": "Discard the draft",
                "responses": {
                    "204": {"description": "Deleted"}
                }
            }
        },
        "/api/v1/submissions/draft/buffer": {
            "put": {
                "tags": ["Submissions"],
                "summary": "Buffer a snapshot for the periodic autosave",
                "responses": {
                    "202": {"description": "Buffered"}
                }
            }
        },
        "/api/v1/reports/pending": {
            "get": {
                "tags": ["Validation"],
                "summary": "List reports for review",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "search", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Validator role required"}
                }
            }
        },
        "/api/v1/reports/{id}/validate": {
            "post": {
                "tags": ["Validation"],
                "summary": "Approve a pending report",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ValidateReportRequest"}}
                ],
                "responses": {
                    "200": {"description": "Published"},
                    "400": {"description": "Checklist incomplete"},
                    "412": {"description": "Report no longer pending"}
                }
            }
        },
        "/api/v1/reports/{id}/reject": {
            "post": {
                "tags": ["Validation"],
                "summary": "Reject a pending report",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RejectReportRequest"}}
                ],
                "responses": {
                    "200": {"description": "Rejected"},
                    "400": {"description": "Comments missing"},
                    "412": {"description": "Report no longer pending"}
                }
            }
        },
        "/api/v1/reports/{id}/history": {
            "get": {
                "tags": ["Validation"],
                "summary": "Decision history",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Report not found"}
                }
            }
        },
        "/api/v1/catalog": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Browse validated reports",
                "parameters": [
                    {"name": "academic_year", "in": "query", "type": "string"},
                    {"name": "specialty", "in": "query", "type": "string"},
                    {"name": "sort_by", "in": "query", "type": "string"},
                    {"name": "search", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/v1/catalog/years": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Distinct academic years",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/v1/catalog/popular": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Most viewed reports",
                "parameters": [
                    {"name": "limit", "in": "query", "type": "integer", "description": "Cut the shelf down further, e.g. 5 for the side panel"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"}
                }
            }
        },
        "/api/v1/catalog/favorites": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Favorite report ids",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/v1/catalog/{id}/favorite": {
            "post": {
                "tags": ["Catalog"],
                "summary": "Toggle a favorite",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/v1/catalog/{id}/consultations": {
            "post": {
                "tags": ["Catalog"],
                "summary": "Record a viewing session",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "202": {"description": "Recorded"},
                    "404": {"description": "Report not found"}
                }
            }
        },
        "/api/v1/admin/overview": {
            "get": {
                "tags": ["Admin"],
                "summary": "Platform counters",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/v1/admin/users": {
            "get": {
                "tags": ["Admin"],
                "summary": "List users",
                "parameters": [
                    {"name": "role", "in": "query", "type": "string"},
                    {"name": "active", "in": "query", "type": "boolean"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/v1/admin/users/{id}/active": {
            "patch": {
                "tags": ["Admin"],
                "summary": "Toggle user activation",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Updated"},
                    "404": {"description": "User not found"}
                }
            }
        },
        "/api/v1/admin/reports/{id}": {
            "delete": {
                "tags": ["Admin"],
                "summary": "Delete a report",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Report not found"}
                }
            }
        },
        "/api/v1/admin/exports/catalog": {
            "get": {
                "tags": ["Admin"],
                "summary": "Export the catalog as CSV or PDF",
                "parameters": [
                    {"name": "format", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File download"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "RegisterRequest": {
            "type": "object",
            "required": ["email", "password", "first_name", "last_name"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "role": {"type": "string"},
                "specialty": {"type": "string"},
                "department": {"type": "string"},
                "graduation_year": {"type": "integer"}
            }
        },
        "SubmitReportRequest": {
            "type": "object",
            "required": ["title", "authors", "academic_supervisor", "academic_year", "specialty", "department", "keywords", "abstract"],
            "properties": {
                "title": {"type": "string"},
                "authors": {"type": "array", "items": {"$ref": "#/definitions/AuthorInput"}},
                "academic_supervisor": {"type": "string"},
                "industrial_supervisor": {"type": "string"},
                "academic_year": {"type": "string"},
                "specialty": {"type": "string"},
                "department": {"type": "string"},
                "keywords": {"type": "array", "items": {"type": "string"}},
                "abstract": {"type": "string"},
                "defense_date": {"type": "string"},
                "company": {"type": "string"},
                "video_url": {"type": "string"}
            }
        },
        "AuthorInput": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"}
            }
        },
        "ValidateReportRequest": {
            "type": "object",
            "required": ["checklist"],
            "properties": {
                "checklist": {"$ref": "#/definitions/Checklist"},
                "comments": {"type": "string"}
            }
        },
        "RejectReportRequest": {
            "type": "object",
            "required": ["comments"],
            "properties": {
                "comments": {"type": "string"}
            }
        },
        "Checklist": {
            "type": "object",
            "properties": {
                "graphicCharter": {"type": "boolean"},
                "sections": {"type": "boolean"},
                "quality": {"type": "boolean"},
                "contentRelevance": {"type": "boolean"},
                "appropriate": {"type": "boolean"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
