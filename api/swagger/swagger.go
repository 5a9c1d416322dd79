package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Clerkship Scheduler API",
        "description": "Gap filling and team validation for clinical clerkships.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http",
        "https"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [
        {"BearerAuth": []}
    ],
    "tags": [
        {"name": "Scheduling", "description": "Gap-fill runs and requirement summaries"},
        {"name": "Teams", "description": "Preceptor team validation and fallbacks"},
        {"name": "Assignments", "description": "Assignment exports"},
        {"name": "System", "description": "Health and metrics"}
    ],
    "paths": {
        "/scheduling/gap-fill": {
            "post": {
                "tags": ["Scheduling"],
                "summary": "Fill unmet clerkship requirements",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GapFillRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/scheduling/runs": {
            "post": {
                "tags": ["Scheduling"],
                "summary": "Queue a gap-fill run",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GapFillRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Scheduler busy", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Asynchronous runs disabled", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/scheduling/runs/{id}": {
            "get": {
                "tags": ["Scheduling"],
                "summary": "Get a gap-fill run",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/scheduling/summary": {
            "get": {
                "tags": ["Scheduling"],
                "summary": "Requirement summary",
                "parameters": [
                    {"name": "startDate", "in": "query", "required": true, "type": "string", "format": "date"},
                    {"name": "endDate", "in": "query", "required": true, "type": "string", "format": "date"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/teams/validate": {
            "post": {
                "tags": ["Teams"],
                "summary": "Validate a proposed team",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TeamRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/teams": {
            "post": {
                "tags": ["Teams"],
                "summary": "Create a team",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TeamRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Team rejected", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/teams/fallbacks": {
            "get": {
                "tags": ["Teams"],
                "summary": "Preview fallback preceptors",
                "parameters": [
                    {"name": "clerkshipId", "in": "query", "required": true, "type": "string"},
                    {"name": "primaryTeamId", "in": "query", "type": "string"},
                    {"name": "primaryHealthSystemId", "in": "query", "type": "string"},
                    {"name": "allowCrossSystem", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/assignments/export": {
            "get": {
                "tags": ["Assignments"],
                "summary": "Export assignments",
                "produces": [
                    "text/csv",
                    "application/pdf",
                    "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
                ],
                "parameters": [
                    {"name": "format", "in": "query", "required": true, "type": "string", "enum": ["csv", "pdf", "xlsx"]},
                    {"name": "startDate", "in": "query", "type": "string", "format": "date"},
                    {"name": "endDate", "in": "query", "type": "string", "format": "date"},
                    {"name": "studentId", "in": "query", "type": "string"},
                    {"name": "preceptorId", "in": "query", "type": "string"},
                    {"name": "clerkshipId", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File", "schema": {"type": "file"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/metrics/summary": {
            "get": {
                "tags": ["System"],
                "summary": "Metrics summary",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "GapFillRequest": {
            "type": "object",
            "required": ["startDate", "endDate"],
            "properties": {
                "startDate": {"type": "string", "format": "date"},
                "endDate": {"type": "string", "format": "date"},
                "studentIds": {"type": "array", "items": {"type": "string"}},
                "clerkshipIds": {"type": "array", "items": {"type": "string"}},
                "dryRun": {"type": "boolean"}
            }
        },
        "TeamMemberRequest": {
            "type": "object",
            "required": ["preceptorId", "priority"],
            "properties": {
                "preceptorId": {"type": "string"},
                "priority": {"type": "integer", "minimum": 1},
                "role": {"type": "string"},
                "isFallbackOnly": {"type": "boolean"}
            }
        },
        "TeamRequest": {
            "type": "object",
            "required": ["clerkshipId", "name", "members"],
            "properties": {
                "clerkshipId": {"type": "string"},
                "name": {"type": "string"},
                "requirementType": {"type": "string", "enum": ["inpatient", "outpatient", "elective"]},
                "members": {"type": "array", "items": {"$ref": "#/definitions/TeamMemberRequest"}},
                "requireSameHealthSystem": {"type": "boolean"},
                "requireSameSite": {"type": "boolean"},
                "requireSameSpecialty": {"type": "boolean"},
                "requiresAdminApproval": {"type": "boolean"},
                "assignedDates": {"type": "object", "additionalProperties": {"type": "array", "items": {"type": "string", "format": "date"}}},
                "totalDates": {"type": "array", "items": {"type": "string", "format": "date"}}
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
