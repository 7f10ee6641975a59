package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SIENEP API",
        "description": "Case tracking backend for student support services",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Authentication"},
        {"name": "Students", "description": "Student registry"},
        {"name": "Staff", "description": "Staff registry and role assignment"},
        {"name": "Cases", "description": "Routine cases and incidents"},
        {"name": "Roles", "description": "Roles and permissions"},
        {"name": "Categories", "description": "Case categories"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate with email and password",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Auth"],
                "summary": "Get the caller's account",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/password": {
            "put": {
                "tags": ["Auth"],
                "summary": "Rotate the caller's password",
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List students",
                "parameters": [
                    {"name": "program", "in": "query", "type": "string"},
                    {"name": "cohort", "in": "query", "type": "string"},
                    {"name": "health_system", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Students"],
                "summary": "Register a student",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/{id}": {
            "get": {
                "tags": ["Students"],
                "summary": "Get student detail",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found"}
                }
            },
            "put": {
                "tags": ["Students"],
                "summary": "Update a student",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["Students"],
                "summary": "Deactivate a student",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/students/{id}/phone": {
            "patch": {
                "tags": ["Students"],
                "summary": "Update a student's phone",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/staff": {
            "get": {
                "tags": ["Staff"],
                "summary": "List staff members",
                "parameters": [{"name": "role", "in": "query", "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Staff"],
                "summary": "Register a staff member",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/staff/{id}": {
            "get": {
                "tags": ["Staff"],
                "summary": "Get staff detail",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            },
            "put": {
                "tags": ["Staff"],
                "summary": "Update a staff member",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["Staff"],
                "summary": "Deactivate a staff member",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/staff/{id}/role": {
            "put": {
                "tags": ["Staff"],
                "summary": "Assign a different role",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/cases": {
            "get": {
                "tags": ["Cases"],
                "summary": "List cases",
                "parameters": [
                    {"name": "student_id", "in": "query", "type": "integer"},
                    {"name": "category_id", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/cases/code/{code}": {
            "get": {
                "tags": ["Cases"],
                "summary": "Resolve a case by display code",
                "parameters": [{"name": "code", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/cases/common": {
            "get": {
                "tags": ["Cases"],
                "summary": "List routine cases",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Cases"],
                "summary": "Open a routine case",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/cases/common/{id}": {
            "get": {
                "tags": ["Cases"],
                "summary": "Get a routine case",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            },
            "put": {
                "tags": ["Cases"],
                "summary": "Update a routine case",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/cases/common/{id}/clone": {
            "post": {
                "tags": ["Cases"],
                "summary": "Reopen a routine case under a fresh code",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/cases/incidents": {
            "get": {
                "tags": ["Cases"],
                "summary": "List incidents",
                "parameters": [{"name": "reporter_id", "in": "query", "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Cases"],
                "summary": "Report an incident",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/cases/incidents/{id}": {
            "get": {
                "tags": ["Cases"],
                "summary": "Get an incident",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            },
            "put": {
                "tags": ["Cases"],
                "summary": "Update an incident",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/cases/{id}/comment": {
            "patch": {
                "tags": ["Cases"],
                "summary": "Update the free-text comment of a case",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/cases/{id}": {
            "delete": {
                "tags": ["Cases"],
                "summary": "Delete a case",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/cases/export/csv": {
            "get": {
                "tags": ["Cases"],
                "summary": "Export the case register as CSV",
                "parameters": [{"name": "student_id", "in": "query", "type": "integer"}],
                "responses": {"200": {"description": "CSV file"}}
            }
        },
        "/cases/export/pdf": {
            "get": {
                "tags": ["Cases"],
                "summary": "Export the case register as PDF",
                "parameters": [{"name": "student_id", "in": "query", "type": "integer"}],
                "responses": {"200": {"description": "PDF file"}}
            }
        },
        "/roles": {
            "get": {
                "tags": ["Roles"],
                "summary": "List roles with their permission sets",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Roles"],
                "summary": "Create a role",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/roles/{id}": {
            "get": {
                "tags": ["Roles"],
                "summary": "Get a role",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            },
            "put": {
                "tags": ["Roles"],
                "summary": "Update a role and replace its permission set",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["Roles"],
                "summary": "Delete a role not held by any staff member",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {
                    "204": {"description": "No Content"},
                    "409": {"description": "Role still assigned"}
                }
            }
        },
        "/roles/{id}/permissions/{permissionId}": {
            "put": {
                "tags": ["Roles"],
                "summary": "Attach a permission to a role",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "permissionId", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {"204": {"description": "No Content"}}
            },
            "delete": {
                "tags": ["Roles"],
                "summary": "Detach a permission from a role",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "permissionId", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/permissions": {
            "get": {
                "tags": ["Roles"],
                "summary": "List the permission catalog",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Roles"],
                "summary": "Add a permission to the catalog",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/permissions/{id}": {
            "delete": {
                "tags": ["Roles"],
                "summary": "Remove a permission from the catalog",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/categories": {
            "get": {
                "tags": ["Categories"],
                "summary": "List case categories",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Categories"],
                "summary": "Create a category",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/categories/{id}": {
            "get": {
                "tags": ["Categories"],
                "summary": "Get a category",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            },
            "put": {
                "tags": ["Categories"],
                "summary": "Update a category",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["Categories"],
                "summary": "Delete a category",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"204": {"description": "No Content"}}
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
