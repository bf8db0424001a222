package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Licencias API",
        "description": "Teacher leave request management",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Login, tokens, password"},
        {"name": "Profesores", "description": "Teacher account management"},
        {"name": "Licencias", "description": "Leave request lifecycle"},
        {"name": "Dashboard", "description": "Admin aggregate view"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate by carnet and password",
                "responses": {
                    "200": {"description": "Token pair issued"},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Rotate the refresh token",
                "responses": {
                    "200": {"description": "New token pair"},
                    "401": {"description": "Expired or revoked token"}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Revoke the refresh token",
                "responses": {
                    "204": {"description": "Session ended"}
                }
            }
        },
        "/auth/change-password": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Change the caller's password",
                "responses": {
                    "204": {"description": "Password changed"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current account info",
                "responses": {
                    "200": {"description": "Account claims"}
                }
            }
        },
        "/profesores": {
            "get": {
                "tags": ["Profesores"],
                "summary": "List teachers (admin)",
                "responses": {
                    "200": {"description": "Teacher roster"}
                }
            },
            "post": {
                "tags": ["Profesores"],
                "summary": "Register a teacher (admin)",
                "responses": {
                    "201": {"description": "Teacher created"},
                    "409": {"description": "Carnet already registered"}
                }
            }
        },
        "/profesores/{id}": {
            "delete": {
                "tags": ["Profesores"],
                "summary": "Delete a teacher (admin)",
                "responses": {
                    "204": {"description": "Deleted or absent"}
                }
            }
        },
        "/licencias": {
            "get": {
                "tags": ["Licencias"],
                "summary": "List all leave requests (admin)",
                "responses": {
                    "200": {"description": "All requests, newest first"}
                }
            },
            "post": {
                "tags": ["Licencias"],
                "summary": "Submit a leave request (teacher)",
                "responses": {
                    "201": {"description": "Pending request created"},
                    "400": {"description": "Invalid dates or fields"}
                }
            }
        },
        "/licencias/mias": {
            "get": {
                "tags": ["Licencias"],
                "summary": "List own leave requests (teacher)",
                "responses": {
                    "200": {"description": "Caller's requests, newest first"}
                }
            }
        },
        "/licencias/{id}/estado": {
            "patch": {
                "tags": ["Licencias"],
                "summary": "Approve or reject a pending request (admin)",
                "responses": {
                    "200": {"description": "Decision recorded"},
                    "409": {"description": "Already decided"}
                }
            }
        },
        "/licencias/export": {
            "get": {
                "tags": ["Licencias"],
                "summary": "Export the leave report as CSV or PDF (admin)",
                "responses": {
                    "200": {"description": "Rendered report"}
                }
            }
        },
        "/dashboard": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Admin dashboard aggregate",
                "responses": {
                    "200": {"description": "Roster, requests and totals"}
                }
            }
        }
    },
    "definitions": {
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
