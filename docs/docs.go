// Package docs registers the swagger spec served at /swagger/doc.json.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"},
                    "503": {"description": "Degraded"}
                }
            }
        },
        "/api/projects": {
            "get": {
                "tags": ["projects"],
                "summary": "List projects",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["projects"],
                "summary": "Create a project",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request"}
                }
            }
        },
        "/api/projects/{id}": {
            "get": {
                "tags": ["projects"],
                "summary": "Get project",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            },
            "delete": {
                "tags": ["projects"],
                "summary": "Delete project and everything under it",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "Deleted"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/api/projects/{id}/documents": {
            "get": {
                "tags": ["documents"],
                "summary": "List a project's documents",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/documents/upload": {
            "post": {
                "tags": ["documents"],
                "summary": "Upload a document or register a URL",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "project_id", "in": "formData", "required": true, "type": "string"},
                    {"name": "file", "in": "formData", "type": "file"},
                    {"name": "url", "in": "formData", "type": "string"}
                ],
                "responses": {
                    "202": {"description": "Accepted, ingestion queued"},
                    "400": {"description": "Bad Request"},
                    "404": {"description": "Project Not Found"},
                    "409": {"description": "Ingestion already in flight"}
                }
            }
        },
        "/api/documents/{id}": {
            "get": {
                "tags": ["documents"],
                "summary": "Get document",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            },
            "delete": {
                "tags": ["documents"],
                "summary": "Delete document, chunks, and vectors",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "Deleted"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/api/documents/{id}/status": {
            "patch": {
                "tags": ["documents"],
                "summary": "Update document status",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Invalid status"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/api/ingestion/{id}/status": {
            "get": {
                "tags": ["ingestion"],
                "summary": "Get ingestion status",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/api/chat": {
            "post": {
                "tags": ["chat"],
                "summary": "Ask a question over a project's documents",
                "responses": {
                    "200": {"description": "Answer with citations and follow-ups"},
                    "400": {"description": "Bad Request"}
                }
            }
        },
        "/api/chat/image": {
            "post": {
                "tags": ["chat"],
                "summary": "Ask a question captured as an image",
                "consumes": ["multipart/form-data"],
                "responses": {
                    "200": {"description": "Answer plus recognized text"},
                    "400": {"description": "Bad Request"}
                }
            }
        },
        "/api/sessions": {
            "post": {
                "tags": ["sessions"],
                "summary": "Create a chat session",
                "responses": {
                    "201": {"description": "Created"},
                    "404": {"description": "Project Not Found"}
                }
            }
        },
        "/api/sessions/{id}": {
            "get": {
                "tags": ["sessions"],
                "summary": "Get session",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            },
            "patch": {
                "tags": ["sessions"],
                "summary": "Replace session history",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/api/sessions/{id}/messages": {
            "get": {
                "tags": ["sessions"],
                "summary": "List session messages",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/messages": {
            "post": {
                "tags": ["sessions"],
                "summary": "Record a message",
                "responses": {
                    "201": {"description": "Created"},
                    "404": {"description": "Session Not Found"}
                }
            }
        },
        "/api/preferences/{id}": {
            "get": {
                "tags": ["preferences"],
                "summary": "Get preferences",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            },
            "patch": {
                "tags": ["preferences"],
                "summary": "Partially update preferences",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
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
	Title:            "AutoRAG API",
	Description:      "Document ingestion and retrieval-augmented question answering",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
