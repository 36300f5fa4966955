// Package docs registers the swagger spec with gin-swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}"
    },
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/auth/register": {
            "post": {
                "tags": ["auth"],
                "summary": "Register a new account",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Log in with email and password",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["auth"],
                "summary": "Exchange a refresh token for a new token pair",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/users/me": {
            "get": {
                "tags": ["users"],
                "summary": "Current user with onboarding flags",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/profiles/client": {
            "post": {
                "tags": ["profiles"],
                "summary": "Complete client registration",
                "security": [{"BearerAuth": []}],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/profiles/freelancer": {
            "post": {
                "tags": ["profiles"],
                "summary": "Complete freelancer registration",
                "security": [{"BearerAuth": []}],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/projects": {
            "get": {
                "tags": ["projects"],
                "summary": "Browse projects",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["projects"],
                "summary": "Post a new project",
                "security": [{"BearerAuth": []}],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/projects/{id}/deliver": {
            "post": {
                "tags": ["projects"],
                "summary": "Mark project as delivered",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/projects/{id}/complete": {
            "post": {
                "tags": ["projects"],
                "summary": "Complete a delivered project and leave a review",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/projects/{id}/documents": {
            "post": {
                "tags": ["documents"],
                "summary": "Upload a project or handover document",
                "security": [{"BearerAuth": []}],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/proposals": {
            "post": {
                "tags": ["proposals"],
                "summary": "Submit a proposal for an open project",
                "security": [{"BearerAuth": []}],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/proposals/{id}/accept": {
            "post": {
                "tags": ["proposals"],
                "summary": "Accept a proposal and hire the freelancer",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/conversations": {
            "post": {
                "tags": ["chat"],
                "summary": "Open the conversation with another user",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            },
            "get": {
                "tags": ["chat"],
                "summary": "List conversations",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/conversations/{id}/messages": {
            "post": {
                "tags": ["chat"],
                "summary": "Send a message",
                "security": [{"BearerAuth": []}],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/conversations/{id}/read": {
            "post": {
                "tags": ["chat"],
                "summary": "Mark all incoming messages as read",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/notifications": {
            "get": {
                "tags": ["notifications"],
                "summary": "Notification stream, newest first",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["notifications"],
                "summary": "Remove all of the caller's notifications",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "StudLance API",
	Description:      "Marketplace backend connecting clients with student freelancers.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
