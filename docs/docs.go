// Package docs registers the OpenAPI description of the JSON endpoints with swag.
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
        "/api/session": {
            "get": {
                "description": "Authentication state, confirmed identity and role flags of the calling browser.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "session"
                ],
                "summary": "Current session",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/SessionResponse"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "Identity": {
            "type": "object",
            "properties": {
                "email": {
                    "type": "string"
                },
                "full_name": {
                    "type": "string"
                },
                "role": {
                    "type": "string",
                    "enum": [
                        "admin",
                        "editor",
                        "viewer"
                    ]
                },
                "username": {
                    "type": "string"
                }
            }
        },
        "RoleFlags": {
            "type": "object",
            "properties": {
                "admin": {
                    "type": "boolean"
                },
                "editor": {
                    "type": "boolean"
                },
                "viewer": {
                    "type": "boolean"
                }
            }
        },
        "SessionResponse": {
            "type": "object",
            "properties": {
                "authenticated": {
                    "type": "boolean"
                },
                "identity": {
                    "$ref": "#/definitions/Identity"
                },
                "resolving": {
                    "type": "boolean"
                },
                "roles": {
                    "$ref": "#/definitions/RoleFlags"
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "User Auth UI",
	Description:      "Browser frontend for the user authentication API.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
