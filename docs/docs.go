// Package docs registers the OpenAPI document served under /swagger.
// Regenerate with `swag init -g cmd/api/main.go` after changing handler annotations.
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
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login",
                "parameters": [
                    {"description": "Login credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.loginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.resultResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.resultResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.resultResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/handler.resultResponse"}}
                }
            }
        },
        "/roles": {
            "get": {
                "produces": ["application/json"],
                "tags": ["roles"],
                "summary": "List roles",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.rolesResponse"}}
                }
            }
        },
        "/roles/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["roles"],
                "summary": "Get a role",
                "parameters": [
                    {"type": "integer", "description": "Role id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.roleResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.roleResponse"}}
                }
            }
        },
        "/users": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "List users",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.listResponse"}},
                    "401": {"description": "Unauthorized"}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Create a user",
                "parameters": [
                    {"description": "New user", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.createUserRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.resultResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.resultResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.resultResponse"}}
                }
            }
        },
        "/users/state/{id}": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Toggle user state",
                "parameters": [
                    {"type": "integer", "description": "User id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.resultResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.resultResponse"}}
                }
            }
        },
        "/users/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Get a user",
                "parameters": [
                    {"type": "integer", "description": "User id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.resultResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.resultResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Update a user",
                "parameters": [
                    {"type": "integer", "description": "User id", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.updateUserRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.resultResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.resultResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.resultResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.resultResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Delete a user",
                "parameters": [
                    {"type": "integer", "description": "User id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.resultResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.resultResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.Role": {
            "type": "object",
            "properties": {"id": {"type": "integer"}, "label": {"type": "string"}}
        },
        "domain.User": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "username": {"type": "string"},
                "firstName": {"type": "string"},
                "lastName": {"type": "string"},
                "email": {"type": "string"},
                "isActive": {"type": "boolean"},
                "roleId": {"type": "integer"},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "handler.createUserRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"},
                "confirmPassword": {"type": "string"},
                "firstName": {"type": "string"},
                "lastName": {"type": "string"},
                "email": {"type": "string"},
                "confirmEmail": {"type": "string"},
                "roleId": {"type": "integer"}
            }
        },
        "handler.updateUserRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"},
                "confirmPassword": {"type": "string"},
                "firstName": {"type": "string"},
                "lastName": {"type": "string"},
                "email": {"type": "string"},
                "confirmEmail": {"type": "string"}
            }
        },
        "handler.loginRequest": {
            "type": "object",
            "properties": {"username": {"type": "string"}, "password": {"type": "string"}}
        },
        "handler.resultResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "entity": {"$ref": "#/definitions/domain.User"},
                "token": {"type": "string"},
                "resultKeys": {"type": "array", "items": {"type": "string"}}
            }
        },
        "handler.listResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "entities": {"type": "array", "items": {"$ref": "#/definitions/domain.User"}},
                "resultKeys": {"type": "array", "items": {"type": "string"}}
            }
        },
        "handler.roleResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "entity": {"$ref": "#/definitions/domain.Role"},
                "resultKeys": {"type": "array", "items": {"type": "string"}}
            }
        },
        "handler.rolesResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "entities": {"type": "array", "items": {"$ref": "#/definitions/domain.Role"}}
            }
        }
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
	Title:            "Accounts API",
	Description:      "User account management and authentication.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
