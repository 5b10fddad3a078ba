// Package docs registers the OpenAPI document served under /swagger.
// Regenerate with: swag init -g cmd/ecommerce-api/main.go -o docs
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
                "consumes": ["application/x-www-form-urlencoded", "application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Exchange credentials for a bearer token",
                "parameters": [
                    {"type": "string", "description": "Username", "name": "username", "in": "formData", "required": true},
                    {"type": "string", "description": "Password", "name": "password", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/user.TokenResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/main.HTTPError"}}
                }
            }
        },
        "/customers": {
            "post": {
                "security": [{"BearerAuth": [], "ApiKeyAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["customers"],
                "summary": "Create a customer",
                "parameters": [
                    {"description": "Customer", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/customer.CreateRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/customer.Customer"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/main.HTTPError"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/main.HTTPError"}}
                }
            }
        },
        "/customers/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["customers"],
                "summary": "Get a customer",
                "parameters": [
                    {"type": "integer", "description": "Customer ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/customer.Customer"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/main.HTTPError"}}
                }
            }
        },
        "/healthz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness and database check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/main.HTTPError"}}
                }
            }
        },
        "/orders": {
            "post": {
                "security": [{"BearerAuth": [], "ApiKeyAuth": []}],
                "description": "Stores the order with its items and publishes an order-created event.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Create an order",
                "parameters": [
                    {"description": "Order", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/order.CreateRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/order.Order"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/main.HTTPError"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/main.HTTPError"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/main.HTTPError"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/main.HTTPError"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/main.HTTPError"}}
                }
            }
        },
        "/orders/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Get an order with its items",
                "parameters": [
                    {"type": "integer", "description": "Order ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/order.Order"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/main.HTTPError"}}
                }
            }
        },
        "/products": {
            "get": {
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "List products",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/product.Product"}}}
                }
            },
            "post": {
                "security": [{"BearerAuth": [], "ApiKeyAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Create a product",
                "parameters": [
                    {"description": "Product", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/product.CreateProductRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/product.Product"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/main.HTTPError"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/main.HTTPError"}}
                }
            }
        },
        "/products/{id}": {
            "get": {
                "description": "Returns the inventory document unchanged.",
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Look up a product in the external inventory",
                "parameters": [
                    {"type": "integer", "description": "Product ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/main.HTTPError"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/main.HTTPError"}}
                }
            }
        },
        "/users": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Register a user",
                "parameters": [
                    {"description": "Credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/user.RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/user.User"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/main.HTTPError"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/main.HTTPError"}}
                }
            }
        },
        "/users/{id}/api-key": {
            "post": {
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Generate an API key for a user",
                "parameters": [
                    {"type": "integer", "description": "User ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/user.APIKey"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/main.HTTPError"}}
                }
            }
        }
    },
    "definitions": {
        "customer.CreateRequest": {
            "type": "object",
            "required": ["email", "full_name"],
            "properties": {
                "email": {"type": "string", "example": "ada@example.com"},
                "full_name": {"type": "string", "example": "Ada Lovelace"}
            }
        },
        "customer.Customer": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "full_name": {"type": "string"},
                "id": {"type": "integer"}
            }
        },
        "main.HTTPError": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "validation_error"},
                "message": {"type": "string", "example": "items must not be empty"}
            }
        },
        "order.CreateOrderItem": {
            "type": "object",
            "properties": {
                "product_id": {"type": "integer", "example": 3},
                "quantity": {"type": "integer", "example": 2}
            }
        },
        "order.CreateRequest": {
            "type": "object",
            "properties": {
                "customer_id": {"type": "integer", "example": 7},
                "items": {"type": "array", "items": {"$ref": "#/definitions/order.CreateOrderItem"}}
            }
        },
        "order.Item": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "product_id": {"type": "integer"},
                "quantity": {"type": "integer"}
            }
        },
        "order.Order": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "customer_id": {"type": "integer"},
                "id": {"type": "integer"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/order.Item"}}
            }
        },
        "product.CreateProductRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "name": {"type": "string", "example": "Mechanical Keyboard"},
                "price": {"type": "string", "example": "199.90"}
            }
        },
        "product.Product": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "price": {"type": "string", "example": "199.90"}
            }
        },
        "user.APIKey": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "key": {"type": "string"}
            }
        },
        "user.RegisterRequest": {
            "type": "object",
            "required": ["password", "username"],
            "properties": {
                "password": {"type": "string", "example": "s3cret"},
                "username": {"type": "string", "example": "alice"}
            }
        },
        "user.TokenResponse": {
            "type": "object",
            "properties": {
                "access_token": {"type": "string"},
                "token_type": {"type": "string"}
            }
        },
        "user.User": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "username": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {"type": "apiKey", "name": "X-API-Key", "in": "header"},
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "E-commerce API",
	Description:      "Customers, products and orders. Creating an order publishes an order-created event.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
