// Package auth provides the generated Swagger documentation for the
// authentication service API.
package auth

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/livez": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health Check Endpoint",
                "description": "Liveness probe returning basic service health status, uptime, and version information",
                "responses": {
                    "200": {
                        "description": "status, uptime, version",
                        "schema": {"$ref": "#/definitions/authapi.HealthResponse"}
                    }
                }
            }
        },
        "/readyz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Readiness Check Endpoint",
                "description": "Readiness probe checking the database dependency alongside uptime and version",
                "responses": {
                    "200": {
                        "description": "status, uptime, version, checks",
                        "schema": {"$ref": "#/definitions/authapi.HealthResponse"}
                    },
                    "503": {
                        "description": "status, uptime, version, checks - service not ready",
                        "schema": {"$ref": "#/definitions/authapi.HealthResponse"}
                    }
                }
            }
        },
        "/v1/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Register Endpoint",
                "description": "Create a local account with an email, display name and password",
                "parameters": [
                    {
                        "description": "Registration details",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/authapi.RegisterRequest"}
                    }
                ],
                "responses": {
                    "201": {
                        "description": "id, email, name, role",
                        "schema": {"$ref": "#/definitions/authapi.RegisterResponse"}
                    },
                    "400": {
                        "description": "code, message, details",
                        "schema": {"$ref": "#/definitions/authapi.ValidationErrorResponse"}
                    },
                    "409": {
                        "description": "error, error_description",
                        "schema": {"$ref": "#/definitions/authapi.ErrorResponse"}
                    },
                    "500": {
                        "description": "error, error_description",
                        "schema": {"$ref": "#/definitions/authapi.ErrorResponse"}
                    }
                }
            }
        },
        "/v1/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Login Endpoint",
                "description": "Exchange an email and password for an access/refresh token pair",
                "parameters": [
                    {
                        "description": "Login credentials",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/authapi.LoginRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "access_token, refresh_token, token_type, expires_in",
                        "schema": {"$ref": "#/definitions/authapi.TokenResponse"}
                    },
                    "400": {
                        "description": "error, error_description",
                        "schema": {"$ref": "#/definitions/authapi.ErrorResponse"}
                    },
                    "401": {
                        "description": "error, error_description",
                        "schema": {"$ref": "#/definitions/authapi.ErrorResponse"}
                    },
                    "500": {
                        "description": "error, error_description",
                        "schema": {"$ref": "#/definitions/authapi.ErrorResponse"}
                    }
                }
            }
        },
        "/v1/auth/refresh": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Refresh Endpoint",
                "description": "Exchange a valid refresh token for a fresh access/refresh token pair",
                "parameters": [
                    {
                        "description": "Refresh token",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/authapi.RefreshRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "access_token, refresh_token, token_type, expires_in",
                        "schema": {"$ref": "#/definitions/authapi.TokenResponse"}
                    },
                    "400": {
                        "description": "error, error_description",
                        "schema": {"$ref": "#/definitions/authapi.ErrorResponse"}
                    },
                    "401": {
                        "description": "error, error_description",
                        "schema": {"$ref": "#/definitions/authapi.ErrorResponse"}
                    },
                    "500": {
                        "description": "error, error_description",
                        "schema": {"$ref": "#/definitions/authapi.ErrorResponse"}
                    }
                }
            }
        },
        "/v1/auth/forgot-password": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Forgot Password Endpoint",
                "description": "Start a password reset. Always returns the same message whether or not the email is registered.",
                "parameters": [
                    {
                        "description": "Account email",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/authapi.ForgotPasswordRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "message",
                        "schema": {"$ref": "#/definitions/authapi.MessageResponse"}
                    },
                    "400": {
                        "description": "code, message, details",
                        "schema": {"$ref": "#/definitions/authapi.ValidationErrorResponse"}
                    }
                }
            }
        },
        "/v1/auth/reset-password": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Reset Password Endpoint",
                "description": "Redeem a mailed reset token and set a new password. Each token works at most once.",
                "parameters": [
                    {
                        "description": "Reset token and new password",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/authapi.ResetPasswordRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "message",
                        "schema": {"$ref": "#/definitions/authapi.MessageResponse"}
                    },
                    "400": {
                        "description": "error, error_description",
                        "schema": {"$ref": "#/definitions/authapi.ErrorResponse"}
                    },
                    "500": {
                        "description": "error, error_description",
                        "schema": {"$ref": "#/definitions/authapi.ErrorResponse"}
                    }
                }
            }
        },
        "/v1/admin/accounts/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Admin"],
                "summary": "Get Account Endpoint (admin)",
                "description": "Look up any account by id. Requires the admin role.",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Account ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "id, email, name, role, active",
                        "schema": {"$ref": "#/definitions/authapi.UserInfoResponse"}
                    },
                    "401": {
                        "description": "error, error_description",
                        "schema": {"$ref": "#/definitions/authapi.ErrorResponse"}
                    },
                    "404": {
                        "description": "error, error_description",
                        "schema": {"$ref": "#/definitions/authapi.ErrorResponse"}
                    }
                }
            }
        },
        "/v1/admin/accounts/{id}/active": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Admin"],
                "summary": "Set Account Active Endpoint (admin)",
                "description": "Enable or disable an account. Disabled accounts cannot log in or refresh.",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Account ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "active flag",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"type": "object"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "message",
                        "schema": {"$ref": "#/definitions/authapi.MessageResponse"}
                    },
                    "401": {
                        "description": "error, error_description",
                        "schema": {"$ref": "#/definitions/authapi.ErrorResponse"}
                    },
                    "404": {
                        "description": "error, error_description",
                        "schema": {"$ref": "#/definitions/authapi.ErrorResponse"}
                    }
                }
            }
        },
        "/v1/auth/userinfo": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "User Info Endpoint",
                "description": "Returns the account behind the presented access token",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {
                        "description": "id, email, name, role, active",
                        "schema": {"$ref": "#/definitions/authapi.UserInfoResponse"}
                    },
                    "401": {
                        "description": "error, error_description",
                        "schema": {"$ref": "#/definitions/authapi.ErrorResponse"}
                    },
                    "500": {
                        "description": "error, error_description",
                        "schema": {"$ref": "#/definitions/authapi.ErrorResponse"}
                    }
                }
            }
        }
    },
    "definitions": {
        "authapi.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "error_description": {"type": "string"}
            }
        },
        "authapi.ValidationErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "details": {
                    "type": "object",
                    "additionalProperties": {"type": "string"}
                }
            }
        },
        "authapi.RegisterRequest": {
            "type": "object",
            "required": ["email", "name", "password"],
            "properties": {
                "email": {"type": "string", "maxLength": 254},
                "name": {"type": "string", "maxLength": 128},
                "password": {"type": "string", "minLength": 8, "maxLength": 128}
            }
        },
        "authapi.RegisterResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "email": {"type": "string"},
                "name": {"type": "string"},
                "role": {"type": "string"}
            }
        },
        "authapi.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string", "maxLength": 254},
                "password": {"type": "string", "maxLength": 128}
            }
        },
        "authapi.RefreshRequest": {
            "type": "object",
            "required": ["refresh_token"],
            "properties": {
                "refresh_token": {"type": "string"}
            }
        },
        "authapi.TokenResponse": {
            "type": "object",
            "properties": {
                "access_token": {"type": "string"},
                "refresh_token": {"type": "string"},
                "token_type": {"type": "string"},
                "expires_in": {"type": "integer"}
            }
        },
        "authapi.ForgotPasswordRequest": {
            "type": "object",
            "required": ["email"],
            "properties": {
                "email": {"type": "string", "maxLength": 254}
            }
        },
        "authapi.ResetPasswordRequest": {
            "type": "object",
            "required": ["token", "new_password"],
            "properties": {
                "token": {"type": "string"},
                "new_password": {"type": "string", "minLength": 8, "maxLength": 128}
            }
        },
        "authapi.MessageResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            }
        },
        "authapi.UserInfoResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "email": {"type": "string"},
                "name": {"type": "string"},
                "role": {"type": "string"},
                "active": {"type": "boolean"}
            }
        },
        "authapi.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "uptime": {"type": "string"},
                "version": {"type": "string"},
                "checks": {"$ref": "#/definitions/authapi.HealthChecks"}
            }
        },
        "authapi.HealthChecks": {
            "type": "object",
            "properties": {
                "database": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "JWT access token. Format: \"Bearer {token}\".",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Tradutor Authentication Service API",
	Description:      "Token issuance and password reset for the Tradutor platform.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
