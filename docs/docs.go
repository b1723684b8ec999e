// Package docs registers the OpenAPI document served under /swagger.
// Regenerate with: swag init -g cmd/server/main.go --v3.1
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
    "openapi": "3.1.0",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}"
    },
    "servers": [{"url": "{{.BasePath}}"}],
    "components": {
        "securitySchemes": {
            "SessionCookie": {"type": "apiKey", "in": "cookie", "name": "tms_session"},
            "BearerAuth": {"type": "http", "scheme": "bearer", "bearerFormat": "JWT"}
        }
    },
    "paths": {}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "TMS Backend API",
	Description:      "Multi-tenant container freight and warehouse API",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
