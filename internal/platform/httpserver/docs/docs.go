// Package docs holds the generated swagger specification for the ranking
// lifecycle API. Code generated by swag; edits belong in the handlers.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/v1/beatmapsets/{set_id}/votes": {
            "post": {
                "produces": ["application/json"],
                "tags": ["ranking"],
                "summary": "Register a nomination vote for a beatmap set",
                "parameters": [
                    {"type": "integer", "name": "set_id", "in": "path", "required": true},
                    {"type": "string", "name": "X-User-Id", "in": "header", "required": true}
                ],
                "responses": {
                    "200": {"description": "vote result with tally and remaining votes"},
                    "403": {"description": "caller lacks nomination authority"},
                    "404": {"description": "beatmap set not found"},
                    "409": {"description": "set no longer accepts votes"}
                }
            }
        },
        "/v1/beatmapsets/{set_id}/love": {
            "post": {
                "produces": ["application/json"],
                "tags": ["ranking"],
                "summary": "Move a pending beatmap set to loved",
                "parameters": [
                    {"type": "integer", "name": "set_id", "in": "path", "required": true},
                    {"type": "string", "name": "X-User-Id", "in": "header", "required": true}
                ],
                "responses": {
                    "200": {"description": "transition result"},
                    "403": {"description": "caller lacks love authority"},
                    "404": {"description": "beatmap set not found"},
                    "409": {"description": "transition not legal from current status"}
                }
            }
        },
        "/v1/beatmapsets/{set_id}/rank": {
            "post": {
                "produces": ["application/json"],
                "tags": ["ranking"],
                "summary": "Move a pending beatmap set to ranked",
                "parameters": [
                    {"type": "integer", "name": "set_id", "in": "path", "required": true},
                    {"type": "string", "name": "X-User-Id", "in": "header", "required": true}
                ],
                "responses": {
                    "200": {"description": "transition result"},
                    "403": {"description": "caller lacks rank authority"},
                    "404": {"description": "beatmap set not found"},
                    "409": {"description": "transition not legal from current status"}
                }
            }
        },
        "/v1/beatmapsets/{set_id}/cancel": {
            "post": {
                "produces": ["application/json"],
                "tags": ["ranking"],
                "summary": "Return a qualified beatmap set to the pending pool",
                "parameters": [
                    {"type": "integer", "name": "set_id", "in": "path", "required": true},
                    {"type": "string", "name": "X-User-Id", "in": "header", "required": true}
                ],
                "responses": {
                    "200": {"description": "transition result"},
                    "403": {"description": "caller lacks cancel authority"},
                    "404": {"description": "beatmap set not found"},
                    "409": {"description": "cancel is only legal from qualified"}
                }
            }
        },
        "/v1/beatmaps/{md5}/status": {
            "get": {
                "produces": ["application/json"],
                "tags": ["ranking"],
                "summary": "Look up cached ranking status by content fingerprint",
                "parameters": [
                    {"type": "string", "name": "md5", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "status snapshot"},
                    "404": {"description": "beatmap not found"}
                }
            }
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "nominator ranking lifecycle API",
	Description:      "Beatmap set nomination, moderation and promotion lifecycle.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
