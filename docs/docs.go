// Package docs holds the OpenAPI document served under /swagger/. It follows
// the layout swag init writes from the handler annotations.
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
        "/bridge": {
            "get": {
                "description": "HTML page for a nested browsing context. It posts {\"type\":\"ready\"} to its parent, accepts one record from an allowed parent origin, forwards it to /exec and relays the result.",
                "produces": [
                    "text/html"
                ],
                "tags": [
                    "Collector"
                ],
                "summary": "Handshake bridge page",
                "responses": {
                    "200": {
                        "description": "Bridge page",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "500": {
                        "description": "Template error",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/cache/metrics": {
            "get": {
                "description": "Returns hit, miss and eviction counters of the cache holding per-client rate limiters",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "System"
                ],
                "summary": "Limiter cache metrics",
                "responses": {
                    "200": {
                        "description": "Cache metrics, enabled=false when caching is off",
                        "schema": {
                            "$ref": "#/definitions/model.CacheMetricsResponse"
                        }
                    }
                }
            }
        },
        "/exec": {
            "get": {
                "description": "With action=getStats, returns statistics recomputed from every stored row. A missing or unknown action returns a model.UsageResponse hint with status 200.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Collector"
                ],
                "summary": "Query the collector",
                "parameters": [
                    {
                        "enum": [
                            "getStats"
                        ],
                        "type": "string",
                        "description": "Action to run",
                        "name": "action",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Statistics, or a usage hint when no known action is given",
                        "schema": {
                            "$ref": "#/definitions/model.AggregateStats"
                        }
                    },
                    "500": {
                        "description": "Row store unavailable",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    }
                }
            },
            "post": {
                "description": "Stores one response as a new row. The record is sent as a JSON body, or form-encoded as a JSON string in the \"payload\" field. With delivery=message, the reply is an HTML page that posts the result object to its parent window.",
                "consumes": [
                    "application/json",
                    "application/x-www-form-urlencoded"
                ],
                "produces": [
                    "application/json",
                    "text/html"
                ],
                "tags": [
                    "Collector"
                ],
                "summary": "Append a survey response",
                "parameters": [
                    {
                        "description": "Survey response",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/model.Record"
                        }
                    },
                    {
                        "enum": [
                            "message"
                        ],
                        "type": "string",
                        "description": "Reply as a message page",
                        "name": "delivery",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Stored, result is success",
                        "schema": {
                            "$ref": "#/definitions/model.SubmitResult"
                        }
                    },
                    "400": {
                        "description": "Payload could not be decoded",
                        "schema": {
                            "$ref": "#/definitions/model.SubmitResult"
                        }
                    },
                    "429": {
                        "description": "Rate limit exceeded",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "500": {
                        "description": "Row store unavailable",
                        "schema": {
                            "$ref": "#/definitions/model.SubmitResult"
                        }
                    }
                }
            }
        },
        "/health": {
            "get": {
                "description": "Pings the row store and reports how many rows it holds",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "System"
                ],
                "summary": "Health check",
                "responses": {
                    "200": {
                        "description": "Service is healthy",
                        "schema": {
                            "$ref": "#/definitions/model.HealthResponse"
                        }
                    },
                    "503": {
                        "description": "Row store unavailable",
                        "schema": {
                            "$ref": "#/definitions/model.HealthResponse"
                        }
                    }
                }
            }
        },
        "/qr": {
            "get": {
                "description": "Returns a PNG QR code that encodes survey.public_url",
                "produces": [
                    "image/png"
                ],
                "tags": [
                    "Survey"
                ],
                "summary": "Survey QR code",
                "parameters": [
                    {
                        "type": "integer",
                        "default": 256,
                        "description": "Image size in pixels (128-1024)",
                        "name": "size",
                        "in": "query"
                    },
                    {
                        "enum": [
                            "low",
                            "medium",
                            "high",
                            "highest"
                        ],
                        "type": "string",
                        "default": "medium",
                        "description": "Error recovery level",
                        "name": "level",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "QR code image",
                        "schema": {
                            "type": "file"
                        }
                    },
                    "400": {
                        "description": "Invalid size or level",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Survey URL not configured",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "QR generation failed",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "model.AggregateStats": {
            "type": "object",
            "properties": {
                "q1": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "integer"
                    }
                },
                "q2": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "integer"
                    }
                },
                "q3": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "integer"
                    }
                },
                "q4": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "integer"
                    }
                },
                "q5": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "q6": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "integer"
                    }
                },
                "total": {
                    "type": "integer"
                }
            }
        },
        "model.CacheMetricsResponse": {
            "type": "object",
            "properties": {
                "enabled": {
                    "type": "boolean",
                    "example": true
                },
                "evictions": {
                    "type": "integer",
                    "example": 12
                },
                "hitRatio": {
                    "type": "number",
                    "example": 0.957
                },
                "hits": {
                    "type": "integer",
                    "example": 1234
                },
                "keysAdded": {
                    "type": "integer",
                    "example": 1290
                },
                "misses": {
                    "type": "integer",
                    "example": 56
                }
            }
        },
        "model.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "string",
                    "example": "invalid size parameter"
                },
                "message": {
                    "type": "string",
                    "example": "Size must be a number"
                }
            }
        },
        "model.HealthResponse": {
            "type": "object",
            "properties": {
                "rows": {
                    "type": "integer",
                    "example": 42
                },
                "status": {
                    "type": "string",
                    "example": "ok"
                },
                "storage": {
                    "type": "string",
                    "example": "redis"
                }
            }
        },
        "model.Outcome": {
            "type": "string",
            "enum": [
                "success",
                "error"
            ],
            "x-enum-varnames": [
                "OutcomeSuccess",
                "OutcomeError"
            ]
        },
        "model.Record": {
            "type": "object",
            "properties": {
                "best_time": {
                    "type": "string"
                },
                "content_service": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "content_service_etc": {
                    "type": "string"
                },
                "special_method": {
                    "type": "string"
                },
                "stress_action": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "stress_action_etc": {
                    "type": "string"
                },
                "stress_level": {
                    "description": "Only sent by forms that ask for it",
                    "type": "string"
                },
                "stress_situation": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "stress_situation_etc": {
                    "type": "string"
                }
            }
        },
        "model.SubmitResult": {
            "type": "object",
            "properties": {
                "message": {
                    "type": "string"
                },
                "result": {
                    "$ref": "#/definitions/model.Outcome"
                }
            }
        },
        "model.UsageResponse": {
            "type": "object",
            "properties": {
                "actions": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "usage": {
                    "type": "string",
                    "example": "GET ?action=getStats | POST a record as JSON or as form field payload"
                }
            }
        }
    },
    "tags": [
        {
            "description": "Appending responses, statistics and the handshake bridge",
            "name": "Collector"
        },
        {
            "description": "Sharing the survey page",
            "name": "Survey"
        },
        {
            "description": "Health checks and cache metrics",
            "name": "System"
        }
    ]
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Go Away Stress Collector API",
	Description:      "Collects stress survey responses as append-only rows and serves aggregate statistics.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
