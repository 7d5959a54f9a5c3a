package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Timetable Scheduling Core API",
        "description": "Weekly timetable generation, conflict queries, and export",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {
                        "description": "Ready"
                    }
                }
            }
        },
        "/api/v1/schedules/generate": {
            "post": {
                "summary": "Trigger a schedule generation run for a term",
                "tags": ["Scheduler"],
                "responses": {
                    "200": {
                        "description": "Generation result"
                    }
                }
            }
        },
        "/api/v1/schedules/runs": {
            "get": {
                "summary": "List generation run history for a term",
                "tags": ["Scheduler"],
                "responses": {
                    "200": {
                        "description": "Run history"
                    }
                }
            }
        },
        "/api/v1/schedules/conflicts": {
            "post": {
                "summary": "Check a candidate slot for hard scheduling conflicts",
                "tags": ["Scheduler"],
                "responses": {
                    "200": {
                        "description": "Conflict descriptions"
                    }
                }
            }
        },
        "/api/v1/schedules/export": {
            "get": {
                "summary": "Render a term's week timetable as PDF or CSV",
                "tags": ["Scheduler"],
                "responses": {
                    "200": {
                        "description": "Rendered timetable"
                    }
                }
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
