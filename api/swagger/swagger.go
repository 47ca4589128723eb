package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Study Scheduler API",
        "description": "Planner gateway between the family calendar UI and the upstream schedule store",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Planner", "description": "Family snapshot, roster and conflict checks"},
        {"name": "Entries", "description": "Study session scheduling"},
        {"name": "Preferences", "description": "Learner study windows"},
        {"name": "Exports", "description": "Weekly schedule exports"}
    ],
    "paths": {
        "/planner/{familyId}/snapshot": {
            "get": {
                "tags": ["Planner"],
                "summary": "Get the aggregate planner snapshot",
                "parameters": [
                    {"name": "familyId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Roster not registered"}
                }
            }
        },
        "/planner/{familyId}/learners": {
            "post": {
                "tags": ["Planner"],
                "summary": "Register the learners shown in the planner",
                "parameters": [
                    {"name": "familyId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RosterRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/planner/{familyId}/intent": {
            "post": {
                "tags": ["Planner"],
                "summary": "Record the user's current planner activity",
                "parameters": [
                    {"name": "familyId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/IntentRequest"}}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/planner/{familyId}/check": {
            "post": {
                "tags": ["Planner"],
                "summary": "Check a proposed session for conflicts",
                "parameters": [
                    {"name": "familyId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CheckRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/planner/{familyId}/entries": {
            "post": {
                "tags": ["Entries"],
                "summary": "Schedule a study session",
                "parameters": [
                    {"name": "familyId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateEntryRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Slot conflict reported by the schedule store"}
                }
            }
        },
        "/planner/{familyId}/entries/batch": {
            "post": {
                "tags": ["Entries"],
                "summary": "Schedule several study sessions in one request",
                "parameters": [
                    {"name": "familyId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BatchCreateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/planner/{familyId}/entries/{id}": {
            "put": {
                "tags": ["Entries"],
                "summary": "Reschedule or edit a study session",
                "parameters": [
                    {"name": "familyId", "in": "path", "required": true, "type": "string"},
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EntryPatch"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Entries"],
                "summary": "Remove a study session",
                "parameters": [
                    {"name": "familyId", "in": "path", "required": true, "type": "string"},
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/planner/{familyId}/entries/{id}/status": {
            "post": {
                "tags": ["Entries"],
                "summary": "Mark a study session completed or skipped",
                "parameters": [
                    {"name": "familyId", "in": "path", "required": true, "type": "string"},
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/planner/preferences/{learnerId}": {
            "get": {
                "tags": ["Preferences"],
                "summary": "Get a learner's scheduling preferences",
                "parameters": [
                    {"name": "learnerId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Preferences"],
                "summary": "Replace a learner's scheduling preferences",
                "parameters": [
                    {"name": "learnerId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PreferencesRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/planner/{familyId}/export": {
            "get": {
                "tags": ["Exports"],
                "summary": "Export a family's weekly schedule",
                "parameters": [
                    {"name": "familyId", "in": "path", "required": true, "type": "string"},
                    {"name": "weekStart", "in": "query", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]},
                    {"name": "dispo", "in": "query", "type": "string", "enum": ["stream", "link"]}
                ],
                "responses": {
                    "200": {"description": "Rendered file or signed link"}
                }
            }
        },
        "/exports/download": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download a stored export by signed token",
                "parameters": [
                    {"name": "token", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File stream"}
                }
            }
        }
    },
    "definitions": {
        "ScheduleEntry": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "learner_id": {"type": "string"},
                "subject_name": {"type": "string"},
                "material_ref": {"type": "string"},
                "scheduled_date": {"type": "string"},
                "start_time": {"type": "string"},
                "duration_minutes": {"type": "integer"},
                "status": {"type": "string", "enum": ["scheduled", "completed", "skipped"]},
                "created_by": {"type": "string", "enum": ["parent", "ai_suggestion"]},
                "notes": {"type": "string"},
                "sync_state": {"type": "string", "enum": ["pending_local", "confirmed", "conflicted"]},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "RosterRequest": {
            "type": "object",
            "properties": {
                "learners": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "id": {"type": "string"},
                            "name": {"type": "string"}
                        }
                    }
                }
            },
            "required": ["learners"]
        },
        "IntentRequest": {
            "type": "object",
            "properties": {
                "intent": {"type": "string", "enum": ["browsing", "scheduling", "organizing"]}
            },
            "required": ["intent"]
        },
        "CheckRequest": {
            "type": "object",
            "properties": {
                "learner_id": {"type": "string"},
                "date": {"type": "string"},
                "start_time": {"type": "string"},
                "duration_minutes": {"type": "integer"}
            },
            "required": ["learner_id", "date", "start_time", "duration_minutes"]
        },
        "CreateEntryRequest": {
            "type": "object",
            "properties": {
                "learner_id": {"type": "string"},
                "subject_name": {"type": "string"},
                "scheduled_date": {"type": "string"},
                "start_time": {"type": "string"},
                "duration_minutes": {"type": "integer"},
                "material_ref": {"type": "string"},
                "notes": {"type": "string"},
                "created_by": {"type": "string", "enum": ["parent", "ai_suggestion"]}
            },
            "required": ["learner_id", "subject_name", "scheduled_date", "start_time", "duration_minutes"]
        },
        "BatchCreateRequest": {
            "type": "object",
            "properties": {
                "items": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/CreateEntryRequest"}
                }
            },
            "required": ["items"]
        },
        "EntryPatch": {
            "type": "object",
            "properties": {
                "subject_name": {"type": "string"},
                "material_ref": {"type": "string"},
                "scheduled_date": {"type": "string"},
                "start_time": {"type": "string"},
                "duration_minutes": {"type": "integer"},
                "notes": {"type": "string"}
            }
        },
        "StatusRequest": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["scheduled", "completed", "skipped"]}
            },
            "required": ["status"]
        },
        "PreferencesRequest": {
            "type": "object",
            "properties": {
                "preferred_start_time": {"type": "string"},
                "preferred_end_time": {"type": "string"},
                "max_daily_study_minutes": {"type": "integer"},
                "break_duration_minutes": {"type": "integer"},
                "difficult_subjects_morning": {"type": "boolean"},
                "study_days": {"type": "array", "items": {"type": "string"}}
            },
            "required": ["preferred_start_time", "preferred_end_time", "max_daily_study_minutes", "break_duration_minutes", "study_days"]
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"type": "object"},
                "meta": {"type": "object"}
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
