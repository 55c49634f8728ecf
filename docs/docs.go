// Package docs registers the OpenAPI description of the voting API with swag.
// Regenerate with: swag init -g cmd/server/main.go
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
        "/candidates": {
            "get": {
                "produces": ["application/json"],
                "tags": ["candidates"],
                "summary": "List candidates with their type and vote count",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.CandidateSummary"}}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["candidates"],
                "summary": "Create a candidate",
                "parameters": [{"description": "Candidate", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.createCandidateRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.Candidate"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/candidates/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["candidates"],
                "summary": "Get a candidate",
                "parameters": [{"type": "integer", "description": "Candidate ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Candidate"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["candidates"],
                "summary": "Rename a candidate",
                "parameters": [
                    {"type": "integer", "description": "Candidate ID", "name": "id", "in": "path", "required": true},
                    {"description": "New name", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.renameCandidateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Candidate"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["candidates"],
                "summary": "Delete a candidate",
                "parameters": [{"type": "integer", "description": "Candidate ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Candidate"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/candidate-types": {
            "get": {
                "produces": ["application/json"],
                "tags": ["candidate-types"],
                "summary": "List candidate types",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.CandidateType"}}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["candidate-types"],
                "summary": "Create a candidate type",
                "parameters": [{"description": "Type label", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.createCandidateTypeRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.CandidateType"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/votes": {
            "get": {
                "produces": ["application/json"],
                "tags": ["votes"],
                "summary": "List all votes anonymously",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.PublicVote"}}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "One vote per candidate and one vote per candidate type.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["votes"],
                "summary": "Vote for a candidate",
                "parameters": [{"description": "Candidate to vote for", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.castVoteRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.Vote"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/votes/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["votes"],
                "summary": "Get one of the caller's votes",
                "parameters": [{"type": "integer", "description": "Vote ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.VoteDetail"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["votes"],
                "summary": "Retract a vote",
                "parameters": [{"type": "integer", "description": "Vote ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Vote"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/my-votes": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["votes"],
                "summary": "List the caller's votes",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.MyVote"}}}
                }
            }
        },
        "/my-votes/count": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["votes"],
                "summary": "Count the caller's votes",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.totalVotesResponse"}}
                }
            }
        },
        "/top-voted-candidates": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "At most three, by global vote count then id.",
                "produces": ["application/json"],
                "tags": ["votes"],
                "summary": "Top candidates among those the caller voted for",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.TopCandidate"}}}
                }
            }
        },
        "/profile": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Caller profile with vote total and top candidates",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Profile"}}
                }
            }
        },
        "/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Get the caller",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.User"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/update-user": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Change the caller's display name",
                "parameters": [{"description": "New name", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.updateUserRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.User"}}
                }
            }
        },
        "/verify-user": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Register or fetch the caller",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.User"}}
                }
            }
        },
        "/ping": {
            "get": {
                "produces": ["text/plain"],
                "tags": ["system"],
                "summary": "Connectivity check",
                "responses": {"200": {"description": "pong", "schema": {"type": "string"}}}
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Liveness probe",
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}}
            }
        },
        "/health/ready": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "OK"},
                    "503": {"description": "Service Unavailable"}
                }
            }
        }
    },
    "definitions": {
        "domain.Candidate": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "typeId": {"type": "integer"},
                "createdAt": {"type": "string"}
            }
        },
        "domain.CandidateSummary": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "candidateType": {"type": "string"},
                "votesCount": {"type": "integer"}
            }
        },
        "domain.CandidateType": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "type": {"type": "string"}
            }
        },
        "domain.MyVote": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "userName": {"type": "string"},
                "candidateName": {"type": "string"},
                "candidateType": {"type": "string"},
                "votesCount": {"type": "integer"}
            }
        },
        "domain.Profile": {
            "type": "object",
            "properties": {
                "user": {"$ref": "#/definitions/domain.User"},
                "totalVotes": {"type": "integer"},
                "topCandidates": {"type": "array", "items": {"$ref": "#/definitions/domain.TopCandidate"}}
            }
        },
        "domain.PublicVote": {
            "type": "object",
            "properties": {
                "candidateId": {"type": "integer"},
                "candidate": {"$ref": "#/definitions/domain.PublicVoteItem"}
            }
        },
        "domain.PublicVoteItem": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"}
            }
        },
        "domain.TopCandidate": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "votesCount": {"type": "integer"}
            }
        },
        "domain.User": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "auth0Id": {"type": "string"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "domain.Vote": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "userId": {"type": "integer"},
                "candidateId": {"type": "integer"},
                "createdAt": {"type": "string"}
            }
        },
        "domain.VoteDetail": {
            "type": "object",
            "properties": {
                "voteId": {"type": "integer"},
                "userName": {"type": "string"},
                "candidateName": {"type": "string"},
                "candidateType": {"type": "string"},
                "createdAt": {"type": "string"}
            }
        },
        "handler.castVoteRequest": {
            "type": "object",
            "required": ["candidateId"],
            "properties": {"candidateId": {"type": "integer"}}
        },
        "handler.createCandidateRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "name": {"type": "string"},
                "typeId": {"type": "integer"},
                "newType": {"type": "string"}
            }
        },
        "handler.createCandidateTypeRequest": {
            "type": "object",
            "required": ["type"],
            "properties": {"type": {"type": "string"}}
        },
        "handler.errorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "handler.renameCandidateRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {"name": {"type": "string"}}
        },
        "handler.totalVotesResponse": {
            "type": "object",
            "properties": {"totalVotes": {"type": "integer"}}
        },
        "handler.updateUserRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {"name": {"type": "string"}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Voting API",
	Description:      "Candidates, candidate types, votes and voter profiles.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
