package api

// Schema is a named JSON Schema used to check backend responses.
type Schema struct {
	Name       string
	Definition map[string]any
}

var testAnswerDef = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"questionId": map[string]any{"type": "string"},
		"difficulty": map[string]any{"type": "integer"},
		"selected":   map[string]any{"type": "integer"},
		"correct":    map[string]any{"type": "boolean"},
	},
}

var testDef = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"_id":                map[string]any{"type": "string"},
		"currentDifficulty":  map[string]any{"type": "integer"},
		"questionsAttempted": map[string]any{"type": "integer", "minimum": 0},
		"correctStreak":      map[string]any{"type": "integer", "minimum": 0},
		"testOver":           map[string]any{"type": "boolean"},
		"score":              map[string]any{"type": "number"},
		"answers":            map[string]any{"type": "array", "items": testAnswerDef},
		"createdAt":          map[string]any{"type": "string"},
		"updatedAt":          map[string]any{"type": "string"},
	},
	"required": []any{"_id", "score", "testOver"},
}

// QuestionSchema describes GET /tests/{id}/question.
var QuestionSchema = &Schema{
	Name: "question",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"_id":        map[string]any{"type": "string", "minLength": 1},
			"text":       map[string]any{"type": "string"},
			"options":    map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "minItems": 1},
			"difficulty": map[string]any{"type": "integer"},
			"weight":     map[string]any{"type": "number"},
		},
		"required": []any{"_id", "text", "options", "difficulty"},
	},
}

// AnswerResultSchema describes POST /tests/{id}/questions/{qid}/answer.
var AnswerResultSchema = &Schema{
	Name: "answer-result",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"nextQuestionAvailable": map[string]any{"type": "boolean"},
			"testOver":              map[string]any{"type": "boolean"},
			"test":                  testDef,
		},
		"required": []any{"nextQuestionAvailable", "testOver"},
	},
}

// StartResultSchema describes POST /tests/start.
var StartResultSchema = &Schema{
	Name: "start-result",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"_id": map[string]any{"type": "string", "minLength": 1},
		},
		"required": []any{"_id"},
	},
}

// LoginResultSchema describes POST /login_user.
var LoginResultSchema = &Schema{
	Name: "login-result",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"token":   map[string]any{"type": "string", "minLength": 1},
			"isAdmin": map[string]any{"type": "boolean"},
			"email":   map[string]any{"type": "string"},
		},
		"required": []any{"token"},
	},
}

// MeSchema describes GET /me.
var MeSchema = &Schema{
	Name: "me",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"email":   map[string]any{"type": "string"},
			"isAdmin": map[string]any{"type": "boolean"},
		},
		"required": []any{"email"},
	},
}

// HistorySchema describes GET /tests/user/all.
var HistorySchema = &Schema{
	Name: "history",
	Definition: map[string]any{
		"type":  "array",
		"items": testDef,
	},
}

// ResultsSchema describes GET /tests/admin/all-results.
var ResultsSchema = &Schema{
	Name: "admin-results",
	Definition: map[string]any{
		"type": "array",
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"_id": map[string]any{"type": "string"},
				"userId": map[string]any{
					"type": []any{"object", "null"},
					"properties": map[string]any{
						"email": map[string]any{"type": "string"},
					},
				},
				"currentDifficulty":  map[string]any{"type": "integer"},
				"questionsAttempted": map[string]any{"type": "integer"},
				"correctStreak":      map[string]any{"type": "integer"},
				"testOver":           map[string]any{"type": "boolean"},
				"score":              map[string]any{"type": "number"},
			},
			"required": []any{"_id", "score", "testOver"},
		},
	},
}

var bankQuestionDef = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"_id":          map[string]any{"type": "string"},
		"text":         map[string]any{"type": "string"},
		"options":      map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		"correctIndex": map[string]any{"type": "integer", "minimum": 0},
		"difficulty":   map[string]any{"type": "integer", "minimum": 1, "maximum": 10},
		"weight":       map[string]any{"type": "number"},
		"category":     map[string]any{"type": "string"},
	},
	"required": []any{"_id", "text", "options"},
}

// BankSchema describes GET /questions.
var BankSchema = &Schema{
	Name: "question-bank",
	Definition: map[string]any{
		"type":  "array",
		"items": bankQuestionDef,
	},
}

// BankQuestionSchema describes the body returned by question create/update.
var BankQuestionSchema = &Schema{
	Name:       "bank-question",
	Definition: bankQuestionDef,
}
