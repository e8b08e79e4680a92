// Package routes defines HTTP route patterns for the application.
package routes

// Path parameters
const (
	ParamPostID  = "id"
	ParamSession = "session"
	ParamField   = "field"
	ParamStep    = "step"
)

// API Routes
const (
	// Posts
	ListPosts  = "GET /api/posts"
	GetPost    = "GET /api/posts/{id}"
	DeletePost = "DELETE /api/posts/{id}"
	Storage    = "GET /api/storage"

	// Change events
	Events = "GET /api/events"

	// Wizard sessions
	OpenSession   = "POST /api/wizard"
	GetSession    = "GET /api/wizard/{session}"
	CloseSession  = "DELETE /api/wizard/{session}"
	UpdateField   = "PUT /api/wizard/{session}/fields/{field}"
	NextStep      = "POST /api/wizard/{session}/next"
	PreviousStep  = "POST /api/wizard/{session}/previous"
	GoToStep      = "POST /api/wizard/{session}/goto/{step}"
	ResetSession  = "POST /api/wizard/{session}/reset"
	SubmitSession = "POST /api/wizard/{session}/submit"
)
