package api

// StreamerRequest is the body for POST /api/v1/streamers.
type StreamerRequest struct {
	Username string `json:"username"`
}

// ActionResponse acknowledges a mutation. Error is set only on failure.
type ActionResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// ThemeRequest is the body for PUT /api/v1/theme.
type ThemeRequest struct {
	Theme string `json:"theme"`
}

// ThemeResponse is the payload for GET /api/v1/theme and the broadcast sent
// to front-ends on a theme change.
type ThemeResponse struct {
	Theme string `json:"theme"`
}

// HealthResponse is the payload for GET /api/v1/health.
type HealthResponse struct {
	Tracked int `json:"tracked"`
	Clients int `json:"clients"`
}

// errorResponse is a generic JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}
