package api

// =============================================================================
// Response Types
// =============================================================================

// RegistrationResponse is the response for a registration attempt.
type RegistrationResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// VolunteerResponse is one entry of the volunteer listing.
type VolunteerResponse struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
	Date    string `json:"date"`
}

// ErrorResponse is the error format of the listing endpoint.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the health check response.
type HealthResponse struct {
	Status string `json:"status"`
}

// ReadyResponse is the readiness check response.
type ReadyResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Response messages of the registration endpoint.
const (
	msgRegistered  = "Volunteer registered successfully!"
	msgServerError = "Server error"
)
