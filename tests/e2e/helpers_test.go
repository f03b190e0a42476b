package e2e

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// =============================================================================
// Response Types
// =============================================================================

// RegistrationResult is the body of a registration response.
type RegistrationResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// VolunteerEntry is one element of the volunteer listing.
type VolunteerEntry struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
	Date    string `json:"date"`
}

// =============================================================================
// HTTP Helpers
// =============================================================================

// HTTPGet performs a GET against the test server.
func HTTPGet(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := testClient.Get(url)
	require.NoError(t, err)
	return resp
}

// PostRaw posts body as JSON and returns the response.
func PostRaw(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := testClient.Post(url, "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	return resp
}

// RegisterVolunteer posts fields to the registration endpoint.
func RegisterVolunteer(t *testing.T, fields map[string]any) (int, RegistrationResult) {
	t.Helper()
	body, err := json.Marshal(fields)
	require.NoError(t, err)

	resp := PostRaw(t, baseURL+"/api/register-volunteer", string(body))
	defer resp.Body.Close()

	var out RegistrationResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

// ListVolunteers fetches the full volunteer listing.
func ListVolunteers(t *testing.T) []VolunteerEntry {
	t.Helper()
	resp := HTTPGet(t, baseURL+"/api/volunteers")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out []VolunteerEntry
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// ReadBody reads and closes the response body.
func ReadBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}

// FindVolunteer returns the first entry with the given email.
func FindVolunteer(entries []VolunteerEntry, email string) (VolunteerEntry, bool) {
	for _, e := range entries {
		if e.Email == email {
			return e, true
		}
	}
	return VolunteerEntry{}, false
}

// Eventually polls condition until it returns true or timeout elapses.
func Eventually(t *testing.T, timeout, interval time.Duration, condition func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(interval)
	}
	return false
}
