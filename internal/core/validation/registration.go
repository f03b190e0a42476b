package validation

// =============================================================================
// Registration Validation Functions
// =============================================================================

// MissingFieldsMessage is reported when a registration lacks a required key.
const MissingFieldsMessage = "Missing required fields"

// RequiredRegistrationFields lists the keys every registration must carry,
// in the order they are checked.
var RequiredRegistrationFields = []string{"name", "email", "phone"}

// ValidateRegistrationFields checks that every required key is present.
// Presence is what counts: a key sent with an empty value passes.
// Returns the first missing field and the error message, or empty strings.
//
// Example:
//
//	field, msg := ValidateRegistrationFields(map[string]bool{"name": true})
//	// field == "email", msg == "Missing required fields"
func ValidateRegistrationFields(present map[string]bool) (field, message string) {
	for _, name := range RequiredRegistrationFields {
		if !present[name] {
			return name, MissingFieldsMessage
		}
	}
	return "", ""
}
