// Package validation provides pure validation functions for API handlers.
//
// All functions are free of I/O so handlers can call them before touching
// the store.
//
// # Functions
//
//   - ValidateRegistrationFields: Check that a registration names every required key
//
// # Usage
//
//	if field, msg := validation.ValidateRegistrationFields(present); field != "" {
//	    // Return 400 Bad Request with msg
//	}
package validation
