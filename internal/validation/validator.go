// Package validation provides custom validators for the application
package validation

import (
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Fingerprints are client-derived identifiers; accept a bounded
// base64url-ish token so arbitrary blobs can't be smuggled in.
var fingerprintPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{16,512}$`)

// Initialize registers all custom validators
func Initialize() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := v.RegisterValidation("nospaces", validateNoSpaces); err != nil {
			panic(err)
		}
		if err := v.RegisterValidation("fingerprint", validateFingerprint); err != nil {
			panic(err)
		}
	}
}

// validateNoSpaces checks if a string contains non-space characters
func validateNoSpaces(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return strings.TrimSpace(value) != ""
}

// validateFingerprint checks the device fingerprint format
func validateFingerprint(fl validator.FieldLevel) bool {
	return fingerprintPattern.MatchString(fl.Field().String())
}
