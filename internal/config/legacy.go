package config

import "fmt"

// Legacy variable names read directly by older code paths.  Do not rename.
const (
	LegacyLicenseKeyVar = "XLWINGS_LICENSE_KEY"
	LegacyDateFormatVar = "XLWINGS_DATE_FORMAT"
)

// PropagateLegacy copies two resolved values back into env.
//
// The license key is advisory: it is written only when the variable is
// unset or empty, so an operator's value survives.  The date format is
// authoritative: it always overwrites.  Keep the two policies separate.
func PropagateLegacy(env Environ, s *Settings) error {
	if s.LicenseKey != "" && env.Getenv(LegacyLicenseKeyVar) == "" {
		if err := env.Setenv(LegacyLicenseKeyVar, s.LicenseKey); err != nil {
			return fmt.Errorf("config: set %s: %w", LegacyLicenseKeyVar, err)
		}
	}
	if s.DateFormat != "" {
		if err := env.Setenv(LegacyDateFormatVar, s.DateFormat); err != nil {
			return fmt.Errorf("config: set %s: %w", LegacyDateFormatVar, err)
		}
	}
	return nil
}
