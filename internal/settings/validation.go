package settings

import "fmt"

// Validate checks that settings values are valid.
func Validate(s *Settings) error {
	if s == nil {
		return fmt.Errorf("settings cannot be nil")
	}
	if s.Version < 0 {
		return fmt.Errorf("invalid version: %d", s.Version)
	}
	if s.Version > CurrentVersion {
		return fmt.Errorf("%w: %d (this release reads up to %d)", ErrUnsupportedVersion, s.Version, CurrentVersion)
	}
	return nil
}
