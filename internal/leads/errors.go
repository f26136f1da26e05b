package leads

import "errors"

var (
	// ErrNameRequired indicates a lead without a name.
	ErrNameRequired = errors.New("leads: name is required")
	// ErrPhoneRequired indicates a lead without a phone number.
	ErrPhoneRequired = errors.New("leads: phone number is required")
	// ErrLocationRequired indicates an audit request without a location.
	// The satellite check cannot run without one.
	ErrLocationRequired = errors.New("leads: location is required")
	// ErrPackageRequired indicates a purchase intent without a package.
	ErrPackageRequired = errors.New("leads: package is required")
)
