// Copyright (c) 2016 The btcsuite developers
// Copyright (c) 2024 The fuegosuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cfgutil

// ExplicitString is a string config field that records whether the flags
// package assigned it.  The daemon uses this to tell a default value apart
// from the same value set explicitly, e.g. a history DSN that defaults to
// empty versus one cleared on the command line.
type ExplicitString struct {
	Value         string
	explicitlySet bool
}

// NewExplicitString creates a string flag with the provided default value.
func NewExplicitString(defaultValue string) *ExplicitString {
	return &ExplicitString{Value: defaultValue}
}

// ExplicitlySet returns whether the flags package assigned the value.
func (e *ExplicitString) ExplicitlySet() bool {
	return e.explicitlySet
}

// MarshalFlag satisfies the flags.Marshaler interface.
func (e *ExplicitString) MarshalFlag() (string, error) {
	return e.Value, nil
}

// UnmarshalFlag satisfies the flags.Unmarshaler interface.
func (e *ExplicitString) UnmarshalFlag(value string) error {
	e.Value = value
	e.explicitlySet = true
	return nil
}
