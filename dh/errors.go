package dh

import "github.com/pkg/errors"

// NewUnknownTopologyError is returned when a config names an arm variant that
// does not exist.
func NewUnknownTopologyError(name string) error {
	return errors.Errorf("unknown arm topology %q, supported topologies are 5dof and 6dof", name)
}

// NewLinkCountError is returned when a link-length slice does not fit the
// variant's template.
func NewLinkCountError(topology string, want, got int) error {
	return errors.Errorf("topology %s requires %d link lengths, got %d", topology, want, got)
}

// NewJointCountError is returned when a joint-angle slice does not fit the
// variant's template.
func NewJointCountError(topology string, want, got int) error {
	return errors.Errorf("topology %s requires %d joint angles, got %d", topology, want, got)
}

// NewNonPositiveLinkError is returned for zero or negative link lengths.
func NewNonPositiveLinkError(index int, value float64) error {
	return errors.Errorf("link length %d must be positive, got %f", index, value)
}
