package dtls

import "crypto/subtle"

// constantTimeEqual compares two Finished verify_data values without
// leaking timing information about where they first differ.
func constantTimeEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}
