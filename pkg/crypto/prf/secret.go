package prf

// Secret wraps key material that must be zeroized on release instead of
// left for the garbage collector to reclaim whenever it feels like it —
// the target shape for design note "Secrets as plain byte containers"
// (spec.md §9). premaster_secret in particular MUST be cleared once the
// master secret is derived (spec.md invariant I5).
type Secret []byte

// Destroy overwrites the backing array with zero bytes and truncates it.
// Safe to call on a nil or already-destroyed Secret.
func (s *Secret) Destroy() {
	if s == nil {
		return
	}
	for i := range *s {
		(*s)[i] = 0
	}
	*s = nil
}
