package patchgroup

import "fmt"

// URIStatus is the state of a patch URI, as tracked by the client: either the
// patch data has been fetched and is pending application, or the patch has been
// applied.
type URIStatus struct {
	applied bool
	data    []byte
}

// Pending creates the status for fetched, not yet applied patch data.
func Pending(data []byte) URIStatus {
	return URIStatus{data: data}
}

// Applied creates the status for an applied patch.
func Applied() URIStatus {
	return URIStatus{applied: true}
}

// IsApplied is true for applied patches.
func (s URIStatus) IsApplied() bool {
	return s.applied
}

// Data returns the patch data of a pending patch, and nil for applied ones.
func (s URIStatus) Data() []byte {
	return s.data
}

func (s URIStatus) String() string {
	if s.applied {
		return "Applied"
	}
	return fmt.Sprintf("Pending(%d bytes)", len(s.data))
}
