package fluid

import "errors"

// Sentinel errors returned by fluid operations. The command dispatcher
// and HTTP layer map these onto the error taxonomy in spec.md §7.
var (
	ErrNoSuchConcept          = errors.New("fluid: no such concept")
	ErrNoSuchVent             = errors.New("fluid: no such vent")
	ErrExperimentBusy         = errors.New("fluid: division experiment already active")
	ErrPressureBelowThreshold = errors.New("fluid: ore pressure below threshold")
)
