package registration

// State is the submission state machine position.
type State int

const (
	Idle State = iota
	Validating
	SubmittingRegistration
	UploadingPhoto
	Success
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Validating:
		return "validating"
	case SubmittingRegistration:
		return "submitting_registration"
	case UploadingPhoto:
		return "uploading_photo"
	case Success:
		return "success"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// InFlight reports whether a network call is pending in s.
func (s State) InFlight() bool {
	return s == SubmittingRegistration || s == UploadingPhoto
}
