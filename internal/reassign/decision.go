package reassign

// ResolutionKind is the state of one child in a session.
type ResolutionKind int

const (
	Unresolved ResolutionKind = iota
	Reassigned
	MarkedForDeletion
)

func (k ResolutionKind) String() string {
	switch k {
	case Reassigned:
		return "reassigned"
	case MarkedForDeletion:
		return "marked-for-deletion"
	default:
		return "unresolved"
	}
}

// Decision is what the caller chose for a child.
type Decision struct {
	Kind     ResolutionKind
	TargetID string
}

// ReassignTo moves the child to parentID.
func ReassignTo(parentID string) Decision {
	return Decision{Kind: Reassigned, TargetID: parentID}
}

// MarkForDeletion deletes the child together with its dependents.
func MarkForDeletion() Decision {
	return Decision{Kind: MarkedForDeletion}
}
