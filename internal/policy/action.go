package policy

// Action names an operation on a faculty profile subject to authorization.
type Action string

const (
	ActionView     Action = "view"
	ActionEdit     Action = "edit"
	ActionApprove  Action = "approve"
	ActionFreeze   Action = "freeze"
	ActionUnfreeze Action = "unfreeze"
)
