package gate

// Action is what a subject wants to do with a resource. Policies may treat
// unknown actions however they like; the ones below are the set the
// OfferMaster services ask about.
type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionList   Action = "list"
	// ActionSend covers handing a resource to a third party, such as mailing
	// a quote to a customer.
	ActionSend Action = "send"
)
