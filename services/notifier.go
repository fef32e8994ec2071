package services

// Live event types pushed to websocket clients.
const (
	EventBudgetAlert   = "budget_alert"
	EventTipSubmitted  = "tip_submitted"
	EventTipApproved   = "tip_approved"
	EventTipRejected   = "tip_rejected"
	EventDealSubmitted = "deal_submitted"
	EventDealApproved  = "deal_approved"
	EventDealRejected  = "deal_rejected"
)

type Event struct {
	Type string      `json:"type"`
	ID   string      `json:"id"`
	Data interface{} `json:"data,omitempty"`
}

// Notifier delivers events to connected clients. Delivery is best effort.
type Notifier interface {
	NotifyUser(userID string, evt Event)
	NotifyAdmins(evt Event)
}

type nopNotifier struct{}

func (nopNotifier) NotifyUser(string, Event) {}
func (nopNotifier) NotifyAdmins(Event)       {}

func orNop(n Notifier) Notifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}
