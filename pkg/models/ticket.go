package models

// TicketStatus is the state of a support ticket.
type TicketStatus string

const (
	TicketOpen     TicketStatus = "OPEN"
	TicketResolved TicketStatus = "RESOLVED"
)

// Sender identifies who wrote a ticket message.
type Sender string

const (
	SenderUser  Sender = "user"
	SenderAdmin Sender = "admin"
)

// TicketMessage is one entry in a support conversation.
type TicketMessage struct {
	Sender    Sender `json:"sender" yaml:"sender" firestore:"sender"`
	Text      string `json:"text" yaml:"text" firestore:"text"`
	Timestamp string `json:"timestamp" yaml:"timestamp" firestore:"timestamp"`
}

// SupportTicket is a customer or vendor support request.
type SupportTicket struct {
	ID       string          `json:"id" yaml:"id" firestore:"id"`
	UserName string          `json:"userName" yaml:"userName" firestore:"userName"`
	Subject  string          `json:"subject" yaml:"subject" firestore:"subject"`
	Status   TicketStatus    `json:"status" yaml:"status" firestore:"status"`
	Messages []TicketMessage `json:"messages,omitempty" yaml:"messages,omitempty" firestore:"messages"`
}

// Resolve closes the ticket. It reports whether anything changed.
func (t *SupportTicket) Resolve() bool {
	if t.Status == TicketResolved {
		return false
	}
	t.Status = TicketResolved
	return true
}
