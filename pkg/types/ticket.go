package types

import "time"

// Ticket types.
const (
	TicketStandard    = "standard"
	TicketHalfPrice   = "half-price"
	TicketPromotional = "promotional"
)

// TicketTypes lists the accepted ticket type values.
var TicketTypes = []string{TicketStandard, TicketHalfPrice, TicketPromotional}

// Ticket is a seat sold for a session.
type Ticket struct {
	ID          int       `json:"id" validate:"gt=0"`
	SessionID   int       `json:"session_id" validate:"gt=0"`
	ClientName  string    `json:"client_name" validate:"required"`
	Seat        string    `json:"seat" validate:"required"`
	PurchasedAt time.Time `json:"purchase_date" validate:"required"`
	Type        string    `json:"ticket_type" validate:"oneof=standard half-price promotional"`
	Price       float64   `json:"price" validate:"gte=0"`
}

// RecordID returns the ticket identifier.
func (t Ticket) RecordID() int { return t.ID }
