package codec

import (
	"github.com/mesh-intelligence/boxoffice/pkg/types"
)

var ticketFields = []string{"id", "session_id", "client_name", "seat", "purchase_date", "ticket_type", "price"}

// TicketCodec encodes tickets as
// id,session_id,client_name,seat,purchase_date,ticket_type,price.
type TicketCodec struct {
	d Delimiters
}

// NewTicketCodec returns a ticket codec using d.
func NewTicketCodec(d Delimiters) *TicketCodec {
	return &TicketCodec{d: d.withDefaults()}
}

func (c *TicketCodec) Header() string { return c.d.header(ticketFields) }

func (c *TicketCodec) Decode(line string) (types.Ticket, error) {
	f, err := c.d.fields(line, ticketFields)
	if err != nil {
		return types.Ticket{}, err
	}
	var t types.Ticket
	if t.ID, err = parseInt("id", f[0]); err != nil {
		return types.Ticket{}, err
	}
	if t.SessionID, err = parseInt("session_id", f[1]); err != nil {
		return types.Ticket{}, err
	}
	t.ClientName = f[2]
	t.Seat = f[3]
	if t.PurchasedAt, err = parseTime("purchase_date", f[4]); err != nil {
		return types.Ticket{}, err
	}
	t.Type = f[5]
	if t.Price, err = parseFloat("price", f[6]); err != nil {
		return types.Ticket{}, err
	}
	return t, nil
}

func (c *TicketCodec) Encode(t types.Ticket) (string, error) {
	e := newEncoder(c.d, types.EntityTickets, t.ID, len(ticketFields))
	e.addInt(t.ID)
	e.addInt(t.SessionID)
	e.addText("client_name", t.ClientName)
	e.addText("seat", t.Seat)
	e.addTime(t.PurchasedAt)
	e.addText("ticket_type", t.Type)
	e.addFloat(t.Price)
	return e.line()
}
