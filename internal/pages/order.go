package pages

import (
	"context"
	"fmt"
)

// OrderTicketPage drives the order-entry form on the asset detail view.
type OrderTicketPage struct {
	*Page
}

func NewOrderTicketPage(p *Page) *OrderTicketPage { return &OrderTicketPage{Page: p} }

// EnterOrder selects side and enters the quantity without submitting, so the
// cost preview can be read first.
func (o *OrderTicketPage) EnterOrder(side string, quantity float64) error {
	sideSelector := fmt.Sprintf(`#order-ticket .side-%s`, side)
	if err := o.Click(sideSelector); err != nil {
		return err
	}
	return o.Type(`#order-quantity`, fmt.Sprintf("%g", quantity))
}

// Submit sends the prepared order.
func (o *OrderTicketPage) Submit() error {
	return o.Click(`#order-submit`)
}

// ConfirmationVisible waits for the order confirmation toast.
func (o *OrderTicketPage) ConfirmationVisible() error {
	return o.WaitVisible(`.order-confirmation`, o.cfg.Paced(o.cfg.Timing.WaitTimeout))
}

// ConfirmedOrderID reads the order id from the confirmation toast.
func (o *OrderTicketPage) ConfirmedOrderID() (string, error) {
	return o.Text(`.order-confirmation .order-id`)
}

// EstimatedCost reads the ticket's cost preview before submission.
func (o *OrderTicketPage) EstimatedCost() (float64, error) {
	return o.Number(`#order-estimated-cost`)
}

// ReadQuote returns the live quote shown on the ticket; used as the read
// function for value-change waits on streaming prices.
func (o *OrderTicketPage) ReadQuote(ctx context.Context) (string, error) {
	return o.Text(`#order-ticket .live-price`)
}
