package paysera

import (
	"fmt"
	"math"
	"net/url"

	"github.com/booklytrip/booking/internal/domain"
)

// Price is an amount with its currency.
type Price struct {
	Amount   float64
	Currency string
}

// PayRequest collects everything needed to build a payment link for one
// booking.
type PayRequest struct {
	OrderID     string
	Price       Price
	Text        string
	Payment     string
	Email       string
	AcceptURL   string
	CancelURL   string
	CallbackURL string
}

// PaymentLink builds the gateway pay URL for the given request. Outside
// production the link is flagged as a test transaction.
func PaymentLink(query PayRequest, settings domain.PayseraSettings, production bool) string {
	fields := url.Values{}
	fields.Set("projectid", settings.ID)
	fields.Set("orderid", query.OrderID)
	fields.Set("paytext", query.Text)
	fields.Set("payment", query.Payment)
	fields.Set("accepturl", query.AcceptURL)
	fields.Set("cancelurl", query.CancelURL)
	fields.Set("callbackurl", query.CallbackURL)
	// The gateway expects amounts in minor units.
	fields.Set("amount", fmt.Sprintf("%d", int64(math.Round(query.Price.Amount*100))))
	fields.Set("currency", query.Price.Currency)
	fields.Set("p_email", query.Email)
	if !production {
		fields.Set("test", "1")
	}

	request := BuildRequest(fields, settings)

	params := url.Values{}
	params.Set("data", request.Data)
	params.Set("sign", request.Sign)
	return fmt.Sprintf("%s/?%s", PayURL, params.Encode())
}
