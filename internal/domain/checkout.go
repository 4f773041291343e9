package domain

// CheckoutRequest describes a payment session to be created with the
// payment provider. Cents below 50 are rejected before any provider call.
type CheckoutRequest struct {
	Cents     int64  `json:"cents"`
	Currency  string `json:"currency"`
	Title     string `json:"title"`
	Frequency string `json:"freq,omitempty"` // empty = one-off; "month"/"year" = subscription
	ReturnURL string `json:"return_url"`

	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
	Org   string `json:"org,omitempty"`
}

func (r *CheckoutRequest) Validate() error {
	if r.Cents < 50 {
		return ErrAmountTooSmall
	}
	if r.Email == "" {
		return ErrEmailRequired
	}
	return nil
}

// CheckoutSession is the provider's answer: the client secret drives the
// embedded checkout widget on the frontend.
type CheckoutSession struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
}
