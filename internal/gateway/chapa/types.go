package chapa

import "encoding/json"

// StatusSuccess is the status value the gateway uses for successful calls.
const StatusSuccess = "success"

// Customization is shown on the hosted checkout page.
type Customization struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// InitializeRequest is the body of a transaction initialize call.
type InitializeRequest struct {
	Amount        string        `json:"amount"`
	Currency      string        `json:"currency"`
	Email         string        `json:"email"`
	FirstName     string        `json:"first_name"`
	LastName      string        `json:"last_name"`
	TxRef         string        `json:"tx_ref"`
	CallbackURL   string        `json:"callback_url"`
	ReturnURL     string        `json:"return_url"`
	Customization Customization `json:"customization"`
}

// InitializeData is the nested data object of an initialize response.
type InitializeData struct {
	CheckoutURL string `json:"checkout_url"`
	Reference   string `json:"reference"`
}

// InitializeResponse is the parsed initialize envelope.
type InitializeResponse struct {
	Message string          `json:"message"`
	Status  string          `json:"status"`
	Data    *InitializeData `json:"data"`

	// Raw is the response body as received.
	Raw json.RawMessage `json:"-"`
}

// VerifyData is the nested data object of a verify response.
type VerifyData struct {
	Status    string `json:"status"`
	Reference string `json:"reference"`
	TxRef     string `json:"tx_ref"`
	Currency  string `json:"currency"`
	Email     string `json:"email"`
}

// VerifyResponse is the parsed verify envelope.
type VerifyResponse struct {
	Message string      `json:"message"`
	Status  string      `json:"status"`
	Data    *VerifyData `json:"data"`

	// Raw is the response body as received.
	Raw json.RawMessage `json:"-"`
}

// Succeeded reports whether both the envelope and the transaction succeeded.
func (r *VerifyResponse) Succeeded() bool {
	return r.Status == StatusSuccess && r.Data != nil && r.Data.Status == StatusSuccess
}

// TransactionStatus returns the nested transaction status, or empty if absent.
func (r *VerifyResponse) TransactionStatus() string {
	if r.Data == nil {
		return ""
	}
	return r.Data.Status
}
