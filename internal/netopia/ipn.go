package netopia

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
)

// IPN is the provider-initiated payment notification payload. Delivery is
// at least once; the same notification may arrive repeatedly and out of
// order with others for the same orderID.
type IPN struct {
	Payment IPNPayment `json:"payment"`
	Order   IPNOrder   `json:"order"`
	Error   *IPNError  `json:"error,omitempty"`
}

type IPNPayment struct {
	Status   int     `json:"status"`
	NtpID    string  `json:"ntpID"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

type IPNOrder struct {
	NtpID       string  `json:"ntpID"`
	OrderID     string  `json:"orderID"`
	DateTime    string  `json:"dateTime"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
}

type IPNError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Ack is the structured acknowledgment the provider requires on every
// notification, valid or not.
type Ack struct {
	ErrorType    int    `json:"errorType"`
	ErrorCode    string `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}

// ParseIPN decodes a notification from either a JSON body or a form post
// carrying the JSON document in a "data" field. Netopia uses both.
func ParseIPN(r *http.Request) (*IPN, error) {
	contentType := r.Header.Get("Content-Type")
	mediaType, _, _ := mime.ParseMediaType(contentType)

	var payload IPN
	if mediaType == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			return nil, fmt.Errorf("failed to decode IPN body: %w", err)
		}
		return &payload, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("failed to parse IPN form: %w", err)
	}
	data := r.PostForm.Get("data")
	if data == "" {
		return nil, fmt.Errorf("IPN form missing data field")
	}
	if err := json.Unmarshal([]byte(data), &payload); err != nil {
		return nil, fmt.Errorf("failed to decode IPN data field: %w", err)
	}
	return &payload, nil
}
