package biller

import (
	"bytes"
	"strings"

	"vtu-service/internal/models"

	"github.com/shopspring/decimal"
)

// Response codes the biller returns on pay, requery and transaction-update
// callbacks.
const (
	CodeSuccess    = "000"
	CodeProcessing = "099"
	CodeReversed   = "040"
)

// Outcome is the biller's view of one transaction, however it reached us.
type Outcome struct {
	Code          string
	Status        string
	RequestID     string
	TransactionID string
	Description   string
	PurchasedCode string
	Amount        decimal.Decimal
	HasAmount     bool
}

// Resolve maps the response code table onto a purchase status.
func (o Outcome) Resolve() models.TransactionStatus {
	switch o.Code {
	case CodeSuccess:
		switch strings.ToLower(o.Status) {
		case "delivered", "successful":
			return models.StatusSuccess
		case "pending", "initiated", "processing":
			return models.StatusPending
		}
		return models.StatusSuccess
	case CodeProcessing:
		return models.StatusPending
	case CodeReversed:
		return models.StatusReversed
	}
	return models.StatusFailed
}

// Envelope is the body shared by pay and requery responses and by the data
// member of transaction-update callbacks.
type Envelope struct {
	Code                string          `json:"code"`
	ResponseDescription string          `json:"response_description"`
	RequestID           string          `json:"requestId"`
	Amount              Amount          `json:"amount"`
	PurchasedCode       string          `json:"purchased_code"`
	Token               string          `json:"token"`
	MainToken           string          `json:"mainToken"`
	Content             EnvelopeContent `json:"content"`
}

type EnvelopeContent struct {
	Transactions struct {
		Status        string `json:"status"`
		TransactionID string `json:"transactionId"`
	} `json:"transactions"`
}

func (e Envelope) Outcome() Outcome {
	code := e.PurchasedCode
	if code == "" {
		code = e.Token
	}
	if code == "" {
		code = e.MainToken
	}
	return Outcome{
		Code:          e.Code,
		Status:        e.Content.Transactions.Status,
		RequestID:     e.RequestID,
		TransactionID: e.Content.Transactions.TransactionID,
		Description:   e.ResponseDescription,
		PurchasedCode: code,
		Amount:        e.Amount.Decimal,
		HasAmount:     e.Amount.Valid,
	}
}

// Amount accepts the biller's numbers, quoted numbers, empty strings and null.
type Amount struct {
	Decimal decimal.Decimal
	Valid   bool
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" || string(b) == `""` {
		*a = Amount{}
		return nil
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return err
	}
	*a = Amount{Decimal: d, Valid: true}
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.Valid {
		return []byte("null"), nil
	}
	return a.Decimal.MarshalJSON()
}
