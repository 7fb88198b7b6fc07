// Package webhook decodes biller and payment gateway callbacks into a closed
// set of event variants before any business logic sees them.
package webhook

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"vtu-service/internal/biller"
	"vtu-service/internal/models"
)

var ErrMalformedPayload = errors.New("malformed webhook payload")

const (
	BillerTransactionUpdate = "transaction-update"
	BillerVariationsUpdate  = "variations-update"
)

// BillerEvent is one of TransactionUpdate, VariationsUpdate or
// UnrecognizedBillerEvent.
type BillerEvent interface {
	billerEvent()
}

type TransactionUpdate struct {
	Outcome biller.Outcome
}

type VariationsUpdate struct {
	ServiceID  string
	Variations []models.Variation
}

// UnrecognizedBillerEvent is a well-formed envelope this service does not act
// on: an unknown type, or a known type missing the fields it needs.
type UnrecognizedBillerEvent struct {
	Type   string
	Reason string
	Raw    json.RawMessage
}

func (TransactionUpdate) billerEvent()       {}
func (VariationsUpdate) billerEvent()        {}
func (UnrecognizedBillerEvent) billerEvent() {}

type billerEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type variationsData struct {
	ServiceID     string                    `json:"serviceID"`
	ServiceIDAlt  string                    `json:"ServiceID"`
	Variations    []biller.VariationPayload `json:"variations"`
	VariationsAlt []biller.VariationPayload `json:"varations"`
}

// ParseBillerEvent decodes a biller callback. Only a body without a type or
// data member is an error; everything else becomes an event.
func ParseBillerEvent(body []byte) (BillerEvent, error) {
	var env billerEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	data := bytes.TrimSpace(env.Data)
	if strings.TrimSpace(env.Type) == "" || len(data) == 0 || string(data) == "null" {
		return nil, fmt.Errorf("%w: type and data are required", ErrMalformedPayload)
	}

	switch env.Type {
	case BillerTransactionUpdate:
		var e biller.Envelope
		if err := json.Unmarshal(data, &e); err != nil {
			return unrecognized(env, "undecodable transaction-update: "+err.Error()), nil
		}
		if strings.TrimSpace(e.RequestID) == "" {
			return unrecognized(env, "transaction-update without requestId"), nil
		}
		return TransactionUpdate{Outcome: e.Outcome()}, nil

	case BillerVariationsUpdate:
		var v variationsData
		if err := json.Unmarshal(data, &v); err != nil {
			return unrecognized(env, "undecodable variations-update: "+err.Error()), nil
		}
		serviceID := v.ServiceID
		if serviceID == "" {
			serviceID = v.ServiceIDAlt
		}
		if strings.TrimSpace(serviceID) == "" {
			return unrecognized(env, "variations-update without serviceID"), nil
		}
		payloads := v.Variations
		if len(payloads) == 0 {
			payloads = v.VariationsAlt
		}
		variations := make([]models.Variation, 0, len(payloads))
		for _, p := range payloads {
			variations = append(variations, p.Variation())
		}
		return VariationsUpdate{ServiceID: serviceID, Variations: variations}, nil
	}

	return unrecognized(env, "unknown type"), nil
}

func unrecognized(env billerEnvelope, reason string) UnrecognizedBillerEvent {
	return UnrecognizedBillerEvent{Type: env.Type, Reason: reason, Raw: env.Data}
}
