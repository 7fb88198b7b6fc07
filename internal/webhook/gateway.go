package webhook

import (
	"encoding/json"
	"fmt"
	"strings"

	"vtu-service/internal/gateway"

	"github.com/shopspring/decimal"
)

const (
	GatewayChargeSuccess   = "charge.success"
	GatewayChargeFailed    = "charge.failed"
	GatewayTransferSuccess = "transfer.success"
	GatewayTransferFailed  = "transfer.failed"
)

// GatewayEvent is one of ChargeSuccess, ChargeFailed, TransferEvent or
// UnrecognizedGatewayEvent.
type GatewayEvent interface {
	gatewayEvent()
}

type ChargeSuccess struct {
	Reference string
	Amount    decimal.Decimal
	Raw       json.RawMessage
}

type ChargeFailed struct {
	Reference string
	Raw       json.RawMessage
}

// TransferEvent is reserved for withdrawals and has no ledger effect yet.
type TransferEvent struct {
	Event     string
	Reference string
	Raw       json.RawMessage
}

type UnrecognizedGatewayEvent struct {
	Event  string
	Reason string
	Raw    json.RawMessage
}

func (ChargeSuccess) gatewayEvent()            {}
func (ChargeFailed) gatewayEvent()             {}
func (TransferEvent) gatewayEvent()            {}
func (UnrecognizedGatewayEvent) gatewayEvent() {}

type gatewayEnvelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type chargeData struct {
	Reference string `json:"reference"`
	Amount    int64  `json:"amount"`
	Status    string `json:"status"`
}

// ParseGatewayEvent decodes a gateway callback whose signature has already
// been verified.
func ParseGatewayEvent(body []byte) (GatewayEvent, error) {
	var env gatewayEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if strings.TrimSpace(env.Event) == "" {
		return nil, fmt.Errorf("%w: event is required", ErrMalformedPayload)
	}
	raw := json.RawMessage(body)

	switch env.Event {
	case GatewayChargeSuccess, GatewayChargeFailed, GatewayTransferSuccess, GatewayTransferFailed:
		var data chargeData
		if len(env.Data) > 0 {
			if err := json.Unmarshal(env.Data, &data); err != nil {
				return UnrecognizedGatewayEvent{Event: env.Event, Reason: "undecodable data: " + err.Error(), Raw: raw}, nil
			}
		}
		if strings.TrimSpace(data.Reference) == "" {
			return UnrecognizedGatewayEvent{Event: env.Event, Reason: "missing reference", Raw: raw}, nil
		}

		switch env.Event {
		case GatewayChargeSuccess:
			return ChargeSuccess{Reference: data.Reference, Amount: gateway.FromMinor(data.Amount), Raw: raw}, nil
		case GatewayChargeFailed:
			return ChargeFailed{Reference: data.Reference, Raw: raw}, nil
		}
		return TransferEvent{Event: env.Event, Reference: data.Reference, Raw: raw}, nil
	}

	return UnrecognizedGatewayEvent{Event: env.Event, Reason: "unknown event", Raw: raw}, nil
}
