package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CommissionType string

const (
	CommissionPercentage CommissionType = "percentage"
	CommissionFlatFee    CommissionType = "flat_fee"
)

type ServiceProvider struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Type           ServiceType     `json:"type"`
	Code           string          `json:"code"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
	CommissionType CommissionType  `json:"commission_type"`
	FlatFeeAmount  decimal.Decimal `json:"flat_fee_amount"`
	IsEnabled      bool            `json:"is_enabled"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

const ProviderStatusActive = "active"

func (p *ServiceProvider) Available() bool {
	return p.IsEnabled && p.Status == ProviderStatusActive
}

type PlanStatus string

const (
	PlanStatusActive   PlanStatus = "active"
	PlanStatusInactive PlanStatus = "inactive"
)

type ServicePlan struct {
	ID          uuid.UUID       `json:"id"`
	ProviderID  uuid.UUID       `json:"provider_id"`
	Name        string          `json:"name"`
	Code        string          `json:"code"`
	Amount      decimal.Decimal `json:"amount"`
	Validity    string          `json:"validity,omitempty"`
	Description string          `json:"description,omitempty"`
	Status      PlanStatus      `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Variation is one entry of the biller's authoritative plan list.
type Variation struct {
	Code   string
	Name   string
	Amount decimal.Decimal
}

type SyncResult struct {
	Created     int `json:"created"`
	Updated     int `json:"updated"`
	Deactivated int `json:"deactivated"`
}

type CommissionUpdate struct {
	Type          CommissionType  `json:"commission_type"`
	Rate          decimal.Decimal `json:"commission_rate"`
	FlatFeeAmount decimal.Decimal `json:"flat_fee_amount"`
}

var billerServiceTypes = map[string]ServiceType{
	"mtn":                         ServiceTypeAirtime,
	"glo":                         ServiceTypeAirtime,
	"airtel":                      ServiceTypeAirtime,
	"etisalat":                    ServiceTypeAirtime,
	"foreign-airtime":             ServiceTypeAirtime,
	"smile-direct":                ServiceTypeData,
	"spectranet":                  ServiceTypeData,
	"dstv":                        ServiceTypeTV,
	"gotv":                        ServiceTypeTV,
	"startimes":                   ServiceTypeTV,
	"showmax":                     ServiceTypeTV,
	"waec":                        ServiceTypeEducation,
	"waec-registration":           ServiceTypeEducation,
	"jamb":                        ServiceTypeEducation,
	"ui-insure":                   ServiceTypeInsurance,
	"personal-accident-insurance": ServiceTypeInsurance,
	"home-cover-insurance":        ServiceTypeInsurance,
}

// ServiceTypeForBillerCode maps a biller serviceID (as sent in
// variations-update callbacks) onto the local provider type.
func ServiceTypeForBillerCode(serviceID string) (ServiceType, bool) {
	code := strings.ToLower(strings.TrimSpace(serviceID))
	if t, ok := billerServiceTypes[code]; ok {
		return t, true
	}
	switch {
	case strings.HasSuffix(code, "-data"):
		return ServiceTypeData, true
	case strings.HasSuffix(code, "-electric"):
		return ServiceTypeElectricity, true
	}
	return "", false
}

// DefaultProviders is the catalog a fresh deployment starts from. Commission
// rates are placeholders until an admin sets them.
func DefaultProviders() []ServiceProvider {
	type seed struct {
		name, code string
		t          ServiceType
	}
	seeds := []seed{
		{"MTN", "mtn", ServiceTypeAirtime},
		{"Glo", "glo", ServiceTypeAirtime},
		{"Airtel", "airtel", ServiceTypeAirtime},
		{"9mobile", "etisalat", ServiceTypeAirtime},
		{"MTN Data", "mtn-data", ServiceTypeData},
		{"Glo Data", "glo-data", ServiceTypeData},
		{"Airtel Data", "airtel-data", ServiceTypeData},
		{"9mobile Data", "etisalat-data", ServiceTypeData},
		{"DStv", "dstv", ServiceTypeTV},
		{"GOtv", "gotv", ServiceTypeTV},
		{"Startimes", "startimes", ServiceTypeTV},
		{"Ikeja Electric", "ikeja-electric", ServiceTypeElectricity},
		{"Eko Electric", "eko-electric", ServiceTypeElectricity},
		{"Abuja Electric", "abuja-electric", ServiceTypeElectricity},
		{"WAEC Result Checker", "waec", ServiceTypeEducation},
		{"JAMB", "jamb", ServiceTypeEducation},
		{"Third Party Motor Insurance", "ui-insure", ServiceTypeInsurance},
	}

	out := make([]ServiceProvider, 0, len(seeds))
	for _, s := range seeds {
		out = append(out, ServiceProvider{
			Name:           s.name,
			Type:           s.t,
			Code:           s.code,
			CommissionType: CommissionPercentage,
			CommissionRate: decimal.Zero,
			FlatFeeAmount:  decimal.Zero,
			IsEnabled:      true,
			Status:         ProviderStatusActive,
		})
	}
	return out
}
