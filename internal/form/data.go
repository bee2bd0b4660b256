package form

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xavierca1/ligue-solar/internal/calculator"
	"github.com/xavierca1/ligue-solar/internal/entity"
	"github.com/xavierca1/ligue-solar/internal/validation"
)

var (
	ErrUnknownField  = errors.New("campo desconhecido")
	ErrReadOnlyField = errors.New("campo calculado não pode ser editado")
	ErrInvalidValue  = errors.New("valor inválido")
)

type Field string

const (
	FieldClientName         Field = "client_name"
	FieldClientPhone        Field = "client_phone"
	FieldClientEmail        Field = "client_email"
	FieldPostalCode         Field = "postal_code"
	FieldStreet             Field = "street"
	FieldNumber             Field = "number"
	FieldNeighborhood       Field = "neighborhood"
	FieldCity               Field = "city"
	FieldState              Field = "state"
	FieldComplement         Field = "complement"
	FieldNoAddress          Field = "no_address"
	FieldDesiredKwh         Field = "desired_kwh"
	FieldMonthlyConsumption Field = "monthly_consumption"
	FieldModulePower        Field = "module_power"
	FieldModuleBrand        Field = "module_brand"
	FieldInverterBrand      Field = "inverter_brand"
	FieldInverterPower      Field = "inverter_power"
	FieldConnectionType     Field = "connection_type"
	FieldPricePerKwp        Field = "price_per_kwp"
	FieldPaymentMethod      Field = "payment_method"
	FieldNotes              Field = "notes"

	// derivados
	FieldSystemPowerKwp Field = "system_power_kwp"
	FieldModuleQuantity Field = "module_quantity"
	FieldAverageBill    Field = "average_bill"
)

// Data é o estado transitório do formulário de proposta.
type Data struct {
	ClientName   string `json:"client_name"`
	ClientPhone  string `json:"client_phone"`
	ClientEmail  string `json:"client_email"`
	PostalCode   string `json:"postal_code"`
	Street       string `json:"street"`
	Number       string `json:"number"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	Complement   string `json:"complement"`
	NoAddress    bool   `json:"no_address"`

	DesiredKwh         float64               `json:"desired_kwh"`
	MonthlyConsumption float64               `json:"monthly_consumption"`
	ModulePower        float64               `json:"module_power"`
	ModuleBrand        string                `json:"module_brand"`
	InverterBrand      string                `json:"inverter_brand"`
	InverterPower      float64               `json:"inverter_power"`
	ConnectionType     entity.ConnectionType `json:"connection_type"`
	PricePerKwp        float64               `json:"price_per_kwp"`
	PaymentMethod      entity.PaymentMethod  `json:"payment_method"`
	Notes              string                `json:"notes"`

	SystemPowerKwp float64                 `json:"system_power_kwp"`
	ModuleQuantity int                     `json:"module_quantity"`
	AverageBill    float64                 `json:"average_bill"`
	Calculations   calculator.Calculations `json:"calculations"`
}

// Value devolve o valor atual de um campo.
func (d Data) Value(f Field) (any, bool) {
	switch f {
	case FieldClientName:
		return d.ClientName, true
	case FieldClientPhone:
		return d.ClientPhone, true
	case FieldClientEmail:
		return d.ClientEmail, true
	case FieldPostalCode:
		return d.PostalCode, true
	case FieldStreet:
		return d.Street, true
	case FieldNumber:
		return d.Number, true
	case FieldNeighborhood:
		return d.Neighborhood, true
	case FieldCity:
		return d.City, true
	case FieldState:
		return d.State, true
	case FieldComplement:
		return d.Complement, true
	case FieldNoAddress:
		return d.NoAddress, true
	case FieldDesiredKwh:
		return d.DesiredKwh, true
	case FieldMonthlyConsumption:
		return d.MonthlyConsumption, true
	case FieldModulePower:
		return d.ModulePower, true
	case FieldModuleBrand:
		return d.ModuleBrand, true
	case FieldInverterBrand:
		return d.InverterBrand, true
	case FieldInverterPower:
		return d.InverterPower, true
	case FieldConnectionType:
		return string(d.ConnectionType), true
	case FieldPricePerKwp:
		return d.PricePerKwp, true
	case FieldPaymentMethod:
		return string(d.PaymentMethod), true
	case FieldNotes:
		return d.Notes, true
	case FieldSystemPowerKwp:
		return d.SystemPowerKwp, true
	case FieldModuleQuantity:
		return d.ModuleQuantity, true
	case FieldAverageBill:
		return d.AverageBill, true
	}
	return nil, false
}

// Values exporta os campos no formato aceito pelo validation.Engine.
func (d Data) Values() map[string]any {
	values := make(map[string]any, len(editable))
	for _, f := range editable {
		v, _ := d.Value(f)
		values[string(f)] = v
	}
	return values
}

var editable = []Field{
	FieldClientName, FieldClientPhone, FieldClientEmail,
	FieldPostalCode, FieldStreet, FieldNumber, FieldNeighborhood, FieldCity, FieldState, FieldComplement, FieldNoAddress,
	FieldDesiredKwh, FieldMonthlyConsumption, FieldModulePower, FieldModuleBrand,
	FieldInverterBrand, FieldInverterPower, FieldConnectionType, FieldPricePerKwp,
	FieldPaymentMethod, FieldNotes,
}

// with devolve uma cópia de d com o campo alterado.
func (d Data) with(f Field, value any) (Data, error) {
	switch f {
	case FieldSystemPowerKwp, FieldModuleQuantity, FieldAverageBill:
		return d, fmt.Errorf("%w: %s", ErrReadOnlyField, f)
	case FieldNoAddress:
		b, ok := value.(bool)
		if !ok {
			return d, fmt.Errorf("%w: %s", ErrInvalidValue, f)
		}
		d.NoAddress = b
		return d, nil
	case FieldDesiredKwh, FieldMonthlyConsumption, FieldModulePower, FieldInverterPower, FieldPricePerKwp:
		n, ok := toNumber(value)
		if !ok {
			return d, fmt.Errorf("%w: %s", ErrInvalidValue, f)
		}
		switch f {
		case FieldDesiredKwh:
			d.DesiredKwh = n
		case FieldMonthlyConsumption:
			d.MonthlyConsumption = n
		case FieldModulePower:
			d.ModulePower = n
		case FieldInverterPower:
			d.InverterPower = n
		case FieldPricePerKwp:
			d.PricePerKwp = n
		}
		return d, nil
	}

	s, ok := value.(string)
	if !ok {
		return d, fmt.Errorf("%w: %s", ErrInvalidValue, f)
	}
	switch f {
	case FieldClientName:
		d.ClientName = s
	case FieldClientPhone:
		d.ClientPhone = s
	case FieldClientEmail:
		d.ClientEmail = s
	case FieldPostalCode:
		d.PostalCode = s
	case FieldStreet:
		d.Street = s
	case FieldNumber:
		d.Number = s
	case FieldNeighborhood:
		d.Neighborhood = s
	case FieldCity:
		d.City = s
	case FieldState:
		d.State = s
	case FieldComplement:
		d.Complement = s
	case FieldModuleBrand:
		d.ModuleBrand = s
	case FieldInverterBrand:
		d.InverterBrand = s
	case FieldConnectionType:
		d.ConnectionType = entity.ConnectionType(s)
	case FieldPaymentMethod:
		d.PaymentMethod = entity.PaymentMethod(s)
	case FieldNotes:
		d.Notes = s
	default:
		return d, fmt.Errorf("%w: %s", ErrUnknownField, f)
	}
	return d, nil
}

// Campos numéricos vazios voltam a zero.
func toNumber(value any) (float64, bool) {
	if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
		return 0, true
	}
	return validation.ToFloat(value)
}

// ToProposal monta a proposta com o retrato atual dos cálculos.
func (d Data) ToProposal() entity.Proposal {
	p := entity.Proposal{
		ClientName:  strings.TrimSpace(d.ClientName),
		ClientPhone: d.ClientPhone,
		ClientEmail: d.ClientEmail,

		DesiredKwh:         d.DesiredKwh,
		MonthlyConsumption: d.MonthlyConsumption,
		ModulePower:        d.ModulePower,
		ModuleQuantity:     d.Calculations.ModuleQuantity,
		ModuleBrand:        d.ModuleBrand,
		InverterBrand:      d.InverterBrand,
		InverterPower:      d.InverterPower,
		ConnectionType:     d.ConnectionType,
		PricePerKwp:        d.PricePerKwp,
		PaymentMethod:      d.PaymentMethod,
		Notes:              d.Notes,

		SystemPowerKwp:    d.Calculations.SystemPowerKwp,
		MonthlyGeneration: d.Calculations.MonthlyGeneration,
		MonthlySavings:    d.Calculations.MonthlySavings,
		RequiredArea:      d.Calculations.RequiredArea,
		TotalValue:        d.Calculations.TotalValue,
	}
	if !d.NoAddress {
		p.Address = entity.Address{
			PostalCode:   d.PostalCode,
			Street:       d.Street,
			Number:       d.Number,
			Neighborhood: d.Neighborhood,
			City:         d.City,
			State:        d.State,
			Complement:   d.Complement,
		}
	}
	return p
}
