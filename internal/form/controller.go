// Package form holds the proposal authoring state and re-derives dependent
// fields from an explicit dependency list.
package form

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"
	"sync"

	"github.com/xavierca1/ligue-solar/internal/calculator"
	"github.com/xavierca1/ligue-solar/internal/entity"
)

// Tamanho do CEP formatado (00000-000)
const postalCodeLength = 9

type AddressLookup interface {
	Lookup(ctx context.Context, cep string) (entity.Address, error)
}

// Derivation recalcula campos derivados quando algum valor de DependsOn muda.
type Derivation struct {
	Name      string
	DependsOn []Field
	Derive    func(d *Data)
}

type Change struct {
	Field Field `json:"field"`
	Value any   `json:"value"`
}

type Option func(*Controller)

// WithAddressLookup liga o preenchimento automático de endereço pelo CEP.
func WithAddressLookup(lookup AddressLookup) Option {
	return func(c *Controller) { c.lookup = lookup }
}

// WithOnCalculations registra o callback chamado quando TotalValue > 0.
func WithOnCalculations(fn func(calculator.Calculations)) Option {
	return func(c *Controller) { c.onCalculations = fn }
}

func WithDerivations(derivations ...Derivation) Option {
	return func(c *Controller) { c.derivations = derivations }
}

type Controller struct {
	mu             sync.Mutex
	data           Data
	derivations    []Derivation
	memo           map[string]string
	lookup         AddressLookup
	onCalculations func(calculator.Calculations)
}

func NewController(initial Data, opts ...Option) *Controller {
	c := &Controller{
		data:        initial,
		derivations: DefaultDerivations(),
		memo:        make(map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.mu.Lock()
	calcs, changed := c.derive()
	c.mu.Unlock()
	c.notify(calcs, changed)
	return c
}

// DefaultDerivations: potência/quantidade, conta média e o resultado completo.
func DefaultDerivations() []Derivation {
	return []Derivation{
		{
			Name:      "system",
			DependsOn: []Field{FieldDesiredKwh, FieldModulePower},
			Derive: func(d *Data) {
				power := calculator.CalculateRequiredPower(d.DesiredKwh)
				d.SystemPowerKwp = math.Round(power*100) / 100
				d.ModuleQuantity = calculator.CalculateModuleQuantity(power, d.ModulePower)
			},
		},
		{
			Name:      "bill",
			DependsOn: []Field{FieldMonthlyConsumption},
			Derive: func(d *Data) {
				d.AverageBill = calculator.CalculateAverageBill(d.MonthlyConsumption)
			},
		},
		{
			Name:      "calculations",
			DependsOn: []Field{FieldDesiredKwh, FieldModulePower, FieldPricePerKwp, FieldMonthlyConsumption},
			Derive: func(d *Data) {
				d.Calculations = calculator.Calculate(calculator.Input{
					DesiredKwh:         d.DesiredKwh,
					ModulePower:        d.ModulePower,
					PricePerKwp:        d.PricePerKwp,
					MonthlyConsumption: d.MonthlyConsumption,
				})
			},
		},
	}
}

func (c *Controller) Data() Data {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data
}

// Set grava um campo e recalcula as derivações afetadas.
func (c *Controller) Set(ctx context.Context, field Field, value any) (Data, error) {
	st, err := c.store(field, value)
	if err != nil {
		return c.Data(), err
	}

	c.notify(st.calcs, st.changed)
	if st.autofill {
		c.autofill(ctx, st.cep)
	}
	return c.Data(), nil
}

type stored struct {
	calcs    calculator.Calculations
	changed  bool
	cep      string
	autofill bool
}

// store grava o campo e deriva sob o lock.
func (c *Controller) store(field Field, value any) (stored, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	next, err := c.data.with(field, value)
	if err != nil {
		return stored{}, err
	}
	c.data = next

	var st stored
	st.calcs, st.changed = c.derive()
	st.cep, st.autofill = c.shouldAutofill(field)
	return st, nil
}

// Apply aplica as alterações em ordem e para na primeira inválida.
func (c *Controller) Apply(ctx context.Context, changes []Change) (Data, error) {
	for i, ch := range changes {
		if _, err := c.Set(ctx, ch.Field, ch.Value); err != nil {
			return c.Data(), fmt.Errorf("alteração %d: %w", i, err)
		}
	}
	return c.Data(), nil
}

// derive roda cada derivação cujo retrato de dependências mudou. Caller holds mu.
func (c *Controller) derive() (calculator.Calculations, bool) {
	calculationsChanged := false
	for _, dv := range c.derivations {
		key := c.data.snapshot(dv.DependsOn)
		if last, ok := c.memo[dv.Name]; ok && last == key {
			continue
		}
		dv.Derive(&c.data)
		c.memo[dv.Name] = key
		if dv.Name == "calculations" {
			calculationsChanged = true
		}
	}
	return c.data.Calculations, calculationsChanged
}

func (c *Controller) notify(calcs calculator.Calculations, changed bool) {
	if changed && c.onCalculations != nil && calcs.TotalValue > 0 {
		c.onCalculations(calcs)
	}
}

func (c *Controller) shouldAutofill(field Field) (string, bool) {
	if field != FieldPostalCode || c.lookup == nil || c.data.NoAddress {
		return "", false
	}
	cep := strings.TrimSpace(c.data.PostalCode)
	return cep, len(cep) == postalCodeLength
}

// autofill sobrescreve o endereço só quando a consulta dá certo.
func (c *Controller) autofill(ctx context.Context, cep string) {
	addr, err := c.lookup.Lookup(ctx, cep)
	if err != nil {
		log.Printf("⚠️ Consulta de CEP %s falhou: %v", cep, err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// o usuário pode ter trocado o CEP ou marcado "sem endereço" durante a consulta
	if strings.TrimSpace(c.data.PostalCode) != cep || c.data.NoAddress {
		return
	}
	c.data.Street = addr.Street
	c.data.Neighborhood = addr.Neighborhood
	c.data.City = addr.City
	c.data.State = addr.State
}

func (d Data) snapshot(fields []Field) string {
	var b strings.Builder
	for _, f := range fields {
		v, _ := d.Value(f)
		fmt.Fprintf(&b, "%s=%v;", f, v)
	}
	return b.String()
}
