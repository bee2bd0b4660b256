// Package validation applies a declarative rule table to form values.
package validation

import (
	"fmt"
	"log"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"
)

const (
	MsgRequired        = "Campo obrigatório"
	MsgInvalidFormat   = "Formato inválido"
	MsgValidationError = "Erro de validação"
)

// Rule descreve as checagens de um campo. Custom devolve "" quando o valor é aceito.
type Rule struct {
	Required       bool
	MinLength      int
	MaxLength      int
	Pattern        *regexp.Regexp
	PatternMessage string
	Custom         func(value any) string
}

type FieldRule struct {
	Field string
	Rule  Rule
}

type Errors map[string]string

func (e Errors) Empty() bool { return len(e) == 0 }

type Result struct {
	Valid  bool   `json:"valid"`
	Errors Errors `json:"errors"`
}

type Engine struct {
	order []string
	rules map[string]Rule
}

func NewEngine(rules ...FieldRule) *Engine {
	e := &Engine{rules: make(map[string]Rule, len(rules))}
	for _, fr := range rules {
		if _, exists := e.rules[fr.Field]; !exists {
			e.order = append(e.order, fr.Field)
		}
		e.rules[fr.Field] = fr.Rule
	}
	return e
}

// Fields returns the declared field names in declaration order.
func (e *Engine) Fields() []string {
	out := make([]string, len(e.order))
	copy(out, e.order)
	return out
}

// ValidateField returns the first error message for value, or "".
// Fields without a rule are always valid.
func (e *Engine) ValidateField(field string, value any) string {
	rule, ok := e.rules[field]
	if !ok {
		return ""
	}

	empty := isEmpty(value)
	if rule.Required && empty {
		return MsgRequired
	}
	if empty {
		return ""
	}

	if s, isString := value.(string); isString {
		length := utf8.RuneCountInString(strings.TrimSpace(s))
		if rule.MinLength > 0 && length < rule.MinLength {
			return fmt.Sprintf("Mínimo de %d caracteres", rule.MinLength)
		}
		if rule.MaxLength > 0 && length > rule.MaxLength {
			return fmt.Sprintf("Máximo de %d caracteres", rule.MaxLength)
		}
		if rule.Pattern != nil && !rule.Pattern.MatchString(strings.TrimSpace(s)) {
			if rule.PatternMessage != "" {
				return rule.PatternMessage
			}
			return MsgInvalidFormat
		}
	}

	if rule.Custom != nil {
		return runCustom(field, rule.Custom, value)
	}
	return ""
}

// ValidateForm validates every declared field. Valid is true only when no field fails.
func (e *Engine) ValidateForm(data map[string]any) Result {
	errs := Errors{}
	for _, field := range e.order {
		if msg := e.ValidateField(field, data[field]); msg != "" {
			errs[field] = msg
		}
	}
	return Result{Valid: errs.Empty(), Errors: errs}
}

// ValidateSingleField validates one field and records the outcome in state.
func (e *Engine) ValidateSingleField(state *State, field string, value any) string {
	msg := e.ValidateField(field, value)
	state.record(field, msg)
	return msg
}

func runCustom(field string, fn func(any) string, value any) (msg string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ Erro na validação do campo %s: %v", field, r)
			msg = MsgValidationError
		}
	}()
	return fn(value)
}

func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case *string:
		return v == nil || strings.TrimSpace(*v) == ""
	}
	return false
}

// State guarda o feedback campo a campo de uma sessão de edição.
type State struct {
	mu      sync.Mutex
	touched map[string]bool
	errors  Errors
}

func NewState() *State {
	return &State{touched: map[string]bool{}, errors: Errors{}}
}

func (s *State) record(field, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched[field] = true
	if msg == "" {
		delete(s.errors, field)
		return
	}
	s.errors[field] = msg
}

func (s *State) Touched(field string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touched[field]
}

// Errors returns a copy of the current per-field errors.
func (s *State) Errors() Errors {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(Errors, len(s.errors))
	for k, v := range s.errors {
		out[k] = v
	}
	return out
}

// Reset clears touched flags and errors.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched = map[string]bool{}
	s.errors = Errors{}
}
