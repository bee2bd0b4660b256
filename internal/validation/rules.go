package validation

import (
	"math"
	"net/mail"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var (
	phonePattern = regexp.MustCompile(`^\(?\d{2}\)?\s?9?\d{4}-?\d{4}$`)
	cpfPattern   = regexp.MustCompile(`^\d{3}\.?\d{3}\.?\d{3}-?\d{2}$`)
	cepPattern   = regexp.MustCompile(`^\d{5}-?\d{3}$`)
	nonDigit     = regexp.MustCompile(`\D`)
)

func EmailRule(required bool) Rule {
	return Rule{
		Required:  required,
		MaxLength: 254,
		Custom: func(v any) string {
			s, _ := v.(string)
			if _, err := mail.ParseAddress(strings.TrimSpace(s)); err != nil {
				return "Email inválido"
			}
			return ""
		},
	}
}

// PasswordRule exige 8+ caracteres com maiúscula, minúscula e número.
func PasswordRule() Rule {
	return Rule{
		Required:  true,
		MinLength: 8,
		MaxLength: 128,
		Custom: func(v any) string {
			s, _ := v.(string)
			var upper, lower, digit bool
			for _, r := range s {
				switch {
				case unicode.IsUpper(r):
					upper = true
				case unicode.IsLower(r):
					lower = true
				case unicode.IsDigit(r):
					digit = true
				}
			}
			if !upper || !lower || !digit {
				return "A senha deve conter letra maiúscula, minúscula e número"
			}
			return ""
		},
	}
}

func PhoneRule(required bool) Rule {
	return Rule{
		Required:       required,
		Pattern:        phonePattern,
		PatternMessage: "Telefone inválido. Use (11) 99999-9999",
	}
}

func CPFRule(required bool) Rule {
	return Rule{
		Required:       required,
		Pattern:        cpfPattern,
		PatternMessage: "CPF deve estar no formato 000.000.000-00",
		Custom: func(v any) string {
			s, _ := v.(string)
			if !ValidCPF(s) {
				return "CPF inválido"
			}
			return ""
		},
	}
}

func CEPRule(required bool) Rule {
	return Rule{
		Required:       required,
		Pattern:        cepPattern,
		PatternMessage: "CEP deve estar no formato 00000-000",
	}
}

// FullNameRule exige nome e sobrenome.
func FullNameRule(required bool) Rule {
	return Rule{
		Required:  required,
		MinLength: 3,
		MaxLength: 120,
		Custom: func(v any) string {
			s, _ := v.(string)
			if len(strings.Fields(s)) < 2 {
				return "Informe nome e sobrenome"
			}
			return ""
		},
	}
}

func NumberRule(required bool) Rule {
	return Rule{
		Required: required,
		Custom: func(v any) string {
			if _, ok := ToFloat(v); !ok {
				return "Deve ser um número"
			}
			return ""
		},
	}
}

func PositiveNumberRule(required bool) Rule {
	return Rule{
		Required: required,
		Custom: func(v any) string {
			n, ok := ToFloat(v)
			if !ok {
				return "Deve ser um número"
			}
			if n <= 0 {
				return "Deve ser maior que zero"
			}
			return ""
		},
	}
}

// ProposalRules é o subconjunto exercido pelo formulário de proposta.
func ProposalRules() *Engine {
	return NewEngine(
		FieldRule{"client_name", Rule{Required: true, MinLength: 3, MaxLength: 120}},
		FieldRule{"client_phone", PhoneRule(true)},
		FieldRule{"client_email", EmailRule(false)},
		FieldRule{"postal_code", CEPRule(false)},
		FieldRule{"desired_kwh", PositiveNumberRule(true)},
		FieldRule{"monthly_consumption", NumberRule(false)},
		FieldRule{"module_power", PositiveNumberRule(true)},
		FieldRule{"inverter_power", NumberRule(false)},
		FieldRule{"price_per_kwp", PositiveNumberRule(true)},
	)
}

// ValidCPF checks the two CPF verification digits.
func ValidCPF(cpf string) bool {
	cleaned := nonDigit.ReplaceAllString(cpf, "")
	if len(cleaned) != 11 {
		return false
	}

	allEqual := true
	for i := 1; i < len(cleaned); i++ {
		if cleaned[i] != cleaned[0] {
			allEqual = false
			break
		}
	}
	if allEqual {
		return false
	}

	digits := make([]int, 11)
	for i := range cleaned {
		digits[i] = int(cleaned[i] - '0')
	}

	return checkDigit(digits[:9], 10) == digits[9] &&
		checkDigit(digits[:10], 11) == digits[10]
}

func checkDigit(digits []int, weight int) int {
	sum := 0
	for i, d := range digits {
		sum += d * (weight - i)
	}
	rest := (sum * 10) % 11
	if rest == 10 {
		return 0
	}
	return rest
}

// ToFloat accepts numeric values and numeric strings (comma or dot decimals).
// NaN and infinities are not numbers here.
func ToFloat(v any) (float64, bool) {
	f, ok := toFloat(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(n), ",", ".")
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	}
	return 0, false
}
