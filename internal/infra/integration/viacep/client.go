package viacep

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"regexp"
	"time"

	"github.com/xavierca1/ligue-solar/internal/entity"
)

const DefaultBaseURL = "https://viacep.com.br"

var (
	ErrAddressNotFound = errors.New("cep não encontrado")
	ErrInvalidCEP      = errors.New("cep deve ter 8 dígitos")
)

var nonDigit = regexp.MustCompile(`\D`)

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

// Lookup busca o endereço de um CEP de 8 dígitos (com ou sem hífen).
func (c *Client) Lookup(ctx context.Context, cep string) (entity.Address, error) {
	digits := NormalizeCEP(cep)
	if len(digits) != 8 {
		return entity.Address{}, ErrInvalidCEP
	}

	url := fmt.Sprintf("%s/ws/%s/json/", c.baseURL, digits)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return entity.Address{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return entity.Address{}, fmt.Errorf("erro request viacep: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusBadRequest {
		return entity.Address{}, ErrInvalidCEP
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		log.Printf("❌ ViaCEP: status %d para %s: %s", resp.StatusCode, digits, string(body))
		return entity.Address{}, fmt.Errorf("erro viacep (status %d)", resp.StatusCode)
	}

	var response addressResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return entity.Address{}, fmt.Errorf("erro decode viacep: %w", err)
	}
	if response.notFound() {
		return entity.Address{}, ErrAddressNotFound
	}

	return entity.Address{
		PostalCode:   FormatCEP(digits),
		Street:       response.Logradouro,
		Neighborhood: response.Bairro,
		City:         response.Localidade,
		State:        response.UF,
		Complement:   response.Complemento,
	}, nil
}

func NormalizeCEP(cep string) string {
	return nonDigit.ReplaceAllString(cep, "")
}

// FormatCEP devolve 00000-000 para 8 dígitos; outros valores voltam inalterados.
func FormatCEP(digits string) string {
	if len(digits) != 8 {
		return digits
	}
	return digits[:5] + "-" + digits[5:]
}
