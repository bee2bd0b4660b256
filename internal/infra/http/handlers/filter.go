package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/xavierca1/ligue-solar/internal/analytics"
)

const dateParam = "2006-01-02"

// parseFilter lê ?client=&seller=&from=&to=&min_value=&max_value=.
// "to" inclui o dia inteiro.
func parseFilter(r *http.Request) (analytics.Filter, error) {
	q := r.URL.Query()
	f := analytics.Filter{
		ClientName: strings.TrimSpace(q.Get("client")),
		SellerName: strings.TrimSpace(q.Get("seller")),
	}

	if v := q.Get("from"); v != "" {
		t, err := time.ParseInLocation(dateParam, v, time.Local)
		if err != nil {
			return f, fmt.Errorf("from inválido: use AAAA-MM-DD")
		}
		f.From = t
	}
	if v := q.Get("to"); v != "" {
		t, err := time.ParseInLocation(dateParam, v, time.Local)
		if err != nil {
			return f, fmt.Errorf("to inválido: use AAAA-MM-DD")
		}
		f.To = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}

	var err error
	if f.MinValue, err = parseAmount(q.Get("min_value")); err != nil {
		return f, fmt.Errorf("min_value inválido")
	}
	if f.MaxValue, err = parseAmount(q.Get("max_value")); err != nil {
		return f, fmt.Errorf("max_value inválido")
	}
	return f, nil
}

func parseAmount(v string) (*float64, error) {
	if v == "" {
		return nil, nil
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
