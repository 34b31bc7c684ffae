package dto

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ConvertRequest representa la request de GET /api/v1/convert?amount=&to=
type ConvertRequest struct {
	Amount float64 `json:"amount"`
	To     string  `json:"to"`
}

// NewConvertRequest crea la request desde query parameters.
// Si toParam está vacío usa defaultTo (la primera moneda de display).
func NewConvertRequest(amountParam, toParam, defaultTo string) (*ConvertRequest, error) {
	amountParam = strings.TrimSpace(amountParam)
	if amountParam == "" {
		return nil, errors.New("amount is required")
	}

	amount, err := strconv.ParseFloat(amountParam, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %s (expected a number)", amountParam)
	}

	to := strings.ToUpper(strings.TrimSpace(toParam))
	if to == "" {
		to = strings.ToUpper(defaultTo)
	}

	request := &ConvertRequest{Amount: amount, To: to}
	if err := request.Validate(); err != nil {
		return nil, err
	}
	return request, nil
}

// Validate valida la request
func (r *ConvertRequest) Validate() error {
	if math.IsNaN(r.Amount) || math.IsInf(r.Amount, 0) {
		return errors.New("amount must be a finite number")
	}
	if r.Amount < 0 {
		return errors.New("amount cannot be negative")
	}
	if len(r.To) != 3 {
		return fmt.Errorf("invalid currency code: %q (expected 3 letters)", r.To)
	}
	for _, c := range r.To {
		if c < 'A' || c > 'Z' {
			return fmt.Errorf("invalid currency code: %q (expected 3 letters)", r.To)
		}
	}
	return nil
}
