package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/money"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var columns = []string{"id", "name", "phone", "discount_percentage", "loyalty_points"}

type loadResult struct {
	Created int
	Skipped int
}

// parseCustomers lee el CSV. Si el contenido no es UTF-8 se decodifica como ISO-8859-1
// (así exporta el POS anterior en Windows).
func parseCustomers(raw []byte, now time.Time) ([]*entity.Customer, error) {
	var in io.Reader = bytes.NewReader(raw)
	if !utf8.Valid(raw) {
		in = transform.NewReader(in, charmap.ISO8859_1.NewDecoder())
	}
	r := csv.NewReader(in)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("cabecera: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	if _, ok := idx["name"]; !ok {
		return nil, errors.New("cabecera: falta la columna name")
	}

	var out []*entity.Customer
	for line := 2; ; line++ {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		c, err := toCustomer(rec, idx, now)
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		out = append(out, c)
	}
	return out, nil
}

func toCustomer(rec []string, idx map[string]int, now time.Time) (*entity.Customer, error) {
	field := func(name string) string {
		i, ok := idx[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}
	amount := func(name string) (decimal.Decimal, error) {
		s := strings.ReplaceAll(field(name), ",", ".")
		if s == "" {
			return decimal.Zero, nil
		}
		d, err := decimal.NewFromString(s)
		if err != nil || d.IsNegative() {
			return decimal.Zero, fmt.Errorf("%w: %s=%q", domain.ErrInvalidInput, name, field(name))
		}
		return money.Round2(d), nil
	}

	name := field("name")
	if name == "" {
		return nil, fmt.Errorf("%w: nombre vacío", domain.ErrInvalidInput)
	}
	discount, err := amount("discount_percentage")
	if err != nil {
		return nil, err
	}
	if discount.GreaterThan(decimal.NewFromInt(100)) {
		return nil, fmt.Errorf("%w: descuento %s mayor a 100", domain.ErrInvalidInput, discount)
	}
	points, err := amount("loyalty_points")
	if err != nil {
		return nil, err
	}
	id := field("id")
	if id == "" {
		id = uuid.New().String()
	}
	return &entity.Customer{
		ID:                 id,
		Name:               name,
		Phone:              field("phone"),
		DiscountPercentage: discount,
		LoyaltyPoints:      points,
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

func load(ctx context.Context, repo repository.CustomerRepository, customers []*entity.Customer) (loadResult, error) {
	var res loadResult
	for _, c := range customers {
		err := repo.Create(ctx, c)
		switch {
		case err == nil:
			res.Created++
		case errors.Is(err, domain.ErrConflict):
			res.Skipped++
		default:
			return res, fmt.Errorf("cliente %s: %w", c.ID, err)
		}
	}
	return res, nil
}
