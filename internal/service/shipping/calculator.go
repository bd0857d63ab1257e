package shipping

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/pharmacy-oms/internal/domain"
)

var (
	postalCodePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 -]{1,8}[A-Za-z0-9]$`)
	countryPattern    = regexp.MustCompile(`^[A-Z]{2}$`)
)

// Config задаёт тарифы доставки.
type Config struct {
	// BaseFee: стоимость доставки за первую единицу товара.
	BaseFee decimal.Decimal
	// PerItemFee: надбавка за каждую следующую единицу.
	PerItemFee decimal.Decimal
	// FreeThreshold: сумма позиций, начиная с которой доставка бесплатна. Ноль отключает порог.
	FreeThreshold decimal.Decimal
	// Countries: страны доставки (ISO alpha-2). Пустой список разрешает все.
	Countries []string
}

// DefaultConfig возвращает тарифы по умолчанию.
func DefaultConfig() Config {
	return Config{
		BaseFee:       decimal.NewFromInt(3),
		PerItemFee:    decimal.RequireFromString("0.5"),
		FreeThreshold: decimal.NewFromInt(100),
	}
}

// Calculator: реализация ShippingCalculator на плоских тарифах.
type Calculator struct {
	cfg       Config
	countries map[string]struct{}
}

// NewCalculator создаёт калькулятор доставки.
func NewCalculator(cfg Config) *Calculator {
	c := &Calculator{cfg: cfg}
	if len(cfg.Countries) > 0 {
		c.countries = make(map[string]struct{}, len(cfg.Countries))
		for _, country := range cfg.Countries {
			c.countries[strings.ToUpper(strings.TrimSpace(country))] = struct{}{}
		}
	}
	return c
}

// ValidateAddress проверяет обязательные поля адреса.
func (c *Calculator) ValidateAddress(addr domain.Address) error {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"full_name", addr.FullName},
		{"line1", addr.Line1},
		{"city", addr.City},
		{"postal_code", addr.PostalCode},
		{"country", addr.Country},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", domain.ErrInvalidAddress, strings.Join(missing, ", "))
	}

	if !postalCodePattern.MatchString(strings.TrimSpace(addr.PostalCode)) {
		return fmt.Errorf("%w: malformed postal code", domain.ErrInvalidAddress)
	}
	country := strings.ToUpper(strings.TrimSpace(addr.Country))
	if !countryPattern.MatchString(country) {
		return fmt.Errorf("%w: country must be an ISO 3166-1 alpha-2 code", domain.ErrInvalidAddress)
	}
	if c.countries != nil {
		if _, ok := c.countries[country]; !ok {
			return fmt.Errorf("%w: shipping to %s is not available", domain.ErrInvalidAddress, country)
		}
	}
	return nil
}

// CalculateShippingFee считает стоимость доставки по числу единиц и сумме позиций.
func (c *Calculator) CalculateShippingFee(items []domain.OrderItem, addr domain.Address) (decimal.Decimal, error) {
	if err := c.ValidateAddress(addr); err != nil {
		return decimal.Zero, err
	}
	if len(items) == 0 {
		return decimal.Zero, domain.ErrItemsRequired
	}

	var units int64
	subtotal := decimal.Zero
	for _, item := range items {
		units += int64(item.Qty)
		subtotal = subtotal.Add(item.LineTotal())
	}

	if c.cfg.FreeThreshold.IsPositive() && subtotal.GreaterThanOrEqual(c.cfg.FreeThreshold) {
		return decimal.Zero, nil
	}

	fee := c.cfg.BaseFee
	if units > 1 {
		fee = fee.Add(c.cfg.PerItemFee.Mul(decimal.NewFromInt(units - 1)))
	}
	return fee, nil
}

var _ domain.ShippingCalculator = (*Calculator)(nil)
