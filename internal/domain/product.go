package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product: товар каталога. Остаток меняется только через InventoryLedger.
type Product struct {
	ID                   string
	Name                 string
	Category             string
	Price                decimal.Decimal
	StockQuantity        int32
	RequiresPrescription bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// StockLine: строка складской операции.
type StockLine struct {
	ProductID string
	// Name используется только в сообщениях об ошибках.
	Name string
	Qty  int32
}

// Validate проверяет поля товара перед сохранением в каталог.
func (p *Product) Validate() []error {
	var errs []error

	if p.ID == "" {
		errs = append(errs, ErrProductIDRequired)
	}
	if p.Name == "" {
		errs = append(errs, ErrProductNameRequired)
	}
	if p.Price.IsNegative() {
		errs = append(errs, ErrItemPriceInvalid)
	}
	if p.StockQuantity < 0 {
		errs = append(errs, ErrStockNegative)
	}

	return errs
}

// InsufficientStockError сообщает, по какой позиции не хватило остатка.
type InsufficientStockError struct {
	ProductID string
	Name      string
	Requested int32
	Available int32
}

func (e *InsufficientStockError) Error() string {
	label := e.Name
	if label == "" {
		label = e.ProductID
	}
	return "insufficient stock for " + label
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }
