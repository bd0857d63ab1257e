// Package seed загружает товары каталога из JSON-файлов.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/pharmacy-oms/internal/domain"
)

// Item: товар в файле каталога.
type Item struct {
	ID                   string          `json:"id"`
	Name                 string          `json:"name"`
	Category             string          `json:"category"`
	Price                decimal.Decimal `json:"price"`
	StockQuantity        int32           `json:"stock_quantity"`
	RequiresPrescription bool            `json:"requires_prescription"`
}

// Product переводит позицию файла в товар каталога.
func (i Item) Product(defaultCategory string) domain.Product {
	category := strings.TrimSpace(i.Category)
	if category == "" {
		category = defaultCategory
	}
	return domain.Product{
		ID:                   strings.TrimSpace(i.ID),
		Name:                 strings.TrimSpace(i.Name),
		Category:             category,
		Price:                i.Price,
		StockQuantity:        i.StockQuantity,
		RequiresPrescription: i.RequiresPrescription,
	}
}

// Decode читает JSON-массив товаров. Категория по умолчанию подставляется,
// если у позиции она не указана.
func Decode(r io.Reader, defaultCategory string) ([]domain.Product, error) {
	var items []Item
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	products := make([]domain.Product, 0, len(items))
	for _, item := range items {
		products = append(products, item.Product(defaultCategory))
	}
	return products, nil
}

// LoadFile читает файл каталога. Категория по умолчанию берётся из имени файла:
// otc-medicines.json -> "otc medicines".
func LoadFile(path string) ([]domain.Product, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	products, err := Decode(f, categoryFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return products, nil
}

// LoadDir читает все *.json файлы каталога в порядке имён.
func LoadDir(dir string) ([]domain.Product, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	sort.Strings(paths)

	var products []domain.Product
	for _, path := range paths {
		loaded, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		products = append(products, loaded...)
	}
	return products, nil
}

func categoryFromPath(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return strings.ReplaceAll(name, "-", " ")
}

// Result: итог загрузки.
type Result struct {
	Loaded int
	Failed []Failure
}

// Failure: товар, который не удалось сохранить.
type Failure struct {
	ProductID string
	Name      string
	Err       error
}

// Apply сохраняет товары в каталог. Ошибка по одному товару не останавливает загрузку
// остальных; отменённый контекст останавливает.
func Apply(ctx context.Context, catalog domain.ProductCatalog, products []domain.Product, logger *log.Entry) (Result, error) {
	if logger == nil {
		logger = log.New().WithField("component", "seed")
	}

	var res Result
	for _, p := range products {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		entry := logger.WithFields(log.Fields{"product_id": p.ID, "name": p.Name})

		if errs := p.Validate(); len(errs) > 0 {
			res.Failed = append(res.Failed, Failure{ProductID: p.ID, Name: p.Name, Err: errs[0]})
			entry.WithError(errs[0]).Warn("invalid product skipped")
			continue
		}
		if err := catalog.Upsert(ctx, p); err != nil {
			res.Failed = append(res.Failed, Failure{ProductID: p.ID, Name: p.Name, Err: err})
			entry.WithError(err).Warn("failed to upsert product")
			continue
		}
		res.Loaded++
		entry.Debug("product upserted")
	}
	return res, nil
}
