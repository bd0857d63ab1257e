package domain

import "time"

// CartItem: позиция корзины. Цена берётся из каталога в момент оформления.
type CartItem struct {
	ProductID string `json:"product_id"`
	Quantity  int32  `json:"quantity"`
}

// Cart: корзина пользователя. Удаляется после успешного создания заказа.
type Cart struct {
	UserID    string     `json:"user_id"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Empty сообщает, что в корзине нет позиций.
func (c *Cart) Empty() bool {
	return c == nil || len(c.Items) == 0
}

// Validate проверяет позиции корзины.
func (c *Cart) Validate() []error {
	var errs []error
	if c.UserID == "" {
		errs = append(errs, ErrUserRequired)
	}
	for _, item := range c.Items {
		if item.ProductID == "" {
			errs = append(errs, ErrProductIDRequired)
		}
		if item.Quantity <= 0 {
			errs = append(errs, ErrItemQtyInvalid)
		}
	}
	return errs
}
