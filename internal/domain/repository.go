package domain

import "context"

// OrderRepository описывает требования к хранилищу заказов.
// Заказы никогда не удаляются.
type OrderRepository interface {
	// Create сохраняет новый заказ. Возвращает ErrOrderAlreadyExists, если ID занят.
	Create(ctx context.Context, order Order) error
	// Get возвращает заказ по идентификатору или ErrOrderNotFound, если его нет.
	Get(ctx context.Context, id string) (Order, error)
	// ListByUser возвращает заказы пользователя от новых к старым; limit<=0 снимает ограничение.
	ListByUser(ctx context.Context, userID string, limit int) ([]Order, error)
	// Save применяет обновления к заказу с учётом optimistic locking.
	// При успехе версия в хранилище увеличивается на единицу.
	Save(ctx context.Context, order Order) error
}
