package httpapi

import (
	"errors"
	"net/http"

	"github.com/vladislavdragonenkov/pharmacy-oms/internal/domain"
)

type cartRequest struct {
	Items []domain.CartItem `json:"items"`
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	userID := callerFrom(r.Context()).UserID
	cart, err := h.carts.FindByUser(r.Context(), userID)
	if err != nil {
		if !errors.Is(err, domain.ErrCartNotFound) {
			h.fail(w, r, domain.InternalError(err, "load cart"))
			return
		}
		cart = domain.Cart{UserID: userID, Items: []domain.CartItem{}}
	}
	writeData(w, http.StatusOK, "", cart)
}

// replaceCart заменяет корзину целиком. Пустой список позиций удаляет корзину.
func (h *Handler) replaceCart(w http.ResponseWriter, r *http.Request) {
	var req cartRequest
	if !decodeBody(w, r, &req, false) {
		return
	}
	userID := callerFrom(r.Context()).UserID

	if len(req.Items) == 0 {
		if err := h.carts.Delete(r.Context(), userID); err != nil {
			h.fail(w, r, domain.InternalError(err, "delete cart"))
			return
		}
		writeData(w, http.StatusOK, "Cart cleared", domain.Cart{UserID: userID, Items: []domain.CartItem{}})
		return
	}

	cart := domain.Cart{UserID: userID, Items: mergeCartItems(req.Items)}
	if errs := cart.Validate(); len(errs) > 0 {
		h.fail(w, r, domain.ValidationError(errs[0], "Invalid cart: %v", errs[0]))
		return
	}
	if err := h.checkProducts(r, cart); err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.carts.Save(r.Context(), cart); err != nil {
		h.fail(w, r, domain.InternalError(err, "save cart"))
		return
	}
	writeData(w, http.StatusOK, "Cart updated", cart)
}

// checkProducts проверяет, что все товары корзины есть в каталоге.
func (h *Handler) checkProducts(r *http.Request, cart domain.Cart) error {
	if h.catalog == nil {
		return nil
	}
	ids := make([]string, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := h.catalog.GetMany(r.Context(), ids)
	if err != nil {
		return domain.InternalError(err, "load products")
	}
	for _, id := range ids {
		if _, ok := products[id]; !ok {
			return domain.ValidationError(domain.ErrProductNotFound, "Product %s not found", id)
		}
	}
	return nil
}

// mergeCartItems складывает количества повторяющихся товаров, сохраняя порядок.
func mergeCartItems(items []domain.CartItem) []domain.CartItem {
	index := make(map[string]int, len(items))
	merged := make([]domain.CartItem, 0, len(items))
	for _, item := range items {
		if i, ok := index[item.ProductID]; ok {
			merged[i].Quantity += item.Quantity
			continue
		}
		index[item.ProductID] = len(merged)
		merged = append(merged, item)
	}
	return merged
}
