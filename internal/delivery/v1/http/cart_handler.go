package http

import (
	"net/http"

	"github.com/DRSN-tech/storefront-backend/internal/usecase"
	"github.com/DRSN-tech/storefront-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

const defaultAddQuantity = 1

// CartHandler работает с корзиной сессии устройства (X-Session-ID).
type CartHandler struct {
	cartUsecase usecase.CartUC
	logger      logger.Logger
}

func NewCartHandler(cartUsecase usecase.CartUC, logger logger.Logger) *CartHandler {
	return &CartHandler{cartUsecase: cartUsecase, logger: logger}
}

// getCart
//
//	@Summary	Корзина текущей сессии
//	@Tags		cart
//	@Produce	json
//	@Param		X-Session-ID	header		string	false	"ID сессии"
//	@Success	200				{object}	CartResponse
//	@Router		/cart [get]
func (h *CartHandler) getCart(w http.ResponseWriter, r *http.Request) {
	h.writeCart(w, r, http.StatusOK)
}

// addItem
//
//	@Summary	Добавить товар в корзину
//	@Tags		cart
//	@Accept		json
//	@Produce	json
//	@Param		X-Session-ID	header		string				false	"ID сессии"
//	@Param		body			body		AddCartItemRequest	true	"Товар и количество (по умолчанию 1)"
//	@Success	201				{object}	CartResponse
//	@Failure	400				{object}	ErrorResponse
//	@Failure	404				{object}	ErrorResponse
//	@Router		/cart/items [post]
func (h *CartHandler) addItem(w http.ResponseWriter, r *http.Request) {
	var req AddCartItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}

	quantity := defaultAddQuantity
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	if _, err := h.cartUsecase.AddItem(r.Context(), &usecase.AddCartItemReq{
		OwnerID:   sessionIDFromCtx(r.Context()),
		ProductID: req.ProductID,
		Quantity:  quantity,
	}); err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	h.writeCart(w, r, http.StatusCreated)
}

// setQuantity задаёт количество. Значение меньше 1 удаляет строку.
func (h *CartHandler) setQuantity(w http.ResponseWriter, r *http.Request) {
	var req SetQuantityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}

	if _, err := h.cartUsecase.SetQuantity(r.Context(), &usecase.SetCartQuantityReq{
		OwnerID:  sessionIDFromCtx(r.Context()),
		LineID:   chi.URLParam(r, "lineId"),
		Quantity: req.Quantity,
	}); err != nil {
		WriteError(w, err)
		return
	}

	h.writeCart(w, r, http.StatusOK)
}

func (h *CartHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	if err := h.cartUsecase.RemoveItem(r.Context(), sessionIDFromCtx(r.Context()), chi.URLParam(r, "lineId")); err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	h.writeCart(w, r, http.StatusOK)
}

func (h *CartHandler) clear(w http.ResponseWriter, r *http.Request) {
	if err := h.cartUsecase.Clear(r.Context(), sessionIDFromCtx(r.Context())); err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CartHandler) writeCart(w http.ResponseWriter, r *http.Request, status int) {
	view, err := h.cartUsecase.GetCart(r.Context(), sessionIDFromCtx(r.Context()))
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, status, toCartResponse(view))
}
