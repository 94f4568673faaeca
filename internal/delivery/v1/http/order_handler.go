package http

import (
	"net/http"

	"github.com/DRSN-tech/storefront-backend/internal/usecase"
	"github.com/DRSN-tech/storefront-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type OrderHandler struct {
	orderUsecase usecase.OrderUC
	logger       logger.Logger
}

func NewOrderHandler(orderUsecase usecase.OrderUC, logger logger.Logger) *OrderHandler {
	return &OrderHandler{orderUsecase: orderUsecase, logger: logger}
}

// listOrders
//
//	@Summary	Заказы пользователя, новые первыми
//	@Tags		orders
//	@Produce	json
//	@Param		X-Session-ID	header		string	true	"ID сессии"
//	@Success	200				{array}		OrderResponse
//	@Failure	401				{object}	ErrorResponse
//	@Router		/orders [get]
func (h *OrderHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	views, err := h.orderUsecase.ListOrders(r.Context(), mustUser(r).ID)
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toArrOrderResponse(views))
}

// createOrder
//
//	@Summary		Создать заказ из списка позиций
//	@Description	Цены фиксируются по текущему каталогу. Неизвестный товар отклоняет весь заказ
//	@Tags			orders
//	@Accept			json
//	@Produce		json
//	@Param			X-Session-ID	header		string				true	"ID сессии"
//	@Param			body			body		CreateOrderRequest	true	"Позиции и доставка"
//	@Success		201				{object}	OrderResponse
//	@Failure		400				{object}	ErrorResponse
//	@Failure		404				{object}	ErrorResponse
//	@Router			/orders [post]
func (h *OrderHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}

	items := make([]usecase.OrderItemReq, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, usecase.OrderItemReq{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	order, err := h.orderUsecase.CreateOrder(r.Context(), &usecase.CreateOrderReq{
		UserID:          mustUser(r).ID,
		Items:           items,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
	})
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, toOrderResponse(*order))
}

// checkout оформляет заказ из корзины сессии и очищает её после успеха.
func (h *OrderHandler) checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}

	order, err := h.orderUsecase.Checkout(r.Context(), &usecase.CheckoutReq{
		UserID:          mustUser(r).ID,
		SessionID:       sessionIDFromCtx(r.Context()),
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
	})
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, toOrderResponse(*order))
}

func (h *OrderHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	view, err := h.orderUsecase.GetOrder(r.Context(), mustUser(r).ID, chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toOrderViewResponse(*view))
}

// updateStatus
//
//	@Summary	Сменить статус заказа
//	@Tags		orders
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string				true	"ID заказа"
//	@Param		body	body		UpdateStatusRequest	true	"processing | shipped | delivered | cancelled"
//	@Success	200		{object}	OrderResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	409		{object}	ErrorResponse
//	@Router		/orders/{id}/status [patch]
func (h *OrderHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}

	orderID := chi.URLParam(r, "id")

	// статус меняет только владелец заказа
	if _, err := h.orderUsecase.GetOrder(r.Context(), mustUser(r).ID, orderID); err != nil {
		WriteError(w, err)
		return
	}

	order, err := h.orderUsecase.UpdateStatus(r.Context(), orderID, req.Status)
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toOrderResponse(*order))
}

func (h *OrderHandler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orderUsecase.CancelOrder(r.Context(), mustUser(r).ID, chi.URLParam(r, "id"))
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toOrderResponse(*order))
}
