package http

import (
	"net/http"

	"github.com/DRSN-tech/storefront-backend/internal/usecase"
	"github.com/DRSN-tech/storefront-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type WishlistHandler struct {
	wishlistUsecase usecase.WishlistUC
	logger          logger.Logger
}

func NewWishlistHandler(wishlistUsecase usecase.WishlistUC, logger logger.Logger) *WishlistHandler {
	return &WishlistHandler{wishlistUsecase: wishlistUsecase, logger: logger}
}

// list
//
//	@Summary	Избранное пользователя
//	@Tags		wishlist
//	@Produce	json
//	@Param		X-Session-ID	header	string	true	"ID сессии"
//	@Success	200				{array}	WishlistItemResponse
//	@Router		/wishlist [get]
func (h *WishlistHandler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.wishlistUsecase.List(r.Context(), mustUser(r).ID)
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toArrWishlistResponse(items))
}

// add идемпотентен.
func (h *WishlistHandler) add(w http.ResponseWriter, r *http.Request) {
	if err := h.wishlistUsecase.Add(r.Context(), mustUser(r).ID, chi.URLParam(r, "productId")); err != nil {
		WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *WishlistHandler) remove(w http.ResponseWriter, r *http.Request) {
	if err := h.wishlistUsecase.Remove(r.Context(), mustUser(r).ID, chi.URLParam(r, "productId")); err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *WishlistHandler) contains(w http.ResponseWriter, r *http.Request) {
	ok, err := h.wishlistUsecase.Contains(r.Context(), mustUser(r).ID, chi.URLParam(r, "productId"))
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]bool{"inWishlist": ok})
}
