package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/DRSN-tech/storefront-backend/pkg/e"
	"github.com/shopspring/decimal"
)

const maxBodySize = 1 << 20

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

// ToHTTPResponse сопоставляет ошибку use case статусу и сообщению для клиента.
// Неизвестные ошибки скрываются за 500.
func ToHTTPResponse(err error) (int, string) {
	notFound := []error{e.ErrProductNotFound, e.ErrCategoryNotFound, e.ErrOrderNotFound, e.ErrUserNotFound, e.ErrCartLineNotFound}
	badRequest := []error{
		e.ErrStatusBadRequest, e.ErrMissingFields, e.ErrInvalidPrice, e.ErrPricePrecision,
		e.ErrProductNameRequired, e.ErrPriceMustBePositive, e.ErrInvalidQuantity, e.ErrEmptyOrder,
		e.ErrInvalidOrderStatus, e.ErrInvalidEmail, e.ErrPasswordRequired, e.ErrNameRequired,
	}
	unauthorized := []error{e.ErrUnauthorized, e.ErrInvalidCredentials, e.ErrWrongPassword}
	conflict := []error{e.ErrEmailTaken, e.ErrStatusTransition}

	groups := []struct {
		code int
		errs []error
	}{
		{http.StatusNotFound, notFound},
		{http.StatusBadRequest, badRequest},
		{http.StatusUnauthorized, unauthorized},
		{http.StatusForbidden, []error{e.ErrForbidden}},
		{http.StatusConflict, conflict},
	}

	for _, g := range groups {
		for _, target := range g.errs {
			if errors.Is(err, target) {
				return g.code, target.Error()
			}
		}
	}

	return http.StatusInternalServerError, e.ErrInternalServerError.Error()
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	WriteSuccess(w, code, NewErrorResponse(code, msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// decodeJSON читает тело запроса в dst. Пустое или битое тело даёт e.ErrStatusBadRequest.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return e.Wrap("empty body", e.ErrStatusBadRequest)
		}
		return e.Wrap(err.Error(), e.ErrStatusBadRequest)
	}

	return nil
}

// parseLimit читает неотрицательный limit из query. Без параметра возвращает 0, и use case берёт значение по умолчанию.
func parseLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, e.Wrap("limit", e.ErrStatusBadRequest)
	}

	return limit, nil
}

// parseOptionalPrice разбирает цену фильтра вида "599.99".
func parseOptionalPrice(raw string) (*decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		return nil, e.ErrInvalidPrice
	}

	if d.Exponent() < -2 && !d.Equal(d.Round(2)) {
		return nil, e.ErrPricePrecision
	}

	return &d, nil
}
