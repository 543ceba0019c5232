package models

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOrderTypeResolveTable(t *testing.T) {
	assert.Equal(t, 7, OrderTypeDineIn.ResolveTable(7))
	assert.Equal(t, VirtualTableDelivery, OrderTypeDelivery.ResolveTable(7))
	assert.Equal(t, VirtualTableTakeaway, OrderTypeTakeaway.ResolveTable(7))
}

func TestOrderStatusActive(t *testing.T) {
	assert.True(t, StatusIniciado.Active())
	assert.True(t, StatusEnProceso.Active())
	assert.False(t, StatusFinalizado.Active())
	assert.False(t, OrderStatus("").Active())
}

func TestSessionActive(t *testing.T) {
	now := time.Now()

	var nilSession *Session
	assert.False(t, nilSession.Active(now))

	assert.False(t, (&Session{ExpiresAt: now.Add(time.Hour)}).Active(now), "No token means signed out")
	assert.False(t, (&Session{Token: "tok", ExpiresAt: now.Add(-time.Second)}).Active(now))
	assert.True(t, (&Session{Token: "tok", ExpiresAt: now.Add(time.Hour)}).Active(now))
}

func TestCartTotals(t *testing.T) {
	cart := Cart{Lines: []CartLine{
		{Product: Product{ID: 5, Precio: "1000"}, Cantidad: 2},
		{Product: Product{ID: 8, Precio: "450.50"}, Cantidad: 1},
		{Product: Product{ID: 9, Precio: "garbage"}, Cantidad: 1}, // unparseable price counts as 0
	}}

	assert.Equal(t, 4, cart.Count())
	assert.InDelta(t, 2450.50, cart.Total(), 0.001)
}

func TestClassifyErrorPrecedence(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		serverCode string
		message    string
		expected   ErrorCode
	}{
		{"explicit code wins", http.StatusInternalServerError, "MESA_CERRADA", "", ErrTableClosed},
		{"english code accepted", http.StatusBadRequest, "MISSING_ADDRESS", "", ErrMissingAddress},
		{"message pattern second", http.StatusBadRequest, "", "falta la dirección de entrega", ErrMissingAddress},
		{"status heuristics third", http.StatusUnauthorized, "", "whatever", ErrUnauthorized},
		{"419 session expired", 419, "", "", ErrSessionExpired},
		{"409 validation", http.StatusConflict, "", "", ErrValidation},
		{"default unknown", http.StatusInternalServerError, "", "boom", ErrUnknown},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ClassifyError(tc.status, tc.serverCode, tc.message))
		})
	}
}

func TestAPIErrorHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, (&APIError{Code: ErrUnauthorized}).HTTPStatus())
	assert.Equal(t, http.StatusUnauthorized, (&APIError{Code: ErrSessionExpired}).HTTPStatus())
	assert.Equal(t, http.StatusUnprocessableEntity, (&APIError{Code: ErrMissingAddress}).HTTPStatus())
	assert.Equal(t, http.StatusBadGateway, (&APIError{Code: ErrNetwork}).HTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, (&APIError{Code: ErrUnknown}).HTTPStatus())
}
