package service

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

/* =========================================================
   Gateway
========================================================= */

// CheckoutOrder is what the gateway needs to open a payment page.
type CheckoutOrder struct {
	OrderID  string
	Amount   decimal.Decimal
	ItemName string
	Name     string
	Email    string
	Phone    string
}

type Gateway interface {
	CreateCheckout(ctx context.Context, o CheckoutOrder) (token, redirectURL string, err error)
}

// SnapGateway opens Midtrans Snap transactions.
type SnapGateway struct {
	client snap.Client
}

// NewSnapGateway: useProduction=true for Production, false for Sandbox.
func NewSnapGateway(serverKey string, useProduction bool) *SnapGateway {
	g := &SnapGateway{}
	if useProduction {
		g.client.New(serverKey, midtrans.Production)
	} else {
		g.client.New(serverKey, midtrans.Sandbox)
	}
	return g
}

func (g *SnapGateway) CreateCheckout(ctx context.Context, o CheckoutOrder) (string, string, error) {
	if err := ctx.Err(); err != nil {
		return "", "", err
	}
	gross := o.Amount.Round(0).IntPart()
	if gross <= 0 {
		return "", "", errors.New("invalid gross amount")
	}
	if o.OrderID == "" {
		return "", "", errors.New("order id is required")
	}

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  o.OrderID,
			GrossAmt: gross,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: o.Name,
			Email: o.Email,
			Phone: o.Phone,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:       o.OrderID,
				Price:    gross,
				Qty:      1,
				Name:     truncate(defaultString(o.ItemName, "Dormitory fee"), 50),
				Category: "DORM",
			},
		},
	}

	resp, merr := g.client.CreateTransaction(req)
	if merr != nil {
		return "", "", merr
	}
	return resp.Token, resp.RedirectURL, nil
}

/* =========================================================
   Notification signature
========================================================= */

// MidtransSignature is sha512(order_id + status_code + gross_amount + server_key), hex encoded.
func MidtransSignature(orderID, statusCode, grossAmount, serverKey string) string {
	h := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(h[:])
}

func validSignature(got, orderID, statusCode, grossAmount, serverKey string) bool {
	if serverKey == "" || got == "" {
		return false
	}
	want := MidtransSignature(orderID, statusCode, grossAmount, serverKey)
	return subtle.ConstantTimeCompare([]byte(strings.ToLower(got)), []byte(want)) == 1
}

/* =========================================================
   Utils
========================================================= */

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n]
}

func defaultString(s string, def string) string {
	if s == "" {
		return def
	}
	return s
}
