package lib

import (
	"awm/src/config"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"

	razorpay "github.com/razorpay/razorpay-go"
)

var razorpayClient *razorpay.Client

var ErrGatewayUnavailable = errors.New("payment gateway unavailable")

func GetRazorpayClient() *razorpay.Client {
	if razorpayClient != nil {
		return razorpayClient
	}
	client := razorpay.NewClient(config.RazorpayKeyID(), config.RazorpayKeySecret())
	razorpayClient = client
	return client
}

// NewRazorpayClient Replace gateway instance with custom client implementation
func NewRazorpayClient(c *razorpay.Client) {
	razorpayClient = c
}

// CreateRazorpayOrder creates a gateway order for amount in paise. No booking
// state is touched here; a failed call must leave nothing behind.
func CreateRazorpayOrder(amount int64, currency string, receipt string, notes map[string]any) (map[string]any, error) {
	if config.RazorpayKeyID() == "" || config.RazorpayKeySecret() == "" {
		return nil, errors.New("razorpay credentials not configured")
	}
	if currency == "" {
		currency = "INR"
	}
	client := GetRazorpayClient()
	data := map[string]any{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
		"notes":    notes,
	}
	order, err := client.Order.Create(data, nil)
	if err != nil {
		log.Printf("[Razorpay] Error creating order: %s\n", err.Error())
		return nil, fmt.Errorf("%w: %s", ErrGatewayUnavailable, err.Error())
	}
	return order, nil
}

// VerifyPaymentSignature recomputes the HMAC-SHA256 digest over
// "order_id|payment_id" and compares it against the callback signature.
// This is the sole authorization check before a booking is marked paid.
func VerifyPaymentSignature(orderID string, paymentID string, signature string, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
