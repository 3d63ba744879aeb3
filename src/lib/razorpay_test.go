package lib

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func signPayload(orderID string, paymentID string, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyPaymentSignature(t *testing.T) {
	const secret = "test_secret_key"
	orderID := "order_MNqz5aBcDeFgHi"
	paymentID := "pay_MNqz9ZyXwVuTsr"

	t.Run("accepts a valid signature", func(t *testing.T) {
		signature := signPayload(orderID, paymentID, secret)
		assert.True(t, VerifyPaymentSignature(orderID, paymentID, signature, secret))
	})

	t.Run("rejects a tampered signature", func(t *testing.T) {
		signature := signPayload(orderID, paymentID, secret)
		tampered := "0" + signature[1:]
		if tampered == signature {
			tampered = "1" + signature[1:]
		}
		assert.False(t, VerifyPaymentSignature(orderID, paymentID, tampered, secret))
	})

	t.Run("rejects a signature for a different order", func(t *testing.T) {
		signature := signPayload("order_other", paymentID, secret)
		assert.False(t, VerifyPaymentSignature(orderID, paymentID, signature, secret))
	})

	t.Run("rejects a signature for a different payment", func(t *testing.T) {
		signature := signPayload(orderID, "pay_other", secret)
		assert.False(t, VerifyPaymentSignature(orderID, paymentID, signature, secret))
	})

	t.Run("rejects a signature made with the wrong secret", func(t *testing.T) {
		signature := signPayload(orderID, paymentID, "another_secret")
		assert.False(t, VerifyPaymentSignature(orderID, paymentID, signature, secret))
	})

	t.Run("rejects an empty signature", func(t *testing.T) {
		assert.False(t, VerifyPaymentSignature(orderID, paymentID, "", secret))
	})
}

func TestCreateRazorpayOrderWithoutCredentials(t *testing.T) {
	t.Setenv("RAZORPAY_KEY_ID", "")
	t.Setenv("RAZORPAY_KEY_SECRET", "")

	_, err := CreateRazorpayOrder(1666700, "INR", "booking-receipt", nil)
	assert.NotNil(t, err)
}
