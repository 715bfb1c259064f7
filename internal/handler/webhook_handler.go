package handler

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"venuely/config"
	"venuely/internal/service"

	"github.com/gin-gonic/gin"
)

// WebhookHandler receives the gateway's asynchronous callbacks. Payment and
// refund confirmations are applied as independent state transitions; replays
// are no-ops.
type WebhookHandler struct {
	bookingSvc *service.BookingService
	refundSvc  *service.RefundService
	cfg        *config.GatewayConfig
}

func NewWebhookHandler(bookingSvc *service.BookingService, refundSvc *service.RefundService, cfg *config.GatewayConfig) *WebhookHandler {
	return &WebhookHandler{bookingSvc: bookingSvc, refundSvc: refundSvc, cfg: cfg}
}

// Payment handles POST /webhooks/payment with JSON
// {"reference": "...", "status": "PAID|EXPIRED|FAILED"}.
func (h *WebhookHandler) Payment(c *gin.Context) {
	payload, ok := h.readSigned(c)
	if !ok {
		return
	}
	if payload.Reference == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reference required"})
		return
	}
	if err := h.bookingSvc.ConfirmPayment(payload.Reference, payload.Status); err != nil {
		// Unknown references are acknowledged so the gateway stops retrying.
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}

// Refund handles POST /webhooks/refund with JSON
// {"reference": "...", "status": "COMPLETED|FAILED"}.
func (h *WebhookHandler) Refund(c *gin.Context) {
	payload, ok := h.readSigned(c)
	if !ok {
		return
	}
	if payload.Reference == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reference required"})
		return
	}
	if err := h.refundSvc.Resolve(payload.Reference, payload.Status); err != nil {
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}

type webhookPayload struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
}

func (h *WebhookHandler) readSigned(c *gin.Context) (webhookPayload, bool) {
	var payload webhookPayload
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return payload, false
	}
	if h.cfg.WebhookSecret != "" {
		sig := c.GetHeader("X-Webhook-Signature")
		if !h.verifySignature(body, sig) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
			return payload, false
		}
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return payload, false
	}
	return payload, true
}

func (h *WebhookHandler) verifySignature(body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(h.cfg.WebhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
