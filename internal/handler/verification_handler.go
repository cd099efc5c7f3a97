package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kesorhosting-wq/testtopupkesor/internal/service"
)

type gameVerifier interface {
	Verify(ctx context.Context, req service.VerifyRequest) (*service.VerifyResult, *service.VerifyError)
}

// VerificationHandler exposes player-ID verification. The response shape is
// the storefront's verification contract rather than the standard envelope,
// so existing clients keep working unchanged.
type VerificationHandler struct {
	verifier gameVerifier
}

// NewVerificationHandler constructs a VerificationHandler.
func NewVerificationHandler(verifier gameVerifier) *VerificationHandler {
	return &VerificationHandler{verifier: verifier}
}

// VerifyGameID handles POST /verify-game-id.
func (h *VerificationHandler) VerifyGameID(c *gin.Context) {
	var req service.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Missing gameName or userId"})
		return
	}

	result, verr := h.verifier.Verify(c.Request.Context(), req)
	if verr != nil {
		body := gin.H{"success": false, "error": verr.Message}
		if verr.RequiresServerID {
			body["requiresServerId"] = true
		}
		c.JSON(verr.Status, body)
		return
	}

	resp := gin.H{
		"success":     true,
		"username":    result.Username,
		"userId":      result.UserID,
		"accountName": result.AccountName,
		"verifiedBy":  result.VerifiedBy,
	}
	if result.ServerID != "" {
		resp["serverId"] = result.ServerID
	}
	c.JSON(http.StatusOK, resp)
}
