package cart

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"

	"zaika/pricing"
	"zaika/utils"
)

// CodeResponse is the result of a discount-code preview.
type CodeResponse struct {
	Valid   bool                  `json:"valid"`
	Totals  pricing.RoundedTotals `json:"totals"`
	Message string                `json:"message"`
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ApplyCode previews a discount code against the user's current cart.
// Usage is never incremented here, only at checkout.
func ApplyCode(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if normalizeCode(req.Code) == "" {
		utils.RespondWithJSON(w, http.StatusOK, CodeResponse{Valid: false, Message: "No code provided"})
		return
	}

	view, err := PricedView(ctx, userID, req.Code)
	if err != nil {
		log.Println("ApplyCode pricing error:", err)
		http.Error(w, "Could not price cart", http.StatusInternalServerError)
		return
	}

	if view.CodeErr != nil {
		utils.RespondWithJSON(w, http.StatusOK, CodeResponse{
			Valid:   false,
			Totals:  view.Totals.Rounded(),
			Message: codeMessage(view.CodeErr),
		})
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, CodeResponse{
		Valid:   true,
		Totals:  view.Totals.Rounded(),
		Message: "Code applied successfully",
	})
}

// codeMessage maps engine rejections to user-facing field messages.
func codeMessage(err error) string {
	switch {
	case errors.Is(err, pricing.ErrCodeNotFound):
		return "Code not found"
	case errors.Is(err, pricing.ErrCodeInactive):
		return "This code is no longer active"
	case errors.Is(err, pricing.ErrCodeExpired):
		return "This code has expired"
	case errors.Is(err, pricing.ErrCodeExhausted):
		return "This code has reached its usage limit"
	case errors.Is(err, pricing.ErrMinimumNotMet):
		return "Your cart does not meet the minimum purchase for this code"
	default:
		return "This code cannot be applied"
	}
}
