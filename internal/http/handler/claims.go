package handler

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"docmarket/internal/http/middleware"
	"docmarket/internal/model"
	"docmarket/internal/service"
)

type submitClaimRequest struct {
	User           string `json:"user"`
	UserName       string `json:"user_name"`
	DocumentID     string `json:"document_id"`
	DocumentTitle  string `json:"document_title"`
	TransactionRef string `json:"transaction_ref"`
	// Amount is a decimal string such as "499.00".
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

type claimStatusResponse struct {
	Status *model.ClaimStatus `json:"status"`
}

type entitledResponse struct {
	Entitled bool `json:"entitled"`
}

type grantRequest struct {
	User       string `json:"user"`
	DocumentID string `json:"document_id"`
}

type claimListResponse struct {
	Items []model.PaymentClaim `json:"data"`
}

// SubmitClaim godoc
// @Summary Submit a payment claim
// @Description Records proof of an out-of-band payment for review.
// @Tags claims
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body submitClaimRequest true "Claim"
// @Success 201 {object} model.PaymentClaim
// @Failure 400 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Router /claims [post]
func SubmitClaim(q service.ClaimQueue) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req submitClaimRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid JSON body")
		}
		amount, err := model.ParseMoney(req.Amount, req.Currency)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_FAILED", "amount: must be a positive decimal with at most two fractional digits")
		}

		claim, err := q.Submit(c.UserContext(), middleware.IdentityFrom(c), service.SubmitInput{
			UserEmail:      req.User,
			UserName:       req.UserName,
			DocumentID:     req.DocumentID,
			DocumentTitle:  req.DocumentTitle,
			TransactionRef: req.TransactionRef,
			AmountMinor:    amount.Amount,
			Currency:       req.Currency,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(claim)
	}
}

// ClaimStatus godoc
// @Summary Latest claim status
// @Description Status of the newest claim for the user and document, or null.
// @Tags claims
// @Produce json
// @Security BearerAuth
// @Param user query string false "User email (admins only for other users)"
// @Param document_id query string true "Document ID"
// @Success 200 {object} claimStatusResponse
// @Failure 400 {object} errorPayload
// @Failure 403 {object} errorPayload
// @Router /claims/status [get]
func ClaimStatus(q service.ClaimQueue) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := service.ResolveSubject(middleware.IdentityFrom(c), c.Query("user"))
		if err != nil {
			return writeServiceError(c, err)
		}
		st, err := q.LatestStatus(c.UserContext(), user, c.Query("document_id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(claimStatusResponse{Status: st})
	}
}

// CheckEntitlement godoc
// @Summary Entitlement check
// @Tags entitlements
// @Produce json
// @Security BearerAuth
// @Param user query string false "User email (admins only for other users)"
// @Param document_id query string true "Document ID"
// @Success 200 {object} entitledResponse
// @Failure 400 {object} errorPayload
// @Failure 403 {object} errorPayload
// @Router /entitlements/check [get]
func CheckEntitlement(ledger service.EntitlementLedger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := service.ResolveSubject(middleware.IdentityFrom(c), c.Query("user"))
		if err != nil {
			return writeServiceError(c, err)
		}
		docID := c.Query("document_id")
		if docID == "" {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_FAILED", "document_id: cannot be blank")
		}
		ok, err := ledger.IsEntitled(c.UserContext(), user, docID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(entitledResponse{Entitled: ok})
	}
}

// GrantEntitlement godoc
// @Summary Grant access directly
// @Description Free documents may be taken by any signed-in user; priced documents need an admin.
// @Tags entitlements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body grantRequest true "Grant"
// @Success 201 {object} model.Entitlement
// @Failure 403 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /entitlements [post]
func GrantEntitlement(ledger service.EntitlementLedger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req grantRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid JSON body")
		}
		ent, _, err := ledger.GrantDirect(c.UserContext(), middleware.IdentityFrom(c), req.User, req.DocumentID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(ent)
	}
}

// ListClaims godoc
// @Summary List all claims
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} claimListResponse
// @Failure 403 {object} errorPayload
// @Router /admin/claims [get]
func ListClaims(q service.ClaimQueue) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := q.ListAll(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		if claims == nil {
			claims = []model.PaymentClaim{}
		}
		return c.JSON(claimListResponse{Items: claims})
	}
}

// ApproveClaim godoc
// @Summary Approve a claim
// @Description Marks the claim approved and grants the entitlement atomically.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Claim ID"
// @Success 200 {object} service.Outcome
// @Failure 404 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /admin/claims/{id}/approve [post]
func ApproveClaim(r service.Reconciler) fiber.Handler {
	return decideClaim(r.Approve)
}

// RejectClaim godoc
// @Summary Reject a claim
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Claim ID"
// @Success 200 {object} service.Outcome
// @Failure 404 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Router /admin/claims/{id}/reject [post]
func RejectClaim(r service.Reconciler) fiber.Handler {
	return decideClaim(r.Reject)
}

func decideClaim(decide func(ctx context.Context, id int64) (*service.Outcome, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil || id <= 0 {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid claim id")
		}
		out, err := decide(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(out)
	}
}
