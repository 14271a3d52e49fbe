package handler

import (
	"github.com/gofiber/fiber/v2"

	"docmarket/internal/http/middleware"
	"docmarket/internal/model"
	"docmarket/internal/service"
)

type signInRequest struct {
	IDToken string `json:"id_token"`
}

type libraryResponse struct {
	Items []model.Entitlement `json:"data"`
}

// CreateSession godoc
// @Summary Sign in
// @Description Exchanges a Google ID token for a session token.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body signInRequest true "ID token"
// @Success 200 {object} service.Session
// @Failure 400 {object} errorPayload
// @Failure 401 {object} errorPayload
// @Router /auth/session [post]
func CreateSession(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req signInRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid JSON body")
		}
		sess, err := svc.SignIn(c.UserContext(), req.IDToken)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(sess)
	}
}

// Me godoc
// @Summary Current identity
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.Identity
// @Failure 401 {object} errorPayload
// @Router /me [get]
func Me() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(middleware.IdentityFrom(c))
	}
}

// MyLibrary godoc
// @Summary Caller's entitlements
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} libraryResponse
// @Failure 401 {object} errorPayload
// @Router /me/library [get]
func MyLibrary(ledger service.EntitlementLedger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ents, err := ledger.ListForUser(c.UserContext(), middleware.IdentityFrom(c).Email)
		if err != nil {
			return writeServiceError(c, err)
		}
		if ents == nil {
			ents = []model.Entitlement{}
		}
		return c.JSON(libraryResponse{Items: ents})
	}
}
