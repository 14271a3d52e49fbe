package handler

import (
	"github.com/gofiber/fiber/v2"

	"docmarket/internal/http/middleware"
	"docmarket/internal/repository"
	"docmarket/internal/service"
)

// Services groups what the HTTP layer calls into.
type Services struct {
	Store      repository.Pinger
	Auth       service.AuthService
	Catalog    service.CatalogService
	Ledger     service.EntitlementLedger
	Queue      service.ClaimQueue
	Reconciler service.Reconciler
	Gate       service.AccessGate
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app. Authentication runs on every
// route; handlers that need a caller are wrapped in RequireUser or RequireAdmin.
func RegisterRoutes(app *fiber.App, s Services) {
	app.Get("/health", HealthCheck(s.Store))
	app.Get("/healthz", LivenessProbe())

	app.Use(middleware.Authenticate(s.Auth))
	user := middleware.RequireUser()
	admin := middleware.RequireAdmin()

	app.Post("/auth/session", CreateSession(s.Auth))
	app.Get("/me", user, Me())
	app.Get("/me/library", user, MyLibrary(s.Ledger))

	app.Get("/documents", ListDocuments(s.Catalog))
	app.Post("/documents", admin, UploadDocument(s.Catalog))
	app.Get("/documents/:id", GetDocument(s.Catalog))
	app.Delete("/documents/:id", admin, DeleteDocument(s.Catalog))
	app.Get("/documents/:id/content", DocumentContent(s.Gate, s.Catalog))

	app.Post("/claims", user, SubmitClaim(s.Queue))
	app.Get("/claims/status", user, ClaimStatus(s.Queue))

	app.Get("/entitlements/check", user, CheckEntitlement(s.Ledger))
	app.Post("/entitlements", user, GrantEntitlement(s.Ledger))

	adm := app.Group("/admin", admin)
	adm.Get("/claims", ListClaims(s.Queue))
	adm.Post("/claims/:id/approve", ApproveClaim(s.Reconciler))
	adm.Post("/claims/:id/reject", RejectClaim(s.Reconciler))
}
