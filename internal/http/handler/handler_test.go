package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"docmarket/internal/http/middleware"
	"docmarket/internal/model"
	"docmarket/internal/service"
	serviceMocks "docmarket/internal/service/mocks"
	"docmarket/internal/storage"
)

var (
	alice = model.Identity{Email: "alice@example.com", Name: "Alice", Role: model.RoleUser}
	admin = model.Identity{Email: "ops@example.com", Name: "Ops", Role: model.RoleAdmin}
)

type testServices struct {
	auth       *serviceMocks.MockAuthService
	catalog    *serviceMocks.MockCatalogService
	ledger     *serviceMocks.MockEntitlementLedger
	queue      *serviceMocks.MockClaimQueue
	reconciler *serviceMocks.MockReconciler
	gate       *serviceMocks.MockAccessGate
}

func (s *testServices) assertExpectations(t *testing.T) {
	s.catalog.AssertExpectations(t)
	s.ledger.AssertExpectations(t)
	s.queue.AssertExpectations(t)
	s.reconciler.AssertExpectations(t)
	s.gate.AssertExpectations(t)
}

// newTestApp wires every route over mocks. "user-token" signs in as alice and "admin-token"
// as an administrator.
func newTestApp(t *testing.T) (*fiber.App, *testServices) {
	t.Helper()
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s := &testServices{
		auth:       new(serviceMocks.MockAuthService),
		catalog:    new(serviceMocks.MockCatalogService),
		ledger:     new(serviceMocks.MockEntitlementLedger),
		queue:      new(serviceMocks.MockClaimQueue),
		reconciler: new(serviceMocks.MockReconciler),
		gate:       new(serviceMocks.MockAccessGate),
	}
	s.auth.On("Authenticate", "user-token").Return(alice, nil).Maybe()
	s.auth.On("Authenticate", "admin-token").Return(admin, nil).Maybe()
	s.auth.On("Authenticate", mock.Anything).Return(model.Identity{}, service.ErrUnauthorized).Maybe()

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	app.Use(middleware.RequestID())
	RegisterRoutes(app, Services{
		Store:      db,
		Auth:       s.auth,
		Catalog:    s.catalog,
		Ledger:     s.ledger,
		Queue:      s.queue,
		Reconciler: s.reconciler,
		Gate:       s.gate,
	})
	return app, s
}

func do(t *testing.T, app *fiber.App, method, target, token string, body io.Reader, contentType string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func doJSON(t *testing.T, app *fiber.App, method, target, token string, payload any) *http.Response {
	t.Helper()
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(b)
	}
	return do(t, app, method, target, token, body, fiber.MIMEApplicationJSON)
}

func decodeError(t *testing.T, resp *http.Response) errorPayload {
	t.Helper()
	var res errorPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	return res
}

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "SERVICE_UNAVAILABLE", decodeError(t, resp).Error.Code)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSession(t *testing.T) {
	app, s := newTestApp(t)
	exp := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("sign in", func(t *testing.T) {
		s.auth.On("SignIn", mock.Anything, "google-id-token").
			Return(&service.Session{Token: "tok", ExpiresAt: exp, User: alice}, nil).Once()

		resp := doJSON(t, app, http.MethodPost, "/auth/session", "", map[string]string{"id_token": "google-id-token"})
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var sess service.Session
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&sess))
		assert.Equal(t, "tok", sess.Token)
		assert.Equal(t, alice.Email, sess.User.Email)
	})

	t.Run("rejected token", func(t *testing.T) {
		s.auth.On("SignIn", mock.Anything, "forged").Return(nil, service.ErrUnauthorized).Once()

		resp := doJSON(t, app, http.MethodPost, "/auth/session", "", map[string]string{"id_token": "forged"})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "UNAUTHORIZED", decodeError(t, resp).Error.Code)
	})

	t.Run("me", func(t *testing.T) {
		resp := do(t, app, http.MethodGet, "/me", "user-token", nil, "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var id model.Identity
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&id))
		assert.Equal(t, alice, id)
	})

	t.Run("me anonymous", func(t *testing.T) {
		resp := do(t, app, http.MethodGet, "/me", "", nil, "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "UNAUTHORIZED", decodeError(t, resp).Error.Code)
	})

	t.Run("invalid bearer", func(t *testing.T) {
		resp := do(t, app, http.MethodGet, "/documents", "expired", nil, "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("library", func(t *testing.T) {
		s.ledger.On("ListForUser", mock.Anything, alice.Email).
			Return([]model.Entitlement{{UserEmail: alice.Email, DocumentID: "d1", Source: model.SourceClaim}}, nil).Once()

		resp := do(t, app, http.MethodGet, "/me/library", "user-token", nil, "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var lib libraryResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&lib))
		assert.Len(t, lib.Items, 1)
	})
}

func TestListDocuments(t *testing.T) {
	app, s := newTestApp(t)

	t.Run("success", func(t *testing.T) {
		expected := &service.DocumentListResult{
			Items: []model.Document{{ID: uuid.New().String(), Title: "Thermodynamics", Price: model.NewMoney(9900, "")}},
			Total: 1,
		}
		s.catalog.On("List", mock.Anything, "physics", 5, 10).Return(expected, nil).Once()

		resp := do(t, app, http.MethodGet, "/documents?category=physics&limit=5&offset=10", "", nil, "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var raw struct {
			Data []map[string]any `json:"data"`
			Total int             `json:"total"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
		require.Len(t, raw.Data, 1)
		assert.Equal(t, true, raw.Data[0]["locked"])
		assert.Equal(t, 1, raw.Total)
	})

	t.Run("invalid limit", func(t *testing.T) {
		resp := do(t, app, http.MethodGet, "/documents?limit=abc", "", nil, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_LIMIT", decodeError(t, resp).Error.Code)
	})

	t.Run("service error", func(t *testing.T) {
		s.catalog.On("List", mock.Anything, "", 10, 0).Return(nil, service.ErrStorageFailure).Once()

		resp := do(t, app, http.MethodGet, "/documents", "", nil, "")
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		res := decodeError(t, resp)
		assert.Equal(t, "INTERNAL_ERROR", res.Error.Code)
		assert.NotEmpty(t, res.RequestID)
	})

	s.assertExpectations(t)
}

func multipartBody(t *testing.T, fields map[string]string, withFile bool) (io.Reader, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	if withFile {
		part, err := w.CreateFormFile("file", "notes.pdf")
		require.NoError(t, err)
		part.Write([]byte("%PDF-1.7 hello"))
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func TestUploadDocument(t *testing.T) {
	app, s := newTestApp(t)
	fields := map[string]string{"title": "Linear Algebra", "category": "Mathematics", "price": "499.50"}

	t.Run("success", func(t *testing.T) {
		expected := &model.Document{ID: uuid.New().String(), Filename: "notes.pdf"}
		s.catalog.On("Upload", mock.Anything, mock.MatchedBy(func(in service.UploadInput) bool {
			return in.Filename == "notes.pdf" &&
				in.Title == "Linear Algebra" &&
				in.Category == "Mathematics" &&
				in.Price == model.NewMoney(49950, "")
		})).Return(expected, nil).Once()

		body, ct := multipartBody(t, fields, true)
		resp := do(t, app, http.MethodPost, "/documents", "admin-token", body, ct)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var result model.Document
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, expected.ID, result.ID)
	})

	t.Run("non-admin", func(t *testing.T) {
		body, ct := multipartBody(t, fields, true)
		resp := do(t, app, http.MethodPost, "/documents", "user-token", body, ct)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Equal(t, "FORBIDDEN", decodeError(t, resp).Error.Code)
	})

	t.Run("no file", func(t *testing.T) {
		resp := do(t, app, http.MethodPost, "/documents", "admin-token", nil, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "FILE_REQUIRED", decodeError(t, resp).Error.Code)
	})

	t.Run("invalid price", func(t *testing.T) {
		body, ct := multipartBody(t, map[string]string{"title": "x", "category": "y", "price": "-5"}, true)
		resp := do(t, app, http.MethodPost, "/documents", "admin-token", body, ct)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "VALIDATION_FAILED", decodeError(t, resp).Error.Code)
	})

	t.Run("validation error", func(t *testing.T) {
		s.catalog.On("Upload", mock.Anything, mock.Anything).
			Return(nil, errors.Join(service.ErrValidation, errors.New("title: cannot be blank"))).Once()

		body, ct := multipartBody(t, map[string]string{"category": "y"}, true)
		resp := do(t, app, http.MethodPost, "/documents", "admin-token", body, ct)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		res := decodeError(t, resp)
		assert.Equal(t, "VALIDATION_FAILED", res.Error.Code)
		assert.Contains(t, res.Error.Message, "title")
	})

	s.assertExpectations(t)
}

func TestGetAndDeleteDocument(t *testing.T) {
	app, s := newTestApp(t)
	id := uuid.New().String()

	s.catalog.On("Get", mock.Anything, id).Return(&model.Document{ID: id}, nil).Once()
	resp := do(t, app, http.MethodGet, "/documents/"+id, "", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	s.catalog.On("Get", mock.Anything, "missing").Return(nil, service.ErrNotFound).Once()
	resp = do(t, app, http.MethodGet, "/documents/missing", "", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Error.Code)

	s.catalog.On("Delete", mock.Anything, id).Return(nil).Once()
	resp = do(t, app, http.MethodDelete, "/documents/"+id, "admin-token", nil, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, app, http.MethodDelete, "/documents/"+id, "user-token", nil, "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	s.catalog.On("Delete", mock.Anything, "gone").Return(service.ErrNotFound).Once()
	resp = do(t, app, http.MethodDelete, "/documents/gone", "admin-token", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	s.assertExpectations(t)
}

func TestDocumentContent(t *testing.T) {
	app, s := newTestApp(t)
	doc := &model.Document{ID: "d1", Filename: "notes.pdf", Price: model.NewMoney(49900, "")}

	t.Run("allowed redirects to presigned url", func(t *testing.T) {
		s.gate.On("CanServe", mock.Anything, alice, "d1", 3).
			Return(service.Decision{Allowed: true, Document: doc}, nil).Once()
		s.catalog.On("ResolveURL", mock.Anything, doc).Return("https://blobs.local/d1?sig=x", nil).Once()

		resp := do(t, app, http.MethodGet, "/documents/d1/content?page=3", "user-token", nil, "")
		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "https://blobs.local/d1?sig=x", resp.Header.Get("Location"))
		assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
	})

	t.Run("payment required carries price", func(t *testing.T) {
		s.gate.On("CanServe", mock.Anything, model.Identity{}, "d1", 0).
			Return(service.Decision{Reason: service.DenyPaymentRequired, Document: doc, Price: doc.Price}, nil).Once()

		resp := do(t, app, http.MethodGet, "/documents/d1/content", "", nil, "")
		assert.Equal(t, http.StatusPaymentRequired, resp.StatusCode)
		res := decodeError(t, resp)
		assert.Equal(t, "PAYMENT_REQUIRED", res.Error.Code)
		require.NotNil(t, res.Error.Price)
		assert.Equal(t, int64(49900), res.Error.Price.Amount)
	})

	t.Run("not found", func(t *testing.T) {
		s.gate.On("CanServe", mock.Anything, alice, "nope", 0).
			Return(service.Decision{Reason: service.DenyNotFound}, nil).Once()

		resp := do(t, app, http.MethodGet, "/documents/nope/content", "user-token", nil, "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("invalid page", func(t *testing.T) {
		resp := do(t, app, http.MethodGet, "/documents/d1/content?page=0", "user-token", nil, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "VALIDATION_FAILED", decodeError(t, resp).Error.Code)
	})

	t.Run("streams when presigning is unsupported", func(t *testing.T) {
		s.gate.On("CanServe", mock.Anything, admin, "d1", 0).
			Return(service.Decision{Allowed: true, Document: doc}, nil).Once()
		s.catalog.On("ResolveURL", mock.Anything, doc).Return("", storage.ErrPresignUnsupported).Once()
		s.catalog.On("Open", mock.Anything, doc).
			Return(io.NopCloser(strings.NewReader("%PDF-1.7")), storage.ObjectInfo{Size: 8}, nil).Once()

		resp := do(t, app, http.MethodGet, "/documents/d1/content", "admin-token", nil, "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
		b, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "%PDF-1.7", string(b))
	})

	s.assertExpectations(t)
}

func TestSubmitClaim(t *testing.T) {
	app, s := newTestApp(t)
	payload := map[string]string{
		"user_name":       "Alice",
		"document_id":     "d1",
		"document_title":  "Notes",
		"transaction_ref": "utr123456",
		"amount":          "499",
	}

	t.Run("created", func(t *testing.T) {
		s.queue.On("Submit", mock.Anything, alice, service.SubmitInput{
			UserName:       "Alice",
			DocumentID:     "d1",
			DocumentTitle:  "Notes",
			TransactionRef: "utr123456",
			AmountMinor:    49900,
		}).Return(&model.PaymentClaim{
			ID:             7,
			UserName:       "Alice",
			DocumentID:     "d1",
			DocumentTitle:  "Notes",
			TransactionRef: "utr123456",
			Status:         model.ClaimPending,
		}, nil).Once()

		resp := doJSON(t, app, http.MethodPost, "/claims", "user-token", payload)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, float64(7), body["id"])
		assert.Equal(t, "pending", body["status"])
		for _, key := range []string{"user_name", "document_id", "document_title", "transaction_ref"} {
			assert.Equal(t, payload[key], body[key], key)
		}
	})

	t.Run("duplicate reference", func(t *testing.T) {
		s.queue.On("Submit", mock.Anything, alice, mock.Anything).Return(nil, service.ErrDuplicateReference).Once()

		resp := doJSON(t, app, http.MethodPost, "/claims", "user-token", payload)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "DUPLICATE_REFERENCE", decodeError(t, resp).Error.Code)
	})

	t.Run("already entitled", func(t *testing.T) {
		s.queue.On("Submit", mock.Anything, alice, mock.Anything).Return(nil, service.ErrAlreadyEntitled).Once()

		resp := doJSON(t, app, http.MethodPost, "/claims", "user-token", payload)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "ALREADY_ENTITLED", decodeError(t, resp).Error.Code)
	})

	t.Run("bad amount", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/claims", "user-token", map[string]string{"amount": "4.999"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "VALIDATION_FAILED", decodeError(t, resp).Error.Code)
	})

	t.Run("anonymous", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/claims", "", payload)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	s.assertExpectations(t)
}

func TestClaimStatusAndEntitlement(t *testing.T) {
	app, s := newTestApp(t)

	t.Run("no claim yet", func(t *testing.T) {
		s.queue.On("LatestStatus", mock.Anything, alice.Email, "d1").Return(nil, nil).Once()

		resp := do(t, app, http.MethodGet, "/claims/status?document_id=d1", "user-token", nil, "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		b, _ := io.ReadAll(resp.Body)
		assert.JSONEq(t, `{"status":null}`, string(b))
	})

	t.Run("admin may ask about anyone", func(t *testing.T) {
		approved := model.ClaimApproved
		s.queue.On("LatestStatus", mock.Anything, alice.Email, "d1").Return(&approved, nil).Once()

		resp := do(t, app, http.MethodGet, "/claims/status?user=alice@example.com&document_id=d1", "admin-token", nil, "")
		b, _ := io.ReadAll(resp.Body)
		assert.JSONEq(t, `{"status":"approved"}`, string(b))
	})

	t.Run("users may not ask about others", func(t *testing.T) {
		resp := do(t, app, http.MethodGet, "/claims/status?user=bob@example.com&document_id=d1", "user-token", nil, "")
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Equal(t, "FORBIDDEN", decodeError(t, resp).Error.Code)
	})

	t.Run("entitlement check", func(t *testing.T) {
		s.ledger.On("IsEntitled", mock.Anything, alice.Email, "d1").Return(true, nil).Once()

		resp := do(t, app, http.MethodGet, "/entitlements/check?document_id=d1", "user-token", nil, "")
		b, _ := io.ReadAll(resp.Body)
		assert.JSONEq(t, `{"entitled":true}`, string(b))
	})

	t.Run("entitlement check needs a document", func(t *testing.T) {
		resp := do(t, app, http.MethodGet, "/entitlements/check", "user-token", nil, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("grant", func(t *testing.T) {
		s.ledger.On("GrantDirect", mock.Anything, alice, "", "free-doc").
			Return(&model.Entitlement{UserEmail: alice.Email, DocumentID: "free-doc", Source: model.SourceDirect}, true, nil).Once()

		resp := doJSON(t, app, http.MethodPost, "/entitlements", "user-token", map[string]string{"document_id": "free-doc"})
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("grant on priced document by user", func(t *testing.T) {
		s.ledger.On("GrantDirect", mock.Anything, alice, "", "paid-doc").Return(nil, false, service.ErrForbidden).Once()

		resp := doJSON(t, app, http.MethodPost, "/entitlements", "user-token", map[string]string{"document_id": "paid-doc"})
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	s.assertExpectations(t)
}

func TestAdminClaims(t *testing.T) {
	app, s := newTestApp(t)
	approved := &model.PaymentClaim{ID: 7, Status: model.ClaimApproved}

	t.Run("list", func(t *testing.T) {
		s.queue.On("ListAll", mock.Anything).Return([]model.PaymentClaim{*approved}, nil).Once()

		resp := do(t, app, http.MethodGet, "/admin/claims", "admin-token", nil, "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var out claimListResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.Len(t, out.Items, 1)
	})

	t.Run("non-admin", func(t *testing.T) {
		resp := do(t, app, http.MethodGet, "/admin/claims", "user-token", nil, "")
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		resp = do(t, app, http.MethodPost, "/admin/claims/7/approve", "user-token", nil, "")
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("approve", func(t *testing.T) {
		s.reconciler.On("Approve", mock.Anything, int64(7)).Return(&service.Outcome{Claim: approved, Changed: true}, nil).Once()

		resp := do(t, app, http.MethodPost, "/admin/claims/7/approve", "admin-token", nil, "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var out service.Outcome
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.True(t, out.Changed)
		assert.Equal(t, model.ClaimApproved, out.Claim.Status)
	})

	t.Run("reject after approve", func(t *testing.T) {
		s.reconciler.On("Reject", mock.Anything, int64(7)).Return(nil, service.ErrInvalidTransition).Once()

		resp := do(t, app, http.MethodPost, "/admin/claims/7/reject", "admin-token", nil, "")
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "INVALID_TRANSITION", decodeError(t, resp).Error.Code)
	})

	t.Run("transaction failure", func(t *testing.T) {
		s.reconciler.On("Approve", mock.Anything, int64(8)).Return(nil, service.ErrStorageFailure).Once()

		resp := do(t, app, http.MethodPost, "/admin/claims/8/approve", "admin-token", nil, "")
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})

	t.Run("invalid id", func(t *testing.T) {
		resp := do(t, app, http.MethodPost, "/admin/claims/abc/approve", "admin-token", nil, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_ID", decodeError(t, resp).Error.Code)
	})

	s.assertExpectations(t)
}

func TestRouting(t *testing.T) {
	app, _ := newTestApp(t)

	t.Run("not found route", func(t *testing.T) {
		resp := do(t, app, http.MethodGet, "/non-existent", "", nil, "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Error.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		resp := do(t, app, http.MethodPost, "/health", "", nil, "")
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		assert.Equal(t, "METHOD_NOT_ALLOWED", decodeError(t, resp).Error.Code)
	})
}
