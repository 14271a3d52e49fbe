package handler

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"docmarket/internal/http/middleware"
	"docmarket/internal/model"
	"docmarket/internal/service"
	"docmarket/internal/storage"
)

// ListDocuments godoc
// @Summary List documents
// @Description Newest first, optionally filtered by category.
// @Tags documents
// @Produce json
// @Param category query string false "Category (case-insensitive)"
// @Param limit query int false "Page size" default(10)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} service.DocumentListResult
// @Failure 400 {object} errorPayload
// @Router /documents [get]
func ListDocuments(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.List(c.UserContext(), c.Query("category"), limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		if res.Items == nil {
			res.Items = []model.Document{}
		}
		return c.JSON(res)
	}
}

// UploadDocument godoc
// @Summary Upload a document
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "PDF file"
// @Param title formData string true "Title"
// @Param category formData string true "Category"
// @Param author formData string false "Author"
// @Param description formData string false "Description"
// @Param price formData string false "Price as a decimal, e.g. 499.00"
// @Param currency formData string false "ISO currency code" default(inr)
// @Success 201 {object} model.Document
// @Failure 400 {object} errorPayload
// @Failure 403 {object} errorPayload
// @Router /documents [post]
func UploadDocument(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		price, err := model.ParseMoney(c.FormValue("price"), c.FormValue("currency"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_FAILED", "price: must be a non-negative decimal with at most two fractional digits")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get(fiber.HeaderContentType)
		if ct == "" {
			ct = fiber.MIMEOctetStream
		}

		doc, err := svc.Upload(c.UserContext(), service.UploadInput{
			Reader:      f,
			Filename:    fh.Filename,
			ContentType: ct,
			Size:        fh.Size,
			Title:       c.FormValue("title"),
			Author:      c.FormValue("author"),
			Category:    c.FormValue("category"),
			Description: c.FormValue("description"),
			Price:       price,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// GetDocument godoc
// @Summary Get document metadata
// @Tags documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} model.Document
// @Failure 404 {object} errorPayload
// @Router /documents/{id} [get]
func GetDocument(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		doc, err := svc.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

// DeleteDocument godoc
// @Summary Delete a document
// @Tags documents
// @Security BearerAuth
// @Param id path string true "Document ID"
// @Success 204
// @Failure 404 {object} errorPayload
// @Router /documents/{id} [delete]
func DeleteDocument(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), c.Params("id")); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// DocumentContent godoc
// @Summary Read a document
// @Description Redirects to a short-lived content URL when the caller may read the document.
// @Tags documents
// @Security BearerAuth
// @Param id path string true "Document ID"
// @Param page query int false "Page being viewed (>= 1)"
// @Success 302
// @Failure 402 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /documents/{id}/content [get]
func DocumentContent(gate service.AccessGate, catalog service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page := 0
		if raw := c.Query("page"); raw != "" {
			p, err := strconv.Atoi(raw)
			if err != nil || p < 1 {
				return writeError(c, fiber.StatusBadRequest, "VALIDATION_FAILED", "page: must be no less than 1")
			}
			page = p
		}

		d, err := gate.CanServe(c.UserContext(), middleware.IdentityFrom(c), c.Params("id"), page)
		if err != nil {
			return writeServiceError(c, err)
		}
		if !d.Allowed {
			if d.Reason == service.DenyPaymentRequired {
				return writePaymentRequired(c, d.Price)
			}
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
		}

		c.Set(fiber.HeaderCacheControl, "no-store")
		u, err := catalog.ResolveURL(c.UserContext(), d.Document)
		if err == nil {
			return c.Redirect(u, fiber.StatusFound)
		}
		if !errors.Is(err, storage.ErrPresignUnsupported) {
			return writeServiceError(c, err)
		}

		rc, info, err := catalog.Open(c.UserContext(), d.Document)
		if err != nil {
			return writeServiceError(c, err)
		}
		c.Set(fiber.HeaderContentType, "application/pdf")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", d.Document.Filename))
		size := int(info.Size)
		if size <= 0 {
			size = -1
		}
		return c.SendStream(rc, size)
	}
}
