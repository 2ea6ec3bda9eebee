package http

import (
	"strings"

	"resume-builder/internal/domain"
	"resume-builder/internal/model"
	"resume-builder/internal/usecase"
	"resume-builder/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handler struct {
	resumes  *usecase.ResumeService
	exporter *usecase.Exporter
}

func NewHandler(resumes *usecase.ResumeService, exporter *usecase.Exporter) *Handler {
	return &Handler{resumes: resumes, exporter: exporter}
}

type shareResp struct {
	PublicID string `json:"publicId"`
}

type pdfFromHTMLReq struct {
	HTML string `json:"html"`
}

type validateReq struct {
	Title   string        `json:"title"`
	Content model.Content `json:"content"`
}

type validateResp struct {
	Valid    bool              `json:"valid"`
	Errors   map[string]string `json:"errors"`
	Messages []string          `json:"messages"`
}

// resumeID parses the :id parameter. A malformed id is reported as not
// found, the same as an unknown one.
func resumeID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, domain.ErrNotFound
	}
	return id, nil
}

func (h *Handler) List(c *fiber.Ctx) error {
	list, err := h.resumes.List(c.UserContext(), ownerID(c))
	if err != nil {
		return err
	}
	if list == nil {
		list = []*domain.Resume{}
	}
	return c.JSON(list)
}

func (h *Handler) Get(c *fiber.Ctx) error {
	id, err := resumeID(c)
	if err != nil {
		return err
	}
	r, err := h.resumes.Get(c.UserContext(), ownerID(c), id)
	if err != nil {
		return err
	}
	return c.JSON(r)
}

func (h *Handler) Create(c *fiber.Ctx) error {
	var req usecase.CreateInput
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	r, err := h.resumes.Create(c.UserContext(), ownerID(c), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(r)
}

// Replace overwrites the whole document. The body is checked against the
// resume schema before it is decoded.
func (h *Handler) Replace(c *fiber.Ctx) error {
	id, err := resumeID(c)
	if err != nil {
		return err
	}
	if err := model.ValidateDocument(c.Body()); err != nil {
		return err
	}
	var req usecase.ReplaceInput
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	r, err := h.resumes.Replace(c.UserContext(), ownerID(c), id, req)
	if err != nil {
		return err
	}
	return c.JSON(r)
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	id, err := resumeID(c)
	if err != nil {
		return err
	}
	if err := h.resumes.Delete(c.UserContext(), ownerID(c), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) Share(c *fiber.Ctx) error {
	id, err := resumeID(c)
	if err != nil {
		return err
	}
	pid, err := h.resumes.Share(c.UserContext(), ownerID(c), id)
	if err != nil {
		return err
	}
	return c.JSON(shareResp{PublicID: pid})
}

func (h *Handler) GetPublic(c *fiber.Ctx) error {
	r, err := h.resumes.GetPublic(c.UserContext(), c.Params("publicId"))
	if err != nil {
		return err
	}
	return c.JSON(r)
}

func (h *Handler) PDF(c *fiber.Ctx) error {
	id, err := resumeID(c)
	if err != nil {
		return err
	}
	exp, err := h.exporter.ExportOwned(c.UserContext(), ownerID(c), id)
	if err != nil {
		return pdfFailure(err)
	}
	return sendPDF(c, exp)
}

func (h *Handler) PublicPDF(c *fiber.Ctx) error {
	exp, err := h.exporter.ExportPublic(c.UserContext(), c.Params("publicId"))
	if err != nil {
		return pdfFailure(err)
	}
	return sendPDF(c, exp)
}

// PDFFromHTML prints HTML the client rendered itself.
func (h *Handler) PDFFromHTML(c *fiber.Ctx) error {
	id, err := resumeID(c)
	if err != nil {
		return err
	}
	var req pdfFromHTMLReq
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
	}
	exp, err := h.exporter.ExportHTML(c.UserContext(), ownerID(c), id, req.HTML)
	if err != nil {
		return pdfFailure(err)
	}
	return sendPDF(c, exp)
}

func sendPDF(c *fiber.Ctx, exp *usecase.Export) error {
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, exp.ContentDisposition())
	return c.Send(exp.PDF)
}

func (h *Handler) Preview(c *fiber.Ctx) error {
	id, err := resumeID(c)
	if err != nil {
		return err
	}
	out, err := h.exporter.Preview(c.UserContext(), ownerID(c), id, strings.TrimSpace(c.Query("template")))
	if err != nil {
		return err
	}
	return sendHTML(c, out)
}

func (h *Handler) PublicPreview(c *fiber.Ctx) error {
	out, err := h.exporter.PreviewPublic(c.UserContext(), c.Params("publicId"))
	if err != nil {
		return err
	}
	return sendHTML(c, out)
}

func sendHTML(c *fiber.Ctx, out []byte) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(out)
}

// Validate runs the full rule set over a draft without storing it.
func (h *Handler) Validate(c *fiber.Ctx) error {
	var req validateReq
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	errs := validation.Validate(&domain.Resume{Title: req.Title, Content: req.Content.Normalize()})
	resp := validateResp{
		Valid:    errs.Valid(),
		Errors:   map[string]string{},
		Messages: []string{},
	}
	for k, v := range errs {
		resp.Errors[k] = v
	}
	resp.Messages = append(resp.Messages, errs.Messages()...)
	return c.JSON(resp)
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
