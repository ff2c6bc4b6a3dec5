package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"sekolahku_backend/internals/features/school/certificates/dto"
	"sekolahku_backend/internals/features/school/certificates/service"
	helper "sekolahku_backend/internals/helpers"
)

var validate = validator.New()

type CertificateController struct {
	DB      *gorm.DB
	Service *service.CertificateService
}

func NewCertificateController(db *gorm.DB) *CertificateController {
	return &CertificateController{DB: db, Service: service.NewCertificateService(db)}
}

func localUserID(c *fiber.Ctx) (uuid.UUID, error) {
	raw, ok := c.Locals("user_id").(string)
	if !ok || raw == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "User tidak dikenali")
	}
	return uuid.Parse(raw)
}

// GET /certificates/enrollment/:enrollment_id/eligibility
func (ctrl *CertificateController) Eligibility(c *fiber.Ctx) error {
	enrollmentID, err := uuid.Parse(c.Params("enrollment_id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "enrollment_id tidak valid")
	}

	result, err := ctrl.Service.CheckEligibility(enrollmentID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "ok", result)
}

// POST /certificates — terbitkan sertifikat (admin)
func (ctrl *CertificateController) Generate(c *fiber.Ctx) error {
	var req dto.GenerateCertificateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	generatedBy, err := localUserID(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "User tidak dikenali")
	}

	certificate, err := ctrl.Service.GenerateCertificate(&req, &generatedBy)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Sertifikat berhasil diterbitkan", certificate)
}

// GET /certificates/verify/:code — publik, tanpa autentikasi
func (ctrl *CertificateController) Verify(c *fiber.Ctx) error {
	code := c.Params("code")
	if code == "" {
		return helper.Error(c, fiber.StatusBadRequest, "Kode sertifikat wajib diisi")
	}

	result, err := ctrl.Service.VerifyCertificate(code)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "ok", result)
}

// POST /certificates/:certificate_id/revoke — cabut sertifikat (admin)
func (ctrl *CertificateController) Revoke(c *fiber.Ctx) error {
	certificateID, err := uuid.Parse(c.Params("certificate_id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "certificate_id tidak valid")
	}

	var req dto.RevokeCertificateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	revokedBy, err := localUserID(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "User tidak dikenali")
	}

	certificate, err := ctrl.Service.RevokeCertificate(certificateID, req.Reason, &revokedBy)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Sertifikat dicabut", certificate)
}
