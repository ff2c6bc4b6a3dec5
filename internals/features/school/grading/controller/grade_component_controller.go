package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"sekolahku_backend/internals/features/school/grading/dto"
	"sekolahku_backend/internals/features/school/grading/model"
	"sekolahku_backend/internals/features/school/grading/service"
	helper "sekolahku_backend/internals/helpers"
)

var validate = validator.New()

type GradeComponentController struct {
	DB      *gorm.DB
	Service *service.GradingService
}

func NewGradeComponentController(db *gorm.DB) *GradeComponentController {
	return &GradeComponentController{DB: db, Service: service.NewGradingService(db)}
}

// POST /grade-components
func (ctrl *GradeComponentController) Create(c *fiber.Ctx) error {
	var req dto.CreateGradeComponentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	component, err := ctrl.Service.CreateGradeComponent(&req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Komponen nilai berhasil dibuat", component)
}

// GET /grade-components/course/:course_id
func (ctrl *GradeComponentController) ListByCourse(c *fiber.Ctx) error {
	courseID, err := uuid.Parse(c.Params("course_id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "course_id tidak valid")
	}

	var components []model.GradeComponentModel
	if err := ctrl.DB.
		Where("grade_component_course_id = ?", courseID).
		Order("grade_component_created_at ASC").
		Find(&components).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal mengambil komponen nilai")
	}
	return helper.Success(c, "ok", components)
}

// GET /grade-components/course/:course_id/validate-weight
func (ctrl *GradeComponentController) ValidateWeight(c *fiber.Ctx) error {
	courseID, err := uuid.Parse(c.Params("course_id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "course_id tidak valid")
	}

	result, err := ctrl.Service.ValidateTotalWeight(courseID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "ok", result)
}

// PATCH /grade-components/:id
func (ctrl *GradeComponentController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "id tidak valid")
	}

	var req dto.UpdateGradeComponentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	component, err := ctrl.Service.UpdateGradeComponent(id, &req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Komponen nilai berhasil diupdate", component)
}

// DELETE /grade-components/:id — soft-disable, komponen tidak dihapus fisik
func (ctrl *GradeComponentController) Deactivate(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "id tidak valid")
	}

	result := ctrl.DB.Model(&model.GradeComponentModel{}).
		Where("grade_component_id = ?", id).
		Update("grade_component_is_active", false)
	if result.Error != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal menonaktifkan komponen nilai")
	}
	if result.RowsAffected == 0 {
		return helper.Error(c, fiber.StatusNotFound, "Komponen nilai tidak ditemukan")
	}
	return helper.Success(c, "Komponen nilai dinonaktifkan", nil)
}
