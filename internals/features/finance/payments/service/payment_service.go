package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"sekolahku_backend/internals/features/finance/payments/dto"
	"sekolahku_backend/internals/features/finance/payments/model"
	enrollmentModel "sekolahku_backend/internals/features/school/enrollments/model"
	helper "sekolahku_backend/internals/helpers"
)

type PaymentService struct {
	DB *gorm.DB
}

func NewPaymentService(db *gorm.DB) *PaymentService {
	return &PaymentService{DB: db}
}

// CreatePayment membuat tagihan biaya course dan meminta Snap token
// ke Midtrans untuk halaman pembayaran.
func (s *PaymentService) CreatePayment(req *dto.CreatePaymentRequest) (*dto.CreatePaymentResponse, error) {
	var student enrollmentModel.StudentModel
	if err := s.DB.Where("student_id = ?", req.PaymentStudentID).First(&student).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Siswa tidak ditemukan")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil siswa")
	}

	var course enrollmentModel.CourseModel
	if err := s.DB.Where("course_id = ?", req.PaymentCourseID).First(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Course tidak ditemukan")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil course")
	}

	payment := model.PaymentModel{
		PaymentOrderID:   buildOrderID(course.CourseCode),
		PaymentStudentID: student.StudentID,
		PaymentCourseID:  course.CourseID,
		PaymentAmount:    req.PaymentAmount,
		PaymentStatus:    model.PaymentStatusPending,
	}

	token, redirectURL, err := GenerateSnapToken(payment, student.StudentFullName, student.StudentEmail)
	if err != nil {
		log.Printf("[PaymentService] midtrans err: %v", err)
		return nil, fiber.NewError(fiber.StatusBadGateway, "Gagal membuat transaksi pembayaran")
	}
	payment.PaymentSnapToken = &token
	payment.PaymentRedirectURL = &redirectURL

	if err := s.DB.Create(&payment).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal menyimpan pembayaran")
	}

	return &dto.CreatePaymentResponse{
		PaymentID:   payment.PaymentID,
		OrderID:     payment.PaymentOrderID,
		SnapToken:   token,
		RedirectURL: redirectURL,
	}, nil
}

func (s *PaymentService) FindByOrderID(orderID string) (*model.PaymentModel, error) {
	var payment model.PaymentModel
	if err := s.DB.Where("payment_order_id = ?", orderID).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Pembayaran tidak ditemukan")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil pembayaran")
	}
	return &payment, nil
}

func (s *PaymentService) ListByStudent(studentID uuid.UUID, paging helper.Paging) ([]model.PaymentModel, int64, error) {
	var total int64
	if err := s.DB.Model(&model.PaymentModel{}).
		Where("payment_student_id = ?", studentID).
		Count(&total).Error; err != nil {
		return nil, 0, fiber.NewError(fiber.StatusInternalServerError, "Gagal menghitung pembayaran")
	}

	var payments []model.PaymentModel
	if err := s.DB.
		Where("payment_student_id = ?", studentID).
		Order("payment_created_at DESC").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&payments).Error; err != nil {
		return nil, 0, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil pembayaran")
	}
	return payments, total, nil
}

func buildOrderID(courseCode string) string {
	return fmt.Sprintf("PAY-%s-%d", courseCode, time.Now().UnixNano())
}
