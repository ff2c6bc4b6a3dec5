package service

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"sekolahku_backend/internals/features/school/enrollments/dto"
	"sekolahku_backend/internals/features/school/enrollments/model"
	gradingService "sekolahku_backend/internals/features/school/grading/service"
	helper "sekolahku_backend/internals/helpers"
)

type EnrollmentService struct {
	DB      *gorm.DB
	Grading *gradingService.GradingService
}

func NewEnrollmentService(db *gorm.DB) *EnrollmentService {
	return &EnrollmentService{DB: db, Grading: gradingService.NewGradingService(db)}
}

// ================== COURSE & STUDENT ==================

func (s *EnrollmentService) CreateCourse(req *dto.CreateCourseRequest) (*model.CourseModel, error) {
	course := model.CourseModel{
		CourseCode:         req.CourseCode,
		CourseName:         req.CourseName,
		CourseDescription:  req.CourseDescription,
		CourseInstructorID: req.CourseInstructorID,
		CourseIsActive:     true,
	}
	if err := s.DB.Create(&course).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusConflict, "Kode course sudah dipakai")
	}
	return &course, nil
}

func (s *EnrollmentService) CreateStudent(req *dto.CreateStudentRequest) (*model.StudentModel, error) {
	student := model.StudentModel{
		StudentFullName: req.StudentFullName,
		StudentEmail:    req.StudentEmail,
		StudentNumber:   req.StudentNumber,
	}
	if err := s.DB.Create(&student).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusConflict, "NIS atau email sudah terdaftar")
	}
	return &student, nil
}

// ================== ENROLLMENT ==================

func (s *EnrollmentService) EnrollStudent(req *dto.EnrollStudentRequest) (*model.EnrollmentModel, error) {
	var course model.CourseModel
	if err := s.DB.Where("course_id = ?", req.EnrollmentCourseID).First(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Course tidak ditemukan")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil course")
	}
	if !course.CourseIsActive {
		return nil, fiber.NewError(fiber.StatusUnprocessableEntity, "Course tidak aktif")
	}

	var studentCount int64
	if err := s.DB.Model(&model.StudentModel{}).
		Where("student_id = ?", req.EnrollmentStudentID).
		Count(&studentCount).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal memeriksa siswa")
	}
	if studentCount == 0 {
		return nil, fiber.NewError(fiber.StatusNotFound, "Siswa tidak ditemukan")
	}

	enrolledAt := time.Now()
	if req.EnrollmentDate != nil {
		enrolledAt = *req.EnrollmentDate
	}

	enrollment := model.EnrollmentModel{
		EnrollmentStudentID: req.EnrollmentStudentID,
		EnrollmentCourseID:  req.EnrollmentCourseID,
		EnrollmentDate:      enrolledAt,
		EnrollmentStatus:    model.EnrollmentStatusActive,
	}
	if err := s.DB.Create(&enrollment).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusConflict, "Siswa sudah terdaftar di course ini")
	}
	return &enrollment, nil
}

// IsStudentEnrolledInCourse memeriksa keanggotaan tanpa memedulikan status.
func (s *EnrollmentService) IsStudentEnrolledInCourse(studentID, courseID uuid.UUID) (bool, error) {
	var count int64
	err := s.DB.Model(&model.EnrollmentModel{}).
		Where("enrollment_student_id = ? AND enrollment_course_id = ?", studentID, courseID).
		Count(&count).Error
	if err != nil {
		return false, fiber.NewError(fiber.StatusInternalServerError, "Gagal memeriksa enrollment")
	}
	return count > 0, nil
}

func (s *EnrollmentService) FindEnrollment(studentID, courseID uuid.UUID) (*model.EnrollmentModel, error) {
	var enrollment model.EnrollmentModel
	if err := s.DB.
		Where("enrollment_student_id = ? AND enrollment_course_id = ?", studentID, courseID).
		First(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Enrollment tidak ditemukan")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil enrollment")
	}
	return &enrollment, nil
}

func (s *EnrollmentService) ListByCourse(courseID uuid.UUID) ([]model.EnrollmentModel, error) {
	var enrollments []model.EnrollmentModel
	if err := s.DB.
		Where("enrollment_course_id = ?", courseID).
		Order("enrollment_created_at ASC").
		Find(&enrollments).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil enrollment")
	}
	return enrollments, nil
}

// ================== FINAL GRADE CACHE ==================

// UpdateFinalGrade menghitung ulang nilai akhir lewat GradingService
// lalu menulis hasilnya ke kolom cache enrollment_final_grade. Satu-satunya
// jalur penulisan cache — nilai di kolom selalu hasil kalkulasi terakhir.
func (s *EnrollmentService) UpdateFinalGrade(enrollmentID uuid.UUID) (float64, error) {
	result, err := s.Grading.CalculateFinalGrade(enrollmentID)
	if err != nil {
		return 0, err
	}

	finalScore := helper.Round2(result.FinalScore)
	if err := s.DB.Model(&model.EnrollmentModel{}).
		Where("enrollment_id = ?", enrollmentID).
		Update("enrollment_final_grade", finalScore).Error; err != nil {
		return 0, fiber.NewError(fiber.StatusInternalServerError, "Gagal menyimpan nilai akhir")
	}
	return finalScore, nil
}

// ================== TRANSISI STATUS ==================

// CompleteEnrollment menandai enrollment selesai dan membekukan nilai
// akhir terkini ke cache.
func (s *EnrollmentService) CompleteEnrollment(enrollmentID uuid.UUID) (*model.EnrollmentModel, error) {
	enrollment, err := s.findByID(enrollmentID)
	if err != nil {
		return nil, err
	}
	if !enrollment.IsActive() {
		return nil, fiber.NewError(fiber.StatusConflict, "Hanya enrollment aktif yang bisa diselesaikan")
	}

	finalGrade, err := s.UpdateFinalGrade(enrollmentID)
	if err != nil {
		return nil, err
	}

	if err := s.DB.Model(enrollment).
		Update("enrollment_status", model.EnrollmentStatusCompleted).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal menyelesaikan enrollment")
	}
	enrollment.EnrollmentStatus = model.EnrollmentStatusCompleted
	enrollment.EnrollmentFinalGrade = &finalGrade
	return enrollment, nil
}

func (s *EnrollmentService) DropEnrollment(enrollmentID uuid.UUID) (*model.EnrollmentModel, error) {
	enrollment, err := s.findByID(enrollmentID)
	if err != nil {
		return nil, err
	}
	if enrollment.IsCompleted() {
		return nil, fiber.NewError(fiber.StatusConflict, "Enrollment yang sudah selesai tidak bisa di-drop")
	}

	if err := s.DB.Model(enrollment).
		Update("enrollment_status", model.EnrollmentStatusDropped).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal drop enrollment")
	}
	enrollment.EnrollmentStatus = model.EnrollmentStatusDropped
	return enrollment, nil
}

func (s *EnrollmentService) findByID(enrollmentID uuid.UUID) (*model.EnrollmentModel, error) {
	var enrollment model.EnrollmentModel
	if err := s.DB.Where("enrollment_id = ?", enrollmentID).First(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Enrollment tidak ditemukan")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil enrollment")
	}
	return &enrollment, nil
}
