package service

import (
	"errors"
	"math"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	enrollmentModel "sekolahku_backend/internals/features/school/enrollments/model"
	"sekolahku_backend/internals/features/school/submissions/dto"
	"sekolahku_backend/internals/features/school/submissions/model"
	helper "sekolahku_backend/internals/helpers"
)

type SubmissionService struct {
	DB *gorm.DB
}

func NewSubmissionService(db *gorm.DB) *SubmissionService {
	return &SubmissionService{DB: db}
}

// ================== ASSIGNMENT ==================

func (s *SubmissionService) CreateAssignment(req *dto.CreateAssignmentRequest) (*model.AssignmentModel, error) {
	var courseCount int64
	if err := s.DB.Model(&enrollmentModel.CourseModel{}).
		Where("course_id = ?", req.AssignmentCourseID).
		Count(&courseCount).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal memeriksa course")
	}
	if courseCount == 0 {
		return nil, fiber.NewError(fiber.StatusNotFound, "Course tidak ditemukan")
	}

	maxScore := 100.0
	if req.AssignmentMaxScore != nil {
		maxScore = *req.AssignmentMaxScore
	}

	assignment := model.AssignmentModel{
		AssignmentCourseID:       req.AssignmentCourseID,
		AssignmentTitle:          req.AssignmentTitle,
		AssignmentDesc:           req.AssignmentDesc,
		AssignmentStatus:         model.AssignmentStatusDraft,
		AssignmentDueDate:        req.AssignmentDueDate,
		AssignmentMaxScore:       maxScore,
		AssignmentAttachmentURLs: req.AssignmentAttachmentURLs,
	}
	if err := s.DB.Create(&assignment).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal membuat assignment")
	}
	return &assignment, nil
}

func (s *SubmissionService) PublishAssignment(assignmentID uuid.UUID) error {
	return s.setAssignmentStatus(assignmentID, model.AssignmentStatusPublished)
}

func (s *SubmissionService) CloseAssignment(assignmentID uuid.UUID) error {
	return s.setAssignmentStatus(assignmentID, model.AssignmentStatusClosed)
}

func (s *SubmissionService) setAssignmentStatus(assignmentID uuid.UUID, status string) error {
	res := s.DB.Model(&model.AssignmentModel{}).
		Where("assignment_id = ?", assignmentID).
		Update("assignment_status", status)
	if res.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal update status assignment")
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Assignment tidak ditemukan")
	}
	return nil
}

// ================== COMPLETION RATE ==================

// AssignmentCompletionRate menghitung rasio submission satu enrollment
// terhadap seluruh assignment published di course-nya. Course tanpa
// assignment published = 100%. Adanya baris submission sudah dihitung
// selesai — nilai dan keterlambatan tidak berpengaruh.
func (s *SubmissionService) AssignmentCompletionRate(enrollmentID uuid.UUID) (*dto.CompletionRateResult, error) {
	var enrollment enrollmentModel.EnrollmentModel
	if err := s.DB.Where("enrollment_id = ?", enrollmentID).First(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Enrollment tidak ditemukan")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil enrollment")
	}

	var totalAssignments int64
	if err := s.DB.Model(&model.AssignmentModel{}).
		Where("assignment_course_id = ? AND assignment_status = ?",
			enrollment.EnrollmentCourseID, model.AssignmentStatusPublished).
		Count(&totalAssignments).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal menghitung assignment")
	}

	var submittedCount int64
	if err := s.DB.Model(&model.SubmissionModel{}).
		Where("submission_enrollment_id = ?", enrollmentID).
		Count(&submittedCount).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal menghitung submission")
	}

	return &dto.CompletionRateResult{
		EnrollmentID:     enrollmentID,
		TotalAssignments: totalAssignments,
		SubmittedCount:   submittedCount,
		CompletionRate:   helper.RatioOrFullCredit(submittedCount, totalAssignments),
	}, nil
}

// ================== SUBMIT & GRADE ==================

// SubmitAssignment mencatat pengumpulan tugas siswa. Keterlambatan
// diturunkan dari due_date: telat sehari dibulatkan ke atas.
func (s *SubmissionService) SubmitAssignment(studentID uuid.UUID, req *dto.SubmitAssignmentRequest) (*model.SubmissionModel, error) {
	var assignment model.AssignmentModel
	if err := s.DB.Where("assignment_id = ?", req.SubmissionAssignmentID).First(&assignment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Assignment tidak ditemukan")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil assignment")
	}
	if !assignment.IsPublished() {
		return nil, fiber.NewError(fiber.StatusConflict, "Assignment belum dibuka atau sudah ditutup")
	}

	var enrollment enrollmentModel.EnrollmentModel
	if err := s.DB.
		Where("enrollment_student_id = ? AND enrollment_course_id = ?", studentID, assignment.AssignmentCourseID).
		First(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusUnprocessableEntity, "Siswa tidak terdaftar di course ini.")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil enrollment")
	}

	var existing int64
	if err := s.DB.Model(&model.SubmissionModel{}).
		Where("submission_assignment_id = ? AND submission_enrollment_id = ?",
			assignment.AssignmentID, enrollment.EnrollmentID).
		Count(&existing).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal memeriksa submission")
	}
	if existing > 0 {
		return nil, fiber.NewError(fiber.StatusConflict, "Tugas sudah dikumpulkan sebelumnya")
	}

	now := time.Now()
	status := model.SubmissionStatusSubmitted
	isLate := false
	lateDays := 0
	if assignment.IsPastDue(now) {
		status = model.SubmissionStatusLate
		isLate = true
		lateDays = int(math.Ceil(now.Sub(assignment.AssignmentDueDate).Hours() / 24))
		if lateDays < 1 {
			lateDays = 1
		}
	}

	submission := model.SubmissionModel{
		SubmissionAssignmentID: assignment.AssignmentID,
		SubmissionEnrollmentID: enrollment.EnrollmentID,
		SubmissionStatus:       status,
		SubmissionContent:      req.SubmissionContent,
		SubmissionFileURL:      req.SubmissionFileURL,
		SubmissionSubmittedAt:  &now,
		SubmissionIsLate:       isLate,
		SubmissionLateDays:     lateDays,
	}
	if err := s.DB.Create(&submission).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusConflict, "Gagal menyimpan submission")
	}
	return &submission, nil
}

// GradeSubmission memberi nilai 0–100 pada submission dan menandainya graded.
func (s *SubmissionService) GradeSubmission(submissionID uuid.UUID, grade float64, feedback *string, gradedBy *uuid.UUID) (*model.SubmissionModel, error) {
	if grade < 0 || grade > 100 {
		return nil, fiber.NewError(fiber.StatusUnprocessableEntity, "Nilai harus di rentang 0-100")
	}

	var submission model.SubmissionModel
	if err := s.DB.Where("submission_id = ?", submissionID).First(&submission).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Submission tidak ditemukan")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil submission")
	}
	if submission.SubmissionSubmittedAt == nil {
		return nil, fiber.NewError(fiber.StatusConflict, "Submission masih draft, belum bisa dinilai")
	}

	now := time.Now()
	updates := map[string]interface{}{
		"submission_status":    model.SubmissionStatusGraded,
		"submission_grade":     grade,
		"submission_graded_by": gradedBy,
		"submission_graded_at": now,
	}
	if feedback != nil {
		updates["submission_feedback"] = *feedback
	}
	if err := s.DB.Model(&submission).Updates(updates).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal menyimpan nilai submission")
	}
	return &submission, nil
}

// ReturnSubmission mengembalikan submission ke siswa untuk revisi.
func (s *SubmissionService) ReturnSubmission(submissionID uuid.UUID, feedback *string) (*model.SubmissionModel, error) {
	var submission model.SubmissionModel
	if err := s.DB.Where("submission_id = ?", submissionID).First(&submission).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Submission tidak ditemukan")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil submission")
	}

	updates := map[string]interface{}{"submission_status": model.SubmissionStatusReturned}
	if feedback != nil {
		updates["submission_feedback"] = *feedback
	}
	if err := s.DB.Model(&submission).Updates(updates).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengembalikan submission")
	}
	return &submission, nil
}

// ListSubmissionsByAssignment mengambil seluruh submission satu assignment.
func (s *SubmissionService) ListSubmissionsByAssignment(assignmentID uuid.UUID) ([]model.SubmissionModel, error) {
	var submissions []model.SubmissionModel
	if err := s.DB.
		Where("submission_assignment_id = ?", assignmentID).
		Order("submission_submitted_at ASC").
		Find(&submissions).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil submission")
	}
	return submissions, nil
}
