package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	attendanceService "sekolahku_backend/internals/features/school/attendance/service"
	"sekolahku_backend/internals/features/school/certificates/dto"
	"sekolahku_backend/internals/features/school/certificates/model"
	enrollmentModel "sekolahku_backend/internals/features/school/enrollments/model"
	gradingService "sekolahku_backend/internals/features/school/grading/service"
	submissionService "sekolahku_backend/internals/features/school/submissions/service"
)

// Ambang kelayakan sertifikat
const (
	MinFinalGrade           = 60.0
	MinAttendancePercentage = 75.0
	MinCompletionRate       = 80.0
)

type CertificateService struct {
	DB          *gorm.DB
	Attendance  *attendanceService.AttendanceService
	Submissions *submissionService.SubmissionService
}

func NewCertificateService(db *gorm.DB) *CertificateService {
	return &CertificateService{
		DB:          db,
		Attendance:  attendanceService.NewAttendanceService(db),
		Submissions: submissionService.NewSubmissionService(db),
	}
}

// ================== ELIGIBILITY ==================

// CheckEligibility mengevaluasi empat syarat sertifikat. Semua syarat
// dievaluasi walau yang sebelumnya sudah gagal — errors terakumulasi.
//
// Syarat nilai akhir dibaca dari cache enrollment_final_grade yang
// dibekukan saat enrollment diselesaikan — BUKAN dihitung ulang dari
// tabel grades. Cache yang masih kosong berarti belum layak, dan koreksi
// nilai setelah enrollment selesai tidak menggeser kelayakan.
func (s *CertificateService) CheckEligibility(enrollmentID uuid.UUID) (*dto.EligibilityResult, error) {
	var enrollment enrollmentModel.EnrollmentModel
	if err := s.DB.Where("enrollment_id = ?", enrollmentID).First(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Enrollment tidak ditemukan")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil enrollment")
	}

	attendancePct, err := s.Attendance.AttendancePercentage(enrollmentID)
	if err != nil {
		return nil, err
	}
	completion, err := s.Submissions.AssignmentCompletionRate(enrollmentID)
	if err != nil {
		return nil, err
	}

	result := dto.EligibilityResult{
		EnrollmentID:             enrollmentID,
		Errors:                   []string{},
		FinalGrade:               enrollment.EnrollmentFinalGrade,
		AttendancePercentage:     attendancePct,
		AssignmentCompletionRate: completion.CompletionRate,
	}
	if enrollment.EnrollmentFinalGrade != nil {
		result.GradeLetter = gradingService.DetermineGradeLetter(*enrollment.EnrollmentFinalGrade)
	}

	if !enrollment.IsCompleted() {
		result.Errors = append(result.Errors, "Enrollment belum berstatus completed.")
	}
	switch {
	case enrollment.EnrollmentFinalGrade == nil:
		result.Errors = append(result.Errors, "Nilai akhir belum dihitung.")
	case *enrollment.EnrollmentFinalGrade < MinFinalGrade:
		result.Errors = append(result.Errors,
			fmt.Sprintf("Nilai akhir %.2f di bawah batas minimum %.0f.", *enrollment.EnrollmentFinalGrade, MinFinalGrade))
	}
	if attendancePct < MinAttendancePercentage {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Kehadiran %.2f%% di bawah batas minimum %.0f%%.", attendancePct, MinAttendancePercentage))
	}
	if completion.CompletionRate < MinCompletionRate {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Penyelesaian tugas %.2f%% di bawah batas minimum %.0f%%.", completion.CompletionRate, MinCompletionRate))
	}

	result.Eligible = len(result.Errors) == 0
	return &result, nil
}

// ================== ISSUANCE ==================

// GenerateCertificate menerbitkan sertifikat untuk enrollment yang lolos
// evaluasi. Satu enrollment maksimal satu sertifikat issued; selain
// pre-check di bawah, partial unique index uq_certificates_issued_enrollment
// menjaga invariant ini saat dua request menerbitkan bersamaan.
func (s *CertificateService) GenerateCertificate(req *dto.GenerateCertificateRequest, generatedBy *uuid.UUID) (*model.CertificateModel, error) {
	eligibility, err := s.CheckEligibility(req.EnrollmentID)
	if err != nil {
		return nil, err
	}
	if !eligibility.Eligible {
		return nil, fiber.NewError(fiber.StatusUnprocessableEntity,
			"Belum memenuhi syarat sertifikat: "+strings.Join(eligibility.Errors, " "))
	}

	var enrollment enrollmentModel.EnrollmentModel
	if err := s.DB.Where("enrollment_id = ?", req.EnrollmentID).First(&enrollment).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil enrollment")
	}

	var existing int64
	if err := s.DB.Model(&model.CertificateModel{}).
		Where("certificate_enrollment_id = ? AND certificate_status = ?",
			req.EnrollmentID, model.CertificateStatusIssued).
		Count(&existing).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal memeriksa sertifikat")
	}
	if existing > 0 {
		return nil, fiber.NewError(fiber.StatusConflict, "Sertifikat untuk enrollment ini sudah terbit")
	}

	var course enrollmentModel.CourseModel
	if err := s.DB.Where("course_id = ?", enrollment.EnrollmentCourseID).First(&course).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil course")
	}

	now := time.Now()
	certificate := model.CertificateModel{
		CertificateEnrollmentID:   req.EnrollmentID,
		CertificateCourseID:       course.CourseID,
		CertificateCode:           buildCertificateCode(now.Year(), course.CourseCode),
		CertificateFinalGrade:     *eligibility.FinalGrade,
		CertificateGradeLetter:    eligibility.GradeLetter,
		CertificateAttendancePct:  eligibility.AttendancePercentage,
		CertificateCompletionRate: eligibility.AssignmentCompletionRate,
		CertificateStatus:         model.CertificateStatusIssued,
		CertificateGeneratedBy:    generatedBy,
		CertificateIssuedAt:       now,
		CertificateExpiryDate:     req.ExpiryDate,
	}
	if req.Metadata != nil {
		raw, err := sonic.Marshal(req.Metadata)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Metadata tidak valid")
		}
		certificate.CertificateMetadata = raw
	}

	// Penerbitan bersamaan kalah di unique index — bukan double-issue
	if err := s.DB.Create(&certificate).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusConflict, "Sertifikat untuk enrollment ini sudah terbit")
	}
	return &certificate, nil
}

// ================== VERIFY & REVOKE ==================

// VerifyCertificate memeriksa kode sertifikat publik. Tiap pemeriksaan
// menaikkan verification_count, termasuk untuk sertifikat yang dicabut
// atau kedaluwarsa. Sertifikat issued yang sudah lewat expiry_date
// ditandai expired saat diverifikasi.
func (s *CertificateService) VerifyCertificate(code string) (*dto.VerifyCertificateResult, error) {
	var certificate model.CertificateModel
	if err := s.DB.Where("certificate_code = ?", code).First(&certificate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Sertifikat tidak ditemukan")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil sertifikat")
	}

	updates := map[string]interface{}{
		"certificate_verification_count": gorm.Expr("certificate_verification_count + 1"),
	}
	if certificate.IsIssued() && certificate.IsExpiredAt(time.Now()) {
		updates["certificate_status"] = model.CertificateStatusExpired
		certificate.CertificateStatus = model.CertificateStatusExpired
	}
	if err := s.DB.Model(&certificate).Updates(updates).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mencatat verifikasi")
	}

	return &dto.VerifyCertificateResult{
		Valid:             certificate.IsIssued(),
		CertificateCode:   certificate.CertificateCode,
		Status:            certificate.CertificateStatus,
		FinalGrade:        certificate.CertificateFinalGrade,
		GradeLetter:       certificate.CertificateGradeLetter,
		ExpiryDate:        certificate.CertificateExpiryDate,
		VerificationCount: certificate.CertificateVerificationCount + 1,
	}, nil
}

// RevokeCertificate mencabut sertifikat issued dan mencatat alasan serta
// siapa yang mencabut.
func (s *CertificateService) RevokeCertificate(certificateID uuid.UUID, reason string, revokedBy *uuid.UUID) (*model.CertificateModel, error) {
	var certificate model.CertificateModel
	if err := s.DB.Where("certificate_id = ?", certificateID).First(&certificate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Sertifikat tidak ditemukan")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil sertifikat")
	}
	if !certificate.IsIssued() {
		return nil, fiber.NewError(fiber.StatusConflict, "Hanya sertifikat issued yang bisa dicabut")
	}

	now := time.Now()
	if err := s.DB.Model(&certificate).Updates(map[string]interface{}{
		"certificate_status":            model.CertificateStatusRevoked,
		"certificate_revocation_reason": reason,
		"certificate_revoked_by":        revokedBy,
		"certificate_revoked_at":        now,
	}).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mencabut sertifikat")
	}
	certificate.CertificateStatus = model.CertificateStatusRevoked
	certificate.CertificateRevocationReason = &reason
	certificate.CertificateRevokedBy = revokedBy
	certificate.CertificateRevokedAt = &now
	return &certificate, nil
}

// ================== HELPER ==================

const certCodeCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// buildCertificateCode menghasilkan CERT-<tahun>-<kode course>-<8 acak>.
func buildCertificateCode(year int, courseCode string) string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		// fallback deterministik dari waktu — hampir mustahil terjadi
		return fmt.Sprintf("CERT-%d-%s-%d", year, courseCode, time.Now().UnixNano()%100000000)
	}
	for i, b := range buf {
		buf[i] = certCodeCharset[int(b)%len(certCodeCharset)]
	}
	return fmt.Sprintf("CERT-%d-%s-%s", year, courseCode, string(buf))
}
