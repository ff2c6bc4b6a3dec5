package service

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sekolahku_backend/internals/features/school/attendance/dto"
	"sekolahku_backend/internals/features/school/attendance/model"
	enrollmentModel "sekolahku_backend/internals/features/school/enrollments/model"
	helper "sekolahku_backend/internals/helpers"
)

type AttendanceService struct {
	DB *gorm.DB
}

func NewAttendanceService(db *gorm.DB) *AttendanceService {
	return &AttendanceService{DB: db}
}

// ================== PERSENTASE KEHADIRAN ==================

// AttendancePercentage menghitung rasio hadir satu enrollment terhadap
// seluruh sesi course-nya. Course tanpa sesi = 100% (kredit penuh).
// Hanya status "present" yang dihitung hadir — sick/permission/pending
// TIDAK masuk pembilang.
func (s *AttendanceService) AttendancePercentage(enrollmentID uuid.UUID) (float64, error) {
	var enrollment enrollmentModel.EnrollmentModel
	if err := s.DB.Where("enrollment_id = ?", enrollmentID).First(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fiber.NewError(fiber.StatusNotFound, "Enrollment tidak ditemukan")
		}
		return 0, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil enrollment")
	}

	var totalSessions int64
	if err := s.DB.Model(&model.AttendanceSessionModel{}).
		Where("attendance_session_course_id = ?", enrollment.EnrollmentCourseID).
		Count(&totalSessions).Error; err != nil {
		return 0, fiber.NewError(fiber.StatusInternalServerError, "Gagal menghitung sesi")
	}

	var presentCount int64
	if err := s.DB.Model(&model.AttendanceRecordModel{}).
		Where("attendance_record_enrollment_id = ? AND attendance_record_status = ?",
			enrollmentID, model.AttendanceStatusPresent).
		Count(&presentCount).Error; err != nil {
		return 0, fiber.NewError(fiber.StatusInternalServerError, "Gagal menghitung kehadiran")
	}

	return helper.RatioOrFullCredit(presentCount, totalSessions), nil
}

// ================== AUTO MARK ABSENT ==================

// AutoMarkAbsent menyapu semua enrollment aktif di course sesi:
// yang belum punya record (atau masih pending) ditandai absent.
// Dipanggil sebelum deadline lewat = no-op (0 marked). Idempotent —
// record yang sudah berstatus konkret tidak pernah ditimpa, dan
// check-in siswa yang balapan dengan sweep menang lewat conflict-ignore.
func (s *AttendanceService) AutoMarkAbsent(sessionID uuid.UUID) (int, error) {
	var session model.AttendanceSessionModel
	if err := s.DB.Where("attendance_session_id = ?", sessionID).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fiber.NewError(fiber.StatusNotFound, "Sesi kehadiran tidak ditemukan")
		}
		return 0, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil sesi")
	}

	if !session.HasExpired() {
		return 0, nil
	}

	var enrollments []enrollmentModel.EnrollmentModel
	if err := s.DB.
		Where("enrollment_course_id = ? AND enrollment_status = ?",
			session.AttendanceSessionCourseID, enrollmentModel.EnrollmentStatusActive).
		Find(&enrollments).Error; err != nil {
		return 0, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil enrollment")
	}

	marked := 0
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		for _, enrollment := range enrollments {
			record := model.AttendanceRecordModel{
				AttendanceRecordEnrollmentID: enrollment.EnrollmentID,
				AttendanceRecordSessionID:    sessionID,
				AttendanceRecordStatus:       model.AttendanceStatusAbsent,
			}
			// insert-if-absent: kalau record sudah ada (check-in menang), diamkan
			res := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "attendance_record_enrollment_id"}, {Name: "attendance_record_session_id"}},
				DoNothing: true,
			}).Create(&record)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected > 0 {
				marked++
				continue
			}

			// record ada tapi masih pending → jadikan absent
			upd := tx.Model(&model.AttendanceRecordModel{}).
				Where("attendance_record_enrollment_id = ? AND attendance_record_session_id = ? AND attendance_record_status = ?",
					enrollment.EnrollmentID, sessionID, model.AttendanceStatusPending).
				Update("attendance_record_status", model.AttendanceStatusAbsent)
			if upd.Error != nil {
				return upd.Error
			}
			if upd.RowsAffected > 0 {
				marked++
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("[AttendanceService] auto mark absent err: %v", err)
		return 0, fiber.NewError(fiber.StatusInternalServerError, "Gagal menandai absent")
	}

	return marked, nil
}

// ================== CHECK-IN & IZIN ==================

// CheckIn mencatat kehadiran siswa pada satu sesi. Sesi harus open dan
// belum lewat deadline.
func (s *AttendanceService) CheckIn(sessionID, studentID uuid.UUID) (*model.AttendanceRecordModel, error) {
	return s.upsertRecordStatus(sessionID, studentID, model.AttendanceStatusPresent, nil, nil)
}

// RequestSickLeave mencatat izin sakit dengan surat keterangan.
func (s *AttendanceService) RequestSickLeave(sessionID, studentID uuid.UUID, docURL string, notes *string) (*model.AttendanceRecordModel, error) {
	return s.upsertRecordStatus(sessionID, studentID, model.AttendanceStatusSick, &docURL, notes)
}

// RequestPermission mencatat izin dengan surat keterangan.
func (s *AttendanceService) RequestPermission(sessionID, studentID uuid.UUID, docURL string, notes *string) (*model.AttendanceRecordModel, error) {
	return s.upsertRecordStatus(sessionID, studentID, model.AttendanceStatusPermission, &docURL, notes)
}

func (s *AttendanceService) upsertRecordStatus(sessionID, studentID uuid.UUID, status string, docURL, notes *string) (*model.AttendanceRecordModel, error) {
	var session model.AttendanceSessionModel
	if err := s.DB.Where("attendance_session_id = ?", sessionID).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Sesi kehadiran tidak ditemukan")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil sesi")
	}
	if !session.IsActive() {
		return nil, fiber.NewError(fiber.StatusConflict, "Sesi sudah ditutup atau lewat deadline")
	}

	var enrollment enrollmentModel.EnrollmentModel
	if err := s.DB.
		Where("enrollment_student_id = ? AND enrollment_course_id = ?", studentID, session.AttendanceSessionCourseID).
		First(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusUnprocessableEntity, "Siswa tidak terdaftar di course ini.")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil enrollment")
	}

	var record model.AttendanceRecordModel
	err := s.DB.
		Where("attendance_record_enrollment_id = ? AND attendance_record_session_id = ?",
			enrollment.EnrollmentID, sessionID).
		First(&record).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		record = model.AttendanceRecordModel{
			AttendanceRecordEnrollmentID:     enrollment.EnrollmentID,
			AttendanceRecordSessionID:        sessionID,
			AttendanceRecordStatus:           status,
			AttendanceRecordNotes:            notes,
			AttendanceRecordSupportingDocURL: docURL,
		}
		if err := s.DB.Create(&record).Error; err != nil {
			return nil, fiber.NewError(fiber.StatusConflict, "Gagal menyimpan kehadiran")
		}
		return &record, nil
	case err != nil:
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil record kehadiran")
	}

	if record.AttendanceRecordStatus == status {
		return nil, fiber.NewError(fiber.StatusConflict, "Kehadiran sudah tercatat untuk sesi ini")
	}
	// hanya pending yang boleh diubah lewat jalur siswa
	if record.AttendanceRecordStatus != model.AttendanceStatusPending {
		return nil, fiber.NewError(fiber.StatusConflict, "Status kehadiran sudah final")
	}

	updates := map[string]interface{}{"attendance_record_status": status}
	if notes != nil {
		updates["attendance_record_notes"] = *notes
	}
	if docURL != nil {
		updates["attendance_record_supporting_doc_url"] = *docURL
	}
	if err := s.DB.Model(&record).Updates(updates).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal update kehadiran")
	}
	return &record, nil
}

// ================== REVIEW SAKIT/IZIN ==================

func (s *AttendanceService) ApproveRecord(recordID, reviewerID uuid.UUID, notes *string) (*model.AttendanceRecordModel, error) {
	record, err := s.findReviewableRecord(recordID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	updates := map[string]interface{}{
		"attendance_record_reviewed_by": reviewerID,
		"attendance_record_reviewed_at": now,
	}
	if notes != nil {
		updates["attendance_record_notes"] = *notes
	}
	if err := s.DB.Model(record).Updates(updates).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal menyetujui record")
	}
	return record, nil
}

// RejectRecord menolak izin sakit/izin: status berubah jadi absent.
func (s *AttendanceService) RejectRecord(recordID, reviewerID uuid.UUID, notes *string) (*model.AttendanceRecordModel, error) {
	record, err := s.findReviewableRecord(recordID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	updates := map[string]interface{}{
		"attendance_record_status":      model.AttendanceStatusAbsent,
		"attendance_record_reviewed_by": reviewerID,
		"attendance_record_reviewed_at": now,
	}
	if notes != nil {
		updates["attendance_record_notes"] = *notes
	}
	if err := s.DB.Model(record).Updates(updates).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal menolak record")
	}
	return record, nil
}

func (s *AttendanceService) findReviewableRecord(recordID uuid.UUID) (*model.AttendanceRecordModel, error) {
	var record model.AttendanceRecordModel
	if err := s.DB.Where("attendance_record_id = ?", recordID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Record kehadiran tidak ditemukan")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil record")
	}
	if !record.NeedsReview() {
		return nil, fiber.NewError(fiber.StatusConflict, "Record tidak butuh review")
	}
	return &record, nil
}

// ================== SESI ==================

func (s *AttendanceService) CreateSession(req *dto.CreateAttendanceSessionRequest) (*model.AttendanceSessionModel, error) {
	if !req.AttendanceSessionEndTime.After(req.AttendanceSessionStartTime) {
		return nil, fiber.NewError(fiber.StatusUnprocessableEntity, "Waktu selesai harus setelah waktu mulai")
	}
	if req.AttendanceSessionDeadline.Before(req.AttendanceSessionEndTime) {
		return nil, fiber.NewError(fiber.StatusUnprocessableEntity, "Deadline tidak boleh sebelum waktu selesai")
	}

	var courseCount int64
	if err := s.DB.Model(&enrollmentModel.CourseModel{}).
		Where("course_id = ?", req.AttendanceSessionCourseID).
		Count(&courseCount).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal memeriksa course")
	}
	if courseCount == 0 {
		return nil, fiber.NewError(fiber.StatusNotFound, "Course tidak ditemukan")
	}

	session := model.AttendanceSessionModel{
		AttendanceSessionCourseID:  req.AttendanceSessionCourseID,
		AttendanceSessionName:      req.AttendanceSessionName,
		AttendanceSessionStatus:    model.AttendanceSessionStatusOpen,
		AttendanceSessionStartTime: req.AttendanceSessionStartTime,
		AttendanceSessionEndTime:   req.AttendanceSessionEndTime,
		AttendanceSessionDeadline:  req.AttendanceSessionDeadline,
	}
	if err := s.DB.Create(&session).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal membuat sesi kehadiran")
	}
	return &session, nil
}

func (s *AttendanceService) OpenSession(sessionID uuid.UUID) error {
	return s.setSessionStatus(sessionID, model.AttendanceSessionStatusOpen)
}

func (s *AttendanceService) CloseSession(sessionID uuid.UUID) error {
	return s.setSessionStatus(sessionID, model.AttendanceSessionStatusClosed)
}

func (s *AttendanceService) setSessionStatus(sessionID uuid.UUID, status string) error {
	res := s.DB.Model(&model.AttendanceSessionModel{}).
		Where("attendance_session_id = ?", sessionID).
		Update("attendance_session_status", status)
	if res.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal update status sesi")
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Sesi kehadiran tidak ditemukan")
	}
	return nil
}

// SessionSummary merekap kehadiran satu sesi per status.
func (s *AttendanceService) SessionSummary(sessionID uuid.UUID) (*dto.SessionSummaryResult, error) {
	var session model.AttendanceSessionModel
	if err := s.DB.Where("attendance_session_id = ?", sessionID).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Sesi kehadiran tidak ditemukan")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil sesi")
	}

	type statusCount struct {
		Status string `gorm:"column:attendance_record_status"`
		Count  int64  `gorm:"column:count"`
	}
	var rows []statusCount
	if err := s.DB.Model(&model.AttendanceRecordModel{}).
		Select("attendance_record_status, COUNT(*) AS count").
		Where("attendance_record_session_id = ?", sessionID).
		Group("attendance_record_status").
		Scan(&rows).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal merekap kehadiran")
	}

	summary := dto.SessionSummaryResult{}
	for _, row := range rows {
		summary.Total += row.Count
		switch row.Status {
		case model.AttendanceStatusPresent:
			summary.Present = row.Count
		case model.AttendanceStatusAbsent:
			summary.Absent = row.Count
		case model.AttendanceStatusSick:
			summary.Sick = row.Count
		case model.AttendanceStatusPermission:
			summary.Permission = row.Count
		case model.AttendanceStatusPending:
			summary.Pending = row.Count
		}
	}
	if summary.Total > 0 {
		summary.Percentage = helper.RatioOrFullCredit(summary.Present, summary.Total)
	}
	return &summary, nil
}
