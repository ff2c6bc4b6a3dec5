package service

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"sekolahku_backend/internals/features/school/attendance/model"
	enrollmentModel "sekolahku_backend/internals/features/school/enrollments/model"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&enrollmentModel.CourseModel{},
		&enrollmentModel.StudentModel{},
		&enrollmentModel.EnrollmentModel{},
		&model.AttendanceSessionModel{},
		&model.AttendanceRecordModel{},
	))
	return db
}

type fixture struct {
	course     enrollmentModel.CourseModel
	student    enrollmentModel.StudentModel
	enrollment enrollmentModel.EnrollmentModel
}

func seedEnrollment(t *testing.T, db *gorm.DB, number string) fixture {
	t.Helper()
	f := fixture{
		course: enrollmentModel.CourseModel{
			CourseCode: "GO-" + number,
			CourseName: "Pemrograman Go " + number,
		},
		student: enrollmentModel.StudentModel{
			StudentFullName: "Siswa " + number,
			StudentEmail:    "siswa" + number + "@sekolahku.id",
			StudentNumber:   number,
		},
	}
	require.NoError(t, db.Create(&f.course).Error)
	require.NoError(t, db.Create(&f.student).Error)

	f.enrollment = enrollmentModel.EnrollmentModel{
		EnrollmentStudentID: f.student.StudentID,
		EnrollmentCourseID:  f.course.CourseID,
		EnrollmentDate:      time.Now(),
		EnrollmentStatus:    enrollmentModel.EnrollmentStatusActive,
	}
	require.NoError(t, db.Create(&f.enrollment).Error)
	return f
}

// seedStudent menambahkan siswa kedua dst di course yang sama
func seedStudent(t *testing.T, db *gorm.DB, courseID uuid.UUID, number string) enrollmentModel.EnrollmentModel {
	t.Helper()
	student := enrollmentModel.StudentModel{
		StudentFullName: "Siswa " + number,
		StudentEmail:    "siswa" + number + "@sekolahku.id",
		StudentNumber:   number,
	}
	require.NoError(t, db.Create(&student).Error)

	enrollment := enrollmentModel.EnrollmentModel{
		EnrollmentStudentID: student.StudentID,
		EnrollmentCourseID:  courseID,
		EnrollmentDate:      time.Now(),
		EnrollmentStatus:    enrollmentModel.EnrollmentStatusActive,
	}
	require.NoError(t, db.Create(&enrollment).Error)
	return enrollment
}

func seedSession(t *testing.T, db *gorm.DB, courseID uuid.UUID, name string, deadline time.Time) model.AttendanceSessionModel {
	t.Helper()
	session := model.AttendanceSessionModel{
		AttendanceSessionCourseID:  courseID,
		AttendanceSessionName:      name,
		AttendanceSessionStatus:    model.AttendanceSessionStatusOpen,
		AttendanceSessionStartTime: deadline.Add(-2 * time.Hour),
		AttendanceSessionEndTime:   deadline.Add(-time.Hour),
		AttendanceSessionDeadline:  deadline,
	}
	require.NoError(t, db.Create(&session).Error)
	return session
}

func seedRecord(t *testing.T, db *gorm.DB, enrollmentID, sessionID uuid.UUID, status string) model.AttendanceRecordModel {
	t.Helper()
	record := model.AttendanceRecordModel{
		AttendanceRecordEnrollmentID: enrollmentID,
		AttendanceRecordSessionID:    sessionID,
		AttendanceRecordStatus:       status,
	}
	require.NoError(t, db.Create(&record).Error)
	return record
}

func fiberCode(t *testing.T, err error) int {
	t.Helper()
	fe, ok := err.(*fiber.Error)
	require.True(t, ok, "expected *fiber.Error, got %T: %v", err, err)
	return fe.Code
}

func TestAttendancePercentageNoSessions(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAttendanceService(db)
	f := seedEnrollment(t, db, "2001")

	// course tanpa sesi = kredit penuh
	pct, err := svc.AttendancePercentage(f.enrollment.EnrollmentID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, pct)
}

func TestAttendancePercentageOnlyPresentCounts(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAttendanceService(db)
	f := seedEnrollment(t, db, "2002")

	past := time.Now().Add(-time.Hour)
	statuses := []string{
		model.AttendanceStatusPresent, model.AttendanceStatusPresent, model.AttendanceStatusPresent,
		model.AttendanceStatusPresent, model.AttendanceStatusPresent, model.AttendanceStatusPresent,
		model.AttendanceStatusPresent,
		model.AttendanceStatusSick,
		model.AttendanceStatusAbsent,
		model.AttendanceStatusAbsent,
	}
	for i, status := range statuses {
		session := seedSession(t, db, f.course.CourseID, "Pertemuan "+string(rune('A'+i)), past)
		seedRecord(t, db, f.enrollment.EnrollmentID, session.AttendanceSessionID, status)
	}

	// 7 present dari 10 sesi — sakit/izin tidak dihitung hadir
	pct, err := svc.AttendancePercentage(f.enrollment.EnrollmentID)
	require.NoError(t, err)
	assert.Equal(t, 70.0, pct)
}

func TestAttendancePercentageEnrollmentNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAttendanceService(db)

	_, err := svc.AttendancePercentage(uuid.New())
	require.Error(t, err)
	assert.Equal(t, fiber.StatusNotFound, fiberCode(t, err))
}

func TestAutoMarkAbsentBeforeDeadline(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAttendanceService(db)
	f := seedEnrollment(t, db, "2003")

	session := seedSession(t, db, f.course.CourseID, "Pertemuan 1", time.Now().Add(time.Hour))

	// deadline belum lewat — sweep tidak boleh menandai siapapun
	marked, err := svc.AutoMarkAbsent(session.AttendanceSessionID)
	require.NoError(t, err)
	assert.Equal(t, 0, marked)

	var count int64
	require.NoError(t, db.Model(&model.AttendanceRecordModel{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestAutoMarkAbsentSweep(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAttendanceService(db)
	f := seedEnrollment(t, db, "2004")
	e2 := seedStudent(t, db, f.course.CourseID, "2005")
	e3 := seedStudent(t, db, f.course.CourseID, "2006")
	e4 := seedStudent(t, db, f.course.CourseID, "2007")

	session := seedSession(t, db, f.course.CourseID, "Pertemuan 1", time.Now().Add(-time.Minute))

	// f: sudah hadir; e2: pending; e3 & e4: belum ada record
	seedRecord(t, db, f.enrollment.EnrollmentID, session.AttendanceSessionID, model.AttendanceStatusPresent)
	seedRecord(t, db, e2.EnrollmentID, session.AttendanceSessionID, model.AttendanceStatusPending)

	marked, err := svc.AutoMarkAbsent(session.AttendanceSessionID)
	require.NoError(t, err)
	assert.Equal(t, 3, marked)

	// present tidak tersentuh
	var presentRecord model.AttendanceRecordModel
	require.NoError(t, db.
		Where("attendance_record_enrollment_id = ?", f.enrollment.EnrollmentID).
		First(&presentRecord).Error)
	assert.Equal(t, model.AttendanceStatusPresent, presentRecord.AttendanceRecordStatus)

	// pending jadi absent
	var pendingRecord model.AttendanceRecordModel
	require.NoError(t, db.
		Where("attendance_record_enrollment_id = ?", e2.EnrollmentID).
		First(&pendingRecord).Error)
	assert.Equal(t, model.AttendanceStatusAbsent, pendingRecord.AttendanceRecordStatus)

	// yang tanpa record dapat record absent baru
	for _, enrollment := range []enrollmentModel.EnrollmentModel{e3, e4} {
		var record model.AttendanceRecordModel
		require.NoError(t, db.
			Where("attendance_record_enrollment_id = ?", enrollment.EnrollmentID).
			First(&record).Error)
		assert.Equal(t, model.AttendanceStatusAbsent, record.AttendanceRecordStatus)
	}
}

func TestAutoMarkAbsentIdempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAttendanceService(db)
	f := seedEnrollment(t, db, "2008")
	seedStudent(t, db, f.course.CourseID, "2009")

	session := seedSession(t, db, f.course.CourseID, "Pertemuan 1", time.Now().Add(-time.Minute))

	marked, err := svc.AutoMarkAbsent(session.AttendanceSessionID)
	require.NoError(t, err)
	assert.Equal(t, 2, marked)

	// sweep kedua tidak menandai ulang
	marked, err = svc.AutoMarkAbsent(session.AttendanceSessionID)
	require.NoError(t, err)
	assert.Equal(t, 0, marked)

	var count int64
	require.NoError(t, db.Model(&model.AttendanceRecordModel{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestAutoMarkAbsentSkipsInactiveEnrollments(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAttendanceService(db)
	f := seedEnrollment(t, db, "2010")
	dropped := seedStudent(t, db, f.course.CourseID, "2011")
	require.NoError(t, db.Model(&dropped).
		Update("enrollment_status", enrollmentModel.EnrollmentStatusDropped).Error)

	session := seedSession(t, db, f.course.CourseID, "Pertemuan 1", time.Now().Add(-time.Minute))

	marked, err := svc.AutoMarkAbsent(session.AttendanceSessionID)
	require.NoError(t, err)
	assert.Equal(t, 1, marked)

	var count int64
	require.NoError(t, db.Model(&model.AttendanceRecordModel{}).
		Where("attendance_record_enrollment_id = ?", dropped.EnrollmentID).
		Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestCheckIn(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAttendanceService(db)
	f := seedEnrollment(t, db, "2012")

	session := seedSession(t, db, f.course.CourseID, "Pertemuan 1", time.Now().Add(time.Hour))

	record, err := svc.CheckIn(session.AttendanceSessionID, f.student.StudentID)
	require.NoError(t, err)
	assert.Equal(t, model.AttendanceStatusPresent, record.AttendanceRecordStatus)

	// check-in ganda ditolak
	_, err = svc.CheckIn(session.AttendanceSessionID, f.student.StudentID)
	require.Error(t, err)
	assert.Equal(t, fiber.StatusConflict, fiberCode(t, err))
}

func TestCheckInAfterDeadline(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAttendanceService(db)
	f := seedEnrollment(t, db, "2013")

	session := seedSession(t, db, f.course.CourseID, "Pertemuan 1", time.Now().Add(-time.Minute))

	_, err := svc.CheckIn(session.AttendanceSessionID, f.student.StudentID)
	require.Error(t, err)
	assert.Equal(t, fiber.StatusConflict, fiberCode(t, err))
}

func TestCheckInNotEnrolled(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAttendanceService(db)
	f := seedEnrollment(t, db, "2014")

	outsider := enrollmentModel.StudentModel{
		StudentFullName: "Bukan Peserta",
		StudentEmail:    "luar@sekolahku.id",
		StudentNumber:   "9999",
	}
	require.NoError(t, db.Create(&outsider).Error)

	session := seedSession(t, db, f.course.CourseID, "Pertemuan 1", time.Now().Add(time.Hour))

	_, err := svc.CheckIn(session.AttendanceSessionID, outsider.StudentID)
	require.Error(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, fiberCode(t, err))
}

func TestSickLeaveReviewFlow(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAttendanceService(db)
	f := seedEnrollment(t, db, "2015")

	session := seedSession(t, db, f.course.CourseID, "Pertemuan 1", time.Now().Add(time.Hour))

	docURL := "https://files.sekolahku.id/surat-dokter.pdf"
	record, err := svc.RequestSickLeave(session.AttendanceSessionID, f.student.StudentID, docURL, nil)
	require.NoError(t, err)
	assert.Equal(t, model.AttendanceStatusSick, record.AttendanceRecordStatus)
	assert.True(t, record.NeedsReview())

	reviewer := uuid.New()
	approved, err := svc.ApproveRecord(record.AttendanceRecordID, reviewer, nil)
	require.NoError(t, err)

	var saved model.AttendanceRecordModel
	require.NoError(t, db.Where("attendance_record_id = ?", approved.AttendanceRecordID).First(&saved).Error)
	assert.Equal(t, model.AttendanceStatusSick, saved.AttendanceRecordStatus)
	require.NotNil(t, saved.AttendanceRecordReviewedBy)
	assert.Equal(t, reviewer, *saved.AttendanceRecordReviewedBy)
	assert.False(t, saved.NeedsReview())

	// record yang sudah direview tidak bisa direview lagi
	_, err = svc.ApproveRecord(record.AttendanceRecordID, reviewer, nil)
	require.Error(t, err)
	assert.Equal(t, fiber.StatusConflict, fiberCode(t, err))
}

func TestRejectPermissionBecomesAbsent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAttendanceService(db)
	f := seedEnrollment(t, db, "2016")

	session := seedSession(t, db, f.course.CourseID, "Pertemuan 1", time.Now().Add(time.Hour))

	record, err := svc.RequestPermission(session.AttendanceSessionID, f.student.StudentID,
		"https://files.sekolahku.id/surat-izin.pdf", nil)
	require.NoError(t, err)

	rejected, err := svc.RejectRecord(record.AttendanceRecordID, uuid.New(), nil)
	require.NoError(t, err)

	var saved model.AttendanceRecordModel
	require.NoError(t, db.Where("attendance_record_id = ?", rejected.AttendanceRecordID).First(&saved).Error)
	assert.Equal(t, model.AttendanceStatusAbsent, saved.AttendanceRecordStatus)
}

func TestSessionSummary(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAttendanceService(db)
	f := seedEnrollment(t, db, "2017")
	e2 := seedStudent(t, db, f.course.CourseID, "2018")
	e3 := seedStudent(t, db, f.course.CourseID, "2019")
	e4 := seedStudent(t, db, f.course.CourseID, "2020")

	session := seedSession(t, db, f.course.CourseID, "Pertemuan 1", time.Now().Add(time.Hour))
	seedRecord(t, db, f.enrollment.EnrollmentID, session.AttendanceSessionID, model.AttendanceStatusPresent)
	seedRecord(t, db, e2.EnrollmentID, session.AttendanceSessionID, model.AttendanceStatusPresent)
	seedRecord(t, db, e3.EnrollmentID, session.AttendanceSessionID, model.AttendanceStatusSick)
	seedRecord(t, db, e4.EnrollmentID, session.AttendanceSessionID, model.AttendanceStatusAbsent)

	summary, err := svc.SessionSummary(session.AttendanceSessionID)
	require.NoError(t, err)
	assert.EqualValues(t, 4, summary.Total)
	assert.EqualValues(t, 2, summary.Present)
	assert.EqualValues(t, 1, summary.Sick)
	assert.EqualValues(t, 1, summary.Absent)
	assert.Equal(t, 50.0, summary.Percentage)
}

func TestCloseSessionBlocksCheckIn(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAttendanceService(db)
	f := seedEnrollment(t, db, "2021")

	session := seedSession(t, db, f.course.CourseID, "Pertemuan 1", time.Now().Add(time.Hour))
	require.NoError(t, svc.CloseSession(session.AttendanceSessionID))

	_, err := svc.CheckIn(session.AttendanceSessionID, f.student.StudentID)
	require.Error(t, err)
	assert.Equal(t, fiber.StatusConflict, fiberCode(t, err))
}
