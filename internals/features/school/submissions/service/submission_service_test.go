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

	enrollmentModel "sekolahku_backend/internals/features/school/enrollments/model"
	"sekolahku_backend/internals/features/school/submissions/dto"
	"sekolahku_backend/internals/features/school/submissions/model"
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
		&model.AssignmentModel{},
		&model.SubmissionModel{},
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

func seedAssignment(t *testing.T, db *gorm.DB, courseID uuid.UUID, title, status string, dueDate time.Time) model.AssignmentModel {
	t.Helper()
	assignment := model.AssignmentModel{
		AssignmentCourseID: courseID,
		AssignmentTitle:    title,
		AssignmentStatus:   status,
		AssignmentDueDate:  dueDate,
		AssignmentMaxScore: 100,
	}
	require.NoError(t, db.Create(&assignment).Error)
	return assignment
}

func fiberCode(t *testing.T, err error) int {
	t.Helper()
	fe, ok := err.(*fiber.Error)
	require.True(t, ok, "expected *fiber.Error, got %T: %v", err, err)
	return fe.Code
}

func TestCompletionRateNoPublishedAssignments(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSubmissionService(db)
	f := seedEnrollment(t, db, "3001")

	// draft tidak masuk hitungan — tanpa assignment published = kredit penuh
	seedAssignment(t, db, f.course.CourseID, "Draft", model.AssignmentStatusDraft, time.Now().Add(time.Hour))

	result, err := svc.AssignmentCompletionRate(f.enrollment.EnrollmentID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, result.TotalAssignments)
	assert.Equal(t, 100.0, result.CompletionRate)
}

func TestCompletionRateCountsSubmissionRows(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSubmissionService(db)
	f := seedEnrollment(t, db, "3002")

	due := time.Now().Add(time.Hour)
	a1 := seedAssignment(t, db, f.course.CourseID, "Tugas 1", model.AssignmentStatusPublished, due)
	a2 := seedAssignment(t, db, f.course.CourseID, "Tugas 2", model.AssignmentStatusPublished, due)
	seedAssignment(t, db, f.course.CourseID, "Tugas 3", model.AssignmentStatusPublished, due)

	// satu tepat waktu, satu telat dan belum dinilai — dua-duanya dihitung selesai
	_, err := svc.SubmitAssignment(f.student.StudentID, &dto.SubmitAssignmentRequest{
		SubmissionAssignmentID: a1.AssignmentID,
	})
	require.NoError(t, err)

	late := model.SubmissionModel{
		SubmissionAssignmentID: a2.AssignmentID,
		SubmissionEnrollmentID: f.enrollment.EnrollmentID,
		SubmissionStatus:       model.SubmissionStatusLate,
		SubmissionIsLate:       true,
		SubmissionLateDays:     2,
	}
	require.NoError(t, db.Create(&late).Error)

	result, err := svc.AssignmentCompletionRate(f.enrollment.EnrollmentID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, result.TotalAssignments)
	assert.EqualValues(t, 2, result.SubmittedCount)
	assert.Equal(t, 66.67, result.CompletionRate)
}

func TestSubmitAssignmentOnTime(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSubmissionService(db)
	f := seedEnrollment(t, db, "3003")

	assignment := seedAssignment(t, db, f.course.CourseID, "Tugas 1",
		model.AssignmentStatusPublished, time.Now().Add(time.Hour))

	submission, err := svc.SubmitAssignment(f.student.StudentID, &dto.SubmitAssignmentRequest{
		SubmissionAssignmentID: assignment.AssignmentID,
	})
	require.NoError(t, err)
	assert.Equal(t, model.SubmissionStatusSubmitted, submission.SubmissionStatus)
	assert.False(t, submission.SubmissionIsLate)
	assert.Equal(t, 0, submission.SubmissionLateDays)
	require.NotNil(t, submission.SubmissionSubmittedAt)
}

func TestSubmitAssignmentLate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSubmissionService(db)
	f := seedEnrollment(t, db, "3004")

	// due date 30 jam lalu — telat dibulatkan ke atas jadi 2 hari
	assignment := seedAssignment(t, db, f.course.CourseID, "Tugas 1",
		model.AssignmentStatusPublished, time.Now().Add(-30*time.Hour))

	submission, err := svc.SubmitAssignment(f.student.StudentID, &dto.SubmitAssignmentRequest{
		SubmissionAssignmentID: assignment.AssignmentID,
	})
	require.NoError(t, err)
	assert.Equal(t, model.SubmissionStatusLate, submission.SubmissionStatus)
	assert.True(t, submission.SubmissionIsLate)
	assert.Equal(t, 2, submission.SubmissionLateDays)
}

func TestSubmitAssignmentGuards(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSubmissionService(db)
	f := seedEnrollment(t, db, "3005")

	draft := seedAssignment(t, db, f.course.CourseID, "Draft",
		model.AssignmentStatusDraft, time.Now().Add(time.Hour))

	// belum published
	_, err := svc.SubmitAssignment(f.student.StudentID, &dto.SubmitAssignmentRequest{
		SubmissionAssignmentID: draft.AssignmentID,
	})
	require.Error(t, err)
	assert.Equal(t, fiber.StatusConflict, fiberCode(t, err))

	// siswa luar course
	published := seedAssignment(t, db, f.course.CourseID, "Tugas 1",
		model.AssignmentStatusPublished, time.Now().Add(time.Hour))
	outsider := enrollmentModel.StudentModel{
		StudentFullName: "Bukan Peserta",
		StudentEmail:    "luar@sekolahku.id",
		StudentNumber:   "9999",
	}
	require.NoError(t, db.Create(&outsider).Error)
	_, err = svc.SubmitAssignment(outsider.StudentID, &dto.SubmitAssignmentRequest{
		SubmissionAssignmentID: published.AssignmentID,
	})
	require.Error(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, fiberCode(t, err))

	// pengumpulan ganda
	_, err = svc.SubmitAssignment(f.student.StudentID, &dto.SubmitAssignmentRequest{
		SubmissionAssignmentID: published.AssignmentID,
	})
	require.NoError(t, err)
	_, err = svc.SubmitAssignment(f.student.StudentID, &dto.SubmitAssignmentRequest{
		SubmissionAssignmentID: published.AssignmentID,
	})
	require.Error(t, err)
	assert.Equal(t, fiber.StatusConflict, fiberCode(t, err))

	// assignment tidak ada
	_, err = svc.SubmitAssignment(f.student.StudentID, &dto.SubmitAssignmentRequest{
		SubmissionAssignmentID: uuid.New(),
	})
	require.Error(t, err)
	assert.Equal(t, fiber.StatusNotFound, fiberCode(t, err))
}

func TestGradeSubmission(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSubmissionService(db)
	f := seedEnrollment(t, db, "3006")

	assignment := seedAssignment(t, db, f.course.CourseID, "Tugas 1",
		model.AssignmentStatusPublished, time.Now().Add(time.Hour))
	submission, err := svc.SubmitAssignment(f.student.StudentID, &dto.SubmitAssignmentRequest{
		SubmissionAssignmentID: assignment.AssignmentID,
	})
	require.NoError(t, err)

	grader := uuid.New()
	feedback := "Kerja bagus"
	_, err = svc.GradeSubmission(submission.SubmissionID, 85, &feedback, &grader)
	require.NoError(t, err)

	var saved model.SubmissionModel
	require.NoError(t, db.Where("submission_id = ?", submission.SubmissionID).First(&saved).Error)
	assert.Equal(t, model.SubmissionStatusGraded, saved.SubmissionStatus)
	require.NotNil(t, saved.SubmissionGrade)
	assert.Equal(t, 85.0, *saved.SubmissionGrade)
	assert.True(t, saved.IsGraded())

	// nilai di luar rentang ditolak
	_, err = svc.GradeSubmission(submission.SubmissionID, 120, nil, &grader)
	require.Error(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, fiberCode(t, err))
}

func TestGradeDraftSubmissionRejected(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSubmissionService(db)
	f := seedEnrollment(t, db, "3007")

	assignment := seedAssignment(t, db, f.course.CourseID, "Tugas 1",
		model.AssignmentStatusPublished, time.Now().Add(time.Hour))
	draft := model.SubmissionModel{
		SubmissionAssignmentID: assignment.AssignmentID,
		SubmissionEnrollmentID: f.enrollment.EnrollmentID,
		SubmissionStatus:       model.SubmissionStatusDraft,
	}
	require.NoError(t, db.Create(&draft).Error)

	_, err := svc.GradeSubmission(draft.SubmissionID, 80, nil, nil)
	require.Error(t, err)
	assert.Equal(t, fiber.StatusConflict, fiberCode(t, err))
}
