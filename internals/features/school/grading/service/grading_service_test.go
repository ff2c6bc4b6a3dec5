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
	"sekolahku_backend/internals/features/school/grading/dto"
	"sekolahku_backend/internals/features/school/grading/model"
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
		&model.GradeComponentModel{},
		&model.GradeModel{},
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

func addComponent(t *testing.T, svc *GradingService, courseID uuid.UUID, name string, weight float64) *model.GradeComponentModel {
	t.Helper()
	component, err := svc.CreateGradeComponent(&dto.CreateGradeComponentRequest{
		GradeComponentCourseID: courseID,
		GradeComponentName:     name,
		GradeComponentWeight:   weight,
	})
	require.NoError(t, err)
	return component
}

func fiberCode(t *testing.T, err error) int {
	t.Helper()
	fe, ok := err.(*fiber.Error)
	require.True(t, ok, "expected *fiber.Error, got %T: %v", err, err)
	return fe.Code
}

func TestCreateGradeComponentWeightInvariant(t *testing.T) {
	db := setupTestDB(t)
	svc := NewGradingService(db)
	f := seedEnrollment(t, db, "1001")

	addComponent(t, svc, f.course.CourseID, "UTS", 30)
	addComponent(t, svc, f.course.CourseID, "UAS", 40)
	addComponent(t, svc, f.course.CourseID, "Tugas", 30)

	// bobot sudah 100 — tambahan apapun ditolak dan state tidak berubah
	_, err := svc.CreateGradeComponent(&dto.CreateGradeComponentRequest{
		GradeComponentCourseID: f.course.CourseID,
		GradeComponentName:     "Kuis",
		GradeComponentWeight:   10,
	})
	require.Error(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, fiberCode(t, err))

	var count int64
	require.NoError(t, db.Model(&model.GradeComponentModel{}).Count(&count).Error)
	assert.EqualValues(t, 3, count)

	// bobot ≤ 0 juga ditolak
	_, err = svc.CreateGradeComponent(&dto.CreateGradeComponentRequest{
		GradeComponentCourseID: f.course.CourseID,
		GradeComponentName:     "Nol",
		GradeComponentWeight:   0,
	})
	require.Error(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, fiberCode(t, err))
}

func TestValidateTotalWeightIncomplete(t *testing.T) {
	db := setupTestDB(t)
	svc := NewGradingService(db)
	f := seedEnrollment(t, db, "1002")

	addComponent(t, svc, f.course.CourseID, "UTS", 30)
	addComponent(t, svc, f.course.CourseID, "UAS", 40)

	result, err := svc.ValidateTotalWeight(f.course.CourseID)
	require.NoError(t, err)
	assert.Equal(t, 70.0, result.TotalWeight)
	assert.False(t, result.IsValid)
	assert.Equal(t, 30.0, result.RemainingWeight)
	assert.Len(t, result.Components, 2)
}

func TestCalculateFinalGradeWeighted(t *testing.T) {
	db := setupTestDB(t)
	svc := NewGradingService(db)
	f := seedEnrollment(t, db, "1003")

	uts := addComponent(t, svc, f.course.CourseID, "UTS", 30)
	uas := addComponent(t, svc, f.course.CourseID, "UAS", 40)
	tugas := addComponent(t, svc, f.course.CourseID, "Tugas", 30)

	for componentID, score := range map[uuid.UUID]float64{
		uts.GradeComponentID:   80,
		uas.GradeComponentID:   90,
		tugas.GradeComponentID: 70,
	} {
		_, err := svc.InputGrade(f.student.StudentID, componentID, score, InputGradeOptions{})
		require.NoError(t, err)
	}

	result, err := svc.CalculateFinalGrade(f.enrollment.EnrollmentID)
	require.NoError(t, err)

	// 80*0.3 + 90*0.4 + 70*0.3 = 81.00
	assert.Equal(t, 81.0, result.FinalScore)
	assert.Equal(t, "B", result.FinalGradeLetter)
	assert.Equal(t, 100.0, result.TotalWeight)
	assert.True(t, result.IsComplete)
	require.Len(t, result.Details, 3)
	for _, d := range result.Details {
		assert.True(t, d.IsGraded)
	}
}

func TestCalculateFinalGradeUngradedComponent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewGradingService(db)
	f := seedEnrollment(t, db, "1004")

	uts := addComponent(t, svc, f.course.CourseID, "UTS", 30)
	uas := addComponent(t, svc, f.course.CourseID, "UAS", 40)
	addComponent(t, svc, f.course.CourseID, "Tugas", 30)

	_, err := svc.InputGrade(f.student.StudentID, uts.GradeComponentID, 80, InputGradeOptions{})
	require.NoError(t, err)
	_, err = svc.InputGrade(f.student.StudentID, uas.GradeComponentID, 90, InputGradeOptions{})
	require.NoError(t, err)

	result, err := svc.CalculateFinalGrade(f.enrollment.EnrollmentID)
	require.NoError(t, err)

	// Tugas belum dinilai: kontribusi 0, bobotnya tetap di penyebut.
	// (80*30 + 90*40 + 0*30) / 100 = 60.00
	assert.Equal(t, 60.0, result.FinalScore)
	assert.Equal(t, "D", result.FinalGradeLetter)
	assert.True(t, result.IsComplete)

	var ungraded int
	for _, d := range result.Details {
		if !d.IsGraded {
			ungraded++
			assert.Equal(t, "Tugas", d.ComponentName)
			assert.Nil(t, d.Score)
			assert.Zero(t, d.WeightedScore)
		}
	}
	assert.Equal(t, 1, ungraded)
}

func TestCalculateFinalGradeIdempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewGradingService(db)
	f := seedEnrollment(t, db, "1005")

	uts := addComponent(t, svc, f.course.CourseID, "UTS", 50)
	_, err := svc.InputGrade(f.student.StudentID, uts.GradeComponentID, 85, InputGradeOptions{})
	require.NoError(t, err)

	first, err := svc.CalculateFinalGrade(f.enrollment.EnrollmentID)
	require.NoError(t, err)
	second, err := svc.CalculateFinalGrade(f.enrollment.EnrollmentID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCalculateFinalGradeEmptyCourse(t *testing.T) {
	db := setupTestDB(t)
	svc := NewGradingService(db)
	f := seedEnrollment(t, db, "1006")

	// Course baru tanpa komponen: hasil nol yang deterministik, bukan error
	result, err := svc.CalculateFinalGrade(f.enrollment.EnrollmentID)
	require.NoError(t, err)
	assert.Zero(t, result.FinalScore)
	assert.Equal(t, "F", result.FinalGradeLetter)
	assert.False(t, result.IsComplete)
	assert.Empty(t, result.Details)
}

func TestInputGradeUpsert(t *testing.T) {
	db := setupTestDB(t)
	svc := NewGradingService(db)
	f := seedEnrollment(t, db, "1007")

	uts := addComponent(t, svc, f.course.CourseID, "UTS", 100)

	first, err := svc.InputGrade(f.student.StudentID, uts.GradeComponentID, 75, InputGradeOptions{})
	require.NoError(t, err)
	require.NotNil(t, first.GradedAt)

	// koreksi nilai: baris yang sama di-update, bukan duplikat
	second, err := svc.InputGrade(f.student.StudentID, uts.GradeComponentID, 88, InputGradeOptions{})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&model.GradeModel{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
	assert.Equal(t, 88.0, second.GradeScore)

	// graded_at pertama dipertahankan saat koreksi
	require.NotNil(t, second.GradedAt)
	assert.WithinDuration(t, *first.GradedAt, *second.GradedAt, time.Second)
}

func TestInputGradeValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewGradingService(db)
	f := seedEnrollment(t, db, "1008")

	uts := addComponent(t, svc, f.course.CourseID, "UTS", 100)

	// skor melebihi max_score
	_, err := svc.InputGrade(f.student.StudentID, uts.GradeComponentID, 120, InputGradeOptions{})
	require.Error(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, fiberCode(t, err))

	// override max_score per input mengizinkan skor di atas default
	override := 150.0
	grade, err := svc.InputGrade(f.student.StudentID, uts.GradeComponentID, 120, InputGradeOptions{MaxScore: &override})
	require.NoError(t, err)
	assert.Equal(t, 150.0, grade.GradeMaxScore)

	// siswa yang tidak terdaftar ditolak
	outsider := seedEnrollment(t, db, "1009")
	_, err = svc.InputGrade(outsider.student.StudentID, uts.GradeComponentID, 50, InputGradeOptions{})
	require.Error(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, fiberCode(t, err))

	// komponen tidak dikenal
	_, err = svc.InputGrade(f.student.StudentID, uuid.New(), 50, InputGradeOptions{})
	require.Error(t, err)
	assert.Equal(t, fiber.StatusNotFound, fiberCode(t, err))
}

func TestBulkInputGradesRollback(t *testing.T) {
	db := setupTestDB(t)
	svc := NewGradingService(db)
	f := seedEnrollment(t, db, "1010")

	uts := addComponent(t, svc, f.course.CourseID, "UTS", 30)
	uas := addComponent(t, svc, f.course.CourseID, "UAS", 40)
	tugas := addComponent(t, svc, f.course.CourseID, "Tugas", 30)

	entries := []dto.InputGradeRequest{
		{GradeStudentID: f.student.StudentID, GradeComponentID: uts.GradeComponentID, GradeScore: 80},
		{GradeStudentID: f.student.StudentID, GradeComponentID: uas.GradeComponentID, GradeScore: 90},
		{GradeStudentID: f.student.StudentID, GradeComponentID: tugas.GradeComponentID, GradeScore: 150}, // invalid
	}

	_, err := svc.BulkInputGrades(entries, nil)
	require.Error(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, fiberCode(t, err))

	// rollback total: entri valid sebelum yang gagal pun tidak tersimpan
	var count int64
	require.NoError(t, db.Model(&model.GradeModel{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestBulkInputGradesSuccess(t *testing.T) {
	db := setupTestDB(t)
	svc := NewGradingService(db)
	f := seedEnrollment(t, db, "1011")

	uts := addComponent(t, svc, f.course.CourseID, "UTS", 50)
	uas := addComponent(t, svc, f.course.CourseID, "UAS", 50)

	results, err := svc.BulkInputGrades([]dto.InputGradeRequest{
		{GradeStudentID: f.student.StudentID, GradeComponentID: uts.GradeComponentID, GradeScore: 70},
		{GradeStudentID: f.student.StudentID, GradeComponentID: uas.GradeComponentID, GradeScore: 90},
	}, nil)
	require.NoError(t, err)
	assert.Len(t, results, 2)

	final, err := svc.CalculateFinalGrade(f.enrollment.EnrollmentID)
	require.NoError(t, err)
	assert.Equal(t, 80.0, final.FinalScore)
	assert.Equal(t, "B", final.FinalGradeLetter)
}

func TestUpdateGradeComponentReactivationKeepsWeightInvariant(t *testing.T) {
	db := setupTestDB(t)
	svc := NewGradingService(db)
	f := seedEnrollment(t, db, "1012")

	kuis := addComponent(t, svc, f.course.CourseID, "Kuis", 30)
	uas := addComponent(t, svc, f.course.CourseID, "UAS", 40)

	// nonaktifkan Kuis lalu isi slot bobotnya dengan komponen baru
	inactive := false
	_, err := svc.UpdateGradeComponent(kuis.GradeComponentID, &dto.UpdateGradeComponentRequest{
		GradeComponentIsActive: &inactive,
	})
	require.NoError(t, err)
	addComponent(t, svc, f.course.CourseID, "Tugas", 40)

	// re-aktivasi tanpa ubah bobot: total aktif bakal 110 — ditolak
	active := true
	_, err = svc.UpdateGradeComponent(kuis.GradeComponentID, &dto.UpdateGradeComponentRequest{
		GradeComponentIsActive: &active,
	})
	require.Error(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, fiberCode(t, err))

	// komponen harus tetap nonaktif setelah penolakan
	check, err := svc.ValidateTotalWeight(f.course.CourseID)
	require.NoError(t, err)
	assert.Equal(t, 80.0, check.TotalWeight)

	// re-aktivasi sambil mengecilkan bobot ke sisa yang tersedia — boleh
	smaller := 20.0
	_, err = svc.UpdateGradeComponent(kuis.GradeComponentID, &dto.UpdateGradeComponentRequest{
		GradeComponentWeight:   &smaller,
		GradeComponentIsActive: &active,
	})
	require.NoError(t, err)

	check, err = svc.ValidateTotalWeight(f.course.CourseID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, check.TotalWeight)
	assert.True(t, check.IsValid)

	// menaikkan bobot komponen aktif melewati sisa juga ditolak
	tooBig := 70.0
	_, err = svc.UpdateGradeComponent(uas.GradeComponentID, &dto.UpdateGradeComponentRequest{
		GradeComponentWeight: &tooBig,
	})
	require.Error(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, fiberCode(t, err))
}

func TestCourseStatistics(t *testing.T) {
	db := setupTestDB(t)
	svc := NewGradingService(db)

	// dua siswa di course yang sama, bobot lengkap
	a := seedEnrollment(t, db, "2001")
	uts := addComponent(t, svc, a.course.CourseID, "UTS", 100)

	b := enrollmentModel.StudentModel{
		StudentFullName: "Siswa 2002",
		StudentEmail:    "siswa2002@sekolahku.id",
		StudentNumber:   "2002",
	}
	require.NoError(t, db.Create(&b).Error)
	enrollB := enrollmentModel.EnrollmentModel{
		EnrollmentStudentID: b.StudentID,
		EnrollmentCourseID:  a.course.CourseID,
		EnrollmentDate:      time.Now(),
		EnrollmentStatus:    enrollmentModel.EnrollmentStatusActive,
	}
	require.NoError(t, db.Create(&enrollB).Error)

	_, err := svc.InputGrade(a.student.StudentID, uts.GradeComponentID, 95, InputGradeOptions{})
	require.NoError(t, err)
	_, err = svc.InputGrade(b.StudentID, uts.GradeComponentID, 55, InputGradeOptions{})
	require.NoError(t, err)

	stats, err := svc.GetCourseStatistics(a.course.CourseID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalStudents)
	assert.Equal(t, 2, stats.CompletedGrades)
	assert.Equal(t, 75.0, stats.AverageScore)
	assert.Equal(t, 95.0, stats.HighestScore)
	assert.Equal(t, 55.0, stats.LowestScore)
	assert.Equal(t, 1, stats.GradeDistribution["A"])
	assert.Equal(t, 1, stats.GradeDistribution["F"])
	assert.Equal(t, 0, stats.GradeDistribution["B"])
}

func TestCourseStatisticsNoCompleteResults(t *testing.T) {
	db := setupTestDB(t)
	svc := NewGradingService(db)
	f := seedEnrollment(t, db, "2003")

	// bobot cuma 40 — belum complete, statistik harus serba nol
	addComponent(t, svc, f.course.CourseID, "UTS", 40)

	stats, err := svc.GetCourseStatistics(f.course.CourseID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalStudents)
	assert.Zero(t, stats.CompletedGrades)
	assert.Zero(t, stats.AverageScore)
	assert.Zero(t, stats.HighestScore)
	assert.Zero(t, stats.LowestScore)
	for _, letter := range GradeLetters {
		assert.Zero(t, stats.GradeDistribution[letter])
	}
}
