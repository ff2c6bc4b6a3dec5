package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	enrollmentModel "sekolahku_backend/internals/features/school/enrollments/model"
	"sekolahku_backend/internals/features/school/grading/dto"
	"sekolahku_backend/internals/features/school/grading/model"
	helper "sekolahku_backend/internals/helpers"
)

type GradingService struct {
	DB *gorm.DB
}

func NewGradingService(db *gorm.DB) *GradingService {
	return &GradingService{DB: db}
}

// InputGradeOptions adalah opsi per input nilai (override max_score, catatan,
// siapa yang menilai).
type InputGradeOptions struct {
	MaxScore *float64
	Notes    *string
	GradedBy *uuid.UUID
}

// ================== GRADE COMPONENTS ==================

// CreateGradeComponent membuat komponen nilai baru untuk course.
// Menolak kalau bobot ≤ 0 atau jumlah bobot komponen aktif bakal
// melewati 100; state tidak berubah saat ditolak.
func (s *GradingService) CreateGradeComponent(req *dto.CreateGradeComponentRequest) (*model.GradeComponentModel, error) {
	if req.GradeComponentWeight <= 0 {
		return nil, fiber.NewError(fiber.StatusUnprocessableEntity, "Bobot komponen harus lebih dari 0.")
	}

	existingWeight, err := s.activeWeightSum(s.DB, req.GradeComponentCourseID)
	if err != nil {
		return nil, err
	}

	if existingWeight+req.GradeComponentWeight > 100 {
		return nil, fiber.NewError(
			fiber.StatusUnprocessableEntity,
			fmt.Sprintf("Total bobot melebihi 100%%. Sisa bobot yang tersedia: %.2f%%", 100-existingWeight),
		)
	}

	maxScore := 100.0
	if req.GradeComponentMaxScore != nil {
		maxScore = *req.GradeComponentMaxScore
	}
	isActive := true
	if req.GradeComponentIsActive != nil {
		isActive = *req.GradeComponentIsActive
	}

	component := model.GradeComponentModel{
		GradeComponentCourseID:    req.GradeComponentCourseID,
		GradeComponentName:        req.GradeComponentName,
		GradeComponentDescription: req.GradeComponentDescription,
		GradeComponentWeight:      req.GradeComponentWeight,
		GradeComponentMaxScore:    maxScore,
		GradeComponentIsActive:    isActive,
	}
	if err := s.DB.Create(&component).Error; err != nil {
		log.Printf("[GradingService] create component err: %v", err)
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal membuat komponen nilai")
	}
	return &component, nil
}

// ValidateTotalWeight mengecek kesiapan bobot komponen aktif sebuah course.
// Total < 100 bukan error — hanya dilaporkan belum lengkap (is_valid=false).
func (s *GradingService) ValidateTotalWeight(courseID uuid.UUID) (*dto.WeightValidationResult, error) {
	var components []model.GradeComponentModel
	if err := s.DB.
		Where("grade_component_course_id = ? AND grade_component_is_active = ?", courseID, true).
		Order("grade_component_created_at ASC").
		Find(&components).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil komponen nilai")
	}

	var total float64
	for _, c := range components {
		total += c.GradeComponentWeight
	}
	total = helper.Round2(total)

	return &dto.WeightValidationResult{
		TotalWeight:     total,
		IsValid:         total == 100,
		RemainingWeight: helper.Round2(100 - total),
		Components:      components,
	}, nil
}

// UpdateGradeComponent mengubah sebagian field komponen. Invariant
// Σ bobot aktif ≤ 100 dicek setiap kali update mengubah bobot ATAU
// mengaktifkan kembali komponen nonaktif — re-aktivasi dihitung dengan
// bobot (baru) komponen ini, jadi slot bobot yang sudah terisi komponen
// lain tidak bisa direbut diam-diam.
func (s *GradingService) UpdateGradeComponent(componentID uuid.UUID, req *dto.UpdateGradeComponentRequest) (*model.GradeComponentModel, error) {
	var component model.GradeComponentModel
	if err := s.DB.Where("grade_component_id = ?", componentID).First(&component).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Komponen nilai tidak ditemukan")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil komponen nilai")
	}

	if req.GradeComponentWeight != nil && *req.GradeComponentWeight <= 0 {
		return nil, fiber.NewError(fiber.StatusUnprocessableEntity, "Bobot komponen harus lebih dari 0.")
	}

	newWeight := component.GradeComponentWeight
	if req.GradeComponentWeight != nil {
		newWeight = *req.GradeComponentWeight
	}
	newActive := component.GradeComponentIsActive
	if req.GradeComponentIsActive != nil {
		newActive = *req.GradeComponentIsActive
	}

	weightChanged := newWeight != component.GradeComponentWeight
	reactivated := newActive && !component.GradeComponentIsActive
	if newActive && (weightChanged || reactivated) {
		var otherWeight float64
		if err := s.DB.Model(&model.GradeComponentModel{}).
			Where("grade_component_course_id = ? AND grade_component_is_active = ? AND grade_component_id <> ?",
				component.GradeComponentCourseID, true, component.GradeComponentID).
			Select("COALESCE(SUM(grade_component_weight), 0)").
			Scan(&otherWeight).Error; err != nil {
			return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal menghitung total bobot")
		}
		if otherWeight+newWeight > 100 {
			return nil, fiber.NewError(
				fiber.StatusUnprocessableEntity,
				fmt.Sprintf("Total bobot melebihi 100%%. Sisa bobot yang tersedia: %.2f%%", 100-otherWeight),
			)
		}
	}

	updates := map[string]interface{}{}
	if req.GradeComponentName != nil {
		updates["grade_component_name"] = *req.GradeComponentName
	}
	if req.GradeComponentDescription != nil {
		updates["grade_component_description"] = *req.GradeComponentDescription
	}
	if req.GradeComponentMaxScore != nil {
		updates["grade_component_max_score"] = *req.GradeComponentMaxScore
	}
	if req.GradeComponentWeight != nil {
		updates["grade_component_weight"] = newWeight
	}
	if req.GradeComponentIsActive != nil {
		updates["grade_component_is_active"] = newActive
	}
	if len(updates) == 0 {
		return &component, nil
	}

	if err := s.DB.Model(&component).Updates(updates).Error; err != nil {
		log.Printf("[GradingService] update component err: %v", err)
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal update komponen nilai")
	}
	return &component, nil
}

func (s *GradingService) activeWeightSum(db *gorm.DB, courseID uuid.UUID) (float64, error) {
	var total float64
	err := db.Model(&model.GradeComponentModel{}).
		Where("grade_component_course_id = ? AND grade_component_is_active = ?", courseID, true).
		Select("COALESCE(SUM(grade_component_weight), 0)").
		Scan(&total).Error
	if err != nil {
		log.Printf("[GradingService] sum weight err: %v", err)
		return 0, fiber.NewError(fiber.StatusInternalServerError, "Gagal menghitung total bobot")
	}
	return total, nil
}

// ================== INPUT GRADES ==================

// InputGrade meng-upsert nilai satu siswa untuk satu komponen.
// Pasangan (enrollment, component) unik; input ulang mengoreksi skor
// tanpa membuat baris baru.
func (s *GradingService) InputGrade(studentID, componentID uuid.UUID, score float64, opts InputGradeOptions) (*model.GradeModel, error) {
	var grade *model.GradeModel
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		g, err := s.inputGradeTx(tx, studentID, componentID, score, opts)
		if err != nil {
			return err
		}
		grade = g
		return nil
	})
	if err != nil {
		return nil, err
	}
	return grade, nil
}

// BulkInputGrades menerapkan InputGrade untuk tiap entri dalam SATU transaksi:
// satu entri gagal berarti seluruh batch di-rollback (all-or-nothing).
func (s *GradingService) BulkInputGrades(entries []dto.InputGradeRequest, gradedBy *uuid.UUID) ([]model.GradeModel, error) {
	results := make([]model.GradeModel, 0, len(entries))
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		for _, entry := range entries {
			g, err := s.inputGradeTx(tx, entry.GradeStudentID, entry.GradeComponentID, entry.GradeScore, InputGradeOptions{
				MaxScore: entry.GradeMaxScore,
				Notes:    entry.GradeNotes,
				GradedBy: gradedBy,
			})
			if err != nil {
				return err
			}
			results = append(results, *g)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (s *GradingService) inputGradeTx(tx *gorm.DB, studentID, componentID uuid.UUID, score float64, opts InputGradeOptions) (*model.GradeModel, error) {
	var component model.GradeComponentModel
	if err := tx.Where("grade_component_id = ?", componentID).First(&component).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Komponen nilai tidak ditemukan")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil komponen nilai")
	}

	// Validasi siswa terdaftar di course komponen ini
	var enrollment enrollmentModel.EnrollmentModel
	if err := tx.
		Where("enrollment_student_id = ? AND enrollment_course_id = ?", studentID, component.GradeComponentCourseID).
		First(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusUnprocessableEntity, "Siswa tidak terdaftar di course ini.")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil data enrollment")
	}

	maxScore := component.GradeComponentMaxScore
	if opts.MaxScore != nil {
		maxScore = *opts.MaxScore
	}
	if score < 0 {
		return nil, fiber.NewError(fiber.StatusUnprocessableEntity, "Nilai tidak boleh negatif.")
	}
	if score > maxScore {
		return nil, fiber.NewError(
			fiber.StatusUnprocessableEntity,
			fmt.Sprintf("Nilai tidak boleh melebihi nilai maksimal (%.2f).", maxScore),
		)
	}

	now := time.Now()
	grade := model.GradeModel{
		GradeEnrollmentID: enrollment.EnrollmentID,
		GradeComponentID:  componentID,
		GradeScore:        score,
		GradeMaxScore:     maxScore,
		GradeNotes:        opts.Notes,
		GradedBy:          opts.GradedBy,
		GradedAt:          &now,
	}

	// Upsert atomik pada unique key (enrollment, component) — aman terhadap
	// dua instructor yang menilai bersamaan. graded_at dipertahankan kalau
	// sudah pernah diisi.
	if err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "grade_enrollment_id"}, {Name: "grade_component_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"grade_score":      score,
			"grade_max_score":  maxScore,
			"grade_notes":      opts.Notes,
			"graded_by":        opts.GradedBy,
			"graded_at":        gorm.Expr("COALESCE(grades.graded_at, excluded.graded_at)"),
			"grade_updated_at": now,
		}),
	}).Create(&grade).Error; err != nil {
		log.Printf("[GradingService] upsert grade err: %v", err)
		return nil, fiber.NewError(fiber.StatusConflict, "Gagal menyimpan nilai")
	}

	// Ambil ulang baris final (ID lama dipertahankan saat conflict-update)
	var saved model.GradeModel
	if err := tx.
		Where("grade_enrollment_id = ? AND grade_component_id = ?", enrollment.EnrollmentID, componentID).
		First(&saved).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal membaca nilai tersimpan")
	}
	return &saved, nil
}

// ================== FINAL GRADE ==================

// CalculateFinalGrade menghitung nilai akhir berbobot satu enrollment.
//
// Aturan kanonik: final = Σ(percentage_i × weight_i) / Σ(weight seluruh
// komponen aktif). Komponen yang belum dinilai menyumbang 0 ke pembilang
// tapi bobotnya TETAP ikut di penyebut. Pure read — tidak menulis apa pun;
// memanggil dua kali tanpa write di antaranya menghasilkan hasil identik.
func (s *GradingService) CalculateFinalGrade(enrollmentID uuid.UUID) (*dto.FinalGradeResult, error) {
	var enrollment enrollmentModel.EnrollmentModel
	if err := s.DB.Where("enrollment_id = ?", enrollmentID).First(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Enrollment tidak ditemukan")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil enrollment")
	}
	return s.calculateForEnrollment(&enrollment)
}

// CalculateFinalGradeForStudent adalah varian yang me-resolve enrollment
// dari pasangan (student, course) dulu.
func (s *GradingService) CalculateFinalGradeForStudent(studentID, courseID uuid.UUID) (*dto.FinalGradeResult, error) {
	var enrollment enrollmentModel.EnrollmentModel
	if err := s.DB.
		Where("enrollment_student_id = ? AND enrollment_course_id = ?", studentID, courseID).
		First(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Siswa tidak terdaftar di course ini.")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil enrollment")
	}
	return s.calculateForEnrollment(&enrollment)
}

func (s *GradingService) calculateForEnrollment(enrollment *enrollmentModel.EnrollmentModel) (*dto.FinalGradeResult, error) {
	var components []model.GradeComponentModel
	if err := s.DB.
		Where("grade_component_course_id = ? AND grade_component_is_active = ?", enrollment.EnrollmentCourseID, true).
		Order("grade_component_created_at ASC").
		Find(&components).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil komponen nilai")
	}

	result := dto.FinalGradeResult{
		EnrollmentID: enrollment.EnrollmentID,
		StudentID:    enrollment.EnrollmentStudentID,
		CourseID:     enrollment.EnrollmentCourseID,
		Details:      make([]dto.ComponentBreakdown, 0, len(components)),
	}

	// Kondisi kosong-tapi-valid (course baru, belum ada komponen) bukan error
	if len(components) == 0 {
		result.FinalGradeLetter = DetermineGradeLetter(0)
		return &result, nil
	}

	componentIDs := make([]uuid.UUID, 0, len(components))
	for _, c := range components {
		componentIDs = append(componentIDs, c.GradeComponentID)
	}

	var grades []model.GradeModel
	if err := s.DB.
		Where("grade_enrollment_id = ? AND grade_component_id IN ?", enrollment.EnrollmentID, componentIDs).
		Find(&grades).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil nilai")
	}
	gradeByComponent := make(map[uuid.UUID]*model.GradeModel, len(grades))
	for i := range grades {
		gradeByComponent[grades[i].GradeComponentID] = &grades[i]
	}

	var totalWeight, weightedSum float64
	for _, component := range components {
		totalWeight += component.GradeComponentWeight

		detail := dto.ComponentBreakdown{
			ComponentID:   component.GradeComponentID,
			ComponentName: component.GradeComponentName,
			MaxScore:      component.GradeComponentMaxScore,
			Weight:        component.GradeComponentWeight,
		}

		if grade, ok := gradeByComponent[component.GradeComponentID]; ok {
			percentage := grade.Percentage()
			weighted := percentage * component.GradeComponentWeight / 100
			weightedSum += percentage * component.GradeComponentWeight

			letter := DetermineGradeLetter(percentage)
			score := grade.GradeScore
			detail.Score = &score
			detail.MaxScore = grade.GradeMaxScore
			detail.Percentage = &percentage
			detail.WeightedScore = helper.Round2(weighted)
			detail.GradeLetter = &letter
			detail.IsGraded = true
		}
		// Komponen belum dinilai: kontribusi 0, bobot tetap di penyebut

		result.Details = append(result.Details, detail)
	}

	finalScore := 0.0
	if totalWeight > 0 {
		finalScore = helper.Round2(weightedSum / totalWeight)
	}

	result.FinalScore = finalScore
	result.FinalGradeLetter = DetermineGradeLetter(finalScore)
	result.TotalWeight = helper.Round2(totalWeight)
	result.IsComplete = totalWeight >= 100

	return &result, nil
}

// ================== REKAP & STATISTIK ==================

// GetStudentGrades mengambil semua nilai mentah siswa di satu course.
func (s *GradingService) GetStudentGrades(studentID, courseID uuid.UUID) ([]model.GradeModel, error) {
	var enrollment enrollmentModel.EnrollmentModel
	if err := s.DB.
		Where("enrollment_student_id = ? AND enrollment_course_id = ?", studentID, courseID).
		First(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Siswa tidak terdaftar di course ini.")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil enrollment")
	}

	var grades []model.GradeModel
	if err := s.DB.
		Where("grade_enrollment_id = ?", enrollment.EnrollmentID).
		Order("graded_at ASC").
		Find(&grades).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil nilai")
	}
	return grades, nil
}

// GetCourseGradesSummary menghitung nilai akhir SEMUA enrollment di course.
func (s *GradingService) GetCourseGradesSummary(courseID uuid.UUID) ([]dto.StudentFinalGrade, error) {
	type enrolledStudent struct {
		enrollmentModel.EnrollmentModel
		StudentFullName string `gorm:"column:student_full_name"`
		StudentEmail    string `gorm:"column:student_email"`
		StudentNumber   string `gorm:"column:student_number"`
	}

	var rows []enrolledStudent
	if err := s.DB.Model(&enrollmentModel.EnrollmentModel{}).
		Select("enrollments.*, students.student_full_name, students.student_email, students.student_number").
		Joins("JOIN students ON students.student_id = enrollments.enrollment_student_id").
		Where("enrollments.enrollment_course_id = ?", courseID).
		Order("students.student_number ASC").
		Scan(&rows).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil daftar siswa")
	}

	summary := make([]dto.StudentFinalGrade, 0, len(rows))
	for i := range rows {
		finalGrade, err := s.calculateForEnrollment(&rows[i].EnrollmentModel)
		if err != nil {
			return nil, err
		}
		summary = append(summary, dto.StudentFinalGrade{
			FinalGradeResult: *finalGrade,
			StudentName:      rows[i].StudentFullName,
			StudentEmail:     rows[i].StudentEmail,
			StudentNumber:    rows[i].StudentNumber,
		})
	}
	return summary, nil
}

// GetCourseStatistics merekap statistik nilai course: hanya hasil yang
// "complete" (total bobot ≥ 100) yang dihitung. Course tanpa hasil complete
// melaporkan statistik nol, bukan error.
func (s *GradingService) GetCourseStatistics(courseID uuid.UUID) (*dto.CourseStatisticsResult, error) {
	summary, err := s.GetCourseGradesSummary(courseID)
	if err != nil {
		return nil, err
	}

	distribution := make(map[string]int, len(GradeLetters))
	for _, letter := range GradeLetters {
		distribution[letter] = 0
	}

	stats := dto.CourseStatisticsResult{
		TotalStudents:     len(summary),
		GradeDistribution: distribution,
	}

	var completed []float64
	for _, s := range summary {
		if !s.IsComplete {
			continue
		}
		completed = append(completed, s.FinalScore)
		distribution[s.FinalGradeLetter]++
	}

	if len(completed) == 0 {
		return &stats, nil
	}

	var sum float64
	highest, lowest := completed[0], completed[0]
	for _, score := range completed {
		sum += score
		if score > highest {
			highest = score
		}
		if score < lowest {
			lowest = score
		}
	}

	stats.CompletedGrades = len(completed)
	stats.AverageScore = helper.Round2(sum / float64(len(completed)))
	stats.HighestScore = highest
	stats.LowestScore = lowest
	return &stats, nil
}
