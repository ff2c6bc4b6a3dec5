package scheduler

import (
	"log"
	"time"

	"gorm.io/gorm"

	attendanceModel "sekolahku_backend/internals/features/school/attendance/model"
	attendanceService "sekolahku_backend/internals/features/school/attendance/service"
)

// Interval sweep sesi kadaluarsa. Cukup longgar — sweep idempotent,
// jadi tidak masalah kalau dua tick memproses sesi yang sama.
const sweepInterval = 5 * time.Minute

// StartAutoMarkAbsentScheduler menjalankan goroutine yang menyapu sesi
// open yang sudah lewat deadline lalu menandai siswa tanpa record
// sebagai absent dan menutup sesinya.
func StartAutoMarkAbsentScheduler(db *gorm.DB) {
	svc := attendanceService.NewAttendanceService(db)

	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()

		for range ticker.C {
			sweepExpiredSessions(db, svc)
		}
	}()

	log.Println("[Scheduler] Auto-mark-absent berjalan tiap", sweepInterval)
}

func sweepExpiredSessions(db *gorm.DB, svc *attendanceService.AttendanceService) {
	var sessions []attendanceModel.AttendanceSessionModel
	if err := db.
		Where("attendance_session_status = ? AND attendance_session_deadline <= ?",
			attendanceModel.AttendanceSessionStatusOpen, time.Now()).
		Find(&sessions).Error; err != nil {
		log.Printf("[Scheduler] gagal mengambil sesi kadaluarsa: %v", err)
		return
	}

	for _, session := range sessions {
		marked, err := svc.AutoMarkAbsent(session.AttendanceSessionID)
		if err != nil {
			log.Printf("[Scheduler] sweep sesi %s gagal: %v", session.AttendanceSessionID, err)
			continue
		}
		if err := svc.CloseSession(session.AttendanceSessionID); err != nil {
			log.Printf("[Scheduler] gagal menutup sesi %s: %v", session.AttendanceSessionID, err)
			continue
		}
		if marked > 0 {
			log.Printf("[Scheduler] sesi %s: %d siswa ditandai absent", session.AttendanceSessionID, marked)
		}
	}
}
