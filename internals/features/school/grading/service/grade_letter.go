package service

// DetermineGradeLetter memetakan skor (skala 100) ke predikat huruf.
// Satu konvensi untuk seluruh aplikasi, termasuk sertifikat: nilai
// gagal memakai huruf F.
func DetermineGradeLetter(score float64) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}

// GradeLetters adalah urutan predikat yang dipakai histogram statistik.
var GradeLetters = []string{"A", "B", "C", "D", "F"}
