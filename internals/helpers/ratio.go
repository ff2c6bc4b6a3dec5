package helper

import "math"

// Round2 membulatkan ke 2 angka di belakang koma (skala persen & nilai akhir).
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// RatioOrFullCredit menghitung persentase numerator/total.
// Konvensi: total == 0 berarti belum ada denominatornya (belum ada sesi /
// assignment), dan dihitung sebagai 100% penuh — bukan nol dan bukan error.
// Dipakai oleh kehadiran, completion rate assignment, dan precheck sertifikat
// supaya ketiganya konsisten.
func RatioOrFullCredit(numerator, total int64) float64 {
	if total == 0 {
		return 100
	}
	return Round2(float64(numerator) / float64(total) * 100)
}
