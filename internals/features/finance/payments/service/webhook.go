package service

import (
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	paymentModel "sekolahku_backend/internals/features/finance/payments/model"
)

// HandlePaymentStatusWebhook dipanggil saat menerima notifikasi dari Midtrans
func HandlePaymentStatusWebhook(db *gorm.DB, body map[string]interface{}) error {
	orderID, ok1 := body["order_id"].(string)
	status, ok2 := body["transaction_status"].(string)

	if !ok1 || !ok2 {
		log.Println("[ERROR] Payload webhook tidak lengkap:", body)
		return fmt.Errorf("invalid payload")
	}

	log.Println("📄 Order ID:", orderID)
	log.Println("📌 Transaction Status:", status)

	var payment paymentModel.PaymentModel
	if err := db.Where("payment_order_id = ?", orderID).First(&payment).Error; err != nil {
		log.Println("[ERROR] Pembayaran tidak ditemukan:", err)
		return fmt.Errorf("payment with order_id %s not found", orderID)
	}

	switch status {
	case "capture", "settlement":
		now := time.Now()
		payment.PaymentStatus = paymentModel.PaymentStatusPaid
		payment.PaymentPaidAt = &now
		if method, ok := body["payment_type"].(string); ok {
			payment.PaymentMethod = &method
		}

	case "expire":
		payment.PaymentStatus = paymentModel.PaymentStatusExpired
	case "cancel":
		payment.PaymentStatus = paymentModel.PaymentStatusCanceled
	default:
		log.Println("[INFO] Status tidak diproses:", status)
	}

	if err := db.Save(&payment).Error; err != nil {
		log.Println("[ERROR] Gagal menyimpan status pembayaran:", err)
		return err
	}

	return nil
}
