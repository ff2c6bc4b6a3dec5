package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusExpired  = "expired"
	PaymentStatusCanceled = "canceled"
)

type PaymentModel struct {
	PaymentID        uuid.UUID `gorm:"type:uuid;primaryKey;column:payment_id" json:"payment_id"`
	PaymentOrderID   string    `gorm:"column:payment_order_id;uniqueIndex;not null" json:"payment_order_id"`
	PaymentStudentID uuid.UUID `gorm:"type:uuid;not null;column:payment_student_id;index" json:"payment_student_id"`
	PaymentCourseID  uuid.UUID `gorm:"type:uuid;not null;column:payment_course_id;index" json:"payment_course_id"`

	PaymentAmount int64   `gorm:"column:payment_amount;not null" json:"payment_amount"`
	PaymentStatus string  `gorm:"column:payment_status;not null;default:pending" json:"payment_status"`
	PaymentMethod *string `gorm:"column:payment_method" json:"payment_method,omitempty"`

	PaymentSnapToken   *string    `gorm:"column:payment_snap_token" json:"payment_snap_token,omitempty"`
	PaymentRedirectURL *string    `gorm:"column:payment_redirect_url" json:"payment_redirect_url,omitempty"`
	PaymentPaidAt      *time.Time `gorm:"column:payment_paid_at" json:"payment_paid_at,omitempty"`

	PaymentCreatedAt time.Time  `gorm:"column:payment_created_at;autoCreateTime" json:"payment_created_at"`
	PaymentUpdatedAt *time.Time `gorm:"column:payment_updated_at;autoUpdateTime" json:"payment_updated_at,omitempty"`
}

func (PaymentModel) TableName() string { return "payments" }

func (m *PaymentModel) BeforeCreate(tx *gorm.DB) error {
	if m.PaymentID == uuid.Nil {
		m.PaymentID = uuid.New()
	}
	return nil
}

func (m *PaymentModel) IsPaid() bool {
	return m.PaymentStatus == PaymentStatusPaid
}
