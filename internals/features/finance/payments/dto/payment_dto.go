package dto

import "github.com/google/uuid"

type CreatePaymentRequest struct {
	PaymentStudentID uuid.UUID `json:"payment_student_id" validate:"required"`
	PaymentCourseID  uuid.UUID `json:"payment_course_id" validate:"required"`
	PaymentAmount    int64     `json:"payment_amount" validate:"required,gt=0"`
}

type CreatePaymentResponse struct {
	PaymentID   uuid.UUID `json:"payment_id"`
	OrderID     string    `json:"order_id"`
	SnapToken   string    `json:"snap_token"`
	RedirectURL string    `json:"redirect_url"`
}
