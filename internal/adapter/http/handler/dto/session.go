package dto

import (
	"time"

	"github.com/ironslayer/parking-management-system/internal/domain/types"
	"github.com/ironslayer/parking-management-system/pkg/validator"
)

type StartSessionRequest struct {
	Plate     string  `json:"plate"`
	SpotLabel string  `json:"spot_label"`
	Notes     *string `json:"notes,omitempty"`
}

func ValidateStartSession(v *validator.Validator, req *StartSessionRequest) {
	v.Check(req.Plate != "", "plate", "must be provided")
	v.Check(len(req.Plate) <= 20, "plate", "must not be more than 20 bytes long")
	v.Check(len(req.SpotLabel) <= 20, "spot_label", "must not be more than 20 bytes long")
}

type CompleteSessionRequest struct {
	PaymentMethod string     `json:"payment_method"`
	ExitTime      *time.Time `json:"exit_time,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
}

func ValidateCompleteSession(v *validator.Validator, req *CompleteSessionRequest) {
	v.Check(req.PaymentMethod != "", "payment_method", "must be provided")
	v.Check(types.IsValidPaymentMethod(req.PaymentMethod), "payment_method", "must be one of CASH, CARD, DIGITAL_WALLET")
}

type CancelSessionRequest struct {
	Reason string `json:"reason,omitempty"`
}

func ValidateCancelSession(v *validator.Validator, req *CancelSessionRequest) {
	v.Check(len(req.Reason) <= 500, "reason", "must not be more than 500 bytes long")
}
