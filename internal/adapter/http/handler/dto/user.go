package dto

import (
	"github.com/ironslayer/parking-management-system/internal/domain/types"
	"github.com/ironslayer/parking-management-system/pkg/validator"
)

type ChangeRoleRequest struct {
	Role string `json:"role"`
}

func ValidateChangeRole(v *validator.Validator, req *ChangeRoleRequest) {
	v.Check(req.Role != "", "role", "must be provided")
	v.Check(types.IsValidUserRole(req.Role), "role", "must be one of USER, OPERATOR, ADMIN")
}
