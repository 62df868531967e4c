package controllers

import "github.com/opencampus/roombook_backend/internal/models"

var allowedRoles = map[string]struct{}{
	models.RoleAdmin:      {},
	models.RoleTechnician: {},
	models.RoleStudent:    {},
}

func IsValidRole(role string) bool {
	_, ok := allowedRoles[role]
	return ok
}
