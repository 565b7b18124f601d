package auth

import "errors"

// Роли клиентов JSON API хост-приложения
const (
	RoleHost   = "host"   // бэкенд магазина: создаёт платежи
	RoleViewer = "viewer" // отчёты, мониторинг: только чтение
)

// Разрешения
const (
	PermissionPaymentsRead  = "payments:read"
	PermissionPaymentsWrite = "payments:write"
)

// Permissions список разрешений
var Permissions = map[string][]string{
	RoleHost: {
		PermissionPaymentsRead,
		PermissionPaymentsWrite,
	},
	RoleViewer: {
		PermissionPaymentsRead,
	},
}

// HasPermission проверяет есть ли у роли указанное разрешение
func HasPermission(role, permission string) bool {
	permissions, exists := Permissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// CanPerformAction проверяет может ли клиент выполнить действие
func CanPerformAction(claims *Claims, permission string) bool {
	return HasPermission(claims.Role, permission)
}

// ValidateRole проверяет валидность роли
func ValidateRole(role string) error {
	switch role {
	case RoleHost, RoleViewer:
		return nil
	default:
		return errors.New("invalid role")
	}
}
