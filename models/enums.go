package models

import "errors"

type UserRole string

const (
	UserRoleAdmin   UserRole = "A"
	UserRoleManager UserRole = "M"
	UserRoleViewer  UserRole = "V"
)

// CanWrite reports whether the role may create/update/delete resources.
func (p UserRole) CanWrite() bool {
	return p == UserRoleAdmin || p == UserRoleManager
}

func (p UserRole) DisplayName() string {
	switch p {
	case UserRoleAdmin:
		return "Admin"
	case UserRoleManager:
		return "Manager"
	case UserRoleViewer:
		return "Viewer"
	}
	return "Unknown"
}

func ParseUserRole(s string) (UserRole, error) {
	switch s {
	case "A", "Admin":
		return UserRoleAdmin, nil
	case "M", "Manager":
		return UserRoleManager, nil
	case "V", "Viewer":
		return UserRoleViewer, nil
	}
	return "", errors.New("invalid user role")
}

type AuditAction string

const (
	AuditActionCreate AuditAction = "Create"
	AuditActionUpdate AuditAction = "Update"
	AuditActionDelete AuditAction = "Delete"
)

type AuditPublishStatus string

const (
	AuditPublishStatusPending   AuditPublishStatus = "Pending"
	AuditPublishStatusPublished AuditPublishStatus = "Published"
	AuditPublishStatusFailed    AuditPublishStatus = "Failed"
	AuditPublishStatusDead      AuditPublishStatus = "Dead"
)
