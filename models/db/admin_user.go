package dbmodels

import (
	"time"

	"budget-portal-backend/models"
)

type AdminUser struct {
	BaseModel
	Email     string          `gorm:"uniqueIndex" json:"email"`
	Password  string          `json:"-"` //md5 hash
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Role      models.UserRole `json:"role"`
	LastLogin *time.Time      `json:"last_login"`
}

func (AdminUser) TableName() string {
	return "admin_users"
}
