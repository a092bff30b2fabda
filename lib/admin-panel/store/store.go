package adminuserstore

import (
	dbmodels "budget-portal-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	FindByEmail(email string) (*dbmodels.AdminUser, error)
	Create(rec dbmodels.AdminUser) (id string, err error)
	Update(id string, data map[string]interface{}) error
	Count() (int64, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) FindByEmail(email string) (*dbmodels.AdminUser, error) {
	rec := dbmodels.AdminUser{}
	err := i.db.Where("email = ?", email).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to find admin user")
	}
	return &rec, nil
}

func (i impl) Create(rec dbmodels.AdminUser) (id string, err error) {
	tx := i.db.Create(&rec)
	if tx.Error != nil {
		return "", errors.Wrap(tx.Error, "failed to create admin user")
	}
	return rec.ID, nil
}

func (i impl) Update(id string, data map[string]interface{}) error {
	tx := i.db.Model(&dbmodels.AdminUser{}).Where("id = ?", id).Updates(data)
	if tx.Error != nil {
		return errors.Wrap(tx.Error, "failed to update admin user")
	}
	return nil
}

func (i impl) Count() (int64, error) {
	var count int64
	err := i.db.Model(&dbmodels.AdminUser{}).Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "failed to count admin users")
	}
	return count, nil
}
