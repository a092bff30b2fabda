package db

import (
	dbmodels "budget-portal-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

func AutoMigrateDB() error {
	DB.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")
	log.Info("running migrations")
	if err := DB.AutoMigrate(&dbmodels.Province{}); err != nil {
		return errors.Wrap(err, "failed to migrate Province")
	}
	if err := DB.AutoMigrate(&dbmodels.Municipality{}); err != nil {
		return errors.Wrap(err, "failed to migrate Municipality")
	}
	if err := DB.AutoMigrate(&dbmodels.BudgetProgram{}); err != nil {
		return errors.Wrap(err, "failed to migrate BudgetProgram")
	}
	if err := DB.AutoMigrate(&dbmodels.BudgetType{}); err != nil {
		return errors.Wrap(err, "failed to migrate BudgetType")
	}
	if err := DB.AutoMigrate(&dbmodels.BudgetEntry{}); err != nil {
		return errors.Wrap(err, "failed to migrate BudgetEntry")
	}
	if err := DB.AutoMigrate(&dbmodels.MonthlyRealization{}); err != nil {
		return errors.Wrap(err, "failed to migrate MonthlyRealization")
	}
	if err := DB.AutoMigrate(&dbmodels.AdminUser{}); err != nil {
		return errors.Wrap(err, "failed to migrate AdminUser")
	}
	log.Info("migrations finished")
	return nil
}
