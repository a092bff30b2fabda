package initializers

import (
	"context"

	"budget-portal-backend/config"
	"budget-portal-backend/fiberlog"
	adminauthhandler "budget-portal-backend/lib/admin-panel/auth"
	budgethandler "budget-portal-backend/lib/budget"
	xlsexport "budget-portal-backend/lib/export/xls"
	filestorage "budget-portal-backend/lib/file-storage"
	supersethandler "budget-portal-backend/lib/superset"
	initchecker "budget-portal-backend/lib/utils/init-checker"
)

var LoggerConfig *fiberlog.Config

func InitAllServices(ctx context.Context) {
	LoggerConfig = InitLogger()
	config.InitConfig()
	InitDBConnection()
	InitS3(ctx)
	filestorage.NewHandler()
	xlsexport.NewHandler()
	adminauthhandler.NewHandler()
	budgethandler.NewHandler()
	supersethandler.NewHandler()

	initchecker.CheckInit(
		"file storage", filestorage.Instance,
		"xlsx export", xlsexport.Instance,
		"admin auth", adminauthhandler.Instance,
		"budget", budgethandler.Instance,
		"superset broker", supersethandler.Instance,
	)
}
