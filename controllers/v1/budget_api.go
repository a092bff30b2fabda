package apiv1

import (
	"fmt"
	"time"

	"budget-portal-backend/controllers"
	budgethandler "budget-portal-backend/lib/budget"
	apimodels "budget-portal-backend/models/api"
	budgetapimodels "budget-portal-backend/models/api/budget"

	"github.com/gofiber/fiber/v2"
)

type budgetApiController struct {
	controllers.BaseAPIController
}

// InitBudgetApiRouters exposes the read-only portal endpoints
func InitBudgetApiRouters(app fiber.Router) {
	controller := budgetApiController{}
	app.Route("budget", func(router fiber.Router) {
		router.Get("summary", controller.getSummary)
		router.Get("provinces", controller.listProvinces)
		router.Get("provinces/:id/municipalities", controller.listMunicipalities)
	})
}

// InitBudgetAdminApiRouters exposes the CRUD and export endpoints, the
// caller mounts them behind the auth middleware
func InitBudgetAdminApiRouters(app fiber.Router) {
	controller := budgetApiController{}
	app.Route("budget", func(router fiber.Router) {
		router.Post("entries", controller.createEntry)
		router.Post("entries/list", controller.listEntries)
		router.Get("entries/:id", controller.getEntry)
		router.Put("entries/:id", controller.updateEntry)
		router.Delete("entries/:id", controller.deleteEntry)
		router.Get("export/xlsx", controller.exportXLSX)
		router.Get("export/pdf", controller.exportPDF)
	})
}

// @Summary Portal summary counters
// @Tags Budget
// @Success 200 {object} apimodels.Response{data=budgetapimodels.PortalSummary}
// @Failure 500 {object} apimodels.Response
// @router /api/v1/budget/summary [get]
func (c *budgetApiController) getSummary(ctx *fiber.Ctx) error {
	summary, err := budgethandler.Instance.Summary()
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to get portal summary")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(summary))
}

// @Summary List provinces
// @Tags Budget
// @Success 200 {object} apimodels.Response{data=[]budgetapimodels.ProvinceView}
// @Failure 500 {object} apimodels.Response
// @router /api/v1/budget/provinces [get]
func (c *budgetApiController) listProvinces(ctx *fiber.Ctx) error {
	list, err := budgethandler.Instance.ListProvinces()
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to list provinces")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary List municipalities of a province
// @Tags Budget
// @Param   id   path   string   true   "province id"
// @Success 200 {object} apimodels.Response{data=[]budgetapimodels.MunicipalityView}
// @Failure 500 {object} apimodels.Response
// @router /api/v1/budget/provinces/{id}/municipalities [get]
func (c *budgetApiController) listMunicipalities(ctx *fiber.Ctx) error {
	list, err := budgethandler.Instance.ListMunicipalities(ctx.Params("id"))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to list municipalities")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Create budget entry
// @Tags BudgetAdmin
// @Param   Authorization   header   string   true   "Authorization token"
// @Param   body   body   budgetapimodels.BudgetEntryData   true   "budget entry"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @router /api/v1/admin/budget/entries [post]
func (c *budgetApiController) createEntry(ctx *fiber.Ctx) error {
	data := budgetapimodels.BudgetEntryData{}
	if err := c.BodyParser(ctx, &data); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	id, err := budgethandler.Instance.CreateEntry(data)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to create budget entry")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// @Summary List budget entries
// @Tags BudgetAdmin
// @Param   Authorization   header   string   true   "Authorization token"
// @Param   body   body   budgetapimodels.BudgetEntryFilter   true   "filter"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]budgetapimodels.BudgetEntryView}
// @Failure 400 {object} apimodels.Response
// @router /api/v1/admin/budget/entries/list [post]
func (c *budgetApiController) listEntries(ctx *fiber.Ctx) error {
	filter := budgetapimodels.BudgetEntryFilter{}
	if err := c.BodyParser(ctx, &filter); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, rowCount, err := budgethandler.Instance.ListEntries(filter)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to list budget entries")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}

// @Summary Get budget entry
// @Tags BudgetAdmin
// @Param   Authorization   header   string   true   "Authorization token"
// @Param   id   path   string   true   "entry id"
// @Success 200 {object} apimodels.Response{data=budgetapimodels.BudgetEntryView}
// @Failure 400 {object} apimodels.Response
// @router /api/v1/admin/budget/entries/{id} [get]
func (c *budgetApiController) getEntry(ctx *fiber.Ctx) error {
	view, err := budgethandler.Instance.GetEntry(ctx.Params("id"))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to get budget entry")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Update budget entry
// @Tags BudgetAdmin
// @Param   Authorization   header   string   true   "Authorization token"
// @Param   id   path   string   true   "entry id"
// @Param   body   body   budgetapimodels.BudgetEntryData   true   "budget entry"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @router /api/v1/admin/budget/entries/{id} [put]
func (c *budgetApiController) updateEntry(ctx *fiber.Ctx) error {
	data := budgetapimodels.BudgetEntryData{}
	if err := c.BodyParser(ctx, &data); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := budgethandler.Instance.UpdateEntry(ctx.Params("id"), data); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to update budget entry")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Delete budget entry
// @Tags BudgetAdmin
// @Param   Authorization   header   string   true   "Authorization token"
// @Param   id   path   string   true   "entry id"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @router /api/v1/admin/budget/entries/{id} [delete]
func (c *budgetApiController) deleteEntry(ctx *fiber.Ctx) error {
	if err := budgethandler.Instance.DeleteEntry(ctx.Params("id")); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to delete budget entry")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Export budget entries to XLSX
// @Tags BudgetAdmin
// @Param   Authorization   header   string   true   "Authorization token"
// @Success 200 {file} binary
// @Failure 400 {object} apimodels.Response
// @router /api/v1/admin/budget/export/xlsx [get]
func (c *budgetApiController) exportXLSX(ctx *fiber.Ctx) error {
	buf, err := budgethandler.Instance.ExportXLSX(ctx.Context(), exportFilter(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to export budget entries")
	}
	fileName := fmt.Sprintf("budget-%v.xlsx", time.Now().Format("20060102"))
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%v"`, fileName))
	ctx.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	return ctx.Status(fiber.StatusOK).Send(buf.Bytes())
}

// @Summary Export budget report to PDF
// @Tags BudgetAdmin
// @Param   Authorization   header   string   true   "Authorization token"
// @Success 200 {file} binary
// @Failure 400 {object} apimodels.Response
// @router /api/v1/admin/budget/export/pdf [get]
func (c *budgetApiController) exportPDF(ctx *fiber.Ctx) error {
	data, err := budgethandler.Instance.ExportPDF(ctx.Context(), exportFilter(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to export budget report")
	}
	fileName := fmt.Sprintf("budget-report-%v.pdf", time.Now().Format("20060102"))
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%v"`, fileName))
	ctx.Set(fiber.HeaderContentType, "application/pdf")
	return ctx.Status(fiber.StatusOK).Send(data)
}

func exportFilter(ctx *fiber.Ctx) budgetapimodels.BudgetEntryFilter {
	return budgetapimodels.BudgetEntryFilter{
		Year:           ctx.QueryInt("year"),
		ProvinceID:     ctx.Query("province_id"),
		MunicipalityID: ctx.Query("municipality_id"),
		Status:         ctx.Query("status"),
	}
}
