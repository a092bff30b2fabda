package apiv1

import (
	"budget-portal-backend/controllers"
	supersethandler "budget-portal-backend/lib/superset"
	apimodels "budget-portal-backend/models/api"
	supersetapimodels "budget-portal-backend/models/api/superset"

	"github.com/gofiber/fiber/v2"
)

type dashboardApiController struct {
	controllers.BaseAPIController
}

func InitDashboardApiRouters(app fiber.Router) {
	controller := dashboardApiController{}
	app.Route("dashboards", func(router fiber.Router) {
		router.Get("", controller.listPublic)
		router.Get(":id/visibility", controller.getVisibility)
		router.Post(":uuid/guest_token", controller.createGuestToken)
		router.Get(":uuid/guest_token/direct", controller.directGuestToken)
	})
}

// @Summary List public dashboards
// @Tags Dashboards
// @Description Dashboards that are published and carry the Public role
// @Success 200 {object} apimodels.Response{data=[]supersetapimodels.DashboardView}
// @Failure 500 {object} apimodels.Response
// @router /api/v1/dashboards [get]
func (c *dashboardApiController) listPublic(ctx *fiber.Ctx) error {
	list, err := supersethandler.Instance.ListPublicDashboards(ctx.Context())
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to list dashboards")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Dashboard visibility info
// @Tags Dashboards
// @Description Whether a dashboard is embeddable for anonymous visitors
// @Param   id   path   string   true   "dashboard id or uuid"
// @Success 200 {object} apimodels.Response{data=supersetapimodels.VisibilityInfo}
// @Failure 500 {object} apimodels.Response
// @router /api/v1/dashboards/{id}/visibility [get]
func (c *dashboardApiController) getVisibility(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	info, err := supersethandler.Instance.GetVisibilityInfo(ctx.Context(), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to get dashboard visibility")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(info))
}

// @Summary Create guest token
// @Tags Dashboards
// @Description Mints a short-lived guest token for an embeddable dashboard
// @Param   uuid   path   string   true   "dashboard uuid"
// @Success 200 {object} apimodels.Response{data=supersetapimodels.GuestTokenView}
// @Failure 403 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/dashboards/{uuid}/guest_token [post]
func (c *dashboardApiController) createGuestToken(ctx *fiber.Ctx) error {
	uuid := ctx.Params("uuid")
	token, err := supersethandler.Instance.GuestTokenForDashboard(ctx.Context(), uuid)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to create guest token")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(supersetapimodels.GuestTokenView{GuestToken: token}))
}

// @Summary Create guest token without a Superset round trip
// @Tags Dashboards
// @Description Signs a guest token locally with the shared secret, for Superset 3.0+ with AUTH_ROLE_PUBLIC configured
// @Param   uuid   path   string   true   "dashboard uuid"
// @Success 200 {object} apimodels.Response{data=supersetapimodels.GuestTokenView}
// @Failure 403 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/dashboards/{uuid}/guest_token/direct [get]
func (c *dashboardApiController) directGuestToken(ctx *fiber.Ctx) error {
	uuid := ctx.Params("uuid")
	logger := c.GetLogger(ctx)
	// same policy gate as the API-minted path
	info, err := supersethandler.Instance.GetVisibilityInfo(ctx.Context(), uuid)
	if err != nil {
		return c.SendError(ctx, logger, err, "failed to get dashboard visibility")
	}
	if info.Access != supersetapimodels.AccessPublic {
		return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError(info.Reason))
	}
	token, err := supersethandler.Instance.MintGuestToken(info.UUID)
	if err != nil {
		return c.SendError(ctx, logger, err, "failed to mint guest token")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(supersetapimodels.GuestTokenView{GuestToken: token}))
}
