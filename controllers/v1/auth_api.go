package apiv1

import (
	"budget-portal-backend/controllers"
	adminauthhandler "budget-portal-backend/lib/admin-panel/auth"
	apimodels "budget-portal-backend/models/api"
	authapimodels "budget-portal-backend/models/api/auth"

	"github.com/gofiber/fiber/v2"
)

type authApiController struct {
	controllers.BaseAPIController
}

func InitAuthApiRouters(app fiber.Router) {
	controller := authApiController{}
	app.Route("auth", func(router fiber.Router) {
		router.Post("login", controller.login)
	})
}

// @Summary Admin login
// @Tags Auth
// @Param   body   body   authapimodels.LoginRequest   true   "credentials"
// @Success 200 {object} apimodels.Response{data=authapimodels.JWTResponse}
// @Failure 400 {object} apimodels.Response
// @router /api/v1/auth/login [post]
func (c *authApiController) login(ctx *fiber.Ctx) error {
	request := authapimodels.LoginRequest{}
	if err := c.BodyParser(ctx, &request); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := request.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	response, err := adminauthhandler.Instance.Login(request.Email, request.Password)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(apimodels.NewError(err.Error()))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(response))
}
