package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-bighil/internal/common/apperr"
	common_models "go-bighil/internal/common/models"
	"go-bighil/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/who", AuthMiddleware(false), RequireRoles(false, string(common_models.RoleSuperAdmin)), func(c *fiber.Ctx) error {
		actor, err := ActorFromCtx(c)
		if err != nil {
			return err
		}
		return c.SendString(actor.ID.Hex())
	})
	app.Get("/fail", func(c *fiber.Ctx) error {
		return apperr.InvalidTransition("not pending")
	})
	return app
}

func TestAuthMiddlewareRejectsMissingHeader(t *testing.T) {
	resp, err := newTestApp().Test(httptest.NewRequest(http.MethodGet, "/who", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequireRolesForbidsOtherRoles(t *testing.T) {
	utils.SetSecret("mw-secret")
	token, err := utils.GenerateToken(primitive.NewObjectID().Hex(), "SUB ADMIN", "", "s", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/who", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := newTestApp().Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestActorReachesHandler(t *testing.T) {
	utils.SetSecret("mw-secret")
	id := primitive.NewObjectID()
	token, err := utils.GenerateToken(id.Hex(), "SUPER ADMIN", primitive.NewObjectID().Hex(), "s", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/who", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := newTestApp().Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, id.Hex(), string(body))
}

func TestErrorHandlerMapsKinds(t *testing.T) {
	resp, err := newTestApp().Test(httptest.NewRequest(http.MethodGet, "/fail", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}
