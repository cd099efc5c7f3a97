package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kesorhosting-wq/testtopupkesor/internal/middleware"
	"github.com/kesorhosting-wq/testtopupkesor/internal/models"
	"github.com/kesorhosting-wq/testtopupkesor/internal/service"
	"github.com/kesorhosting-wq/testtopupkesor/internal/utils"
)

type fakeOrderOps struct {
	userID *string
	calls  int
}

func (f *fakeOrderOps) Create(userID *string, req service.CreateOrderRequest) (*models.Order, error) {
	f.calls++
	f.userID = userID
	return &models.Order{ID: "o1", Status: models.OrderPending}, nil
}

func (f *fakeOrderOps) Get(id string) (*models.Order, error) { return nil, utils.ErrOrderNotFound }

func (f *fakeOrderOps) ListForUser(userID string, limit int) ([]models.Order, error) {
	return nil, nil
}

// orderRouter registers the checkout route the way the server does: public,
// with optional bearer authentication in front of it.
func orderRouter(ops *fakeOrderOps) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	jwtMw := middleware.NewJWTMiddleware()
	r.POST("/orders", jwtMw.OptionalAuth(), NewOrderHandler(ops).Create)
	return r
}

func postOrder(r *gin.Engine, bearer string) *httptest.ResponseRecorder {
	body := `{"gameId":"g1","packageId":"p1","playerId":"12345"}`
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateOrderAttachesAuthenticatedUser(t *testing.T) {
	utils.SetJWTSecret("test-signing-key")
	token, err := utils.GenerateJWT("u1", "u1@example.com", "user")
	require.NoError(t, err)

	ops := &fakeOrderOps{}
	w := postOrder(orderRouter(ops), "Bearer "+token)

	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, ops.userID, "a valid bearer must reach the order service as a user id")
	assert.Equal(t, "u1", *ops.userID)
}

func TestCreateOrderAnonymousWithoutBearer(t *testing.T) {
	utils.SetJWTSecret("test-signing-key")

	ops := &fakeOrderOps{}
	w := postOrder(orderRouter(ops), "")

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Nil(t, ops.userID)
}

func TestCreateOrderInvalidBearerFallsBackToGuest(t *testing.T) {
	utils.SetJWTSecret("test-signing-key")

	ops := &fakeOrderOps{}
	w := postOrder(orderRouter(ops), "Bearer not-a-token")

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Nil(t, ops.userID, "an invalid bearer must not block guest checkout")
}
