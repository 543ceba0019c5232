package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"

	"github.com/terraza-app/terraza-kiosk/controllers"
	"github.com/terraza-app/terraza-kiosk/middleware"
	"github.com/terraza-app/terraza-kiosk/services"
	"github.com/terraza-app/terraza-kiosk/tests/testutil"
)

// OrderIntegrationTestSuite exercises cart submission end to end: the HTTP
// facade, the checkout reconciliation, and the wire calls the remote API
// receives.
type OrderIntegrationTestSuite struct {
	suite.Suite
	remote *testutil.RemoteStub
	router *gin.Engine
}

// SetupTest runs before each test
func (suite *OrderIntegrationTestSuite) SetupTest() {
	testutil.RequireTestEnvironment(suite.T())
	gin.SetMode(gin.TestMode)

	suite.remote = testutil.NewRemoteStub(suite.T())
	testutil.SetupKiosk(suite.T(), suite.remote)

	// The menu always resolves; individual tests stub the order routes
	suite.remote.On("GET", "/menu", http.StatusOK,
		`[{"id":5,"nombre":"Pizza margarita","precio":"1000","stock":true},
		  {"id":8,"nombre":"Ensalada mixta","precio":"450","stock":true}]`)

	suite.router = gin.New()
	v1 := suite.router.Group("/api/v1")
	authed := v1.Group("")
	authed.Use(middleware.RequireSession())
	{
		authed.POST("/cart/lines", controllers.AddCartLine)
		authed.POST("/cart/submit", controllers.SubmitCart)
		authed.GET("/cart", controllers.GetCart)
	}
	admin := v1.Group("/admin")
	admin.Use(suite.mockAdminMiddleware())
	{
		admin.PUT("/orders/:id/status", controllers.AdminUpdateOrderStatus)
	}
}

// mockAdminMiddleware places a staff session in the context, standing in
// for RequireSession plus RequireAdmin.
func (suite *OrderIntegrationTestSuite) mockAdminMiddleware() gin.HandlerFunc {
	session := testutil.AdminSession()
	return func(c *gin.Context) {
		testutil.SetMockSessionContext(c, session)
		c.Next()
	}
}

// request sends a JSON request through the facade router.
func (suite *OrderIntegrationTestSuite) request(method, path string, body interface{}) *httptest.ResponseRecorder {
	var raw []byte
	if body != nil {
		raw, _ = json.Marshal(body)
	}
	req, _ := http.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// TestFirstSubmitCreatesOrder verifies the first submit for an unoccupied
// table opens an order and sends every cart line as new.
func (suite *OrderIntegrationTestSuite) TestFirstSubmitCreatesOrder() {
	suite.remote.On("GET", "/cart/table/", http.StatusOK, `{"message":"Mesa no ocupada"}`)
	suite.remote.On("POST", "/cart/create", http.StatusOK, `{"orderId":42}`)
	suite.remote.On("POST", "/cart/add", http.StatusOK, `{}`)

	testutil.StartGuestSession(7)
	suite.request("POST", "/api/v1/cart/lines", gin.H{"product_id": 5, "cantidad": 2})
	suite.request("POST", "/api/v1/cart/lines", gin.H{"product_id": 8, "cantidad": 1})

	w := suite.request("POST", "/api/v1/cart/submit", gin.H{"order_type": 0})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			OrderID   int  `json:"order_id"`
			Created   bool `json:"created"`
			LinesSent int  `json:"lines_sent"`
		} `json:"data"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(42, resp.Data.OrderID)
	suite.True(resp.Data.Created)
	suite.Equal(2, resp.Data.LinesSent)

	created := suite.remote.CallsTo("POST", "/cart/create")
	suite.Require().Len(created, 1)
	suite.Equal(float64(7), created[0].Body["id_mesa"])

	added := suite.remote.CallsTo("POST", "/cart/add")
	suite.Require().Len(added, 2)
	for _, call := range added {
		suite.Equal(float64(42), call.Body["orderId"])
		suite.Equal(true, call.Body["nuevo"], "First submit sends every line as new")
	}
}

// TestSecondSubmitSendsOnlyDeltas verifies submitting against an existing
// order sends quantity deltas and flags the order as updated.
func (suite *OrderIntegrationTestSuite) TestSecondSubmitSendsOnlyDeltas() {
	suite.remote.On("GET", "/cart/table/", http.StatusOK,
		`[{"id_pedido":77,"id_mesa":5,"id_cliente":"c1","tipo_pedido":0,"estado":"Iniciado",
		   "id_producto":5,"nombre":"Pizza margarita","cantidad":1,"precio":"1000","nota":"","nuevo":false}]`)
	suite.remote.On("POST", "/cart/add", http.StatusOK, `{}`)
	suite.remote.On("PUT", "/cart/update/order", http.StatusOK, `{}`)

	testutil.StartGuestSession(5)
	suite.request("POST", "/api/v1/cart/lines", gin.H{"product_id": 5, "cantidad": 3})

	w := suite.request("POST", "/api/v1/cart/submit", gin.H{"order_type": 0})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			OrderID   int  `json:"order_id"`
			Created   bool `json:"created"`
			LinesSent int  `json:"lines_sent"`
		} `json:"data"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(77, resp.Data.OrderID)
	suite.False(resp.Data.Created, "Existing order must be reused, not recreated")
	suite.Equal(1, resp.Data.LinesSent)

	suite.Empty(suite.remote.CallsTo("POST", "/cart/create"))

	added := suite.remote.CallsTo("POST", "/cart/add")
	suite.Require().Len(added, 1)
	suite.Equal(float64(2), added[0].Body["cantidad"], "Only the quantity delta goes on the wire")
	suite.Equal(false, added[0].Body["nuevo"])

	updated := suite.remote.CallsTo("PUT", "/cart/update/order")
	suite.Require().Len(updated, 1)
	suite.Equal(float64(77), updated[0].Body["id_pedido"])
	suite.Equal("Actualizado", updated[0].Body["estado"])
}

// TestUnchangedCartSendsNothing verifies a cart matching the server order
// produces no line or status traffic.
func (suite *OrderIntegrationTestSuite) TestUnchangedCartSendsNothing() {
	suite.remote.On("GET", "/cart/table/", http.StatusOK,
		`[{"id_pedido":77,"id_mesa":5,"id_cliente":"c1","tipo_pedido":0,"estado":"Iniciado",
		   "id_producto":5,"nombre":"Pizza margarita","cantidad":2,"precio":"1000","nota":"","nuevo":false}]`)

	testutil.StartGuestSession(5)
	suite.request("POST", "/api/v1/cart/lines", gin.H{"product_id": 5, "cantidad": 2})

	w := suite.request("POST", "/api/v1/cart/submit", gin.H{"order_type": 0})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	suite.Empty(suite.remote.CallsTo("POST", "/cart/add"))
	suite.Empty(suite.remote.CallsTo("PUT", "/cart/update/order"))
}

// TestDeliveryWithoutAddressFailsBeforeNetwork verifies the address check
// runs before any remote traffic.
func (suite *OrderIntegrationTestSuite) TestDeliveryWithoutAddressFailsBeforeNetwork() {
	suite.remote.On("POST", "/user/login", http.StatusOK,
		`{"token":"tok","user":{"id":4,"nombre":"Ana","email":"ana@terraza.test"}}`)

	_, err := services.GetSessionService().SignIn(context.Background(), "ana@terraza.test", "secret")
	suite.Require().NoError(err)

	suite.request("POST", "/api/v1/cart/lines", gin.H{"product_id": 5, "cantidad": 1})

	w := suite.request("POST", "/api/v1/cart/submit", gin.H{"order_type": 1})
	suite.Equal(http.StatusUnprocessableEntity, w.Code)

	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("MISSING_ADDRESS", resp.Error.Code)

	suite.Empty(suite.remote.CallsTo("GET", "/cart/table/1000"), "Validation failure must not reach the network")
	suite.Empty(suite.remote.CallsTo("POST", "/cart/create"))
}

// TestVenueClosedBlocksSubmit verifies a closed venue rejects the submit
// with the taxonomy's closed code.
func (suite *OrderIntegrationTestSuite) TestVenueClosedBlocksSubmit() {
	suite.Require().NoError(services.SetVenueOpen(false))

	testutil.StartGuestSession(5)
	suite.request("POST", "/api/v1/cart/lines", gin.H{"product_id": 5, "cantidad": 1})

	w := suite.request("POST", "/api/v1/cart/submit", gin.H{"order_type": 0})
	suite.NotEqual(http.StatusCreated, w.Code)

	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("TABLE_CLOSED", resp.Error.Code)
	suite.Empty(suite.remote.CallsTo("POST", "/cart/create"))
}

// TestAdminMovesOrderThroughLifecycle verifies the staff status update
// reaches the remote API with the Spanish status value.
func (suite *OrderIntegrationTestSuite) TestAdminMovesOrderThroughLifecycle() {
	suite.remote.On("PUT", "/cart/update/order", http.StatusOK, `{}`)

	w := suite.request("PUT", "/api/v1/admin/orders/77/status", gin.H{"estado": "En Proceso"})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	updated := suite.remote.CallsTo("PUT", "/cart/update/order")
	suite.Require().Len(updated, 1)
	suite.Equal(float64(77), updated[0].Body["id_pedido"])
	suite.Equal("En Proceso", updated[0].Body["estado"])
}

// TestOrderIntegrationTestSuite runs the test suite
func TestOrderIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderIntegrationTestSuite))
}
