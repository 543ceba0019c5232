package acceptance

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"

	"github.com/terraza-app/terraza-kiosk/controllers"
	"github.com/terraza-app/terraza-kiosk/middleware"
	"github.com/terraza-app/terraza-kiosk/tests/testutil"
)

// SessionAcceptanceTestSuite verifies the session rules of the kiosk
// facade over real HTTP: what is public, what needs a session, and what
// needs staff access.
type SessionAcceptanceTestSuite struct {
	suite.Suite
	remote *testutil.RemoteStub
	server *httptest.Server
}

// SetupTest runs before each test
func (suite *SessionAcceptanceTestSuite) SetupTest() {
	testutil.RequireTestEnvironment(suite.T())
	gin.SetMode(gin.TestMode)

	suite.remote = testutil.NewRemoteStub(suite.T())
	testutil.SetupKiosk(suite.T(), suite.remote)

	suite.server = httptest.NewServer(suite.createRouter())
	suite.T().Cleanup(suite.server.Close)
}

// createRouter builds the facade routes with the real middleware chain.
func (suite *SessionAcceptanceTestSuite) createRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"success": true,
				"message": "Terraza kiosk is running",
			})
		})

		v1.POST("/session/guest", controllers.StartGuest)
		v1.POST("/session/login", controllers.Login)
		v1.POST("/session/logout", controllers.Logout)
		v1.GET("/session", controllers.CurrentSession)

		authed := v1.Group("")
		authed.Use(middleware.RequireSession())
		{
			authed.GET("/cart", controllers.GetCart)
		}

		admin := v1.Group("/admin")
		admin.Use(middleware.RequireSession(), middleware.RequireAdmin())
		{
			admin.GET("/waiters", controllers.AdminListWaiters)
		}
	}

	return router
}

// post sends a JSON POST to the running facade server.
func (suite *SessionAcceptanceTestSuite) post(path string, body interface{}) *http.Response {
	raw, _ := json.Marshal(body)
	resp, err := http.Post(suite.server.URL+path, "application/json", bytes.NewReader(raw))
	suite.Require().NoError(err)
	suite.T().Cleanup(func() { resp.Body.Close() })
	return resp
}

// get sends a GET to the running facade server.
func (suite *SessionAcceptanceTestSuite) get(path string) *http.Response {
	resp, err := http.Get(suite.server.URL + path)
	suite.Require().NoError(err)
	suite.T().Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(s *suite.Suite, resp *http.Response, out interface{}) {
	raw, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	s.Require().NoError(json.Unmarshal(raw, out), string(raw))
}

// TestHealthIsPublic verifies the health endpoint needs no session.
func (suite *SessionAcceptanceTestSuite) TestHealthIsPublic() {
	resp := suite.get("/api/v1/health")
	suite.Equal(http.StatusOK, resp.StatusCode)
}

// TestCartLockedBeforeSession verifies customer routes answer 401 before
// a session exists.
func (suite *SessionAcceptanceTestSuite) TestCartLockedBeforeSession() {
	resp := suite.get("/api/v1/cart")
	suite.Equal(http.StatusUnauthorized, resp.StatusCode)

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	decodeBody(&suite.Suite, resp, &body)
	suite.Equal("NO_SESSION", body.Error.Code)
}

// TestGuestTouchInUnlocksCart verifies a guest session opens the customer
// routes without any sign-in.
func (suite *SessionAcceptanceTestSuite) TestGuestTouchInUnlocksCart() {
	resp := suite.post("/api/v1/session/guest", gin.H{"table_id": 6})
	suite.Require().Equal(http.StatusCreated, resp.StatusCode)

	resp = suite.get("/api/v1/cart")
	suite.Equal(http.StatusOK, resp.StatusCode, "Guest session should unlock the cart")
}

// TestAdminGroupNeedsStaffSession verifies a guest cannot reach staff
// routes but a signed-in admin can.
func (suite *SessionAcceptanceTestSuite) TestAdminGroupNeedsStaffSession() {
	suite.post("/api/v1/session/guest", gin.H{"table_id": 6})

	resp := suite.get("/api/v1/admin/waiters")
	suite.Equal(http.StatusForbidden, resp.StatusCode, "Guest must not reach staff routes")

	// Sign in as staff and retry
	suite.remote.On("POST", "/user/login", http.StatusOK,
		`{"token":"staff-tok","user":{"id":2,"nombre":"Encargado","email":"staff@terraza.test","admin":true}}`)
	suite.remote.On("GET", "/waiter", http.StatusOK, `[{"id":1,"nombre":"Marta","activo":true}]`)

	resp = suite.post("/api/v1/session/login", gin.H{"email": "staff@terraza.test", "password": "secret"})
	suite.Require().Equal(http.StatusOK, resp.StatusCode)

	resp = suite.get("/api/v1/admin/waiters")
	suite.Equal(http.StatusOK, resp.StatusCode, "Staff session should reach staff routes")
}

// TestLogoutLocksCartAgain verifies logout drops the session and the cart
// routes lock.
func (suite *SessionAcceptanceTestSuite) TestLogoutLocksCartAgain() {
	suite.post("/api/v1/session/guest", gin.H{"table_id": 6})
	suite.post("/api/v1/session/logout", nil)

	resp := suite.get("/api/v1/cart")
	suite.Equal(http.StatusUnauthorized, resp.StatusCode, "Logout should lock customer routes")
}

// TestSessionAcceptanceTestSuite runs the test suite
func TestSessionAcceptanceTestSuite(t *testing.T) {
	suite.Run(t, new(SessionAcceptanceTestSuite))
}
