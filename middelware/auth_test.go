package middelware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"telconova-dispatch/models"
	"telconova-dispatch/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockLogger implements the logger interface for testing
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(args ...interface{}) {
	m.Called(args...)
}

func (m *MockLogger) Debugf(format string, args ...interface{}) {
	m.Called(format, args)
}

func (m *MockLogger) Info(args ...interface{}) {
	m.Called(args...)
}

func (m *MockLogger) Infof(format string, args ...interface{}) {
	m.Called(format, args)
}

func (m *MockLogger) Warn(args ...interface{}) {
	m.Called(args...)
}

func (m *MockLogger) Warnf(format string, args ...interface{}) {
	m.Called(format, args)
}

func (m *MockLogger) Error(args ...interface{}) {
	m.Called(args...)
}

func (m *MockLogger) Errorf(format string, args ...interface{}) {
	m.Called(format, args)
}

func (m *MockLogger) Fatal(args ...interface{}) {
	m.Called(args...)
}

func (m *MockLogger) Fatalf(format string, args ...interface{}) {
	m.Called(format, args)
}

func (m *MockLogger) WithFields(fields map[string]interface{}) logger.Logger {
	return m
}

func newMockLogger() *MockLogger {
	l := &MockLogger{}
	l.On("Info", mock.Anything).Return().Maybe()
	l.On("Infof", mock.AnythingOfType("string"), mock.Anything).Return().Maybe()
	l.On("Debug", mock.Anything).Return().Maybe()
	l.On("Debugf", mock.AnythingOfType("string"), mock.Anything).Return().Maybe()
	l.On("Error", mock.Anything).Return().Maybe()
	l.On("Errorf", mock.AnythingOfType("string"), mock.Anything).Return().Maybe()
	l.On("Warn", mock.Anything).Return().Maybe()
	l.On("Warnf", mock.AnythingOfType("string"), mock.Anything).Return().Maybe()
	return l
}

// AuthMiddlewareTestSuite defines a test suite for auth middleware functions
type AuthMiddlewareTestSuite struct {
	suite.Suite
	config     *models.Config
	mockLogger *MockLogger
	jwtManager *JWTManager
	router     *gin.Engine
	supervisor models.Supervisor
}

// SetupTest runs before each test
func (suite *AuthMiddlewareTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	suite.config = &models.Config{
		AppName:      "TestApp",
		JWTSecret:    "test-secret-key-for-testing",
		JWTExpiresIn: 30 * time.Minute,
	}
	suite.mockLogger = newMockLogger()
	suite.jwtManager = NewJWTManager(suite.config, suite.mockLogger)
	suite.supervisor = models.Supervisor{ID: "supervisor-1", Email: "supervisor@example.com", Role: "supervisor"}

	suite.router = gin.New()
	protected := suite.router.Group("/", suite.jwtManager.AuthMiddleware())
	protected.GET("/me", func(c *gin.Context) {
		claims := c.MustGet("jwt_claims").(*models.JWTClaims)
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("user_id"), "email": claims.Email})
	})
	protected.GET("/admin", suite.jwtManager.RequireRole("admin"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
}

func TestAuthMiddlewareTestSuite(t *testing.T) {
	suite.Run(t, new(AuthMiddlewareTestSuite))
}

func (suite *AuthMiddlewareTestSuite) request(path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// TestGenerateToken tests the GenerateToken function
func (suite *AuthMiddlewareTestSuite) TestGenerateToken() {
	token, expiresAt, err := suite.jwtManager.GenerateToken(suite.supervisor)

	suite.Require().NoError(err)
	suite.NotEmpty(token)
	suite.WithinDuration(time.Now().Add(30*time.Minute), expiresAt, 5*time.Second)

	parsedToken, err := jwt.ParseWithClaims(token, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(suite.config.JWTSecret), nil
	})
	suite.Require().NoError(err)
	suite.True(parsedToken.Valid)

	claims := parsedToken.Claims.(*models.JWTClaims)
	suite.Equal("supervisor-1", claims.UserID)
	suite.Equal("supervisor@example.com", claims.Email)
	suite.Equal("supervisor", claims.Role)
	suite.NotEmpty(claims.ID)
	suite.Equal("TestApp", claims.Issuer)
}

// TestValidateToken round-trips a generated token
func (suite *AuthMiddlewareTestSuite) TestValidateToken() {
	token, _, err := suite.jwtManager.GenerateToken(suite.supervisor)
	suite.Require().NoError(err)

	claims, err := suite.jwtManager.ValidateToken(token)

	suite.Require().NoError(err)
	suite.Equal(suite.supervisor.ID, claims.UserID)
}

// TestValidateTokenExpired tests ValidateToken with expired token
func (suite *AuthMiddlewareTestSuite) TestValidateTokenExpired() {
	claims := &models.JWTClaims{
		UserID: "supervisor-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-1 * time.Hour)),
		},
	}
	tokenString, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(suite.config.JWTSecret))

	_, err := suite.jwtManager.ValidateToken(tokenString)

	suite.Error(err)
	suite.Contains(err.Error(), "expired")
}

func (suite *AuthMiddlewareTestSuite) TestValidateTokenWrongSecret() {
	other := NewJWTManager(&models.Config{AppName: "TestApp", JWTSecret: "another-secret", JWTExpiresIn: time.Minute}, suite.mockLogger)
	token, _, err := other.GenerateToken(suite.supervisor)
	suite.Require().NoError(err)

	_, err = suite.jwtManager.ValidateToken(token)

	suite.Error(err)
}

func (suite *AuthMiddlewareTestSuite) TestValidateTokenRejectsOtherAlgorithms() {
	claims := &models.JWTClaims{UserID: "supervisor-1"}
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(suite.config.JWTSecret))
	suite.Require().NoError(err)

	_, err = suite.jwtManager.ValidateToken(tokenString)

	suite.Error(err)
	suite.Contains(err.Error(), "invalid signing algorithm")
}

// TestValidateTokenInvalid tests ValidateToken with invalid token
func (suite *AuthMiddlewareTestSuite) TestValidateTokenInvalid() {
	_, err := suite.jwtManager.ValidateToken("invalid-token")
	suite.Error(err)
}

func (suite *AuthMiddlewareTestSuite) TestRevokeToken() {
	token, expiresAt, err := suite.jwtManager.GenerateToken(suite.supervisor)
	suite.Require().NoError(err)
	claims, err := suite.jwtManager.ValidateToken(token)
	suite.Require().NoError(err)

	suite.jwtManager.RevokeToken(claims.ID, expiresAt)

	_, err = suite.jwtManager.ValidateToken(token)
	suite.Error(err)
	suite.Contains(err.Error(), "revoked")
}

func (suite *AuthMiddlewareTestSuite) TestCleanupExpiredTokens() {
	now := time.Now()
	suite.jwtManager.RevokeToken("expired", now.Add(-time.Minute))
	suite.jwtManager.RevokeToken("live", now.Add(time.Minute))

	removed := suite.jwtManager.CleanupExpiredTokens()

	suite.Equal(1, removed)
	suite.Contains(suite.jwtManager.BlacklistedTokens, "live")
	suite.NotContains(suite.jwtManager.BlacklistedTokens, "expired")
}

func (suite *AuthMiddlewareTestSuite) TestAuthMiddleware() {
	token, _, err := suite.jwtManager.GenerateToken(suite.supervisor)
	suite.Require().NoError(err)

	testCases := []struct {
		name       string
		header     string
		wantStatus int
		wantMsg    string
	}{
		{"valid token", "Bearer " + token, http.StatusOK, ""},
		{"missing header", "", http.StatusUnauthorized, "Missing Authorization header"},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized, "Invalid Authorization header format"},
		{"empty bearer", "Bearer   ", http.StatusUnauthorized, "Invalid Authorization header format"},
		{"bad token", "Bearer nope", http.StatusUnauthorized, "Invalid or expired token"},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			w := suite.request("/me", tc.header)
			suite.Equal(tc.wantStatus, w.Code)

			if tc.wantMsg == "" {
				var body map[string]string
				suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
				suite.Equal("supervisor-1", body["user_id"])
				return
			}
			var response models.APIResponse
			suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
			suite.Equal("error", response.Status)
			suite.Equal(tc.wantMsg, response.Message)
			suite.Equal("AuthenticationError", response.Error.Type)
		})
	}
}

func (suite *AuthMiddlewareTestSuite) TestRequireRole() {
	token, _, err := suite.jwtManager.GenerateToken(suite.supervisor)
	suite.Require().NoError(err)

	w := suite.request("/admin", "Bearer "+token)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	admin := suite.supervisor
	admin.Role = "admin"
	token, _, err = suite.jwtManager.GenerateToken(admin)
	suite.Require().NoError(err)

	w = suite.request("/admin", "Bearer "+token)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
}
