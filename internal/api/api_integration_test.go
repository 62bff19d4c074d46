package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/wfunc/nation-game/internal/repository"
	"github.com/wfunc/nation-game/internal/service"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// APIIntegrationTestSuite API集成测试套件
type APIIntegrationTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *Router
}

// SetupTest 每个测试前执行
func (suite *APIIntegrationTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	suite.db = repository.SetupTestDB()
	services := service.NewServices(suite.db, service.DefaultConfig(), nil, nil, zap.NewNop())
	suite.router = NewRouter(suite.db, services, zap.NewNop())
}

// TearDownTest 每个测试后执行
func (suite *APIIntegrationTestSuite) TearDownTest() {
	repository.CleanupTestDB(suite.db)
}

// request 发送测试请求
func (suite *APIIntegrationTestSuite) request(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		err := json.NewEncoder(&buf).Encode(body)
		assert.NoError(suite.T(), err)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	suite.router.GetEngine().ServeHTTP(w, req)
	return w
}

// decode 解析响应信封
func (suite *APIIntegrationTestSuite) decode(w *httptest.ResponseRecorder) (bool, string, map[string]interface{}) {
	var resp struct {
		Success bool                   `json:"success"`
		Message string                 `json:"message"`
		Data    map[string]interface{} `json:"data"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(suite.T(), err)
	return resp.Success, resp.Message, resp.Data
}

// registerPlayer 注册玩家并返回用户ID与访问令牌
func (suite *APIIntegrationTestSuite) registerPlayer(username string) (uint, string) {
	w := suite.request(http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username":         username,
		"email":            username + "@example.com",
		"password":         "password123",
		"confirm_password": "password123",
	})
	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	success, _, data := suite.decode(w)
	assert.True(suite.T(), success)

	user := data["user"].(map[string]interface{})
	userID := uint(user["id"].(float64))
	token := data["access_token"].(string)
	assert.NotEmpty(suite.T(), token)

	return userID, token
}

// TestHealthCheck 测试健康检查
func (suite *APIIntegrationTestSuite) TestHealthCheck() {
	w := suite.request(http.MethodGet, "/health", "", nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "healthy")
}

// TestRegisterAndLogin 测试注册登录
func (suite *APIIntegrationTestSuite) TestRegisterAndLogin() {
	suite.registerPlayer("commander")

	w := suite.request(http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"account":  "commander",
		"password": "password123",
	})
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	success, _, data := suite.decode(w)
	assert.True(suite.T(), success)
	assert.NotEmpty(suite.T(), data["access_token"])

	// 密码错误
	w = suite.request(http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"account":  "commander",
		"password": "wrong",
	})
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
	success, _, _ = suite.decode(w)
	assert.False(suite.T(), success)
}

// TestAuthRequired 测试未认证访问被拒绝
func (suite *APIIntegrationTestSuite) TestAuthRequired() {
	w := suite.request(http.MethodGet, "/api/v1/worldMap", "", nil)
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

// TestArmyManagement 测试军队预算接口
func (suite *APIIntegrationTestSuite) TestArmyManagement() {
	userID, token := suite.registerPlayer("commander")

	// 建国前没有军队记录
	path := fmt.Sprintf("/api/v1/users/%d/armyManagement", userID)
	w := suite.request(http.MethodPost, path, token, gin.H{"airForce": 1})
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)

	w = suite.request(http.MethodPost, fmt.Sprintf("/api/v1/users/%d/countrySelection", userID), token, gin.H{
		"country": "Atlantis",
		"color":   "crimson",
	})
	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	w = suite.request(http.MethodPost, path, token, gin.H{
		"airForce": 1000,
		"navy":     2000,
		"ground":   3000,
		"nuclear":  500,
	})
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	success, _, data := suite.decode(w)
	assert.True(suite.T(), success)
	assert.EqualValues(suite.T(), 1000, data["air_force"])

	w = suite.request(http.MethodGet, path, token, nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
}

// TestRequireSelf 测试只能操作自己的国家
func (suite *APIIntegrationTestSuite) TestRequireSelf() {
	userID, _ := suite.registerPlayer("commander")
	_, rivalToken := suite.registerPlayer("rival")

	path := fmt.Sprintf("/api/v1/users/%d/armyManagement", userID)
	w := suite.request(http.MethodPost, path, rivalToken, gin.H{"airForce": 1})
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

// TestCountrySelectionConflict 测试国家选择冲突
func (suite *APIIntegrationTestSuite) TestCountrySelectionConflict() {
	userID, token := suite.registerPlayer("commander")
	rivalID, rivalToken := suite.registerPlayer("rival")

	w := suite.request(http.MethodPost, fmt.Sprintf("/api/v1/users/%d/countrySelection", userID), token, gin.H{
		"country": "Atlantis",
		"color":   "crimson",
	})
	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	// 国家冲突
	w = suite.request(http.MethodPost, fmt.Sprintf("/api/v1/users/%d/countrySelection", rivalID), rivalToken, gin.H{
		"country": "Atlantis",
		"color":   "azure",
	})
	assert.Equal(suite.T(), http.StatusConflict, w.Code)

	// 颜色冲突
	w = suite.request(http.MethodPost, fmt.Sprintf("/api/v1/users/%d/countrySelection", rivalID), rivalToken, gin.H{
		"country": "Midgard",
		"color":   "crimson",
	})
	assert.Equal(suite.T(), http.StatusConflict, w.Code)
}

// TestCaptureAndWorldMap 测试占领与世界地图
func (suite *APIIntegrationTestSuite) TestCaptureAndWorldMap() {
	userID, token := suite.registerPlayer("commander")

	w := suite.request(http.MethodPost, fmt.Sprintf("/api/v1/users/%d/countrySelection", userID), token, gin.H{
		"country": "Atlantis",
		"color":   "crimson",
	})
	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	w = suite.request(http.MethodPost, fmt.Sprintf("/api/v1/users/%d/captureCountry", userID), token, gin.H{
		"country": "Midgard",
	})
	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	// 重复占领
	w = suite.request(http.MethodPost, fmt.Sprintf("/api/v1/users/%d/captureCountry", userID), token, gin.H{
		"country": "Midgard",
	})
	assert.Equal(suite.T(), http.StatusConflict, w.Code)

	w = suite.request(http.MethodGet, "/api/v1/worldMap", token, nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	success, _, data := suite.decode(w)
	assert.True(suite.T(), success)
	captures := data["captures"].([]interface{})
	assert.Len(suite.T(), captures, 1)

	countries := data["countries"].([]interface{})
	assert.Len(suite.T(), countries, 1)
	entry := countries[0].(map[string]interface{})
	assert.Equal(suite.T(), "Atlantis", entry["name"])
	assert.Equal(suite.T(), "commander", entry["controlledBy"])
	assert.Equal(suite.T(), "crimson", entry["color"])
}

// TestCountryFeatures 测试国家全景数据
func (suite *APIIntegrationTestSuite) TestCountryFeatures() {
	userID, token := suite.registerPlayer("commander")

	w := suite.request(http.MethodPost, fmt.Sprintf("/api/v1/users/%d/countrySelection", userID), token, gin.H{
		"country": "Atlantis",
		"color":   "crimson",
	})
	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	w = suite.request(http.MethodPost, fmt.Sprintf("/api/v1/users/%d/armyManagement", userID), token, gin.H{
		"airForce": 1000,
	})
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	w = suite.request(http.MethodGet, "/api/v1/countries/Atlantis/features", token, nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	success, _, data := suite.decode(w)
	assert.True(suite.T(), success)
	assert.NotNil(suite.T(), data["army"])
	assert.NotNil(suite.T(), data["countrySelection"])

	// 未被选择的国家
	w = suite.request(http.MethodGet, "/api/v1/countries/Nowhere/features", token, nil)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestRandomEvent 测试随机事件接口
func (suite *APIIntegrationTestSuite) TestRandomEvent() {
	userID, token := suite.registerPlayer("commander")

	w := suite.request(http.MethodPost, fmt.Sprintf("/api/v1/users/%d/randomEvent", userID), token, nil)
	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	success, _, data := suite.decode(w)
	assert.True(suite.T(), success)
	assert.Contains(suite.T(), []string{"attack", "disaster", "economic shift"}, data["event_type"])
	assert.NotNil(suite.T(), data["impact"])
}

// TestStoryCRUD 测试故事接口
func (suite *APIIntegrationTestSuite) TestStoryCRUD() {
	_, token := suite.registerPlayer("author")
	_, rivalToken := suite.registerPlayer("rival")

	w := suite.request(http.MethodPost, "/api/v1/stories", token, gin.H{
		"title":   "The Great War",
		"content": "armies clashed",
	})
	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	success, _, data := suite.decode(w)
	assert.True(suite.T(), success)
	storyID := uint(data["id"].(float64))

	// 未登录可读
	w = suite.request(http.MethodGet, fmt.Sprintf("/api/v1/stories/%d", storyID), "", nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	// 非作者不能改
	w = suite.request(http.MethodPut, fmt.Sprintf("/api/v1/stories/%d", storyID), rivalToken, gin.H{
		"title":   "Stolen",
		"content": "rewritten",
	})
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	// 作者可删
	w = suite.request(http.MethodDelete, fmt.Sprintf("/api/v1/stories/%d", storyID), token, nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	w = suite.request(http.MethodGet, fmt.Sprintf("/api/v1/stories/%d", storyID), "", nil)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestStorySearch 测试故事搜索接口
func (suite *APIIntegrationTestSuite) TestStorySearch() {
	_, token := suite.registerPlayer("author")

	for _, title := range []string{"The Great War", "Peace Treaty"} {
		w := suite.request(http.MethodPost, "/api/v1/stories", token, gin.H{
			"title":   title,
			"content": "entry",
		})
		assert.Equal(suite.T(), http.StatusCreated, w.Code)
	}

	w := suite.request(http.MethodGet, "/api/v1/stories/search?keyword=war", "", nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "The Great War")

	// 空关键词返回全部
	w = suite.request(http.MethodGet, "/api/v1/stories/search?keyword=", "", nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "Peace Treaty")
}

// TestStoryListPagination 测试故事列表limit分页参数
func (suite *APIIntegrationTestSuite) TestStoryListPagination() {
	_, token := suite.registerPlayer("author")

	for i := 0; i < 3; i++ {
		w := suite.request(http.MethodPost, "/api/v1/stories", token, gin.H{
			"title":   fmt.Sprintf("Chronicle %d", i),
			"content": "entry",
		})
		assert.Equal(suite.T(), http.StatusCreated, w.Code)
	}

	w := suite.request(http.MethodGet, "/api/v1/stories?page=1&limit=2", "", nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	success, _, data := suite.decode(w)
	assert.True(suite.T(), success)
	stories := data["stories"].([]interface{})
	assert.Len(suite.T(), stories, 2)
	assert.EqualValues(suite.T(), 3, data["total"])

	// page_size作为别名仍然生效
	w = suite.request(http.MethodGet, "/api/v1/stories?page=2&page_size=2", "", nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	_, _, data = suite.decode(w)
	stories = data["stories"].([]interface{})
	assert.Len(suite.T(), stories, 1)
}

// TestEmailChangeFlow 测试换绑邮箱接口
func (suite *APIIntegrationTestSuite) TestEmailChangeFlow() {
	_, token := suite.registerPlayer("commander")

	w := suite.request(http.MethodPost, "/api/v1/profile/email", token, gin.H{
		"email": "new@example.com",
	})
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	// 从数据库取令牌模拟点击邮件链接
	var verifyToken string
	err := suite.db.Raw("SELECT email_verify_token FROM users WHERE username = ?", "commander").Scan(&verifyToken).Error
	assert.NoError(suite.T(), err)
	assert.NotEmpty(suite.T(), verifyToken)

	w = suite.request(http.MethodGet, "/api/v1/auth/verify-email?token="+verifyToken, "", nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	success, _, data := suite.decode(w)
	assert.True(suite.T(), success)
	assert.Equal(suite.T(), "new@example.com", data["email"])
}

// TestAPIIntegrationTestSuite 运行测试套件
func TestAPIIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(APIIntegrationTestSuite))
}
