package api

import (
	"github.com/gin-gonic/gin"
	"github.com/wfunc/nation-game/internal/service"
)

// WorldHandler 世界地图处理器
type WorldHandler struct {
	worldService service.WorldService
}

// NewWorldHandler 创建世界地图处理器
func NewWorldHandler(worldService service.WorldService) *WorldHandler {
	return &WorldHandler{worldService: worldService}
}

// SelectCountry 选择国家
// @Summary 选择国家与颜色
// @Description 国家与颜色全服唯一，冲突返回409
// @Tags World
// @Security Bearer
// @Accept json
// @Produce json
// @Param userId path int true "用户ID"
// @Param request body service.SelectionRequest true "国家与颜色"
// @Success 201 {object} Response
// @Failure 409 {object} Response
// @Router /api/v1/users/{userId}/countrySelection [post]
func (h *WorldHandler) SelectCountry(c *gin.Context) {
	userID, ok := pathUserID(c)
	if !ok {
		return
	}

	var req service.SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "请求参数错误")
		return
	}

	selection, err := h.worldService.SelectCountry(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondCreated(c, "国家选择成功", selection)
}

// CaptureCountry 占领国家
// @Summary 占领国家
// @Description 记录占领并发放资源奖励，重复占领返回409
// @Tags World
// @Security Bearer
// @Accept json
// @Produce json
// @Param userId path int true "用户ID"
// @Param request body service.CaptureRequest true "目标国家"
// @Success 201 {object} Response
// @Failure 403 {object} Response
// @Failure 409 {object} Response
// @Router /api/v1/users/{userId}/captureCountry [post]
func (h *WorldHandler) CaptureCountry(c *gin.Context) {
	userID, ok := pathUserID(c)
	if !ok {
		return
	}

	var req service.CaptureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "请求参数错误")
		return
	}

	capture, err := h.worldService.CaptureCountry(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondCreated(c, "占领成功", capture)
}

// TriggerRandomEvent 触发随机事件
// @Summary 触发随机事件
// @Description 随机生成attack、disaster或economic shift事件
// @Tags World
// @Security Bearer
// @Produce json
// @Param userId path int true "用户ID"
// @Success 201 {object} Response
// @Router /api/v1/users/{userId}/randomEvent [post]
func (h *WorldHandler) TriggerRandomEvent(c *gin.Context) {
	userID, ok := pathUserID(c)
	if !ok {
		return
	}

	event, err := h.worldService.TriggerRandomEvent(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondCreated(c, "事件已触发", event)
}

// GetCountryFeatures 获取国家全景数据
// @Summary 获取国家全景数据
// @Description 聚合军队、经济、民意、外交、选择与占领记录
// @Tags World
// @Security Bearer
// @Produce json
// @Param countryId path string true "国家名"
// @Success 200 {object} Response
// @Failure 404 {object} Response
// @Router /api/v1/countries/{countryId}/features [get]
func (h *WorldHandler) GetCountryFeatures(c *gin.Context) {
	features, err := h.worldService.GetCountryFeatures(c.Request.Context(), c.Param("countryId"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "获取成功", features)
}

// GetWorldMap 获取世界地图
// @Summary 获取世界地图
// @Description 返回全部国家（含控制者用户名）与占领记录
// @Tags World
// @Security Bearer
// @Produce json
// @Success 200 {object} Response
// @Router /api/v1/worldMap [get]
func (h *WorldHandler) GetWorldMap(c *gin.Context) {
	worldMap, err := h.worldService.GetWorldMap(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "获取成功", worldMap)
}
