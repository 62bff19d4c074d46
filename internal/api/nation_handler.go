package api

import (
	"github.com/gin-gonic/gin"
	"github.com/wfunc/nation-game/internal/service"
)

// NationHandler 国家经营处理器
type NationHandler struct {
	nationService service.NationService
}

// NewNationHandler 创建国家经营处理器
func NewNationHandler(nationService service.NationService) *NationHandler {
	return &NationHandler{nationService: nationService}
}

// UpdateArmy 更新军队预算
// @Summary 更新军队预算
// @Description 整体覆盖四个兵种的预算分配
// @Tags Nation
// @Security Bearer
// @Accept json
// @Produce json
// @Param userId path int true "用户ID"
// @Param request body service.ArmyRequest true "预算分配"
// @Success 200 {object} Response
// @Failure 404 {object} Response
// @Router /api/v1/users/{userId}/armyManagement [post]
func (h *NationHandler) UpdateArmy(c *gin.Context) {
	userID, ok := pathUserID(c)
	if !ok {
		return
	}

	var req service.ArmyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "请求参数错误")
		return
	}

	army, err := h.nationService.UpdateArmy(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "军队预算已更新", army)
}

// GetArmy 查询军队预算
// @Summary 查询军队预算
// @Tags Nation
// @Security Bearer
// @Produce json
// @Param userId path int true "用户ID"
// @Success 200 {object} Response
// @Failure 404 {object} Response
// @Router /api/v1/users/{userId}/armyManagement [get]
func (h *NationHandler) GetArmy(c *gin.Context) {
	userID, ok := pathUserID(c)
	if !ok {
		return
	}

	army, err := h.nationService.GetArmy(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "获取成功", army)
}

// UpdateGDP 更新国民经济
// @Summary 更新国民经济
// @Description 更新产业结构与税率
// @Tags Nation
// @Security Bearer
// @Accept json
// @Produce json
// @Param userId path int true "用户ID"
// @Param request body service.GDPRequest true "经济数据"
// @Success 200 {object} Response
// @Failure 404 {object} Response
// @Router /api/v1/users/{userId}/gdpManagement [post]
func (h *NationHandler) UpdateGDP(c *gin.Context) {
	userID, ok := pathUserID(c)
	if !ok {
		return
	}

	var req service.GDPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "请求参数错误")
		return
	}

	gdp, err := h.nationService.UpdateGDP(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "国民经济已更新", gdp)
}

// GetSentiment 查询民意
// @Summary 查询民意
// @Description 读取后台演算的民意与叛乱标志
// @Tags Nation
// @Security Bearer
// @Produce json
// @Param userId path int true "用户ID"
// @Success 200 {object} Response
// @Failure 404 {object} Response
// @Router /api/v1/users/{userId}/publicSentiment [get]
func (h *NationHandler) GetSentiment(c *gin.Context) {
	userID, ok := pathUserID(c)
	if !ok {
		return
	}

	sentiment, err := h.nationService.GetSentiment(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "获取成功", sentiment)
}

// SetDiplomacy 设置外交关系
// @Summary 设置外交关系
// @Description 对目标国家设置friendly、neutral或rival关系
// @Tags Nation
// @Security Bearer
// @Accept json
// @Produce json
// @Param userId path int true "用户ID"
// @Param request body service.DiplomacyRequest true "外交关系"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Router /api/v1/users/{userId}/diplomaticRelationships [post]
func (h *NationHandler) SetDiplomacy(c *gin.Context) {
	userID, ok := pathUserID(c)
	if !ok {
		return
	}

	var req service.DiplomacyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "请求参数错误")
		return
	}

	rel, err := h.nationService.SetDiplomacy(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "外交关系已更新", rel)
}

// ListDiplomacy 查询外交关系列表
// @Summary 查询外交关系列表
// @Tags Nation
// @Security Bearer
// @Produce json
// @Param userId path int true "用户ID"
// @Success 200 {object} Response
// @Router /api/v1/users/{userId}/diplomaticRelationships [get]
func (h *NationHandler) ListDiplomacy(c *gin.Context) {
	userID, ok := pathUserID(c)
	if !ok {
		return
	}

	list, err := h.nationService.ListDiplomacy(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "获取成功", list)
}
