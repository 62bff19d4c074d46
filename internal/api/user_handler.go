package api

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wfunc/nation-game/internal/middleware"
	"github.com/wfunc/nation-game/internal/service"
)

// UserHandler 用户资料处理器
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler 创建用户资料处理器
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetProfile 获取用户资料
// @Summary 获取用户资料
// @Description 获取指定玩家的公开资料
// @Tags User
// @Security Bearer
// @Produce json
// @Param userId path int true "用户ID"
// @Success 200 {object} Response
// @Failure 404 {object} Response
// @Router /api/v1/users/{userId}/profile [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := pathUserID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "获取成功", user)
}

// RequestEmailChange 申请换绑邮箱
// @Summary 申请换绑邮箱
// @Description 向新邮箱发送验证邮件，确认前正式邮箱不变
// @Tags User
// @Security Bearer
// @Accept json
// @Produce json
// @Param request body EmailChangeRequest true "新邮箱"
// @Success 200 {object} Response
// @Failure 409 {object} Response
// @Router /api/v1/profile/email [post]
func (h *UserHandler) RequestEmailChange(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		respondBadRequest(c, "未登录")
		return
	}

	var req EmailChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "请求参数错误")
		return
	}

	if err := h.userService.RequestEmailChange(c.Request.Context(), userID, req.Email); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "验证邮件已发送至新邮箱", nil)
}

// ChangePassword 修改密码
// @Summary 修改密码
// @Description 校验旧密码后更新为新密码
// @Tags User
// @Security Bearer
// @Accept json
// @Produce json
// @Param request body PasswordChangeRequest true "密码信息"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Router /api/v1/profile/password [post]
func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		respondBadRequest(c, "未登录")
		return
	}

	var req PasswordChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "请求参数错误")
		return
	}

	if err := h.userService.ChangePassword(c.Request.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "密码修改成功", nil)
}

// pathUserID 解析路径中的userId参数
func pathUserID(c *gin.Context) (uint, bool) {
	id, err := parseID(c.Param("userId"))
	if err != nil {
		respondBadRequest(c, "无效的用户ID")
		return 0, false
	}
	return id, true
}

// parseID 解析正整数ID
func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, strconv.ErrRange
	}
	return uint(id), nil
}

// EmailChangeRequest 换绑邮箱请求
type EmailChangeRequest struct {
	Email string `json:"email" binding:"required"`
}

// PasswordChangeRequest 修改密码请求
type PasswordChangeRequest struct {
	OldPassword     string `json:"old_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=NewPassword"`
}
