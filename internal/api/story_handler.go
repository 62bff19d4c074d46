package api

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wfunc/nation-game/internal/middleware"
	"github.com/wfunc/nation-game/internal/service"
)

// StoryHandler 故事处理器
type StoryHandler struct {
	storyService service.StoryService
}

// NewStoryHandler 创建故事处理器
func NewStoryHandler(storyService service.StoryService) *StoryHandler {
	return &StoryHandler{storyService: storyService}
}

// CreateStory 创建故事
// @Summary 发布故事
// @Tags Story
// @Security Bearer
// @Accept json
// @Produce json
// @Param request body service.StoryRequest true "故事内容"
// @Success 201 {object} Response
// @Failure 400 {object} Response
// @Router /api/v1/stories [post]
func (h *StoryHandler) CreateStory(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		respondBadRequest(c, "未登录")
		return
	}

	var req service.StoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "请求参数错误")
		return
	}

	story, err := h.storyService.CreateStory(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondCreated(c, "故事发布成功", story)
}

// UpdateStory 更新故事
// @Summary 更新故事
// @Description 仅作者本人可更新
// @Tags Story
// @Security Bearer
// @Accept json
// @Produce json
// @Param id path int true "故事ID"
// @Param request body service.StoryRequest true "故事内容"
// @Success 200 {object} Response
// @Failure 403 {object} Response
// @Failure 404 {object} Response
// @Router /api/v1/stories/{id} [put]
func (h *StoryHandler) UpdateStory(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		respondBadRequest(c, "未登录")
		return
	}

	storyID, ok := pathStoryID(c)
	if !ok {
		return
	}

	var req service.StoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "请求参数错误")
		return
	}

	story, err := h.storyService.UpdateStory(c.Request.Context(), userID, storyID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "故事更新成功", story)
}

// DeleteStory 删除故事
// @Summary 删除故事
// @Description 仅作者本人可删除
// @Tags Story
// @Security Bearer
// @Produce json
// @Param id path int true "故事ID"
// @Success 200 {object} Response
// @Failure 403 {object} Response
// @Failure 404 {object} Response
// @Router /api/v1/stories/{id} [delete]
func (h *StoryHandler) DeleteStory(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		respondBadRequest(c, "未登录")
		return
	}

	storyID, ok := pathStoryID(c)
	if !ok {
		return
	}

	if err := h.storyService.DeleteStory(c.Request.Context(), userID, storyID); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "故事删除成功", nil)
}

// GetStory 获取故事详情
// @Summary 获取故事详情
// @Tags Story
// @Produce json
// @Param id path int true "故事ID"
// @Success 200 {object} Response
// @Failure 404 {object} Response
// @Router /api/v1/stories/{id} [get]
func (h *StoryHandler) GetStory(c *gin.Context) {
	storyID, ok := pathStoryID(c)
	if !ok {
		return
	}

	story, err := h.storyService.GetStory(c.Request.Context(), storyID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "获取成功", story)
}

// ListStories 获取故事列表
// @Summary 故事分页列表
// @Description 按发布时间倒序分页
// @Tags Story
// @Produce json
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(10)
// @Success 200 {object} Response
// @Router /api/v1/stories [get]
func (h *StoryHandler) ListStories(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	// limit为标准参数，page_size作为别名保留
	pageSize, _ := strconv.Atoi(c.DefaultQuery("limit", c.DefaultQuery("page_size", "10")))

	stories, total, err := h.storyService.ListStories(c.Request.Context(), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "获取成功", gin.H{
		"stories": stories,
		"total":   total,
		"page":    page,
	})
}

// SearchStories 搜索故事
// @Summary 搜索故事
// @Description 按标题与正文做大小写不敏感的关键词匹配
// @Tags Story
// @Produce json
// @Param keyword query string false "关键词，留空返回全部"
// @Success 200 {object} Response
// @Router /api/v1/stories/search [get]
func (h *StoryHandler) SearchStories(c *gin.Context) {
	stories, err := h.storyService.SearchStories(c.Request.Context(), c.Query("keyword"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "获取成功", stories)
}

// pathStoryID 解析路径中的故事ID
func pathStoryID(c *gin.Context) (uint, bool) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "无效的故事ID")
		return 0, false
	}
	return id, true
}
