package quote

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-logr/logr"
	"github.com/shengyanli1982/quotes-go/internal/constants"
	"github.com/shengyanli1982/quotes-go/internal/response"
)

// RouteLimits 代表挂载到各类路由上的中间件
type RouteLimits struct {
	// Group 作用于全部名言路由
	Group []gin.HandlerFunc
	// Write 作用于创建、更新、删除
	Write []gin.HandlerFunc
	// Like 作用于点赞与取消点赞
	Like []gin.HandlerFunc
}

// Handler 代表名言 HTTP 接口，实现 orbit 服务的 RegisterGroup
type Handler struct {
	service *Service
	limits  RouteLimits
	logger  *logr.Logger
}

// NewHandler 创建新的名言接口实例
func NewHandler(service *Service, limits RouteLimits, logger *logr.Logger) *Handler {
	return &Handler{
		service: service,
		limits:  limits,
		logger:  logger,
	}
}

// RegisterGroup 在 g 下注册 /v1/quotes 路由
func (h *Handler) RegisterGroup(g *gin.RouterGroup) {
	quotes := g.Group(constants.RouteQuotes, h.limits.Group...)

	quotes.GET("", h.handleList)
	quotes.GET("/tags", h.handleTags)
	quotes.GET("/tags/all", h.handleTags)
	quotes.GET("/authors", h.handleAuthors)
	quotes.GET("/authors/all", h.handleAuthors)
	quotes.GET("/:id", h.handleGet)

	quotes.POST("", h.withLimits(h.limits.Write, h.handleCreate)...)
	quotes.PATCH("/:id", h.withLimits(h.limits.Write, h.handleUpdate)...)
	quotes.DELETE("/:id", h.withLimits(h.limits.Write, h.handleDelete)...)

	quotes.POST("/:id/like", h.withLimits(h.limits.Like, h.handleLike)...)
	quotes.POST("/:id/unlike", h.withLimits(h.limits.Like, h.handleUnlike)...)
}

// withLimits 返回中间件在前、处理器在后的新切片
func (h *Handler) withLimits(middlewares []gin.HandlerFunc, handler gin.HandlerFunc) []gin.HandlerFunc {
	chain := make([]gin.HandlerFunc, 0, len(middlewares)+1)
	chain = append(chain, middlewares...)
	return append(chain, handler)
}

func (h *Handler) handleList(c *gin.Context) {
	var query ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(response.CodeBadRequest, "Invalid pagination parameters").
			WithDetail(err.Error()).
			JSON(c, http.StatusBadRequest)
		return
	}

	items, total, normalized, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		h.writeError(c, "", err)
		return
	}

	response.Paginated(items, total, normalized.Page, normalized.Limit).JSON(c, http.StatusOK)
}

func (h *Handler) handleTags(c *gin.Context) {
	tags, err := h.service.Tags(c.Request.Context())
	if err != nil {
		h.writeError(c, "", err)
		return
	}
	response.OK(c, tags)
}

func (h *Handler) handleAuthors(c *gin.Context) {
	authors, err := h.service.Authors(c.Request.Context())
	if err != nil {
		h.writeError(c, "", err)
		return
	}
	response.OK(c, authors)
}

func (h *Handler) handleGet(c *gin.Context) {
	id := c.Param("id")
	q, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, id, err)
		return
	}
	response.OK(c, q)
}

func (h *Handler) handleCreate(c *gin.Context) {
	var input CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	q, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		h.writeError(c, "", err)
		return
	}
	response.Created(c, q)
}

func (h *Handler) handleUpdate(c *gin.Context) {
	id := c.Param("id")

	var input UpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	q, err := h.service.Update(c.Request.Context(), id, input)
	if err != nil {
		h.writeError(c, id, err)
		return
	}
	response.OK(c, q)
}

func (h *Handler) handleDelete(c *gin.Context) {
	id := c.Param("id")
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, id, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) handleLike(c *gin.Context) {
	id := c.Param("id")
	q, err := h.service.Like(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, id, err)
		return
	}
	response.OK(c, q)
}

func (h *Handler) handleUnlike(c *gin.Context) {
	id := c.Param("id")
	q, err := h.service.Unlike(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, id, err)
		return
	}
	response.OK(c, q)
}

// writeError 将业务错误映射为 HTTP 状态码
func (h *Handler) writeError(c *gin.Context, id string, err error) {
	var validationErr *ValidationError

	switch {
	case errors.Is(err, ErrInvalidID):
		response.BadRequest(c, constants.ErrMsgInvalidUUID)
	case errors.As(err, &validationErr):
		response.Error(response.CodeBadRequest, "Validation failed").
			WithDetail(validationErr.Messages).
			JSON(c, http.StatusBadRequest)
	case errors.Is(err, ErrInvalidQuote):
		response.BadRequest(c, err.Error())
	case errors.Is(err, ErrQuoteNotFound):
		response.NotFound(c, fmt.Sprintf("Quote with ID %s not found", id))
	default:
		h.logger.Error(err, "quote request failed", "path", c.FullPath())
		response.InternalServerError(c, "Internal server error")
	}
}
