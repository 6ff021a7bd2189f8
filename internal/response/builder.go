// Package response 提供统一的HTTP响应信封格式
//
// 所有接口返回相同的信封结构：
//
//	{"success": true, "message": "...", "data": ...}
//	{"success": false, "message": "...", "data": null, "error": {"code": "...", "details": ...}}
//
// 基本用法：
//
//	// 成功响应
//	response.Success(data).JSON(c, http.StatusOK)
//
//	// 错误响应
//	response.Error(CodeBadRequest, "Text is required").WithDetail(details).JSON(c, http.StatusBadRequest)
//
//	// 便捷方法
//	response.OK(c, data)
//	response.BadRequest(c, "Invalid UUID format")
//
//	// 分页响应
//	response.Paginated(items, totalItems, page, limit).JSON(c, http.StatusOK)
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 错误代码常量定义
const (
	CodeBadRequest         = "BAD_REQUEST"         // 请求参数错误
	CodeNotFound           = "NOT_FOUND"           // 资源未找到
	CodeRateLimitExceeded  = "RATE_LIMIT_EXCEEDED" // 固定窗口配额耗尽
	CodeThrottled          = "THROTTLED"           // 令牌桶限流
	CodeInternalError      = "INTERNAL_ERROR"      // 服务器内部错误
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE" // 服务不可用
)

// MessageSuccess 成功响应的默认提示
const MessageSuccess = "Operation completed successfully"

// ErrorBody 代表错误信封中的 error 字段
type ErrorBody struct {
	Code    string      `json:"code"`
	Details interface{} `json:"details,omitempty"`
}

// Envelope 代表统一响应信封
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

// ResponseBuilder 是统一响应构建器
type ResponseBuilder struct {
	response *Envelope
}

// Success 创建成功响应构建器
func Success(data interface{}) *ResponseBuilder {
	return &ResponseBuilder{
		response: &Envelope{
			Success: true,
			Message: MessageSuccess,
			Data:    data,
		},
	}
}

// Error 创建错误响应构建器
func Error(code string, message string) *ResponseBuilder {
	return &ResponseBuilder{
		response: &Envelope{
			Success: false,
			Message: message,
			Error:   &ErrorBody{Code: code},
		},
	}
}

// WithDetail 添加错误详细信息，支持链式调用
func (r *ResponseBuilder) WithDetail(detail interface{}) *ResponseBuilder {
	if r.response.Error == nil {
		r.response.Error = &ErrorBody{}
	}
	r.response.Error.Details = detail
	return r
}

// WithData 设置响应数据，支持链式调用
func (r *ResponseBuilder) WithData(data interface{}) *ResponseBuilder {
	r.response.Data = data
	return r
}

// WithMessage 覆盖提示信息，支持链式调用
func (r *ResponseBuilder) WithMessage(message string) *ResponseBuilder {
	r.response.Message = message
	return r
}

// JSON 将响应输出为JSON格式到gin.Context
func (r *ResponseBuilder) JSON(c *gin.Context, httpStatus int) {
	c.JSON(httpStatus, r.response)
}

// AbortJSON 输出响应并终止后续处理器
func (r *ResponseBuilder) AbortJSON(c *gin.Context, httpStatus int) {
	c.AbortWithStatusJSON(httpStatus, r.response)
}

// GetResponse 获取底层的响应信封
func (r *ResponseBuilder) GetResponse() *Envelope {
	return r.response
}

// 便捷方法：常见的成功响应

// OK 返回标准的成功响应（HTTP 200）
func OK(c *gin.Context, data interface{}) {
	Success(data).JSON(c, http.StatusOK)
}

// Created 返回创建成功响应（HTTP 201）
func Created(c *gin.Context, data interface{}) {
	Success(data).JSON(c, http.StatusCreated)
}

// NoContent 返回无内容响应（HTTP 204）
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// 便捷方法：常见的错误响应

// BadRequest 返回客户端请求错误响应（HTTP 400）
func BadRequest(c *gin.Context, message string) {
	Error(CodeBadRequest, message).JSON(c, http.StatusBadRequest)
}

// NotFound 返回资源未找到错误响应（HTTP 404）
func NotFound(c *gin.Context, message string) {
	Error(CodeNotFound, message).JSON(c, http.StatusNotFound)
}

// InternalServerError 返回服务器内部错误响应（HTTP 500）
func InternalServerError(c *gin.Context, message string) {
	Error(CodeInternalError, message).JSON(c, http.StatusInternalServerError)
}

// ServiceUnavailable 返回服务不可用错误响应（HTTP 503）
func ServiceUnavailable(c *gin.Context, message string) {
	Error(CodeServiceUnavailable, message).JSON(c, http.StatusServiceUnavailable)
}

// PaginationMeta 代表分页元信息
type PaginationMeta struct {
	CurrentPage     int  `json:"currentPage"`
	ItemsPerPage    int  `json:"itemsPerPage"`
	TotalItems      int  `json:"totalItems"`
	TotalPages      int  `json:"totalPages"`
	HasNextPage     bool `json:"hasNextPage"`
	HasPreviousPage bool `json:"hasPreviousPage"`
}

// NewPaginationMeta 根据当前页、每页数量和总数计算分页元信息
func NewPaginationMeta(currentPage, itemsPerPage, totalItems int) PaginationMeta {
	totalPages := 0
	if itemsPerPage > 0 {
		totalPages = (totalItems + itemsPerPage - 1) / itemsPerPage
	}
	return PaginationMeta{
		CurrentPage:     currentPage,
		ItemsPerPage:    itemsPerPage,
		TotalItems:      totalItems,
		TotalPages:      totalPages,
		HasNextPage:     currentPage < totalPages,
		HasPreviousPage: currentPage > 1,
	}
}

// PaginatedData 代表分页响应的 data 字段
type PaginatedData struct {
	Items interface{}    `json:"items"`
	Meta  PaginationMeta `json:"meta"`
}

// Paginated 创建分页响应构建器
func Paginated(items interface{}, totalItems, page, limit int) *ResponseBuilder {
	return Success(PaginatedData{
		Items: items,
		Meta:  NewPaginationMeta(page, limit, totalItems),
	})
}
