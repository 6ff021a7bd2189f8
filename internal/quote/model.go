// Package quote 提供名言的存储、校验与 HTTP 接口
package quote

import (
	"errors"
	"strings"
	"time"

	"github.com/shengyanli1982/quotes-go/internal/constants"
)

// 业务错误定义
var (
	ErrQuoteNotFound = errors.New(constants.ErrMsgQuoteNotFound)
	ErrInvalidID     = errors.New(constants.ErrMsgInvalidUUID)
	ErrInvalidQuote  = errors.New(constants.ErrMsgInvalidQuote)
)

// Quote 代表一条名言
type Quote struct {
	ID        string    `json:"id"`
	Quote     string    `json:"quote"`
	Author    string    `json:"author"`
	Tags      *string   `json:"tags"`
	LikeCount int       `json:"like_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// clone 返回不共享 Tags 指针的副本
func (q Quote) clone() *Quote {
	if q.Tags != nil {
		tags := *q.Tags
		q.Tags = &tags
	}
	return &q
}

// CreateInput 代表创建名言的请求体
type CreateInput struct {
	Quote  string  `json:"quote" validate:"required,max=1000"`
	Author string  `json:"author" validate:"required,max=200"`
	Tags   *string `json:"tags" validate:"omitempty,max=500,no_semicolon,safe_tags"`
}

// UpdateInput 代表部分更新名言的请求体，nil 字段保持不变
type UpdateInput struct {
	Quote     *string `json:"quote" validate:"omitempty,min=1,max=1000"`
	Author    *string `json:"author" validate:"omitempty,min=1,max=200"`
	Tags      *string `json:"tags" validate:"omitempty,max=500,no_semicolon,safe_tags"`
	LikeCount *int    `json:"like_count" validate:"omitempty,min=0"`
}

// ListQuery 代表列表查询条件
type ListQuery struct {
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Author string `form:"author"`
	Tag    string `form:"tag"`
	Search string `form:"search"`
}

// normalize 填充分页默认值并去除过滤条件的首尾空白
func (q *ListQuery) normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = constants.DefaultPageLimit
	}
	if q.Limit > constants.MaxPageLimit {
		q.Limit = constants.MaxPageLimit
	}
	q.Author = strings.TrimSpace(q.Author)
	q.Tag = strings.TrimSpace(q.Tag)
	q.Search = strings.TrimSpace(q.Search)
}

// ValidationError 代表请求体校验失败，包含逐字段的错误信息
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return constants.ErrMsgInvalidQuote + ": " + strings.Join(e.Messages, "; ")
}

// Unwrap 使 errors.Is(err, ErrInvalidQuote) 成立
func (e *ValidationError) Unwrap() error {
	return ErrInvalidQuote
}

// Patch 代表仓储层的字段更新
type Patch struct {
	Quote     *string
	Author    *string
	Tags      **string
	LikeCount *int
}
