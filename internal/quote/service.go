package quote

import (
	"context"
	"errors"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-playground/validator/v10"
	"github.com/shengyanli1982/quotes-go/internal/metrics"
)

// 操作结果标签
const (
	resultSuccess  = "success"
	resultNotFound = "not_found"
	resultInvalid  = "invalid"
	resultError    = "error"
)

// Service 代表名言业务逻辑：输入规整、校验与指标记录
type Service struct {
	repo      Repository
	validate  *validator.Validate
	collector metrics.MetricsCollector
	logger    *logr.Logger
}

// NewService 创建新的名言服务实例
func NewService(repo Repository, collector metrics.MetricsCollector, logger *logr.Logger) *Service {
	if collector == nil {
		collector = metrics.NewNoopCollector()
	}
	if logger == nil {
		discard := logr.Discard()
		logger = &discard
	}

	return &Service{
		repo:      repo,
		validate:  newValidator(),
		collector: collector,
		logger:    logger,
	}
}

// List 分页查询名言
func (s *Service) List(ctx context.Context, query ListQuery) ([]Quote, int, ListQuery, error) {
	query.normalize()
	items, total, err := s.repo.List(ctx, query)
	s.record("list", err)
	return items, total, query, err
}

// Get 根据ID查询名言
func (s *Service) Get(ctx context.Context, id string) (*Quote, error) {
	if err := ValidateID(id); err != nil {
		s.record("get", err)
		return nil, err
	}
	q, err := s.repo.FindByID(ctx, id)
	s.record("get", err)
	return q, err
}

// Create 创建名言，正文与作者去除首尾空白，空标签保存为 null
func (s *Service) Create(ctx context.Context, input CreateInput) (*Quote, error) {
	input.Quote = strings.TrimSpace(input.Quote)
	input.Author = strings.TrimSpace(input.Author)
	if input.Tags != nil {
		trimmed := strings.TrimSpace(*input.Tags)
		input.Tags = &trimmed
	}

	if err := s.validate.Struct(&input); err != nil {
		err = toValidationError(err)
		s.record("create", err)
		return nil, err
	}

	q, err := s.repo.Create(ctx, Quote{
		Quote:  input.Quote,
		Author: input.Author,
		Tags:   sanitizeOptional(input.Tags),
	})
	s.record("create", err)
	if err == nil {
		s.logger.V(1).Info("quote created", "id", q.ID, "author", q.Author)
	}
	return q, err
}

// Update 部分更新名言
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (*Quote, error) {
	if err := ValidateID(id); err != nil {
		s.record("update", err)
		return nil, err
	}

	input.Quote = trimOptional(input.Quote)
	input.Author = trimOptional(input.Author)
	input.Tags = trimOptional(input.Tags)

	if err := s.validate.Struct(&input); err != nil {
		err = toValidationError(err)
		s.record("update", err)
		return nil, err
	}

	patch := Patch{
		Quote:     input.Quote,
		Author:    input.Author,
		LikeCount: input.LikeCount,
	}
	if input.Tags != nil {
		tags := sanitizeOptional(input.Tags)
		patch.Tags = &tags
	}

	q, err := s.repo.Update(ctx, id, patch)
	s.record("update", err)
	return q, err
}

// Delete 删除名言
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := ValidateID(id); err != nil {
		s.record("delete", err)
		return err
	}
	err := s.repo.Delete(ctx, id)
	s.record("delete", err)
	if err == nil {
		s.logger.V(1).Info("quote deleted", "id", id)
	}
	return err
}

// Like 点赞数加1
func (s *Service) Like(ctx context.Context, id string) (*Quote, error) {
	return s.adjustLikes(ctx, "like", id, 1)
}

// Unlike 点赞数减1，不小于0
func (s *Service) Unlike(ctx context.Context, id string) (*Quote, error) {
	return s.adjustLikes(ctx, "unlike", id, -1)
}

// Tags 返回所有标签
func (s *Service) Tags(ctx context.Context) ([]string, error) {
	tags, err := s.repo.Tags(ctx)
	s.record("tags", err)
	return tags, err
}

// Authors 返回所有作者
func (s *Service) Authors(ctx context.Context) ([]string, error) {
	authors, err := s.repo.Authors(ctx)
	s.record("authors", err)
	return authors, err
}

func (s *Service) adjustLikes(ctx context.Context, operation, id string, delta int) (*Quote, error) {
	if err := ValidateID(id); err != nil {
		s.record(operation, err)
		return nil, err
	}
	q, err := s.repo.AdjustLikes(ctx, id, delta)
	s.record(operation, err)
	return q, err
}

// record 按错误类型记录操作结果
func (s *Service) record(operation string, err error) {
	result := resultSuccess
	switch {
	case err == nil:
	case errors.Is(err, ErrQuoteNotFound):
		result = resultNotFound
	case errors.Is(err, ErrInvalidID), errors.Is(err, ErrInvalidQuote):
		result = resultInvalid
	default:
		result = resultError
		s.logger.Error(err, "quote operation failed", "operation", operation)
	}
	s.collector.RecordQuoteOperation(operation, result)
}

func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	return &trimmed
}

// sanitizeOptional 规整标签，结果为空时返回 nil
func sanitizeOptional(tags *string) *string {
	if tags == nil {
		return nil
	}
	sanitized := SanitizeTags(*tags)
	if sanitized == "" {
		return nil
	}
	return &sanitized
}
