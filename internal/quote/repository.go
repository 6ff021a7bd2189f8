package quote

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository 代表名言存储接口
type Repository interface {
	// List 按条件分页查询，按创建时间倒序，返回当前页与总数
	List(ctx context.Context, query ListQuery) ([]Quote, int, error)

	// FindByID 根据ID查询，不存在时返回 ErrQuoteNotFound
	FindByID(ctx context.Context, id string) (*Quote, error)

	// Create 保存新名言并分配ID与时间戳
	Create(ctx context.Context, quote Quote) (*Quote, error)

	// Update 应用字段更新
	Update(ctx context.Context, id string, patch Patch) (*Quote, error)

	// Delete 删除名言
	Delete(ctx context.Context, id string) error

	// AdjustLikes 原子地调整点赞数，结果不小于0
	AdjustLikes(ctx context.Context, id string, delta int) (*Quote, error)

	// Tags 返回去重、小写、排序后的标签
	Tags(ctx context.Context) ([]string, error)

	// Authors 返回大小写不敏感去重、排序后的作者
	Authors(ctx context.Context) ([]string, error)
}

// record 是存储中的一条记录，seq 用于创建时间相同时的稳定排序
type record struct {
	quote Quote
	seq   uint64
}

// memoryRepository 基于内存的名言存储实现，进程重启后数据丢失
type memoryRepository struct {
	mu      sync.RWMutex
	records map[string]*record
	seq     uint64
	now     func() time.Time
	newID   func() string
}

// RepositoryOption 代表存储构造选项
type RepositoryOption func(*memoryRepository)

// WithNow 设置时间来源
func WithNow(now func() time.Time) RepositoryOption {
	return func(r *memoryRepository) {
		if now != nil {
			r.now = now
		}
	}
}

// NewMemoryRepository 创建新的内存存储实例
func NewMemoryRepository(opts ...RepositoryOption) Repository {
	r := &memoryRepository{
		records: make(map[string]*record),
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *memoryRepository) List(_ context.Context, query ListQuery) ([]Quote, int, error) {
	query.normalize()

	// 持锁期间完成拷贝，锁外只访问副本
	r.mu.RLock()
	matched := make([]record, 0, len(r.records))
	for _, rec := range r.records {
		if matches(&rec.quote, &query) {
			matched = append(matched, record{quote: *rec.quote.clone(), seq: rec.seq})
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		a, b := &matched[i], &matched[j]
		if !a.quote.CreatedAt.Equal(b.quote.CreatedAt) {
			return a.quote.CreatedAt.After(b.quote.CreatedAt)
		}
		return a.seq > b.seq
	})

	total := len(matched)
	start, ok := pageStart(query.Page, query.Limit, total)
	if !ok {
		return []Quote{}, total, nil
	}
	end := start + query.Limit
	if end > total {
		end = total
	}

	items := make([]Quote, 0, end-start)
	for i := start; i < end; i++ {
		items = append(items, matched[i].quote)
	}
	return items, total, nil
}

// pageStart 返回页首下标，页码越界时返回 false，先比较再相乘以免溢出
func pageStart(page, limit, total int) (int, bool) {
	if page < 1 || limit < 1 || total == 0 {
		return 0, false
	}
	if page-1 > (total-1)/limit {
		return 0, false
	}
	return (page - 1) * limit, true
}

func (r *memoryRepository) FindByID(_ context.Context, id string) (*Quote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, exists := r.records[id]
	if !exists {
		return nil, ErrQuoteNotFound
	}
	return rec.quote.clone(), nil
}

func (r *memoryRepository) Create(_ context.Context, quote Quote) (*Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	quote.ID = r.newID()
	quote.CreatedAt = now
	quote.UpdatedAt = now

	r.seq++
	r.records[quote.ID] = &record{quote: *quote.clone(), seq: r.seq}

	return quote.clone(), nil
}

func (r *memoryRepository) Update(_ context.Context, id string, patch Patch) (*Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, exists := r.records[id]
	if !exists {
		return nil, ErrQuoteNotFound
	}

	if patch.Quote != nil {
		rec.quote.Quote = *patch.Quote
	}
	if patch.Author != nil {
		rec.quote.Author = *patch.Author
	}
	if patch.Tags != nil {
		rec.quote.Tags = *patch.Tags
	}
	if patch.LikeCount != nil {
		rec.quote.LikeCount = *patch.LikeCount
	}
	rec.quote.UpdatedAt = r.now()

	return rec.quote.clone(), nil
}

func (r *memoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[id]; !exists {
		return ErrQuoteNotFound
	}
	delete(r.records, id)
	return nil
}

func (r *memoryRepository) AdjustLikes(_ context.Context, id string, delta int) (*Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, exists := r.records[id]
	if !exists {
		return nil, ErrQuoteNotFound
	}

	rec.quote.LikeCount += delta
	if rec.quote.LikeCount < 0 {
		rec.quote.LikeCount = 0
	}
	rec.quote.UpdatedAt = r.now()

	return rec.quote.clone(), nil
}

func (r *memoryRepository) Tags(_ context.Context) ([]string, error) {
	r.mu.RLock()
	seen := make(map[string]struct{})
	for _, rec := range r.records {
		if rec.quote.Tags == nil {
			continue
		}
		for _, tag := range strings.Split(*rec.quote.Tags, ";") {
			tag = strings.ToLower(strings.TrimSpace(tag))
			if tag != "" {
				seen[tag] = struct{}{}
			}
		}
	}
	r.mu.RUnlock()

	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags, nil
}

func (r *memoryRepository) Authors(_ context.Context) ([]string, error) {
	type authorRef struct {
		seq    uint64
		author string
	}

	r.mu.RLock()
	ordered := make([]authorRef, 0, len(r.records))
	for _, rec := range r.records {
		ordered = append(ordered, authorRef{seq: rec.seq, author: rec.quote.Author})
	}
	r.mu.RUnlock()

	// 保留最早出现的写法
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].seq < ordered[j].seq })

	unique := make(map[string]string)
	for _, ref := range ordered {
		author := strings.TrimSpace(ref.author)
		if author == "" {
			continue
		}
		key := strings.ToLower(author)
		if _, exists := unique[key]; !exists {
			unique[key] = author
		}
	}

	authors := make([]string, 0, len(unique))
	for _, author := range unique {
		authors = append(authors, author)
	}
	sort.Strings(authors)
	return authors, nil
}

// matches 判断名言是否满足过滤条件，均为大小写不敏感
func matches(q *Quote, query *ListQuery) bool {
	if query.Author != "" && !strings.Contains(strings.ToLower(q.Author), strings.ToLower(query.Author)) {
		return false
	}
	if query.Tag != "" {
		if q.Tags == nil || !strings.Contains(strings.ToLower(*q.Tags), strings.ToLower(query.Tag)) {
			return false
		}
	}
	if query.Search != "" {
		needle := strings.ToLower(query.Search)
		if !strings.Contains(strings.ToLower(q.Quote), needle) && !strings.Contains(strings.ToLower(q.Author), needle) {
			return false
		}
	}
	return true
}
