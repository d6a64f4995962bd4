package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"sellboard/internal/models"

	"gorm.io/gorm"
)

// ErrInvalidParam 查询参数格式错误
var ErrInvalidParam = errors.New("invalid parameter")

// SearchParams 帖子搜索条件，nil 表示不限制
type SearchParams struct {
	Query       string
	PriceMin    *int
	PriceMax    *int
	RequesterID *uint // 已登录用户，用于排除其隐藏的帖子
}

// ParseSearchParams reads q, price_min and price_max. Empty values are
// treated as absent; q is matched exactly as sent, whitespace included.
func ParseSearchParams(values url.Values) (SearchParams, error) {
	p := SearchParams{Query: values.Get("q")}

	var err error
	if p.PriceMin, err = optionalInt(values, "price_min"); err != nil {
		return p, err
	}
	if p.PriceMax, err = optionalInt(values, "price_max"); err != nil {
		return p, err
	}
	return p, nil
}

func optionalInt(values url.Values, key string) (*int, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be an integer, got %q", ErrInvalidParam, key, raw)
	}
	return &v, nil
}

// PostSearcher 组合关键词、价格区间和隐藏过滤条件
type PostSearcher struct {
	db *gorm.DB
}

func NewPostSearcher(conn *gorm.DB) *PostSearcher {
	return &PostSearcher{db: conn}
}

// Search returns matching posts newest first, ties broken by id.
// withPoster preloads the poster summary for full projections.
func (s *PostSearcher) Search(ctx context.Context, p SearchParams, withPoster bool) ([]models.Post, error) {
	posts := []models.Post{}
	if err := s.query(ctx, p, withPoster).Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("search posts: %w", err)
	}
	return posts, nil
}

func (s *PostSearcher) query(ctx context.Context, p SearchParams, withPoster bool) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&models.Post{})
	if withPoster {
		q = q.Preload("Poster.Account")
	}

	if p.Query != "" {
		pattern := "%" + escapeLike(p.Query) + "%"
		q = q.Where("(posts.title ILIKE ? OR posts.description ILIKE ? OR posts.size ILIKE ?)", pattern, pattern, pattern)
	}

	// 两端都给出时即闭区间 [min, max]
	if p.PriceMin != nil {
		q = q.Where("posts.price >= ?", *p.PriceMin)
	}
	if p.PriceMax != nil {
		q = q.Where("posts.price <= ?", *p.PriceMax)
	}

	if p.RequesterID != nil {
		hidden := s.db.Model(&models.PostHide{}).Select("post_id").Where("user_id = ?", *p.RequesterID)
		q = q.Where("posts.id NOT IN (?)", hidden)
	}

	return q.Order("posts.time DESC, posts.id DESC")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes LIKE wildcards in user input match literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
