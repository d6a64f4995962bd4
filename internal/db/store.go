package db

import (
	"context"
	"errors"
	"fmt"

	"sellboard/internal/models"

	"gorm.io/gorm"
)

// Store 帖子及其附属记录的持久化操作。只有创建、查询和删除，没有更新。
type Store struct {
	db *gorm.DB
}

func NewStore(conn *gorm.DB) *Store {
	return &Store{db: conn}
}

// DB exposes the underlying handle for read-side query composition.
func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// ---- profiles ----

func (s *Store) FindProfile(ctx context.Context, id uint) (*models.Profile, error) {
	var profile models.Profile
	if err := s.db.WithContext(ctx).Preload("Account").First(&profile, id).Error; err != nil {
		return nil, fmt.Errorf("profile %d: %w", id, translate(err))
	}
	return &profile, nil
}

func (s *Store) FindProfileByAccount(ctx context.Context, accountID uint) (*models.Profile, error) {
	var profile models.Profile
	err := s.db.WithContext(ctx).Preload("Account").
		Where("account_id = ?", accountID).
		First(&profile).Error
	if err != nil {
		return nil, fmt.Errorf("profile of account %d: %w", accountID, translate(err))
	}
	return &profile, nil
}

// ---- posts ----

// CreatePost 在同一事务中创建帖子和它的图片
func (s *Store) CreatePost(ctx context.Context, post *models.Post, pictures []models.PostPicture) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Poster").Create(post).Error; err != nil {
			return err
		}
		for i := range pictures {
			pictures[i].PostID = post.ID
			if err := tx.Omit("Post").Create(&pictures[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("create post: %w", translate(err))
	}
	return nil
}

func (s *Store) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).Preload("Poster.Account").First(&post, id).Error; err != nil {
		return nil, fmt.Errorf("post %d: %w", id, translate(err))
	}
	return &post, nil
}

// DeletePost 硬删除帖子，图片、点赞、隐藏和意向记录由外键级联删除
func (s *Store) DeletePost(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Post{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete post %d: %w", id, translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete post %d: %w", id, ErrNotFound)
	}
	return nil
}

// PostsByPoster 按发布时间倒序返回某个 Profile 的全部帖子
func (s *Store) PostsByPoster(ctx context.Context, profileID uint) ([]models.Post, error) {
	posts := []models.Post{}
	err := s.db.WithContext(ctx).
		Where("poster_id = ?", profileID).
		Order("time DESC, id DESC").
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("posts of profile %d: %w", profileID, translate(err))
	}
	return posts, nil
}

// ---- pictures ----

func (s *Store) CreatePicture(ctx context.Context, picture *models.PostPicture) error {
	if err := s.db.WithContext(ctx).Omit("Post").Create(picture).Error; err != nil {
		return fmt.Errorf("create picture for post %d: %w", picture.PostID, translate(err))
	}
	return nil
}

func (s *Store) PicturesByPost(ctx context.Context, postID uint) ([]models.PostPicture, error) {
	pictures := []models.PostPicture{}
	if err := s.db.WithContext(ctx).Where("post_id = ?", postID).Order("id ASC").Find(&pictures).Error; err != nil {
		return nil, fmt.Errorf("pictures of post %d: %w", postID, translate(err))
	}
	return pictures, nil
}

// PicturesByPosts 批量查询多个帖子的图片，按帖子 ID 分组
func (s *Store) PicturesByPosts(ctx context.Context, postIDs []uint) (map[uint][]models.PostPicture, error) {
	grouped := make(map[uint][]models.PostPicture, len(postIDs))
	if len(postIDs) == 0 {
		return grouped, nil
	}

	var pictures []models.PostPicture
	if err := s.db.WithContext(ctx).Where("post_id IN ?", postIDs).Order("id ASC").Find(&pictures).Error; err != nil {
		return nil, fmt.Errorf("pictures of posts: %w", translate(err))
	}
	for _, p := range pictures {
		grouped[p.PostID] = append(grouped[p.PostID], p)
	}
	return grouped, nil
}

// ---- likes ----

func (s *Store) CreateLike(ctx context.Context, postID, userID uint) (*models.PostLike, error) {
	like := &models.PostLike{PostID: postID, UserID: userID}
	if err := s.db.WithContext(ctx).Omit("Post", "User").Create(like).Error; err != nil {
		return nil, fmt.Errorf("like post %d by user %d: %w", postID, userID, translate(err))
	}
	return like, nil
}

// DeleteLike reports whether a like existed.
func (s *Store) DeleteLike(ctx context.Context, postID, userID uint) (bool, error) {
	return s.deletePair(ctx, &models.PostLike{}, postID, userID)
}

// ListLikes 查询用户的点赞，postID 非空时只看该帖子
func (s *Store) ListLikes(ctx context.Context, userID uint, postID *uint) ([]models.PostLike, error) {
	likes := []models.PostLike{}
	if err := s.pairQuery(ctx, userID, postID).Find(&likes).Error; err != nil {
		return nil, fmt.Errorf("likes of user %d: %w", userID, translate(err))
	}
	return likes, nil
}

// ---- hides ----

func (s *Store) CreateHide(ctx context.Context, postID, userID uint) (*models.PostHide, error) {
	hide := &models.PostHide{PostID: postID, UserID: userID}
	if err := s.db.WithContext(ctx).Omit("Post", "User").Create(hide).Error; err != nil {
		return nil, fmt.Errorf("hide post %d for user %d: %w", postID, userID, translate(err))
	}
	return hide, nil
}

func (s *Store) DeleteHide(ctx context.Context, postID, userID uint) (bool, error) {
	return s.deletePair(ctx, &models.PostHide{}, postID, userID)
}

func (s *Store) ListHides(ctx context.Context, userID uint, postID *uint) ([]models.PostHide, error) {
	hides := []models.PostHide{}
	if err := s.pairQuery(ctx, userID, postID).Find(&hides).Error; err != nil {
		return nil, fmt.Errorf("hides of user %d: %w", userID, translate(err))
	}
	return hides, nil
}

func (s *Store) pairQuery(ctx context.Context, userID uint, postID *uint) *gorm.DB {
	q := s.db.WithContext(ctx).Preload("Post.Poster.Account").Where("user_id = ?", userID)
	if postID != nil {
		q = q.Where("post_id = ?", *postID)
	}
	return q.Order("time DESC, id DESC")
}

func (s *Store) deletePair(ctx context.Context, model interface{}, postID, userID uint) (bool, error) {
	res := s.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(model)
	if res.Error != nil {
		return false, fmt.Errorf("delete (post %d, user %d): %w", postID, userID, translate(res.Error))
	}
	return res.RowsAffected > 0, nil
}

// ---- received interest ----

// InterestFilter 为空的字段不参与过滤
type InterestFilter struct {
	PosterID *uint // 收到意向的帖子作者
	PostID   *uint
	BuyerID  *uint
}

func (s *Store) CreateInterest(ctx context.Context, buyerID, itemID uint) (*models.ReceivedInterest, error) {
	interest := &models.ReceivedInterest{BuyerID: buyerID, ItemID: itemID}
	if err := s.db.WithContext(ctx).Omit("Buyer", "Item").Create(interest).Error; err != nil {
		return nil, fmt.Errorf("interest of buyer %d in post %d: %w", buyerID, itemID, translate(err))
	}
	return s.getInterest(ctx, interest.ID)
}

func (s *Store) getInterest(ctx context.Context, id uint) (*models.ReceivedInterest, error) {
	var interest models.ReceivedInterest
	err := s.db.WithContext(ctx).
		Preload("Buyer.Account").
		Preload("Item.Poster.Account").
		First(&interest, id).Error
	if err != nil {
		return nil, fmt.Errorf("interest %d: %w", id, translate(err))
	}
	return &interest, nil
}

// DeleteInterest 删除该买家对该帖子的一条意向（允许重复时只删最早的一条）
func (s *Store) DeleteInterest(ctx context.Context, itemID, buyerID uint) (bool, error) {
	var interest models.ReceivedInterest
	err := s.db.WithContext(ctx).
		Where("item_id = ? AND buyer_id = ?", itemID, buyerID).
		Order("id ASC").
		First(&interest).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("find interest (post %d, buyer %d): %w", itemID, buyerID, translate(err))
	}

	res := s.db.WithContext(ctx).Delete(&interest)
	if res.Error != nil {
		return false, fmt.Errorf("delete interest %d: %w", interest.ID, translate(res.Error))
	}
	return res.RowsAffected > 0, nil
}

func (s *Store) ListInterests(ctx context.Context, f InterestFilter) ([]models.ReceivedInterest, error) {
	interests := []models.ReceivedInterest{}
	q := s.db.WithContext(ctx).
		Preload("Buyer.Account").
		Preload("Item.Poster.Account")
	if f.PosterID != nil {
		q = q.Where("item_id IN (?)", s.db.Model(&models.Post{}).Select("id").Where("poster_id = ?", *f.PosterID))
	}
	if f.PostID != nil {
		q = q.Where("item_id = ?", *f.PostID)
	}
	if f.BuyerID != nil {
		q = q.Where("buyer_id = ?", *f.BuyerID)
	}
	if err := q.Order("time DESC, id DESC").Find(&interests).Error; err != nil {
		return nil, fmt.Errorf("list interests: %w", translate(err))
	}
	return interests, nil
}
