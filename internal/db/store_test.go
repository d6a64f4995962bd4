package db

import (
	"context"
	"sync"
	"testing"
	"time"

	"sellboard/internal/models"

	"github.com/stretchr/testify/require"
)

func TestCreatePostWithPictures(t *testing.T) {
	conn := CreateTempDB(t, false)
	store := NewStore(conn)
	ctx := context.Background()
	seller := SeedProfile(t, conn, "Alice")

	post := &models.Post{PosterID: seller.ID, Title: "Bike", Price: 50, Latitude: "1", Longitude: "2"}
	pictures := []models.PostPicture{{Image: "post_sell_pics/a.jpg"}, {Image: "post_sell_pics/b.jpg"}}
	require.NoError(t, store.CreatePost(ctx, post, pictures))
	require.NotZero(t, post.ID)
	require.Equal(t, models.DefaultPostType, post.PostType)
	require.False(t, post.Time.IsZero())

	got, err := store.GetPost(ctx, post.ID)
	require.NoError(t, err)
	require.Equal(t, "Bike", got.Title)
	require.Equal(t, "Alice", got.Poster.Account.FirstName)

	pics, err := store.PicturesByPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, pics, 2)
	require.Equal(t, "post_sell_pics/a.jpg", pics[0].Image)
}

func TestCreatePostRejectsNegativePrice(t *testing.T) {
	conn := CreateTempDB(t, false)
	store := NewStore(conn)
	seller := SeedProfile(t, conn, "Alice")

	post := &models.Post{PosterID: seller.ID, Title: "Broken", Price: -1, Latitude: "1", Longitude: "2"}
	require.Error(t, store.CreatePost(context.Background(), post, nil))
}

func TestGetPostNotFound(t *testing.T) {
	conn := CreateTempDB(t, false)
	_, err := NewStore(conn).GetPost(context.Background(), 424242)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDuplicateLikeConflicts(t *testing.T) {
	conn := CreateTempDB(t, false)
	store := NewStore(conn)
	ctx := context.Background()
	seller := SeedProfile(t, conn, "Alice")
	buyer := SeedProfile(t, conn, "Bob")
	post := SeedPost(t, conn, seller, models.Post{Title: "Sofa", Price: 100})

	_, err := store.CreateLike(ctx, post.ID, buyer.AccountID)
	require.NoError(t, err)
	_, err = store.CreateLike(ctx, post.ID, buyer.AccountID)
	require.ErrorIs(t, err, ErrConflict)

	var count int64
	conn.Model(&models.PostLike{}).Where("post_id = ?", post.ID).Count(&count)
	require.Equal(t, int64(1), count)
}

func TestConcurrentDuplicateLikes(t *testing.T) {
	conn := CreateTempDB(t, false)
	store := NewStore(conn)
	seller := SeedProfile(t, conn, "Alice")
	buyer := SeedProfile(t, conn, "Bob")
	post := SeedPost(t, conn, seller, models.Post{Title: "Sofa", Price: 100})

	const writers = 8
	errs := make(chan error, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.CreateLike(context.Background(), post.ID, buyer.AccountID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		require.ErrorIs(t, err, ErrConflict)
	}
	require.Equal(t, 1, succeeded)
}

func TestLikeUnknownPostIsNotFound(t *testing.T) {
	conn := CreateTempDB(t, false)
	buyer := SeedProfile(t, conn, "Bob")
	_, err := NewStore(conn).CreateLike(context.Background(), 999, buyer.AccountID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteLike(t *testing.T) {
	conn := CreateTempDB(t, false)
	store := NewStore(conn)
	ctx := context.Background()
	seller := SeedProfile(t, conn, "Alice")
	buyer := SeedProfile(t, conn, "Bob")
	post := SeedPost(t, conn, seller, models.Post{Title: "Sofa", Price: 100})

	deleted, err := store.DeleteLike(ctx, post.ID, buyer.AccountID)
	require.NoError(t, err)
	require.False(t, deleted)

	_, err = store.CreateLike(ctx, post.ID, buyer.AccountID)
	require.NoError(t, err)
	deleted, err = store.DeleteLike(ctx, post.ID, buyer.AccountID)
	require.NoError(t, err)
	require.True(t, deleted)

	likes, err := store.ListLikes(ctx, buyer.AccountID, nil)
	require.NoError(t, err)
	require.Empty(t, likes)
}

func TestListLikesFiltersByPost(t *testing.T) {
	conn := CreateTempDB(t, false)
	store := NewStore(conn)
	ctx := context.Background()
	seller := SeedProfile(t, conn, "Alice")
	buyer := SeedProfile(t, conn, "Bob")
	sofa := SeedPost(t, conn, seller, models.Post{Title: "Sofa", Price: 100})
	chair := SeedPost(t, conn, seller, models.Post{Title: "Chair", Price: 20})

	_, err := store.CreateLike(ctx, sofa.ID, buyer.AccountID)
	require.NoError(t, err)
	_, err = store.CreateLike(ctx, chair.ID, buyer.AccountID)
	require.NoError(t, err)

	all, err := store.ListLikes(ctx, buyer.AccountID, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)

	only, err := store.ListLikes(ctx, buyer.AccountID, &chair.ID)
	require.NoError(t, err)
	require.Len(t, only, 1)
	require.Equal(t, "Chair", only[0].Post.Title)
	require.Equal(t, "Alice", only[0].Post.Poster.Account.FirstName)
}

func TestDuplicateHideConflicts(t *testing.T) {
	conn := CreateTempDB(t, false)
	store := NewStore(conn)
	ctx := context.Background()
	seller := SeedProfile(t, conn, "Alice")
	buyer := SeedProfile(t, conn, "Bob")
	post := SeedPost(t, conn, seller, models.Post{Title: "Sofa", Price: 100})

	_, err := store.CreateHide(ctx, post.ID, buyer.AccountID)
	require.NoError(t, err)
	_, err = store.CreateHide(ctx, post.ID, buyer.AccountID)
	require.ErrorIs(t, err, ErrConflict)

	// 隐藏不会删除帖子
	_, err = store.GetPost(ctx, post.ID)
	require.NoError(t, err)
}

func TestInterestDuplicatesAllowedByDefault(t *testing.T) {
	conn := CreateTempDB(t, false)
	store := NewStore(conn)
	ctx := context.Background()
	seller := SeedProfile(t, conn, "Alice")
	buyer := SeedProfile(t, conn, "Bob")
	post := SeedPost(t, conn, seller, models.Post{Title: "Sofa", Price: 100})

	first, err := store.CreateInterest(ctx, buyer.ID, post.ID)
	require.NoError(t, err)
	require.Equal(t, "Bob", first.Buyer.Account.FirstName)
	require.Equal(t, "Sofa", first.Item.Title)
	_, err = store.CreateInterest(ctx, buyer.ID, post.ID)
	require.NoError(t, err)

	received, err := store.ListInterests(ctx, InterestFilter{PosterID: &seller.ID})
	require.NoError(t, err)
	require.Len(t, received, 2)

	// 每次只删除一条
	deleted, err := store.DeleteInterest(ctx, post.ID, buyer.ID)
	require.NoError(t, err)
	require.True(t, deleted)
	received, err = store.ListInterests(ctx, InterestFilter{PostID: &post.ID})
	require.NoError(t, err)
	require.Len(t, received, 1)
}

func TestInterestUniqueWhenConfigured(t *testing.T) {
	conn := CreateTempDB(t, true)
	store := NewStore(conn)
	ctx := context.Background()
	seller := SeedProfile(t, conn, "Alice")
	buyer := SeedProfile(t, conn, "Bob")
	post := SeedPost(t, conn, seller, models.Post{Title: "Sofa", Price: 100})

	_, err := store.CreateInterest(ctx, buyer.ID, post.ID)
	require.NoError(t, err)
	_, err = store.CreateInterest(ctx, buyer.ID, post.ID)
	require.ErrorIs(t, err, ErrConflict)
}

func TestListInterestsByPoster(t *testing.T) {
	conn := CreateTempDB(t, false)
	store := NewStore(conn)
	ctx := context.Background()
	alice := SeedProfile(t, conn, "Alice")
	carol := SeedProfile(t, conn, "Carol")
	bob := SeedProfile(t, conn, "Bob")
	sofa := SeedPost(t, conn, alice, models.Post{Title: "Sofa", Price: 100})
	lamp := SeedPost(t, conn, carol, models.Post{Title: "Lamp", Price: 15})

	_, err := store.CreateInterest(ctx, bob.ID, sofa.ID)
	require.NoError(t, err)
	_, err = store.CreateInterest(ctx, bob.ID, lamp.ID)
	require.NoError(t, err)

	received, err := store.ListInterests(ctx, InterestFilter{PosterID: &carol.ID})
	require.NoError(t, err)
	require.Len(t, received, 1)
	require.Equal(t, "Lamp", received[0].Item.Title)

	sent, err := store.ListInterests(ctx, InterestFilter{BuyerID: &bob.ID})
	require.NoError(t, err)
	require.Len(t, sent, 2)
}

func TestDeletePostCascades(t *testing.T) {
	conn := CreateTempDB(t, false)
	store := NewStore(conn)
	ctx := context.Background()
	seller := SeedProfile(t, conn, "Alice")
	buyer := SeedProfile(t, conn, "Bob")

	post := &models.Post{PosterID: seller.ID, Title: "Sofa", Price: 100, Latitude: "1", Longitude: "2"}
	require.NoError(t, store.CreatePost(ctx, post, []models.PostPicture{{Image: "post_sell_pics/sofa.jpg"}}))
	_, err := store.CreateLike(ctx, post.ID, buyer.AccountID)
	require.NoError(t, err)
	_, err = store.CreateHide(ctx, post.ID, buyer.AccountID)
	require.NoError(t, err)
	_, err = store.CreateInterest(ctx, buyer.ID, post.ID)
	require.NoError(t, err)

	require.NoError(t, store.DeletePost(ctx, post.ID))

	_, err = store.GetPost(ctx, post.ID)
	require.ErrorIs(t, err, ErrNotFound)
	for _, model := range []interface{}{&models.PostPicture{}, &models.PostLike{}, &models.PostHide{}} {
		var count int64
		require.NoError(t, conn.Model(model).Where("post_id = ?", post.ID).Count(&count).Error)
		require.Zero(t, count)
	}
	var interests int64
	conn.Model(&models.ReceivedInterest{}).Where("item_id = ?", post.ID).Count(&interests)
	require.Zero(t, interests)

	require.ErrorIs(t, store.DeletePost(ctx, post.ID), ErrNotFound)
}

func TestPostsByPosterNewestFirst(t *testing.T) {
	conn := CreateTempDB(t, false)
	store := NewStore(conn)
	seller := SeedProfile(t, conn, "Alice")
	now := time.Now()
	SeedPost(t, conn, seller, models.Post{Title: "Old", Price: 1, Time: now.Add(-time.Hour)})
	SeedPost(t, conn, seller, models.Post{Title: "New", Price: 1, Time: now})

	posts, err := store.PostsByPoster(context.Background(), seller.ID)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	require.Equal(t, "New", posts[0].Title)
	require.Equal(t, "Old", posts[1].Title)
}

func TestFindProfileByAccount(t *testing.T) {
	conn := CreateTempDB(t, false)
	store := NewStore(conn)
	seller := SeedProfile(t, conn, "Alice")

	got, err := store.FindProfileByAccount(context.Background(), seller.AccountID)
	require.NoError(t, err)
	require.Equal(t, seller.ID, got.ID)

	_, err = store.FindProfileByAccount(context.Background(), seller.AccountID+100)
	require.ErrorIs(t, err, ErrNotFound)
}
