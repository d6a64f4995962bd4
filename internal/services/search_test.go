package services

import (
	"context"
	"net/url"
	"testing"
	"time"

	"sellboard/internal/db"
	"sellboard/internal/models"

	"github.com/stretchr/testify/require"
)

func TestParseSearchParams(t *testing.T) {
	p, err := ParseSearchParams(url.Values{"q": {"  sofa "}, "price_min": {"10"}, "price_max": {""}})
	require.NoError(t, err)
	require.Equal(t, "  sofa ", p.Query)
	require.NotNil(t, p.PriceMin)
	require.Equal(t, 10, *p.PriceMin)
	require.Nil(t, p.PriceMax)
	require.Nil(t, p.RequesterID)

	p, err = ParseSearchParams(url.Values{"q": {" "}})
	require.NoError(t, err)
	require.Equal(t, " ", p.Query)

	_, err = ParseSearchParams(url.Values{"price_max": {"cheap"}})
	require.ErrorIs(t, err, ErrInvalidParam)
}

func TestEscapeLike(t *testing.T) {
	require.Equal(t, `100\%`, escapeLike("100%"))
	require.Equal(t, `a\_b`, escapeLike("a_b"))
	require.Equal(t, `c:\\d`, escapeLike(`c:\d`))
}

func intPtr(v int) *int { return &v }

func titles(posts []models.Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.Title
	}
	return out
}

func TestSearchByKeyword(t *testing.T) {
	conn := db.CreateTempDB(t, false)
	seller := db.SeedProfile(t, conn, "Alice")
	now := time.Now()
	db.SeedPost(t, conn, seller, models.Post{Title: "Red Sofa", Price: 120, Time: now.Add(-2 * time.Hour)})
	db.SeedPost(t, conn, seller, models.Post{Title: "Chair", Description: "wooden", Price: 20, Time: now.Add(-time.Hour)})
	db.SeedPost(t, conn, seller, models.Post{Title: "Cushions", Description: "fit any SOFA", Price: 10, Time: now})
	db.SeedPost(t, conn, seller, models.Post{Title: "Bed", Size: "sofa-bed size", Price: 300, Time: now.Add(-3 * time.Hour)})

	got, err := NewPostSearcher(conn).Search(context.Background(), SearchParams{Query: "sofa"}, true)
	require.NoError(t, err)
	require.Equal(t, []string{"Cushions", "Red Sofa", "Bed"}, titles(got))
	require.Equal(t, "Alice", got[0].Poster.Account.FirstName)
}

func TestSearchKeywordWildcardsAreLiteral(t *testing.T) {
	conn := db.CreateTempDB(t, false)
	seller := db.SeedProfile(t, conn, "Alice")
	db.SeedPost(t, conn, seller, models.Post{Title: "100% wool rug", Price: 40})
	db.SeedPost(t, conn, seller, models.Post{Title: "Lamp", Price: 10})

	got, err := NewPostSearcher(conn).Search(context.Background(), SearchParams{Query: "%"}, false)
	require.NoError(t, err)
	require.Equal(t, []string{"100% wool rug"}, titles(got))
}

func TestSearchPriceRangeInclusive(t *testing.T) {
	conn := db.CreateTempDB(t, false)
	seller := db.SeedProfile(t, conn, "Alice")
	now := time.Now()
	for i, price := range []int{9, 10, 15, 20, 21} {
		db.SeedPost(t, conn, seller, models.Post{Title: "p" + string(rune('a'+i)), Price: price, Time: now.Add(time.Duration(i) * time.Minute)})
	}
	searcher := NewPostSearcher(conn)
	ctx := context.Background()

	got, err := searcher.Search(ctx, SearchParams{PriceMin: intPtr(10), PriceMax: intPtr(20)}, false)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for _, p := range got {
		require.GreaterOrEqual(t, p.Price, 10)
		require.LessOrEqual(t, p.Price, 20)
	}

	onlyMin, err := searcher.Search(ctx, SearchParams{PriceMin: intPtr(20)}, false)
	require.NoError(t, err)
	require.Len(t, onlyMin, 2)

	onlyMax, err := searcher.Search(ctx, SearchParams{PriceMax: intPtr(9)}, false)
	require.NoError(t, err)
	require.Len(t, onlyMax, 1)

	inverted, err := searcher.Search(ctx, SearchParams{PriceMin: intPtr(20), PriceMax: intPtr(10)}, false)
	require.NoError(t, err)
	require.Empty(t, inverted)
}

func TestSearchExcludesOnlyRequesterHiddenPosts(t *testing.T) {
	conn := db.CreateTempDB(t, false)
	store := db.NewStore(conn)
	seller := db.SeedProfile(t, conn, "Alice")
	bob := db.SeedProfile(t, conn, "Bob")
	carol := db.SeedProfile(t, conn, "Carol")
	sofa := db.SeedPost(t, conn, seller, models.Post{Title: "Sofa", Price: 100})
	db.SeedPost(t, conn, seller, models.Post{Title: "Chair", Price: 20})

	ctx := context.Background()
	_, err := store.CreateHide(ctx, sofa.ID, bob.AccountID)
	require.NoError(t, err)

	searcher := NewPostSearcher(conn)
	forBob, err := searcher.Search(ctx, SearchParams{RequesterID: &bob.AccountID}, false)
	require.NoError(t, err)
	require.Equal(t, []string{"Chair"}, titles(forBob))

	forCarol, err := searcher.Search(ctx, SearchParams{RequesterID: &carol.AccountID}, false)
	require.NoError(t, err)
	require.Len(t, forCarol, 2)

	anonymous, err := searcher.Search(ctx, SearchParams{}, false)
	require.NoError(t, err)
	require.Len(t, anonymous, 2)
}

func TestSearchEmptyResultIsEmptySlice(t *testing.T) {
	conn := db.CreateTempDB(t, false)
	got, err := NewPostSearcher(conn).Search(context.Background(), SearchParams{Query: "nothing"}, false)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Empty(t, got)
}
