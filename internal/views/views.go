// Package views maps stored entities to response shapes. Every function is
// pure: inputs are never modified and "now" is passed in explicitly so the
// humanized times are deterministic.
package views

import (
	"time"

	"sellboard/internal/models"
	"sellboard/internal/utils"

	"github.com/dustin/go-humanize"
)

// ProfileSummary 列表中展示的发布者/买家信息
type ProfileSummary struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	Image     string `json:"image"`
}

// PostFull 帖子的全部字段，time 为相对时间
type PostFull struct {
	ID             uint           `json:"id"`
	PostType       string         `json:"post_type"`
	Poster         ProfileSummary `json:"poster"`
	Title          string         `json:"title"`
	Latitude       string         `json:"latitude"`
	Longitude      string         `json:"longitude"`
	Price          int            `json:"price"`
	Size           string         `json:"size"`
	ShowToVerified bool           `json:"show_to_verified"`
	Description    string         `json:"description"`
	Time           string         `json:"time"`
	FlatNo         string         `json:"flat_no"`
	StreetNo       string         `json:"street_no"`
	Street         string         `json:"street"`
	Neighborhood   string         `json:"neighborhood"`
	City           string         `json:"city"`
	Country        string         `json:"country"`
	PostalCode     string         `json:"postal_code"`
	Condition      string         `json:"condition"`
	Age            int            `json:"age"`
	AgeUnit        string         `json:"age_unit"`
}

// PostDetail 详情页额外带渲染后的描述
type PostDetail struct {
	PostFull
	DescriptionHTML string `json:"description_html"`
}

// PostMap 地图上只需要坐标和价格
type PostMap struct {
	ID        uint   `json:"id"`
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
	Price     int    `json:"price"`
}

// PostPerUser 个人主页的帖子列表
type PostPerUser struct {
	ID       uint      `json:"id"`
	PostType string    `json:"post_type"`
	Time     time.Time `json:"time"`
}

type Picture struct {
	ID    uint   `json:"id"`
	Post  uint   `json:"post"`
	Image string `json:"image"`
}

// PostAction is the projection of a like or a hide.
type PostAction struct {
	PostDetail PostFull `json:"post_detail"`
	Time       string   `json:"time"`
}

// CreatedPair 新建点赞/隐藏后的返回
type CreatedPair struct {
	ID   uint      `json:"id"`
	Post uint      `json:"post"`
	User uint      `json:"user"`
	Time time.Time `json:"time"`
}

type Interest struct {
	ID           uint           `json:"id"`
	Buyer        ProfileSummary `json:"buyer"`
	Item         PostFull       `json:"item"`
	Time         string         `json:"time"`
	ItemPictures []Picture      `json:"item_pictures"`
}

// CreatedPost 发帖成功后的返回
type CreatedPost struct {
	PostFull
	Pictures []Picture `json:"pictures"`
}

// Humanize formats t relative to now, e.g. "3 hours ago".
func Humanize(t, now time.Time) string {
	return humanize.RelTime(t, now, "ago", "from now")
}

func NewProfileSummary(p models.Profile) ProfileSummary {
	return ProfileSummary{
		ID:        p.ID,
		FirstName: p.Account.FirstName,
		Image:     p.Image,
	}
}

func NewPostFull(p models.Post, now time.Time) PostFull {
	return PostFull{
		ID:             p.ID,
		PostType:       p.PostType,
		Poster:         NewProfileSummary(p.Poster),
		Title:          p.Title,
		Latitude:       p.Latitude,
		Longitude:      p.Longitude,
		Price:          p.Price,
		Size:           p.Size,
		ShowToVerified: p.ShowToVerified,
		Description:    p.Description,
		Time:           Humanize(p.Time, now),
		FlatNo:         p.FlatNo,
		StreetNo:       p.StreetNo,
		Street:         p.Street,
		Neighborhood:   p.Neighborhood,
		City:           p.City,
		Country:        p.Country,
		PostalCode:     p.PostalCode,
		Condition:      p.Condition,
		Age:            p.Age,
		AgeUnit:        p.AgeUnit,
	}
}

func NewPostDetail(p models.Post, now time.Time) PostDetail {
	return PostDetail{
		PostFull:        NewPostFull(p, now),
		DescriptionHTML: utils.RenderMarkdown(p.Description),
	}
}

func NewPostMap(p models.Post) PostMap {
	return PostMap{ID: p.ID, Latitude: p.Latitude, Longitude: p.Longitude, Price: p.Price}
}

func NewPostPerUser(p models.Post) PostPerUser {
	return PostPerUser{ID: p.ID, PostType: p.PostType, Time: p.Time}
}

func NewPicture(p models.PostPicture) Picture {
	return Picture{ID: p.ID, Post: p.PostID, Image: p.Image}
}

func PostFullList(posts []models.Post, now time.Time) []PostFull {
	out := make([]PostFull, 0, len(posts))
	for _, p := range posts {
		out = append(out, NewPostFull(p, now))
	}
	return out
}

func PostMapList(posts []models.Post) []PostMap {
	out := make([]PostMap, 0, len(posts))
	for _, p := range posts {
		out = append(out, NewPostMap(p))
	}
	return out
}

func PostPerUserList(posts []models.Post) []PostPerUser {
	out := make([]PostPerUser, 0, len(posts))
	for _, p := range posts {
		out = append(out, NewPostPerUser(p))
	}
	return out
}

func PictureList(pictures []models.PostPicture) []Picture {
	out := make([]Picture, 0, len(pictures))
	for _, p := range pictures {
		out = append(out, NewPicture(p))
	}
	return out
}

func LikeList(likes []models.PostLike, now time.Time) []PostAction {
	out := make([]PostAction, 0, len(likes))
	for _, l := range likes {
		out = append(out, PostAction{PostDetail: NewPostFull(l.Post, now), Time: Humanize(l.Time, now)})
	}
	return out
}

func HideList(hides []models.PostHide, now time.Time) []PostAction {
	out := make([]PostAction, 0, len(hides))
	for _, h := range hides {
		out = append(out, PostAction{PostDetail: NewPostFull(h.Post, now), Time: Humanize(h.Time, now)})
	}
	return out
}

func NewCreatedLike(l models.PostLike) CreatedPair {
	return CreatedPair{ID: l.ID, Post: l.PostID, User: l.UserID, Time: l.Time}
}

func NewCreatedHide(h models.PostHide) CreatedPair {
	return CreatedPair{ID: h.ID, Post: h.PostID, User: h.UserID, Time: h.Time}
}

// NewInterest projects one interest; pictures are the item's pictures.
func NewInterest(i models.ReceivedInterest, pictures []models.PostPicture, now time.Time) Interest {
	return Interest{
		ID:           i.ID,
		Buyer:        NewProfileSummary(i.Buyer),
		Item:         NewPostFull(i.Item, now),
		Time:         Humanize(i.Time, now),
		ItemPictures: PictureList(pictures),
	}
}

// InterestList looks up each item's pictures in picturesByPost.
func InterestList(interests []models.ReceivedInterest, picturesByPost map[uint][]models.PostPicture, now time.Time) []Interest {
	out := make([]Interest, 0, len(interests))
	for _, i := range interests {
		out = append(out, NewInterest(i, picturesByPost[i.ItemID], now))
	}
	return out
}

func NewCreatedPost(p models.Post, pictures []models.PostPicture, now time.Time) CreatedPost {
	return CreatedPost{PostFull: NewPostFull(p, now), Pictures: PictureList(pictures)}
}
