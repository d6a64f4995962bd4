package services

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// PictureDir 帖子图片在存储根目录下的子目录
const PictureDir = "post_sell_pics"

// ImageUploadResult 上传结果
type ImageUploadResult struct {
	URL  string `json:"url"`  // 对外访问地址
	Name string `json:"name"` // 存储文件名

	// Created 为 false 表示同样内容的文件已经存在
	Created bool `json:"-"`
}

// ImageStore 将上传的图片按内容哈希存到本地目录，同一张图片只存一份
type ImageStore struct {
	root    string
	baseURL string
}

func NewImageStore(root, baseURL string) *ImageStore {
	return &ImageStore{root: root, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// Save stores the image read from r. filename and contentType are only
// used to pick the file extension.
func (s *ImageStore) Save(r io.Reader, filename, contentType string) (*ImageUploadResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("读取文件失败: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image")
	}

	sum := blake2b.Sum256(data)
	name := hex.EncodeToString(sum[:16]) + imageExt(filename, contentType)

	dir := filepath.Join(s.root, PictureDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create image dir: %w", err)
	}

	dst := filepath.Join(dir, name)
	if _, err := os.Stat(dst); err == nil {
		return s.result(name, false), nil
	}

	// 先写临时文件再改名，避免并发上传同一张图片时读到半个文件
	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("write image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("write image: %w", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("store image: %w", err)
	}

	return s.result(name, true), nil
}

// Remove deletes a stored image by name. A missing file is not an error.
func (s *ImageStore) Remove(name string) error {
	if name == "" || name != filepath.Base(name) {
		return fmt.Errorf("invalid image name %q", name)
	}
	err := os.Remove(filepath.Join(s.root, PictureDir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove image: %w", err)
	}
	return nil
}

func (s *ImageStore) result(name string, created bool) *ImageUploadResult {
	return &ImageUploadResult{
		URL:     s.baseURL + "/" + path.Join(PictureDir, name),
		Name:    name,
		Created: created,
	}
}

func imageExt(filename, contentType string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return ext
	}
	// 根据 MIME 类型推断扩展名
	switch contentType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
