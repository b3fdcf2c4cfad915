package utils

import (
	"context"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage writes uploads below Dir and serves them from BaseURL.
type LocalStorage struct {
	Dir     string
	BaseURL string
}

// NewLocalStorage creates the upload directory if it doesn't exist
func NewLocalStorage(dir, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, err
	}
	return &LocalStorage{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Save copies the uploaded file to Dir/key and returns its URL.
func (l *LocalStorage) Save(_ context.Context, fileHeader *multipart.FileHeader, key string) (string, error) {
	destPath := l.path(key)
	if err := os.MkdirAll(filepath.Dir(destPath), os.ModePerm); err != nil {
		return "", err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	dst, err := os.Create(destPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", err
	}
	return l.BaseURL + "/" + filepath.ToSlash(key), nil
}

func (l *LocalStorage) Remove(_ context.Context, key string) error {
	err := os.Remove(l.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (l *LocalStorage) path(key string) string {
	return filepath.Join(l.Dir, filepath.FromSlash(key))
}
