package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
)

// EnsureUploadDir creates the local uploads directory used when R2 is not
// configured.
func EnsureUploadDir() error {
	return os.MkdirAll("uploads", os.ModePerm)
}

// SaveUpload writes a multipart file under uploads/ and returns the path the
// static route serves it from.
func SaveUpload(fileHeader *multipart.FileHeader, name string) (string, error) {
	destPath := filepath.Join("uploads", name)
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
	return fmt.Sprintf("/uploads/%s", filepath.ToSlash(name)), nil
}
