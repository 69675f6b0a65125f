package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/h2non/filetype"
)

// sniffLen сколько байт нужно filetype для определения типа.
const sniffLen = 261

// ErrNotImage содержимое не похоже на изображение.
var ErrNotImage = errors.New("storage: содержимое не является изображением")

// ErrTooLarge файл больше допустимого размера.
var ErrTooLarge = errors.New("storage: размер файла превышает лимит")

// ImageStorage файловое хранилище сгенерированных изображений.
type ImageStorage struct {
	rootPath       string
	maxUploadBytes int64
}

// NewImageStorage создаёт файловое хранилище.
func NewImageStorage(rootPath string, maxUploadMB int64) (*ImageStorage, error) {
	if err := os.MkdirAll(rootPath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: не удалось создать каталог %s: %w", rootPath, err)
	}

	return &ImageStorage{
		rootPath:       rootPath,
		maxUploadBytes: maxUploadMB * 1024 * 1024,
	}, nil
}

// Root каталог хранилища.
func (s *ImageStorage) Root() string {
	return s.rootPath
}

// Save проверяет, что поток является изображением, сохраняет его и возвращает
// путь относительно корня хранилища. Расширение берётся из содержимого.
func (s *ImageStorage) Save(ctx context.Context, userID uuid.UUID, r io.Reader) (string, int64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", 0, fmt.Errorf("storage: ошибка чтения: %w", err)
	}
	head = head[:n]

	kind, err := filetype.Match(head)
	if err != nil || !filetype.IsImage(head) {
		return "", 0, ErrNotImage
	}

	fileName := fmt.Sprintf("%s_%d.%s", userID.String(), time.Now().UnixNano(), kind.Extension)

	userDir := filepath.Join(s.rootPath, userID.String())
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		return "", 0, fmt.Errorf("storage: не удалось создать каталог пользователя: %w", err)
	}

	targetPath := filepath.Join(userDir, fileName)
	tempPath := targetPath + ".tmp"

	f, err := os.Create(tempPath)
	if err != nil {
		return "", 0, fmt.Errorf("storage: не удалось создать файл: %w", err)
	}
	defer f.Close()

	limitedReader := io.LimitedReader{R: io.MultiReader(bytes.NewReader(head), r), N: s.maxUploadBytes + 1}
	written, err := io.Copy(f, &limitedReader)
	if err != nil {
		_ = os.Remove(tempPath)
		return "", 0, fmt.Errorf("storage: ошибка записи файла: %w", err)
	}

	if written > s.maxUploadBytes {
		_ = os.Remove(tempPath)
		return "", 0, ErrTooLarge
	}

	if err := f.Close(); err != nil {
		return "", 0, fmt.Errorf("storage: ошибка закрытия файла: %w", err)
	}

	if err := os.Rename(tempPath, targetPath); err != nil {
		return "", 0, fmt.Errorf("storage: не удалось переименовать файл: %w", err)
	}

	relative := filepath.ToSlash(filepath.Join(userID.String(), fileName))
	return relative, written, nil
}

// Delete удаляет файл из хранилища.
func (s *ImageStorage) Delete(ctx context.Context, relativePath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	target := filepath.Join(s.rootPath, filepath.FromSlash(relativePath))
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: не удалось удалить файл: %w", err)
	}
	return nil
}
