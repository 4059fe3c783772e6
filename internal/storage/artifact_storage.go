package storage

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/h2non/filetype"
)

// Ошибки проверки содержимого.
var (
	ErrEmptyFile       = errors.New("arquivo vazio")
	ErrTooLarge        = errors.New("arquivo excede o tamanho máximo")
	ErrUnsupportedType = errors.New("tipo de arquivo não suportado")
)

// Разрешённые типы: фотографии повреждений и документы.
var allowedMimeTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"image/heif":      true,
	"application/pdf": true,
}

// sniffLen сколько байт нужно filetype для определения типа.
const sniffLen = 262

// Artifact сохранённый файл.
type Artifact struct {
	RelativePath string
	MimeType     string
	Size         int64
}

// ArtifactStorage хранит загруженные артефакты на диске, по каталогу на синистр.
type ArtifactStorage struct {
	rootPath       string
	maxUploadBytes int64
}

// NewArtifactStorage создаёт файловое хранилище.
func NewArtifactStorage(rootPath string, maxUploadMB int64) (*ArtifactStorage, error) {
	if err := os.MkdirAll(rootPath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: не удалось создать каталог %s: %w", rootPath, err)
	}

	return &ArtifactStorage{
		rootPath:       rootPath,
		maxUploadBytes: maxUploadMB * 1024 * 1024,
	}, nil
}

// Root корневой каталог, отдаваемый как /media.
func (s *ArtifactStorage) Root() string {
	return s.rootPath
}

// Save проверяет тип по магическим байтам и атомарно сохраняет файл.
func (s *ArtifactStorage) Save(ctx context.Context, claimID uuid.UUID, originalName string, r io.Reader) (*Artifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	br := bufio.NewReaderSize(r, sniffLen)
	head, err := br.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("storage: не удалось прочитать файл: %w", err)
	}
	if len(head) == 0 {
		return nil, ErrEmptyFile
	}

	kind, err := filetype.Match(head)
	if err != nil || kind == filetype.Unknown || !allowedMimeTypes[kind.MIME.Value] {
		return nil, ErrUnsupportedType
	}

	base := sanitizeFilename(originalName)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" {
		base = "arquivo"
	}
	// расширение берётся из реального типа, а не из имени
	fileName := fmt.Sprintf("%d_%s.%s", time.Now().UnixNano(), base, kind.Extension)

	claimDir := filepath.Join(s.rootPath, claimID.String())
	if err := os.MkdirAll(claimDir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: не удалось создать каталог синистра: %w", err)
	}

	targetPath := filepath.Join(claimDir, fileName)
	tempPath := targetPath + ".tmp"

	f, err := os.Create(tempPath)
	if err != nil {
		return nil, fmt.Errorf("storage: не удалось создать файл: %w", err)
	}
	defer f.Close()

	limitedReader := io.LimitedReader{R: br, N: s.maxUploadBytes + 1}
	written, err := io.Copy(f, &limitedReader)
	if err != nil {
		_ = os.Remove(tempPath)
		return nil, fmt.Errorf("storage: ошибка записи файла: %w", err)
	}

	if written > s.maxUploadBytes {
		_ = os.Remove(tempPath)
		return nil, ErrTooLarge
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(tempPath)
		return nil, fmt.Errorf("storage: ошибка закрытия файла: %w", err)
	}

	if err := os.Rename(tempPath, targetPath); err != nil {
		return nil, fmt.Errorf("storage: не удалось переименовать файл: %w", err)
	}

	return &Artifact{
		RelativePath: path.Join(claimID.String(), fileName),
		MimeType:     kind.MIME.Value,
		Size:         written,
	}, nil
}

// Delete удаляет файл из хранилища.
func (s *ArtifactStorage) Delete(ctx context.Context, relativePath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	target := filepath.Join(s.rootPath, filepath.FromSlash(relativePath))
	if rel, err := filepath.Rel(s.rootPath, target); err != nil || strings.HasPrefix(rel, "..") {
		return fmt.Errorf("storage: путь вне хранилища: %s", relativePath)
	}
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: не удалось удалить файл: %w", err)
	}
	return nil
}

// sanitizeFilename оставляет в имени только безопасные символы.
func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(name, "..", "")

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	name = b.String()
	if name == "." || name == "/" {
		return ""
	}
	return name
}
