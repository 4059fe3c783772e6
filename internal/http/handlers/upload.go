package handlers

import (
	"errors"
	"path"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/sinistros-backend/internal/domain/valueobject"
	"github.com/ignatzorin/sinistros-backend/internal/dto"
	"github.com/ignatzorin/sinistros-backend/internal/logger"
	"github.com/ignatzorin/sinistros-backend/internal/pkg/apperror"
	"github.com/ignatzorin/sinistros-backend/internal/storage"
)

const (
	// MediaPrefix путь, по которому раздаётся каталог артефактов.
	MediaPrefix = "/media"

	formFiles = "arquivos"
	formKind  = "tipo"
)

// saveUploads сохраняет файлы multipart-формы и возвращает их описание для сервиса.
// При ошибке уже сохранённые файлы удаляются.
func saveUploads(c *gin.Context, store *storage.ArtifactStorage, claimID uuid.UUID) ([]dto.FileUpload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, "formulário multipart inválido")
	}
	headers := form.File[formFiles]
	if len(headers) == 0 {
		return nil, apperror.Validation("nenhum arquivo informado")
	}

	kind := valueobject.FileKindDamagePhoto
	if values := form.Value[formKind]; len(values) > 0 && values[0] != "" {
		kind = valueobject.FileKind(values[0])
	}
	if !kind.IsValid() {
		return nil, apperror.Validation("tipo de arquivo inválido: %s", kind)
	}

	ctx := c.Request.Context()
	uploads := make([]dto.FileUpload, 0, len(headers))
	saved := make([]string, 0, len(headers))
	rollback := func() {
		for _, rel := range saved {
			if err := store.Delete(ctx, rel); err != nil {
				logger.Log.WithError(err).WithField("path", rel).Warn("Не удалось удалить артефакт")
			}
		}
	}

	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			rollback()
			return nil, apperror.Wrap(err, apperror.ErrCodeValidation, "não foi possível ler o arquivo")
		}
		artifact, err := store.Save(ctx, claimID, header.Filename, file)
		file.Close()
		if err != nil {
			rollback()
			return nil, storageError(err, header.Filename)
		}
		saved = append(saved, artifact.RelativePath)
		uploads = append(uploads, dto.FileUpload{
			Kind:         string(kind),
			URL:          path.Join(MediaPrefix, artifact.RelativePath),
			OriginalName: header.Filename,
			MimeType:     artifact.MimeType,
			Size:         artifact.Size,
		})
	}

	logger.Log.WithFields(logrus.Fields{
		"claim_id": claimID,
		"count":    len(uploads),
	}).Debug("Артефакты сохранены")
	return uploads, nil
}

func storageError(err error, name string) error {
	switch {
	case errors.Is(err, storage.ErrEmptyFile):
		return apperror.Validation("arquivo vazio: %s", name)
	case errors.Is(err, storage.ErrTooLarge):
		return apperror.Validation("arquivo excede o tamanho máximo: %s", name)
	case errors.Is(err, storage.ErrUnsupportedType):
		return apperror.Validation("tipo de arquivo não suportado: %s", name)
	}
	return apperror.Wrap(err, apperror.ErrCodeInternal, "erro ao salvar arquivo")
}

// discardUploads удаляет артефакты, если сервис отказал в регистрации.
func discardUploads(c *gin.Context, store *storage.ArtifactStorage, uploads []dto.FileUpload) {
	for _, u := range uploads {
		rel := u.URL[len(MediaPrefix)+1:]
		if err := store.Delete(c.Request.Context(), rel); err != nil {
			logger.Log.WithError(err).WithField("path", rel).Warn("Не удалось удалить артефакт")
		}
	}
}
