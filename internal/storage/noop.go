package storage

import (
	"context"
	"errors"
)

// ErrNoConfigurado indica que no hay backend de almacenamiento.
var ErrNoConfigurado = errors.New("storage: uploader no configurado")

// NoopUploader devuelve error indicando que no hay backend configurado.
type NoopUploader struct{}

// Upload siempre retorna ErrNoConfigurado.
func (NoopUploader) Upload(ctx context.Context, input UploadInput) (*UploadResult, error) {
	return nil, ErrNoConfigurado
}
