package storage

import "context"

// UploadInput representa una operación de subida simple.
type UploadInput struct {
	Key          string
	Body         []byte
	ContentType  string
	CacheControl string
}

// UploadResult describe el artefacto persistido.
type UploadResult struct {
	URL  string
	ETag string
}

// Uploader define el comportamiento básico para archivar blobs. En este
// servicio se usa para guardar copia de las exportaciones generadas.
type Uploader interface {
	Upload(ctx context.Context, input UploadInput) (*UploadResult, error)
}
