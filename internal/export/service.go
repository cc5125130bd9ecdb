package export

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/segurosdelplata/backoffice/internal/asegurado"
	"github.com/segurosdelplata/backoffice/internal/storage"
)

type listador interface {
	ListarFiltrados(ctx context.Context, filtro asegurado.Filtro) ([]asegurado.Vista, error)
}

// Archivo es una exportación lista para descargar.
type Archivo struct {
	Nombre      string
	ContentType string
	Contenido   []byte
}

// Service genera exportaciones de la cartera filtrada y archiva una copia
// en el storage cuando hay uno configurado.
type Service struct {
	asegurados listador
	uploader   storage.Uploader
	prefijo    string
	now        func() time.Time
}

// NewService arma el servicio de exportación.
func NewService(asegurados listador, uploader storage.Uploader, prefijo string) *Service {
	return &Service{
		asegurados: asegurados,
		uploader:   uploader,
		prefijo:    prefijo,
		now:        time.Now,
	}
}

// Excel exporta a .xlsx el conjunto filtrado completo.
func (s *Service) Excel(ctx context.Context, filtro asegurado.Filtro) (*Archivo, error) {
	items, err := s.asegurados.ListarFiltrados(ctx, filtro)
	if err != nil {
		return nil, err
	}

	contenido, err := Excel(items)
	if err != nil {
		return nil, err
	}

	archivo := &Archivo{
		Nombre:      s.nombre("xlsx"),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Contenido:   contenido,
	}
	s.archivar(ctx, archivo)
	return archivo, nil
}

// PDF exporta a .pdf el conjunto filtrado completo.
func (s *Service) PDF(ctx context.Context, filtro asegurado.Filtro) (*Archivo, error) {
	items, err := s.asegurados.ListarFiltrados(ctx, filtro)
	if err != nil {
		return nil, err
	}

	contenido, err := PDF(items)
	if err != nil {
		return nil, err
	}

	archivo := &Archivo{
		Nombre:      s.nombre("pdf"),
		ContentType: "application/pdf",
		Contenido:   contenido,
	}
	s.archivar(ctx, archivo)
	return archivo, nil
}

// archivar guarda una copia best effort. Un storage ausente o caído nunca
// frena la descarga.
func (s *Service) archivar(ctx context.Context, archivo *Archivo) {
	if s.uploader == nil {
		return
	}

	_, err := s.uploader.Upload(ctx, storage.UploadInput{
		Key:         fmt.Sprintf("%s/%s", s.prefijo, archivo.Nombre),
		Body:        archivo.Contenido,
		ContentType: archivo.ContentType,
	})
	if err == nil {
		return
	}
	if errors.Is(err, storage.ErrNoConfigurado) {
		return
	}
	log.Warn().Err(err).Str("archivo", archivo.Nombre).Msg("no se pudo archivar la exportación")
}

func (s *Service) nombre(extension string) string {
	return fmt.Sprintf("asegurados_%s.%s", s.now().UTC().Format("20060102_150405"), extension)
}
