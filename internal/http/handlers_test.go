package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/segurosdelplata/backoffice/internal/asegurado"
	"github.com/segurosdelplata/backoffice/internal/export"
	httpmiddleware "github.com/segurosdelplata/backoffice/internal/http/middleware"
	"github.com/segurosdelplata/backoffice/internal/usuario"
)

type stubAseguradoRepo struct {
	registros []asegurado.Asegurado
	siguiente int64
}

func (s *stubAseguradoRepo) List(ctx context.Context) ([]asegurado.Asegurado, error) {
	return s.registros, nil
}

func (s *stubAseguradoRepo) Get(ctx context.Context, id int64) (*asegurado.Asegurado, error) {
	for _, a := range s.registros {
		if a.ID == id {
			copia := a
			return &copia, nil
		}
	}
	return nil, asegurado.ErrNotFound
}

func (s *stubAseguradoRepo) Create(ctx context.Context, input asegurado.CreateInput) (*asegurado.Asegurado, error) {
	s.siguiente++
	a := asegurado.Asegurado{
		ID:                s.siguiente,
		NumeroCliente:     input.NumeroCliente,
		Nombre:            input.Nombre,
		Telefono:          input.Telefono,
		Poliza:            input.Poliza,
		TipoSeguro:        input.TipoSeguro,
		MarcaVehiculo:     input.MarcaVehiculo,
		Matricula:         input.Matricula,
		CuotasPagadas:     input.CuotasPagadas,
		CuotasPorPagar:    input.CuotasPorPagar,
		VencimientoCuotas: input.VencimientoCuotas,
		VigenteDesde:      input.VigenteDesde,
		VigenteHasta:      input.VigenteHasta,
		EstadoVencimiento: input.EstadoVencimiento,
	}
	s.registros = append(s.registros, a)
	return &a, nil
}

func (s *stubAseguradoRepo) Update(ctx context.Context, input asegurado.UpdateInput) (*asegurado.Asegurado, error) {
	for i, a := range s.registros {
		if a.ID == input.ID {
			if input.Nombre != nil {
				a.Nombre = *input.Nombre
			}
			if input.Telefono != nil {
				a.Telefono = *input.Telefono
			}
			s.registros[i] = a
			copia := a
			return &copia, nil
		}
	}
	return nil, asegurado.ErrNotFound
}

func (s *stubAseguradoRepo) Delete(ctx context.Context, id int64) error {
	for i, a := range s.registros {
		if a.ID == id {
			s.registros = append(s.registros[:i], s.registros[i+1:]...)
			return nil
		}
	}
	return asegurado.ErrNotFound
}

type stubUsuarioRepo struct {
	cuentas []usuario.Usuario
}

func (s *stubUsuarioRepo) List(ctx context.Context) ([]usuario.Usuario, error) {
	return s.cuentas, nil
}

func (s *stubUsuarioRepo) Get(ctx context.Context, id uuid.UUID) (*usuario.Usuario, error) {
	for _, u := range s.cuentas {
		if u.ID == id {
			copia := u
			return &copia, nil
		}
	}
	return nil, usuario.ErrNotFound
}

func (s *stubUsuarioRepo) GetByCorreo(ctx context.Context, correo string) (*usuario.Usuario, error) {
	for _, u := range s.cuentas {
		if u.Correo == correo {
			copia := u
			return &copia, nil
		}
	}
	return nil, usuario.ErrNotFound
}

func (s *stubUsuarioRepo) Create(ctx context.Context, nombreUsuario, correo, contrasenaHash, rol string) (*usuario.Usuario, error) {
	u := usuario.Usuario{ID: uuid.New(), NombreUsuario: nombreUsuario, Correo: correo, ContrasenaHash: contrasenaHash, Rol: rol, CreadoEn: time.Now()}
	s.cuentas = append(s.cuentas, u)
	return &u, nil
}

func (s *stubUsuarioRepo) Update(ctx context.Context, id uuid.UUID, nombreUsuario, correo, contrasenaHash, rol *string) (*usuario.Usuario, error) {
	for i, u := range s.cuentas {
		if u.ID == id {
			if nombreUsuario != nil {
				u.NombreUsuario = *nombreUsuario
			}
			s.cuentas[i] = u
			copia := u
			return &copia, nil
		}
	}
	return nil, usuario.ErrNotFound
}

func (s *stubUsuarioRepo) Delete(ctx context.Context, id uuid.UUID) error {
	for i, u := range s.cuentas {
		if u.ID == id {
			s.cuentas = append(s.cuentas[:i], s.cuentas[i+1:]...)
			return nil
		}
	}
	return usuario.ErrNotFound
}

func handlerDePrueba(aseguradoRepo *stubAseguradoRepo, usuarioRepo *stubUsuarioRepo) *Handler {
	aseguradoService := asegurado.NewService(aseguradoRepo)
	usuarioService := usuario.NewService(usuarioRepo)
	exportService := export.NewService(aseguradoService, nil, "exportaciones")

	return &Handler{
		asegurados:    aseguradoService,
		usuarios:      usuarioService,
		exportaciones: exportService,
	}
}

func routerDePrueba(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Route("/asegurados", func(a chi.Router) {
		a.Get("/", h.ListAsegurados)
		a.Post("/", h.CreateAsegurado)
		a.Get("/export/excel", h.ExportAseguradosExcel)
		a.Get("/export/pdf", h.ExportAseguradosPDF)
		a.Get("/{id}", h.GetAsegurado)
		a.Patch("/{id}", h.UpdateAsegurado)
		a.Delete("/{id}", h.DeleteAsegurado)
	})
	r.Route("/usuarios", func(u chi.Router) {
		u.Get("/", h.ListUsuarios)
		u.Group(func(admin chi.Router) {
			admin.Use(httpmiddleware.RequireAdministrador)
			admin.Post("/", h.CreateUsuario)
			admin.Delete("/{id}", h.DeleteUsuario)
		})
	})
	return r
}

func conRol(req *http.Request, rol string) *http.Request {
	ctx := req.Context()
	ctx = context.WithValue(ctx, httpmiddleware.ContextKeySubject, uuid.NewString())
	ctx = context.WithValue(ctx, httpmiddleware.ContextKeyAudience, "backoffice")
	ctx = context.WithValue(ctx, httpmiddleware.ContextKeyRol, rol)
	return req.WithContext(ctx)
}

func cuerpoJSON(body any) *bytes.Buffer {
	if body == nil {
		return bytes.NewBuffer(nil)
	}
	b, _ := json.Marshal(body)
	return bytes.NewBuffer(b)
}

func altaValida() map[string]any {
	return map[string]any{
		"numero_cliente":     "1001",
		"asegurado":          "Ana García",
		"telefono":           "097464651",
		"poliza":             "P-100",
		"tipo_seguro":        "Moto",
		"marca_vehiculo":     "Yamaha FZ",
		"matricula":          "SAA1234",
		"cuotas_pagadas":     2,
		"cuotas_por_pagar":   3,
		"vencimiento_cuotas": "2026-03-30",
		"vigente_desde":      "2025-09-10",
		"vigente_hasta":      "2026-09-10",
		"estado_vencimiento": "15-30",
	}
}

func TestCreateAseguradoCanonizaTelefono(t *testing.T) {
	repo := &stubAseguradoRepo{}
	r := routerDePrueba(handlerDePrueba(repo, &stubUsuarioRepo{}))

	req := httptest.NewRequest(http.MethodPost, "/asegurados/", cuerpoJSON(altaValida()))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data asegurado.Vista `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.Telefono != "59897464651" {
		t.Fatalf("telefono no canonizado: %q", envelope.Data.Telefono)
	}
	if envelope.Data.Pago != "NO" {
		t.Fatalf("pago inesperado: %q", envelope.Data.Pago)
	}
}

func TestCreateAseguradoRechazaTelefonoInvalido(t *testing.T) {
	repo := &stubAseguradoRepo{}
	r := routerDePrueba(handlerDePrueba(repo, &stubUsuarioRepo{}))

	payload := altaValida()
	payload["telefono"] = "97464651"

	req := httptest.NewRequest(http.MethodPost, "/asegurados/", cuerpoJSON(payload))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	if len(repo.registros) != 0 {
		t.Fatal("no debía escribir")
	}

	var envelope ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Error == nil || envelope.Error.Code != "VALIDATION" {
		t.Fatalf("código inesperado: %+v", envelope.Error)
	}
}

func TestListAseguradosPagina(t *testing.T) {
	repo := &stubAseguradoRepo{}
	h := handlerDePrueba(repo, &stubUsuarioRepo{})
	r := routerDePrueba(h)

	for i := 0; i < 25; i++ {
		payload := altaValida()
		req := httptest.NewRequest(http.MethodPost, "/asegurados/", cuerpoJSON(payload))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("seed %d: %d", i, rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/asegurados/?pagina=3&tamano=10", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}

	var envelope struct {
		Data asegurado.Listado `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.Total != 25 || envelope.Data.TotalPaginas != 3 || envelope.Data.Pagina != 3 {
		t.Fatalf("paginación inesperada: %+v", envelope.Data)
	}
	if len(envelope.Data.Items) != 5 {
		t.Fatalf("expected 5 items got %d", len(envelope.Data.Items))
	}

	// una página fuera de rango vuelve a la primera
	req = httptest.NewRequest(http.MethodGet, "/asegurados/?pagina=9&tamano=10", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.Pagina != 1 || len(envelope.Data.Items) != 10 {
		t.Fatalf("reubicación inesperada: pagina=%d items=%d", envelope.Data.Pagina, len(envelope.Data.Items))
	}
}

func TestGetAseguradoErrores(t *testing.T) {
	r := routerDePrueba(handlerDePrueba(&stubAseguradoRepo{}, &stubUsuarioRepo{}))

	req := httptest.NewRequest(http.MethodGet, "/asegurados/abc", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("id inválido: expected 400 got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/asegurados/999", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("inexistente: expected 404 got %d", rec.Code)
	}
}

func TestExportDescargas(t *testing.T) {
	repo := &stubAseguradoRepo{}
	r := routerDePrueba(handlerDePrueba(repo, &stubUsuarioRepo{}))

	req := httptest.NewRequest(http.MethodPost, "/asegurados/", cuerpoJSON(altaValida()))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("seed: %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/asegurados/export/excel", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("excel: expected 200 got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Fatalf("excel content-type: %s", ct)
	}

	req = httptest.NewRequest(http.MethodGet, "/asegurados/export/pdf", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("pdf: expected 200 got %d", rec.Code)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
		t.Fatal("la descarga no es un PDF")
	}
}

func TestCreateUsuarioExigeAdministrador(t *testing.T) {
	usuarioRepo := &stubUsuarioRepo{}
	r := routerDePrueba(handlerDePrueba(&stubAseguradoRepo{}, usuarioRepo))

	payload := map[string]any{
		"nombre_usuario": "operador2",
		"correo":         "operador2@seguros.example",
		"contrasena":     "secreta123",
		"rol":            "empleado",
	}

	req := httptest.NewRequest(http.MethodPost, "/usuarios/", cuerpoJSON(payload))
	req = conRol(req, usuario.RolEmpleado)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("empleado: expected 403 got %d", rec.Code)
	}
	if len(usuarioRepo.cuentas) != 0 {
		t.Fatal("no debía escribir")
	}

	req = httptest.NewRequest(http.MethodPost, "/usuarios/", cuerpoJSON(payload))
	req = conRol(req, usuario.RolAdministrador)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("administrador: expected 201 got %d: %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data usuario.Usuario `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.ContrasenaHash != "" {
		t.Fatal("el hash se serializó en la respuesta")
	}
}
