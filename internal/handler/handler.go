package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dmorgan81/postcard/internal/image"
	"github.com/dmorgan81/postcard/internal/log"
	"github.com/dmorgan81/postcard/internal/page"
	"github.com/dmorgan81/postcard/internal/prompt"
	"github.com/samber/do"
	"github.com/samber/lo"
)

const (
	serviceName  = "Christmas Postcard API"
	maxBodyBytes = 10 << 20
)

type Input struct {
	Name    string `json:"name"`
	Wish    string `json:"wish"`
	Message string `json:"message,omitempty"`
	Seed    *int64 `json:"seed,omitempty"`
	Model   string `json:"model,omitempty"`
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
	Enhance bool   `json:"enhance,omitempty"`
}

func (i Input) toImageParams(prompt string, seed int64) image.Params {
	return image.Params{
		Prompt:  prompt,
		Model:   lo.Ternary(i.Model != "", i.Model, image.DefaultModel),
		Width:   lo.Ternary(i.Width > 0, i.Width, image.DefaultWidth),
		Height:  lo.Ternary(i.Height > 0, i.Height, image.DefaultHeight),
		Seed:    &seed,
		Enhance: i.Enhance,
		NoLogo:  true,
	}
}

// ConfigurationError is returned when the service has no upstream key.
type ConfigurationError struct {
	Missing string
}

func (e *ConfigurationError) Error() string {
	return "server configuration incomplete"
}

type Handler struct {
	generator image.Generator
	templator *page.Templator
	apiKey    string
	seed      func() int64
	now       func() time.Time
}

func NewHandler(i *do.Injector) (*Handler, error) {
	return &Handler{
		generator: do.MustInvoke[image.Generator](i),
		templator: do.MustInvoke[*page.Templator](i),
		apiKey:    do.MustInvokeNamed[string](i, "api_key"),
		seed:      image.RandomSeed,
		now:       time.Now,
	}, nil
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := log.FromContextOrDiscard(ctx).WithGroup("Handler")
	log.Info("handling generate request")

	if h.apiKey == "" {
		err := &ConfigurationError{Missing: "POLLINATIONS_API_KEY"}
		log.Error("refusing to generate", "error", err, "missing", err.Missing)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	var input Input
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&input); err != nil {
		log.Warn("invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, errors.New("invalid JSON body"))
		return
	}

	p, err := prompt.Build(input.Name, input.Wish, input.Message)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	seed := h.seed()
	if input.Seed != nil {
		seed = *input.Seed
	}

	img, err := h.generator.Generate(ctx, input.toImageParams(p, seed))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	contentType := image.ContentType(img)
	log.Info("sending image", "content-type", contentType, "bytes", len(img), "seed", seed)

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Seed", strconv.FormatInt(seed, 10))
	w.Header().Set("Content-Length", strconv.Itoa(len(img)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img)
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"service":   serviceName,
		"timestamp": h.now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	})
}

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	html, err := h.templator.Template(r.Context(), page.DefaultParams())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(html)
}

func (h *Handler) Script(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	_, _ = w.Write(page.Script())
}

func (h *Handler) NotFound(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "Endpoint no encontrado"})
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	log.FromContextOrDiscard(r.Context()).Error("request failed", "kind", kind(err), "error", err)
	writeError(w, http.StatusInternalServerError, err)
}

func kind(err error) string {
	var (
		validation *prompt.ValidationError
		config     *ConfigurationError
		upstream   *image.UpstreamError
		timeout    *image.TimeoutError
		auth       *image.AuthenticationError
	)
	switch {
	case errors.As(err, &validation):
		return "validation"
	case errors.As(err, &config):
		return "configuration"
	case errors.As(err, &upstream):
		return "upstream"
	case errors.As(err, &timeout):
		return "timeout"
	case errors.As(err, &auth):
		return "authentication"
	default:
		return "internal"
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
