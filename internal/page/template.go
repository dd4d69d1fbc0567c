package page

import (
	"bytes"
	"context"
	_ "embed"
	"html/template"
	"sync"

	"github.com/dmorgan81/postcard/internal/image"
	"github.com/dmorgan81/postcard/internal/log"
	"github.com/dmorgan81/postcard/internal/prompt"
	"github.com/samber/do"
)

//go:embed assets/index.html
var indexTmpl string

//go:embed assets/app.js
var script []byte

type Params struct {
	Model          string
	Width          int
	Height         int
	NameLimit      int
	WishLimit      int
	MessageLimit   int
	DefaultMessage string
}

// DefaultParams mirrors the limits and defaults the server applies, so the
// form never offers more than the prompt will keep.
func DefaultParams() Params {
	return Params{
		Model:          image.DefaultModel,
		Width:          image.DefaultWidth,
		Height:         image.DefaultHeight,
		NameLimit:      prompt.NameLimit,
		WishLimit:      prompt.WishLimit,
		MessageLimit:   prompt.MessageLimit,
		DefaultMessage: prompt.DefaultMessage,
	}
}

type Templator struct {
	tmpl *template.Template
	once sync.Once
}

func NewTemplator(_ *do.Injector) (*Templator, error) {
	return &Templator{}, nil
}

func (g *Templator) Template(ctx context.Context, params Params) ([]byte, error) {
	g.once.Do(func() {
		g.tmpl = template.Must(template.New("index").Parse(indexTmpl))
	})

	log := log.FromContextOrDiscard(ctx).WithGroup("templator")
	log.Debug("rendering form page")

	var data bytes.Buffer
	if err := g.tmpl.Execute(&data, params); err != nil {
		return nil, err
	}
	return data.Bytes(), nil
}

func Script() []byte {
	return script
}
