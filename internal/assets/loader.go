package assets

import (
	"context"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/litescript/ls-orrery/internal/bodies"
	"github.com/litescript/ls-orrery/internal/logging"
	"github.com/litescript/ls-orrery/internal/scene"
)

// DefaultConcurrency bounds simultaneous decodes.
const DefaultConcurrency = 4

// Progress reports one finished file.
type Progress struct {
	Body  bodies.ID
	File  string
	Done  int
	Total int
	Err   error // Non-nil when the fallback colour was used
}

// Result maps each body to its surface sampler.
type Result map[bodies.ID]scene.Sampler

// Loader decodes body textures from a directory.
type Loader struct {
	Dir   string
	Limit int
	log   *logging.Logger
}

// NewLoader creates a loader rooted at dir.
func NewLoader(dir string, log *logging.Logger) *Loader {
	if log == nil {
		log = logging.Discard()
	}
	return &Loader{Dir: dir, Limit: DefaultConcurrency, log: log.Named("assets")}
}

// Load decodes every descriptor's texture concurrently. A missing or
// undecodable file never fails the batch: the body gets a flat surface in
// its fallback colour. The only error is ctx cancellation. progress, if
// non-nil, is called once per body from the loading goroutines, serialized.
func (l *Loader) Load(ctx context.Context, descs []bodies.Descriptor, progress func(Progress)) (Result, error) {
	var (
		mu   sync.Mutex
		done int
		out  = make(Result, len(descs))
	)

	g, ctx := errgroup.WithContext(ctx)
	limit := l.Limit
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	g.SetLimit(limit)

	for _, d := range descs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			sampler, err := l.loadOne(d)

			mu.Lock()
			defer mu.Unlock()
			out[d.ID] = sampler
			done++
			if progress != nil {
				progress(Progress{Body: d.ID, File: d.Texture, Done: done, Total: len(descs), Err: err})
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	l.log.Info("loaded %d textures", len(out))
	return out, nil
}

func (l *Loader) loadOne(d bodies.Descriptor) (scene.Sampler, error) {
	fallback := Flat{Color: scene.ParseColor(d.Color)}
	if d.Texture == "" {
		return fallback, nil
	}

	path := d.Texture
	if !filepath.IsAbs(path) {
		path = filepath.Join(l.Dir, path)
	}
	tex, err := DecodeFile(path)
	if err != nil {
		l.log.Warn("%s: using fallback colour %s: %v", d.ID, d.Color, err)
		return fallback, err
	}
	w, h := tex.Size()
	l.log.Debug("%s: %s (%dx%d)", d.ID, path, w, h)
	return tex, nil
}
