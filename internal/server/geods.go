package server

import (
	"fmt"
	"strings"
	"sync"

	"github.com/lazylynx/gmanifold/geodesic"
	"github.com/lazylynx/gmanifold/manifold"
)

// geodRegistry builds each ellipsoid model once and shares it between
// requests; models are read-only after construction.
type geodRegistry struct {
	mu    sync.Mutex
	geods map[string]*geodesic.Geodesic
}

func newGeodRegistry() *geodRegistry {
	return &geodRegistry{geods: make(map[string]*geodesic.Geodesic)}
}

func (r *geodRegistry) get(name string) (*geodesic.Geodesic, error) {
	key := strings.ToLower(name)

	r.mu.Lock()
	defer r.mu.Unlock()
	if geod, ok := r.geods[key]; ok {
		return geod, nil
	}
	geod, err := geodesic.Named(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", manifold.ErrGeodesic, err)
	}
	r.geods[key] = geod
	return geod, nil
}
