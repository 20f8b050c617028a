package platform

import (
	"fmt"
	"sort"
	"sync"
)

// DefaultCatalog is the catalog name used when callers don't pick one.
const DefaultCatalog = "aliexpress"

var (
	registry = make(map[string]Catalog)
	mu       sync.RWMutex
)

func Register(name string, catalog Catalog) {
	mu.Lock()
	defer mu.Unlock()
	registry[name] = catalog
}

func Get(name string) (Catalog, error) {
	if name == "" {
		name = DefaultCatalog
	}
	mu.RLock()
	defer mu.RUnlock()
	c, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("catalog %q not registered", name)
	}
	return c, nil
}

// List returns registered catalog names, sorted.
func List() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
