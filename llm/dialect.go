package llm

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Dialect translates completion requests and responses to one provider's
// wire format. The summary and enrichment steps only ever speak
// CompletionRequest; the dialect chosen in config decides whether that
// becomes an OpenAI chat call or an Ollama one.
//
// llm/openai and llm/ollama register themselves from init; blank-import the
// one the binary needs, or pass an instance to [NewWithDialect].
type Dialect interface {
	Name() string
	// DefaultBaseURL is used when Config.BaseURL is empty.
	DefaultBaseURL() string
	// ChatPath is the completion endpoint, relative to the base URL.
	ChatPath() string
	// HealthPath is probed by IsAvailable. Empty disables the probe.
	HealthPath() string
	BuildRequest(req CompletionRequest) (any, error)
	ParseResponse(body []byte) (*CompletionResponse, error)
}

var (
	dialectsMu sync.RWMutex
	dialects   = map[string]Dialect{}
)

// RegisterDialect makes d available under name. A later registration under
// the same name replaces the earlier one.
func RegisterDialect(name string, d Dialect) {
	dialectsMu.Lock()
	defer dialectsMu.Unlock()
	dialects[name] = d
}

// GetDialect looks up a registered dialect. The error for an unknown name
// lists the registered ones.
func GetDialect(name string) (Dialect, error) {
	dialectsMu.RLock()
	d, ok := dialects[name]
	dialectsMu.RUnlock()
	if ok {
		return d, nil
	}
	known := Dialects()
	if len(known) == 0 {
		return nil, fmt.Errorf("llm: unknown dialect %q: none registered, import llm/openai or llm/ollama", name)
	}
	return nil, fmt.Errorf("llm: unknown dialect %q (registered: %s)", name, strings.Join(known, ", "))
}

// Dialects returns the registered names in sorted order.
func Dialects() []string {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	names := make([]string, 0, len(dialects))
	for name := range dialects {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
