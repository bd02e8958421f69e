package broker

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// CodeLen is the length of a rendezvous code.
const CodeLen = 8

var (
	ErrInvalidRendezvousCode = errors.New("invalid rendezvous code")
	ErrUnknownCode           = errors.New("unknown rendezvous code")
)

// ValidateCode checks the shape of a user-entered code. Nothing is looked
// up.
func ValidateCode(code string) error {
	if len(code) != CodeLen {
		return fmt.Errorf("%w: %q is not %d characters", ErrInvalidRendezvousCode, code, CodeLen)
	}
	return nil
}

// Entry is a registered host.
type Entry struct {
	Code       string    `json:"code"`
	Addr       string    `json:"addr"`
	Registered time.Time `json:"registered"`
}

// Registry maps rendezvous codes to host addresses. Codes are handed out on
// Register and live until Unregister.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
	newCode func() string
	now     func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]Entry),
		newCode: generateCode,
		now:     time.Now,
	}
}

// Register stores addr under a fresh code and returns the code.
func (r *Registry) Register(addr string) (string, error) {
	if addr == "" {
		return "", errors.New("empty host address")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for {
		code := r.newCode()
		if _, exists := r.entries[code]; exists {
			continue
		}
		r.entries[code] = Entry{Code: code, Addr: addr, Registered: r.now()}
		return code, nil
	}
}

func (r *Registry) Resolve(code string) (Entry, error) {
	if err := ValidateCode(code); err != nil {
		return Entry{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[code]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrUnknownCode, code)
	}
	return e, nil
}

func (r *Registry) Unregister(code string) error {
	if err := ValidateCode(code); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[code]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCode, code)
	}
	delete(r.entries, code)
	return nil
}

// List returns every registered host, oldest first.
func (r *Registry) List() []Entry {
	r.mu.RLock()
	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Registered.Equal(out[j].Registered) {
			return out[i].Code < out[j].Code
		}
		return out[i].Registered.Before(out[j].Registered)
	})
	return out
}

// generateCode takes the first CodeLen characters of a random UUID.
func generateCode() string {
	return strings.ToUpper(uuid.NewString()[:CodeLen])
}
