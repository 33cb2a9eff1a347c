// Package registry holds the monitored hosts and service names and keeps
// them on disk as two flat JSON files.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rileyhilliard/svcmon/internal/errors"
)

// Host is a remote machine entry. Code is a short display label; it is not
// required to be unique.
type Host struct {
	Code     string `json:"code"`
	Hostname string `json:"hostname"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Key identifies the host in the status store: code@user@hostname, or
// code@hostname when there is no user.
func (h Host) Key() string {
	return h.Code + "@" + h.Target()
}

// Target returns the user@hostname string used to dial the host.
func (h Host) Target() string {
	if h.Username == "" {
		return h.Hostname
	}
	return h.Username + "@" + h.Hostname
}

// Paths locates the two registry files.
type Paths struct {
	Hosts    string
	Services string
}

// Registry is the ordered set of hosts and services being monitored.
// It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	paths    Paths
	hosts    []Host
	services []string
}

// New creates an empty registry that persists to paths.
func New(paths Paths) *Registry {
	return &Registry{
		paths:    paths,
		hosts:    []Host{},
		services: []string{},
	}
}

// Load reads both registry files. Missing files yield an empty list;
// files that exist but don't decode are reported as config errors.
func Load(paths Paths) (*Registry, error) {
	r := New(paths)

	if err := readJSON(paths.Hosts, &r.hosts); err != nil {
		return nil, err
	}
	var services []string
	if err := readJSON(paths.Services, &services); err != nil {
		return nil, err
	}
	for _, s := range services {
		r.addServiceLocked(s)
	}

	return r, nil
}

// Paths returns where the registry persists itself.
func (r *Registry) Paths() Paths {
	return r.paths
}

// AddHost appends a host. No validation or deduplication is done.
func (r *Registry) AddHost(h Host) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hosts = append(r.hosts, h)
}

// AddService appends a service name if it isn't already present.
// Returns false when name is empty or already registered.
func (r *Registry) AddService(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.addServiceLocked(name)
}

func (r *Registry) addServiceLocked(name string) bool {
	if name == "" {
		return false
	}
	for _, s := range r.services {
		if s == name {
			return false
		}
	}
	r.services = append(r.services, name)
	return true
}

// Hosts returns a copy of the hosts in insertion order.
func (r *Registry) Hosts() []Host {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Host, len(r.hosts))
	copy(out, r.hosts)
	return out
}

// Services returns a copy of the service names in insertion order.
func (r *Registry) Services() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.services))
	copy(out, r.services)
	return out
}

// FindHost returns the first host whose code matches.
func (r *Registry) FindHost(code string) (Host, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, h := range r.hosts {
		if h.Code == code {
			return h, true
		}
	}
	return Host{}, false
}

// HasService reports whether name is registered.
func (r *Registry) HasService(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.services {
		if s == name {
			return true
		}
	}
	return false
}

// Persist writes the full registry to disk, replacing prior contents.
// A failed write leaves the in-memory registry untouched; the next
// successful Persist reconciles the two.
func (r *Registry) Persist() error {
	r.mu.RLock()
	hosts := make([]Host, len(r.hosts))
	copy(hosts, r.hosts)
	services := make([]string, len(r.services))
	copy(services, r.services)
	r.mu.RUnlock()

	if err := writeJSON(r.paths.Hosts, hosts); err != nil {
		return err
	}
	return writeJSON(r.paths.Services, services)
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Couldn't read %s", path),
			"Check the file exists and you have read permissions.")
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("%s isn't valid JSON", path),
			"Fix the file by hand or move it aside to start with an empty list.")
	}
	return nil
}

// writeJSON replaces path atomically via a temp file and rename.
func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrPersist,
			fmt.Sprintf("Couldn't encode %s", filepath.Base(path)),
			"This is unexpected - please report this bug!")
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.WrapWithCode(err, errors.ErrPersist,
				fmt.Sprintf("Couldn't create %s", dir),
				"Check that you have write permissions.")
		}
	}

	tmpPath := fmt.Sprintf("%s.%d.tmp", path, time.Now().UnixNano())
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return errors.WrapWithCode(err, errors.ErrPersist,
			fmt.Sprintf("Couldn't write %s", path),
			"Check that you have write permissions.")
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return errors.WrapWithCode(err, errors.ErrPersist,
			fmt.Sprintf("Couldn't replace %s", path),
			"Check that you have write permissions.")
	}
	return nil
}
