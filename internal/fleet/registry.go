// Package fleet holds the editable vehicle catalog used by the capacity planner.
package fleet

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/xelth-com/freshroute/internal/models"
)

// StorageKey names the persisted fleet document.
const StorageKey = "fleet-config-v1"

var ErrEmptyFleet = errors.New("fleet has no vehicle with positive capacity")

// DefaultFleet returns the built-in five-vehicle fleet.
func DefaultFleet() []models.Vehicle {
	return []models.Vehicle{
		{ID: "new-truck", Name: "Caminhão Novo", CapacityKg: 8000, ProfileTag: models.ProfileLongHaul, Active: true},
		{ID: "truck", Name: "Caminhão", CapacityKg: 6000, ProfileTag: models.ProfileLongHaul, Active: true},
		{ID: "toco", Name: "Toco", CapacityKg: 4000, ProfileTag: models.ProfileRegional, Active: true},
		{ID: "three-quarter", Name: "3/4", CapacityKg: 3000, ProfileTag: models.ProfileLocal, Active: true},
		{ID: "van", Name: "Van", CapacityKg: 1500, ProfileTag: models.ProfileLowLoad, Active: true},
	}
}

// Store persists raw documents by key. Load returns nil data when the key
// has never been written.
type Store interface {
	Load(key string) ([]byte, error)
	Save(key string, data []byte) error
}

// FileStore keeps each document in <Dir>/<key>.json.
type FileStore struct {
	Dir string
}

func (s FileStore) path(key string) string {
	return filepath.Join(s.Dir, key+".json")
}

func (s FileStore) Load(key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return data, err
}

func (s FileStore) Save(key string, data []byte) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create fleet store dir: %w", err)
	}
	tmp := s.path(key) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path(key))
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu   sync.Mutex
	docs map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string][]byte)}
}

func (s *MemoryStore) Load(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.docs[key], nil
}

func (s *MemoryStore) Save(key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[key] = append([]byte(nil), data...)
	return nil
}

// Normalize cleans a vehicle list: names and tags are trimmed, missing ids
// are generated and vehicles without positive capacity are dropped.
func Normalize(vehicles []models.Vehicle) []models.Vehicle {
	out := make([]models.Vehicle, 0, len(vehicles))
	seen := make(map[string]bool, len(vehicles))
	for _, v := range vehicles {
		if v.CapacityKg <= 0 {
			continue
		}
		v.ID = strings.TrimSpace(v.ID)
		if v.ID == "" || seen[v.ID] {
			v.ID = uuid.New().String()
		}
		seen[v.ID] = true
		v.Name = strings.TrimSpace(v.Name)
		if v.Name == "" {
			v.Name = v.ID
		}
		v.ProfileTag = strings.ToLower(strings.TrimSpace(v.ProfileTag))
		out = append(out, v)
	}
	return out
}

// Decode parses a stored document, falling back to the default fleet when it
// is empty, malformed or holds no usable vehicle.
func Decode(data []byte) []models.Vehicle {
	if len(strings.TrimSpace(string(data))) == 0 {
		return DefaultFleet()
	}
	var stored []models.Vehicle
	if err := json.Unmarshal(data, &stored); err != nil {
		log.Printf("⚠️  Fleet: stored config is malformed, using default fleet: %v", err)
		return DefaultFleet()
	}
	vehicles := Normalize(stored)
	if len(vehicles) == 0 {
		log.Println("⚠️  Fleet: stored config has no usable vehicle, using default fleet")
		return DefaultFleet()
	}
	return vehicles
}

// Registry is the single-writer fleet catalog. Reads always see the last
// successful write.
type Registry struct {
	store    Store
	mu       sync.RWMutex
	vehicles []models.Vehicle
}

// NewRegistry loads the fleet from store. A read failure is logged and the
// default fleet is used.
func NewRegistry(store Store) *Registry {
	data, err := store.Load(StorageKey)
	if err != nil {
		log.Printf("⚠️  Fleet: failed to read %s: %v", StorageKey, err)
		data = nil
	}
	return &Registry{store: store, vehicles: Decode(data)}
}

// Vehicles returns a copy of every vehicle, active or not.
func (r *Registry) Vehicles() []models.Vehicle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.Vehicle(nil), r.vehicles...)
}

// Active returns a copy of the active vehicles.
func (r *Registry) Active() []models.Vehicle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.Vehicle
	for _, v := range r.vehicles {
		if v.Active {
			out = append(out, v)
		}
	}
	return out
}

// Save normalizes and persists vehicles, returning what was stored.
func (r *Registry) Save(vehicles []models.Vehicle) ([]models.Vehicle, error) {
	normalized := Normalize(vehicles)
	if len(normalized) == 0 {
		return nil, ErrEmptyFleet
	}
	if err := r.persist(normalized); err != nil {
		return nil, err
	}
	return append([]models.Vehicle(nil), normalized...), nil
}

// Reset restores and persists the default fleet.
func (r *Registry) Reset() ([]models.Vehicle, error) {
	vehicles := DefaultFleet()
	if err := r.persist(vehicles); err != nil {
		return nil, err
	}
	return DefaultFleet(), nil
}

func (r *Registry) persist(vehicles []models.Vehicle) error {
	data, err := json.Marshal(vehicles)
	if err != nil {
		return fmt.Errorf("failed to encode fleet: %w", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.store.Save(StorageKey, data); err != nil {
		return fmt.Errorf("failed to persist fleet: %w", err)
	}
	r.vehicles = vehicles
	log.Printf("🚚 Fleet saved: %d vehicles", len(vehicles))
	return nil
}
