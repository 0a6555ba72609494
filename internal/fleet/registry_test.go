package fleet

import (
	"testing"

	"github.com/xelth-com/freshroute/internal/models"
)

func TestDecodeFallsBackToDefault(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"malformed", "{not json"},
		{"no positive capacity", `[{"id":"a","capacity_kg":0},{"id":"b","capacity_kg":-10}]`},
		{"empty list", `[]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decode([]byte(tt.data))
			if len(got) != len(DefaultFleet()) || got[0].ID != "new-truck" {
				t.Errorf("got %+v, want default fleet", got)
			}
		})
	}
}

func TestNormalizeAssignsIDsAndDropsInvalid(t *testing.T) {
	got := Normalize([]models.Vehicle{
		{Name: " Kombi ", CapacityKg: 900, ProfileTag: " Low-Load ", Active: true},
		{ID: "broken", CapacityKg: 0},
		{ID: "dup", CapacityKg: 100},
		{ID: "dup", CapacityKg: 200},
	})
	if len(got) != 3 {
		t.Fatalf("got %d vehicles, want 3", len(got))
	}
	if got[0].ID == "" || got[0].Name != "Kombi" || got[0].ProfileTag != models.ProfileLowLoad {
		t.Errorf("first vehicle not normalized: %+v", got[0])
	}
	if got[1].ID != "dup" || got[2].ID == "dup" {
		t.Errorf("duplicate id kept: %q %q", got[1].ID, got[2].ID)
	}
}

func TestRegistrySaveAndReload(t *testing.T) {
	store := FileStore{Dir: t.TempDir()}
	r := NewRegistry(store)
	if len(r.Vehicles()) != 5 {
		t.Fatalf("new registry should start with the default fleet")
	}

	saved, err := r.Save([]models.Vehicle{
		{ID: "big", Name: "Big", CapacityKg: 9000, ProfileTag: models.ProfileLongHaul, Active: true},
		{ID: "idle", Name: "Idle", CapacityKg: 2000, Active: false},
	})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if len(saved) != 2 {
		t.Fatalf("saved %d vehicles, want 2", len(saved))
	}

	reloaded := NewRegistry(store)
	if got := reloaded.Vehicles(); len(got) != 2 || got[0].ID != "big" {
		t.Errorf("reloaded = %+v", got)
	}
	if got := reloaded.Active(); len(got) != 1 || got[0].ID != "big" {
		t.Errorf("active = %+v, want only big", got)
	}
}

func TestRegistrySaveRejectsEmptyFleet(t *testing.T) {
	r := NewRegistry(NewMemoryStore())
	if _, err := r.Save([]models.Vehicle{{ID: "x"}}); err != ErrEmptyFleet {
		t.Errorf("err = %v, want ErrEmptyFleet", err)
	}
	if len(r.Vehicles()) != 5 {
		t.Error("failed save must not replace the fleet")
	}
}

func TestRegistryReset(t *testing.T) {
	store := NewMemoryStore()
	r := NewRegistry(store)
	if _, err := r.Save([]models.Vehicle{{ID: "solo", CapacityKg: 1000, Active: true}}); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Reset(); err != nil {
		t.Fatal(err)
	}
	if got := NewRegistry(store).Vehicles(); len(got) != 5 {
		t.Errorf("after reset got %d vehicles, want 5", len(got))
	}
}
