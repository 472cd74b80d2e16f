package slots

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/regionshade/internal/colormat"
	"github.com/example/regionshade/internal/geometry"
)

func testEntry(left int) Slot {
	return Slot{
		Rect:     geometry.OuterRect{Left: left, Top: 20, Right: left + 300, Bottom: 320},
		Settings: colormat.Settings{InvertEnabled: true, GrayLevel: 1},
		Valid:    true,
	}
}

func TestLoad_MissingFileStartsEmpty(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "saved_rects.txt"))
	if err := s.Load(); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	for i := 0; i < NumSlots; i++ {
		if s.IsValid(i) {
			t.Fatalf("slot %d unexpectedly valid", i)
		}
	}
}

func TestLoad_ParsesFullFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved_rects.txt")
	data := strings.Join([]string{
		"# header comment",
		"; alt comment",
		"",
		"3=100,200,400,500,1,0,2",
		"  7 = -10,0,290,300,0,1,3  ",
	}, "\n")
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	s := NewStore(path)
	if err := s.Load(); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	e := s.Get(3)
	if !e.Valid {
		t.Fatal("slot 3 should be valid")
	}
	want := geometry.OuterRect{Left: 100, Top: 200, Right: 400, Bottom: 500}
	if e.Rect != want {
		t.Fatalf("slot 3 rect = %+v, want %+v", e.Rect, want)
	}
	if !e.Settings.InvertEnabled || e.Settings.GrayscaleEnabled || e.Settings.GrayLevel != 2 {
		t.Fatalf("slot 3 settings = %+v", e.Settings)
	}

	e = s.Get(7)
	if !e.Valid || e.Rect.Left != -10 {
		t.Fatalf("slot 7 = %+v", e)
	}
	if e.Settings.InvertEnabled || !e.Settings.GrayscaleEnabled || e.Settings.GrayLevel != 3 {
		t.Fatalf("slot 7 settings = %+v", e.Settings)
	}
}

func TestLoad_LegacyFourFieldFormatGetsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved_rects.txt")
	if err := os.WriteFile(path, []byte("2=10,20,310,320\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	s := NewStore(path)
	if err := s.Load(); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	e := s.Get(2)
	if !e.Valid {
		t.Fatal("slot 2 should be valid")
	}
	if e.Settings != colormat.DefaultSettings() {
		t.Fatalf("legacy settings = %+v, want defaults", e.Settings)
	}
}

func TestLoad_PartialSettingsFieldsGetDefaults(t *testing.T) {
	// Lines with 5 or 6 fields carry the coordinates but not the full
	// settings trio. The extra fields are ignored and defaults apply,
	// same as the 4-field legacy form.
	cases := []string{
		"3=10,20,300,400,0",
		"3=10,20,300,400,0,1",
	}

	for _, line := range cases {
		path := filepath.Join(t.TempDir(), "saved_rects.txt")
		if err := os.WriteFile(path, []byte(line+"\n"), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
		s := NewStore(path)
		if err := s.Load(); err != nil {
			t.Fatalf("Load() error for %q: %v", line, err)
		}
		e := s.Get(3)
		if !e.Valid {
			t.Fatalf("line %q should populate slot 3", line)
		}
		if e.Settings != colormat.DefaultSettings() {
			t.Fatalf("line %q settings = %+v, want defaults", line, e.Settings)
		}
	}
}

func TestLoad_RejectsWholeLineOnAnyBadField(t *testing.T) {
	cases := []string{
		"1=10,20,300",              // too few coordinates
		"1=10,20,300,abc",          // non-integer coordinate
		"12=10,20,300,400",         // index out of range
		"x=10,20,300,400",          // non-integer index
		"1=10,20,300,400,1,0,9",    // gray level out of range
		"1=10,20,300,400,1,zz,0",   // non-integer grayscale
		"=10,20,300,400",           // empty index
		"1:10,20,300,400",          // no equals separator
	}

	for _, line := range cases {
		path := filepath.Join(t.TempDir(), "saved_rects.txt")
		if err := os.WriteFile(path, []byte(line+"\n"), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
		s := NewStore(path)
		if err := s.Load(); err != nil {
			t.Fatalf("Load() error for %q: %v", line, err)
		}
		for i := 0; i < NumSlots; i++ {
			if s.IsValid(i) {
				t.Fatalf("line %q should not populate any slot", line)
			}
		}
	}
}

func TestLoad_BadLineDoesNotAffectOtherSlots(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved_rects.txt")
	data := "1=10,20,310,320,1,0,0\n5=broken\n9=50,60,350,360,0,0,1\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	s := NewStore(path)
	if err := s.Load(); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !s.IsValid(1) || !s.IsValid(9) {
		t.Fatal("valid lines should survive a bad neighbor")
	}
	if s.IsValid(5) {
		t.Fatal("broken line should be rejected")
	}
}

func TestSaveLoad_RoundTripIsExact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved_rects.txt")
	s := NewStore(path)
	entry := Slot{
		Rect:     geometry.OuterRect{Left: -5, Top: 17, Right: 905, Bottom: 612},
		Settings: colormat.Settings{InvertEnabled: false, GrayscaleEnabled: true, GrayLevel: 3},
		Valid:    true,
	}
	s.Set(3, entry)
	if err := s.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	reloaded := NewStore(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got := reloaded.Get(3); got != entry {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, entry)
	}
}

func TestSave_WritesHeaderAndAscendingOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved_rects.txt")
	s := NewStore(path)
	s.Set(8, testEntry(800))
	s.Set(2, testEntry(200))
	if err := s.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	text := string(data)
	if !strings.HasPrefix(text, "# Saved Rectangle Configurations") {
		t.Fatalf("missing header:\n%s", text)
	}
	if strings.Index(text, "2=") > strings.Index(text, "8=") {
		t.Fatal("slots must be written in ascending index order")
	}
}

func TestSavePreservingExisting_MergesForeignSlots(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved_rects.txt")

	// Another instance saved slot 4.
	other := NewStore(path)
	other.Set(4, testEntry(400))
	if err := other.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	// This instance only knows about slot 2 and never loaded slot 4.
	s := NewStore(path)
	s.Set(2, testEntry(200))
	if err := s.SavePreservingExisting(); err != nil {
		t.Fatalf("SavePreservingExisting() error: %v", err)
	}

	merged := NewStore(path)
	if err := merged.Load(); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !merged.IsValid(2) || !merged.IsValid(4) {
		t.Fatalf("expected slots 2 and 4 after merge, got valid=%v,%v", merged.IsValid(2), merged.IsValid(4))
	}
}

func TestCycleFrom_SkipsSlotZeroAndWraps(t *testing.T) {
	s := NewStore("unused")
	s.Set(0, testEntry(0)) // cycle must never land here
	s.Set(2, testEntry(200))
	s.Set(5, testEntry(500))

	slot, ok := s.CycleFrom(1)
	if !ok || slot != 2 {
		t.Fatalf("CycleFrom(1) = %d,%v, want 2,true", slot, ok)
	}
	slot, ok = s.CycleFrom(slot)
	if !ok || slot != 5 {
		t.Fatalf("CycleFrom(2) = %d,%v, want 5,true", slot, ok)
	}
	slot, ok = s.CycleFrom(slot)
	if !ok || slot != 2 {
		t.Fatalf("CycleFrom(5) = %d,%v, want wrap to 2,true", slot, ok)
	}
}

func TestCycleFrom_NoValidSlots(t *testing.T) {
	s := NewStore("unused")
	s.Set(0, testEntry(0)) // slot 0 alone does not count

	slot, ok := s.CycleFrom(1)
	if ok {
		t.Fatalf("expected no valid slot, got %d", slot)
	}
	if slot != 1 {
		t.Fatalf("current slot should be unchanged, got %d", slot)
	}
}
