// Package slots persists saved regions and their color settings to a plain
// text file with ten fixed slots. Slot 0 is reserved for cycling and is
// never written by an explicit save.
//
// The file has no concurrency control. SavePreservingExisting does a
// read-merge-write so one instance's save does not erase slots written by
// another, but two saves racing within the same instant are still
// last-writer-wins on the whole file.
package slots

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/example/regionshade/internal/colormat"
	"github.com/example/regionshade/internal/geometry"
)

// NumSlots is the fixed slot count, indices 0-9.
const NumSlots = 10

// DefaultFileName is the slot file name under the config directory.
const DefaultFileName = "saved_rects.txt"

const fileHeader = `# Saved Rectangle Configurations with Color Settings
# Format: SlotNumber=Left,Top,Right,Bottom,Invert,Grayscale,GrayLevel
# Slots 1-9 available. Use 0 to cycle, 1-9 to load, Ctrl+1-9 to save.
# Invert: 1=enabled, 0=disabled
# Grayscale: 1=enabled, 0=disabled
# GrayLevel: 0=100%, 1=80%, 2=60%, 3=40%
`

// Slot is one saved region plus the color settings active when it was saved.
// The rectangle is an outer-window rect, exactly as the window manager
// reported it at save time.
type Slot struct {
	Rect     geometry.OuterRect
	Settings colormat.Settings
	Valid    bool
}

// Store is the in-memory slot table backed by a single text file. Load once
// at startup, mutate through Set/Clear, flush with Save or
// SavePreservingExisting.
type Store struct {
	path    string
	entries [NumSlots]Slot
}

// NewStore creates an empty store backed by the given file path. The file
// is not touched until Load or Save.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the backing file, replacing the in-memory table. A missing
// file is not an error; the store just starts empty. Malformed lines are
// skipped without affecting other slots.
func (s *Store) Load() error {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.entries = [NumSlots]Slot{}
			return nil
		}
		return fmt.Errorf("failed to open slot file: %w", err)
	}
	defer f.Close()

	s.entries = [NumSlots]Slot{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if idx, entry, ok := parseLine(scanner.Text()); ok {
			s.entries[idx] = entry
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read slot file: %w", err)
	}
	return nil
}

// Save writes the full table to the backing file: the fixed comment header,
// then every valid slot in ascending index order.
func (s *Store) Save() error {
	var b strings.Builder
	b.WriteString(fileHeader)
	b.WriteString("\n")
	for i := 0; i < NumSlots; i++ {
		if s.entries[i].Valid {
			b.WriteString(formatLine(i, s.entries[i]))
			b.WriteString("\n")
		}
	}
	if err := os.WriteFile(s.path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write slot file: %w", err)
	}
	return nil
}

// SavePreservingExisting re-reads the on-disk state, overlays this
// instance's valid slots, and writes the merged result. Slots saved by
// other instances survive as long as this instance never wrote to them.
func (s *Store) SavePreservingExisting() error {
	merged := NewStore(s.path)
	if err := merged.Load(); err != nil {
		return err
	}
	for i := 0; i < NumSlots; i++ {
		if s.entries[i].Valid {
			merged.entries[i] = s.entries[i]
		}
	}
	return merged.Save()
}

// Get returns the slot at the given index, or a zero (invalid) slot when
// the index is out of range.
func (s *Store) Get(slot int) Slot {
	if slot < 0 || slot >= NumSlots {
		return Slot{}
	}
	return s.entries[slot]
}

// Set stores an entry at the given index. Out-of-range indices are ignored.
func (s *Store) Set(slot int, entry Slot) {
	if slot < 0 || slot >= NumSlots {
		return
	}
	s.entries[slot] = entry
}

// Clear marks a slot invalid.
func (s *Store) Clear(slot int) {
	if slot < 0 || slot >= NumSlots {
		return
	}
	s.entries[slot] = Slot{}
}

// IsValid reports whether the given slot holds a saved region.
func (s *Store) IsValid(slot int) bool {
	if slot < 0 || slot >= NumSlots {
		return false
	}
	return s.entries[slot].Valid
}

// CycleFrom advances from the current slot to the next valid one, skipping
// slot 0 and wrapping after 9. Returns the found slot and true, or the
// current slot and false when slots 1-9 are all empty.
func (s *Store) CycleFrom(current int) (int, bool) {
	slot := current
	for attempts := 0; attempts < NumSlots-1; attempts++ {
		slot++
		if slot >= NumSlots {
			slot = 1
		}
		if s.entries[slot].Valid {
			return slot, true
		}
	}
	return current, false
}

// parseLine parses one slot file line. It returns the fully populated entry
// or ok=false; a line is never partially applied. Accepted forms:
//
//	index=left,top,right,bottom
//	index=left,top,right,bottom,invert,grayscale,grayLevel
//
// The 4-field legacy form fills in the historical defaults (invert on,
// grayscale off, full brightness).
func parseLine(line string) (int, Slot, bool) {
	line = strings.TrimSpace(line)
	if line == "" || line[0] == '#' || line[0] == ';' {
		return 0, Slot{}, false
	}

	key, data, found := strings.Cut(line, "=")
	if !found {
		return 0, Slot{}, false
	}

	idx, err := strconv.Atoi(strings.TrimSpace(key))
	if err != nil || idx < 0 || idx >= NumSlots {
		return 0, Slot{}, false
	}

	fields := strings.Split(data, ",")
	if len(fields) < 4 {
		return 0, Slot{}, false
	}

	var coords [4]int
	for i := 0; i < 4; i++ {
		coords[i], err = strconv.Atoi(strings.TrimSpace(fields[i]))
		if err != nil {
			return 0, Slot{}, false
		}
	}

	entry := Slot{
		Rect: geometry.OuterRect{
			Left:   coords[0],
			Top:    coords[1],
			Right:  coords[2],
			Bottom: coords[3],
		},
		Settings: colormat.DefaultSettings(),
		Valid:    true,
	}

	if len(fields) >= 7 {
		invert, err := strconv.Atoi(strings.TrimSpace(fields[4]))
		if err != nil {
			return 0, Slot{}, false
		}
		grayscale, err := strconv.Atoi(strings.TrimSpace(fields[5]))
		if err != nil {
			return 0, Slot{}, false
		}
		grayLevel, err := strconv.Atoi(strings.TrimSpace(fields[6]))
		if err != nil || grayLevel < 0 || grayLevel >= colormat.GrayLevels {
			return 0, Slot{}, false
		}
		entry.Settings = colormat.Settings{
			InvertEnabled:    invert != 0,
			GrayscaleEnabled: grayscale != 0,
			GrayLevel:        grayLevel,
		}
	}

	return idx, entry, true
}

func formatLine(idx int, entry Slot) string {
	return fmt.Sprintf("%d=%d,%d,%d,%d,%d,%d,%d",
		idx,
		entry.Rect.Left, entry.Rect.Top, entry.Rect.Right, entry.Rect.Bottom,
		boolToInt(entry.Settings.InvertEnabled),
		boolToInt(entry.Settings.GrayscaleEnabled),
		entry.Settings.GrayLevel,
	)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
