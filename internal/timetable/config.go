package timetable

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed timetable.yaml
var defaultTimetableYAML []byte

// fileTimetable mirrors the YAML document layout.
type fileTimetable struct {
	Slots         []fileSlot              `yaml:"slots"`
	Weekly        map[int][]string        `yaml:"weekly"`
	Materials     map[string]fileMaterial `yaml:"materials"`
	Abbreviations map[string]string       `yaml:"abbreviations"`
	DayNames      map[int]string          `yaml:"day_names"`
}

type fileSlot struct {
	Type   string `yaml:"type"`
	Name   string `yaml:"name"`
	Start  string `yaml:"start"`
	End    string `yaml:"end"`
	Period int    `yaml:"period"`
}

type fileMaterial struct {
	Type  string `yaml:"type"`
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
	Books []struct {
		Name string `yaml:"name"`
		URL  string `yaml:"url"`
	} `yaml:"books"`
}

// Default returns the timetable compiled into the binary.
func Default() (*Timetable, error) {
	return Parse(bytes.NewReader(defaultTimetableYAML))
}

// MustDefault is Default for callers that treat a broken embedded table as
// a build defect.
func MustDefault() *Timetable {
	tt, err := Default()
	if err != nil {
		panic(fmt.Sprintf("embedded timetable: %v", err))
	}
	return tt
}

// LoadFile reads a timetable from a YAML file on disk.
func LoadFile(path string) (*Timetable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening timetable: %w", err)
	}
	defer f.Close()

	tt, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tt, nil
}

// Parse decodes and validates a YAML timetable.
func Parse(r io.Reader) (*Timetable, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc fileTimetable
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding timetable: %w", err)
	}

	tt, err := doc.build()
	if err != nil {
		return nil, err
	}
	if err := tt.Validate(); err != nil {
		return nil, err
	}
	return tt, nil
}

func (doc fileTimetable) build() (*Timetable, error) {
	tt := &Timetable{
		Slots:         make([]TimeSlot, 0, len(doc.Slots)),
		Weekly:        make(WeeklySchedule, len(doc.Weekly)),
		Materials:     make(map[string]LessonMaterial, len(doc.Materials)),
		Abbreviations: doc.Abbreviations,
		DayNames:      make(map[time.Weekday]string, len(doc.DayNames)),
	}

	for i, fs := range doc.Slots {
		start, err := parseClock(fs.Start)
		if err != nil {
			return nil, fmt.Errorf("slot %d (%s) start: %w", i, fs.Name, err)
		}
		end, err := parseClock(fs.End)
		if err != nil {
			return nil, fmt.Errorf("slot %d (%s) end: %w", i, fs.Name, err)
		}
		tt.Slots = append(tt.Slots, TimeSlot{
			Kind:   SlotKind(fs.Type),
			Name:   fs.Name,
			Start:  start,
			End:    end,
			Period: fs.Period,
		})
	}

	for day, lessons := range doc.Weekly {
		if day < int(time.Sunday) || day > int(time.Saturday) {
			return nil, fmt.Errorf("weekly: invalid weekday %d", day)
		}
		tt.Weekly[time.Weekday(day)] = DailySchedule(lessons)
	}

	for name, fm := range doc.Materials {
		m := LessonMaterial{
			Kind:  MaterialKind(fm.Type),
			Label: fm.Label,
			URL:   fm.URL,
		}
		for _, b := range fm.Books {
			m.Books = append(m.Books, Book{Name: b.Name, URL: b.URL})
		}
		tt.Materials[name] = m
	}

	for day, name := range doc.DayNames {
		tt.DayNames[time.Weekday(day)] = name
	}

	return tt, nil
}

// Validate checks the structural invariants the resolver relies on.
func (t *Timetable) Validate() error {
	if len(t.Slots) == 0 {
		return fmt.Errorf("timetable has no slots")
	}

	for i, s := range t.Slots {
		switch s.Kind {
		case SlotLesson:
			if s.Period < 1 {
				return fmt.Errorf("slot %d (%s): lesson needs a period >= 1", i, s.Name)
			}
		case SlotBreak:
			if s.Period != 0 {
				return fmt.Errorf("slot %d (%s): break cannot have a period", i, s.Name)
			}
		default:
			return fmt.Errorf("slot %d (%s): unknown kind %q", i, s.Name, s.Kind)
		}
		if !s.Start.Before(s.End) {
			return fmt.Errorf("slot %d (%s): start %s is not before end %s", i, s.Name, s.Start, s.End)
		}
		if i > 0 && s.Start != t.Slots[i-1].End {
			return fmt.Errorf("slot %d (%s): starts at %s but previous slot ends at %s", i, s.Name, s.Start, t.Slots[i-1].End)
		}
	}

	maxPeriod := t.MaxPeriod()
	for day, lessons := range t.Weekly {
		if day == time.Saturday || day == time.Sunday {
			return fmt.Errorf("weekly: %s cannot carry lessons", day)
		}
		if len(lessons) < maxPeriod {
			return fmt.Errorf("weekly: %s has %d entries, need %d", day, len(lessons), maxPeriod)
		}
	}

	for name, m := range t.Materials {
		switch m.Kind {
		case MaterialInteractive, MaterialPresentation, MaterialPDF:
			if m.URL == "" {
				return fmt.Errorf("material %q: missing url", name)
			}
		case MaterialMultiPDF:
			if len(m.Books) == 0 {
				return fmt.Errorf("material %q: multi-pdf needs books", name)
			}
		default:
			return fmt.Errorf("material %q: unknown type %q", name, m.Kind)
		}
	}

	return nil
}

// parseClock parses a "15:04" formatted clock time.
func parseClock(s string) (ClockTime, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return ClockTime{}, fmt.Errorf("invalid clock time %q", s)
	}
	return ClockTime{Hour: t.Hour(), Minute: t.Minute()}, nil
}
