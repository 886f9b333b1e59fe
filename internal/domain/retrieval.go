package domain

import "fmt"

type Mode int

const (
	ModeAll Mode = iota
	ModeLatest
	ModeSingle
	ModeRange
)

func (m Mode) String() string {
	switch m {
	case ModeAll:
		return "all"
	case ModeLatest:
		return "latest"
	case ModeSingle:
		return "single"
	case ModeRange:
		return "range"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Bound is one end of a range. The zero value is open.
type Bound struct {
	Number ResponseNumber
	Closed bool
}

func Open() Bound {
	return Bound{}
}

func At(n ResponseNumber) Bound {
	return Bound{Number: n, Closed: true}
}

func (b Bound) String() string {
	if !b.Closed {
		return ""
	}
	return fmt.Sprintf("%d", b.Number)
}

// RetrievalSpec says which responses of a thread to fetch.
// Only the fields of the active Mode are meaningful.
type RetrievalSpec struct {
	Mode   Mode
	Count  int            // ModeLatest
	Number ResponseNumber // ModeSingle
	Start  Bound          // ModeRange
	End    Bound          // ModeRange
}

func All() RetrievalSpec {
	return RetrievalSpec{Mode: ModeAll}
}

func Latest(count int) RetrievalSpec {
	return RetrievalSpec{Mode: ModeLatest, Count: count}
}

func Single(n ResponseNumber) RetrievalSpec {
	return RetrievalSpec{Mode: ModeSingle, Number: n}
}

func Range(start, end Bound) RetrievalSpec {
	return RetrievalSpec{Mode: ModeRange, Start: start, End: end}
}

// IsAll reports whether the spec selects every response.
func (s RetrievalSpec) IsAll() bool {
	return s.Mode == ModeAll || (s.Mode == ModeRange && !s.Start.Closed && !s.End.Closed)
}

func (s RetrievalSpec) String() string {
	switch s.Mode {
	case ModeLatest:
		return fmt.Sprintf("l%d", s.Count)
	case ModeSingle:
		return fmt.Sprintf("%d", s.Number)
	case ModeRange:
		return s.Start.String() + "-" + s.End.String()
	default:
		return ""
	}
}
