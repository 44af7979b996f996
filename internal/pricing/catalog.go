package pricing

import (
	"time"
)

// Role identifies who is registering.
type Role string

const (
	RoleLeader   Role = "leader"
	RoleFollower Role = "follower"
	RoleCouple   Role = "couple"
)

// Seats returns how many gala seats the role occupies.
func (r Role) Seats() int {
	if r == RoleCouple {
		return 2
	}
	return 1
}

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleLeader || r == RoleFollower || r == RoleCouple
}

// PackageType determines which items are bundled into the base price.
type PackageType string

const (
	PackageFull           PackageType = "full"
	PackageEvening        PackageType = "evening"
	PackageCustom         PackageType = "custom"
	PackagePremium4Nights PackageType = "premium-accommodation-4nights"
	PackagePremium3Nights PackageType = "premium-accommodation-3nights"
)

// AddonKind is the explicit variant tag for an addon. It is resolved once
// when the snapshot is built so nothing downstream sniffs option schemas.
type AddonKind string

const (
	// AddonSimple is a plain quantity-stepper addon.
	AddonSimple AddonKind = "simple"
	// AddonSized requires a size choice with an independent quantity per size.
	AddonSized AddonKind = "sized"
	// AddonTransport is a checkbox addon whose quantity is derived from role.
	AddonTransport AddonKind = "transport"
)

// ResolveAddonKind maps a stored kind (possibly empty on legacy rows) plus
// the option schema to the explicit tag. Rows without a kind fall back to
// the schema shape exactly once, here.
func ResolveAddonKind(kind string, sizes []string) AddonKind {
	switch AddonKind(kind) {
	case AddonSimple, AddonSized, AddonTransport:
		return AddonKind(kind)
	}
	if len(sizes) > 0 {
		return AddonSized
	}
	return AddonSimple
}

// Table is a gala dinner table as seen by the pricing engine.
type Table struct {
	Number           int
	Price            int64
	EarlyBirdPrice   int64
	EarlyBirdEndDate *time.Time
	Seats            int
}

// EffectivePrice returns the per-seat price in effect at now. The early-bird
// price applies only while the window is open and the discounted price is
// positive; after the cutoff the regular price always wins.
func (t Table) EffectivePrice(now time.Time) int64 {
	if t.EarlyBirdEndDate != nil && t.EarlyBirdPrice > 0 && now.Before(*t.EarlyBirdEndDate) {
		return t.EarlyBirdPrice
	}
	return t.Price
}

// Addon is a catalog addon with its resolved variant tag.
type Addon struct {
	ID    string
	Name  string
	Price int64
	Kind  AddonKind
	Sizes []string
}

// HasSize reports whether size is part of the addon's size schema.
func (a Addon) HasSize(size string) bool {
	for _, s := range a.Sizes {
		if s == size {
			return true
		}
	}
	return false
}

// Workshop is a catalog workshop.
type Workshop struct {
	ID       string
	Title    string
	Level    string
	Capacity int
	Enrolled int
	Price    int64
}

// SpotsLeft returns the remaining capacity, never negative.
func (w Workshop) SpotsLeft() int {
	if left := w.Capacity - w.Enrolled; left > 0 {
		return left
	}
	return 0
}

// Selectable reports whether the workshop can still be chosen.
func (w Workshop) Selectable() bool {
	return w.SpotsLeft() > 0
}

// Snapshot is a read-only view of the catalog taken at a single point in
// time. Quotes are a pure function of (snapshot, selection); the engine
// never reaches past the snapshot, so a stale catalog can only ever
// undercharge until the next refresh, never block.
type Snapshot struct {
	TakenAt time.Time

	tables        map[int]Table
	addons        map[string]Addon
	workshops     map[string]Workshop
	packagePrices map[PackageType]int64
}

// NewSnapshot builds a snapshot from catalog rows. Inputs are copied; the
// snapshot is safe to share across goroutines.
func NewSnapshot(takenAt time.Time, tables []Table, addons []Addon, workshops []Workshop, packagePrices map[PackageType]int64) *Snapshot {
	s := &Snapshot{
		TakenAt:       takenAt,
		tables:        make(map[int]Table, len(tables)),
		addons:        make(map[string]Addon, len(addons)),
		workshops:     make(map[string]Workshop, len(workshops)),
		packagePrices: make(map[PackageType]int64, len(packagePrices)),
	}
	for _, t := range tables {
		s.tables[t.Number] = t
	}
	for _, a := range addons {
		s.addons[a.ID] = a
	}
	for _, w := range workshops {
		s.workshops[w.ID] = w
	}
	for pkg, price := range packagePrices {
		s.packagePrices[pkg] = price
	}
	return s
}

// Table looks up a table by number.
func (s *Snapshot) Table(number int) (Table, bool) {
	t, ok := s.tables[number]
	return t, ok
}

// Addon looks up an addon by id.
func (s *Snapshot) Addon(id string) (Addon, bool) {
	a, ok := s.addons[id]
	return a, ok
}

// Workshop looks up a workshop by id.
func (s *Snapshot) Workshop(id string) (Workshop, bool) {
	w, ok := s.workshops[id]
	return w, ok
}

// BasePackagePrice returns the base price for the package, 0 when the
// package is unknown to the catalog.
func (s *Snapshot) BasePackagePrice(pkg PackageType) int64 {
	return s.packagePrices[pkg]
}
