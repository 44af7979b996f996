// Package pricing computes what a registrant owes given the current catalog
// snapshot and their in-progress selection. All functions are pure: they
// never touch I/O, never error, and degrade missing catalog data to a zero
// contribution so an incomplete catalog can never block the wizard.
package pricing

import (
	"fmt"
	"time"
)

// galaIncludedPackages enumerates the package types that bundle the gala
// dinner seat. Defined once; every call site goes through IsGalaIncluded.
var galaIncludedPackages = map[PackageType]bool{
	PackageFull:           true,
	PackagePremium4Nights: true,
	PackagePremium3Nights: true,
	PackageEvening:        true,
}

// IsGalaIncluded reports whether the package bundles the gala dinner seat.
// Unknown or empty package types are not included.
func IsGalaIncluded(pkg PackageType) bool {
	return galaIncludedPackages[pkg]
}

// SeatCharge computes the amount owed for gala seating. Only the custom
// package ever pays per seat; everything else is either bundled or has no
// paid seating line. Unknown tables charge nothing.
func SeatCharge(snap *Snapshot, sel *Selection, now time.Time) int64 {
	if sel.TableNumber == nil {
		return 0
	}
	if IsGalaIncluded(sel.PackageType) || sel.PackageType != PackageCustom {
		return 0
	}
	table, ok := snap.Table(*sel.TableNumber)
	if !ok {
		return 0
	}
	return table.EffectivePrice(now) * int64(sel.Role.Seats())
}

// AddonsTotal sums every addon line: simple and transport selections by
// quantity, plus each size entry of every sized addon. Selections referring
// to addons missing from the snapshot contribute nothing.
func AddonsTotal(snap *Snapshot, sel *Selection) int64 {
	var total int64
	for _, as := range sel.Addons {
		addon, ok := snap.Addon(as.AddonID)
		if !ok || as.Quantity <= 0 {
			continue
		}
		total += addon.Price * int64(as.Quantity)
	}
	for _, ss := range sel.Sized {
		addon, ok := snap.Addon(ss.AddonID)
		if !ok || ss.Quantity <= 0 {
			continue
		}
		total += addon.Price * int64(ss.Quantity)
	}
	return total
}

// LineItem is one row of a quote breakdown.
type LineItem struct {
	Kind      string `json:"kind"` // package | seat | addon
	Label     string `json:"label"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	Amount    int64  `json:"amount"`
}

// Quote is the computed price for a selection against one snapshot.
type Quote struct {
	Lines       []LineItem `json:"lines"`
	BasePrice   int64      `json:"base_price"`
	SeatCharge  int64      `json:"seat_charge"`
	AddonsTotal int64      `json:"addons_total"`
	Total       int64      `json:"total"`
}

// Compute folds the snapshot and selection into a total and a per-line
// breakdown. Calling it twice with identical inputs yields identical output;
// there is no memoization to go stale across a catalog refresh.
func Compute(snap *Snapshot, sel *Selection, now time.Time) Quote {
	q := Quote{
		BasePrice:   snap.BasePackagePrice(sel.PackageType),
		SeatCharge:  SeatCharge(snap, sel, now),
		AddonsTotal: AddonsTotal(snap, sel),
	}
	q.Total = q.BasePrice + q.SeatCharge + q.AddonsTotal

	q.Lines = append(q.Lines, LineItem{
		Kind:      "package",
		Label:     string(sel.PackageType),
		Quantity:  1,
		UnitPrice: q.BasePrice,
		Amount:    q.BasePrice,
	})

	if q.SeatCharge > 0 && sel.TableNumber != nil {
		seats := sel.Role.Seats()
		q.Lines = append(q.Lines, LineItem{
			Kind:      "seat",
			Label:     fmt.Sprintf("gala table %d", *sel.TableNumber),
			Quantity:  seats,
			UnitPrice: q.SeatCharge / int64(seats),
			Amount:    q.SeatCharge,
		})
	}

	for _, as := range sel.Addons {
		addon, ok := snap.Addon(as.AddonID)
		if !ok || as.Quantity <= 0 {
			continue
		}
		q.Lines = append(q.Lines, LineItem{
			Kind:      "addon",
			Label:     addon.Name,
			Quantity:  as.Quantity,
			UnitPrice: addon.Price,
			Amount:    addon.Price * int64(as.Quantity),
		})
	}
	for _, ss := range sel.Sized {
		addon, ok := snap.Addon(ss.AddonID)
		if !ok || ss.Quantity <= 0 {
			continue
		}
		q.Lines = append(q.Lines, LineItem{
			Kind:      "addon",
			Label:     fmt.Sprintf("%s (%s)", addon.Name, ss.Size),
			Quantity:  ss.Quantity,
			UnitPrice: addon.Price,
			Amount:    addon.Price * int64(ss.Quantity),
		})
	}

	return q
}
