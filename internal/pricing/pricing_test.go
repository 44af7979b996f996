package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testSnapshot(now time.Time) *Snapshot {
	earlyBirdEnd := now.Add(48 * time.Hour)
	expiredEnd := now.Add(-48 * time.Hour)

	tables := []Table{
		{Number: 5, Price: 500, EarlyBirdPrice: 400, EarlyBirdEndDate: &earlyBirdEnd, Seats: 10},
		{Number: 7, Price: 600, EarlyBirdPrice: 450, EarlyBirdEndDate: &expiredEnd, Seats: 10},
		{Number: 9, Price: 300, Seats: 8},
	}
	addons := []Addon{
		{ID: "tshirt", Name: "Festival T-Shirt", Price: 80, Kind: AddonSized, Sizes: []string{"S", "M", "L", "XL"}},
		{ID: "video", Name: "Video Package", Price: 150, Kind: AddonSimple},
		{ID: "desert-transport", Name: "Desert Transport", Price: 120, Kind: AddonTransport},
	}
	workshops := []Workshop{
		{ID: "bachata-adv", Title: "Bachata Advanced", Level: "advanced", Capacity: 30, Enrolled: 30, Price: 100},
		{ID: "salsa-beg", Title: "Salsa Beginner", Level: "beginner", Capacity: 40, Enrolled: 12, Price: 100},
	}
	packagePrices := map[PackageType]int64{
		PackageFull:           1200,
		PackageEvening:        450,
		PackageCustom:         200,
		PackagePremium4Nights: 2800,
		PackagePremium3Nights: 2300,
	}
	return NewSnapshot(now, tables, addons, workshops, packagePrices)
}

func TestIsGalaIncluded(t *testing.T) {
	included := []PackageType{PackageFull, PackagePremium4Nights, PackagePremium3Nights, PackageEvening}
	for _, pkg := range included {
		assert.True(t, IsGalaIncluded(pkg), "package %s should include gala", pkg)
	}

	excluded := []PackageType{PackageCustom, "", "weekend", "unknown-package"}
	for _, pkg := range excluded {
		assert.False(t, IsGalaIncluded(pkg), "package %s should not include gala", pkg)
	}
}

func TestEffectivePriceEarlyBird(t *testing.T) {
	now := time.Now()
	end := now.Add(24 * time.Hour)

	table := Table{Number: 1, Price: 500, EarlyBirdPrice: 400, EarlyBirdEndDate: &end}
	assert.Equal(t, int64(400), table.EffectivePrice(now))

	// Expired window never applies, even with a positive early-bird price.
	expired := now.Add(-time.Minute)
	table.EarlyBirdEndDate = &expired
	assert.Equal(t, int64(500), table.EffectivePrice(now))

	// Zero early-bird price is treated as unset.
	table.EarlyBirdEndDate = &end
	table.EarlyBirdPrice = 0
	assert.Equal(t, int64(500), table.EffectivePrice(now))

	// No window at all.
	table.EarlyBirdEndDate = nil
	table.EarlyBirdPrice = 400
	assert.Equal(t, int64(500), table.EffectivePrice(now))
}

func TestSeatChargeGalaIncluded(t *testing.T) {
	now := time.Now()
	snap := testSnapshot(now)

	// Full package, couple, table with an active early-bird: bundled, so no
	// separate seat charge even though a discounted price exists.
	table := 5
	sel := &Selection{Role: RoleCouple, PackageType: PackageFull, TableNumber: &table}
	assert.Equal(t, int64(0), SeatCharge(snap, sel, now))

	sel.PackageType = PackagePremium3Nights
	assert.Equal(t, int64(0), SeatCharge(snap, sel, now))
}

func TestSeatChargeCustomPackage(t *testing.T) {
	now := time.Now()
	snap := testSnapshot(now)

	table := 5
	sel := &Selection{Role: RoleCouple, PackageType: PackageCustom, TableNumber: &table}
	assert.Equal(t, int64(800), SeatCharge(snap, sel, now)) // 400 early-bird x 2 seats

	sel.Role = RoleLeader
	assert.Equal(t, int64(400), SeatCharge(snap, sel, now))

	// Expired early-bird window falls back to the regular price.
	expiredTable := 7
	sel.TableNumber = &expiredTable
	sel.Role = RoleFollower
	assert.Equal(t, int64(600), SeatCharge(snap, sel, now))
}

func TestSeatChargeDegradesToZero(t *testing.T) {
	now := time.Now()
	snap := testSnapshot(now)

	// No table selected.
	sel := &Selection{Role: RoleLeader, PackageType: PackageCustom}
	assert.Equal(t, int64(0), SeatCharge(snap, sel, now))

	// Unknown table number.
	missing := 99
	sel.TableNumber = &missing
	assert.Equal(t, int64(0), SeatCharge(snap, sel, now))
}

func TestSeatChargeIdempotent(t *testing.T) {
	now := time.Now()
	snap := testSnapshot(now)

	table := 5
	sel := &Selection{Role: RoleCouple, PackageType: PackageCustom, TableNumber: &table}

	first := SeatCharge(snap, sel, now)
	second := SeatCharge(snap, sel, now)
	assert.Equal(t, first, second)
}

func TestAddonsTotal(t *testing.T) {
	now := time.Now()
	snap := testSnapshot(now)

	sel := &Selection{Role: RoleLeader, PackageType: PackageFull}
	sel.SetSimpleQuantity("video", 1)
	sel.AdjustSized("tshirt", "M", 2)
	sel.AdjustSized("tshirt", "L", 1)

	// 150 + 80*2 + 80*1
	assert.Equal(t, int64(390), AddonsTotal(snap, sel))
}

func TestAddonsTotalUnknownAddon(t *testing.T) {
	now := time.Now()
	snap := testSnapshot(now)

	sel := &Selection{Role: RoleLeader, PackageType: PackageFull}
	sel.SetSimpleQuantity("no-such-addon", 3)
	sel.AdjustSized("also-missing", "M", 2)

	assert.Equal(t, int64(0), AddonsTotal(snap, sel))
}

func TestComputeCustomNoSelections(t *testing.T) {
	now := time.Now()
	snap := testSnapshot(now)

	sel := &Selection{Role: RoleLeader, PackageType: PackageCustom}
	q := Compute(snap, sel, now)

	assert.Equal(t, int64(200), q.Total) // base price only
	assert.Equal(t, int64(0), q.SeatCharge)
	assert.Equal(t, int64(0), q.AddonsTotal)
	assert.True(t, sel.CanAdvanceSeating())
}

func TestComputeFullBreakdown(t *testing.T) {
	now := time.Now()
	snap := testSnapshot(now)

	table := 5
	sel := &Selection{Role: RoleCouple, PackageType: PackageCustom, TableNumber: &table}
	sel.SetTransport("desert-transport", true)
	sel.AdjustSized("tshirt", "M", 1)

	q := Compute(snap, sel, now)

	assert.Equal(t, int64(800), q.SeatCharge)
	assert.Equal(t, int64(320), q.AddonsTotal) // transport 120x2 + tshirt 80
	assert.Equal(t, int64(200+800+320), q.Total)
	assert.Len(t, q.Lines, 4) // package, seat, transport, tshirt

	var sum int64
	for _, line := range q.Lines {
		sum += line.Amount
	}
	assert.Equal(t, q.Total, sum)
}

func TestComputeRecomputesAfterCatalogRefresh(t *testing.T) {
	now := time.Now()
	snap := testSnapshot(now)

	table := 5
	sel := &Selection{Role: RoleLeader, PackageType: PackageCustom, TableNumber: &table}
	assert.Equal(t, int64(400), Compute(snap, sel, now).SeatCharge)

	// Refreshed snapshot where the early-bird window has closed: the same
	// selection now prices at the regular rate.
	later := now.Add(72 * time.Hour)
	refreshed := testSnapshot(now)
	assert.Equal(t, int64(500), Compute(refreshed, sel, later).SeatCharge)
}

func TestWorkshopSpotsLeft(t *testing.T) {
	full := Workshop{ID: "w1", Capacity: 30, Enrolled: 30}
	assert.Equal(t, 0, full.SpotsLeft())
	assert.False(t, full.Selectable())

	over := Workshop{ID: "w2", Capacity: 30, Enrolled: 31}
	assert.Equal(t, 0, over.SpotsLeft())

	open := Workshop{ID: "w3", Capacity: 40, Enrolled: 12}
	assert.Equal(t, 28, open.SpotsLeft())
	assert.True(t, open.Selectable())
}

func TestResolveAddonKind(t *testing.T) {
	assert.Equal(t, AddonTransport, ResolveAddonKind("transport", nil))
	assert.Equal(t, AddonSized, ResolveAddonKind("sized", nil))
	assert.Equal(t, AddonSimple, ResolveAddonKind("simple", []string{"M"}))

	// Legacy rows without a tag fall back to the schema shape once.
	assert.Equal(t, AddonSized, ResolveAddonKind("", []string{"S", "M"}))
	assert.Equal(t, AddonSimple, ResolveAddonKind("", nil))
}
