package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSizedSelectionMergesDuplicates(t *testing.T) {
	sel := &Selection{Role: RoleLeader, PackageType: PackageFull}

	sel.AdjustSized("tshirt", "M", 1)
	sel.AdjustSized("tshirt", "M", 1)

	assert.Len(t, sel.Sized, 1)
	assert.Equal(t, 2, sel.Sized[0].Quantity)
	assert.Equal(t, "M", sel.Sized[0].Size)
}

func TestSizedSelectionClampAndRemove(t *testing.T) {
	sel := &Selection{Role: RoleLeader, PackageType: PackageFull}

	sel.AdjustSized("tshirt", "M", 1)
	sel.AdjustSized("tshirt", "M", -1)
	assert.Empty(t, sel.Sized, "entry must disappear at zero quantity")

	// Decrementing below zero never produces a negative or zero-quantity row.
	sel.AdjustSized("tshirt", "L", 2)
	sel.AdjustSized("tshirt", "L", -5)
	assert.Empty(t, sel.Sized)

	// Decrementing a size that was never added is a no-op.
	sel.AdjustSized("tshirt", "XL", -1)
	assert.Empty(t, sel.Sized)

	for _, entry := range sel.Sized {
		assert.Greater(t, entry.Quantity, 0)
	}
}

func TestSimpleQuantityClamp(t *testing.T) {
	sel := &Selection{Role: RoleLeader, PackageType: PackageFull}

	sel.SetSimpleQuantity("video", 2)
	assert.Len(t, sel.Addons, 1)

	sel.SetSimpleQuantity("video", -3)
	assert.Empty(t, sel.Addons)
}

func TestTransportQuantityByRole(t *testing.T) {
	cases := []struct {
		role Role
		want int
	}{
		{RoleCouple, 2},
		{RoleLeader, 1},
		{RoleFollower, 1},
	}

	for _, tc := range cases {
		sel := &Selection{Role: tc.role, PackageType: PackageFull}
		sel.SetTransport("desert-transport", true)

		assert.Len(t, sel.Addons, 1, "role %s", tc.role)
		assert.Equal(t, tc.want, sel.Addons[0].Quantity, "role %s", tc.role)
		assert.True(t, sel.TransportChecked("desert-transport"))

		sel.SetTransport("desert-transport", false)
		assert.Empty(t, sel.Addons)
		assert.False(t, sel.TransportChecked("desert-transport"))
	}
}

func TestNormalizeTransportClampsWireQuantity(t *testing.T) {
	snap := testSnapshot(time.Now())

	// A client can put any quantity on the wire; a transport addon is a
	// checkbox, so anything positive collapses to the role-derived value.
	sel := &Selection{
		Role:        RoleCouple,
		PackageType: PackageFull,
		Addons: []AddonSelection{
			{AddonID: "desert-transport", Quantity: 5},
			{AddonID: "video", Quantity: 3},
		},
	}

	sel.NormalizeTransport(snap)

	assert.Equal(t, 2, sel.Addons[0].Quantity, "transport clamps to the couple quantity")
	assert.Equal(t, 3, sel.Addons[1].Quantity, "simple addon quantities untouched")

	sel.Role = RoleFollower
	sel.NormalizeTransport(snap)
	assert.Equal(t, 1, sel.Addons[0].Quantity)
}

func TestRoleChangeRederivesTransport(t *testing.T) {
	snap := testSnapshot(time.Now())

	sel := &Selection{Role: RoleLeader, PackageType: PackageFull}
	sel.SetTransport("desert-transport", true)
	sel.SetSimpleQuantity("video", 3)

	sel.SetRole(RoleCouple, snap)

	assert.Equal(t, 2, sel.Addons[0].Quantity, "transport follows the new role")
	assert.Equal(t, 3, sel.Addons[1].Quantity, "non-transport quantities untouched")

	sel.SetRole(RoleFollower, snap)
	assert.Equal(t, 1, sel.Addons[0].Quantity)
}

func TestWorkshopGateRequiresTableAndEveningPackage(t *testing.T) {
	sel := &Selection{Role: RoleLeader, PackageType: PackageEvening}

	// No table yet: the gate cannot transition.
	assert.False(t, sel.ChooseWorkshops(true))
	assert.Equal(t, ChoiceUnset, sel.Workshops)

	sel.SelectTable(5)
	assert.True(t, sel.ChooseWorkshops(true))
	assert.Equal(t, ChoiceWants, sel.Workshops)

	// Non-evening packages never use the gate.
	other := &Selection{Role: RoleLeader, PackageType: PackageFull}
	other.SelectTable(5)
	assert.False(t, other.ChooseWorkshops(true))
}

func TestDecliningWorkshopsClearsSelections(t *testing.T) {
	sel := &Selection{Role: RoleLeader, PackageType: PackageEvening}
	sel.SelectTable(5)
	assert.True(t, sel.ChooseWorkshops(true))

	sel.AddWorkshop("salsa-beg")
	sel.AddWorkshop("bachata-adv")
	sel.AddWorkshop("salsa-beg") // dedup
	assert.Len(t, sel.WorkshopIDs, 2)

	assert.True(t, sel.ChooseWorkshops(false))
	assert.Equal(t, ChoiceDeclines, sel.Workshops)
	assert.Empty(t, sel.WorkshopIDs, "declining must clear picks atomically")
}

func TestClearTableResetsEveningGate(t *testing.T) {
	sel := &Selection{Role: RoleLeader, PackageType: PackageEvening}
	sel.SelectTable(5)
	sel.ChooseWorkshops(true)
	sel.AddWorkshop("salsa-beg")

	sel.ClearTable()

	assert.Nil(t, sel.TableNumber)
	assert.Equal(t, ChoiceUnset, sel.Workshops)
	assert.Empty(t, sel.WorkshopIDs)
}

func TestCanAdvanceSeating(t *testing.T) {
	// Custom always advances, table or not.
	custom := &Selection{Role: RoleLeader, PackageType: PackageCustom}
	assert.True(t, custom.CanAdvanceSeating())

	// Gala-included non-evening packages need a table.
	full := &Selection{Role: RoleLeader, PackageType: PackageFull}
	assert.False(t, full.CanAdvanceSeating())
	full.SelectTable(3)
	assert.True(t, full.CanAdvanceSeating())

	// Evening needs a table plus a workshop decision.
	evening := &Selection{Role: RoleLeader, PackageType: PackageEvening}
	assert.False(t, evening.CanAdvanceSeating())
	evening.SelectTable(3)
	assert.False(t, evening.CanAdvanceSeating())
	evening.ChooseWorkshops(false)
	assert.True(t, evening.CanAdvanceSeating())

	// Unknown packages behave like custom: the gala dinner is optional.
	unknown := &Selection{Role: RoleLeader, PackageType: "weekend"}
	assert.True(t, unknown.CanAdvanceSeating())
}

func TestRemoveWorkshop(t *testing.T) {
	sel := &Selection{Role: RoleLeader, PackageType: PackageEvening}
	sel.SelectTable(1)
	sel.ChooseWorkshops(true)
	sel.AddWorkshop("a")
	sel.AddWorkshop("b")

	sel.RemoveWorkshop("a")
	assert.Equal(t, []string{"b"}, sel.WorkshopIDs)

	sel.RemoveWorkshop("missing")
	assert.Equal(t, []string{"b"}, sel.WorkshopIDs)
}
