package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dunefest/internal/pricing"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return ts
}

func TestFlexibleBoolUnmarshal(t *testing.T) {
	cases := map[string]bool{
		`true`:    true,
		`"true"`:  true,
		`"1"`:     true,
		`"yes"`:   true,
		`false`:   false,
		`"false"`: false,
		`"0"`:     false,
		`"off"`:   false,
	}

	for raw, want := range cases {
		var fb FlexibleBool
		err := json.Unmarshal([]byte(raw), &fb)
		require.NoError(t, err, "input %s", raw)
		assert.Equal(t, want, fb.Bool(), "input %s", raw)
	}

	var fb FlexibleBool
	assert.Error(t, json.Unmarshal([]byte(`"maybe"`), &fb))
}

func TestQuoteRequestSelectionFoldsDuplicateSizedRows(t *testing.T) {
	req := QuoteRequest{
		Role:        "leader",
		PackageType: "full",
		SizedAddons: []SizedAddonLine{
			{AddonID: "tshirt", Size: "M", Quantity: 1},
			{AddonID: "tshirt", Size: "M", Quantity: 2},
			{AddonID: "tshirt", Size: "L", Quantity: 1},
			{AddonID: "tshirt", Size: "S", Quantity: -3},
		},
	}

	sel := req.Selection()

	// Duplicate (addon, size) rows merge, non-positive rows vanish.
	require.Len(t, sel.Sized, 2)
	assert.Equal(t, 3, sel.Sized[0].Quantity)
	assert.Equal(t, "M", sel.Sized[0].Size)
	assert.Equal(t, "L", sel.Sized[1].Size)
}

func TestQuoteRequestSelectionClampsSimpleQuantities(t *testing.T) {
	req := QuoteRequest{
		Role:        "couple",
		PackageType: "custom",
		Addons: []AddonLine{
			{AddonID: "video", Quantity: 2},
			{AddonID: "poster", Quantity: -1},
		},
	}

	sel := req.Selection()

	require.Len(t, sel.Addons, 1)
	assert.Equal(t, "video", sel.Addons[0].AddonID)
	assert.Equal(t, 2, sel.Addons[0].Quantity)
}

func TestQuoteRequestSelectionWorkshopChoice(t *testing.T) {
	req := QuoteRequest{Role: "leader", PackageType: "evening"}
	assert.Equal(t, pricing.ChoiceUnset, req.Selection().Workshops)

	wants := FlexibleBool(true)
	req.WantsWorkshops = &wants
	req.WorkshopIDs = []string{"musicality-basics", "musicality-basics", "advanced-styling"}
	sel := req.Selection()
	assert.Equal(t, pricing.ChoiceWants, sel.Workshops)
	// Duplicate ids collapse.
	assert.Equal(t, []string{"musicality-basics", "advanced-styling"}, sel.WorkshopIDs)

	declines := FlexibleBool(false)
	req.WantsWorkshops = &declines
	req.WorkshopIDs = nil
	assert.Equal(t, pricing.ChoiceDeclines, req.Selection().Workshops)
}

func TestEventRegistrationOpen(t *testing.T) {
	open := mustTime(t, "2026-01-01T00:00:00Z")
	closeAt := mustTime(t, "2026-03-01T00:00:00Z")

	event := Event{
		IsActive:              true,
		RegistrationOpenDate:  &open,
		RegistrationCloseDate: &closeAt,
	}

	assert.False(t, event.RegistrationOpen(mustTime(t, "2025-12-31T23:00:00Z")))
	assert.True(t, event.RegistrationOpen(mustTime(t, "2026-02-01T00:00:00Z")))
	assert.False(t, event.RegistrationOpen(mustTime(t, "2026-03-02T00:00:00Z")))

	event.IsActive = false
	assert.False(t, event.RegistrationOpen(mustTime(t, "2026-02-01T00:00:00Z")))

	// No window means always open while active.
	always := Event{IsActive: true}
	assert.True(t, always.RegistrationOpen(mustTime(t, "2026-02-01T00:00:00Z")))
}
