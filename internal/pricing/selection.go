package pricing

// WorkshopChoice is the tri-state gate for workshop selection on the
// evening package.
type WorkshopChoice int

const (
	ChoiceUnset WorkshopChoice = iota
	ChoiceWants
	ChoiceDeclines
)

// AddonSelection is one simple or transport addon line.
type AddonSelection struct {
	AddonID  string            `json:"addon_id"`
	Quantity int               `json:"quantity"`
	Options  map[string]string `json:"options,omitempty"`
}

// SizedSelection is one (addon, size) line of a sized addon. The selection
// holds at most one entry per (addon, size) pair and never a zero-quantity
// entry.
type SizedSelection struct {
	AddonID  string `json:"addon_id"`
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
}

// Selection is the registrant's in-progress choices. It is owned by a single
// registration session; nothing here is safe for concurrent mutation and
// nothing needs to be.
type Selection struct {
	Role        Role
	PackageType PackageType
	Addons      []AddonSelection
	Sized       []SizedSelection
	TableNumber *int
	Workshops   WorkshopChoice
	WorkshopIDs []string
}

// SetSimpleQuantity sets the quantity for a simple addon, clamped at zero.
// A zero quantity removes the line.
func (s *Selection) SetSimpleQuantity(addonID string, quantity int) {
	if quantity < 0 {
		quantity = 0
	}
	for i := range s.Addons {
		if s.Addons[i].AddonID != addonID {
			continue
		}
		if quantity == 0 {
			s.Addons = append(s.Addons[:i], s.Addons[i+1:]...)
		} else {
			s.Addons[i].Quantity = quantity
		}
		return
	}
	if quantity > 0 {
		s.Addons = append(s.Addons, AddonSelection{AddonID: addonID, Quantity: quantity})
	}
}

// AdjustSized increments or decrements the quantity of one (addon, size)
// entry. Adding an existing size merges into the entry instead of creating a
// duplicate row; a decrement below one removes the entry entirely.
func (s *Selection) AdjustSized(addonID, size string, delta int) {
	for i := range s.Sized {
		if s.Sized[i].AddonID != addonID || s.Sized[i].Size != size {
			continue
		}
		s.Sized[i].Quantity += delta
		if s.Sized[i].Quantity <= 0 {
			s.Sized = append(s.Sized[:i], s.Sized[i+1:]...)
		}
		return
	}
	if delta > 0 {
		s.Sized = append(s.Sized, SizedSelection{AddonID: addonID, Size: size, Quantity: delta})
	}
}

// transportQuantity is the role-derived quantity for a checked transport
// addon. The user never edits this number directly.
func transportQuantity(r Role) int {
	if r == RoleCouple {
		return 2
	}
	return 1
}

// SetTransport checks or unchecks a transport addon. Checked forces the
// quantity to the role-derived value; unchecked removes the line.
func (s *Selection) SetTransport(addonID string, checked bool) {
	if !checked {
		s.SetSimpleQuantity(addonID, 0)
		return
	}
	s.SetSimpleQuantity(addonID, transportQuantity(s.Role))
}

// TransportChecked reports whether the transport addon is currently checked.
func (s *Selection) TransportChecked(addonID string) bool {
	for _, as := range s.Addons {
		if as.AddonID == addonID {
			return as.Quantity > 0
		}
	}
	return false
}

// NormalizeTransport re-derives the forced quantity of every checked
// transport addon from the role. A transport addon is a checkbox: any
// positive quantity means checked, so a wire quantity of 5 collapses to the
// role-derived value the same as 1 would. The snapshot supplies the addon
// kinds.
func (s *Selection) NormalizeTransport(snap *Snapshot) {
	for i := range s.Addons {
		addon, ok := snap.Addon(s.Addons[i].AddonID)
		if !ok || addon.Kind != AddonTransport {
			continue
		}
		if s.Addons[i].Quantity > 0 {
			s.Addons[i].Quantity = transportQuantity(s.Role)
		}
	}
}

// SetRole updates the role and re-derives the forced quantity of every
// checked transport addon, so a leader-to-couple switch can never leave a
// stale quantity behind.
func (s *Selection) SetRole(role Role, snap *Snapshot) {
	s.Role = role
	s.NormalizeTransport(snap)
}

// SelectTable records the chosen gala table.
func (s *Selection) SelectTable(number int) {
	s.TableNumber = &number
}

// ClearTable drops the table choice. For the evening package the workshop
// gate depends on a selected table, so clearing the table resets the gate
// and the workshop picks with it.
func (s *Selection) ClearTable() {
	s.TableNumber = nil
	if s.PackageType == PackageEvening {
		s.Workshops = ChoiceUnset
		s.WorkshopIDs = nil
	}
}

// ChooseWorkshops records the evening-package workshop decision. The
// transition is only legal once a table has been selected and only for the
// evening package. Declining clears the workshop picks in the same step so
// the selection can never hold workshop ids alongside a declined gate.
func (s *Selection) ChooseWorkshops(wants bool) bool {
	if s.PackageType != PackageEvening || s.TableNumber == nil {
		return false
	}
	if wants {
		s.Workshops = ChoiceWants
	} else {
		s.Workshops = ChoiceDeclines
		s.WorkshopIDs = nil
	}
	return true
}

// AddWorkshop records a workshop pick, deduplicating by id. Capacity is
// enforced at submission; the selection only tracks intent.
func (s *Selection) AddWorkshop(id string) {
	for _, existing := range s.WorkshopIDs {
		if existing == id {
			return
		}
	}
	s.WorkshopIDs = append(s.WorkshopIDs, id)
}

// RemoveWorkshop drops a workshop pick.
func (s *Selection) RemoveWorkshop(id string) {
	for i, existing := range s.WorkshopIDs {
		if existing == id {
			s.WorkshopIDs = append(s.WorkshopIDs[:i], s.WorkshopIDs[i+1:]...)
			return
		}
	}
}

// CanAdvanceSeating is the completion guard for the seating step. The
// evening package needs both a table and a workshop decision; other
// gala-included packages need only a table; custom (and anything unknown)
// treats the gala dinner as optional and always advances.
func (s *Selection) CanAdvanceSeating() bool {
	switch {
	case s.PackageType == PackageEvening:
		return s.TableNumber != nil && s.Workshops != ChoiceUnset
	case IsGalaIncluded(s.PackageType):
		return s.TableNumber != nil
	default:
		return true
	}
}
