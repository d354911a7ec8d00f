// Package visibility decides what content an identity may see and which
// render state a page is in. The decision is a single tagged state rather
// than independent flags, so impossible combinations (editing while
// unauthenticated) cannot be represented.
package visibility

// Render states, in resolution order.
const (
	StateChecking        = "checking"        // auth not yet resolved, defer content decisions
	StateUnauthenticated = "unauthenticated" // admin route, no identity: redirect to sign-in
	StateUnauthorized    = "unauthorized"    // identity lacks admin role on an admin route
	StateEmpty           = "empty"           // qualifying view but zero visible items
	StateViewing         = "viewing"         // a current item is selected and visible
	StateEditing         = "editing"         // admin composing/updating; viewing may coexist
)

// Item is the minimal content shape the resolver works over.
type Item struct {
	ID        string `json:"id"`
	Published bool   `json:"published"`
}

// Input captures everything a single resolution needs.
type Input struct {
	AuthPending bool   // identity stream has not emitted yet
	IdentityID  string // "" when anonymous
	Admin       bool   // identity carries the admin role
	AdminRoute  bool   // route requires the admin role
	EditIntent  bool   // viewer asked for the editing surface
	Items       []Item
	RequestedID string // explicitly requested item, may be absent from the set
}

// Decision is the resolved render state plus the effective visible set.
type Decision struct {
	State   string `json:"state"`
	Visible []Item `json:"visible"`
	Current *Item  `json:"current,omitempty"`
	CanEdit bool   `json:"can_edit"`
}

// Resolve is the single transition function from inputs to a render state.
func Resolve(in Input) Decision {
	if in.AuthPending {
		return Decision{State: StateChecking}
	}

	if in.AdminRoute {
		if in.IdentityID == "" {
			return Decision{State: StateUnauthenticated}
		}
		if !in.Admin {
			return Decision{State: StateUnauthorized}
		}
	}

	visible := VisibleSet(in.Items, in.Admin)
	current, ok := SelectCurrent(visible, in.RequestedID)

	d := Decision{Visible: visible, CanEdit: in.Admin}
	if ok {
		d.Current = &current
		d.State = StateViewing
	} else {
		d.State = StateEmpty
	}
	if in.EditIntent && in.Admin {
		d.State = StateEditing
	}
	return d
}

// VisibleSet returns the subset of items the identity may see: admins see
// everything, everyone else only published items. A draft is never in a
// non-admin's set.
func VisibleSet(items []Item, admin bool) []Item {
	if admin {
		out := make([]Item, len(items))
		copy(out, items)
		return out
	}
	out := make([]Item, 0, len(items))
	for _, item := range items {
		if item.Published {
			out = append(out, item)
		}
	}
	return out
}

// SelectCurrent picks the current item: the requested one if it is in the
// visible set, else the first item, else nothing. Callers must reload the
// list before reselecting after any mutation.
func SelectCurrent(visible []Item, requestedID string) (Item, bool) {
	if requestedID != "" {
		for _, item := range visible {
			if item.ID == requestedID {
				return item, true
			}
		}
	}
	if len(visible) > 0 {
		return visible[0], true
	}
	return Item{}, false
}
