package slots

import "strings"

// NoFilter is the sentinel the external slot store uses to mark a facet the
// user declined. It never appears inside a Facet; it exists only at the
// encode/decode boundary.
const NoFilter = "NO"

// Slot keys shared with the external dialogue engine.
const (
	SlotGame             = "game"
	SlotGenres           = "genres"
	SlotGenresFilter     = "genres_filter"
	SlotPublishers       = "publishers"
	SlotPublishersFilter = "publishers_filter"
)

type FacetKind int

const (
	// FacetUnset: the user has not been asked about this facet yet.
	FacetUnset FacetKind = iota
	// FacetDisabled: the user declined the filter.
	FacetDisabled
	// FacetAwaiting: the filter is wanted but no value has been confirmed.
	// Values may hold an unvalidated submission.
	FacetAwaiting
	// FacetConfirmed: Values passed validation against the catalog.
	FacetConfirmed
)

func (k FacetKind) String() string {
	switch k {
	case FacetDisabled:
		return "disabled"
	case FacetAwaiting:
		return "awaiting"
	case FacetConfirmed:
		return "confirmed"
	default:
		return "unset"
	}
}

// Facet is one toggle-able filter dimension of the recommendation form.
type Facet struct {
	Kind   FacetKind
	Values []string
}

// Inactive reports whether the facet contributes no filter to the query.
func (f Facet) Inactive() bool {
	return f.Kind == FacetUnset || f.Kind == FacetDisabled
}

func (f Facet) Confirmed() bool {
	return f.Kind == FacetConfirmed
}

// FilterConfig is the transient filter state of one recommendation dialogue.
type FilterConfig struct {
	Genres     Facet
	Publishers Facet
}

// FacetFromSlots rebuilds a facet from its external toggle/values slot pair.
// The mapping is lossless for every state the validator can leave behind, so
// a suspend/resume cycle through the slot store preserves the machine state.
func FacetFromSlots(toggle, values any) Facet {
	vals := toStrings(values)
	if isNoSentinel(vals) {
		return Facet{Kind: FacetDisabled}
	}
	switch t := toBool(toggle); {
	case t != nil && !*t:
		return Facet{Kind: FacetDisabled}
	case t != nil && *t:
		if len(vals) > 0 {
			return Facet{Kind: FacetConfirmed, Values: vals}
		}
		return Facet{Kind: FacetAwaiting}
	case len(vals) > 0:
		// Submitted before the toggle was answered; still needs validation.
		return Facet{Kind: FacetAwaiting, Values: vals}
	default:
		return Facet{Kind: FacetUnset}
	}
}

// ToSlots is the inverse of FacetFromSlots.
func (f Facet) ToSlots() (toggle, values any) {
	switch f.Kind {
	case FacetDisabled:
		return false, []string{NoFilter}
	case FacetConfirmed:
		return true, f.Values
	case FacetAwaiting:
		if len(f.Values) > 0 {
			return nil, f.Values
		}
		return true, nil
	default:
		return nil, nil
	}
}

func isNoSentinel(vals []string) bool {
	return len(vals) == 1 && strings.EqualFold(vals[0], NoFilter)
}

func toStrings(v any) []string {
	switch vv := v.(type) {
	case nil:
		return nil
	case []string:
		return vv
	case string:
		if vv == "" {
			return nil
		}
		return []string{vv}
	case []any:
		out := make([]string, 0, len(vv))
		for _, item := range vv {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func toBool(v any) *bool {
	if b, ok := v.(bool); ok {
		return &b
	}
	return nil
}
