package slots

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

type FacetName string

const (
	FacetGenres     FacetName = "genres"
	FacetPublishers FacetName = "publishers"
)

func (n FacetName) label() string {
	if n == FacetPublishers {
		return "publisher"
	}
	return "genre"
}

// NameSource supplies the known facet vocabularies, fetched from the catalog.
type NameSource interface {
	TagNames(ctx context.Context) ([]string, error)
	PublisherNames(ctx context.Context) ([]string, error)
}

// Validator drives the per-facet state machine of the recommendation form.
// Each facet moves Unset -> Disabled, or Unset -> Awaiting -> Confirmed;
// an invalid submission re-enters Awaiting with a re-prompt, without bound.
type Validator struct {
	names NameSource
	log   *slog.Logger
}

func NewValidator(names NameSource, logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{names: names, log: logger}
}

// ValidateToggle applies the user's yes/no answer to the facet's filter
// question. A negative answer disables the facet and returns the
// confirmation reply; an affirmative one keeps any already-confirmed values.
func (v *Validator) ValidateToggle(name FacetName, f Facet, answer any) (Facet, string) {
	switch t := toBool(answer); {
	case t != nil && !*t:
		return Facet{Kind: FacetDisabled}, fmt.Sprintf("Ok, I won't filter by %ss.", name.label())
	case t != nil && *t:
		if f.Kind == FacetConfirmed {
			return f, ""
		}
		return Facet{Kind: FacetAwaiting, Values: f.Values}, ""
	default:
		// No answer yet: leave the facet as it stands so an already
		// submitted value is not lost.
		return f, ""
	}
}

// ValidateValues checks a submission against the catalog vocabulary. Values
// are trimmed, deduplicated and matched case-insensitively; any valid subset
// confirms the facet, none re-enters the awaiting state with a re-prompt.
// A disabled facet passes through untouched.
func (v *Validator) ValidateValues(ctx context.Context, name FacetName, f Facet, submitted []string) (Facet, string, error) {
	if f.Kind == FacetDisabled {
		return f, "", nil
	}

	if len(submitted) == 0 {
		submitted = f.Values
	}
	if len(submitted) == 0 {
		// Nothing to validate; the form keeps prompting.
		return f, "", nil
	}

	known, err := v.vocabulary(ctx, name)
	if err != nil {
		return f, "", err
	}

	seen := make(map[string]bool, len(submitted))
	var valid []string
	for _, value := range submitted {
		value = strings.TrimSpace(value)
		key := strings.ToLower(value)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		if known[key] {
			valid = append(valid, value)
		}
	}
	sort.Strings(valid)

	if len(valid) == 0 {
		v.log.Info("facet submission rejected", "facet", string(name), "submitted", submitted)
		reply := fmt.Sprintf("Sorry, that's not a valid %s. Please try again.", name.label())
		return Facet{Kind: FacetAwaiting}, reply, nil
	}
	return Facet{Kind: FacetConfirmed, Values: valid}, "", nil
}

// Complete reports whether every facet has reached a terminal state, i.e.
// the configuration is ready for the query layer.
func Complete(cfg FilterConfig) bool {
	terminal := func(f Facet) bool {
		return f.Kind == FacetDisabled || f.Kind == FacetConfirmed
	}
	return terminal(cfg.Genres) && terminal(cfg.Publishers)
}

func (v *Validator) vocabulary(ctx context.Context, name FacetName) (map[string]bool, error) {
	var (
		names []string
		err   error
	)
	if name == FacetPublishers {
		names, err = v.names.PublisherNames(ctx)
	} else {
		names, err = v.names.TagNames(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s names: %w", name.label(), err)
	}
	known := make(map[string]bool, len(names))
	for _, n := range names {
		known[strings.ToLower(strings.TrimSpace(n))] = true
	}
	return known, nil
}
