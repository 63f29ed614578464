package nav

import (
	"context"

	"github.com/normanwashere/patient-portal-prototype-sub001/gate"
	"github.com/normanwashere/patient-portal-prototype-sub001/tenant"
)

// Item is one declared navigation entry.
type Item[K ~string] struct {
	Key       K
	Label     string
	Path      string
	Icon      string
	Predicate tenant.Predicate
	BadgeKey  string
}

// Section groups items under a title.
type Section[K ~string] struct {
	Title string
	Items []Item[K]
}

// Resolver decides the navigation state of one item.
type Resolver[K ~string] interface {
	Nav(ctx context.Context, role gate.Role, key K, pred tenant.Predicate) gate.Decision
}

// BadgeSource supplies badge counts owned by other parts of the portal.
type BadgeSource interface {
	Badge(ctx context.Context, key string) (int, bool)
}

// Badges is a static BadgeSource.
type Badges map[string]int

// Badge implements BadgeSource.
func (b Badges) Badge(_ context.Context, key string) (int, bool) {
	count, ok := b[key]
	return count, ok
}

// BadgeSourceFunc adapts a function to BadgeSource.
type BadgeSourceFunc func(ctx context.Context, key string) (int, bool)

// Badge implements BadgeSource.
func (fn BadgeSourceFunc) Badge(ctx context.Context, key string) (int, bool) {
	if fn == nil {
		return 0, false
	}
	return fn(ctx, key)
}

// RenderedItem is an item that passed the resolver.
type RenderedItem[K ~string] struct {
	Item[K]
	Badge    int
	HasBadge bool
	Decision gate.Decision
}

// RenderedSection holds the visible items of a section and their badge total.
type RenderedSection[K ~string] struct {
	Title      string
	Items      []RenderedItem[K]
	BadgeTotal int
}

// Compose keeps the items whose decision renders, passes badge counts through
// unchanged and drops sections left empty.
func Compose[K ~string](ctx context.Context, resolver Resolver[K], role gate.Role, sections []Section[K], badges BadgeSource) []RenderedSection[K] {
	if resolver == nil {
		return nil
	}
	out := make([]RenderedSection[K], 0, len(sections))
	for _, section := range sections {
		rendered := RenderedSection[K]{Title: section.Title}
		for _, item := range section.Items {
			decision := resolver.Nav(ctx, role, item.Key, item.Predicate)
			if !decision.Render() {
				continue
			}
			entry := RenderedItem[K]{Item: item, Decision: decision}
			if item.BadgeKey != "" && badges != nil {
				entry.Badge, entry.HasBadge = badges.Badge(ctx, item.BadgeKey)
				rendered.BadgeTotal += entry.Badge
			}
			rendered.Items = append(rendered.Items, entry)
		}
		if len(rendered.Items) > 0 {
			out = append(out, rendered)
		}
	}
	return out
}

// Predicates collects the first declared predicate for each module key.
func Predicates[K ~string](sections []Section[K]) map[K]tenant.Predicate {
	out := map[K]tenant.Predicate{}
	for _, section := range sections {
		for _, item := range section.Items {
			if !item.Predicate.Declared() {
				continue
			}
			if _, ok := out[item.Key]; ok {
				continue
			}
			out[item.Key] = item.Predicate
		}
	}
	return out
}

// Keys lists the module keys of sections in declaration order.
func Keys[K ~string](sections []Section[K]) []K {
	seen := map[K]struct{}{}
	var out []K
	for _, section := range sections {
		for _, item := range section.Items {
			if _, ok := seen[item.Key]; ok {
				continue
			}
			seen[item.Key] = struct{}{}
			out = append(out, item.Key)
		}
	}
	return out
}
