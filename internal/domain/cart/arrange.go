package cart

import (
	"github.com/google/uuid"

	"github.com/sangkips/caisse-api/pkg/apperror"
)

// KeyFunc extracts a line's id and optional parent id.
type KeyFunc[T any] func(T) (id uuid.UUID, parent *uuid.UUID)

// Arrange reorders lines so every child directly follows its parent. Roots keep
// their relative input order and so do the children of one root. A child whose
// parent is absent, or is itself a child, makes the list malformed.
func Arrange[T any](lines []T, key KeyFunc[T]) ([]T, error) {
	ordered, orphans := arrange(lines, key)
	if len(orphans) > 0 {
		id, _ := key(orphans[0])
		return nil, apperror.NewFieldValidationError("lines",
			"line "+id.String()+" references a parent that is not a root line of this order")
	}
	return ordered, nil
}

func arrange[T any](lines []T, key KeyFunc[T]) (ordered, orphans []T) {
	roots := make(map[uuid.UUID]struct{}, len(lines))
	for _, l := range lines {
		if id, parent := key(l); parent == nil {
			roots[id] = struct{}{}
		}
	}

	children := make(map[uuid.UUID][]T)
	for _, l := range lines {
		_, parent := key(l)
		if parent == nil {
			continue
		}
		if _, ok := roots[*parent]; ok {
			children[*parent] = append(children[*parent], l)
		} else {
			orphans = append(orphans, l)
		}
	}

	ordered = make([]T, 0, len(lines))
	for _, l := range lines {
		id, parent := key(l)
		if parent != nil {
			continue
		}
		ordered = append(ordered, l)
		ordered = append(ordered, children[id]...)
	}
	return ordered, orphans
}
