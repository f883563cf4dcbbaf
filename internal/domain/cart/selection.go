package cart

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sangkips/caisse-api/internal/domain/entity"
	"github.com/sangkips/caisse-api/pkg/apperror"
)

// Selection is the customer's choice for one option slot of a combo.
type Selection struct {
	OptionID uuid.UUID   `json:"option_id" binding:"required"`
	ItemIDs  []uuid.UUID `json:"item_ids"`
}

// ChildSpec describes one child line to create under a combo root line.
type ChildSpec struct {
	OptionID  uuid.UUID
	ItemID    uuid.UUID
	UnitPrice decimal.Decimal
}

// ResolveSelections checks the selections for item against its group and
// returns the child lines to add, ordered by option position then selection
// order. candidates holds every catalog item referenced by the selections.
func ResolveSelections(item *entity.Item, selections []Selection, candidates map[uuid.UUID]*entity.Item) ([]ChildSpec, error) {
	if item.OutOfStock {
		return nil, apperror.NewFieldValidationError("item_id", item.Name+" is out of stock")
	}
	if !item.IsCombo() {
		if len(selections) > 0 {
			return nil, apperror.NewFieldValidationError("selections", item.Name+" has no options")
		}
		return nil, nil
	}
	if item.Group == nil {
		return nil, apperror.NewNotFoundError("Group")
	}

	byOption := make(map[uuid.UUID]Selection, len(selections))
	for _, s := range selections {
		if _, dup := byOption[s.OptionID]; dup {
			return nil, apperror.NewFieldValidationError("selections",
				"option "+s.OptionID.String()+" selected twice")
		}
		byOption[s.OptionID] = s
	}

	options := append([]entity.GroupOption(nil), item.Group.Options...)
	sort.SliceStable(options, func(i, j int) bool { return options[i].Position < options[j].Position })

	var fieldErrors []apperror.FieldError
	var specs []ChildSpec
	for _, opt := range options {
		sel, picked := byOption[opt.ID]
		delete(byOption, opt.ID)

		field := fmt.Sprintf("selections[%s]", opt.Name)
		switch {
		case opt.Required && (!picked || len(sel.ItemIDs) == 0):
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: field, Message: "a choice is required"})
			continue
		case !opt.Multiple && len(sel.ItemIDs) > 1:
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: field, Message: "only one choice is allowed"})
			continue
		}

		for _, id := range sel.ItemIDs {
			choice, ok := candidates[id]
			if !ok {
				fieldErrors = append(fieldErrors, apperror.FieldError{Field: field, Message: "item " + id.String() + " not found"})
				continue
			}
			if opt.CategoryID != nil && choice.CategoryID != *opt.CategoryID {
				fieldErrors = append(fieldErrors, apperror.FieldError{Field: field, Message: choice.Name + " is not offered for this option"})
				continue
			}
			if choice.OutOfStock {
				fieldErrors = append(fieldErrors, apperror.FieldError{Field: field, Message: choice.Name + " is out of stock"})
				continue
			}
			specs = append(specs, ChildSpec{OptionID: opt.ID, ItemID: id, UnitPrice: opt.AddonPrice})
		}
	}

	for id := range byOption {
		fieldErrors = append(fieldErrors, apperror.FieldError{
			Field: "selections", Message: "option " + id.String() + " does not belong to " + item.Group.Name,
		})
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}
	return specs, nil
}
