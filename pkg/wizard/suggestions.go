package wizard

import (
	"context"

	"github.com/Jacobbrewer1/ticketwolf/pkg/apperr"
	"github.com/Jacobbrewer1/ticketwolf/pkg/entities"
	"github.com/Jacobbrewer1/ticketwolf/pkg/platform"
)

const (
	suggestBasic    = "basic"
	suggestExtended = "extended"
	suggestAll      = "all"
)

type suggestion struct {
	owner []entities.Capability
	staff []entities.Capability
}

var suggestions = map[string]suggestion{
	suggestBasic: {
		owner: []entities.Capability{
			entities.CapViewChannel,
			entities.CapSendMessages,
			entities.CapReadMessageHistory,
			entities.CapAttachFiles,
			entities.CapEmbedLinks,
		},
		staff: []entities.Capability{
			entities.CapViewChannel,
			entities.CapSendMessages,
			entities.CapReadMessageHistory,
			entities.CapAttachFiles,
			entities.CapEmbedLinks,
			entities.CapManageMessages,
		},
	},
	suggestExtended: {
		owner: []entities.Capability{
			entities.CapViewChannel,
			entities.CapSendMessages,
			entities.CapReadMessageHistory,
			entities.CapAddReactions,
			entities.CapUseExternalEmojis,
			entities.CapUseSlashCommands,
		},
		staff: []entities.Capability{
			entities.CapViewChannel,
			entities.CapSendMessages,
			entities.CapReadMessageHistory,
			entities.CapAddReactions,
			entities.CapUseExternalEmojis,
			entities.CapUseSlashCommands,
			entities.CapManageMessages,
			entities.CapMentionEveryone,
		},
	},
}

func suggestionFor(name string) (suggestion, bool) {
	if name == suggestAll {
		basic, extended := suggestions[suggestBasic], suggestions[suggestExtended]
		return suggestion{
			owner: entities.UnionCapabilities(basic.owner, extended.owner),
			staff: entities.UnionCapabilities(basic.staff, extended.staff),
		}, true
	}
	s, ok := suggestions[name]
	return s, ok
}

func (w *Wizard) suggest(ctx context.Context, ix *platform.Interaction, name string) error {
	s, ok := suggestionFor(name)
	if !ok {
		return apperr.Invalid("Unknown suggestion `%s`.", name)
	}

	a, err := w.load(ctx, ix)
	if err != nil {
		return err
	}

	owner, staff := fields["ownerperms"], fields["staffperms"]
	oldOwner, oldStaff := owner.display(&a.Draft), staff.display(&a.Draft)

	a.Draft.OwnerPermissions = append([]entities.Capability(nil), s.owner...)
	a.Draft.StaffPermissions = append([]entities.Capability(nil), s.staff...)

	w.logChange(a, owner.label, oldOwner, owner.display(&a.Draft))
	w.logChange(a, staff.label, oldStaff, staff.display(&a.Draft))

	if err := w.save(ctx, a); err != nil {
		return err
	}
	return ix.Update(ctx, render(screenPermissions, a, "Suggested permissions applied."))
}
