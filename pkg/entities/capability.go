package entities

import "github.com/Jacobbrewer1/discordgo"

// Capability is a named permission applied to a ticket channel for a principal.
type Capability string

const (
	CapViewChannel        Capability = "ViewChannel"
	CapSendMessages       Capability = "SendMessages"
	CapReadMessageHistory Capability = "ReadMessageHistory"
	CapAttachFiles        Capability = "AttachFiles"
	CapEmbedLinks         Capability = "EmbedLinks"
	CapAddReactions       Capability = "AddReactions"
	CapUseExternalEmojis  Capability = "UseExternalEmojis"
	CapManageMessages     Capability = "ManageMessages"
	CapMentionEveryone    Capability = "MentionEveryone"
	CapUseSlashCommands   Capability = "UseSlashCommands"
)

// AllCapabilities is the fixed capability set offered by the permissions screen.
var AllCapabilities = []Capability{
	CapViewChannel,
	CapSendMessages,
	CapReadMessageHistory,
	CapAttachFiles,
	CapEmbedLinks,
	CapAddReactions,
	CapUseExternalEmojis,
	CapManageMessages,
	CapMentionEveryone,
	CapUseSlashCommands,
}

var (
	// DefaultOwnerCapabilities are applied to the ticket owner when the panel configures none.
	DefaultOwnerCapabilities = []Capability{CapViewChannel, CapSendMessages, CapReadMessageHistory}

	// DefaultStaffCapabilities are applied to the staff role when the panel configures none.
	DefaultStaffCapabilities = []Capability{CapViewChannel, CapSendMessages, CapReadMessageHistory, CapManageMessages}
)

var capabilityBits = map[Capability]int64{
	CapViewChannel:        discordgo.PermissionViewChannel,
	CapSendMessages:       discordgo.PermissionSendMessages,
	CapReadMessageHistory: discordgo.PermissionReadMessageHistory,
	CapAttachFiles:        discordgo.PermissionAttachFiles,
	CapEmbedLinks:         discordgo.PermissionEmbedLinks,
	CapAddReactions:       discordgo.PermissionAddReactions,
	CapUseExternalEmojis:  discordgo.PermissionUseExternalEmojis,
	CapManageMessages:     discordgo.PermissionManageMessages,
	CapMentionEveryone:    discordgo.PermissionMentionEveryone,
	CapUseSlashCommands:   discordgo.PermissionUseSlashCommands,
}

var capabilityLabels = map[Capability]string{
	CapViewChannel:        "View Channel",
	CapSendMessages:       "Send Messages",
	CapReadMessageHistory: "Read Message History",
	CapAttachFiles:        "Attach Files",
	CapEmbedLinks:         "Embed Links",
	CapAddReactions:       "Add Reactions",
	CapUseExternalEmojis:  "Use External Emojis",
	CapManageMessages:     "Manage Messages",
	CapMentionEveryone:    "Mention Everyone",
	CapUseSlashCommands:   "Use Slash Commands",
}

// Valid reports whether the capability is part of the fixed set.
func (c Capability) Valid() bool {
	_, ok := capabilityBits[c]
	return ok
}

// Label is the human readable name of the capability.
func (c Capability) Label() string {
	if l, ok := capabilityLabels[c]; ok {
		return l
	}
	return string(c)
}

// PermissionBits folds the capabilities into a Discord permission bit set. Unknown capabilities are ignored.
func PermissionBits(caps []Capability) int64 {
	var bits int64
	for _, c := range caps {
		bits |= capabilityBits[c]
	}
	return bits
}

// CapabilitiesOrDefault returns caps, or def when caps is empty. An empty selection means "use defaults".
func CapabilitiesOrDefault(caps, def []Capability) []Capability {
	if len(caps) == 0 {
		return def
	}
	return caps
}

// ParseCapabilities converts raw select values into capabilities, dropping unknown values.
func ParseCapabilities(values []string) []Capability {
	caps := make([]Capability, 0, len(values))
	for _, v := range values {
		if c := Capability(v); c.Valid() {
			caps = append(caps, c)
		}
	}
	return caps
}

// UnionCapabilities merges capability lists preserving the order of AllCapabilities.
func UnionCapabilities(lists ...[]Capability) []Capability {
	seen := make(map[Capability]bool)
	for _, l := range lists {
		for _, c := range l {
			seen[c] = true
		}
	}

	out := make([]Capability, 0, len(seen))
	for _, c := range AllCapabilities {
		if seen[c] {
			out = append(out, c)
		}
	}
	return out
}
