package main

import "github.com/Jacobbrewer1/discordgo"

const (
	panelCmdName    = "panel"
	ticketCmdName   = "ticket"
	ticketsCmdName  = "tickets"
	templateCmdName = "template"
	prefixCmdName   = "prefix"
)

// Sub commands.
const (
	createSubCmd     = "create"
	editSubCmd       = "edit"
	deleteSubCmd     = "delete"
	listSubCmd       = "list"
	closeSubCmd      = "close"
	reopenSubCmd     = "reopen"
	claimSubCmd      = "claim"
	unclaimSubCmd    = "unclaim"
	renameSubCmd     = "rename"
	addUserSubCmd    = "adduser"
	transcriptSubCmd = "transcript"
	clearSubCmd      = "clear"
	saveSubCmd       = "save"
	importSubCmd     = "import"
	setSubCmd        = "set"
)

// Option names.
const (
	idOption     = "id"
	nameOption   = "name"
	userOptName  = "user"
	panelOption  = "panel"
	codeOption   = "code"
	prefixOption = "prefix"
)

var manageChannels int64 = discordgo.PermissionManageChannels

func subCmd(name, description string, options ...*discordgo.ApplicationCommandOption) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Name:        name,
		Type:        discordgo.ApplicationCommandOptionSubCommand,
		Description: description,
		Options:     options,
	}
}

func stringOpt(name, description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Name:        name,
		Type:        discordgo.ApplicationCommandOptionString,
		Description: description,
		Required:    true,
	}
}

func userOpt(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Name:        userOptName,
		Type:        discordgo.ApplicationCommandOptionUser,
		Description: description,
		Required:    true,
	}
}

// slashCommands are registered in every guild the bot is in.
var slashCommands = []*discordgo.ApplicationCommand{
	{
		Name:                     panelCmdName,
		Type:                     discordgo.ChatApplicationCommand,
		Description:              "Create and manage ticket panels.",
		DefaultMemberPermissions: &manageChannels,
		Options: []*discordgo.ApplicationCommandOption{
			subCmd(createSubCmd, "Start the setup wizard for a new panel."),
			subCmd(editSubCmd, "Edit an existing panel in the setup wizard.",
				stringOpt(idOption, "The id of the panel, e.g. 1001.")),
			subCmd(deleteSubCmd, "Delete a panel and its message.",
				stringOpt(idOption, "The id of the panel, e.g. 1001.")),
			subCmd(listSubCmd, "List the panels of this server."),
		},
	},
	{
		Name:        ticketCmdName,
		Type:        discordgo.ChatApplicationCommand,
		Description: "Manage the ticket of this channel.",
		Options: []*discordgo.ApplicationCommandOption{
			subCmd(closeSubCmd, "Close this ticket."),
			subCmd(reopenSubCmd, "Reopen this ticket."),
			subCmd(claimSubCmd, "Claim this ticket."),
			subCmd(unclaimSubCmd, "Release your claim on this ticket."),
			subCmd(renameSubCmd, "Rename this ticket's channel.",
				stringOpt(nameOption, "The new channel name.")),
			subCmd(deleteSubCmd, "Delete this ticket and its channel."),
			subCmd(addUserSubCmd, "Give another member access to this ticket.",
				userOpt("The member to add.")),
			subCmd(transcriptSubCmd, "Create a transcript of this ticket."),
		},
	},
	{
		Name:                     ticketsCmdName,
		Type:                     discordgo.ChatApplicationCommand,
		Description:              "Manage tickets across the server.",
		DefaultMemberPermissions: &manageChannels,
		Options: []*discordgo.ApplicationCommandOption{
			subCmd(clearSubCmd, "Delete every ticket of a member.",
				userOpt("The member whose tickets are deleted.")),
		},
	},
	{
		Name:                     templateCmdName,
		Type:                     discordgo.ChatApplicationCommand,
		Description:              "Share panels between servers.",
		DefaultMemberPermissions: &manageChannels,
		Options: []*discordgo.ApplicationCommandOption{
			subCmd(saveSubCmd, "Save a panel as a template.",
				stringOpt(panelOption, "The id of the panel, e.g. 1001.")),
			subCmd(importSubCmd, "Create a panel from a template.",
				stringOpt(codeOption, "The template code.")),
			subCmd(listSubCmd, "List your templates."),
			subCmd(deleteSubCmd, "Delete one of your templates.",
				stringOpt(codeOption, "The template code.")),
		},
	},
	{
		Name:                     prefixCmdName,
		Type:                     discordgo.ChatApplicationCommand,
		Description:              "Configure the message command prefix.",
		DefaultMemberPermissions: &manageChannels,
		Options: []*discordgo.ApplicationCommandOption{
			subCmd(setSubCmd, "Set the prefix of message commands.",
				stringOpt(prefixOption, "The new prefix.")),
		},
	},
}
