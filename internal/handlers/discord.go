package handlers

import (
	"github.com/bwmarrin/discordgo"
)

// Messenger is the chat surface handlers talk through.
type Messenger interface {
	Send(channelID, content string) error
	SendEmbed(channelID string, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) (string, error)
	React(channelID, messageID, emoji string) error
	Delete(channelID, messageID string) error
	RespondEphemeral(i *discordgo.Interaction, content string) error
	Acknowledge(i *discordgo.Interaction) error
}

// VoiceLocator finds the voice channel a member is connected to.
type VoiceLocator interface {
	UserVoiceChannel(guildID, userID string) (string, bool)
}

type discordMessenger struct {
	s *discordgo.Session
}

func (d discordMessenger) Send(channelID, content string) error {
	_, err := d.s.ChannelMessageSend(channelID, content)
	return err
}

func (d discordMessenger) SendEmbed(channelID string, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) (string, error) {
	msg, err := d.s.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: components,
	})
	if err != nil {
		return "", err
	}
	return msg.ID, nil
}

func (d discordMessenger) React(channelID, messageID, emoji string) error {
	return d.s.MessageReactionAdd(channelID, messageID, emoji)
}

func (d discordMessenger) Delete(channelID, messageID string) error {
	return d.s.ChannelMessageDelete(channelID, messageID)
}

func (d discordMessenger) RespondEphemeral(i *discordgo.Interaction, content string) error {
	return d.s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

func (d discordMessenger) Acknowledge(i *discordgo.Interaction) error {
	return d.s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
}

type stateVoiceLocator struct {
	s *discordgo.Session
}

func (l stateVoiceLocator) UserVoiceChannel(guildID, userID string) (string, bool) {
	g, _ := l.s.State.Guild(guildID)
	if g == nil {
		return "", false
	}
	for _, vs := range g.VoiceStates {
		if vs.UserID == userID && vs.ChannelID != "" {
			return vs.ChannelID, true
		}
	}
	return "", false
}
