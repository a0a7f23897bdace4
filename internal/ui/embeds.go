package ui

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/sonroyaalmerol/wavebot/internal/player"
	"github.com/sonroyaalmerol/wavebot/internal/utils"
)

const (
	SkipButtonID     = "skip_button"
	FavoriteButtonID = "favorite_button"

	colorPlaying = 0x006400
)

// BuildNowPlayingEmbed describes track. original is the session's copy of
// the track and carries the recommendation flag; it may be nil.
func BuildNowPlayingEmbed(track player.Track, original *player.Track) *discordgo.MessageEmbed {
	desc := fmt.Sprintf("**%s** by `%s`", utils.EscapeMd(track.Title), track.Author)
	if original != nil && original.Recommended {
		desc += fmt.Sprintf("\n\n`This track was recommended via %s`", track.SourceName)
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Now Playing",
		Description: desc,
		Color:       colorPlaying,
	}
	if track.ArtworkURL != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: track.ArtworkURL}
	}
	if track.AlbumName != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Album",
			Value: track.AlbumName,
		})
	}
	if track.Length > 0 && !track.IsStream {
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: "Length: " + utils.PrettyTime(int(track.Length.Seconds())),
		}
	}
	return embed
}

// NowPlayingButtons is the action row attached to now-playing messages.
func NowPlayingButtons() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Skip",
					Style:    discordgo.PrimaryButton,
					CustomID: SkipButtonID,
					Emoji:    &discordgo.ComponentEmoji{Name: "⏭️"},
				},
				discordgo.Button{
					Label:    "Favorite",
					Style:    discordgo.SecondaryButton,
					CustomID: FavoriteButtonID,
					Emoji:    &discordgo.ComponentEmoji{Name: "⭐"},
				},
			},
		},
	}
}
