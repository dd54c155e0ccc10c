package main

import (
	"fmt"

	"github.com/Jacobbrewer1/discordgo"
)

func (a *App) guildJoinedHandler() func(s *discordgo.Session, g *discordgo.GuildCreate) {
	return func(_ *discordgo.Session, g *discordgo.GuildCreate) {
		a.Info(fmt.Sprintf("Joined guild %s", g.Name))
		TotalDiscordGuilds.Inc()
	}
}

func (a *App) guildLeaveHandler() func(s *discordgo.Session, g *discordgo.GuildDelete) {
	return func(_ *discordgo.Session, g *discordgo.GuildDelete) {
		// Guilds going unavailable in an outage are not left.
		if g.Unavailable {
			return
		}
		a.Info(fmt.Sprintf("Left guild %s", g.ID))
		TotalDiscordGuilds.Dec()
	}
}
