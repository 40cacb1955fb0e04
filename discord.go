package main

import (
	"context"
	"fmt"
	"time"

	"haliteview/gamestate"

	client "github.com/hugolgst/rich-go/client"
	"golang.org/x/time/rate"
)

const discordAppID = "1406171210240360508"

// presence publishes Discord rich presence for the session. Discord limits
// activity updates, so turn updates are throttled.
type presence struct {
	started time.Time
	limit   *rate.Limiter
}

func initDiscordRPC(ctx context.Context) *presence {
	if err := client.Login(discordAppID); err != nil {
		logError("discord rpc login: %v", err)
		return nil
	}
	p := &presence{started: time.Now(), limit: rate.NewLimiter(rate.Every(15*time.Second), 1)}
	p.set("Watching a game", "Loading map")
	go func() {
		<-ctx.Done()
		client.Logout()
	}()
	return p
}

func (p *presence) set(state, details string) {
	if err := client.SetActivity(client.Activity{
		State:   state,
		Details: details,
		Timestamps: &client.Timestamps{
			Start: &p.started,
		},
	}); err != nil {
		logDebug("discord rpc activity: %v", err)
	}
}

// update is safe to call on every decoded turn.
func (p *presence) update(st *gamestate.State) {
	if p == nil || !p.limit.Allow() {
		return
	}
	p.set(fmt.Sprintf("%d players, %dx%d", st.PlayerCount, st.Width, st.Height), fmt.Sprintf("Turn %d", st.Turn))
}
