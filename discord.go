package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	client "github.com/hugolgst/rich-go/client"

	"gosnake/proto"
)

const discordAppID = "1406171210240360508"

var (
	discordMu     sync.Mutex
	discordOn     bool
	discordStatus proto.Status
	discordSince  time.Time
)

func initDiscordRPC(ctx context.Context) {
	if err := client.Login(discordAppID); err != nil {
		logError("discord rpc login: %v", err)
		return
	}
	discordMu.Lock()
	discordOn = true
	discordMu.Unlock()
	setPresence(nil)
	go func() {
		<-ctx.Done()
		discordMu.Lock()
		discordOn = false
		discordMu.Unlock()
		client.Logout()
	}()
}

// presenceFor describes the room for the activity card.
func presenceFor(room *proto.Room) (state, details string) {
	if room == nil {
		return "Main menu", "Snake"
	}
	details = fmt.Sprintf("%d players", len(room.Players))
	switch room.Status {
	case proto.StatusWaiting:
		return "In lobby " + room.Code, details
	case proto.StatusPlaying:
		return "Playing in " + room.Code, details
	case proto.StatusPaused:
		return "Paused in " + room.Code, details
	case proto.StatusEnded:
		return "Game over in " + room.Code, details
	}
	return "Room " + room.Code, details
}

// setPresence updates the activity when the status changed.
func setPresence(room *proto.Room) {
	discordMu.Lock()
	defer discordMu.Unlock()
	if !discordOn {
		return
	}
	var status proto.Status
	if room != nil {
		status = room.Status
	}
	if status == discordStatus && !discordSince.IsZero() {
		return
	}
	discordStatus = status
	discordSince = time.Now()
	state, details := presenceFor(room)
	since := discordSince
	if err := client.SetActivity(client.Activity{
		State:   state,
		Details: details,
		Timestamps: &client.Timestamps{
			Start: &since,
		},
	}); err != nil {
		logDebug("discord rpc activity: %v", err)
	}
}
