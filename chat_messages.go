package main

import (
	"fmt"
	"strings"

	"gosnake/proto"
)

const maxChatMessages = 200

// chatLines returns the chat history the room shows: the in-game channel
// while a game is running, the lobby channel otherwise.
func chatLines(room *proto.Room) []string {
	if room == nil {
		return nil
	}
	msgs := room.Messages
	if room.Status == proto.StatusPlaying || room.Status == proto.StatusPaused {
		msgs = room.GameChat
	}
	if len(msgs) > maxChatMessages {
		msgs = msgs[len(msgs)-maxChatMessages:]
	}
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		name := m.PlayerName
		if name == "" {
			name = "?"
		}
		line := fmt.Sprintf("%s: %s", name, m.Text)
		if m.Local {
			line += " …"
		}
		out = append(out, line)
	}
	return out
}

// typingLine names the other players currently typing.
func typingLine(room *proto.Room, self string) string {
	if room == nil {
		return ""
	}
	var names []string
	for _, id := range room.TypingPlayers {
		if id == self {
			continue
		}
		if p, ok := room.Player(id); ok {
			names = append(names, p.Name)
		}
	}
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0] + " is typing"
	}
	return strings.Join(names, ", ") + " are typing"
}
