package main

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/sqweek/dialog"

	"gosnake/proto"
	"gosnake/roomctl"
	"gosnake/transport"
)

const commandTimeout = 15 * time.Second

type menuField int

const (
	fieldName menuField = iota
	fieldCode
)

type Game struct {
	ctx context.Context
	ctl *roomctl.Controller
	rt  *transport.Client

	field    menuField
	nameIn   lineInput
	codeIn   lineInput
	chatIn   lineInput
	chatOpen bool
	busy     atomic.Bool

	width, height int
}

func newGame(ctx context.Context, ctl *roomctl.Controller, rt *transport.Client) *Game {
	g := &Game{
		ctx:    ctx,
		ctl:    ctl,
		rt:     rt,
		nameIn: lineInput{max: 20},
		codeIn: lineInput{max: 8},
		chatIn: lineInput{max: 200},
	}
	g.nameIn.add([]rune(gs.PlayerName))
	g.codeIn.add([]rune(gs.LastRoom))
	if gs.PlayerName != "" {
		g.field = fieldCode
	}
	return g
}

func (g *Game) Update() error {
	select {
	case <-g.ctx.Done():
		return ebiten.Termination
	default:
	}
	maybeSaveSettings()

	snap := g.ctl.Snapshot()
	if snap.Conn == transport.Failed && inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		g.ctl.Reconnect()
		addMessage("Reconnecting...")
	}
	if snap.Room == nil {
		g.chatOpen = false
		setPresence(nil)
		g.updateMenu()
		return nil
	}
	g.updateRoom(snap)
	return nil
}

func (g *Game) updateMenu() {
	in := &g.nameIn
	if g.field == fieldCode {
		in = &g.codeIn
	}
	in.add(ebiten.AppendInputChars(nil))
	if repeatPressed(ebiten.KeyBackspace) {
		in.backspace()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.field = 1 - g.field
	}
	if !inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		return
	}
	name := strings.TrimSpace(g.nameIn.String())
	if name == "" {
		g.field = fieldName
		addMessage("Enter a name first")
		return
	}
	code := strings.ToUpper(strings.TrimSpace(g.codeIn.String()))
	if gs.PlayerName != name || gs.LastRoom != code {
		gs.PlayerName, gs.LastRoom = name, code
		settingsDirty = true
	}
	if code == "" {
		g.run("create room", func(ctx context.Context) error {
			return g.ctl.CreateRoom(ctx, name)
		})
		return
	}
	g.run("join room", func(ctx context.Context) error {
		return g.ctl.JoinRoom(ctx, name, code)
	})
}

func (g *Game) updateRoom(snap roomctl.Snapshot) {
	if g.chatOpen {
		g.updateChat()
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		g.chatOpen = true
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.run("leave", g.ctl.Leave)
		return
	}

	room := snap.Room
	confirm := inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeySpace)
	switch room.Status {
	case proto.StatusWaiting:
		switch {
		case confirm && snap.IsHost:
			if !room.AllReady() {
				addMessage("Waiting for everyone to be ready")
				return
			}
			g.run("start", g.ctl.StartGame)
		case confirm || inpututil.IsKeyJustPressed(ebiten.KeyR):
			g.run("ready", g.ctl.ToggleReady)
		case snap.IsHost && inpututil.IsKeyJustPressed(ebiten.KeyB):
			g.run("add bot", g.ctl.AddBot)
		case snap.IsHost && inpututil.IsKeyJustPressed(ebiten.KeyN):
			g.run("remove bot", g.ctl.RemoveBot)
		}
	case proto.StatusPlaying:
		if d, ok := directionFor(inpututil.IsKeyJustPressed, g.chatOpen); ok {
			g.ctl.SetDirection(d)
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyP) {
			g.run("pause", g.ctl.PauseGame)
		}
	case proto.StatusPaused:
		if inpututil.IsKeyJustPressed(ebiten.KeyP) || confirm {
			g.run("resume", g.ctl.ResumeGame)
		}
	case proto.StatusEnded:
		if confirm {
			g.run("play again", g.ctl.PlayAgain)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF6) {
		g.run("refresh", g.ctl.Refresh)
	}
}

func (g *Game) updateChat() {
	g.chatIn.add(ebiten.AppendInputChars(nil))
	if repeatPressed(ebiten.KeyBackspace) {
		g.chatIn.backspace()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.chatOpen = false
		return
	}
	if !inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		return
	}
	msg := g.chatIn.take()
	g.chatOpen = false
	if strings.TrimSpace(msg) == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(g.ctx, commandTimeout)
		defer cancel()
		if err := g.ctl.SendMessage(ctx, msg); err != nil {
			logError("chat: %v", err)
		}
	}()
}

// run executes a room command off the game loop. Only one runs at a time.
func (g *Game) run(what string, fn func(ctx context.Context) error) {
	if !g.busy.CompareAndSwap(false, true) {
		return
	}
	g.ctl.ClearError()
	go func() {
		defer g.busy.Store(false)
		ctx, cancel := context.WithTimeout(g.ctx, commandTimeout)
		defer cancel()
		if err := fn(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logDebug("%s: %v", what, err)
		}
	}()
}

func repeatPressed(k ebiten.Key) bool {
	if inpututil.IsKeyJustPressed(k) {
		return true
	}
	d := inpututil.KeyPressDuration(k)
	return d > 30 && d%3 == 0
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		if !ebiten.IsFullscreen() && (gs.WindowW != outsideWidth || gs.WindowH != outsideHeight) {
			gs.WindowW, gs.WindowH = outsideWidth, outsideHeight
			settingsDirty = true
		}
	}
	return outsideWidth, outsideHeight
}

// connectionEvents reacts to transport state for the windowed client.
func connectionEvents(s transport.State) {
	switch s {
	case transport.Connected:
		addMessage("Connected")
	case transport.Failed:
		logError("connection lost; press F5 to reconnect")
		go dialog.Message("%s", "Lost connection to the game server.\nPress F5 in the game window to try again.").Title("Connection lost").Error()
	}
}

func runGame(ctx context.Context, g *Game) {
	ebiten.SetWindowTitle("Snake")
	ebiten.SetWindowSize(gs.WindowW, gs.WindowH)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetVsyncEnabled(true)
	ebiten.SetTPS(ebiten.SyncWithFPS)
	initFont()
	pal = pickPalette(gs.Theme)

	op := &ebiten.RunGameOptions{ScreenTransparent: false}
	if err := ebiten.RunGameWithOptions(g, op); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Printf("ebiten: %v", err)
	}
	saveSettings()
}
