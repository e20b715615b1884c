package main

import (
	"fmt"
	"image/color"
	"strconv"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	text "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"gosnake/proto"
	"gosnake/roomctl"
)

const (
	pad      = 12
	lineH    = 20
	sidebarW = 300
	headerH  = 36
	chatRows = 12
)

func (g *Game) Draw(screen *ebiten.Image) {
	room := g.ctl.Frame(time.Now())
	snap := g.ctl.Snapshot()
	snap.Room = room
	screen.Fill(pal.bg)

	if room == nil {
		g.drawMenu(screen, snap)
	} else {
		g.drawHeader(screen, snap)
		w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
		board := rect{pad, headerH + pad, w - sidebarW - 3*pad, h - headerH - 2*pad}
		side := rect{w - sidebarW - pad, headerH + pad, sidebarW, h - headerH - 2*pad}
		if room.Status == proto.StatusWaiting {
			g.drawLobby(screen, board, snap)
		} else {
			drawBoard(screen, board, room)
			g.drawOverlay(screen, board, snap)
		}
		g.drawSidebar(screen, side, snap)
	}
	drawMessages(screen, snap)
}

type rect struct{ x, y, w, h int }

func drawText(dst *ebiten.Image, s string, face text.Face, x, y int, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(dst, s, face, op)
}

func drawCentered(dst *ebiten.Image, s string, face text.Face, r rect, clr color.Color) {
	w, h := text.Measure(s, face, 0)
	drawText(dst, s, face, r.x+(r.w-int(w))/2, r.y+(r.h-int(h))/2, clr)
}

func fillRect(dst *ebiten.Image, r rect, clr color.Color) {
	vector.DrawFilledRect(dst, float32(r.x), float32(r.y), float32(r.w), float32(r.h), clr, false)
}

func (g *Game) drawMenu(screen *ebiten.Image, snap roomctl.Snapshot) {
	w := screen.Bounds().Dx()
	x, y := w/2-180, 120
	drawText(screen, "Snake", bigFont, x, y-100, pal.accent)

	fields := []struct {
		label string
		in    *lineInput
		f     menuField
	}{
		{"Name", &g.nameIn, fieldName},
		{"Room code (empty to create)", &g.codeIn, fieldCode},
	}
	for i, f := range fields {
		fy := y + 30 + i*70
		drawText(screen, f.label, mainFont, x, fy, pal.dim)
		box := rect{x, fy + lineH + 2, 360, 30}
		fillRect(screen, box, pal.panel)
		clr := pal.dim
		if g.field == f.f {
			clr = pal.accent
		}
		vector.StrokeRect(screen, float32(box.x), float32(box.y), float32(box.w), float32(box.h), 1, clr, false)
		s := f.in.String()
		if g.field == f.f && time.Now().UnixMilli()/500%2 == 0 {
			s += "_"
		}
		drawText(screen, s, mainFont, box.x+8, box.y+6, pal.text)
	}
	help := "Tab switch field   Enter create or join"
	if g.busy.Load() {
		help = "Working..."
	}
	drawText(screen, help, mainFont, x, y+180, pal.dim)
	if snap.Error != "" {
		drawText(screen, snap.Error, mainFont, x, y+210, pal.warn)
	}
	drawText(screen, "Server: "+connLabel(snap.Conn, g.rt.RetryIn()), mainFont, x, y+240, pal.dim)
}

func (g *Game) drawHeader(screen *ebiten.Image, snap roomctl.Snapshot) {
	w := screen.Bounds().Dx()
	fillRect(screen, rect{0, 0, w, headerH}, pal.panel)
	room := snap.Room
	left := fmt.Sprintf("Room %s   %s", room.Code, statusLabel(room.Status))
	if c := clockLabel(room.Timer); c != "" {
		left += "   " + c
	}
	drawText(screen, left, mainFont, pad, 9, pal.text)

	right := connLabel(snap.Conn, g.rt.RetryIn())
	if debugMode {
		right = trafficLabel(g.rt.Stats(), g.rt.Queued(), snap.Ticks, snap.Superseded) + "   " + right
	}
	rw, _ := text.Measure(right, mainFont, 0)
	clr := pal.dim
	if snap.ConnError != "" {
		clr = pal.warn
	}
	drawText(screen, right, mainFont, w-pad-int(rw), 9, clr)
}

func (g *Game) drawLobby(screen *ebiten.Image, r rect, snap roomctl.Snapshot) {
	room := snap.Room
	fillRect(screen, r, pal.panel)
	y := r.y + pad
	drawText(screen, "Share this code to invite players: "+room.Code, mainFont, r.x+pad, y, pal.text)
	y += 2 * lineH
	for _, p := range room.Players {
		drawText(screen, playerLine(p, room, snap.PlayerID), monoFont, r.x+pad, y, parseColor(p.Color, pal.text))
		y += lineH
	}
	y += lineH
	var help string
	switch {
	case snap.IsHost && room.AllReady():
		help = "Enter start   B add bot   N remove bot   T chat   Esc leave"
	case snap.IsHost:
		help = "Waiting for players to ready up   B add bot   N remove bot   T chat   Esc leave"
	default:
		help = "Enter or R toggle ready   T chat   Esc leave"
	}
	drawText(screen, help, mainFont, r.x+pad, y, pal.dim)
}

// drawBoard scales the grid to fit r and draws food, power-ups and snakes.
func drawBoard(screen *ebiten.Image, r rect, room *proto.Room) {
	gw, gh := room.Grid.Width, room.Grid.Height
	if gw <= 0 || gh <= 0 {
		gw, gh = 20, 20
	}
	cell := min(r.w/gw, r.h/gh)
	if cell < 2 {
		cell = 2
	}
	ox := r.x + (r.w-cell*gw)/2
	oy := r.y + (r.h-cell*gh)/2
	fillRect(screen, rect{ox, oy, cell * gw, cell * gh}, pal.grid)

	at := func(p proto.Point, inset int, clr color.Color) {
		if p.X < 0 || p.Y < 0 || p.X >= gw || p.Y >= gh {
			return
		}
		fillRect(screen, rect{ox + p.X*cell + inset, oy + p.Y*cell + inset, cell - 2*inset, cell - 2*inset}, clr)
	}
	for _, f := range room.Food {
		at(f, cell/4, pal.food)
	}
	for _, pu := range room.PowerUps {
		at(pu.Position, cell/6, pal.power)
	}
	for _, p := range room.Players {
		clr := parseColor(p.Color, pal.accent)
		if !p.Alive {
			clr = pal.dim
		}
		for i, seg := range p.Snake {
			inset := 1
			if i == 0 {
				inset = 0
			}
			at(seg, inset, clr)
		}
	}
}

func (g *Game) drawOverlay(screen *ebiten.Image, r rect, snap roomctl.Snapshot) {
	room := snap.Room
	switch {
	case snap.CountingDown:
		drawCentered(screen, strconv.Itoa(snap.Countdown), bigFont, r, pal.text)
	case room.Status == proto.StatusPaused:
		msg := "Paused"
		if p, ok := room.Player(room.PausedBy); ok {
			msg += " by " + p.Name
		}
		drawCentered(screen, msg+"  (P to resume)", mainFont, r, pal.text)
	case room.Status == proto.StatusEnded:
		msg := "Game over"
		if p, ok := room.Player(room.Winner); ok {
			msg = p.Name + " wins"
		} else if room.Winner != "" {
			msg = room.Winner + " wins"
		}
		drawCentered(screen, msg+"  (Enter to play again)", mainFont, r, pal.text)
	}
}

func (g *Game) drawSidebar(screen *ebiten.Image, r rect, snap roomctl.Snapshot) {
	room := snap.Room
	fillRect(screen, r, pal.panel)
	y := r.y + pad
	if room.Status != proto.StatusWaiting {
		for _, p := range room.Players {
			drawText(screen, playerLine(p, room, snap.PlayerID), monoFont, r.x+pad, y, parseColor(p.Color, pal.text))
			y += lineH
		}
		y += lineH / 2
	}

	lines := wrapLines(chatLines(room), mainFont, float64(r.w-2*pad), chatRows)
	for _, l := range lines {
		drawText(screen, l, mainFont, r.x+pad, y, pal.text)
		y += lineH
	}
	if t := typingLine(room, snap.PlayerID); t != "" {
		drawText(screen, t, mainFont, r.x+pad, y, pal.dim)
	}

	box := rect{r.x + pad, r.y + r.h - pad - 28, r.w - 2*pad, 28}
	fillRect(screen, box, pal.bg)
	s := "T to chat"
	clr := pal.dim
	if g.chatOpen {
		s, clr = g.chatIn.String()+"_", pal.text
	}
	drawText(screen, s, mainFont, box.x+6, box.y+5, clr)
	if snap.Error != "" {
		drawText(screen, snap.Error, mainFont, box.x, box.y-lineH-4, pal.warn)
	}
}

func drawMessages(screen *ebiten.Image, snap roomctl.Snapshot) {
	h := screen.Bounds().Dy()
	msgs := getMessages()
	if snap.ConnError != "" {
		msgs = append(msgs, snap.ConnError)
	}
	y := h - pad - len(msgs)*lineH
	for _, m := range msgs {
		drawText(screen, m, mainFont, pad, y, pal.warn)
		y += lineH
	}
}
