package main

import (
	"bytes"
	"log"

	text "github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	mainFont text.Face
	monoFont text.Face
	bigFont  text.Face
)

func initFont() {
	if mainFont != nil {
		return
	}
	mainFont = loadFace(goregular.TTF, 15)
	monoFont = loadFace(gomono.TTF, 14)
	bigFont = loadFace(goregular.TTF, 72)
}

func loadFace(ttf []byte, size float64) text.Face {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(ttf))
	if err != nil {
		log.Fatalf("failed to parse font: %v", err)
	}
	return &text.GoTextFace{Source: src, Size: size}
}
