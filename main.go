package main

import (
	"context"
	"errors"
	"log"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"tanks/client"
	"tanks/game"
	"tanks/server"
	"tanks/utils"
	"tanks/world"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Llongfile)

	if len(os.Args) > 1 && os.Args[1] == "server" {
		if err := server.Run(os.Args[1:]); err != nil {
			log.Fatal(err)
		}
		return
	}

	cfg := utils.LoadConfig(utils.ConfigFile)
	cfg.ApplyClientArgs(os.Args[1:])

	addr, err := net.ResolveUDPAddr("udp", net.JoinHostPort(cfg.Client.Host, strconv.Itoa(cfg.Client.Port)))
	if err != nil {
		log.Fatal(err)
	}

	assets, err := game.LoadAssets()
	if err != nil {
		log.Fatal(err)
	}

	resolutionConfig := cfg.UI.Resolution
	width, height := float32(resolutionConfig.X), float32(resolutionConfig.Y)
	color := utils.ColorOrDefault(cfg.Client.Color)

	ID, session := world.NewPlayerID()
	log.Printf("session %s, player %d, relay udp://%v", session, ID, addr)

	fallback := world.PlayerState{X: width, Y: height, Color: utils.DefaultRemoteColor}
	exchanger := client.NewExchanger(addr, time.Duration(cfg.Client.ReplyTimeoutMS)*time.Millisecond, cfg.Client.ReceiveBuffer)
	c := client.NewClient(ID, exchanger, client.NewCache(ID, fallback))

	player := game.NewLocalPlayer(ID, width/8, height/2, color, world.NewBounds(width, height))
	g := game.NewGame(assets, player, fallback, resolutionConfig.X, resolutionConfig.Y)
	tracker := client.NewTracker(c.Cache(), g, time.Duration(cfg.Client.PollIntervalMS)*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx, time.Duration(cfg.Client.ExchangeIntervalMS)*time.Millisecond, player.State)
		close(done)
	}()

	ebiten.SetWindowSize(resolutionConfig.X, resolutionConfig.Y)
	ebiten.SetWindowTitle("Tanks")
	err = ebiten.RunGame(g)

	cancel()
	<-done
	c.SendDeparture(context.Background(), color)
	tracker.Close()
	if err != nil && !errors.Is(err, game.ErrQuit) {
		log.Fatal(err)
	}
}
