package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"LocalSketch/internal/config"
	lsnet "LocalSketch/internal/net"
	"LocalSketch/internal/state"
	"LocalSketch/internal/ui"

	"fyne.io/fyne/v2"
)

func main() {
	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		// a broken settings file should not keep the board from opening
		log.Printf("[BOARD] Using default settings: %v", err)
	}

	args := os.Args
	if len(args) > 1 && strings.HasPrefix(args[1], lsnet.CustomURLScheme) {
		runViewer(args[1], cfg)
	} else {
		runHost(cfg)
	}
}

func runHost(cfg config.Config) {
	log.Println("Starting as HOST")
	board := state.NewBoard(cfg.BoardOptions())
	w := ui.NewBoardWidget(board)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mirror *lsnet.Mirror
	shareLink := ""
	if cfg.Mirror.Enabled {
		mirror = lsnet.NewMirror(board.Document)
		go func() {
			addr := fmt.Sprintf(":%d", cfg.Mirror.Port)
			if err := mirror.Serve(ctx, addr); err != nil {
				log.Printf("[MIRROR] %v", err)
				w.SetStatus("Mirror unavailable: " + err.Error())
			}
		}()

		hostIP, err := lsnet.GetOutgoingIP()
		if err != nil {
			hostIP = "127.0.0.1"
		}
		shareLink = lsnet.ShareLink(hostIP, cfg.Mirror.Port)
		log.Printf("[MIRROR] Share link: %s", shareLink)

		if cfg.Mirror.Advertise {
			server, err := lsnet.Advertise(cfg.Mirror.Port, board.SessionID())
			if err != nil {
				log.Printf("[MDNS] Advertising failed: %v", err)
			} else {
				defer server.Shutdown()
				log.Printf("[MDNS] Advertising session %s", board.SessionID())
			}
		}
	}

	board.OnChange = func() {
		if mirror != nil {
			mirror.Notify()
		}
		fyne.Do(w.Refresh)
	}

	ui.RunApp(shareLink, w)
}

// runViewer opens a board that follows a host's mirror. Local edits are
// replaced by the next snapshot.
func runViewer(link string, cfg config.Config) {
	log.Println("Starting as VIEWER")
	board := state.NewBoard(cfg.BoardOptions())
	w := ui.NewBoardWidget(board)
	board.OnChange = func() { fyne.Do(w.Refresh) }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go followHost(ctx, link, w)

	ui.RunApp("", w)
}

func followHost(ctx context.Context, link string, w *ui.BoardWidget) {
	addr, err := lsnet.ParseLink(link)
	if err != nil {
		w.SetStatus(err.Error())
		return
	}
	time.Sleep(500 * time.Millisecond) // Give UI time to launch

	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	viewer, err := lsnet.Dial(dialCtx, addr)
	cancel()
	if err != nil {
		w.SetStatus(fmt.Sprintf("Connection failed: %v", err))
		return
	}
	defer viewer.Close()
	go func() {
		<-ctx.Done()
		viewer.Close()
	}()

	w.SetStatus("Connected to host " + addr)
	log.Println("[MIRROR] Viewer connected to", addr)

	for {
		doc, err := viewer.Next()
		if err != nil {
			w.SetStatus(fmt.Sprintf("Disconnected from host: %v", err))
			return
		}
		if err := w.Board().Load(doc); err != nil {
			log.Printf("[MIRROR] Bad snapshot: %v", err)
		}
	}
}
