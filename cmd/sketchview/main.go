// Command sketchview follows a LocalSketch mirror without a window and
// writes every snapshot it receives to a PNG file.
//
//	sketchview [-out board.png] [-size 2048] [-once] [localsketch://host:port]
//
// Without a link the first mirror found over mDNS is used.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"LocalSketch/internal/export"
	lsnet "LocalSketch/internal/net"
	"LocalSketch/internal/state"
)

func main() {
	out := flag.String("out", "board.png", "PNG file rewritten on every snapshot")
	size := flag.Int("size", 2048, "longer side of the PNG in pixels")
	once := flag.Bool("once", false, "exit after the first snapshot")
	wait := flag.Duration("browse", 3*time.Second, "how long to look for mirrors over mDNS")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	addr, err := resolve(ctx, flag.Arg(0), *wait)
	if err != nil {
		log.Fatalf("[MIRROR] %v", err)
	}
	if err := follow(ctx, addr, *out, *size, *once); err != nil && ctx.Err() == nil {
		log.Fatalf("[MIRROR] %v", err)
	}
}

// resolve turns a share link into host:port, or browses for one.
func resolve(ctx context.Context, link string, wait time.Duration) (string, error) {
	if link != "" {
		return lsnet.ParseLink(link)
	}

	log.Printf("[MDNS] Looking for mirrors for %s", wait)
	found := make(chan string, 1)
	browseCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		err := lsnet.Browse(browseCtx, wait, func(addr string) {
			select {
			case found <- addr:
			default:
			}
		})
		if err != nil && browseCtx.Err() == nil {
			log.Printf("[MDNS] %v", err)
		}
		close(found)
	}()

	addr, ok := <-found
	if !ok {
		return "", errors.New("no mirror found on the local network")
	}
	log.Printf("[MDNS] Found mirror at %s", addr)
	return addr, nil
}

func follow(ctx context.Context, addr, out string, size int, once bool) error {
	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	viewer, err := lsnet.Dial(dialCtx, addr)
	cancel()
	if err != nil {
		return err
	}
	defer viewer.Close()
	go func() {
		<-ctx.Done()
		viewer.Close()
	}()
	log.Printf("[MIRROR] Following %s", addr)

	board := state.NewBoard(state.DefaultOptions())
	for {
		doc, err := viewer.Next()
		if err != nil {
			return err
		}
		if err := board.Load(doc); err != nil {
			return fmt.Errorf("bad snapshot from %s: %w", addr, err)
		}
		err = export.SavePNG(out, board.Strokes(), size)
		switch {
		case errors.Is(err, export.ErrNothingToExport):
			log.Printf("[EXPORT] Board is empty, keeping %s", out)
		case err != nil:
			return err
		}
		if once {
			return nil
		}
	}
}
