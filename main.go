// Package main runs a scripted via drag session against the routing kernel.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pcb-router/internal/app"
	"pcb-router/internal/config"
	"pcb-router/internal/item"
	"pcb-router/internal/version"
	"pcb-router/pkg/geometry"
)

const appTitle = "PCB Router"

func main() {
	configPath := flag.String("config", "", "Router config (.toml, .yaml or .json)")
	tracePath := flag.String("trace", "", "Override the session trace path")
	metricsAddr := flag.String("metrics", "", "Serve Prometheus metrics on this address after the session, e.g. :9090")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s v%s", appTitle, version.String())

	session, err := openSession(*configPath)
	if err != nil {
		log.Fatalf("Failed to start session: %v", err)
	}
	if *tracePath != "" {
		session.Config = session.Config.WithLogPath(*tracePath)
	}

	session.On(app.EventDragRejected, func(data interface{}) {
		res := data.(app.MoveResult)
		log.Printf("Move to (%d,%d) rejected: no clear position", res.Requested.X, res.Requested.Y)
	})

	via := seedBoard(session)
	if err := runDrag(session, via.Pos()); err != nil {
		log.Printf("Drag failed: %v", err)
	}

	if err := session.SaveTrace(); err == nil && session.Config.Log.Enabled {
		log.Printf("Trace saved to %s (%d events)", session.Config.LogPath(session.ConfigPath), session.Trace().Len())
	}

	if *metricsAddr != "" {
		http.Handle("/metrics", promhttp.Handler())
		log.Printf("Serving metrics on %s", *metricsAddr)
		if err := http.ListenAndServe(*metricsAddr, nil); err != nil {
			log.Fatalf("Metrics server: %v", err)
		}
	}
}

func openSession(path string) (*app.Session, error) {
	if path == "" {
		return app.NewSession(config.Default())
	}
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	return app.LoadSession(path)
}

// seedBoard places a row of pads with a via between them.
func seedBoard(s *app.Session) *item.Via {
	class := s.Rules().Default()
	for i := 0; i < 4; i++ {
		pad := item.NewSolid(geometry.NewRect(geometry.Point{X: 1500 + i*2000, Y: -750}, 1500, 1500))
		pad.SetParent(uuid.New())
		s.AddItem(pad)
	}
	v := item.NewVia(geometry.Point{}, class.ViaDiameter, class.ViaDrill, 1)
	v.SetParent(uuid.New())
	s.AddItem(v)
	return v
}

// runDrag drags the via along the pad row and fixes it at the last accepted position.
func runDrag(s *app.Session, start geometry.Point) error {
	if _, err := s.StartDrag(start); err != nil {
		return err
	}
	fmt.Printf("%-14s %-14s %-8s %-8s %s\n", "Requested", "Placed", "Pushed", "Clear", "Changed area")
	for x := 250; x <= 8000; x += 750 {
		res, err := s.Move(geometry.Point{X: x, Y: 300})
		if err != nil {
			s.Abort()
			return err
		}
		fmt.Printf("%-14s %-14s %-8t %-8t %dx%d\n",
			fmt.Sprintf("(%d,%d)", res.Requested.X, res.Requested.Y),
			fmt.Sprintf("(%d,%d)", res.Pos.X, res.Pos.Y),
			res.Pushed, res.Accepted && res.Violations == 0,
			res.ChangedArea.Width(), res.ChangedArea.Height())
	}
	h, err := s.Fix()
	if err != nil {
		return err
	}
	log.Printf("Via fixed at (%d,%d) on layers %s", h.Pos.X, h.Pos.Y, h.Layers)
	return nil
}
