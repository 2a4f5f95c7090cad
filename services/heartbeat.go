package services

import (
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/yeremiapane/canteen-pos/utils"
)

// Pinger is anything with live connections worth probing, e.g. *kds.Hub.
type Pinger interface {
	Ping()
}

// Heartbeat pings dashboard sessions on a fixed interval so dead peers are
// noticed even when no order events flow.
type Heartbeat struct {
	Pinger   Pinger
	Interval time.Duration

	scheduler gocron.Scheduler
}

func NewHeartbeat(p Pinger, interval time.Duration) *Heartbeat {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Heartbeat{Pinger: p, Interval: interval}
}

func (hb *Heartbeat) Start() error {
	s, err := gocron.NewScheduler()
	if err != nil {
		return err
	}

	_, err = s.NewJob(
		gocron.DurationJob(hb.Interval),
		gocron.NewTask(hb.Pinger.Ping),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithName("ws-heartbeat"),
	)
	if err != nil {
		_ = s.Shutdown()
		return err
	}

	s.Start()
	hb.scheduler = s
	utils.InfoLogger.Printf("websocket heartbeat every %s", hb.Interval)
	return nil
}

// Stop is safe to call when Start never ran.
func (hb *Heartbeat) Stop() error {
	if hb.scheduler == nil {
		return nil
	}
	err := hb.scheduler.Shutdown()
	hb.scheduler = nil
	return err
}
