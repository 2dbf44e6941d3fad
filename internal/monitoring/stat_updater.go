package monitoring

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/sdpro1234/skin-disease-ai/internal/websocket"
)

// StatUpdater periodically samples host CPU and memory usage and broadcasts
// the readings to connected dashboard clients.
type StatUpdater struct {
	hub    *websocket.Hub
	ticker *time.Ticker
	done   chan bool
}

// NewStatUpdater creates a new StatUpdater.
func NewStatUpdater(hub *websocket.Hub) *StatUpdater {
	return &StatUpdater{
		hub:  hub,
		done: make(chan bool),
	}
}

// Run starts the periodic updates.
func (su *StatUpdater) Run() {
	log.Info().Msg("Starting background stat updater...")
	su.ticker = time.NewTicker(15 * time.Second)
	defer su.ticker.Stop()

	// Run once immediately on start
	su.sample()

	for {
		select {
		case <-su.done:
			log.Info().Msg("Stopping background stat updater.")
			return
		case <-su.ticker.C:
			su.sample()
		}
	}
}

// Stop halts the periodic updates.
func (su *StatUpdater) Stop() {
	su.done <- true
}

func (su *StatUpdater) sample() {
	cpuPercent := 0.0
	if percents, err := cpu.Percent(0, false); err != nil {
		log.Warn().Err(err).Msg("StatUpdater: Failed to sample CPU")
	} else if len(percents) > 0 {
		cpuPercent = percents[0]
	}

	memPercent := 0.0
	if vm, err := mem.VirtualMemory(); err != nil {
		log.Warn().Err(err).Msg("StatUpdater: Failed to sample memory")
	} else {
		memPercent = vm.UsedPercent
	}

	su.hub.Broadcast <- websocket.NewStatsMessage(cpuPercent, memPercent)
}
