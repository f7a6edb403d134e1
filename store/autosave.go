package store

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"

	"lms/client"
)

// Autosaver ships buffered watch samples to the backend on a schedule,
// so a crashed player loses at most one flush interval of watch
// position. The teacher pattern: one cron, one job, started once.
type Autosaver struct {
	store *Store
	api   *client.Client
	cron  *cron.Cron
}

// NewAutosaver wires a flusher over the given cache and API client
func NewAutosaver(store *Store, api *client.Client) *Autosaver {
	return &Autosaver{store: store, api: api}
}

// Start schedules the flusher. spec is a cron expression or an @every
// duration (e.g. "@every 30s").
func (a *Autosaver) Start(spec string) error {
	log.Println("[AUTOSAVE] starting watch autosave flusher...")

	c := cron.New()
	if _, err := c.AddFunc(spec, a.Flush); err != nil {
		return err
	}
	c.Start()
	a.cron = c

	log.Printf("[AUTOSAVE] watch autosave flusher started (%s)", spec)
	return nil
}

// Stop halts the schedule and waits for a running flush to finish,
// so no flush outlives the player
func (a *Autosaver) Stop() {
	if a.cron == nil {
		return
	}
	<-a.cron.Stop().Done()
	log.Println("[AUTOSAVE] watch autosave flusher stopped")
}

// Flush ships pending samples oldest-first, stopping at the first
// error so retries keep the original order
func (a *Autosaver) Flush() {
	samples, err := a.store.UnflushedSamples(50)
	if err != nil {
		log.Printf("[AUTOSAVE] failed to read pending samples: %v", err)
		return
	}
	if len(samples) == 0 {
		return
	}

	log.Printf("[AUTOSAVE] flushing %d watch samples...", len(samples))
	for _, sample := range samples {
		if err := a.api.RecordWatch(context.Background(), sample); err != nil {
			log.Printf("[AUTOSAVE] failed to ship sample %s: %v", sample.SampleID, err)
			return
		}
		if err := a.store.MarkFlushed(sample.ID); err != nil {
			log.Printf("[AUTOSAVE] failed to mark sample %s: %v", sample.SampleID, err)
			return
		}
	}
}
