package services

import (
	"context"
	"log"
	"time"

	"paysecure/internal/adapters/revocation"
	"paysecure/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
)

// RevocationJanitor periodically drops revocation entries whose tokens have
// expired. Redis-backed stores expire on their own and are not registered.
type RevocationJanitor struct {
	cron    *cron.Cron
	stores  []revocation.Purger
	timeout time.Duration
}

// NewRevocationJanitor creates a janitor for the given stores
func NewRevocationJanitor(stores ...revocation.Purger) *RevocationJanitor {
	return &RevocationJanitor{
		cron:    cron.New(),
		stores:  stores,
		timeout: 30 * time.Second,
	}
}

// Start schedules the purge. schedule uses cron syntax, e.g. "@every 30m".
func (j *RevocationJanitor) Start(schedule string) error {
	if len(j.stores) == 0 {
		log.Println("⚠️ No revocation store needs purging, janitor not started")
		return nil
	}
	if _, err := j.cron.AddFunc(schedule, j.RunOnce); err != nil {
		return err
	}
	j.cron.Start()
	log.Printf("✅ Revocation janitor scheduled [%s]", schedule)
	return nil
}

// Stop stops the scheduler and waits for a running purge
func (j *RevocationJanitor) Stop() {
	<-j.cron.Stop().Done()
}

// RunOnce purges every store once
func (j *RevocationJanitor) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	var total int64
	for _, s := range j.stores {
		n, err := s.Purge(ctx)
		if err != nil {
			log.Printf("❌ Revocation purge failed: %v", err)
			continue
		}
		total += n
	}

	if total > 0 {
		metrics.RevocationsPurged.Add(float64(total))
		log.Printf("🧹 Purged %d expired revocation entries", total)
	}
}
