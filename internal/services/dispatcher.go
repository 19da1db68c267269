package services

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/kanjinagahisa/carebridge-hub-sub000/internal/models"
	"github.com/kanjinagahisa/carebridge-hub-sub000/internal/repositories"
)

// PushSender delivers a payload to one subscription and reports the HTTP
// status of the delivery attempt. Implemented by pkg/push.
type PushSender interface {
	Send(ctx context.Context, sub models.PushSubscription, payload []byte) (int, error)
}

// Summary is the outcome of one facility-wide dispatch.
type Summary struct {
	Success int `json:"success"`
	Failed  int `json:"failed"`
	Deleted int `json:"deleted"`
}

// Dispatcher fans a push notification out to every subscribed member of a
// facility except the author, pruning endpoints confirmed gone.
type Dispatcher struct {
	subRepo repositories.PushSubscriptionRepository
	sender  PushSender // nil when delivery credentials are not configured
}

// NewDispatcher creates a new Dispatcher. sender may be nil, which soft-
// disables delivery.
func NewDispatcher(subRepo repositories.PushSubscriptionRepository, sender PushSender) *Dispatcher {
	return &Dispatcher{subRepo: subRepo, sender: sender}
}

// NotifyFacility sends payload to every subscription in the facility except
// those owned by excludeUserID. Deliveries run concurrently and all settle;
// one failure never aborts the others. Endpoints answering 404/410 are
// deleted and counted separately from transient failures, which leave the
// subscription intact. Partial failure is reported in the summary, never as
// an error.
func (d *Dispatcher) NotifyFacility(ctx context.Context, facilityID uint, excludeUserID uint, payload models.PushPayload) (Summary, error) {
	if d.sender == nil {
		log.Printf("WARN: push delivery not configured, skipping dispatch for facility %d", facilityID)
		return Summary{}, nil
	}

	subs, err := d.subRepo.GetByFacilityExcluding(facilityID, excludeUserID)
	if err != nil {
		return Summary{}, err
	}
	if len(subs) == 0 {
		return Summary{}, nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Summary{}, err
	}

	var (
		mu      sync.Mutex
		summary Summary
		wg      sync.WaitGroup
	)
	for _, sub := range subs {
		wg.Add(1)
		go func(sub models.PushSubscription) {
			defer wg.Done()
			status, err := d.sender.Send(ctx, sub, body)

			switch {
			case status == http.StatusNotFound || status == http.StatusGone:
				// Endpoint confirmed gone; prune it.
				if delErr := d.subRepo.DeleteByID(sub.ID); delErr != nil {
					log.Printf("WARN: pruning dead subscription %d failed: %v", sub.ID, delErr)
				}
				mu.Lock()
				summary.Deleted++
				mu.Unlock()
			case err != nil || status >= 400:
				log.Printf("WARN: push to subscription %d failed (status %d): %v", sub.ID, status, err)
				mu.Lock()
				summary.Failed++
				mu.Unlock()
			default:
				mu.Lock()
				summary.Success++
				mu.Unlock()
			}
		}(sub)
	}
	wg.Wait()

	return summary, nil
}
