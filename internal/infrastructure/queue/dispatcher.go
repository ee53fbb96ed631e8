package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/changecomm/admin-system/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
)

// Dispatcher routes OTP mails to a fixed set of workers using consistent
// hashing on the recipient address, guaranteeing per-recipient delivery
// ordering (a resent code never overtakes the original).
type Dispatcher struct {
	workers []chan ports.OTPMail
	sender  ports.MailSender
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, sender ports.MailSender, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.OTPMail, numWorkers),
		sender:  sender,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.OTPMail, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends a mail to the worker responsible for its recipient.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(mail ports.OTPMail) {
	d.workers[d.shardIndex(mail.To)] <- mail
}

// shardIndex maps a recipient deterministically to a worker index.
func (d *Dispatcher) shardIndex(to string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(to))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.OTPMail) {
	for {
		select {
		case <-ctx.Done():
			return
		case mail, ok := <-ch:
			if !ok {
				return
			}
			if err := d.sender.SendOTP(ctx, mail); err != nil {
				d.log.Error().Err(err).
					Str("to", mail.To).
					Int("worker_id", id).
					Msg("otp email delivery failed")
			}
		}
	}
}
