package widget

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/roach88/ordersctl/internal/order"
)

// DefaultSeedCount pre-fills the seed count input.
const DefaultSeedCount = "25"

// ResetPrompt is asked before the destructive reset call.
const ResetPrompt = "This will delete all orders. Continue?"

// AdminPanel issues the password-protected seed and reset calls. Seed and
// reset share one busy flag: neither can start while the other runs.
type AdminPanel struct {
	api     AdminService
	confirm Confirmer

	mu       sync.Mutex
	password string
	feedback Feedback
	busy     busyFlag
}

// NewAdminPanel returns a panel with no password set.
func NewAdminPanel(api AdminService, confirm Confirmer) *AdminPanel {
	return &AdminPanel{api: api, confirm: confirm}
}

// SetPassword sets the admin password sent with every call.
func (p *AdminPanel) SetPassword(pw string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.password = pw
}

// Feedback returns the last message.
func (p *AdminPanel) Feedback() Feedback {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.feedback
}

// Busy reports whether a call is in flight.
func (p *AdminPanel) Busy() bool { return p.busy.busy() }

// ParseSeedCount accepts a positive integer, surrounding whitespace allowed.
func ParseSeedCount(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return 0, invalid("Seed count must be a number greater than zero.")
	}
	return n, nil
}

// Seed asks the server to generate sample orders.
func (p *AdminPanel) Seed(ctx context.Context, rawCount string) (*order.Message, error) {
	if !p.busy.acquire() {
		return nil, ErrBusy
	}
	defer p.busy.release()

	password, err := p.begin()
	if err != nil {
		return nil, err
	}
	count, err := ParseSeedCount(rawCount)
	if err != nil {
		p.setFeedback(failure(err))
		return nil, err
	}

	msg, err := p.api.SeedOrders(ctx, password, count)
	if err != nil {
		p.setFeedback(failure(err))
		return nil, err
	}
	p.setFeedback(success(msg.Message))
	return msg, nil
}

// Reset deletes every order after confirmation. Declining returns a nil
// message and no error, and issues no request.
func (p *AdminPanel) Reset(ctx context.Context) (*order.Message, error) {
	if !p.busy.acquire() {
		return nil, ErrBusy
	}
	defer p.busy.release()

	password, err := p.begin()
	if err != nil {
		return nil, err
	}

	ok, err := p.confirm.Confirm(ctx, ResetPrompt)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	msg, err := p.api.ResetOrders(ctx, password)
	if err != nil {
		p.setFeedback(failure(err))
		return nil, err
	}
	p.setFeedback(success(msg.Message))
	return msg, nil
}

// begin clears feedback and returns the trimmed password, or a validation
// error when it is blank.
func (p *AdminPanel) begin() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.feedback = Feedback{}
	pw := strings.TrimSpace(p.password)
	if pw == "" {
		err := invalid("Admin password is required.")
		p.feedback = failure(err)
		return "", err
	}
	return pw, nil
}

func (p *AdminPanel) setFeedback(fb Feedback) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.feedback = fb
}
