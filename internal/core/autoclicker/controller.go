package autoclicker

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

const StatusIdle = "Enter speed and press start"

// Controller owns the click session and the goroutine that clicks.
// Start and Stop are safe to call from any goroutine.
type Controller struct {
	cfg      Config
	injector Injector
	logger   Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	running atomic.Bool
	delay   atomic.Int64
	clicks  atomic.Int64
	status  atomic.Pointer[string]
}

func NewController(cfg Config, injector Injector, logger Logger) (*Controller, error) {
	if injector == nil {
		return nil, ErrInjectorUnavailable
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is nil")
	}
	if cfg.CountdownSteps < 0 {
		return nil, fmt.Errorf("countdown steps must be >= 0")
	}
	if cfg.CountdownInterval < 0 {
		return nil, fmt.Errorf("countdown interval must be >= 0")
	}

	c := &Controller{
		cfg:      cfg,
		injector: injector,
		logger:   logger,
	}
	idle := StatusIdle
	c.status.Store(&idle)
	return c, nil
}

func (c *Controller) State() State {
	if c.running.Load() {
		return StateRunning
	}
	return StateStopped
}

func (c *Controller) Session() Session {
	return Session{
		Running:     c.running.Load(),
		DelayMillis: int(c.delay.Load()),
		ClickCount:  int(c.clicks.Load()),
	}
}

// Status returns the most recently published status text.
func (c *Controller) Status() string {
	return *c.status.Load()
}

// StartFromInput validates the delay fields and starts clicking. It does
// nothing while a session is running.
func (c *Controller) StartFromInput(secondsText, millisText string) error {
	if c.running.Load() {
		return ErrAlreadyRunning
	}
	delay, err := ValidateAndComputeDelay(secondsText, millisText)
	if err != nil {
		c.publish(err.Error())
		return err
	}
	return c.Start(delay)
}

func (c *Controller) Start(delayMillis int) error {
	if err := checkDelayRange(delayMillis); err != nil {
		return err
	}

	c.mu.Lock()
	if c.running.Load() {
		c.mu.Unlock()
		return ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	c.clicks.Store(0)
	c.delay.Store(int64(delayMillis))
	c.running.Store(true)
	c.cancel = cancel
	c.done = done
	c.mu.Unlock()

	c.logger.Debug("Click session started", "delay_ms", delayMillis)
	c.notifyState(StateRunning)

	go c.clickLoop(ctx, time.Duration(delayMillis)*time.Millisecond, done)
	return nil
}

// Stop cancels the click loop, waits for it to exit and returns the number
// of clicks performed.
func (c *Controller) Stop() (int, error) {
	c.mu.Lock()
	if !c.running.Load() {
		c.mu.Unlock()
		return 0, ErrNotRunning
	}

	c.running.Store(false)
	c.cancel()
	<-c.done
	c.cancel = nil
	c.done = nil
	clicks := int(c.clicks.Load())
	c.mu.Unlock()

	c.logger.Debug("Click session stopped", "clicks", clicks)
	c.publish(fmt.Sprintf("Stopped after %d clicks", clicks))
	c.notifyState(StateStopped)
	return clicks, nil
}

// Close stops a running session, if any.
func (c *Controller) Close() {
	if clicks, err := c.Stop(); err == nil {
		c.logger.Info("Stopped click session on close", "clicks", clicks)
	}
}

func (c *Controller) clickLoop(ctx context.Context, delay time.Duration, done chan<- struct{}) {
	defer close(done)

	for step := c.cfg.CountdownSteps; step > 0; step-- {
		if ctx.Err() != nil {
			return
		}
		c.publish(fmt.Sprintf("Starting in: %d", step))
		if !sleepWithContext(ctx, c.cfg.CountdownInterval) {
			c.logger.Debug("Countdown cancelled", "remaining", step)
			return
		}
	}
	if ctx.Err() != nil {
		return
	}

	c.publish(fmt.Sprintf("Started with a %d ms delay", delay.Milliseconds()))

	for ctx.Err() == nil && c.running.Load() {
		if err := c.injector.WriteEvents(PrimaryClick()...); err != nil {
			c.logger.Warn("Click injection failed", "err", err)
		} else {
			c.clicks.Add(1)
		}
		if !sleepWithContext(ctx, delay) {
			return
		}
	}
}

func (c *Controller) publish(status string) {
	c.status.Store(&status)
	if c.cfg.OnStatus != nil {
		c.cfg.OnStatus(status)
	}
}

func (c *Controller) notifyState(state State) {
	if c.cfg.OnStateChange != nil {
		c.cfg.OnStateChange(state)
	}
}

func sleepWithContext(ctx context.Context, duration time.Duration) bool {
	if duration <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
