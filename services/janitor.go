package services

import (
	"sync"
	"time"

	"github.com/yeremiapane/restaurant-ops/utils"
)

// Janitor runs a cleanup function on a fixed interval until stopped.
type Janitor struct {
	Name     string
	Interval time.Duration
	Task     func() int
	stopChan chan struct{}
	once     sync.Once
}

func NewJanitor(name string, interval time.Duration, task func() int) *Janitor {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Janitor{
		Name:     name,
		Interval: interval,
		Task:     task,
		stopChan: make(chan struct{}),
	}
}

func (j *Janitor) Start() {
	go func() {
		ticker := time.NewTicker(j.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if removed := j.Task(); removed > 0 {
					utils.InfoLogger.WithField("janitor", j.Name).Debugf("removed %d entries", removed)
				}
			case <-j.stopChan:
				return
			}
		}
	}()
}

func (j *Janitor) Stop() {
	j.once.Do(func() { close(j.stopChan) })
}
