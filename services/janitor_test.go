package services

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestJanitorRunsUntilStopped(t *testing.T) {
	var runs int32
	j := NewJanitor("test", 5*time.Millisecond, func() int {
		atomic.AddInt32(&runs, 1)
		return 1
	})
	j.Start()
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&runs) >= 2 }, time.Second, 5*time.Millisecond)

	j.Stop()
	j.Stop()
	time.Sleep(20 * time.Millisecond)
	stopped := atomic.LoadInt32(&runs)
	time.Sleep(30 * time.Millisecond)
	assert.LessOrEqual(t, atomic.LoadInt32(&runs), stopped+1)
}
