// Package debounce 提供可取消的 trailing-edge 延遲執行。
// 每次 Schedule 都會取消尚未執行的前一個回呼，只有最後一次會在靜默 delay 後執行。
package debounce

import (
	"sync"
	"time"
)

// Token 代表一次排程，零值表示沒有排程
type Token uint64

// Debouncer 可取消的延遲計時器，可並行使用
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	gen     uint64
	timer   *time.Timer
	pending func()
	stopped bool
}

// New 建立指定延遲的 Debouncer
func New(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Delay 目前的延遲時間
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Schedule 排程 fn，並取消前一個尚未執行的排程。Stop 之後回傳零值 Token。
func (d *Debouncer) Schedule(fn func()) Token {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return 0
	}
	d.cancelLocked()

	gen := d.gen
	d.pending = fn
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
	return Token(gen)
}

// Cancel 取消指定排程，已執行或已被取代時回傳 false
func (d *Debouncer) Cancel(tok Token) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if tok == 0 || uint64(tok) != d.gen || d.pending == nil {
		return false
	}
	d.cancelLocked()
	return true
}

// Flush 立即執行尚未執行的回呼，沒有排程時回傳 false
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	fn := d.pending
	if fn == nil {
		d.mu.Unlock()
		return false
	}
	d.cancelLocked()
	d.mu.Unlock()

	fn()
	return true
}

// Pending 是否有等待中的回呼
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

// Stop 取消等待中的回呼，之後的 Schedule 都不會執行
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.cancelLocked()
	d.stopped = true
}

// cancelLocked 停止計時器並推進世代，已觸發但還沒拿到鎖的回呼會因世代不符而放棄
func (d *Debouncer) cancelLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = nil
	d.gen++
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || d.pending == nil {
		d.mu.Unlock()
		return
	}
	fn := d.pending
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()

	fn()
}
