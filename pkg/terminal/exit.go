// ABOUTME: Process exit hooks: run once, last registered first, before os.Exit.
// ABOUTME: Every terminating path goes through Exit so the terminal is always restored.

package terminal

import (
	"os"
	"sync"
)

// hookSet holds exit hooks and runs them at most once.
type hookSet struct {
	mu   sync.Mutex
	fns  []func()
	once sync.Once
}

func (h *hookSet) add(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.fns = append(h.fns, fn)
}

func (h *hookSet) run() {
	h.once.Do(func() {
		h.mu.Lock()
		fns := h.fns
		h.fns = nil
		h.mu.Unlock()

		for i := len(fns) - 1; i >= 0; i-- {
			fns[i]()
		}
	})
}

var (
	exitHooks = &hookSet{}
	osExit    = os.Exit
)

// OnExit registers fn to run when the process leaves through Exit.
func OnExit(fn func()) {
	exitHooks.add(fn)
}

// RunExitHooks runs the registered hooks. Only the first call has an effect.
func RunExitHooks() {
	exitHooks.run()
}

// Exit runs the exit hooks and terminates the process with code.
func Exit(code int) {
	RunExitHooks()
	osExit(code)
}
