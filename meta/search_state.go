package meta

import (
	"sync"

	"github.com/qlcliu/thompson/nfa"
)

// SearchState holds per-search mutable state for thread-safe concurrent searches.
// It is obtained from a sync.Pool so one compiled Engine can serve many
// goroutines at once.
//
// Thread safety: Each goroutine must use its own SearchState instance.
type SearchState struct {
	pikevm *nfa.PikeVMState
}

func newSearchState(vm *nfa.PikeVM) *SearchState {
	state := &SearchState{pikevm: nfa.NewPikeVMState()}
	vm.InitState(state.pikevm)
	return state
}

// searchStatePool manages a pool of SearchState instances for thread-safe reuse.
// This follows the stdlib regexp pattern of using sync.Pool for concurrent safety.
type searchStatePool struct {
	pool sync.Pool
	vm   *nfa.PikeVM
}

func newSearchStatePool(vm *nfa.PikeVM) *searchStatePool {
	p := &searchStatePool{vm: vm}
	p.pool = sync.Pool{
		New: func() any {
			return newSearchState(p.vm)
		},
	}
	return p
}

// get retrieves a SearchState from the pool, creating one if necessary.
func (p *searchStatePool) get() *SearchState {
	return p.pool.Get().(*SearchState)
}

// put returns a SearchState to the pool for reuse.
// The PikeVM resets its buffers when a search begins.
func (p *searchStatePool) put(state *SearchState) {
	if state == nil {
		return
	}
	p.pool.Put(state)
}
