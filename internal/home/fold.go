package home

import "context"

// Fold runs the reducer over changes in arrival order. The returned channel
// yields initial first and then every reduced state that differs from the
// last one yielded. It is closed when changes is closed or ctx is done.
func Fold(ctx context.Context, initial ViewState, changes <-chan PartialStateChange) <-chan ViewState {
	out := make(chan ViewState)
	go func() {
		defer close(out)

		state := initial
		if !sendState(ctx, out, state) {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case change, ok := <-changes:
				if !ok {
					return
				}
				next := Reduce(state, change)
				if next.Equal(state) {
					continue
				}
				state = next
				if !sendState(ctx, out, state) {
					return
				}
			}
		}
	}()
	return out
}

// Replay is the synchronous form of Fold.
func Replay(initial ViewState, changes ...PartialStateChange) []ViewState {
	states := []ViewState{initial}
	state := initial
	for _, change := range changes {
		next := Reduce(state, change)
		if next.Equal(state) {
			continue
		}
		state = next
		states = append(states, state)
	}
	return states
}

func sendState(ctx context.Context, out chan<- ViewState, state ViewState) bool {
	select {
	case out <- state:
		return true
	case <-ctx.Done():
		return false
	}
}
