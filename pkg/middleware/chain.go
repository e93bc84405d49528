package middleware

import "github.com/vango-dev/hybrids/pkg/hybrid"

// Chain combines observers. Each one is notified in order; done callbacks
// run in reverse order.
func Chain(observers ...hybrid.Observer) hybrid.Observer {
	return chain(observers)
}

type chain []hybrid.Observer

func (c chain) FlushStarted(size int) func(failed int) {
	dones := make([]func(int), 0, len(c))
	for _, o := range c {
		dones = append(dones, o.FlushStarted(size))
	}
	return func(failed int) {
		for i := len(dones) - 1; i >= 0; i-- {
			dones[i](failed)
		}
	}
}

func (c chain) Resolved(tag string, found bool) {
	for _, o := range c {
		o.Resolved(tag, found)
	}
}
