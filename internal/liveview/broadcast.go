package liveview

// Updates registers a listener that receives the view after every delivered snapshot.
// A slow listener only ever holds the latest view. The returned func unregisters the
// listener and closes the channel.
func (s *Synchronizer) Updates() (<-chan View, func()) {
	ch := make(chan View, 1)

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = ch
	s.mu.Unlock()

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.listeners[id]; ok {
			delete(s.listeners, id)
			close(c)
		}
	}
}

func (s *Synchronizer) broadcastLocked(v View) {
	for _, ch := range s.listeners {
		select {
		case ch <- v:
			continue
		default:
		}
		// Replace the unread view with the newer one.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- v:
		default:
		}
	}
}
