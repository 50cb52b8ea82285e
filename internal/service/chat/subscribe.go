package chat

// Subscribe registers for state changes. The returned channel receives the
// current snapshot immediately and then one after every successful select or
// send. Slow readers only ever see the newest snapshot; intermediate ones are
// dropped. cancel closes the channel.
func (s *Service) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)

	s.mu.RLock()
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	ch <- s.snapshotLocked()
	s.subMu.Unlock()
	s.mu.RUnlock()

	cancel := func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// publishLocked must be called with s.mu held for writing.
func (s *Service) publishLocked() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	if len(s.subs) == 0 {
		return
	}

	for _, ch := range s.subs {
		snap := s.snapshotLocked()
		select {
		case ch <- snap:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}
