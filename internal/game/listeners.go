package game

// Subscription identifies a listener registered with Subscribe.
type Subscription uint64

type subscriber struct {
	id Subscription
	fn func(Event)
}

// listeners delivers events synchronously in registration order.
type listeners struct {
	next Subscription
	subs []subscriber
}

func (l *listeners) add(fn func(Event)) Subscription {
	l.next++
	l.subs = append(l.subs, subscriber{id: l.next, fn: fn})
	return l.next
}

func (l *listeners) remove(id Subscription) bool {
	for i, s := range l.subs {
		if s.id == id {
			l.subs = append(l.subs[:i:i], l.subs[i+1:]...)
			return true
		}
	}
	return false
}

// emit walks the list as it stood when the event was raised, so a
// listener may unsubscribe itself or others while being called.
func (l *listeners) emit(e Event) {
	for _, s := range l.subs {
		s.fn(e)
	}
}
