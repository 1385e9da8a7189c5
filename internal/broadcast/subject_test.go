package broadcast

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubject_SubscribeGetsCurrentValue(t *testing.T) {
	s := NewSubject(3)
	sub := s.Subscribe()
	defer sub.Cancel()

	assert.Equal(t, 3, <-sub.C())
}

func TestSubject_NextDeliversEveryMutation(t *testing.T) {
	s := NewSubject(0)
	sub := s.Subscribe()
	defer sub.Cancel()
	<-sub.C()

	s.Next(0)
	v, ok := <-sub.C()
	require.True(t, ok)
	assert.Equal(t, 0, v, "unchanged values are still emitted")

	s.Next(5)
	assert.Equal(t, 5, <-sub.C())
	assert.Equal(t, 5, s.Value())
}

func TestSubject_SlowSubscriberSeesLatest(t *testing.T) {
	s := NewSubject("a")
	sub := s.Subscribe()
	defer sub.Cancel()

	s.Next("b")
	s.Next("c")

	assert.Equal(t, "c", <-sub.C())
	select {
	case v := <-sub.C():
		t.Fatalf("unexpected stale value %q", v)
	default:
	}
}

func TestSubscription_Cancel(t *testing.T) {
	s := NewSubject(1)
	sub := s.Subscribe()
	<-sub.C()

	sub.Cancel()
	sub.Cancel()

	s.Next(2)
	_, ok := <-sub.C()
	assert.False(t, ok)
}

func TestSubject_Close(t *testing.T) {
	s := NewSubject(1)
	a, b := s.Subscribe(), s.Subscribe()

	s.Close()
	s.Next(9)

	for _, sub := range []*Subscription[int]{a, b} {
		<-sub.C()
		_, ok := <-sub.C()
		assert.False(t, ok)
	}
	assert.Equal(t, 1, s.Value())

	late := s.Subscribe()
	_, ok := <-late.C()
	assert.False(t, ok)
	late.Cancel()
}

func TestSubject_ConcurrentUse(t *testing.T) {
	s := NewSubject(0)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			s.Next(n)
		}(i)
		go func() {
			defer wg.Done()
			sub := s.Subscribe()
			<-sub.C()
			sub.Cancel()
		}()
	}
	wg.Wait()
}
