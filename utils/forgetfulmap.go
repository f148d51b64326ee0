package utils

import (
	"sync"
	"time"
)

var CLEANUP_INTERVAL = 1 * time.Minute

type forgetfulMapInner[V comparable] struct {
	inner      V
	accessTime time.Time
}

// ForgetfulMap drops entries that have not been touched for TTL.
type ForgetfulMap[K comparable, V comparable] struct {
	mutex    *sync.RWMutex
	TTL      time.Duration
	innerMap map[K]forgetfulMapInner[V]
	stop     chan struct{}
	once     *sync.Once
}

func NewForgetfulMap[K comparable, V comparable](TTL time.Duration) *ForgetfulMap[K, V] {
	fm := &ForgetfulMap[K, V]{
		mutex:    &sync.RWMutex{},
		TTL:      TTL,
		innerMap: make(map[K]forgetfulMapInner[V]),
		stop:     make(chan struct{}),
		once:     &sync.Once{},
	}

	go func() {
		ticker := time.NewTicker(CLEANUP_INTERVAL)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				fm.cleanup()
			case <-fm.stop:
				return
			}
		}
	}()

	return fm
}

func (fm *ForgetfulMap[K, V]) Get(key K) (V, bool) {
	fm.mutex.Lock()
	defer fm.mutex.Unlock()

	inner, exists := fm.innerMap[key]
	if exists {
		inner.accessTime = time.Now()
		fm.innerMap[key] = inner
	}
	return inner.inner, exists
}

// SetIfAbsent stores value only when key has no live entry and reports whether it did.
func (fm *ForgetfulMap[K, V]) SetIfAbsent(key K, value V) bool {
	fm.mutex.Lock()
	defer fm.mutex.Unlock()

	if _, exists := fm.innerMap[key]; exists {
		return false
	}
	fm.innerMap[key] = forgetfulMapInner[V]{inner: value, accessTime: time.Now()}
	return true
}

// CompareAndDelete removes key only while it still maps to value.
func (fm *ForgetfulMap[K, V]) CompareAndDelete(key K, value V) bool {
	fm.mutex.Lock()
	defer fm.mutex.Unlock()

	inner, exists := fm.innerMap[key]
	if !exists || inner.inner != value {
		return false
	}
	delete(fm.innerMap, key)
	return true
}

func (fm *ForgetfulMap[K, V]) Len() int {
	fm.mutex.RLock()
	defer fm.mutex.RUnlock()
	return len(fm.innerMap)
}

func (fm *ForgetfulMap[K, V]) Close() {
	fm.once.Do(func() { close(fm.stop) })
}

func (fm *ForgetfulMap[K, V]) cleanup() {
	fm.mutex.Lock()
	for k, inner := range fm.innerMap {
		if time.Since(inner.accessTime) <= fm.TTL {
			continue
		}

		delete(fm.innerMap, k)
	}
	fm.mutex.Unlock()
}
