package services

import (
	"context"
	"errors"
	"sync"
)

var errStubStoreFailure = errors.New("stub store failure")

// memoryKeyValueStore keeps setup slots in a map and records every mutation.
// Operations listed in failOn fail once their key is reached.
type memoryKeyValueStore struct {
	mu      sync.Mutex
	values  map[string]string
	ops     []string
	failOn  map[string]bool
	getErrs map[string]error
}

func newMemoryKeyValueStore() *memoryKeyValueStore {
	return &memoryKeyValueStore{
		values:  map[string]string{},
		failOn:  map[string]bool{},
		getErrs: map[string]error{},
	}
}

func (store *memoryKeyValueStore) Get(_ context.Context, key string) (string, bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if err := store.getErrs[key]; err != nil {
		return "", false, err
	}
	value, ok := store.values[key]
	return value, ok, nil
}

func (store *memoryKeyValueStore) Set(_ context.Context, key string, value string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	store.ops = append(store.ops, "set "+key)
	if store.failOn["set "+key] {
		return errStubStoreFailure
	}
	store.values[key] = value
	return nil
}

func (store *memoryKeyValueStore) Remove(_ context.Context, key string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	store.ops = append(store.ops, "remove "+key)
	if store.failOn["remove "+key] {
		return errStubStoreFailure
	}
	delete(store.values, key)
	return nil
}

func (store *memoryKeyValueStore) MultiRemove(_ context.Context, keys []string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	store.ops = append(store.ops, "multiremove")
	if store.failOn["multiremove"] {
		return errStubStoreFailure
	}
	for _, key := range keys {
		delete(store.values, key)
	}
	return nil
}

func (store *memoryKeyValueStore) has(key string) bool {
	store.mu.Lock()
	defer store.mu.Unlock()

	_, ok := store.values[key]
	return ok
}

func (store *memoryKeyValueStore) value(key string) string {
	store.mu.Lock()
	defer store.mu.Unlock()

	return store.values[key]
}

func (store *memoryKeyValueStore) put(key string, value string) {
	store.mu.Lock()
	defer store.mu.Unlock()

	store.values[key] = value
}

func (store *memoryKeyValueStore) recordedOps() []string {
	store.mu.Lock()
	defer store.mu.Unlock()

	return append([]string(nil), store.ops...)
}
