// Package store provides the shared, observable registry of render states.
//
// A Store maps string keys to Records. Each Record holds the status of one
// asynchronous resource (Idle, Loading, Success, Error) together with its
// current, previous and initial payloads and the id of the adapter that wrote
// it last. Any number of adapters bound to the same key read and write the
// same Record and are notified of each other's writes.
//
// Usage:
//
//	s := store.New()
//
//	unsubscribe := s.Subscribe(func() {
//	    rec, _ := s.Get("user")
//	    log.Println("user is now", rec.Status)
//	})
//	defer unsubscribe()
//
//	s.Set("user", store.Patch{}.WithStatus(store.Loading))
//	s.Set("user", store.Patch{}.WithStatus(store.Success).WithCurrentData(u))
//
// Writes merge by default. Replace() swaps the whole record and Silent()
// updates the record without notifying listeners:
//
//	s.Set("user", store.FullPatch(rec), store.Replace(), store.Silent())
//
// Locating a store:
// Adapters never reach for a global. They obtain a store from an explicit
// option, from a context populated with NewContext, or fall back to Default:
//
//	ctx = store.NewContext(ctx, s)
//	store.FromContext(ctx) // s
//	store.FromContext(context.Background()) // store.Default()
package store
