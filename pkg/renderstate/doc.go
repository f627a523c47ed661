// Package renderstate tracks the lifecycle of an asynchronous fetch or
// computation and renders by status.
//
// An Adapter owns an Idle → Loading → Success/Error state machine for one
// resource. Bound to a key, it shares its state through a store.Store with
// every other adapter bound to the same key; otherwise its state is private.
//
// Basic Usage:
//
//	user := renderstate.New[User]()
//
//	go user.HandleData(ctx, func(ctx context.Context, prev *User, prevErr error) (User, error) {
//	    return db.Users.Find(ctx, id)
//	})
//
//	view := user.Match(renderstate.Handlers[User]{
//	    OnIdle:    func(*User, error) any { return Empty() },
//	    OnLoading: func(prev *User, _ error) any { return Spinner(prev) },
//	    OnSuccess: func(u User, _ *User, _ error) any { return Profile(u) },
//	    OnError:   func(err error, _ *User, _ error) any { return Alert(err) },
//	})
//
// Render dispatch accepts three call shapes, all normalized to Handlers:
//
//	a.Render(onSuccess, onIdle, onLoading, onError) // positional, any may be nil
//	a.RenderSuccess(onSuccess)                      // success only
//	a.Match(renderstate.Handlers[T]{...})           // named
//
// Sharing:
//
//	a := renderstate.New[string](renderstate.WithKey("greeting"), renderstate.WithInitialData("Hello"))
//	b := renderstate.New[string](renderstate.WithKey("greeting"), renderstate.WithInitialData("Eee"))
//	// both render "Hello": the first adapter to register a key seeds it.
//
// Every write an adapter makes carries its id. When the store reports a write
// from a different adapter, the adapter adopts the new state without writing
// it back, so N adapters on one key converge without feedback loops.
//
// Producer errors are recorded as the current error and returned unchanged to
// the caller of HandleData. Inconsistent states (Success without data, Error
// without error, unknown status) render nothing and are logged.
package renderstate
