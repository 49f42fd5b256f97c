package dispatch

import "testing"

func TestDispatcherLookup(t *testing.T) {
	loginCh := make(chan Request, 1)
	logoutCh := make(chan Request, 1)

	d := NewBuilder().
		Register("LOGIN", loginCh).
		Register("LOGOUT", logoutCh).
		Build()

	ch, ok := d.Lookup("LOGIN")
	if !ok {
		t.Fatal("Lookup(LOGIN) should succeed")
	}
	if ch != chan<- Request(loginCh) {
		t.Error("Lookup(LOGIN) returned the wrong channel")
	}

	if _, ok := d.Lookup("FETCH"); ok {
		t.Error("Lookup(FETCH) should fail, nothing registered")
	}
}

func TestBuilderRegisterDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Register should panic on duplicate verb")
		}
	}()

	ch := make(chan Request, 1)
	NewBuilder().Register("LOGIN", ch).Register("LOGIN", ch)
}

func TestDispatcherCopiesRoutesAtConstruction(t *testing.T) {
	routes := map[string]chan<- Request{
		"LOGIN": make(chan Request, 1),
	}
	d := NewDispatcher(routes)

	routes["LOGOUT"] = make(chan Request, 1)

	if _, ok := d.Lookup("LOGOUT"); ok {
		t.Error("Dispatcher should not observe mutations to the map passed to NewDispatcher")
	}
}
