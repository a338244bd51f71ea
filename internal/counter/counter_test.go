package counter

import (
	"testing"

	"github.com/vango-dev/prsh/pkg/vtest"
)

func TestReduce(t *testing.T) {
	tests := []struct {
		name   string
		state  State
		action Action
		want   State
	}{
		{"increment", State{Count: 1}, Increment{}, State{Count: 2}},
		{"decrement", State{Count: 1}, Decrement{}, State{Count: 0}},
		{"decrement below zero", State{}, Decrement{}, State{Count: -1}},
		{"reset", State{Count: 7}, Reset{}, State{}},
		{"reset to value", State{Count: 7}, Reset{To: 3}, State{Count: 3}},
		{"nil action", State{Count: 4}, nil, State{Count: 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Reduce(tt.state, tt.action); got != tt.want {
				t.Errorf("Reduce(%+v, %#v) = %+v, want %+v", tt.state, tt.action, got, tt.want)
			}
		})
	}
}

func TestParseAction(t *testing.T) {
	tests := []struct {
		name string
		want Action
		ok   bool
	}{
		{"increment", Increment{}, true},
		{"DECREMENT", Decrement{}, true},
		{"reset", Reset{}, true},
		{"double", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseAction(tt.name)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ParseAction(%q) = %#v, %v; want %#v, %v", tt.name, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestAppRendersCount(t *testing.T) {
	s := NewStore(0)
	root := vtest.Render(t, App(s))

	root.ExpectContains(`<p class="count">Count: 0</p>`)
	root.ExpectContains(`<p class="parity">even</p>`)
	root.ExpectContains(`<form action="/increment" method="post">`)
	if n := s.ListenerCount(); n != 2 {
		t.Errorf("ListenerCount = %d, want 2", n)
	}

	root.Act(func() { s.Dispatch(Increment{}) })
	root.ExpectContains("Count: 1")
	root.ExpectContains(">odd<")

	root.Unmount()
	if n := s.ListenerCount(); n != 0 {
		t.Errorf("ListenerCount after unmount = %d, want 0", n)
	}
}

func TestParityRendersOnlyOnParityChange(t *testing.T) {
	s := NewStore(0)
	root := vtest.Render(t, App(s))
	before := root.RenderCount()

	// 0 -> 2: Counter re-renders, Parity is unchanged.
	root.Act(func() { s.Dispatch(Reset{To: 2}) })

	root.ExpectContains("Count: 2")
	root.ExpectContains(">even<")
	if got := root.RenderCount() - before; got != 1 {
		t.Errorf("renders = %d, want 1 (Counter only)", got)
	}
}
